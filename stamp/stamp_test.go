package stamp_test

import (
	"testing"

	"circuitcore/sim"
	"circuitcore/stamp"
)

func mustAdvance(t *testing.T, d *sim.Driver, dt float32) {
	t.Helper()
	n, err := d.Advance(dt)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if n <= 0 {
		t.Fatalf("Advance did not converge: code %d", n)
	}
}

func TestVCVSTransfer(t *testing.T) {
	const vin, gain = 2.0, 3.0
	components := []stamp.Component{
		stamp.NewVoltageSource("V1", "vin", "0", stamp.DC{V: vin}),
		stamp.NewVCVS("E1", "out", "0", "vin", "0", gain),
		stamp.NewLinearResistor("out", "0", 1000), // ties "out" to a finite reference
	}
	d, err := sim.Build(components)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mustAdvance(t, d, 1e-3)

	want := float32(vin * gain)
	got := d.NodeVoltage("out")
	if d := got - want; d > 1e-3 || d < -1e-3 {
		t.Fatalf("Vout = %v, want %v", got, want)
	}
}

func TestVCCSTransconductance(t *testing.T) {
	const vin, gm, rload = 1.0, 1e-3, 1000.0
	components := []stamp.Component{
		stamp.NewVoltageSource("V1", "vin", "0", stamp.DC{V: vin}),
		stamp.NewVCCS("out", "0", "vin", "0", gm),
		stamp.NewLinearResistor("out", "0", rload),
	}
	d, err := sim.Build(components)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mustAdvance(t, d, 1e-3)

	// The VCCS drives Gm*Vin from Out1 ("out") to Out2 (ground) through
	// itself, drawing that current out of "out"; the load resistor supplies
	// it. At the node balance: Vout/Rload + Gm*Vin = 0 -> Vout = -Gm*Vin*Rload.
	want := float32(-gm * vin * rload)
	got := d.NodeVoltage("out")
	if d := got - want; d > 1e-3 || d < -1e-3 {
		t.Fatalf("Vout = %v, want %v", got, want)
	}
}

func TestCCVSTransfer(t *testing.T) {
	const vin, r, gain = 2.0, 1000.0, 500.0
	components := []stamp.Component{
		stamp.NewVoltageSource("V1", "vs", "0", stamp.DC{V: vin}),
		stamp.NewLinearResistor("vs", "ctrlA", r),
		stamp.NewCCVS("E1", "out", "0", "ctrlA", "0", gain),
		stamp.NewLinearResistor("out", "0", 1000), // ties "out" to a finite reference
	}
	d, err := sim.Build(components)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mustAdvance(t, d, 1e-3)

	// ctrlA is forced to 0V by the CCVS's zero-volt sense branch, so the
	// sensed current Ictrl (ctrlA -> ground) equals the current R1 carries:
	// Vin/R. Vout = Gain*Ictrl.
	wantIctrl := float32(vin / r)
	want := gain * wantIctrl
	got := d.NodeVoltage("out")
	if d := got - want; d > 1e-3 || d < -1e-3 {
		t.Fatalf("Vout = %v, want %v", got, want)
	}
}

func TestCapacitorBlocksDCAfterSettling(t *testing.T) {
	const v0, r, c = 5.0, 1000.0, 1e-6
	components := []stamp.Component{
		stamp.NewVoltageSource("V1", "vin", "0", stamp.DC{V: v0}),
		stamp.NewLinearResistor("vin", "out", r),
		stamp.NewCapacitor("C1", "out", "0", c),
	}
	d, err := sim.Build(components)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dt := float32(r * c / 20)
	for i := 0; i < 400; i++ {
		mustAdvance(t, d, dt)
	}
	got := d.NodeVoltage("out")
	if d := got - float32(v0); d > 0.1 || d < -0.1 {
		t.Fatalf("Vout after settling = %v, want close to %v", got, v0)
	}
}

func TestDiodeForwardConducts(t *testing.T) {
	components := []stamp.Component{
		stamp.NewVoltageSource("V1", "vin", "0", stamp.DC{V: 1}),
		stamp.NewLinearResistor("vin", "a", 1000),
		stamp.NewDiode("a", "0", 1e-14, 1),
	}
	d, err := sim.Build(components)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mustAdvance(t, d, 1e-3)

	va := d.NodeVoltage("a")
	if va <= 0 || va >= 1 {
		t.Fatalf("forward-biased diode voltage %v should sit strictly between 0V and the 1V supply", va)
	}
}
