package sim_test

import (
	"math"
	"testing"

	"circuitcore/sim"
	"circuitcore/stamp"
)

func approxEqual(t *testing.T, got, want, tol float32, msg string) {
	t.Helper()
	d := got - want
	if d < 0 {
		d = -d
	}
	if d > tol {
		t.Fatalf("%s: got %v, want %v (tol %v)", msg, got, want, tol)
	}
}

// Scenario 1 (§8): a resistive divider. A 10V DC source feeds R1 into node
// "mid", R2 from "mid" to ground: Vmid = V*R2/(R1+R2).
func TestResistiveDivider(t *testing.T) {
	const v0, r1, r2 = 10.0, 1000.0, 1000.0

	vs := stamp.NewVoltageSource("V1", "vin", "0", stamp.DC{V: v0})
	components := []stamp.Component{
		vs,
		stamp.NewLinearResistor("vin", "mid", r1),
		stamp.NewLinearResistor("mid", "0", r2),
	}

	d, err := sim.Build(components)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n, err := d.Advance(1e-3)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if n <= 0 {
		t.Fatalf("Advance did not converge: code %d", n)
	}

	want := float32(v0 * r2 / (r1 + r2))
	approxEqual(t, d.NodeVoltage("mid"), want, 1e-3, "Vmid")
	approxEqual(t, d.NodeVoltage("vin"), v0, 1e-3, "Vin")
}

// Scenario 2 (§8): a 1mA current source into a diode clamp to ground.
// Cross-check the simulator's steady-state clamp voltage against an
// independent Newton solve of the same Shockley law run directly in the
// test (not through the simulator), rather than a closed-form oracle.
func TestCurrentSourceDiodeClamp(t *testing.T) {
	const is, n, current = 1e-14, 1.0, 1e-3

	components := []stamp.Component{
		stamp.NewCurrentSource("0", "a", stamp.DC{V: current}),
		stamp.NewDiode("a", "0", is, n),
	}
	d, err := sim.Build(components)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	iter, err := d.Advance(1e-3)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if iter <= 0 {
		t.Fatalf("Advance did not converge: code %d", iter)
	}

	shock := stamp.NewShockley(is, n)
	v := float32(0.6)
	for i := 0; i < 50; i++ {
		f, df := shock.Eval(v)
		v -= (f - current) / df
	}

	approxEqual(t, d.NodeVoltage("a"), v, 1e-3, "clamp voltage")
}

// Scenario 3 (§8): an RC low-pass step response. Vc(t) approaches V0
// monotonically and, after many time constants, sits within a few percent
// of the final value — the qualifying behavior a trapezoidal-rule
// transient integrator must reproduce regardless of its discretization
// error at any single step.
func TestRCLowPassTransient(t *testing.T) {
	const v0, r, c = 5.0, 1000.0, 1e-6
	tau := r * c

	components := []stamp.Component{
		stamp.NewVoltageSource("V1", "vin", "0", stamp.DC{V: v0}),
		stamp.NewLinearResistor("vin", "out", r),
		stamp.NewCapacitor("C1", "out", "0", c),
	}
	d, err := sim.Build(components)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	dt := float32(tau / 20)
	var last float32
	for step := 0; step < 400; step++ {
		iter, err := d.Advance(dt)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if iter <= 0 {
			t.Fatalf("Advance did not converge at step %d: code %d", step, iter)
		}
		v := d.NodeVoltage("out")
		if v < last-1e-4 {
			t.Fatalf("Vout decreased at step %d: %v -> %v", step, last, v)
		}
		last = v
	}
	// 400 steps of tau/20 is 20 time constants: within noise of the final value.
	approxEqual(t, last, float32(v0), 0.05, "Vout after 20 time constants")
}

// Scenario 4 (§8): a diode half-wave rectifier charging an RC smoothing
// stage from a 12V 1kHz sine source. Over 5ms at 1us steps every Advance
// must converge (i > 0) and the smoothed output must never go negative,
// since the diode only ever sources current into the RC filter.
func TestDiodeHalfWaveRectifier(t *testing.T) {
	const amplitude, freq, r, c, is, n = 12.0, 1000.0, 2200.0, 10e-6, 4.352e-9, 1.906

	components := []stamp.Component{
		stamp.NewVoltageSource("V1", "vin", "0", stamp.Sine{A: amplitude, Freq: freq}),
		stamp.NewDiode("vin", "rect", is, n),
		stamp.NewLinearResistor("rect", "0", r),
		stamp.NewCapacitor("C1", "rect", "0", c),
	}
	d, err := sim.Build(components)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	const dt = 1e-6
	const steps = 5000 // 5ms / 1us
	for step := 0; step < steps; step++ {
		iter, err := d.Advance(dt)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if iter <= 0 {
			t.Fatalf("Advance did not converge at step %d: code %d", step, iter)
		}
		if v := d.NodeVoltage("rect"); v < -1e-3 {
			t.Fatalf("rectified output went negative at step %d: %v", step, v)
		}
	}
}

// Scenario 5 (§8): an ideal op-amp inverting stage, Vout = -(Rf/Rin)*Vin.
func TestOpAmpInvertingStage(t *testing.T) {
	const vin, rin, rf = 1.0, 1000.0, 4000.0

	components := []stamp.Component{
		stamp.NewVoltageSource("V1", "vin", "0", stamp.DC{V: vin}),
		stamp.NewLinearResistor("vin", "inv", rin),
		stamp.NewLinearResistor("inv", "out", rf),
		stamp.NewOpAmp("U1", "out", "0", "inv", "0"),
	}
	d, err := sim.Build(components)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	iter, err := d.Advance(1e-3)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if iter <= 0 {
		t.Fatalf("Advance did not converge: code %d", iter)
	}

	want := float32(-(rf / rin) * vin)
	approxEqual(t, d.NodeVoltage("out"), want, 1e-3, "Vout")
}

// Scenario 6 (§8): a common-emitter BJT stage biased into its active
// region. No closed-form oracle; this asserts the Newton loop converges and
// the collector voltage lands at a plausible operating point strictly
// between ground and the supply rail, which only holds if both junction
// diodes and both current mirrors are stamped with consistent signs.
func TestCommonEmitterBJTStage(t *testing.T) {
	const vcc, rc, rb, is, bf, br = 9.0, 2200.0, 220000.0, 1e-14, 100.0, 1.0

	components := []stamp.Component{
		stamp.NewVoltageSource("Vcc", "vcc", "0", stamp.DC{V: vcc}),
		stamp.NewLinearResistor("vcc", "coll", rc),
		stamp.NewLinearResistor("vcc", "base", rb),
		stamp.NewNPN("Q1", "coll", "base", "0", is, bf, br),
	}
	d, err := sim.Build(components)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	iter, err := d.Advance(1e-3)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if iter <= 0 {
		t.Fatalf("Advance did not converge: code %d", iter)
	}

	vc := d.NodeVoltage("coll")
	if vc <= 0 || vc >= vcc {
		t.Fatalf("collector voltage %v is not a plausible bias point in (0, %v)", vc, vcc)
	}
}

func TestAdvanceRejectsInvalidTimestep(t *testing.T) {
	components := []stamp.Component{
		stamp.NewVoltageSource("V1", "vin", "0", stamp.DC{V: 1}),
		stamp.NewLinearResistor("vin", "0", 1000),
	}
	d, err := sim.Build(components)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, dt := range []float32{0, -1, float32(math.NaN()), float32(math.Inf(1))} {
		if _, err := d.Advance(dt); err == nil {
			t.Fatalf("Advance(%v) should reject an invalid timestep", dt)
		}
	}
}
