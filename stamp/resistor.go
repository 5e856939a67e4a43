package stamp

import (
	"math"

	"circuitcore/sparse"
)

// Transfer is a nonlinear resistor's current law: given the terminal
// voltage v, it returns the current f(v) and its derivative df/dv. A
// TwoTerminal linearizes around v using f and G=df exactly as the spec's
// general nonlinear-resistor stamp prescribes (§4.2): G=df, I=f-G*v, stamp
// +G/-G/-G/+G into the conductance block and -I/+I into the RHS.
type Transfer interface {
	Eval(v float32) (f, df float32)
}

// Linear is a Transfer for an ordinary linear resistor/conductance.
type Linear struct{ G float32 }

// Eval implements Transfer.
func (l Linear) Eval(v float32) (f, df float32) { return l.G * v, l.G }

// TwoTerminal is the general two-terminal nonlinear (or linear, via Linear)
// resistor stamp between nodes A and B, linearized through F every Fill.
// Grounded in rtspice's resistor<F> template
// (_examples/original_source/lib/components/include/resistor.hpp).
type TwoTerminal struct {
	A, B  string
	F     Transfer
	flags Flags

	haa, hab, hba, hbb sparse.Handle
	hbA, hbB           sparse.Handle
	hxA, hxB           sparse.Handle
}

// NewLinearResistor returns a static two-terminal resistor of resistance r
// (ohms) between a and b.
func NewLinearResistor(a, b string, r float32) *TwoTerminal {
	return &TwoTerminal{A: a, B: b, F: Linear{G: 1 / r}, flags: Flags{Static: true}}
}

// NewConductance returns a static two-terminal conductance g (siemens)
// between a and b — the same stamp as NewLinearResistor, exposed directly
// in siemens for callers computing conductances (e.g. companion models).
func NewConductance(a, b string, g float32) *TwoTerminal {
	return &TwoTerminal{A: a, B: b, F: Linear{G: g}, flags: Flags{Static: true}}
}

// NewNonlinearResistor returns a nonlinear two-terminal resistor governed by
// an arbitrary Transfer (e.g. Shockley for a diode).
func NewNonlinearResistor(a, b string, f Transfer) *TwoTerminal {
	return &TwoTerminal{A: a, B: b, F: f, flags: Flags{Nonlinear: true}}
}

// Classify implements Component.
func (r *TwoTerminal) Classify() Flags { return r.flags }

// Register implements Component.
func (r *TwoTerminal) Register(t TableRegistrar) {
	t.RegisterNode(r.A)
	t.RegisterNode(r.B)
	t.RegisterEntry(r.A, r.A)
	t.RegisterEntry(r.A, r.B)
	t.RegisterEntry(r.B, r.A)
	t.RegisterEntry(r.B, r.B)
}

// Bind implements Component.
func (r *TwoTerminal) Bind(sys *sparse.System) error {
	var err error
	if r.haa, err = sys.HandleA(r.A, r.A); err != nil {
		return err
	}
	if r.hab, err = sys.HandleA(r.A, r.B); err != nil {
		return err
	}
	if r.hba, err = sys.HandleA(r.B, r.A); err != nil {
		return err
	}
	if r.hbb, err = sys.HandleA(r.B, r.B); err != nil {
		return err
	}
	r.hbA = sys.HandleB(r.A)
	r.hbB = sys.HandleB(r.B)
	r.hxA = sys.HandleX(r.A)
	r.hxB = sys.HandleX(r.B)
	return nil
}

// Fill implements Component.
func (r *TwoTerminal) Fill() {
	v := r.hxA.Get() - r.hxB.Get()
	f, df := r.F.Eval(v)
	g := df
	i0 := f - g*v

	r.haa.Add(g)
	r.hab.Add(-g)
	r.hba.Add(-g)
	r.hbb.Add(g)

	r.hbA.Add(-i0)
	r.hbB.Add(i0)
}

// Shockley is the diode Transfer: I=Is*(exp(v/(N*Vt))-1), linearly
// extrapolated above a knee voltage to keep the exponential from
// overflowing during early Newton iterations far from the solution.
//
// Grounded in rtspice's diode_resistance
// (_examples/original_source/lib/components/include/resistor.hpp): same
// constants (k, q, T=300K), same 0.8V knee, same linear-extrapolation
// scheme, translated from expf/log1pf to math.Exp/math.Expm1 per the
// spec's explicit instruction to use log1p/expm1 rather than exp directly
// against 1.
type Shockley struct {
	Is, NVt float32
	vKnee   float32
	eSat    float32
	dfSat   float32
}

// NewShockley builds a Shockley transfer for a diode with saturation
// current is (amps) and emission coefficient n, at room temperature (300K).
func NewShockley(is, n float32) Shockley {
	const (
		boltzmann = 1.380649e-23
		electron  = 1.602176634e-19
		temp      = 300.0
	)
	vt := float32(boltzmann * temp / electron)
	nvt := n * vt
	const vKnee = float32(0.8)

	vn := vKnee / nvt
	eSat := is * float32(math.Expm1(float64(vn)))
	dfSat := is * float32(math.Exp(float64(vn))) / nvt

	return Shockley{Is: is, NVt: nvt, vKnee: vKnee, eSat: eSat, dfSat: dfSat}
}

// Eval implements Transfer.
func (s Shockley) Eval(v float32) (f, df float32) {
	if v < s.vKnee {
		vn := v / s.NVt
		f = s.Is * float32(math.Expm1(float64(vn)))
		df = s.Is * float32(math.Exp(float64(vn))) / s.NVt
		return f, df
	}
	f = s.eSat + s.dfSat*(v-s.vKnee)
	df = s.dfSat
	return f, df
}

// NewDiode returns a nonlinear two-terminal diode (anode a, cathode b) with
// saturation current is (amps) and emission coefficient n.
func NewDiode(a, b string, is, n float32) *TwoTerminal {
	return NewNonlinearResistor(a, b, NewShockley(is, n))
}
