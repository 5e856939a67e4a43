package stamp

import (
	"fmt"
	"math"

	"circuitcore/sparse"
)

// Waveform is a time-domain source's value law. Static waveforms (DC) never
// depend on t; dynamic waveforms (e.g. Sine) do — Classify reports which,
// matching rtspice's dc_function/sine_function static_/dynamic constexpr
// flags (_examples/original_source/lib/components/include/sources.hpp).
type Waveform interface {
	Eval(t float32) float32
	Dynamic() bool
}

// DC is a constant waveform.
type DC struct{ V float32 }

func (d DC) Eval(float32) float32 { return d.V }
func (d DC) Dynamic() bool        { return false }

// Sine is a time-varying sinusoid: A*sin(2*pi*f*t + phase), phase in degrees.
type Sine struct{ A, Freq, PhaseDeg float32 }

func (s Sine) Eval(t float32) float32 {
	w := 2 * math.Pi * float64(s.Freq)
	phi := float64(s.PhaseDeg) * math.Pi / 180
	return s.A * float32(math.Sin(w*float64(t)+phi))
}
func (s Sine) Dynamic() bool { return true }

// CurrentSource is an independent current source from A to B (current flows
// into B from A through the source), stamping only the right-hand side.
// Grounded in rtspice's current_source<F>.
type CurrentSource struct {
	A, B string
	W    Waveform

	sys      *sparse.System
	hbA, hbB sparse.Handle
}

func NewCurrentSource(a, b string, w Waveform) *CurrentSource {
	return &CurrentSource{A: a, B: b, W: w}
}

func (c *CurrentSource) Classify() Flags {
	if c.W.Dynamic() {
		return Flags{Dynamic: true}
	}
	return Flags{Static: true}
}

func (c *CurrentSource) Register(t TableRegistrar) {
	t.RegisterNode(c.A)
	t.RegisterNode(c.B)
}

func (c *CurrentSource) Bind(sys *sparse.System) error {
	c.sys = sys
	c.hbA = sys.HandleB(c.A)
	c.hbB = sys.HandleB(c.B)
	return nil
}

func (c *CurrentSource) Fill() {
	i := c.W.Eval(c.sys.Time())
	c.hbA.Add(-i)
	c.hbB.Add(i)
}

// VoltageSource is an independent voltage source from A (+) to B (-),
// introducing an auxiliary branch-current node "J@<ID>" per the spec's
// internal-node naming convention. Grounded in rtspice's voltage_source<F>.
type VoltageSource struct {
	ID, A, B string
	W        Waveform
	branch   string

	sysp               *sparse.System
	haj, hbj, hja, hjb sparse.Handle
	hbjRHS             sparse.Handle
}

func NewVoltageSource(id, a, b string, w Waveform) *VoltageSource {
	return &VoltageSource{ID: id, A: a, B: b, W: w, branch: fmt.Sprintf("J@%s", id)}
}

func (v *VoltageSource) Classify() Flags {
	if v.W.Dynamic() {
		return Flags{Dynamic: true}
	}
	return Flags{Static: true}
}

func (v *VoltageSource) Register(t TableRegistrar) {
	t.RegisterNode(v.A)
	t.RegisterNode(v.B)
	t.RegisterNode(v.branch)
	t.RegisterEntry(v.A, v.branch)
	t.RegisterEntry(v.B, v.branch)
	t.RegisterEntry(v.branch, v.A)
	t.RegisterEntry(v.branch, v.B)
}

func (v *VoltageSource) Bind(sys *sparse.System) error {
	var err error
	if v.haj, err = sys.HandleA(v.A, v.branch); err != nil {
		return err
	}
	if v.hbj, err = sys.HandleA(v.B, v.branch); err != nil {
		return err
	}
	if v.hja, err = sys.HandleA(v.branch, v.A); err != nil {
		return err
	}
	if v.hjb, err = sys.HandleA(v.branch, v.B); err != nil {
		return err
	}
	v.hbjRHS = sys.HandleB(v.branch)
	v.sysp = sys
	return nil
}

func (v *VoltageSource) Fill() {
	v.haj.Add(1)
	v.hbj.Add(-1)
	v.hja.Add(-1)
	v.hjb.Add(1)
	v.hbjRHS.Add(-v.W.Eval(v.sysp.Time()))
}

// Branch returns the internal branch-current node name, for components that
// control a CCCS/CCVS off this source's current (the branch variable in x
// at this node *is* the current flowing from A to B through the source).
func (v *VoltageSource) Branch() string { return v.branch }

// VCVS is a linear voltage-controlled voltage source: Vout = Gain*(Vc-Vd),
// stamped across Out1/Out2 via its own internal branch node. Grounded in
// rtspice's linear_vcvs.
type VCVS struct {
	ID                     string
	Out1, Out2, Ctrl1, Ctrl2 string
	Gain                   float32
	branch                 string

	haj, hbj, hja, hjb, hjc, hjd sparse.Handle
}

func NewVCVS(id, out1, out2, ctrl1, ctrl2 string, gain float32) *VCVS {
	return &VCVS{ID: id, Out1: out1, Out2: out2, Ctrl1: ctrl1, Ctrl2: ctrl2, Gain: gain,
		branch: fmt.Sprintf("J@%s", id)}
}

func (c *VCVS) Classify() Flags { return Flags{Static: true} }

func (c *VCVS) Register(t TableRegistrar) {
	t.RegisterNode(c.Out1)
	t.RegisterNode(c.Out2)
	t.RegisterNode(c.Ctrl1)
	t.RegisterNode(c.Ctrl2)
	t.RegisterNode(c.branch)
	t.RegisterEntry(c.Out1, c.branch)
	t.RegisterEntry(c.Out2, c.branch)
	t.RegisterEntry(c.branch, c.Out1)
	t.RegisterEntry(c.branch, c.Out2)
	t.RegisterEntry(c.branch, c.Ctrl1)
	t.RegisterEntry(c.branch, c.Ctrl2)
}

func (c *VCVS) Bind(sys *sparse.System) error {
	var err error
	if c.haj, err = sys.HandleA(c.Out1, c.branch); err != nil {
		return err
	}
	if c.hbj, err = sys.HandleA(c.Out2, c.branch); err != nil {
		return err
	}
	if c.hja, err = sys.HandleA(c.branch, c.Out1); err != nil {
		return err
	}
	if c.hjb, err = sys.HandleA(c.branch, c.Out2); err != nil {
		return err
	}
	if c.hjc, err = sys.HandleA(c.branch, c.Ctrl1); err != nil {
		return err
	}
	if c.hjd, err = sys.HandleA(c.branch, c.Ctrl2); err != nil {
		return err
	}
	return nil
}

func (c *VCVS) Fill() {
	c.haj.Add(1)
	c.hbj.Add(-1)
	c.hja.Add(-1)
	c.hjb.Add(1)
	c.hjc.Add(c.Gain)
	c.hjd.Add(-c.Gain)
}

// VCCS is a linear voltage-controlled current source (transconductor):
// I(Out1->Out2) = Gm*(Vc-Vd). No internal branch is needed. Grounded in
// rtspice's linear_vccs.
type VCCS struct {
	Out1, Out2, Ctrl1, Ctrl2 string
	Gm                       float32

	hac, had, hbc, hbd sparse.Handle
}

func NewVCCS(out1, out2, ctrl1, ctrl2 string, gm float32) *VCCS {
	return &VCCS{Out1: out1, Out2: out2, Ctrl1: ctrl1, Ctrl2: ctrl2, Gm: gm}
}

func (c *VCCS) Classify() Flags { return Flags{Static: true} }

func (c *VCCS) Register(t TableRegistrar) {
	t.RegisterNode(c.Out1)
	t.RegisterNode(c.Out2)
	t.RegisterNode(c.Ctrl1)
	t.RegisterNode(c.Ctrl2)
	t.RegisterEntry(c.Out1, c.Ctrl1)
	t.RegisterEntry(c.Out1, c.Ctrl2)
	t.RegisterEntry(c.Out2, c.Ctrl1)
	t.RegisterEntry(c.Out2, c.Ctrl2)
}

func (c *VCCS) Bind(sys *sparse.System) error {
	var err error
	if c.hac, err = sys.HandleA(c.Out1, c.Ctrl1); err != nil {
		return err
	}
	if c.had, err = sys.HandleA(c.Out1, c.Ctrl2); err != nil {
		return err
	}
	if c.hbc, err = sys.HandleA(c.Out2, c.Ctrl1); err != nil {
		return err
	}
	if c.hbd, err = sys.HandleA(c.Out2, c.Ctrl2); err != nil {
		return err
	}
	return nil
}

func (c *VCCS) Fill() {
	c.hac.Add(c.Gm)
	c.had.Add(-c.Gm)
	c.hbc.Add(-c.Gm)
	c.hbd.Add(c.Gm)
}

// CCCS is a linear current-controlled current source: Iout(Out1->Out2) =
// Gain*Ictrl, where Ictrl is the current flowing from Ctrl1 to Ctrl2 through
// an auxiliary zero-volt sense branch this component introduces itself (it
// does not need to reuse another voltage source's branch). Grounded in
// rtspice's linear_cccs.
type CCCS struct {
	ID                       string
	Out1, Out2, Ctrl1, Ctrl2 string
	Gain                     float32
	branch                   string

	haj, hbj, hcj, hdj, hjc, hjd sparse.Handle
}

func NewCCCS(id, out1, out2, ctrl1, ctrl2 string, gain float32) *CCCS {
	return &CCCS{ID: id, Out1: out1, Out2: out2, Ctrl1: ctrl1, Ctrl2: ctrl2, Gain: gain,
		branch: fmt.Sprintf("J@%s", id)}
}

func (c *CCCS) Classify() Flags { return Flags{Static: true} }

func (c *CCCS) Register(t TableRegistrar) {
	t.RegisterNode(c.Out1)
	t.RegisterNode(c.Out2)
	t.RegisterNode(c.Ctrl1)
	t.RegisterNode(c.Ctrl2)
	t.RegisterNode(c.branch)
	t.RegisterEntry(c.Out1, c.branch)
	t.RegisterEntry(c.Out2, c.branch)
	t.RegisterEntry(c.Ctrl1, c.branch)
	t.RegisterEntry(c.Ctrl2, c.branch)
	t.RegisterEntry(c.branch, c.Ctrl1)
	t.RegisterEntry(c.branch, c.Ctrl2)
}

func (c *CCCS) Bind(sys *sparse.System) error {
	var err error
	if c.haj, err = sys.HandleA(c.Out1, c.branch); err != nil {
		return err
	}
	if c.hbj, err = sys.HandleA(c.Out2, c.branch); err != nil {
		return err
	}
	if c.hcj, err = sys.HandleA(c.Ctrl1, c.branch); err != nil {
		return err
	}
	if c.hdj, err = sys.HandleA(c.Ctrl2, c.branch); err != nil {
		return err
	}
	if c.hjc, err = sys.HandleA(c.branch, c.Ctrl1); err != nil {
		return err
	}
	if c.hjd, err = sys.HandleA(c.branch, c.Ctrl2); err != nil {
		return err
	}
	return nil
}

func (c *CCCS) Fill() {
	c.haj.Add(c.Gain)
	c.hbj.Add(-c.Gain)
	c.hcj.Add(1)
	c.hdj.Add(-1)
	c.hjc.Add(-1)
	c.hjd.Add(1)
}

// CCVS is a linear current-controlled voltage source (transresistance):
// Vout = Gain*Ictrl, via two internal nodes (an output branch and a sense
// branch). Grounded in rtspice's linear_ccvs.
type CCVS struct {
	ID                       string
	Out1, Out2, Ctrl1, Ctrl2 string
	Gain                     float32
	jOut, jSense             string

	haj, hbj, hjoa, hjob sparse.Handle
	hcs, hds, hsc, hsd   sparse.Handle
	hjos                 sparse.Handle
}

func NewCCVS(id, out1, out2, ctrl1, ctrl2 string, gain float32) *CCVS {
	return &CCVS{ID: id, Out1: out1, Out2: out2, Ctrl1: ctrl1, Ctrl2: ctrl2, Gain: gain,
		jOut: fmt.Sprintf("Jx@%s", id), jSense: fmt.Sprintf("Jy@%s", id)}
}

func (c *CCVS) Classify() Flags { return Flags{Static: true} }

func (c *CCVS) Register(t TableRegistrar) {
	t.RegisterNode(c.Out1)
	t.RegisterNode(c.Out2)
	t.RegisterNode(c.Ctrl1)
	t.RegisterNode(c.Ctrl2)
	t.RegisterNode(c.jOut)
	t.RegisterNode(c.jSense)
	t.RegisterEntry(c.Out1, c.jOut)
	t.RegisterEntry(c.Out2, c.jOut)
	t.RegisterEntry(c.jOut, c.Out1)
	t.RegisterEntry(c.jOut, c.Out2)
	t.RegisterEntry(c.Ctrl1, c.jSense)
	t.RegisterEntry(c.Ctrl2, c.jSense)
	t.RegisterEntry(c.jSense, c.Ctrl1)
	t.RegisterEntry(c.jSense, c.Ctrl2)
	t.RegisterEntry(c.jOut, c.jSense)
}

func (c *CCVS) Bind(sys *sparse.System) error {
	var err error
	if c.haj, err = sys.HandleA(c.Out1, c.jOut); err != nil {
		return err
	}
	if c.hbj, err = sys.HandleA(c.Out2, c.jOut); err != nil {
		return err
	}
	if c.hjoa, err = sys.HandleA(c.jOut, c.Out1); err != nil {
		return err
	}
	if c.hjob, err = sys.HandleA(c.jOut, c.Out2); err != nil {
		return err
	}
	if c.hcs, err = sys.HandleA(c.Ctrl1, c.jSense); err != nil {
		return err
	}
	if c.hds, err = sys.HandleA(c.Ctrl2, c.jSense); err != nil {
		return err
	}
	if c.hsc, err = sys.HandleA(c.jSense, c.Ctrl1); err != nil {
		return err
	}
	if c.hsd, err = sys.HandleA(c.jSense, c.Ctrl2); err != nil {
		return err
	}
	if c.hjos, err = sys.HandleA(c.jOut, c.jSense); err != nil {
		return err
	}
	return nil
}

// Fill stamps a 0V sense branch between Ctrl1/Ctrl2 (forcing Vc=Vd while
// exposing the current flowing through it as the jSense branch variable),
// an output branch that forces Vout1-Vout2 to equal Gain times that sensed
// current, and the two branch equations linking them.
func (c *CCVS) Fill() {
	c.haj.Add(1)
	c.hbj.Add(-1)
	c.hjoa.Add(-1)
	c.hjob.Add(1)
	c.hcs.Add(1)
	c.hds.Add(-1)
	c.hsc.Add(-1)
	c.hsd.Add(1)
	c.hjos.Add(c.Gain)
}
