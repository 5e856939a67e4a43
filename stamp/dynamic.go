package stamp

import (
	"fmt"

	"circuitcore/sparse"
)

// Companion is a dynamic two-terminal element's trapezoidal companion-model
// law: given the previous accepted terminal voltage v0, the previous
// accepted branch current j0, and the timestep dt, returns the equivalent
// series resistance R and series voltage source V of the companion model.
type Companion interface {
	Eval(v0, j0, dt float32) (r, v float32)
}

// CapacitorCompanion is the trapezoidal-rule companion law for a capacitor
// of capacitance C farads: R=dt/(2C), V=v0+R*j0. Grounded in rtspice's
// linear_capacitor_trapezoidal (dynamic.hpp) and independently confirmed by
// the teacher's element/base/Capacitor.go (G_eq=2C/dt, same trapezoidal
// form up to the R vs G inverse).
type CapacitorCompanion struct{ C float32 }

func (c CapacitorCompanion) Eval(v0, j0, dt float32) (r, v float32) {
	r = dt / (2 * c.C)
	v = v0 + r*j0
	return r, v
}

// InductorCompanion is the trapezoidal-rule companion law for an inductor of
// inductance L henries: R=2L/dt, V=-(v0+R*j0) (the source sign is reversed
// relative to the capacitor case). Grounded in rtspice's
// linear_inductor_trapezoidal.
type InductorCompanion struct{ L float32 }

func (c InductorCompanion) Eval(v0, j0, dt float32) (r, v float32) {
	r = 2 * c.L / dt
	v = -(v0 + r*j0)
	return r, v
}

// Dynamic is the shared stamp for capacitors and inductors: a two-terminal
// element with an internal branch-current node "J@<ID>", whose fill reads
// the *previous accepted timestep's* state (not the live Newton iterate —
// §4.2's "dynamic stamps read x_state, never x") and re-linearizes the
// trapezoidal companion model around it. Grounded in rtspice's dynamic<F>
// (_examples/original_source/lib/components/include/dynamic.hpp).
type Dynamic struct {
	ID, A, B string
	F        Companion
	branch   string

	sys                      *sparse.System
	haj, hbj, hja, hjb, hjj  sparse.Handle
	hbj2                     sparse.Handle
	hxStateA, hxStateB, hxStateJ sparse.Handle
}

func newDynamic(id, a, b string, f Companion) *Dynamic {
	return &Dynamic{ID: id, A: a, B: b, F: f, branch: fmt.Sprintf("J@%s", id)}
}

// NewCapacitor returns a dynamic capacitor stamp of capacitance c farads.
func NewCapacitor(id, a, b string, c float32) *Dynamic {
	return newDynamic(id, a, b, CapacitorCompanion{C: c})
}

// NewInductor returns a dynamic inductor stamp of inductance l henries.
func NewInductor(id, a, b string, l float32) *Dynamic {
	return newDynamic(id, a, b, InductorCompanion{L: l})
}

func (d *Dynamic) Classify() Flags { return Flags{Dynamic: true} }

func (d *Dynamic) Register(t TableRegistrar) {
	t.RegisterNode(d.A)
	t.RegisterNode(d.B)
	t.RegisterNode(d.branch)
	t.RegisterEntry(d.A, d.branch)
	t.RegisterEntry(d.B, d.branch)
	t.RegisterEntry(d.branch, d.A)
	t.RegisterEntry(d.branch, d.B)
	t.RegisterEntry(d.branch, d.branch)
}

func (d *Dynamic) Bind(sys *sparse.System) error {
	var err error
	if d.haj, err = sys.HandleA(d.A, d.branch); err != nil {
		return err
	}
	if d.hbj, err = sys.HandleA(d.B, d.branch); err != nil {
		return err
	}
	if d.hja, err = sys.HandleA(d.branch, d.A); err != nil {
		return err
	}
	if d.hjb, err = sys.HandleA(d.branch, d.B); err != nil {
		return err
	}
	if d.hjj, err = sys.HandleA(d.branch, d.branch); err != nil {
		return err
	}
	d.hbj2 = sys.HandleB(d.branch)
	d.hxStateA = sys.HandleXState(d.A)
	d.hxStateB = sys.HandleXState(d.B)
	d.hxStateJ = sys.HandleXState(d.branch)
	d.sys = sys
	return nil
}

func (d *Dynamic) Fill() {
	v0 := d.hxStateA.Get() - d.hxStateB.Get()
	j0 := d.hxStateJ.Get()
	r, v := d.F.Eval(v0, j0, d.sys.DeltaTime())

	d.haj.Add(1)
	d.hbj.Add(-1)
	d.hja.Add(-1)
	d.hjb.Add(1)
	d.hjj.Add(r)
	d.hbj2.Add(-v)
}
