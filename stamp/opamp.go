package stamp

import (
	"fmt"

	"circuitcore/sparse"
)

// OpAmp is an ideal operational amplifier: infinite open-loop gain enforced
// by a 0V constraint between its inputs (C, D) and an internal branch
// node carrying whatever current the output (A, B) needs to supply. Fully
// static: the stamp never depends on a node voltage or on time. Grounded in
// rtspice's ideal_opamp
// (_examples/original_source/lib/components/include/opamp.hpp).
type OpAmp struct {
	ID, A, B, C, D string
	branch         string

	haj, hbj, hjc, hjd sparse.Handle
}

// NewOpAmp returns an ideal op-amp stamp: output across A(+)/B(-), inputs
// sensed across C(+)/D(-).
func NewOpAmp(id, a, b, c, d string) *OpAmp {
	return &OpAmp{ID: id, A: a, B: b, C: c, D: d, branch: fmt.Sprintf("J@%s", id)}
}

func (o *OpAmp) Classify() Flags { return Flags{Static: true} }

func (o *OpAmp) Register(t TableRegistrar) {
	t.RegisterNode(o.A)
	t.RegisterNode(o.B)
	t.RegisterNode(o.C)
	t.RegisterNode(o.D)
	t.RegisterNode(o.branch)
	t.RegisterEntry(o.A, o.branch)
	t.RegisterEntry(o.B, o.branch)
	t.RegisterEntry(o.branch, o.C)
	t.RegisterEntry(o.branch, o.D)
}

func (o *OpAmp) Bind(sys *sparse.System) error {
	var err error
	if o.haj, err = sys.HandleA(o.A, o.branch); err != nil {
		return err
	}
	if o.hbj, err = sys.HandleA(o.B, o.branch); err != nil {
		return err
	}
	if o.hjc, err = sys.HandleA(o.branch, o.C); err != nil {
		return err
	}
	if o.hjd, err = sys.HandleA(o.branch, o.D); err != nil {
		return err
	}
	return nil
}

func (o *OpAmp) Fill() {
	o.haj.Add(1)
	o.hbj.Add(-1)
	o.hjc.Add(1)
	o.hjd.Add(-1)
}
