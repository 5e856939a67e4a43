package stamp

import (
	"fmt"

	"circuitcore/sparse"
)

// BJT is an Ebers-Moll bipolar junction transistor composed from two diodes
// (base-emitter, base-collector) and two linear current-controlled current
// sources mirroring each junction's diode current to the opposite
// terminal. It registers/binds/fills as a single nonlinear Component —
// even though its two CCCS sub-stamps are individually linear, the whole
// device is classified nonlinear so every sub-stamp re-fills each Newton
// iteration alongside the diodes it depends on, exactly as rtspice's
// bipolar_npn/bipolar_pnp classify themselves (is_nonlinear() only).
//
// Grounded in _examples/original_source/lib/components/include/bipolar.hpp:
// the internal node names ("be@<id>", "bc@<id>"), the two diodes, and the
// two CCCS gains (Bf/(1+Bf), Br/(1+Br)) all match; this package follows the
// spec's glossary convention <purpose>@<id> for internal node names rather
// than rtspice's own "@J"+id prefix style.
type BJT struct {
	diodeBE, diodeBC *TwoTerminal
	forward, reverse *CCCS
}

// NewNPN returns an NPN BJT with collector c, base b, emitter e, saturation
// current is (amps), and forward/reverse common-emitter current gains bf/br
// (dimensionless); the common-base gains bf/(1+bf) and br/(1+br) are
// computed here.
func NewNPN(id, c, b, e string, is, bf, br float32) *BJT {
	nbe := fmt.Sprintf("be@%s", id)
	nbc := fmt.Sprintf("bc@%s", id)
	return &BJT{
		diodeBE: NewDiode(nbe, e, is, 1.0),
		diodeBC: NewDiode(nbc, c, is, 1.0),
		forward: NewCCCS("Ff@"+id, c, b, b, nbe, bf/(1+bf)),
		reverse: NewCCCS("Fr@"+id, e, b, b, nbc, br/(1+br)),
	}
}

// NewPNP returns a PNP BJT; the only difference from NewNPN is each
// junction diode's terminal order (anode/cathode swapped), matching
// rtspice's bipolar_pnp.
func NewPNP(id, c, b, e string, is, bf, br float32) *BJT {
	nbe := fmt.Sprintf("be@%s", id)
	nbc := fmt.Sprintf("bc@%s", id)
	return &BJT{
		diodeBE: NewDiode(e, nbe, is, 1.0),
		diodeBC: NewDiode(c, nbc, is, 1.0),
		forward: NewCCCS("Ff@"+id, c, b, b, nbe, bf/(1+bf)),
		reverse: NewCCCS("Fr@"+id, e, b, b, nbc, br/(1+br)),
	}
}

func (t *BJT) Classify() Flags { return Flags{Nonlinear: true} }

func (t *BJT) Register(reg TableRegistrar) {
	t.diodeBE.Register(reg)
	t.diodeBC.Register(reg)
	t.forward.Register(reg)
	t.reverse.Register(reg)
}

func (t *BJT) Bind(sys *sparse.System) error {
	if err := t.diodeBE.Bind(sys); err != nil {
		return err
	}
	if err := t.diodeBC.Bind(sys); err != nil {
		return err
	}
	if err := t.forward.Bind(sys); err != nil {
		return err
	}
	if err := t.reverse.Bind(sys); err != nil {
		return err
	}
	return nil
}

func (t *BJT) Fill() {
	t.diodeBE.Fill()
	t.diodeBC.Fill()
	t.forward.Fill()
	t.reverse.Fill()
}
