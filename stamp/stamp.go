// Package stamp implements the Component Stamp Protocol (§4.2): every
// device model is a Component that registers the nodes and matrix entries
// it touches, binds indirect Handles into the Sparse System once, and on
// every Fill adds its contribution into whichever layer is currently
// active.
//
// Grounded in rtspice's component.hpp contract (register_/setup/fill) and
// its concrete device headers (resistor.hpp, sources.hpp, dynamic.hpp,
// opamp.hpp, bipolar.hpp), and in the teacher's own MNA stamp methods
// (RuiCat-circuit/mna/sparse.go: StampResistor/StampVoltageSource/...),
// whose method names and signs this package's math matches even though the
// storage model (CSR + indirect handles vs. RuiCat's dense-ish sparse.Matrix)
// is rebuilt for the spec.
package stamp

import "circuitcore/sparse"

// Flags classifies a Component's contribution to the three fill passes a
// Driver runs: static (built once, at Build), dynamic (rebuilt once per
// Advance, before the Newton loop starts), and nonlinear (rebuilt every
// Newton iteration). Every device model below sets exactly one flag.
type Flags struct {
	Static    bool
	Dynamic   bool
	Nonlinear bool
}

// Component is the stamp protocol every device model implements.
type Component interface {
	// Classify reports which fill pass(es) this component participates in.
	Classify() Flags

	// Register declares every node and matrix entry this component will
	// touch. Called once per component before the Entry Table is frozen.
	Register(t TableRegistrar)

	// Bind resolves this component's declared entries and nodes into
	// indirect Handles against sys. Called once per component after the
	// Sparse System is allocated. Returns ErrInvalidPattern if Register
	// did not declare everything Bind tries to resolve.
	Bind(sys *sparse.System) error

	// Fill adds this component's contribution into the currently active
	// layer. Called once per component per fill pass; must not allocate
	// and must never branch on whether a node is ground (Bind already
	// routed ground references to the System's dummy sink).
	Fill()
}

// TableRegistrar is the subset of entry.Table a Component's Register method
// needs. Kept as an interface here (rather than importing entry.Table
// directly into every device file's signature) so stamp stays agnostic to
// how the registrar is implemented — entry.Table satisfies it as-is.
type TableRegistrar interface {
	RegisterNode(name string)
	RegisterEntry(row, col string)
}
