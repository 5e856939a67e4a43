// Package sparse holds the Sparse System: CSR-backed value buffers behind
// the static/dynamic/nonlinear layering the driver selects between, the
// ping-pong solution buffers a Newton step swaps each iteration, and the
// previous-accepted state vector trapezoidal companion models read from.
//
// Grounded in rtspice's system_ struct and setup_system_/setup_static_/
// advance_/nr_step_ (_examples/original_source/lib/circuit/src/circuit.cpp),
// adapted from CUDA-resident buffers to plain Go slices.
package sparse

import (
	"fmt"

	"circuitcore/entry"
)

// Layer selects which value-buffer generation a System's A/b handles
// currently resolve against.
type Layer int

const (
	LayerStatic Layer = iota
	LayerDynamic
	LayerNonlinear
)

// Lifecycle tracks a System's position in the Registering -> Bound ->
// Initialized -> Running -> Destroyed state machine (§3 of the spec this
// module implements).
type Lifecycle int

const (
	Bound Lifecycle = iota
	Initialized
	Running
	Destroyed
)

// System is the sparse linear system a Driver solves every Advance. It owns
// three generations of CSR values (A) and right-hand sides (b) — static,
// dynamic, nonlinear — plus the ping-pong Newton iterate and the previous
// time step's accepted state.
type System struct {
	table *entry.Table

	aStatic, aDynamic, aNonlinear []float32
	bStatic, bDynamic, bNonlinear []float32

	activeA []float32
	activeB []float32

	xBuf0, xBuf1 []float32
	curX         []float32
	curXPrev     []float32

	xState []float32

	groundA []float32
	groundB []float32

	t, dt float32

	state Lifecycle
}

// New allocates a System sized by a frozen Table. Returns an error if t has
// not been frozen.
func New(t *entry.Table) (*System, error) {
	if !t.Frozen() {
		return nil, fmt.Errorf("sparse: New requires a frozen entry.Table")
	}
	m, nnz := t.M(), t.NNZ()

	s := &System{
		table:     t,
		aStatic:   make([]float32, nnz),
		aDynamic:  make([]float32, nnz),
		aNonlinear: make([]float32, nnz),
		bStatic:   make([]float32, m),
		bDynamic:  make([]float32, m),
		bNonlinear: make([]float32, m),
		xBuf0:     make([]float32, m),
		xBuf1:     make([]float32, m),
		xState:    make([]float32, m),
		groundA:   make([]float32, 1),
		groundB:   make([]float32, 1),
		state:     Bound,
	}
	s.activeA = s.aStatic
	s.activeB = s.bStatic
	s.curX = s.xBuf0
	s.curXPrev = s.xBuf1
	return s, nil
}

// M returns the system size.
func (s *System) M() int { return len(s.xState) }

// Pattern returns the CSR row/col arrays shared by every layer.
func (s *System) Pattern() (row, col []int32) { return s.table.Row(), s.table.Col() }

// State returns the current lifecycle state.
func (s *System) State() Lifecycle { return s.state }

// SetState advances the lifecycle state machine; callers (the sim driver)
// are responsible for calling it in order.
func (s *System) SetState(l Lifecycle) { s.state = l }

// Close transitions the System to Destroyed and drops its buffers. Go's
// garbage collector reclaims the memory; Close exists so the lifecycle
// model has an explicit terminal transition to assert against.
func (s *System) Close() {
	*s = System{state: Destroyed}
}

// Activate selects which generation of A/b values subsequent Handle
// dereferences resolve against.
func (s *System) Activate(l Layer) {
	switch l {
	case LayerStatic:
		s.activeA, s.activeB = s.aStatic, s.bStatic
	case LayerDynamic:
		s.activeA, s.activeB = s.aDynamic, s.bDynamic
	case LayerNonlinear:
		s.activeA, s.activeB = s.aNonlinear, s.bNonlinear
	}
}

// ZeroLayer clears a layer's A and b buffers to zero.
func (s *System) ZeroLayer(l Layer) {
	a, b := s.layerBuffers(l)
	for i := range a {
		a[i] = 0
	}
	for i := range b {
		b[i] = 0
	}
}

// CopyLayer overwrites dst's A/b buffers with src's contents. Grounded in
// rtspice's setup_static_ (copies A_static/b_static into the dynamic and
// nonlinear shadows) and advance_/nr_step_ (prefills the next layer from the
// one beneath it every step).
//
// rtspice's setup_static_ copies b_static into b_dynamic/b_nonlinear using
// nnz as the element count instead of m — harmless only because nnz >= m
// happened to hold in its test circuits, but an out-of-bounds read/write in
// general. This copies exactly M() elements for b, per spec's note that the
// buffer length there should be the node count, not the entry count.
func (s *System) CopyLayer(dst, src Layer) {
	sa, sb := s.layerBuffers(src)
	da, db := s.layerBuffers(dst)
	copy(da, sa)
	copy(db, sb)
}

func (s *System) layerBuffers(l Layer) (a, b []float32) {
	switch l {
	case LayerStatic:
		return s.aStatic, s.bStatic
	case LayerDynamic:
		return s.aDynamic, s.bDynamic
	case LayerNonlinear:
		return s.aNonlinear, s.bNonlinear
	}
	panic("sparse: unknown layer")
}

// ActiveA returns the value buffer currently selected by Activate, aligned
// with Pattern's col array.
func (s *System) ActiveA() []float32 { return s.activeA }

// ActiveB returns the right-hand-side buffer currently selected by Activate.
func (s *System) ActiveB() []float32 { return s.activeB }

// CurrentX returns the slice the next Solve should write the new iterate
// into (the "old xn" slot pre-swap, matching rtspice's swap(x, xn) just
// before solve_()).
func (s *System) CurrentX() []float32 { return s.curX }

// CurrentXPrev returns the iterate from one Newton step ago, compared
// against CurrentX by Converged.
func (s *System) CurrentXPrev() []float32 { return s.curXPrev }

// SwapIterate exchanges the roles of CurrentX and CurrentXPrev. Called once
// per Newton iteration, before Solve, so Solve always writes into what was
// a moment ago the "previous" slot while the value read during Fill (the
// linearization point) is preserved in the now-previous slot for the
// convergence comparison.
func (s *System) SwapIterate() {
	s.curX, s.curXPrev = s.curXPrev, s.curX
}

// CommitState copies the converged iterate into the previous-accepted-state
// buffer that trapezoidal companion models read from on the next Advance.
func (s *System) CommitState() {
	copy(s.xState, s.curX)
}

// Converged applies the componentwise relative+absolute test from the spec:
// |x[k]-x_prev[k]| <= rtol*|x_prev[k]| + atol for every k.
func (s *System) Converged(rtol, atol float32) bool {
	x, xp := s.curX, s.curXPrev
	for k := range x {
		d := x[k] - xp[k]
		if d < 0 {
			d = -d
		}
		ref := xp[k]
		if ref < 0 {
			ref = -ref
		}
		if d > rtol*ref+atol {
			return false
		}
	}
	return true
}

// Time returns the accumulated simulation time after the most recent Advance.
func (s *System) Time() float32 { return s.t }

// DeltaTime returns the timestep passed to the most recent Advance.
func (s *System) DeltaTime() float32 { return s.dt }

// AdvanceTime records a new timestep and accumulates simulation time.
func (s *System) AdvanceTime(dt float32) {
	s.dt = dt
	s.t += dt
}

// X returns the current voltage/branch-current value at a named node,
// ground returning zero.
func (s *System) X(name string) float32 {
	idx := s.table.Index(name)
	if idx < 0 {
		return 0
	}
	return s.curX[idx]
}

// XState returns the previous-accepted-timestep value at a named node,
// ground returning zero.
func (s *System) XState(name string) float32 {
	idx := s.table.Index(name)
	if idx < 0 {
		return 0
	}
	return s.xState[idx]
}

// HandleA resolves a (row, col) matrix entry to an indirect Handle into
// whichever layer is currently active. Ground rows/columns resolve to a
// shared dummy sink so stamps never need a ground branch in Fill.
func (s *System) HandleA(row, col string) (Handle, error) {
	ri, ci := s.table.Index(row), s.table.Index(col)
	if ri < 0 || ci < 0 {
		return Handle{slot: &s.groundA, offset: 0}, nil
	}
	off, err := s.table.Offset(row, col)
	if err != nil {
		return Handle{}, err
	}
	return Handle{slot: &s.activeA, offset: off}, nil
}

// HandleB resolves a node name to an indirect Handle into the currently
// active right-hand-side buffer.
func (s *System) HandleB(name string) Handle {
	idx := s.table.Index(name)
	if idx < 0 {
		return Handle{slot: &s.groundB, offset: 0}
	}
	return Handle{slot: &s.activeB, offset: idx}
}

// HandleX returns a read-only Handle onto a node's current Newton iterate.
// Because curX is reassigned by SwapIterate, the Handle tracks whichever
// physical buffer is "current" at the moment it is dereferenced. Ground
// resolves to a private cell no stamp writes, so it always reads zero.
func (s *System) HandleX(name string) Handle {
	idx := s.table.Index(name)
	if idx < 0 {
		zero := make([]float32, 1)
		return Handle{slot: &zero, offset: 0}
	}
	return Handle{slot: &s.curX, offset: idx}
}

// HandleXState returns a read-only Handle onto a node's previous-accepted
// state, used by trapezoidal companion models. Ground reads zero, as in
// HandleX.
func (s *System) HandleXState(name string) Handle {
	idx := s.table.Index(name)
	if idx < 0 {
		zero := make([]float32, 1)
		return Handle{slot: &zero, offset: 0}
	}
	return Handle{slot: &s.xState, offset: idx}
}

// Nodes returns node names ordered by final index.
func (s *System) Nodes() []string { return s.table.Nodes() }

// Entries returns the registered (row, col) pairs.
func (s *System) Entries() [][2]string { return s.table.Entries() }
