package solver

import "gonum.org/v1/gonum/mat"

// DenseLU is a Solver backed by gonum.org/v1/gonum/mat.LU: it densifies the
// CSR pattern into a square matrix once per call and delegates factorization
// and the triangular solves to gonum's partial-pivoted LU.
//
// Grounded in the teacher's own (unwired) import of gonum.org/v1/gonum/mat
// in types/element.go — circuitcore wires the dependency for real instead
// of hand-rolling Gaussian elimination as the teacher's mna/mat/lu.go does.
// Densifying trades memory for simplicity: the audio-rate circuits this
// package targets (§1) run tens to low hundreds of nodes, well inside where
// a dense O(n^3) factorization is cheaper to get right than a sparse LU
// with symbolic fill tracking, and gonum's LU reports conditioning directly
// rather than requiring a hand-rolled singularity heuristic.
type DenseLU struct {
	n int

	dense *mat.Dense
	rhs   *mat.VecDense
	sol   mat.VecDense
	lu    mat.LU
}

// NewDenseLU allocates working storage for an n x n system. A 0 x 0 system
// needs no storage; Solve reports success for it.
func NewDenseLU(n int) *DenseLU {
	if n == 0 {
		return &DenseLU{}
	}
	return &DenseLU{
		n:     n,
		dense: mat.NewDense(n, n, nil),
		rhs:   mat.NewVecDense(n, nil),
	}
}

// maxCondition bounds how ill-conditioned a factorization may be before
// DenseLU treats it as singular. gonum's LU does not panic on a singular
// input; it reports an unbounded condition number instead.
const maxCondition = 1e14

// Solve implements Solver.
func (d *DenseLU) Solve(row, col []int32, a, b, x []float32) (ok bool) {
	n := d.n
	if n == 0 {
		return true
	}

	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	raw := d.dense.RawMatrix().Data
	for i := range raw {
		raw[i] = 0
	}
	for r := 0; r < n; r++ {
		for k := row[r]; k < row[r+1]; k++ {
			d.dense.Set(r, int(col[k]), float64(a[k]))
		}
	}
	for i := 0; i < n; i++ {
		d.rhs.SetVec(i, float64(b[i]))
	}

	d.lu.Factorize(d.dense)
	if cond := d.lu.Cond(); cond > maxCondition {
		return false
	}

	if err := d.lu.SolveVecTo(&d.sol, false, d.rhs); err != nil {
		return false
	}

	for i := 0; i < n; i++ {
		x[i] = float32(d.sol.AtVec(i))
	}
	return true
}
