// Package solver defines the pluggable Linear Solver collaborator (§4.4):
// given the CSR pattern, the current value buffer, and a right-hand side,
// produce a solution vector or report failure.
package solver

// Solver factors and solves Ax=b for a CSR-pattern matrix. Implementations
// report failure (a non-invertible or numerically singular A) by returning
// false rather than an error: a failed solve is routine control flow on the
// Newton loop's hot path, not an exceptional condition.
type Solver interface {
	// Solve writes the solution of Ax=b into x. row/col describe the CSR
	// sparsity pattern shared by every call; a holds nnz values aligned
	// with col; b and x each have length len(row)-1. Solve must not retain
	// any of its argument slices past the call.
	Solve(row, col []int32, a, b, x []float32) bool
}
