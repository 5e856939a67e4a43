// Package cerrors holds the sentinel errors shared across circuitcore's
// packages, so callers can errors.Is against a stable value regardless of
// which layer (entry, sparse, sim) raised it.
package cerrors

import "errors"

var (
	// ErrInvalidPattern is returned when a component's Bind references a
	// row/column pair that was never registered during the Register pass.
	ErrInvalidPattern = errors.New("circuitcore: entry references an unregistered row or column")

	// ErrSingularJacobian is wrapped into sim.Driver.LastError when the linear
	// solver cannot factor the working matrix. Advance itself still reports
	// the failure on its hot path as a negative iteration count (§7); this is
	// for callers that want to branch with errors.Is instead.
	ErrSingularJacobian = errors.New("circuitcore: jacobian is numerically singular")

	// ErrNotConverged is sim.Driver.LastError's value when a Newton iteration
	// exhausts MaxIter without satisfying the convergence test.
	ErrNotConverged = errors.New("circuitcore: newton iteration did not converge")

	// ErrInvalidTimestep is returned by Advance when dt is not a positive,
	// finite value.
	ErrInvalidTimestep = errors.New("circuitcore: timestep must be positive and finite")
)
