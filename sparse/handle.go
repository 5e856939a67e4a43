package sparse

// Handle is an indirect reference into one of the System's value buffers: a
// pointer to the *currently active* buffer pointer, plus a fixed offset into
// it. Dereferencing a Handle therefore always lands on whichever physical
// buffer the System currently has active, even though that target changes
// underneath the Handle as the driver selects layers (static/dynamic/
// nonlinear) or ping-pongs the Newton iterate.
//
// Grounded in rtspice's entry_reference<T>{ptr, offset} double-indirection
// (_examples/original_source/lib/circuit/include/circuit.hpp and
// circuit.cpp's get_A/get_b/get_x/get_state): a component resolves its
// Handles once during Bind and every Fill() walks the same pointers, with no
// further map lookups on the hot path.
type Handle struct {
	slot   *[]float32
	offset int
}

// Get reads the value at the handle's current target.
func (h Handle) Get() float32 {
	return (*h.slot)[h.offset]
}

// Set overwrites the value at the handle's current target.
func (h Handle) Set(v float32) {
	(*h.slot)[h.offset] = v
}

// Add accumulates v into the value at the handle's current target. Stamps
// use Add almost exclusively: contributions from independent components at
// the same matrix position sum.
func (h Handle) Add(v float32) {
	(*h.slot)[h.offset] += v
}
