// Package signal provides the lock-free scalar cell params and host-driven
// inputs use to cross from a control thread into the real-time Advance path
// without a mutex (§5 of the spec: Advance must not block on anything the
// host thread could be holding).
package signal

import (
	"math"
	"sync/atomic"
)

// Signal is a float32 value safely shared between a control thread (writing
// a parameter or an input sample) and the simulation thread (reading it once
// per Fill), using relaxed atomic stores/loads rather than a mutex.
type Signal struct {
	bits atomic.Uint32
}

// New returns a Signal initialized to v.
func New(v float32) *Signal {
	s := &Signal{}
	s.Store(v)
	return s
}

// Load reads the current value.
func (s *Signal) Load() float32 {
	return math.Float32frombits(s.bits.Load())
}

// Store writes a new value.
func (s *Signal) Store(v float32) {
	s.bits.Store(math.Float32bits(v))
}
