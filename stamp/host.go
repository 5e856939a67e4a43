package stamp

import (
	"circuitcore/signal"
	"circuitcore/sparse"
)

// NamedInput is implemented by components whose value is driven by the
// host thread once per sample (the "input" ports of §6's external
// interface), so Build can register the backing *signal.Signal under a
// stable name for Circuit.Input to return later.
type NamedInput interface {
	InputName() string
	InputSignal() *signal.Signal
}

// NamedParam is the same mechanism for slowly-varying control knobs (the
// "params" of §5's concurrency model) rather than per-sample inputs.
type NamedParam interface {
	ParamName() string
	ParamSignal() *signal.Signal
}

// HostVoltageSource is a voltage source whose value is written by the host
// thread through a lock-free Signal rather than computed from a Waveform —
// the circuit's actual audio input port. Classified dynamic: like
// rtspice's sine_function source, its value may change every Advance.
type HostVoltageSource struct {
	*VoltageSource
	name string
	in   *signal.Signal
}

// NewHostVoltageSource returns a voltage source between a and b driven by
// in, registered under name for Circuit.Input(name) lookup.
func NewHostVoltageSource(id, a, b, name string, in *signal.Signal) *HostVoltageSource {
	return &HostVoltageSource{
		VoltageSource: NewVoltageSource(id, a, b, hostWaveform{in}),
		name:          name,
		in:            in,
	}
}

func (h *HostVoltageSource) InputName() string          { return h.name }
func (h *HostVoltageSource) InputSignal() *signal.Signal { return h.in }

// HostCurrentSource is the current-source analogue of HostVoltageSource.
type HostCurrentSource struct {
	*CurrentSource
	name string
	in   *signal.Signal
}

// NewHostCurrentSource returns a current source from a to b driven by in.
func NewHostCurrentSource(a, b, name string, in *signal.Signal) *HostCurrentSource {
	return &HostCurrentSource{
		CurrentSource: NewCurrentSource(a, b, hostWaveform{in}),
		name:          name,
		in:            in,
	}
}

func (h *HostCurrentSource) InputName() string          { return h.name }
func (h *HostCurrentSource) InputSignal() *signal.Signal { return h.in }

type hostWaveform struct{ s *signal.Signal }

func (h hostWaveform) Eval(float32) float32 { return h.s.Load() }
func (h hostWaveform) Dynamic() bool        { return true }

// TunableResistor is a resistor whose conductance is read from a lock-free
// Signal every fill, the concrete realization of §5's "params" (a host-side
// control knob, e.g. a potentiometer) rather than an audio-rate input.
// Classified dynamic: unlike a fixed resistor its value can change between
// Advance calls, but not within a single Newton iteration.
type TunableResistor struct {
	a, b  string
	name  string
	param *signal.Signal

	hxA, hxB           sparse.Handle
	haa, hab, hba, hbb sparse.Handle
}

// NewTunableResistor returns a resistor between a and b whose resistance in
// ohms is read from param every fill, registered under name for
// Circuit.Param(name) lookup.
func NewTunableResistor(a, b, name string, param *signal.Signal) *TunableResistor {
	return &TunableResistor{a: a, b: b, name: name, param: param}
}

func (r *TunableResistor) ParamName() string          { return r.name }
func (r *TunableResistor) ParamSignal() *signal.Signal { return r.param }

func (r *TunableResistor) Classify() Flags { return Flags{Dynamic: true} }

func (r *TunableResistor) Register(t TableRegistrar) {
	t.RegisterNode(r.a)
	t.RegisterNode(r.b)
	t.RegisterEntry(r.a, r.a)
	t.RegisterEntry(r.a, r.b)
	t.RegisterEntry(r.b, r.a)
	t.RegisterEntry(r.b, r.b)
}

func (r *TunableResistor) Bind(sys *sparse.System) error {
	var err error
	if r.haa, err = sys.HandleA(r.a, r.a); err != nil {
		return err
	}
	if r.hab, err = sys.HandleA(r.a, r.b); err != nil {
		return err
	}
	if r.hba, err = sys.HandleA(r.b, r.a); err != nil {
		return err
	}
	if r.hbb, err = sys.HandleA(r.b, r.b); err != nil {
		return err
	}
	return nil
}

func (r *TunableResistor) Fill() {
	res := r.param.Load()
	if res <= 0 {
		return
	}
	g := 1 / res
	r.haa.Add(g)
	r.hab.Add(-g)
	r.hba.Add(-g)
	r.hbb.Add(g)
}
