// Package circuitcore is the public entry point (§4.5): Build a circuit
// from a component list, Advance it one timestep at a time, and reach its
// node voltages and host-driven signals through a small, real-time-safe
// surface.
//
// Adapted from the teacher's root circuit.go (RuiCat-circuit/circuit.go),
// which wired a netlist loader to its own MNA/graph packages; circuitcore
// replaces the netlist/graph/wire-topology model with the spec's
// name-addressed Entry Table and Sparse System (sim.Build), keeping the
// teacher's (value, error) constructor idiom.
package circuitcore

import (
	"fmt"
	"strings"

	"circuitcore/signal"
	"circuitcore/sim"
	"circuitcore/stamp"
)

// Circuit is a built, advanceable circuit simulation.
type Circuit struct {
	driver *sim.Driver
	params map[string]*signal.Signal
	inputs map[string]*signal.Signal
}

// Build assembles the Entry Table and Sparse System from components and
// runs the static fill pass, returning a Circuit ready for Advance.
// Components implementing stamp.NamedInput or stamp.NamedParam are
// registered automatically so Input/Param can return the exact shared
// signal the component reads.
func Build(components []stamp.Component, opts ...sim.Option) (*Circuit, error) {
	d, err := sim.Build(components, opts...)
	if err != nil {
		return nil, fmt.Errorf("circuitcore: build: %w", err)
	}

	c := &Circuit{
		driver: d,
		params: make(map[string]*signal.Signal),
		inputs: make(map[string]*signal.Signal),
	}
	for _, comp := range components {
		if in, ok := comp.(stamp.NamedInput); ok {
			c.inputs[in.InputName()] = in.InputSignal()
		}
		if p, ok := comp.(stamp.NamedParam); ok {
			c.params[p.ParamName()] = p.ParamSignal()
		}
	}
	return c, nil
}

// Advance steps the simulation by dt seconds. See sim.Driver.Advance for
// the signed-iteration-count failure semantics (§7).
func (c *Circuit) Advance(dt float32) (int, error) {
	return c.driver.Advance(dt)
}

// NodeVoltage returns the current value at a named node (ground always
// reads zero).
func (c *Circuit) NodeVoltage(name string) float32 {
	return c.driver.NodeVoltage(name)
}

// StateVoltage returns the previous-accepted-timestep value at a named node
// (ground always reads zero) — the state_handle half of §4.5's public API,
// alongside NodeVoltage's x_handle.
func (c *Circuit) StateVoltage(name string) float32 {
	return c.driver.StateVoltage(name)
}

// Input returns the lock-free signal backing a host-driven input port
// registered under name, or nil if no component registered that name.
// The host writes a new sample into it before each Advance call.
func (c *Circuit) Input(name string) *signal.Signal { return c.inputs[name] }

// Param returns the lock-free signal backing a control knob registered
// under name, or nil if no component registered that name.
func (c *Circuit) Param(name string) *signal.Signal { return c.params[name] }

// Nodes returns the circuit's node names ordered by final matrix index.
func (c *Circuit) Nodes() []string { return c.driver.Nodes() }

// Entries returns the registered (row, col) matrix entries.
func (c *Circuit) Entries() [][2]string { return c.driver.Entries() }

// Close releases the circuit's underlying buffers.
func (c *Circuit) Close() { c.driver.Close() }

// String renders a compact debug dump of the live node voltages, grounded
// in the teacher's mna.MNA.String() (RuiCat-circuit/mna/sparse.go).
func (c *Circuit) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "circuit (%d nodes)\n", c.driver.M())
	for _, n := range c.driver.Nodes() {
		fmt.Fprintf(&b, "  %-12s = %v\n", n, c.driver.NodeVoltage(n))
	}
	return b.String()
}
