// Package scenario registers the six end-to-end circuits from spec.md §8 as
// named, buildable components lists, plus a YAML-loadable run configuration
// for the cmd/circuitsim CLI.
//
// Circuit topology stays Go code, not YAML: a data-driven netlist format is
// explicitly out of scope (spec.md Non-goals), so only run parameters (step
// size, step count, which node to record) are externalized, the same split
// san-kum-dynsim/internal/config draws between its Config (run parameters)
// and its Go-coded dynamo.Dynamics models.
package scenario

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"circuitcore/stamp"
)

// Scenario is one of the six named circuits from spec.md §8.
type Scenario struct {
	Name        string
	Description string
	Node        string // node to record/plot by default
	Build       func() []stamp.Component
}

var registry = map[string]Scenario{}

func register(s Scenario) { registry[s.Name] = s }

func init() {
	register(Scenario{
		Name:        "divider",
		Description: "resistive divider: V1=10V, R1=R2=1k",
		Node:        "mid",
		Build: func() []stamp.Component {
			return []stamp.Component{
				stamp.NewVoltageSource("V1", "vin", "0", stamp.DC{V: 10}),
				stamp.NewLinearResistor("vin", "mid", 1000),
				stamp.NewLinearResistor("mid", "0", 1000),
			}
		},
	})
	register(Scenario{
		Name:        "diode-clamp",
		Description: "1mA current source into a diode clamp to ground",
		Node:        "a",
		Build: func() []stamp.Component {
			return []stamp.Component{
				stamp.NewCurrentSource("0", "a", stamp.DC{V: 1e-3}),
				stamp.NewDiode("a", "0", 4.352e-9, 1.906),
			}
		},
	})
	register(Scenario{
		Name:        "rc-lowpass",
		Description: "RC low-pass step response, R=2.2k, C=10uF",
		Node:        "out",
		Build: func() []stamp.Component {
			return []stamp.Component{
				stamp.NewCurrentSource("0", "vin", stamp.DC{V: 1e-3}),
				stamp.NewLinearResistor("vin", "out", 2200),
				stamp.NewCapacitor("C1", "out", "0", 10e-6),
			}
		},
	})
	register(Scenario{
		Name:        "half-wave-rectifier",
		Description: "12V 1kHz half-wave rectifier with RC smoothing",
		Node:        "rect",
		Build: func() []stamp.Component {
			return []stamp.Component{
				stamp.NewVoltageSource("V1", "vin", "0", stamp.Sine{A: 12, Freq: 1000}),
				stamp.NewDiode("vin", "rect", 4.352e-9, 1.906),
				stamp.NewLinearResistor("rect", "0", 2200),
				stamp.NewCapacitor("C1", "rect", "0", 10e-6),
			}
		},
	})
	register(Scenario{
		Name:        "opamp-clip",
		Description: "op-amp inverting stage with a diode clip on the feedback path",
		Node:        "out",
		Build: func() []stamp.Component {
			return []stamp.Component{
				stamp.NewVoltageSource("V1", "vin", "0", stamp.Sine{A: 0.1, Freq: 1000}),
				stamp.NewLinearResistor("vin", "inv", 1000),
				stamp.NewLinearResistor("inv", "out", 51000),
				stamp.NewDiode("inv", "out", 4.352e-9, 1.906),
				stamp.NewDiode("out", "inv", 4.352e-9, 1.906),
				stamp.NewOpAmp("U1", "out", "0", "inv", "0"),
			}
		},
	})
	register(Scenario{
		Name:        "bjt-common-emitter",
		Description: "common-emitter BJT bias stage, 9V supply",
		Node:        "coll",
		Build: func() []stamp.Component {
			return []stamp.Component{
				stamp.NewVoltageSource("Vcc", "vcc", "0", stamp.DC{V: 9}),
				stamp.NewLinearResistor("vcc", "coll", 2200),
				stamp.NewLinearResistor("vcc", "base", 220000),
				stamp.NewNPN("Q1", "coll", "base", "0", 3.83e-14, 324.4, 8.29),
			}
		},
	})
}

// Get returns the named scenario, or an error if no scenario is registered
// under that name.
func Get(name string) (Scenario, error) {
	s, ok := registry[name]
	if !ok {
		return Scenario{}, fmt.Errorf("scenario: unknown scenario %q (available: %v)", name, Names())
	}
	return s, nil
}

// Names returns every registered scenario name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RunConfig is the YAML-loadable run configuration: how long to simulate and
// at what step size, grounded in san-kum-dynsim/internal/config.Config's
// split between topology (Go code) and run parameters (YAML).
type RunConfig struct {
	Scenario string  `yaml:"scenario"`
	Dt       float64 `yaml:"dt"`
	Steps    int     `yaml:"steps"`
	Node     string  `yaml:"node"`
}

// DefaultRunConfig returns the same defaults for every scenario: 1000 steps
// of dt=1us, with Node left blank so the scenario's own Node is recorded.
func DefaultRunConfig(name string) RunConfig {
	return RunConfig{Scenario: name, Dt: 1e-6, Steps: 1000}
}

// LoadRunConfig reads a YAML run configuration from path, overlaying it onto
// DefaultRunConfig(path-implied scenario left blank) the same way
// san-kum-dynsim/internal/config.Load overlays a parsed file onto
// config.DefaultConfig().
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("scenario: reading %s: %w", path, err)
	}
	cfg := RunConfig{Dt: 1e-6, Steps: 1000}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("scenario: parsing %s: %w", path, err)
	}
	return cfg, nil
}
