// Command circuitsim runs the spec.md §8 demo circuits from the command
// line: a cobra CLI in the shape of san-kum-dynsim/cmd/dynsim/main.go,
// printing an asciigraph terminal trace by default and optionally writing a
// PNG line chart via internal/waveform.
package main

import (
	"fmt"
	"log"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"circuitcore/internal/scenario"
	"circuitcore/internal/waveform"
	"circuitcore/sim"
	"gonum.org/v1/plot/vg"
)

var (
	configFile string
	steps      int
	dt         float64
	outPNG     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "circuitsim",
		Short: "real-time circuit simulator demo",
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a named scenario and print its trace",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "run config file path (yaml)")
	runCmd.Flags().IntVar(&steps, "steps", 0, "step count (overrides config/default)")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep in seconds (overrides config/default)")
	runCmd.Flags().StringVar(&outPNG, "out", "", "write a PNG waveform to this path in addition to the terminal trace")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenario.Names() {
				s, _ := scenario.Get(name)
				fmt.Printf("%-22s %s\n", s.Name, s.Description)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	name := args[0]
	sc, err := scenario.Get(name)
	if err != nil {
		return err
	}

	cfg := scenario.DefaultRunConfig(name)
	if configFile != "" {
		loaded, err := scenario.LoadRunConfig(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if dt > 0 {
		cfg.Dt = dt
	}
	if steps > 0 {
		cfg.Steps = steps
	}
	node := sc.Node
	if cfg.Node != "" {
		node = cfg.Node
	}

	d, err := sim.Build(sc.Build())
	if err != nil {
		return fmt.Errorf("circuitsim: build %q: %w", name, err)
	}
	defer d.Close()

	times := make([]float64, 0, cfg.Steps)
	values := make([]float64, 0, cfg.Steps)
	t := 0.0
	for i := 0; i < cfg.Steps; i++ {
		iter, err := d.Advance(float32(cfg.Dt))
		if err != nil {
			return fmt.Errorf("circuitsim: advance: %w", err)
		}
		if iter <= 0 {
			return fmt.Errorf("circuitsim: step %d did not converge (code %d)", i, iter)
		}
		t += cfg.Dt
		times = append(times, t)
		values = append(values, float64(d.NodeVoltage(node)))
	}

	graph := asciigraph.Plot(values,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s: node %q over %d steps of dt=%g", sc.Name, node, cfg.Steps, cfg.Dt)),
	)
	fmt.Println(graph)

	if outPNG != "" {
		trace := waveform.Trace{Name: node, Time: times, Value: values}
		if err := waveform.WritePNG(outPNG, sc.Description, 8*vg.Inch, 4*vg.Inch, trace); err != nil {
			return fmt.Errorf("circuitsim: writing PNG: %w", err)
		}
		fmt.Printf("wrote %s\n", outPNG)
	}

	return nil
}
