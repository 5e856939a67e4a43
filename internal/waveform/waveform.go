// Package waveform renders a recorded node trace to a PNG line chart.
//
// The teacher (RuiCat-circuit) declares gonum.org/v1/plot in go.mod but never
// imports it from any reachable source file; this package is where
// circuitcore actually wires that dependency up, grounded in gonum/plot's
// own documented plotter.Line usage.
package waveform

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Trace is one named signal recorded across a run: Time[i] paired with
// Value[i].
type Trace struct {
	Name  string
	Time  []float64
	Value []float64
}

// WritePNG renders one or more traces on a shared time axis to path, sized
// width x height inches. Every trace must have the same length as its own
// Time slice; traces may differ in length from each other.
func WritePNG(path, title string, width, height vg.Length, traces ...Trace) error {
	if len(traces) == 0 {
		return fmt.Errorf("waveform: no traces to render")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "amplitude (V)"

	for _, tr := range traces {
		if len(tr.Time) != len(tr.Value) {
			return fmt.Errorf("waveform: trace %q has %d time samples but %d values", tr.Name, len(tr.Time), len(tr.Value))
		}
		pts := make(plotter.XYs, len(tr.Time))
		for i := range tr.Time {
			pts[i].X = tr.Time[i]
			pts[i].Y = tr.Value[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("waveform: building line for %q: %w", tr.Name, err)
		}
		p.Add(line)
		p.Legend.Add(tr.Name, line)
	}

	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("waveform: saving %s: %w", path, err)
	}
	return nil
}
