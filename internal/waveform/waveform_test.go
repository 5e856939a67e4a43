package waveform

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/vg"
)

func TestWritePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.png")

	time := []float64{0, 1, 2, 3}
	value := []float64{0, 1, 0, -1}

	if err := WritePNG(path, "test trace", 6*vg.Inch, 4*vg.Inch, Trace{Name: "out", Time: time, Value: value}); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty PNG at %s", path)
	}
}

func TestWritePNGMismatchedLengths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.png")

	err := WritePNG(path, "bad trace", 6*vg.Inch, 4*vg.Inch, Trace{Name: "out", Time: []float64{0, 1}, Value: []float64{0}})
	if err == nil {
		t.Fatalf("expected an error for mismatched time/value lengths")
	}
}

func TestWritePNGNoTraces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.png")

	if err := WritePNG(path, "empty", 6*vg.Inch, 4*vg.Inch); err == nil {
		t.Fatalf("expected an error when no traces are given")
	}
}
