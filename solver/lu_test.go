package solver

import "testing"

func TestDenseLUResistiveDivider(t *testing.T) {
	// A full 2x2 CSR pattern (vin, mid) holding a well-posed identity
	// matrix, with each node pinned directly by its right-hand side:
	// A = I, b = [2, 1] -> x = [2, 1].
	row := []int32{0, 2, 4}
	col := []int32{0, 1, 0, 1}
	a := []float32{1, 0, 0, 1} // identity: vin = b[0], mid = b[1]
	b := []float32{2, 1}
	x := make([]float32, 2)

	s := NewDenseLU(2)
	if !s.Solve(row, col, a, b, x) {
		t.Fatal("Solve reported failure on a well-posed system")
	}
	if x[0] != 2 || x[1] != 1 {
		t.Fatalf("x = %v, want [2 1]", x)
	}
}

func TestDenseLUSingular(t *testing.T) {
	row := []int32{0, 2, 4}
	col := []int32{0, 1, 0, 1}
	a := []float32{1, -1, -1, 1} // rank-deficient: rows are negatives of each other
	b := []float32{1, -1}
	x := make([]float32, 2)

	s := NewDenseLU(2)
	if s.Solve(row, col, a, b, x) {
		t.Fatal("Solve should report failure on a singular matrix")
	}
}

func TestDenseLUZeroSize(t *testing.T) {
	s := NewDenseLU(0)
	if !s.Solve(nil, nil, nil, nil, nil) {
		t.Fatal("a 0x0 system should trivially solve")
	}
}
