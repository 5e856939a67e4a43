package entry

import "testing"

func TestTableGroundExcluded(t *testing.T) {
	tb := NewTable()
	tb.RegisterNode("0")
	tb.RegisterNode("n1")
	tb.RegisterEntry("0", "n1")
	tb.RegisterEntry("n1", "0")
	tb.RegisterEntry("n1", "n1")

	if err := tb.Freeze(); err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if tb.M() != 1 {
		t.Fatalf("M() = %d, want 1", tb.M())
	}
	if tb.NNZ() != 1 {
		t.Fatalf("NNZ() = %d, want 1 (only n1,n1 survives ground exclusion)", tb.NNZ())
	}
	if idx := tb.Index("0"); idx != GroundIndex {
		t.Fatalf("Index(0) = %d, want %d", idx, GroundIndex)
	}
	if idx := tb.Index("n1"); idx != 0 {
		t.Fatalf("Index(n1) = %d, want 0", idx)
	}
}

func TestTableResistiveDividerPattern(t *testing.T) {
	tb := NewTable()
	for _, n := range []string{"vin", "mid", "0"} {
		tb.RegisterNode(n)
	}
	// two resistors: vin-mid and mid-0, each stamps its 2x2 (or 1x1 at ground) block.
	for _, e := range [][2]string{
		{"vin", "vin"}, {"vin", "mid"}, {"mid", "vin"}, {"mid", "mid"},
	} {
		tb.RegisterEntry(e[0], e[1])
	}

	if err := tb.Freeze(); err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if tb.M() != 2 {
		t.Fatalf("M() = %d, want 2", tb.M())
	}
	if tb.NNZ() != 4 {
		t.Fatalf("NNZ() = %d, want 4", tb.NNZ())
	}
	if int(tb.Row()[tb.M()]) != tb.NNZ() {
		t.Fatalf("row[m] = %d, want nnz = %d", tb.Row()[tb.M()], tb.NNZ())
	}

	for _, e := range [][2]string{{"vin", "vin"}, {"vin", "mid"}, {"mid", "vin"}, {"mid", "mid"}} {
		if _, err := tb.Offset(e[0], e[1]); err != nil {
			t.Fatalf("Offset(%v): %v", e, err)
		}
	}
}

func TestTableInvalidPattern(t *testing.T) {
	tb := NewTable()
	tb.RegisterNode("a")
	tb.RegisterNode("b")
	tb.RegisterEntry("a", "a")
	if err := tb.Freeze(); err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if _, err := tb.Offset("a", "b"); err == nil {
		t.Fatal("Offset(a,b) should fail: (a,b) was never registered")
	}
}

func TestMinimumDegreeOrderIsPermutation(t *testing.T) {
	adj := []map[int]struct{}{
		0: {1: {}, 2: {}},
		1: {0: {}, 2: {}, 3: {}},
		2: {0: {}, 1: {}},
		3: {1: {}},
	}
	perm := minimumDegreeOrder(adj)
	if len(perm) != len(adj) {
		t.Fatalf("len(perm) = %d, want %d", len(perm), len(adj))
	}
	seen := make(map[int]bool)
	for _, p := range perm {
		if seen[p] {
			t.Fatalf("duplicate index %d in permutation", p)
		}
		seen[p] = true
	}
}
