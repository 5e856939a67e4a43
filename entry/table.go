// Package entry builds the Entry Table: it interns node names, collects the
// sparsity registry components contribute during Register, and freezes both
// into a permuted CSR pattern that the sparse system allocates against.
//
// Grounded on rtspice's circuit::register_node / register_entry /
// setup_nodes_ (_examples/original_source/lib/circuit/src/circuit.cpp),
// translated from the CUDA/cuSOLVER pipeline (cusolverSpXcsrsymmdqHost +
// cusolverSpXcsrpermHost) into a plain-Go minimum-degree ordering.
package entry

import (
	"fmt"
	"sort"

	"circuitcore/cerrors"
)

// Ground is the reserved node name that never receives a matrix row/column.
const Ground = "0"

// GroundIndex is the sentinel node index returned for Ground.
const GroundIndex = -1

type pair struct{ row, col string }

// Table interns node names and matrix entries during the Register phase,
// then freezes them into a permuted CSR pattern.
type Table struct {
	nodes   map[string]struct{}
	entries map[pair]struct{}

	frozen  bool
	index   map[string]int // node name -> final row/col index
	offset  map[pair]int   // (row, col) -> offset into the nnz-length value buffers
	row     []int32
	col     []int32
	m, nnz  int
	orderNm []string // final index -> node name, for introspection
}

// NewTable returns an empty table in the Registering state.
func NewTable() *Table {
	return &Table{
		nodes:   make(map[string]struct{}),
		entries: make(map[pair]struct{}),
	}
}

// RegisterNode interns a node name. Ground is silently ignored, matching
// rtspice's register_node.
func (t *Table) RegisterNode(name string) {
	if t.frozen {
		panic("entry: RegisterNode called after Freeze")
	}
	if name == Ground {
		return
	}
	t.nodes[name] = struct{}{}
}

// RegisterEntry records that the (row, col) matrix position is addressed by
// some stamp. The registry is a set: duplicate registrations collapse to one
// storage offset. Pairs touching Ground are ignored, matching rtspice's
// register_entry.
func (t *Table) RegisterEntry(row, col string) {
	if t.frozen {
		panic("entry: RegisterEntry called after Freeze")
	}
	if row == Ground || col == Ground {
		return
	}
	t.nodes[row] = struct{}{}
	t.nodes[col] = struct{}{}
	t.entries[pair{row, col}] = struct{}{}
}

// Frozen reports whether Freeze has already run.
func (t *Table) Frozen() bool { return t.frozen }

// M returns the system size (node count, excluding ground). Valid after Freeze.
func (t *Table) M() int { return t.m }

// NNZ returns the number of distinct matrix entries. Valid after Freeze.
func (t *Table) NNZ() int { return t.nnz }

// Row returns the CSR row-start array (length M()+1). Valid after Freeze.
func (t *Table) Row() []int32 { return t.row }

// Col returns the CSR column-index array (length NNZ()). Valid after Freeze.
func (t *Table) Col() []int32 { return t.col }

// Index returns a node's final row/col index, or GroundIndex for Ground (and
// for any name never registered, treated as ground-equivalent for stamp
// convenience).
func (t *Table) Index(name string) int {
	if name == Ground {
		return GroundIndex
	}
	if idx, ok := t.index[name]; ok {
		return idx
	}
	return GroundIndex
}

// Offset returns the storage offset for a registered (row, col) entry.
// Returns ErrInvalidPattern if the pair was never registered.
func (t *Table) Offset(row, col string) (int, error) {
	off, ok := t.offset[pair{row, col}]
	if !ok {
		return 0, fmt.Errorf("%w: (%q, %q)", cerrors.ErrInvalidPattern, row, col)
	}
	return off, nil
}

// Nodes returns node names ordered by their final index.
func (t *Table) Nodes() []string {
	out := make([]string, len(t.orderNm))
	copy(out, t.orderNm)
	return out
}

// Entries returns the registered (row, col) pairs in no particular order.
func (t *Table) Entries() [][2]string {
	out := make([][2]string, 0, len(t.entries))
	for p := range t.entries {
		out = append(out, [2]string{p.row, p.col})
	}
	return out
}

// Freeze assigns provisional lexicographic indices, builds the CSR pattern,
// computes a fill-reducing minimum-degree permutation over the symmetric
// structure A+Aᵀ, and relocates every registered entry to its final offset.
// Calling Freeze again after it has run is a no-op that returns nil.
func (t *Table) Freeze() error {
	if t.frozen {
		return nil
	}

	names := make([]string, 0, len(t.nodes))
	for n := range t.nodes {
		names = append(names, n)
	}
	sort.Strings(names)

	m := len(names)
	provisional := make(map[string]int, m)
	for i, n := range names {
		provisional[n] = i
	}

	// Provisional CSR: entries sorted by (row name, col name); since
	// provisional indices are assigned in lexicographic name order, this is
	// already ascending (row, col) index order.
	keys := make([]pair, 0, len(t.entries))
	for p := range t.entries {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].row != keys[j].row {
			return keys[i].row < keys[j].row
		}
		return keys[i].col < keys[j].col
	})

	adj := make([]map[int]struct{}, m)
	for i := range adj {
		adj[i] = make(map[int]struct{})
	}
	for _, p := range keys {
		a, b := provisional[p.row], provisional[p.col]
		if a != b {
			adj[a][b] = struct{}{}
			adj[b][a] = struct{}{}
		}
	}

	perm := minimumDegreeOrder(adj) // perm[finalIdx] = provisionalIdx
	invperm := make([]int, m)       // invperm[provisionalIdx] = finalIdx
	for final, prov := range perm {
		invperm[prov] = final
	}

	finalIndex := make(map[string]int, m)
	for name, prov := range provisional {
		finalIndex[name] = invperm[prov]
	}

	// Rebuild CSR directly against final indices: group columns per row,
	// sort ascending, and assign each (row,col) pair its storage offset.
	rowCols := make([][]string, m)
	for _, p := range keys {
		fr := finalIndex[p.row]
		rowCols[fr] = append(rowCols[fr], p.col)
	}

	row := make([]int32, m+1)
	var col []int32
	offset := make(map[pair]int, len(t.entries))

	orderNm := make([]string, m)
	for name, idx := range finalIndex {
		orderNm[idx] = name
	}

	nnz := 0
	for r := 0; r < m; r++ {
		cols := rowCols[r]
		sort.Slice(cols, func(i, j int) bool {
			return finalIndex[cols[i]] < finalIndex[cols[j]]
		})
		row[r] = int32(nnz)
		for _, cname := range cols {
			col = append(col, int32(finalIndex[cname]))
			offset[pair{orderNm[r], cname}] = nnz
			nnz++
		}
	}
	row[m] = int32(nnz)

	if int(row[m]) != len(t.entries) {
		return fmt.Errorf("%w: row-fill produced %d entries, expected %d",
			cerrors.ErrInvalidPattern, row[m], len(t.entries))
	}

	t.index = finalIndex
	t.offset = offset
	t.row = row
	t.col = col
	t.m = m
	t.nnz = nnz
	t.orderNm = orderNm
	t.frozen = true
	return nil
}
