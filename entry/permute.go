package entry

// minimumDegreeOrder computes a fill-reducing elimination order over the
// symmetric adjacency graph adj (adj[i] is the set of i's neighbors in the
// symbolic pattern A+Aᵀ). It returns perm such that perm[finalIdx] is the
// provisional index eliminated at step finalIdx — the classic greedy
// minimum-degree heuristic: at each step eliminate the lowest-degree
// remaining node and fill in edges between its surviving neighbors (the
// same "clique among neighbors" step a sparse LU would introduce as fill).
//
// rtspice offloads this to cusolverSpXcsrsymmdqHost, a GPU symmetric
// minimum-degree-family reordering (circuit.cpp:setup_nodes_). There is no
// CUDA here, so this is a plain-Go greedy minimum-degree pass over the same
// symbolic structure — the pack's edp1096-sparse teaches the companion
// Markowitz-count idea for pivot selection during the numeric factorization
// itself; this is the symbolic analogue run once at build time.
func minimumDegreeOrder(adj []map[int]struct{}) []int {
	n := len(adj)
	work := make([]map[int]struct{}, n)
	for i, s := range adj {
		cp := make(map[int]struct{}, len(s))
		for k := range s {
			cp[k] = struct{}{}
		}
		work[i] = cp
	}

	eliminated := make([]bool, n)
	perm := make([]int, 0, n)

	for step := 0; step < n; step++ {
		best, bestDeg := -1, -1
		for i := 0; i < n; i++ {
			if eliminated[i] {
				continue
			}
			d := len(work[i])
			if best == -1 || d < bestDeg {
				best, bestDeg = i, d
			}
		}

		neighbors := make([]int, 0, len(work[best]))
		for nb := range work[best] {
			neighbors = append(neighbors, nb)
		}
		for _, a := range neighbors {
			for _, b := range neighbors {
				if a != b {
					work[a][b] = struct{}{}
				}
			}
			delete(work[a], best)
		}

		eliminated[best] = true
		perm = append(perm, best)
	}

	return perm
}
