// Package importance ranks registry files by structural centrality using
// sparse PageRank power iteration over the internal-import graph.
package importance

import "github.com/depmap/depmap/pkg/registry"

const (
	// Damping is the PageRank damping factor.
	Damping = 0.85
	// MaxIterations bounds the power iteration.
	MaxIterations = 50
	// Tolerance is the convergence threshold on the max absolute
	// per-node change between iterations.
	Tolerance = 1e-6
)

// Scores computes a normalized importance score per file id. A file that is
// imported receives contributions from its importers; scores are scaled so
// the maximum is exactly 1.0. An empty registry yields an empty map, and an
// all-zero result is left untouched rather than divided by zero.
func Scores(snap *registry.Snapshot) map[string]float64 {
	records := snap.Records()
	n := len(records)
	if n == 0 {
		return map[string]float64{}
	}

	index := make(map[string]int, n)
	for i, rec := range records {
		index[rec.ID] = i
	}

	// Adjacency from resolved imports: importer -> imported. Duplicate
	// import statements contribute duplicate edges, matching the
	// imports-list semantics.
	outNeighbors := make([][]int, n)
	for i, rec := range records {
		for _, target := range rec.Imports {
			if j, ok := index[target]; ok {
				outNeighbors[i] = append(outNeighbors[i], j)
			}
		}
	}

	rank := make([]float64, n)
	next := make([]float64, n)
	for i := range rank {
		rank[i] = 1.0 / float64(n)
	}

	base := (1.0 - Damping) / float64(n)

	for iter := 0; iter < MaxIterations; iter++ {
		for i := range next {
			next[i] = base
		}

		for i := range records {
			out := outNeighbors[i]
			if len(out) == 0 {
				continue
			}
			contrib := Damping * rank[i] / float64(len(out))
			for _, j := range out {
				next[j] += contrib
			}
		}

		maxDiff := 0.0
		for i := range rank {
			d := next[i] - rank[i]
			if d < 0 {
				d = -d
			}
			if d > maxDiff {
				maxDiff = d
			}
		}

		rank, next = next, rank

		if maxDiff < Tolerance {
			break
		}
	}

	maxScore := 0.0
	for _, s := range rank {
		if s > maxScore {
			maxScore = s
		}
	}

	scores := make(map[string]float64, n)
	for i, rec := range records {
		if maxScore > 0 {
			scores[rec.ID] = rank[i] / maxScore
		} else {
			scores[rec.ID] = rank[i]
		}
	}
	return scores
}
