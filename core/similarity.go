package core

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// ComputeEdges scores every commit pair and returns the edges whose combined
// score clears the similarity floor, sorted by (A, B). Commits must already be
// ordered oldest first; extractions are parallel to commits by index.
//
// Pair scoring fans out across cfg.Workers goroutines sharded by the first
// index; each shard owns a disjoint set of pairs, so no locking is needed
// until the final merge.
func ComputeEdges(commits []schema.CommitRecord, extractions []schema.CommitSemanticExtraction, cfg *contract.Config) []schema.SimilarityEdge {
	n := len(commits)
	if n < 2 {
		return nil
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	rowCh := make(chan int, n)
	edgeCh := make(chan []schema.SimilarityEdge, workers)
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			var local []schema.SimilarityEdge
			for i := range rowCh {
				for j := i + 1; j < n; j++ {
					edge := scorePair(i, j, commits, extractions, cfg)
					if edge.Combined >= cfg.SimilarityFloor {
						local = append(local, edge)
					}
				}
			}
			edgeCh <- local
		})
	}

	for i := range n - 1 {
		rowCh <- i
	}
	close(rowCh)
	wg.Wait()
	close(edgeCh)

	var edges []schema.SimilarityEdge
	for local := range edgeCh {
		edges = append(edges, local...)
	}

	// Shard arrival order is nondeterministic; sort so downstream stages see
	// the same sequence every run.
	sort.Slice(edges, func(x, y int) bool {
		if edges[x].A != edges[y].A {
			return edges[x].A < edges[y].A
		}
		return edges[x].B < edges[y].B
	})
	return edges
}

// scorePair computes all three similarity signals for one commit pair.
func scorePair(i, j int, commits []schema.CommitRecord, extractions []schema.CommitSemanticExtraction, cfg *contract.Config) schema.SimilarityEdge {
	edge := schema.SimilarityEdge{
		A:           i,
		B:           j,
		Temporal:    temporalProximity(commits[i].Timestamp, commits[j].Timestamp, cfg.TemporalHorizon),
		FileOverlap: jaccard(commits[i].Files, commits[j].Files),
		Pattern:     jaccard(extractions[i].AllPatterns(), extractions[j].AllPatterns()),
	}
	edge.Combined = combineSignals(edge, cfg.Weights)
	return edge
}

// temporalProximity maps the gap between two timestamps onto (0, 1] with
// exponential decay: identical timestamps score 1, a gap of one horizon
// scores 1/e.
func temporalProximity(a, b time.Time, horizon time.Duration) float64 {
	if horizon <= 0 {
		horizon = contract.DefaultTemporalHorizon
	}
	delta := a.Sub(b)
	if delta < 0 {
		delta = -delta
	}
	return math.Exp(-float64(delta) / float64(horizon))
}

// jaccard returns the Jaccard similarity of two string sets. Two empty sets
// score 0, not 1: absence of signal is not agreement.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	seen := make(map[string]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	intersection := 0
	union := len(seen)
	counted := make(map[string]bool, len(b))
	for _, v := range b {
		if counted[v] {
			continue
		}
		counted[v] = true
		if seen[v] {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}

// combineSignals blends the three signals by the configured weights and
// clamps the result to [0, 1]. A zero weight mass yields 0.
func combineSignals(edge schema.SimilarityEdge, w contract.SimilarityWeights) float64 {
	sum := w.Sum()
	if sum <= 0 {
		return 0
	}
	combined := (w.Temporal*edge.Temporal + w.File*edge.FileOverlap + w.Pattern*edge.Pattern) / sum
	return min(max(combined, 0), 1)
}
