package core

import (
	"sort"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// unionFind tracks connected components with path compression and union by
// rank. Component membership, not pairwise similarity, decides clustering:
// an edge A-B and an edge B-C put A and C in the same cluster even when A-C
// scored below the floor.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return u
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// BuildClusters groups commits into clusters from the surviving similarity
// edges. Components smaller than cfg.MinClusterSize are dropped and counted.
// Clusters come back ordered by start time, then by first SHA.
func BuildClusters(commits []schema.CommitRecord, edges []schema.SimilarityEdge, cfg *contract.Config) (clusters []schema.CommitCluster, discarded int) {
	if len(edges) == 0 {
		return nil, 0
	}

	uf := newUnionFind(len(commits))
	for _, e := range edges {
		uf.union(e.A, e.B)
	}

	// Group member indices by component root. Commits are ordered oldest
	// first, so iterating by index keeps members chronological.
	members := map[int][]int{}
	for i := range commits {
		root := uf.find(i)
		members[root] = append(members[root], i)
	}

	minSize := cfg.MinClusterSize
	if minSize < contract.DefaultMinClusterSize {
		minSize = contract.DefaultMinClusterSize
	}

	for _, component := range members {
		if len(component) < 2 {
			// Singletons never form clusters and never count as discarded.
			continue
		}
		if len(component) < minSize {
			discarded++
			continue
		}
		clusters = append(clusters, buildCluster(commits, edges, component, cfg.ReasonFloor))
	}

	sort.Slice(clusters, func(i, j int) bool {
		if !clusters[i].Start.Equal(clusters[j].Start) {
			return clusters[i].Start.Before(clusters[j].Start)
		}
		return clusters[i].SHAs[0] < clusters[j].SHAs[0]
	})
	return clusters, discarded
}

// buildCluster assembles one cluster from its member indices and the edges
// internal to it.
func buildCluster(commits []schema.CommitRecord, edges []schema.SimilarityEdge, component []int, reasonFloor float64) schema.CommitCluster {
	inComponent := make(map[int]bool, len(component))
	for _, i := range component {
		inComponent[i] = true
	}

	var temporalSum, fileSum, patternSum, combinedSum float64
	internal := 0
	for _, e := range edges {
		if !inComponent[e.A] || !inComponent[e.B] {
			continue
		}
		temporalSum += e.Temporal
		fileSum += e.FileOverlap
		patternSum += e.Pattern
		combinedSum += e.Combined
		internal++
	}

	cluster := schema.CommitCluster{
		SHAs:  make([]string, 0, len(component)),
		Start: commits[component[0]].Timestamp,
		End:   commits[component[0]].Timestamp,
	}
	for _, i := range component {
		cluster.SHAs = append(cluster.SHAs, commits[i].SHA)
		if commits[i].Timestamp.Before(cluster.Start) {
			cluster.Start = commits[i].Timestamp
		}
		if commits[i].Timestamp.After(cluster.End) {
			cluster.End = commits[i].Timestamp
		}
	}

	if internal > 0 {
		count := float64(internal)
		cluster.SimilarityScore = combinedSum / count
		cluster.Reasons = clusterReasons(temporalSum/count, fileSum/count, patternSum/count, reasonFloor)
	}
	return cluster
}

// clusterReasons converts mean per-signal values into reasons, keeping only
// those above the floor and ordering them strongest first. Ties break in the
// fixed temporal, file, pattern order.
func clusterReasons(temporal, file, pattern, floor float64) []schema.ClusterReason {
	if floor <= 0 {
		floor = contract.DefaultReasonFloor
	}
	all := []schema.ClusterReason{
		{Kind: schema.ReasonTemporalProximity, Value: temporal},
		{Kind: schema.ReasonFileOverlap, Value: file},
		{Kind: schema.ReasonPatternSimilarity, Value: pattern},
	}
	var reasons []schema.ClusterReason
	for _, r := range all {
		if r.Value > floor {
			reasons = append(reasons, r)
		}
	}
	sort.SliceStable(reasons, func(i, j int) bool {
		return reasons[i].Value > reasons[j].Value
	})
	return reasons
}
