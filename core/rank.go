package core

import (
	"sort"

	"github.com/huangsam/archmine/schema"
)

// RankDecisions orders decisions by confidence, strongest first, and keeps at
// most limit entries. Ties break by cluster start time, then by ID, so equal
// confidence never reorders between runs.
func RankDecisions(decisions []schema.MinedDecision, limit int) []schema.MinedDecision {
	sort.SliceStable(decisions, func(i, j int) bool {
		if decisions[i].Confidence != decisions[j].Confidence {
			return decisions[i].Confidence > decisions[j].Confidence
		}
		if !decisions[i].Cluster.Start.Equal(decisions[j].Cluster.Start) {
			return decisions[i].Cluster.Start.Before(decisions[j].Cluster.Start)
		}
		return decisions[i].ID < decisions[j].ID
	})
	if limit > 0 && len(decisions) > limit {
		decisions = decisions[:limit]
	}
	return decisions
}
