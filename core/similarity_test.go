package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func miningConfig() *contract.Config {
	return &contract.Config{
		Workers:         2,
		MinClusterSize:  contract.DefaultMinClusterSize,
		Weights:         contract.DefaultSimilarityWeights(),
		TemporalHorizon: contract.DefaultTemporalHorizon,
		SimilarityFloor: contract.DefaultSimilarityFloor,
		ReasonFloor:     contract.DefaultReasonFloor,
	}
}

func recordAt(sha string, offset time.Duration, files ...string) schema.CommitRecord {
	return schema.CommitRecord{
		SHA:       sha,
		Author:    "dev@example.com",
		Timestamp: baseTime.Add(offset),
		Message:   "feat: change " + sha,
		Files:     files,
	}
}

func extractionWithPatterns(sha string, patterns ...string) schema.CommitSemanticExtraction {
	return schema.CommitSemanticExtraction{
		SHA:      sha,
		Patterns: schema.PatternDelta{Modified: patterns},
	}
}

func TestTemporalProximity(t *testing.T) {
	horizon := 6 * time.Hour

	assert.InDelta(t, 1.0, temporalProximity(baseTime, baseTime, horizon), 1e-9)
	assert.InDelta(t, 1/math.E, temporalProximity(baseTime, baseTime.Add(horizon), horizon), 1e-9)

	// Order of arguments must not matter.
	forward := temporalProximity(baseTime, baseTime.Add(2*time.Hour), horizon)
	backward := temporalProximity(baseTime.Add(2*time.Hour), baseTime, horizon)
	assert.Equal(t, forward, backward)

	// Larger gaps always score lower.
	near := temporalProximity(baseTime, baseTime.Add(time.Hour), horizon)
	far := temporalProximity(baseTime, baseTime.Add(48*time.Hour), horizon)
	assert.Greater(t, near, far)

	// A non-positive horizon falls back to the default instead of dividing by zero.
	fallback := temporalProximity(baseTime, baseTime.Add(contract.DefaultTemporalHorizon), 0)
	assert.InDelta(t, 1/math.E, fallback, 1e-9)
}

func TestJaccard(t *testing.T) {
	for _, tc := range []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{"both empty", nil, nil, 0},
		{"one empty", []string{"a"}, nil, 0},
		{"identical", []string{"a", "b"}, []string{"a", "b"}, 1},
		{"disjoint", []string{"a"}, []string{"b"}, 0},
		{"half overlap", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{"duplicates ignored", []string{"a", "a", "b"}, []string{"b", "b"}, 0.5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, jaccard(tc.a, tc.b), 1e-9)
			assert.InDelta(t, tc.want, jaccard(tc.b, tc.a), 1e-9)
		})
	}
}

func TestCombineSignals(t *testing.T) {
	edge := schema.SimilarityEdge{Temporal: 0.9, FileOverlap: 0.6, Pattern: 0.3}

	equal := combineSignals(edge, contract.SimilarityWeights{Temporal: 1, File: 1, Pattern: 1})
	assert.InDelta(t, 0.6, equal, 1e-9)

	temporalOnly := combineSignals(edge, contract.SimilarityWeights{Temporal: 1})
	assert.InDelta(t, 0.9, temporalOnly, 1e-9)

	zeroMass := combineSignals(edge, contract.SimilarityWeights{})
	assert.Zero(t, zeroMass)
}

func TestComputeEdges(t *testing.T) {
	commits := []schema.CommitRecord{
		recordAt("aaa", 0, "internal/service/auth.go", "internal/service/session.go"),
		recordAt("bbb", time.Hour, "internal/service/auth.go", "internal/service/session.go"),
		recordAt("ccc", 240*time.Hour, "docs/readme.md"),
	}
	extractions := []schema.CommitSemanticExtraction{
		extractionWithPatterns("aaa", "service"),
		extractionWithPatterns("bbb", "service"),
		{SHA: "ccc"},
	}

	edges := ComputeEdges(commits, extractions, miningConfig())

	require.Len(t, edges, 1)
	assert.Equal(t, 0, edges[0].A)
	assert.Equal(t, 1, edges[0].B)
	assert.InDelta(t, 1.0, edges[0].FileOverlap, 1e-9)
	assert.InDelta(t, 1.0, edges[0].Pattern, 1e-9)
	assert.InDelta(t, math.Exp(-1.0/6.0), edges[0].Temporal, 1e-9)
	assert.InDelta(t, (math.Exp(-1.0/6.0)+2)/3, edges[0].Combined, 1e-9)
}

func TestComputeEdgesSortedAndDeterministic(t *testing.T) {
	var commits []schema.CommitRecord
	var extractions []schema.CommitSemanticExtraction
	shas := []string{"a1", "b2", "c3", "d4", "e5", "f6"}
	for i, sha := range shas {
		commits = append(commits, recordAt(sha, time.Duration(i)*time.Minute, "shared.go"))
		extractions = append(extractions, extractionWithPatterns(sha, "service"))
	}

	cfg := miningConfig()
	cfg.Workers = 4
	first := ComputeEdges(commits, extractions, cfg)
	second := ComputeEdges(commits, extractions, cfg)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		assert.True(t, prev.A < cur.A || (prev.A == cur.A && prev.B < cur.B))
	}
}

func TestComputeEdgesTooFewCommits(t *testing.T) {
	commits := []schema.CommitRecord{recordAt("aaa", 0, "main.go")}
	extractions := []schema.CommitSemanticExtraction{{SHA: "aaa"}}

	assert.Nil(t, ComputeEdges(commits, extractions, miningConfig()))
	assert.Nil(t, ComputeEdges(nil, nil, miningConfig()))
}
