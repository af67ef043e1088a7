// Package core implements the decision-mining pipeline: history traversal,
// semantic extraction, similarity clustering, and narrative synthesis.
package core

import (
	"context"
	"sync"
	"time"

	"github.com/huangsam/archmine/core/extract"
	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// Stage names the pipeline's position in its lifecycle. Transitions only move
// forward; Failed is reachable only from Walking, everything after degrades
// via warnings instead of failing the run.
type Stage string

// Pipeline stages.
const (
	StageIdle         Stage = "idle"
	StageWalking      Stage = "walking"
	StageExtracting   Stage = "extracting"
	StageClustering   Stage = "clustering"
	StageSynthesizing Stage = "synthesizing"
	StageDone         Stage = "done"
	StageFailed       Stage = "failed"
)

// Pipeline wires the collaborators for one mining run. Build it once per run;
// it is not reusable after Run returns.
type Pipeline struct {
	walker   contract.HistoryWalker
	registry *extract.Registry
	narrator contract.Narrator
	store    contract.PatternStore // nil disables extraction caching
	cfg      *contract.Config

	stage Stage
}

// NewPipeline creates a mining pipeline from its collaborators. The store may
// be nil when pattern-data caching is off.
func NewPipeline(walker contract.HistoryWalker, registry *extract.Registry, narrator contract.Narrator, store contract.PatternStore, cfg *contract.Config) *Pipeline {
	return &Pipeline{
		walker:   walker,
		registry: registry,
		narrator: narrator,
		store:    store,
		cfg:      cfg,
		stage:    StageIdle,
	}
}

// Stage returns the pipeline's current stage.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// Run executes the four mining stages and assembles the run result. The
// result is always non-nil: fatal failures come back inside it, never as a
// Go error, so callers have one artifact to inspect. Cancellation is honored
// at stage boundaries only; a stage that has started runs to completion.
func (p *Pipeline) Run(ctx context.Context) *schema.DecisionMiningResult {
	start := time.Now()
	result := &schema.DecisionMiningResult{}

	defer func() {
		result.Summary.Duration = time.Since(start)
	}()

	// --- 1. Walking ---
	if p.cancelled(ctx, result) {
		return result
	}
	p.stage = StageWalking
	commits, err := p.walker.Walk(ctx, p.cfg.WalkOptions())
	if err != nil {
		p.stage = StageFailed
		result.Errors = append(result.Errors, schema.MiningError{
			Kind:    schema.ErrorKindGit,
			Message: err.Error(),
		})
		return result
	}
	result.Summary.CommitsWalked = len(commits)

	// --- 2. Extracting ---
	if p.cancelled(ctx, result) {
		return result
	}
	p.stage = StageExtracting
	extractions, warnings, cacheHits := p.extractAll(commits)
	result.Warnings = append(result.Warnings, warnings...)
	result.Summary.CommitsExtracted = len(extractions)
	result.Summary.ExtractionFailures = len(warnings)
	result.Summary.PatternCacheHits = cacheHits

	// --- 3. Clustering ---
	if p.cancelled(ctx, result) {
		return result
	}
	p.stage = StageClustering
	edges := ComputeEdges(commits, extractions, p.cfg)
	result.Summary.EdgesSurvived = len(edges)
	clusters, discarded := BuildClusters(commits, edges, p.cfg)
	result.Summary.ClustersFormed = len(clusters)
	result.Summary.ClustersDiscarded = discarded

	// --- 4. Synthesizing ---
	if p.cancelled(ctx, result) {
		return result
	}
	p.stage = StageSynthesizing
	decisions, synthWarnings, failures, lowConfidence := SynthesizeDecisions(
		ctx, p.narrator, clusters, commits, extractions, p.cfg)
	result.Warnings = append(result.Warnings, synthWarnings...)
	result.Summary.SynthesisFailures = failures
	result.Summary.DecisionsDiscarded = lowConfidence
	result.Summary.ReversalsDetected = DetectReversals(decisions, extractions)
	result.Summary.DecisionsSynthesized = len(decisions)
	result.Decisions = RankDecisions(decisions, p.cfg.ResultLimit)

	p.stage = StageDone
	return result
}

// cancelled records a cancellation error and moves the pipeline to Failed
// when the context is done.
func (p *Pipeline) cancelled(ctx context.Context, result *schema.DecisionMiningResult) bool {
	if ctx.Err() == nil {
		return false
	}
	p.stage = StageFailed
	result.Errors = append(result.Errors, schema.MiningError{
		Kind:    schema.ErrorKindCancelled,
		Message: ctx.Err().Error(),
	})
	return true
}

// extractAll runs the extraction adapter over every commit with a worker
// pool. Extractions land at the same index as their commit; warnings merge in
// commit order so output is stable across runs.
func (p *Pipeline) extractAll(commits []schema.CommitRecord) ([]schema.CommitSemanticExtraction, []string, int) {
	extractions := make([]schema.CommitSemanticExtraction, len(commits))
	perCommitWarnings := make([][]string, len(commits))
	hits := make([]bool, len(commits))

	workers := p.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	adapter := extract.NewAdapter(p.registry, p.store)
	idxCh := make(chan int, len(commits))
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			for i := range idxCh {
				extractions[i], perCommitWarnings[i], hits[i] = adapter.Extract(commits[i])
			}
		})
	}
	for i := range commits {
		idxCh <- i
	}
	close(idxCh)
	wg.Wait()

	var warnings []string
	cacheHits := 0
	for i := range commits {
		warnings = append(warnings, perCommitWarnings[i]...)
		if hits[i] {
			cacheHits++
		}
	}
	return extractions, warnings, cacheHits
}
