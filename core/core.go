package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/archmine/core/extract"
	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/internal/gitwalk"
	"github.com/huangsam/archmine/internal/narrate"
	"github.com/huangsam/archmine/internal/outwriter"
	"github.com/huangsam/archmine/schema"
)

// ExecutorFunc defines the function signature for executing commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteMineDecisions runs a full mining pass and prints the result in the
// configured output format. It is the entry point for the 'mine' command.
// Fatal pipeline errors surface as the returned error after the summary is
// written, so a failed run still reports what it managed to do.
func ExecuteMineDecisions(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		contract.LogMiningHeader(cfg)
	}

	result, err := MineDecisions(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	if err := outwriter.WriteDecisionResults(result, cfg, duration); err != nil {
		return err
	}
	if result.Failed() {
		first := result.Errors[0]
		return fmt.Errorf("mining failed (%s): %s", first.Kind, first.Message)
	}
	return nil
}

// MineDecisions assembles the pipeline collaborators from the config and
// runs the four mining stages. The MCP server calls this directly to get the
// structured result without console output.
func MineDecisions(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.DecisionMiningResult, error) {
	narrator, err := narrate.NewNarrator(cfg)
	if err != nil {
		return nil, err
	}

	var store contract.PatternStore
	if cfg.UsePatternData && mgr != nil {
		store = mgr.GetPatternStore()
	}

	pipeline := NewPipeline(gitwalk.NewWalker(), extract.DefaultRegistry(), narrator, store, cfg)
	return pipeline.Run(ctx), nil
}

// ExecuteCategories walks a repository, classifies every commit into a
// decision category, and prints the distribution alongside the category
// definitions. It is the entry point for the 'categories' command.
func ExecuteCategories(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	result, err := CategorizeCommits(ctx, gitwalk.NewWalker(), cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteCategorizationResults(result, cfg)
}
