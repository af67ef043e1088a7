package core

import (
	"context"

	"github.com/huangsam/archmine/core/extract"
	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// CategorizeCommits walks repository history and classifies every commit
// into a decision category, without running the full mining pipeline. It is
// the quick pass behind the 'categories' command and the categorize_commits
// MCP tool.
func CategorizeCommits(ctx context.Context, walker contract.HistoryWalker, cfg *contract.Config) (*schema.CategorizationResult, error) {
	commits, err := walker.Walk(ctx, cfg.WalkOptions())
	if err != nil {
		return nil, err
	}

	result := &schema.CategorizationResult{
		Counts: map[schema.DecisionCategory]int{},
	}
	for _, commit := range commits {
		row := schema.CategorizedCommit{
			SHA:     schema.ShortSHA(commit.SHA),
			Message: schema.FirstLine(commit.Message),
		}
		if extract.IsTrivialCommit(commit.Message) {
			row.Trivial = true
			result.Summary.Trivial++
		} else if c, ok := extract.Categorize(commit); ok {
			row.Category = c.Category
			row.Confidence = c.Confidence
			result.Counts[c.Category]++
			result.Summary.Categorized++
		} else {
			result.Summary.Uncategorized++
		}
		result.Commits = append(result.Commits, row)
	}
	result.Summary.CommitsWalked = len(commits)
	return result, nil
}
