package cmd

import (
	"github.com/huangsam/archmine/core"
	"github.com/huangsam/archmine/internal/contract"
	"github.com/spf13/cobra"
)

// mineCmd runs the decision-mining pipeline over a repository.
var mineCmd = &cobra.Command{
	Use:   "mine [repo-path]",
	Short: "Mine architecture decisions from commit history.",
	Long: `Walk commit history, cluster related commits, and synthesize an
ADR-style decision record per cluster.

Commits are linked by three signals: how close together they landed, how much
their touched files overlap, and how similar their architectural patterns are.
Connected groups become clusters, and each cluster becomes one candidate
decision with a confidence score, supporting evidence, and commit references.

Use this to:
- Recover undocumented decisions from a repository you inherited
- Seed an ADR log for a project that never kept one
- Spot decisions that a later change quietly reversed

Examples:
  # Mine the current repository with the offline template narrator
  archmine mine

  # Mine the last six months of a specific repository
  archmine mine ~/src/payments --since "6 months"

  # Use an LLM narrator and keep only high-confidence decisions
  OPENAI_API_KEY=... archmine mine --narrator openai --min-confidence 0.7

  # Write the full decision log as markdown ADRs
  archmine mine --output markdown --output-file decisions.md

  # Export decisions to parquet for downstream analysis
  archmine mine --output parquet --output-file decisions.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMineDecisions(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot mine decisions", err)
		}
	},
}
