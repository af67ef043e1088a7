package cmd

import (
	"github.com/huangsam/archmine/core"
	"github.com/huangsam/archmine/internal/contract"
	"github.com/spf13/cobra"
)

// categoriesCmd runs a quick per-commit categorization pass.
var categoriesCmd = &cobra.Command{
	Use:   "categories [repo-path]",
	Short: "Categorize commits without running the full mining pipeline",
	Long: `Walk commit history and classify each commit into a decision category,
without similarity scoring, clustering, or synthesis.

The output shows how the walked commits distribute across the categories,
with a description of each. This is much faster than a full mine and is a
good first look at where a repository's decision activity concentrates.

Use this to:
- Get a quick profile of a repository before mining it
- Check which category a recent commit lands in (--detail lists every commit)
- Explain the classification to your team

Examples:
  # Categorize the current repository's history
  archmine categories

  # Categorize another repository, listing every commit
  archmine categories ~/src/payments --detail

  # Emit the full result as JSON for tooling
  archmine categories --output json --max-commits 500`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCategories(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot categorize commits", err)
		}
	},
}
