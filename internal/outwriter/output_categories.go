package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// categoryDescriptions explains what each decision category covers.
var categoryDescriptions = map[schema.DecisionCategory]string{
	schema.CategoryArchitecture:  "System structure: layering, service boundaries, modularity",
	schema.CategoryTechnology:    "Framework, library, runtime, or platform choices",
	schema.CategoryPattern:       "Design pattern adoption: factories, repositories, middleware",
	schema.CategoryConvention:    "Naming, formatting, and lint rule decisions",
	schema.CategorySecurity:      "Authentication, input validation, and hardening work",
	schema.CategoryPerformance:   "Caching, indexing, and other optimization choices",
	schema.CategoryTesting:       "Test strategy, frameworks, and coverage decisions",
	schema.CategoryDeployment:    "CI/CD, containerization, and infrastructure delivery",
	schema.CategoryDatabase:      "Schema design, migrations, and storage engine choices",
	schema.CategoryAPI:           "Endpoint design, protocols, and API versioning",
	schema.CategoryErrorHandling: "Retry, fallback, and failure recovery strategies",
	schema.CategoryDocumentation: "Documentation structure and process decisions",
}

// WriteCategorizationResults prints a per-commit categorization pass: the
// distribution of commits across categories, each with its description, and
// per-commit rows when detail is requested.
func WriteCategorizationResults(result *schema.CategorizationResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if cfg.Output == schema.JSONOut {
			return writeJSON(w, result)
		}
		return writeCategoryTable(result, cfg, w)
	}, "Wrote categories")
}

func writeCategoryTable(result *schema.CategorizationResult, cfg *contract.Config, w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Commits", "Description"})

	var data [][]string
	for _, cat := range schema.AllCategories {
		data = append(data, []string{
			string(cat),
			strconv.Itoa(result.Counts[cat]),
			categoryDescriptions[cat],
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := result.Summary
	if _, err := fmt.Fprintf(w,
		"Categorized %d of %d commits (%d trivial, %d cleared no category threshold)\n",
		s.Categorized, s.CommitsWalked, s.Trivial, s.Uncategorized); err != nil {
		return err
	}

	if !cfg.ShowDetail {
		return nil
	}
	for _, c := range result.Commits {
		label := string(c.Category)
		switch {
		case c.Trivial:
			label = "(trivial)"
		case label == "":
			label = "(uncategorized)"
		}
		if _, err := fmt.Fprintf(w, "  %s  %-16s %s\n", c.SHA, label, c.Message); err != nil {
			return err
		}
	}
	return nil
}
