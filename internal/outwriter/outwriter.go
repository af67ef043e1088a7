// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDecisions prints mining results using the configured output format.
func (ow *OutWriter) WriteDecisions(result *schema.DecisionMiningResult, cfg *contract.Config, duration time.Duration) error {
	return WriteDecisionResults(result, cfg, duration)
}

// WriteCategories prints a per-commit categorization result.
func (ow *OutWriter) WriteCategories(result *schema.CategorizationResult, cfg *contract.Config) error {
	return WriteCategorizationResults(result, cfg)
}
