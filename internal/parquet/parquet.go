// Package parquet provides data structures and functions for exporting mined
// decisions to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/archmine/schema"
)

// DecisionRow is the flat per-decision record written to Parquet. Nested ADR
// fields flatten into delimited strings so the file stays queryable from SQL
// engines without struct support.
type DecisionRow struct {
	// DecisionID is the stable identifier of the mined decision
	DecisionID string `parquet:"decision_id,snappy"`

	// Category classifies the decision (empty when uncategorized)
	Category string `parquet:"category,snappy"`

	// Confidence is the final 0-1 confidence after synthesis
	Confidence float64 `parquet:"confidence,snappy"`

	// SimilarityScore is the mean internal edge score of the cluster
	SimilarityScore float64 `parquet:"similarity_score,snappy"`

	// CommitCount is the number of member commits
	CommitCount int32 `parquet:"commit_count,snappy"`

	// CommitSHAs holds the member SHAs, pipe-delimited and oldest first
	CommitSHAs string `parquet:"commit_shas,snappy"`

	// WindowStart is the earliest member commit timestamp
	WindowStart time.Time `parquet:"window_start,snappy"`

	// WindowEnd is the latest member commit timestamp
	WindowEnd time.Time `parquet:"window_end,snappy"`

	// Context is the ADR context narrative
	Context string `parquet:"context,snappy"`

	// Decision is the ADR decision narrative
	Decision string `parquet:"decision,snappy"`

	// Consequences holds the ADR consequences, pipe-delimited (nullable)
	Consequences *string `parquet:"consequences,optional,snappy"`

	// Alternatives holds the ADR alternatives, pipe-delimited (nullable)
	Alternatives *string `parquet:"alternatives,optional,snappy"`

	// ReversedBy is the ID of a later decision that reverses this one (nullable)
	ReversedBy *string `parquet:"reversed_by,optional,snappy"`
}

// WriteDecisionsParquet writes a slice of DecisionRow structs to a Parquet file.
func WriteDecisionsParquet(data []DecisionRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the DecisionRow struct tags
	writer := parquet.NewGenericWriter[DecisionRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// ConvertDecisions converts mined decisions to DecisionRow for Parquet export.
func ConvertDecisions(decisions []schema.MinedDecision) []DecisionRow {
	rows := make([]DecisionRow, len(decisions))
	for i, d := range decisions {
		rows[i] = DecisionRow{
			DecisionID:      d.ID,
			Category:        string(d.Category),
			Confidence:      d.Confidence,
			SimilarityScore: d.Cluster.SimilarityScore,
			CommitCount:     int32(len(d.Cluster.SHAs)),
			CommitSHAs:      strings.Join(d.Cluster.SHAs, "|"),
			WindowStart:     d.Cluster.Start,
			WindowEnd:       d.Cluster.End,
			Context:         d.ADR.Context,
			Decision:        d.ADR.Decision,
			Consequences:    joinOptional(d.ADR.Consequences),
			Alternatives:    joinOptional(d.ADR.Alternatives),
			ReversedBy:      optionalString(d.ReversedBy),
		}
	}
	return rows
}

// joinOptional pipe-joins a list into a nullable column value.
func joinOptional(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	joined := strings.Join(values, "|")
	return &joined
}

// optionalString converts an empty string to a null column value.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
