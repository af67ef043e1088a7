package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/internal/parquet"
	"github.com/huangsam/archmine/schema"
)

// WriteDecisionResults outputs a mining result, dispatching based on the
// configured output format.
func WriteDecisionResults(result *schema.DecisionMiningResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeDecisionJSONResults(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeDecisionCSVResults(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.MarkdownOut:
		if err := writeDecisionMarkdownResults(result, cfg); err != nil {
			return fmt.Errorf("error writing markdown output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteDecisionsParquet(parquet.ConvertDecisions(result.Decisions), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDecisionTable(result, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeDecisionJSONResults handles opening the file and calling the JSON writer.
func writeDecisionJSONResults(result *schema.DecisionMiningResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForDecisions(w, result)
	}, "Wrote JSON")
}

// writeDecisionCSVResults handles opening the file and calling the CSV writer.
func writeDecisionCSVResults(result *schema.DecisionMiningResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForDecisions(csvWriter, result.Decisions, fmtFloat)
	}, "Wrote CSV")
}

// writeDecisionTable generates and writes the human-readable table.
func writeDecisionTable(result *schema.DecisionMiningResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "ID", "Category", "Commits", "Confidence", "Label", "Decision"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	textWidth := getMaxDecisionTextWidth(cfg)
	var data [][]string
	for i, d := range result.Decisions {
		label := contract.GetPlainLabel(d.Confidence)
		if cfg.UseColors {
			label = contract.GetColorLabel(d.Confidence)
		}
		row := []string{
			strconv.Itoa(i + 1),
			d.ID,
			string(d.Category),
			fmt.Sprintf(intFmt, len(d.Cluster.SHAs)),
			fmtFloat(d.Confidence),
			label,
			truncateText(d.ADR.Decision, textWidth),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if cfg.ShowDetail || cfg.ShowEvidence {
		if err := writeDecisionBreakdown(result.Decisions, cfg, fmtFloat, writer); err != nil {
			return err
		}
	}

	s := result.Summary
	if _, err := fmt.Fprintf(writer,
		"Showing %d decisions from %d clusters (%d commits walked, %d edges, %d clusters discarded, %d decisions below confidence)\n",
		len(result.Decisions), s.ClustersFormed, s.CommitsWalked, s.EdgesSurvived, s.ClustersDiscarded, s.DecisionsDiscarded); err != nil {
		return err
	}
	if s.ReversalsDetected > 0 {
		if _, err := fmt.Fprintf(writer, "Reversals detected: %d\n", s.ReversalsDetected); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Mining completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	if cfg.Verbose {
		for _, warning := range result.Warnings {
			if _, err := fmt.Fprintf(writer, "Warning: %s\n", warning); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeDecisionBreakdown prints per-decision reasons, references, and
// evidence metric values below the summary table.
func writeDecisionBreakdown(decisions []schema.MinedDecision, cfg *contract.Config, fmtFloat func(float64) string, w io.Writer) error {
	for i, d := range decisions {
		if _, err := fmt.Fprintf(w, "\n[%d] %s (%s)\n", i+1, d.ID, contract.GetPlainLabel(d.Confidence)); err != nil {
			return err
		}
		if cfg.ShowDetail {
			for _, r := range d.Cluster.Reasons {
				if _, err := fmt.Fprintf(w, "  reason: %s = %s\n", r.Kind, fmtFloat(r.Value)); err != nil {
					return err
				}
			}
			for _, ref := range d.ADR.References {
				if _, err := fmt.Fprintf(w, "  %s: %s\n", ref.Kind, ref.Value); err != nil {
					return err
				}
			}
		}
		if cfg.ShowEvidence {
			for _, e := range d.ADR.Evidence {
				line := fmt.Sprintf("  evidence: %s = %s", e.Metric, fmtFloat(e.Value))
				if e.Detail != "" {
					line += " (" + e.Detail + ")"
				}
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// writeCSVResultsForDecisions writes the mined decisions in CSV format.
func writeCSVResultsForDecisions(w *csv.Writer, decisions []schema.MinedDecision, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"id",
		"category",
		"confidence",
		"label",
		"commits",
		"start",
		"end",
		"similarity",
		"reversed_by",
		"decision",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, d := range decisions {
		rec := []string{
			strconv.Itoa(i + 1),
			d.ID,
			string(d.Category),
			fmtFloat(d.Confidence),
			contract.GetPlainLabel(d.Confidence),
			strconv.Itoa(len(d.Cluster.SHAs)),
			d.Cluster.Start.Format(contract.DateTimeFormat),
			d.Cluster.End.Format(contract.DateTimeFormat),
			fmtFloat(d.Cluster.SimilarityScore),
			d.ReversedBy,
			d.ADR.Decision,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForDecisions writes the full mining result in JSON format,
// with rank and label annotations on each decision.
func writeJSONResultsForDecisions(w io.Writer, result *schema.DecisionMiningResult) error {
	type JSONDecision struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.MinedDecision
	}
	type JSONResult struct {
		Decisions []JSONDecision       `json:"decisions"`
		Summary   schema.MiningSummary `json:"summary"`
		Errors    []schema.MiningError `json:"errors,omitempty"`
		Warnings  []string             `json:"warnings,omitempty"`
	}

	out := JSONResult{
		Decisions: make([]JSONDecision, len(result.Decisions)),
		Summary:   result.Summary,
		Errors:    result.Errors,
		Warnings:  result.Warnings,
	}
	for i, d := range result.Decisions {
		out.Decisions[i] = JSONDecision{
			Rank:          i + 1,
			Label:         contract.GetPlainLabel(d.Confidence),
			MinedDecision: d,
		}
	}
	return writeJSON(w, out)
}

// truncateText shortens free text to fit a table cell, adding an ellipsis.
func truncateText(text string, width int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= width || width <= 3 {
		return text
	}
	return string(runes[:width-3]) + "..."
}
