package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// writeDecisionMarkdownResults renders the mined decisions as one markdown
// document of ADR sections.
func writeDecisionMarkdownResults(result *schema.DecisionMiningResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeMarkdownADRs(w, result, cfg)
	}, "Wrote markdown")
}

// writeMarkdownADRs writes every decision in the familiar ADR layout:
// status, context, decision, consequences, alternatives, then the evidence
// that grounds it.
func writeMarkdownADRs(w io.Writer, result *schema.DecisionMiningResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	if _, err := fmt.Fprintf(w, "# Mined Architecture Decisions\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%d decisions mined from %d commits.\n\n",
		len(result.Decisions), result.Summary.CommitsWalked); err != nil {
		return err
	}

	for i, d := range result.Decisions {
		if err := writeOneADR(w, i+1, &d, fmtFloat); err != nil {
			return err
		}
	}
	return nil
}

func writeOneADR(w io.Writer, rank int, d *schema.MinedDecision, fmtFloat func(float64) string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "## %d. %s\n\n", rank, d.Title())

	status := "Accepted"
	if d.ReversedBy != "" {
		status = fmt.Sprintf("Superseded by %s", d.ReversedBy)
	}
	fmt.Fprintf(&b, "- **ID**: %s\n", d.ID)
	fmt.Fprintf(&b, "- **Status**: %s\n", status)
	if d.Category != "" {
		fmt.Fprintf(&b, "- **Category**: %s\n", d.Category)
	}
	fmt.Fprintf(&b, "- **Confidence**: %s (%s)\n", fmtFloat(d.Confidence), contract.GetPlainLabel(d.Confidence))
	fmt.Fprintf(&b, "- **Window**: %s to %s\n\n",
		d.Cluster.Start.Format("2006-01-02"), d.Cluster.End.Format("2006-01-02"))

	fmt.Fprintf(&b, "### Context\n\n%s\n\n", d.ADR.Context)
	fmt.Fprintf(&b, "### Decision\n\n%s\n\n", d.ADR.Decision)

	if len(d.ADR.Consequences) > 0 {
		b.WriteString("### Consequences\n\n")
		for _, c := range d.ADR.Consequences {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}
	if len(d.ADR.Alternatives) > 0 {
		b.WriteString("### Alternatives Considered\n\n")
		for _, a := range d.ADR.Alternatives {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		b.WriteString("\n")
	}

	if len(d.ADR.References) > 0 {
		b.WriteString("### References\n\n")
		for _, r := range d.ADR.References {
			value := r.Value
			if r.Kind == "commit" {
				value = schema.ShortSHA(value)
			}
			fmt.Fprintf(&b, "- %s: `%s`\n", r.Kind, value)
		}
		b.WriteString("\n")
	}
	if len(d.ADR.Evidence) > 0 {
		b.WriteString("### Evidence\n\n")
		for _, e := range d.ADR.Evidence {
			if e.Detail != "" {
				fmt.Fprintf(&b, "- %s: %s (%s)\n", e.Metric, fmtFloat(e.Value), e.Detail)
			} else {
				fmt.Fprintf(&b, "- %s: %s\n", e.Metric, fmtFloat(e.Value))
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
