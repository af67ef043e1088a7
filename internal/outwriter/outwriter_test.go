package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

func testConfig() *contract.Config {
	return &contract.Config{
		Precision:    2,
		Workers:      4,
		Width:        120,
		Output:       schema.TextOut,
		CacheBackend: schema.NoneBackend,
	}
}

func testResult() *schema.DecisionMiningResult {
	start := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	return &schema.DecisionMiningResult{
		Decisions: []schema.MinedDecision{
			{
				ID: "dec-aaaa1111",
				Cluster: schema.CommitCluster{
					SHAs:            []string{"aaaa1111", "bbbb2222", "cccc3333"},
					SimilarityScore: 0.71,
					Start:           start,
					End:             start.Add(4 * time.Hour),
					Reasons: []schema.ClusterReason{
						{Kind: schema.ReasonTemporalProximity, Value: 0.8},
					},
				},
				ADR: schema.SynthesizedADR{
					Context:      "Three commits reworked the event pipeline in one morning.",
					Decision:     "The team decided to adopt a queue for event delivery.",
					Consequences: []string{"Events are processed asynchronously."},
					Alternatives: []string{"Continuing with synchronous delivery."},
					References: []schema.Reference{
						{Kind: "commit", Value: "aaaa1111deadbeef"},
						{Kind: "file", Value: "internal/queue/queue.go"},
					},
					Evidence: []schema.EvidenceItem{
						{Metric: "commit-count", Value: 3},
						{Metric: "similarity-score", Value: 0.71},
					},
				},
				Confidence: 0.66,
				Category:   schema.CategoryArchitecture,
			},
		},
		Summary: schema.MiningSummary{
			CommitsWalked:        40,
			CommitsExtracted:     40,
			EdgesSurvived:        12,
			ClustersFormed:       1,
			DecisionsSynthesized: 1,
		},
		Warnings: []string{"extraction: extractor \"manifest\" failed on commit dddd4444: parse error"},
	}
}

func TestWriteDecisionTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	err := writeDecisionTable(testResult(), cfg, fmtFloat, intFmt, 2*time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "dec-aaaa1111")
	assert.Contains(t, out, "architecture")
	assert.Contains(t, out, "0.66")
	assert.Contains(t, out, "Showing 1 decisions from 1 clusters")
	assert.Contains(t, out, "Cache backend: none")
	// Warnings stay hidden without verbose
	assert.NotContains(t, out, "parse error")
}

func TestWriteDecisionTableVerbose(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.Verbose = true
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	err := writeDecisionTable(testResult(), cfg, fmtFloat, intFmt, time.Second, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "parse error")
}

func TestWriteDecisionTableDetailAndEvidence(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.ShowDetail = true
	cfg.ShowEvidence = true
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	err := writeDecisionTable(testResult(), cfg, fmtFloat, intFmt, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[1] dec-aaaa1111")
	assert.Contains(t, out, "reason: temporal-proximity = 0.80")
	assert.Contains(t, out, "commit: aaaa1111deadbeef")
	assert.Contains(t, out, "file: internal/queue/queue.go")
	assert.Contains(t, out, "evidence: commit-count = 3.00")
	assert.Contains(t, out, "evidence: similarity-score = 0.71")
}

func TestWriteCSVResultsForDecisions(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	fmtFloat, _ := createFormatters(2)

	err := writeCSVResultsForDecisions(w, testResult().Decisions, fmtFloat)
	require.NoError(t, err)
	w.Flush()

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rank", records[0][0])
	assert.Equal(t, "dec-aaaa1111", records[1][1])
	assert.Equal(t, "architecture", records[1][2])
	assert.Equal(t, "3", records[1][5])
}

func TestWriteJSONResultsForDecisions(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForDecisions(&buf, testResult())
	require.NoError(t, err)

	var decoded struct {
		Decisions []struct {
			Rank  int    `json:"rank"`
			Label string `json:"label"`
			ID    string `json:"id"`
		} `json:"decisions"`
		Summary schema.MiningSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Decisions, 1)
	assert.Equal(t, 1, decoded.Decisions[0].Rank)
	assert.Equal(t, "dec-aaaa1111", decoded.Decisions[0].ID)
	assert.Equal(t, 40, decoded.Summary.CommitsWalked)
}

func TestWriteMarkdownADRs(t *testing.T) {
	var buf bytes.Buffer
	err := writeMarkdownADRs(&buf, testResult(), testConfig())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# Mined Architecture Decisions")
	assert.Contains(t, out, "### Context")
	assert.Contains(t, out, "### Decision")
	assert.Contains(t, out, "- **Status**: Accepted")
	assert.Contains(t, out, "commit: `aaaa1111`")
	assert.Contains(t, out, "internal/queue/queue.go")
}

func TestWriteMarkdownADRsSuperseded(t *testing.T) {
	result := testResult()
	result.Decisions[0].ReversedBy = "dec-ffff9999"

	var buf bytes.Buffer
	require.NoError(t, writeMarkdownADRs(&buf, result, testConfig()))
	assert.Contains(t, buf.String(), "Superseded by dec-ffff9999")
}

func TestWriteCategoryTable(t *testing.T) {
	result := &schema.CategorizationResult{
		Commits: []schema.CategorizedCommit{
			{SHA: "aaaa1111", Message: "add users table migration", Category: schema.CategoryDatabase, Confidence: 0.5},
			{SHA: "bbbb2222", Message: "Merge branch 'main'", Trivial: true},
			{SHA: "cccc3333", Message: "tweak readme wording"},
		},
		Counts: map[schema.DecisionCategory]int{schema.CategoryDatabase: 1},
		Summary: schema.CategorizationSummary{
			CommitsWalked: 3,
			Categorized:   1,
			Trivial:       1,
			Uncategorized: 1,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeCategoryTable(result, testConfig(), &buf))

	out := buf.String()
	for _, cat := range schema.AllCategories {
		assert.Contains(t, out, string(cat))
	}
	assert.Contains(t, out, "Categorized 1 of 3 commits (1 trivial, 1 cleared no category threshold)")
	// Per-commit rows stay hidden without detail
	assert.NotContains(t, out, "aaaa1111")

	buf.Reset()
	cfg := testConfig()
	cfg.ShowDetail = true
	require.NoError(t, writeCategoryTable(result, cfg, &buf))

	out = buf.String()
	assert.Contains(t, out, "aaaa1111")
	assert.Contains(t, out, "(trivial)")
	assert.Contains(t, out, "(uncategorized)")
}

func TestTruncateText(t *testing.T) {
	for _, tc := range []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"short stays", "adopt queue", 40, "adopt queue"},
		{"long truncates", strings.Repeat("x", 50), 20, strings.Repeat("x", 17) + "..."},
		{"newlines flatten", "line one\nline two", 40, "line one line two"},
		{"tiny width untouched", "abcdef", 3, "abcdef"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, truncateText(tc.in, tc.width))
		})
	}
}

func TestGetMaxDecisionTextWidth(t *testing.T) {
	cfg := testConfig()

	cfg.Width = 200
	assert.Equal(t, 90, getMaxDecisionTextWidth(cfg))

	cfg.Width = 100
	assert.Equal(t, 35, getMaxDecisionTextWidth(cfg))

	cfg.Width = 60
	assert.Equal(t, 20, getMaxDecisionTextWidth(cfg))
}
