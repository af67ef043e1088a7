package narrate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

func evidenceFixture() schema.EvidencePackage {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	return schema.EvidencePackage{
		Cluster: schema.CommitCluster{
			SHAs:            []string{"aaaa1111", "bbbb2222"},
			SimilarityScore: 0.72,
			Start:           start,
			End:             end,
		},
		Commits: []schema.CommitRecord{
			{SHA: "aaaa1111", Message: "feat: Adopt postgres for event storage", Timestamp: start,
				Files: []string{"internal/store/pg.go", "migrations/0001_events.sql"}},
			{SHA: "bbbb2222", Message: "fix: tune postgres pool sizing", Timestamp: end,
				Files: []string{"internal/store/pg.go"}},
		},
		Extractions: []schema.CommitSemanticExtraction{
			{SHA: "aaaa1111", Significance: 0.8,
				Dependencies: map[string]schema.DependencyChange{"pgx": schema.DependencyAdded},
				Patterns:     schema.PatternDelta{Added: []string{"store"}, Removed: []string{"file-storage"}}},
			{SHA: "bbbb2222", Significance: 0.3},
		},
		Category: schema.CategoryDatabase,
	}
}

func TestNewNarrator(t *testing.T) {
	cfg := &contract.Config{Narrator: schema.TemplateNarrator}
	n, err := NewNarrator(cfg)
	require.NoError(t, err)
	assert.Equal(t, "template", n.Name())

	cfg.Narrator = "bogus"
	_, err = NewNarrator(cfg)
	assert.Error(t, err)
}

func TestTemplateSynthesize(t *testing.T) {
	n := NewTemplate()
	got, err := n.Synthesize(context.Background(), evidenceFixture())
	require.NoError(t, err)

	assert.Contains(t, got.Context, "2 related commits")
	assert.Contains(t, got.Context, "2026-03-01")
	assert.Contains(t, got.Context, "database decision")
	// The highest-significance commit's subject anchors the decision text.
	assert.Contains(t, got.Decision, "adopt postgres for event storage")
	assert.Contains(t, got.Decision, "pgx (added)")
	assert.NotEmpty(t, got.Consequences)
	require.Len(t, got.Alternatives, 1)
	assert.Contains(t, got.Alternatives[0], "file-storage")
}

func TestTemplateSynthesizeDeterministic(t *testing.T) {
	n := NewTemplate()
	first, err := n.Synthesize(context.Background(), evidenceFixture())
	require.NoError(t, err)
	second, err := n.Synthesize(context.Background(), evidenceFixture())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTemplateSynthesizeErrors(t *testing.T) {
	n := NewTemplate()

	t.Run("no commits", func(t *testing.T) {
		_, err := n.Synthesize(context.Background(), schema.EvidencePackage{})
		assert.ErrorIs(t, err, contract.ErrNarrative)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := n.Synthesize(ctx, evidenceFixture())
		assert.ErrorIs(t, err, contract.ErrNarrative)
	})
}

func TestOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI(OpenAIConfig{BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"})
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"context":"x"}`, `{"context":"x"}`},
		{"fenced", "```json\n{\"context\":\"x\"}\n```", `{"context":"x"}`},
		{"bare fence", "```\n{\"context\":\"x\"}\n```", `{"context":"x"}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractJSON(tc.in))
		})
	}
}
