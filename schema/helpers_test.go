package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestShortSHA verifies hash abbreviation behavior.
func TestShortSHA(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "full hash", input: "0123456789abcdef0123456789abcdef01234567", expected: "01234567"},
		{name: "short hash", input: "abc123", expected: "abc123"},
		{name: "empty", input: "", expected: ""},
		{name: "exactly eight", input: "abcd1234", expected: "abcd1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShortSHA(tt.input))
		})
	}
}

// TestFirstLine verifies commit subject extraction.
func TestFirstLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single line", input: "feat: add cache layer", expected: "feat: add cache layer"},
		{name: "multi line", input: "feat: add cache layer\n\nLong body here.", expected: "feat: add cache layer"},
		{name: "trailing space", input: "fix: typo  \nbody", expected: "fix: typo"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FirstLine(tt.input))
		})
	}
}

// TestStripConventionalPrefix verifies prefix stripping.
func TestStripConventionalPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "feat prefix", input: "feat: adopt hexagonal architecture", expected: "adopt hexagonal architecture"},
		{name: "scoped prefix", input: "fix(auth): rotate keys", expected: "rotate keys"},
		{name: "no prefix", input: "adopt hexagonal architecture", expected: "adopt hexagonal architecture"},
		{name: "colon late in line is kept", input: "update docs for module: a very long explanation: more", expected: "a very long explanation: more"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripConventionalPrefix(tt.input))
		})
	}
}

// TestSlugify verifies ADR slug generation.
func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "simple", input: "Use PostgreSQL for storage", maxLen: 0, expected: "use-postgresql-for-storage"},
		{name: "punctuation collapses", input: "Adopt CQRS (+ event sourcing!)", maxLen: 0, expected: "adopt-cqrs-event-sourcing"},
		{name: "capped", input: "a very long decision title indeed", maxLen: 10, expected: "a-very-lon"},
		{name: "empty", input: "", maxLen: 0, expected: ""},
		{name: "only punctuation", input: "!!!", maxLen: 0, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input, tt.maxLen))
		})
	}
}

// TestDecisionTitle verifies title fallback order.
func TestDecisionTitle(t *testing.T) {
	withADR := &MinedDecision{
		ID:      "dec-1",
		ADR:     SynthesizedADR{Decision: "Adopt repository pattern. It isolates storage."},
		Cluster: CommitCluster{SHAs: []string{"0123456789abcdef"}},
	}
	assert.Equal(t, "Adopt repository pattern", withADR.Title())

	withoutADR := &MinedDecision{
		ID:      "dec-2",
		Cluster: CommitCluster{SHAs: []string{"0123456789abcdef"}},
	}
	assert.Equal(t, "01234567", withoutADR.Title())

	bare := &MinedDecision{ID: "dec-3"}
	assert.Equal(t, "dec-3", bare.Title())
}

// TestExtractionIsEmpty verifies the empty-extraction predicate.
func TestExtractionIsEmpty(t *testing.T) {
	empty := &CommitSemanticExtraction{SHA: "abc"}
	assert.True(t, empty.IsEmpty())

	withPattern := &CommitSemanticExtraction{
		SHA:      "abc",
		Patterns: PatternDelta{Added: []string{"repository"}},
	}
	assert.False(t, withPattern.IsEmpty())

	withSignificance := &CommitSemanticExtraction{SHA: "abc", Significance: 0.4}
	assert.False(t, withSignificance.IsEmpty())
}

// TestAllPatterns verifies ordering across change kinds.
func TestAllPatterns(t *testing.T) {
	e := &CommitSemanticExtraction{
		Patterns: PatternDelta{
			Added:    []string{"a"},
			Removed:  []string{"b"},
			Modified: []string{"c"},
		},
	}
	assert.Equal(t, []string{"a", "b", "c"}, e.AllPatterns())
}
