package extract

import (
	"strings"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// MessageExtractor classifies the commit message against the decision
// category rule table. It covers every file type since it only reads the
// message and touched paths, never file content.
type MessageExtractor struct{}

var _ contract.Extractor = &MessageExtractor{} // Compile-time check

// NewMessageExtractor creates a message-based extractor.
func NewMessageExtractor() *MessageExtractor {
	return &MessageExtractor{}
}

// Name implements the contract.Extractor interface.
func (e *MessageExtractor) Name() string { return "message" }

// CanHandle implements the contract.Extractor interface. Messages exist for
// every commit, so any touched file qualifies.
func (e *MessageExtractor) CanHandle(_ string) bool { return true }

// Extract implements the contract.Extractor interface.
func (e *MessageExtractor) Extract(commit schema.CommitRecord) (schema.CommitSemanticExtraction, error) {
	out := schema.CommitSemanticExtraction{SHA: commit.SHA}

	if kind := conventionalType(commit.Message); kind != "" {
		out.MessageSignals = append(out.MessageSignals, "type:"+kind)
	}

	cat, ok := Categorize(commit)
	if !ok {
		return out, nil
	}

	out.Category = cat.Category
	out.Significance = cat.Confidence
	out.MessageSignals = append(out.MessageSignals, cat.Keywords...)
	for _, tag := range cat.FileTags {
		out.ArchitecturalSignals = append(out.ArchitecturalSignals, "path:"+strings.Trim(tag, "/"))
	}
	return out, nil
}

// conventionalType returns the conventional-commit type of a subject line
// ("feat", "fix", ...) or the empty string.
func conventionalType(message string) string {
	subject := schema.FirstLine(message)
	idx := strings.IndexByte(subject, ':')
	if idx <= 0 {
		return ""
	}
	kind := strings.ToLower(subject[:idx])
	// Strip an optional scope, e.g. "feat(auth)".
	if open := strings.IndexByte(kind, '('); open > 0 {
		kind = kind[:open]
	}
	switch kind {
	case "feat", "fix", "refactor", "perf", "test", "docs", "chore", "build", "ci", "style", "revert", "security":
		return kind
	}
	return ""
}
