// Package extract turns raw commit records into normalized semantic
// extractions through a registry of pluggable per-concern extractors.
package extract

import (
	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// Registry holds the extractors available to one pipeline run. It is built
// explicitly and passed down with the configuration; there is no process-wide
// registry, so parallel runs and tests can use independent instances.
type Registry struct {
	extractors []contract.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an extractor. Registration order is the merge order during
// extraction, so it must stay deterministic.
func (r *Registry) Register(e contract.Extractor) {
	r.extractors = append(r.extractors, e)
}

// Extractors returns the registered extractors in registration order.
func (r *Registry) Extractors() []contract.Extractor {
	return r.extractors
}

// ForCommit selects every extractor whose file-type coverage intersects the
// commit's touched files. A commit with no touched files selects nothing.
func (r *Registry) ForCommit(commit schema.CommitRecord) []contract.Extractor {
	var selected []contract.Extractor
	for _, e := range r.extractors {
		for _, f := range commit.Files {
			if e.CanHandle(f) {
				selected = append(selected, e)
				break
			}
		}
	}
	return selected
}

// DefaultRegistry returns a registry with the built-in extractors: commit
// message classification, dependency manifests, and source structure.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewMessageExtractor())
	r.Register(NewManifestExtractor())
	r.Register(NewSourceExtractor())
	return r
}
