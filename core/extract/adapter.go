package extract

import (
	"encoding/json"
	"fmt"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// patternCacheVersion tags cached extraction payloads. Bump it whenever the
// extraction encoding or extractor semantics change so stale entries are
// recomputed instead of trusted.
const patternCacheVersion = 1

// Adapter runs every applicable extractor against a commit and merges the
// partial results into one normalized extraction. When a pattern store is
// attached, finished extractions are cached by commit SHA.
type Adapter struct {
	registry *Registry
	store    contract.PatternStore
}

// NewAdapter creates an extraction adapter. A nil store disables caching.
func NewAdapter(registry *Registry, store contract.PatternStore) *Adapter {
	return &Adapter{registry: registry, store: store}
}

// Extract produces the merged semantic extraction for one commit along with
// any per-extractor warnings and whether the result came from the cache.
// A failing extractor never fails the commit; its partial is skipped.
func (a *Adapter) Extract(commit schema.CommitRecord) (schema.CommitSemanticExtraction, []string, bool) {
	if cached, ok := a.lookup(commit.SHA); ok {
		return cached, nil, true
	}

	merged := schema.CommitSemanticExtraction{SHA: commit.SHA}
	var warnings []string
	bestCategorySig := -1.0

	for _, e := range a.registry.ForCommit(commit) {
		partial, err := e.Extract(commit)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf(
				"extraction: extractor %q failed on commit %s: %v",
				e.Name(), schema.ShortSHA(commit.SHA), err))
			continue
		}
		mergeExtraction(&merged, &partial)
		if partial.Category != "" && partial.Significance > bestCategorySig {
			merged.Category = partial.Category
			bestCategorySig = partial.Significance
		}
	}

	a.save(commit, merged)
	return merged, warnings, false
}

// lookup fetches a cached extraction for the SHA, rejecting entries written
// under a different cache version or that fail to decode.
func (a *Adapter) lookup(sha string) (schema.CommitSemanticExtraction, bool) {
	if a.store == nil {
		return schema.CommitSemanticExtraction{}, false
	}
	payload, version, _, err := a.store.Get(sha)
	if err != nil || version != patternCacheVersion || len(payload) == 0 {
		return schema.CommitSemanticExtraction{}, false
	}
	var out schema.CommitSemanticExtraction
	if err := json.Unmarshal(payload, &out); err != nil || out.SHA != sha {
		return schema.CommitSemanticExtraction{}, false
	}
	return out, true
}

// save writes a finished extraction to the pattern store. Cache failures are
// silent; the extraction itself is already in hand.
func (a *Adapter) save(commit schema.CommitRecord, extraction schema.CommitSemanticExtraction) {
	if a.store == nil {
		return
	}
	payload, err := json.Marshal(extraction)
	if err != nil {
		return
	}
	_ = a.store.Set(commit.SHA, payload, patternCacheVersion, commit.Timestamp.Unix())
}

// mergeExtraction folds one partial extraction into the accumulator. List
// fields concatenate with duplicates dropped, dependency maps union with the
// first writer winning, and significance takes the maximum.
func mergeExtraction(dst, src *schema.CommitSemanticExtraction) {
	dst.Patterns.Added = appendUnique(dst.Patterns.Added, src.Patterns.Added)
	dst.Patterns.Removed = appendUnique(dst.Patterns.Removed, src.Patterns.Removed)
	dst.Patterns.Modified = appendUnique(dst.Patterns.Modified, src.Patterns.Modified)
	dst.Functions.Added = appendUnique(dst.Functions.Added, src.Functions.Added)
	dst.Functions.Removed = appendUnique(dst.Functions.Removed, src.Functions.Removed)
	dst.Functions.Modified = appendUnique(dst.Functions.Modified, src.Functions.Modified)
	dst.Functions.Renamed = appendUnique(dst.Functions.Renamed, src.Functions.Renamed)
	dst.MessageSignals = appendUnique(dst.MessageSignals, src.MessageSignals)
	dst.ArchitecturalSignals = appendUnique(dst.ArchitecturalSignals, src.ArchitecturalSignals)

	for name, change := range src.Dependencies {
		if dst.Dependencies == nil {
			dst.Dependencies = map[string]schema.DependencyChange{}
		}
		if _, exists := dst.Dependencies[name]; !exists {
			dst.Dependencies[name] = change
		}
	}

	if src.Significance > dst.Significance {
		dst.Significance = src.Significance
	}
}

// appendUnique appends src values not already present in dst, preserving
// first-occurrence order.
func appendUnique(dst, src []string) []string {
	if len(src) == 0 {
		return dst
	}
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range src {
		if !seen[v] {
			dst = append(dst, v)
			seen[v] = true
		}
	}
	return dst
}
