// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/archmine/schema"
)

// ErrHistory wraps failures of history traversal. It is the only error that
// aborts a mining run; everything downstream degrades via warnings.
var ErrHistory = errors.New("history traversal failed")

// ErrNarrative wraps failures of the narrative collaborator, including
// timeouts and empty required fields.
var ErrNarrative = errors.New("narrative synthesis failed")

// WalkOptions configures a history traversal pass.
type WalkOptions struct {
	RepoPath      string
	Since         time.Time // Zero means open-ended
	Until         time.Time // Zero means open-ended
	MaxCommits    int
	IncludeMerges bool
	ExcludePaths  []string // Glob-ish patterns, ShouldIgnore semantics
}

// HistoryWalker reads an ordered sequence of commits from a repository.
// The mining core never touches a repository directly; it consumes whatever
// records the walker produces. Implementations must return commits oldest
// first and respect MaxCommits.
type HistoryWalker interface {
	// Walk returns the commit records matching the options. Failures must
	// wrap ErrHistory so the orchestrator can classify them as fatal.
	Walk(ctx context.Context, opts WalkOptions) ([]schema.CommitRecord, error)
}

// Extractor is a pluggable per-language (or per-concern) semantic extractor.
// Extractors are registered explicitly on a registry owned by the pipeline
// configuration; there is no process-wide registry.
type Extractor interface {
	// Name identifies the extractor in warnings.
	Name() string

	// CanHandle reports whether this extractor understands the given file path.
	CanHandle(filePath string) bool

	// Extract produces a partial semantic extraction for the commit. A failing
	// extractor never aborts the run; the adapter records a warning and moves on.
	Extract(commit schema.CommitRecord) (schema.CommitSemanticExtraction, error)
}

// Narrator is the external narrative collaborator. It receives a deterministic
// evidence package and returns only the free-text ADR fields; references and
// evidence are derived by the synthesis coordinator, never by the narrator.
type Narrator interface {
	// Name identifies the narrator in warnings.
	Name() string

	// Synthesize produces the narrative for one cluster. Implementations must
	// honor ctx cancellation; a timed-out call is a per-cluster failure.
	Synthesize(ctx context.Context, pkg schema.EvidencePackage) (schema.Narrative, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetPatternStore() PatternStore
}

// PatternStore defines the interface for pattern-data cache storage, keyed by
// commit SHA. Values are opaque bytes; the extraction layer owns the encoding.
type PatternStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
