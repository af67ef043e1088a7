package extract

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// sourceExtensions lists the file extensions the structural extractor covers.
var sourceExtensions = map[string]bool{
	".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".rs": true, ".java": true, ".rb": true, ".cs": true,
	".kt": true, ".swift": true, ".c": true, ".cpp": true, ".h": true,
	".scala": true, ".php": true,
}

// patternDirs maps directory name fragments to normalized pattern identifiers.
// Directory layout is the cheapest reliable proxy for architectural patterns
// when only file paths are available.
var patternDirs = map[string]string{
	"controller": "controller", "controllers": "controller",
	"service": "service", "services": "service",
	"repository": "repository", "repositories": "repository",
	"middleware": "middleware", "middlewares": "middleware",
	"handler": "handler", "handlers": "handler",
	"model": "model", "models": "model",
	"migration": "migration", "migrations": "migration",
	"adapter": "adapter", "adapters": "adapter",
	"factory": "factory", "factories": "factory",
	"gateway": "gateway", "gateways": "gateway",
	"worker": "worker", "workers": "worker",
	"queue": "queue", "queues": "queue",
	"cache": "cache", "caches": "cache",
	"store": "store", "stores": "store",
	"auth":   "auth",
	"api":    "api",
	"config": "config", "configs": "config",
	"scheduler": "scheduler", "schedulers": "scheduler",
}

// SourceExtractor derives pattern and function identifiers from source file
// paths. It understands no language's syntax; directory names and file stems
// carry the structural signal.
type SourceExtractor struct{}

var _ contract.Extractor = &SourceExtractor{} // Compile-time check

// NewSourceExtractor creates a path-structure extractor.
func NewSourceExtractor() *SourceExtractor {
	return &SourceExtractor{}
}

// Name implements the contract.Extractor interface.
func (e *SourceExtractor) Name() string { return "source" }

// CanHandle implements the contract.Extractor interface.
func (e *SourceExtractor) CanHandle(filePath string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(filePath))]
}

// Extract implements the contract.Extractor interface.
func (e *SourceExtractor) Extract(commit schema.CommitRecord) (schema.CommitSemanticExtraction, error) {
	out := schema.CommitSemanticExtraction{SHA: commit.SHA}

	patterns := map[string]bool{}
	functions := map[string]bool{}
	topDirs := map[string]bool{}

	for _, f := range commit.Files {
		if !e.CanHandle(f) {
			continue
		}
		for _, seg := range strings.Split(filepath.ToSlash(filepath.Dir(f)), "/") {
			if id, ok := patternDirs[strings.ToLower(seg)]; ok {
				patterns[id] = true
			}
		}
		if top := topLevelDir(f); top != "" {
			topDirs[top] = true
		}
		stem := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		if stem != "" && !strings.HasSuffix(stem, "_test") {
			functions[stem] = true
		}
	}

	out.Patterns.Modified = sortedKeys(patterns)
	out.Functions.Modified = sortedKeys(functions)
	for _, d := range sortedKeys(topDirs) {
		out.ArchitecturalSignals = append(out.ArchitecturalSignals, "dir:"+d)
	}

	if len(out.Functions.Modified) > 0 {
		// A touch of base weight for any source change, plus a bit per
		// recognized pattern, saturating well below message-level signals.
		out.Significance = 0.1 + 0.1*float64(len(out.Patterns.Modified))
		if out.Significance > 0.5 {
			out.Significance = 0.5
		}
	}
	return out, nil
}

// topLevelDir returns the first path segment of a file inside the repo,
// or "" for files at the root.
func topLevelDir(path string) string {
	path = filepath.ToSlash(path)
	if idx := strings.IndexByte(path, '/'); idx > 0 {
		return path[:idx]
	}
	return ""
}

// sortedKeys returns a map's keys in sorted order for deterministic output.
func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
