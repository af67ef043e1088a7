package extract

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// manifestFiles maps dependency manifest base names to an ecosystem tag.
var manifestFiles = map[string]string{
	"go.mod":            "go",
	"go.sum":            "go",
	"package.json":      "npm",
	"package-lock.json": "npm",
	"yarn.lock":         "npm",
	"Cargo.toml":        "cargo",
	"Cargo.lock":        "cargo",
	"pom.xml":           "maven",
	"build.gradle":      "gradle",
	"requirements.txt":  "pip",
	"pyproject.toml":    "pip",
	"Gemfile":           "bundler",
	"composer.json":     "composer",
}

// Matches dependabot-style subjects: "bump foo from 1.2 to 1.3" and the
// plainer "update foo to v2".
var (
	bumpRe   = regexp.MustCompile(`(?i)\b(?:bump|update)\s+([\w@./-]+)\s+(?:from\s+\S+\s+)?to\s+\S+`)
	addRe    = regexp.MustCompile(`(?i)\badd(?:ed)?\s+(?:dependency|dep|package|library)\s+([\w@./-]+)`)
	removeRe = regexp.MustCompile(`(?i)\b(?:remove|drop)(?:d|ped)?\s+(?:dependency|dep|package|library)\s+([\w@./-]+)`)
)

// ManifestExtractor recognizes dependency changes from manifest file edits
// plus whatever package names the commit message gives away.
type ManifestExtractor struct{}

var _ contract.Extractor = &ManifestExtractor{} // Compile-time check

// NewManifestExtractor creates a dependency manifest extractor.
func NewManifestExtractor() *ManifestExtractor {
	return &ManifestExtractor{}
}

// Name implements the contract.Extractor interface.
func (e *ManifestExtractor) Name() string { return "manifest" }

// CanHandle implements the contract.Extractor interface.
func (e *ManifestExtractor) CanHandle(filePath string) bool {
	_, ok := manifestFiles[filepath.Base(filePath)]
	return ok
}

// Extract implements the contract.Extractor interface.
func (e *ManifestExtractor) Extract(commit schema.CommitRecord) (schema.CommitSemanticExtraction, error) {
	out := schema.CommitSemanticExtraction{
		SHA:          commit.SHA,
		Dependencies: map[string]schema.DependencyChange{},
	}

	ecosystems := map[string]bool{}
	for _, f := range commit.Files {
		if eco, ok := manifestFiles[filepath.Base(f)]; ok {
			ecosystems[eco] = true
		}
	}
	if len(ecosystems) == 0 {
		return schema.CommitSemanticExtraction{SHA: commit.SHA}, nil
	}

	// Named packages from the message beat the generic manifest signal.
	for _, m := range bumpRe.FindAllStringSubmatch(commit.Message, -1) {
		out.Dependencies[m[1]] = schema.DependencyUpdated
	}
	for _, m := range addRe.FindAllStringSubmatch(commit.Message, -1) {
		out.Dependencies[m[1]] = schema.DependencyAdded
	}
	for _, m := range removeRe.FindAllStringSubmatch(commit.Message, -1) {
		out.Dependencies[m[1]] = schema.DependencyRemoved
	}

	for eco := range ecosystems {
		out.ArchitecturalSignals = append(out.ArchitecturalSignals, "manifest:"+eco)
		if len(out.Dependencies) == 0 {
			// No named packages; record the manifest itself as updated.
			out.Dependencies[eco] = schema.DependencyUpdated
		}
	}
	sort.Strings(out.ArchitecturalSignals)

	out.Patterns.Modified = append(out.Patterns.Modified, "dependency-change")

	// Touching a manifest is a mild architectural signal on its own; named
	// package changes push it a little higher.
	out.Significance = 0.3
	if containsNamedDependency(out.Dependencies, ecosystems) {
		out.Significance = 0.45
	}
	if strings.Contains(strings.ToLower(commit.Message), "major") {
		out.Significance = 0.6
	}
	return out, nil
}

// containsNamedDependency reports whether any dependency key is an actual
// package name rather than an ecosystem placeholder.
func containsNamedDependency(deps map[string]schema.DependencyChange, ecosystems map[string]bool) bool {
	for name := range deps {
		if !ecosystems[name] {
			return true
		}
	}
	return false
}
