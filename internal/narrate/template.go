package narrate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// Template is the deterministic narrator. It writes serviceable ADR prose
// from the evidence package alone, with no network access, so the default
// pipeline works offline and tests stay reproducible.
type Template struct{}

var _ contract.Narrator = &Template{} // Compile-time check

// NewTemplate creates the deterministic template narrator.
func NewTemplate() *Template {
	return &Template{}
}

// Name implements the contract.Narrator interface.
func (t *Template) Name() string { return "template" }

// Synthesize implements the contract.Narrator interface.
func (t *Template) Synthesize(ctx context.Context, pkg schema.EvidencePackage) (schema.Narrative, error) {
	if err := ctx.Err(); err != nil {
		return schema.Narrative{}, fmt.Errorf("%w: %v", contract.ErrNarrative, err)
	}
	if len(pkg.Commits) == 0 {
		return schema.Narrative{}, fmt.Errorf("%w: evidence package has no commits", contract.ErrNarrative)
	}

	return schema.Narrative{
		Context:      t.contextText(pkg),
		Decision:     t.decisionText(pkg),
		Consequences: t.consequences(pkg),
		Alternatives: t.alternatives(pkg),
	}, nil
}

// contextText summarizes when and where the work happened.
func (t *Template) contextText(pkg schema.EvidencePackage) string {
	span := pkg.Cluster.End.Sub(pkg.Cluster.Start)
	window := "a single commit"
	switch {
	case span > 0 && span.Hours() < 48:
		window = fmt.Sprintf("%.0f hours", span.Hours())
	case span.Hours() >= 48:
		window = fmt.Sprintf("%.0f days", span.Hours()/24)
	}

	subject := "the codebase"
	if areas := touchedAreas(pkg); len(areas) > 0 {
		subject = strings.Join(areas, ", ")
	}

	text := fmt.Sprintf("Between %s and %s, %d related commits changed %s over %s.",
		pkg.Cluster.Start.Format("2006-01-02"),
		pkg.Cluster.End.Format("2006-01-02"),
		len(pkg.Commits), subject, window)
	if pkg.Category != "" {
		text += fmt.Sprintf(" The change activity points to a %s decision.", pkg.Category)
	}
	return text
}

// decisionText states what was decided, anchored on the most significant
// commit's subject line.
func (t *Template) decisionText(pkg schema.EvidencePackage) string {
	lead := pkg.Commits[0]
	leadSig := -1.0
	for i, e := range pkg.Extractions {
		if e.Significance > leadSig {
			leadSig = e.Significance
			lead = pkg.Commits[i]
		}
	}

	subject := schema.StripConventionalPrefix(schema.FirstLine(lead.Message))
	text := fmt.Sprintf("The team decided to %s.", lowerFirst(strings.TrimSuffix(subject, ".")))
	if deps := dependencyChanges(pkg); len(deps) > 0 {
		text += " Dependency changes: " + strings.Join(deps, ", ") + "."
	}
	return text
}

// consequences lists observable follow-on effects from the extractions.
func (t *Template) consequences(pkg schema.EvidencePackage) []string {
	var out []string
	if patterns := patternSet(pkg); len(patterns) > 0 {
		out = append(out, "Code now concentrates around: "+strings.Join(patterns, ", ")+".")
	}
	files := map[string]bool{}
	for _, c := range pkg.Commits {
		for _, f := range c.Files {
			files[f] = true
		}
	}
	if len(files) > 0 {
		out = append(out, fmt.Sprintf("%d files carry the change and will move together in future work.", len(files)))
	}
	return out
}

// alternatives surfaces removed patterns and dependencies as the paths not
// taken. Without richer history there is nothing else to claim.
func (t *Template) alternatives(pkg schema.EvidencePackage) []string {
	removed := map[string]bool{}
	for _, e := range pkg.Extractions {
		for _, p := range e.Patterns.Removed {
			removed[p] = true
		}
		for name, change := range e.Dependencies {
			if change == schema.DependencyRemoved {
				removed[name] = true
			}
		}
	}
	if len(removed) == 0 {
		return nil
	}
	names := sortedSet(removed)
	return []string{"Continuing with " + strings.Join(names, ", ") + ", which this work moved away from."}
}

// touchedAreas returns the distinct top-level directories touched by the
// cluster, capped at three.
func touchedAreas(pkg schema.EvidencePackage) []string {
	areas := map[string]bool{}
	for _, c := range pkg.Commits {
		for _, f := range c.Files {
			if idx := strings.IndexByte(f, '/'); idx > 0 {
				areas[f[:idx]] = true
			}
		}
	}
	names := sortedSet(areas)
	if len(names) > 3 {
		names = names[:3]
	}
	return names
}

// dependencyChanges renders the cluster's dependency deltas as "name (kind)".
func dependencyChanges(pkg schema.EvidencePackage) []string {
	changes := map[string]schema.DependencyChange{}
	for _, e := range pkg.Extractions {
		for name, change := range e.Dependencies {
			if _, seen := changes[name]; !seen {
				changes[name] = change
			}
		}
	}
	var out []string
	for _, name := range sortedMapKeys(changes) {
		out = append(out, fmt.Sprintf("%s (%s)", name, changes[name]))
	}
	return out
}

// patternSet returns the sorted union of all pattern identifiers.
func patternSet(pkg schema.EvidencePackage) []string {
	set := map[string]bool{}
	for _, e := range pkg.Extractions {
		for _, p := range e.AllPatterns() {
			set[p] = true
		}
	}
	return sortedSet(set)
}

func sortedSet(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedMapKeys(m map[string]schema.DependencyChange) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
