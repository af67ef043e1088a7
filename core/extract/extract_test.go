package extract

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

func commitAt(sha, message string, files ...string) schema.CommitRecord {
	return schema.CommitRecord{
		SHA:       sha,
		Author:    "dev@example.com",
		Timestamp: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		Message:   message,
		Files:     files,
	}
}

func TestIsTrivialCommit(t *testing.T) {
	for _, tc := range []struct {
		name    string
		message string
		want    bool
	}{
		{"merge branch", "Merge branch 'main' into feature", true},
		{"merge pr", "Merge pull request #42 from fork/main", true},
		{"wip", "WIP: half done", true},
		{"fixup", "fixup! adjust tests", true},
		{"squash", "squash! adjust tests", true},
		{"revert of revert", "Revert \"Revert \"add cache\"\"", true},
		{"regular feat", "feat: add caching layer", false},
		{"plain revert", "Revert \"add cache\"", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTrivialCommit(tc.message))
		})
	}
}

func TestCategorize(t *testing.T) {
	for _, tc := range []struct {
		name    string
		message string
		files   []string
		want    schema.DecisionCategory
		wantHit bool
	}{
		{
			name:    "database keywords and files",
			message: "feat: add postgres migration for events table",
			files:   []string{"migrations/0002_events.sql"},
			want:    schema.CategoryDatabase,
			wantHit: true,
		},
		{
			name:    "security",
			message: "fix: rotate jwt signing key and harden auth",
			files:   []string{"internal/auth/token.go"},
			want:    schema.CategorySecurity,
			wantHit: true,
		},
		{
			name:    "testing",
			message: "test: add integration coverage for checkout flow",
			files:   []string{"checkout_integration_test.go"},
			want:    schema.CategoryTesting,
			wantHit: true,
		},
		{
			name:    "no signal",
			message: "tweak things",
			files:   []string{"README"},
			wantHit: false,
		},
		{
			name:    "trivial never categorized",
			message: "Merge branch 'release'",
			files:   []string{"db/schema.sql"},
			wantHit: false,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Categorize(commitAt("a", tc.message, tc.files...))
			require.Equal(t, tc.wantHit, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.want, got.Category)
			assert.GreaterOrEqual(t, got.Confidence, 0.25)
			assert.LessOrEqual(t, got.Confidence, 1.0)
			assert.NotEmpty(t, got.Keywords)
		})
	}
}

func TestCategorizeConfidenceCaps(t *testing.T) {
	// Pile on keyword and file hits; the caps keep confidence at 1.0 or below.
	commit := commitAt("a",
		"migrate and upgrade framework, switch to new library runtime platform",
		"package.json", "go.mod", "Cargo.toml", "pom.xml")
	got, ok := Categorize(commit)
	require.True(t, ok)
	assert.Equal(t, schema.CategoryTechnology, got.Category)
	assert.InDelta(t, keywordCap+fileCap, got.Confidence, 1e-9)
}

func TestConventionalType(t *testing.T) {
	for _, tc := range []struct {
		message string
		want    string
	}{
		{"feat: add thing", "feat"},
		{"feat(auth): add thing", "feat"},
		{"FIX: broken thing", "fix"},
		{"random subject line", ""},
		{": empty type", ""},
	} {
		assert.Equal(t, tc.want, conventionalType(tc.message), tc.message)
	}
}

func TestMessageExtractor(t *testing.T) {
	e := NewMessageExtractor()
	assert.Equal(t, "message", e.Name())
	assert.True(t, e.CanHandle("anything.xyz"))

	got, err := e.Extract(commitAt("a", "feat: adopt redis cache for sessions", "internal/cache/redis.go"))
	require.NoError(t, err)
	assert.Contains(t, got.MessageSignals, "type:feat")
	assert.NotEmpty(t, got.Category)
	assert.Greater(t, got.Significance, 0.0)
}

func TestManifestExtractor(t *testing.T) {
	e := NewManifestExtractor()
	assert.True(t, e.CanHandle("go.mod"))
	assert.True(t, e.CanHandle("web/package.json"))
	assert.False(t, e.CanHandle("main.go"))

	t.Run("bump with named package", func(t *testing.T) {
		got, err := e.Extract(commitAt("a", "chore: bump lodash from 4.17.20 to 4.17.21", "package.json"))
		require.NoError(t, err)
		assert.Equal(t, schema.DependencyUpdated, got.Dependencies["lodash"])
		assert.Contains(t, got.ArchitecturalSignals, "manifest:npm")
		assert.Contains(t, got.Patterns.Modified, "dependency-change")
		assert.InDelta(t, 0.45, got.Significance, 1e-9)
	})

	t.Run("unnamed manifest touch", func(t *testing.T) {
		got, err := e.Extract(commitAt("a", "chore: tidy modules", "go.mod", "go.sum"))
		require.NoError(t, err)
		assert.Equal(t, schema.DependencyUpdated, got.Dependencies["go"])
		assert.InDelta(t, 0.3, got.Significance, 1e-9)
	})

	t.Run("major bump", func(t *testing.T) {
		got, err := e.Extract(commitAt("a", "feat: major upgrade, bump react from 17 to 18", "package.json"))
		require.NoError(t, err)
		assert.InDelta(t, 0.6, got.Significance, 1e-9)
	})
}

func TestSourceExtractor(t *testing.T) {
	e := NewSourceExtractor()
	assert.True(t, e.CanHandle("internal/auth/service.go"))
	assert.True(t, e.CanHandle("src/App.TSX"))
	assert.False(t, e.CanHandle("README.md"))

	got, err := e.Extract(commitAt("a", "feat: add session service",
		"internal/services/session.go",
		"internal/middleware/auth.go",
		"internal/services/session_test.go",
		"docs/notes.md"))
	require.NoError(t, err)
	assert.Equal(t, []string{"middleware", "service"}, got.Patterns.Modified)
	assert.Equal(t, []string{"auth", "session"}, got.Functions.Modified)
	assert.Contains(t, got.ArchitecturalSignals, "dir:internal")
	assert.NotContains(t, got.ArchitecturalSignals, "dir:docs")
	assert.InDelta(t, 0.3, got.Significance, 1e-9)
}

func TestSourceExtractorSignificanceCap(t *testing.T) {
	e := NewSourceExtractor()
	got, err := e.Extract(commitAt("a", "refactor",
		"controllers/a.go", "services/b.go", "repositories/c.go",
		"middleware/d.go", "handlers/e.go", "models/f.go"))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got.Significance, 1e-9)
}

func TestRegistryForCommit(t *testing.T) {
	r := DefaultRegistry()
	require.Len(t, r.Extractors(), 3)

	t.Run("source and message for go files", func(t *testing.T) {
		selected := r.ForCommit(commitAt("a", "feat: x", "main.go"))
		names := extractorNames(selected)
		assert.Equal(t, []string{"message", "source"}, names)
	})

	t.Run("all three for manifest plus source", func(t *testing.T) {
		selected := r.ForCommit(commitAt("a", "feat: x", "go.mod", "main.go"))
		assert.Equal(t, []string{"message", "manifest", "source"}, extractorNames(selected))
	})

	t.Run("nothing for empty file list", func(t *testing.T) {
		assert.Empty(t, r.ForCommit(commitAt("a", "feat: x")))
	})
}

func extractorNames(extractors []contract.Extractor) []string {
	names := make([]string, 0, len(extractors))
	for _, e := range extractors {
		names = append(names, e.Name())
	}
	return names
}

// failingExtractor always errors to exercise adapter failure isolation.
type failingExtractor struct{}

func (f *failingExtractor) Name() string          { return "boom" }
func (f *failingExtractor) CanHandle(string) bool { return true }
func (f *failingExtractor) Extract(schema.CommitRecord) (schema.CommitSemanticExtraction, error) {
	return schema.CommitSemanticExtraction{}, errors.New("parse blew up")
}

// memoryStore is an in-memory PatternStore for adapter tests.
type memoryStore struct {
	payloads map[string][]byte
	versions map[string]int
	sets     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{payloads: map[string][]byte{}, versions: map[string]int{}}
}

func (s *memoryStore) Get(key string) ([]byte, int, int64, error) {
	payload, ok := s.payloads[key]
	if !ok {
		return nil, 0, 0, errors.New("not found")
	}
	return payload, s.versions[key], 0, nil
}

func (s *memoryStore) Set(key string, value []byte, version int, _ int64) error {
	s.payloads[key] = value
	s.versions[key] = version
	s.sets++
	return nil
}

func (s *memoryStore) GetStatus() (schema.CacheStatus, error) { return schema.CacheStatus{}, nil }
func (s *memoryStore) Close() error                           { return nil }

func TestAdapterMergesPartials(t *testing.T) {
	a := NewAdapter(DefaultRegistry(), nil)
	got, warnings, hit := a.Extract(commitAt("a",
		"feat: adopt postgres, bump pgx from v4 to v5",
		"go.mod", "internal/stores/session.go"))

	assert.Empty(t, warnings)
	assert.False(t, hit)
	assert.Equal(t, "a", got.SHA)
	assert.Contains(t, got.MessageSignals, "type:feat")
	assert.Equal(t, schema.DependencyUpdated, got.Dependencies["pgx"])
	assert.Contains(t, got.Patterns.Modified, "dependency-change")
	assert.Contains(t, got.Patterns.Modified, "store")
	// Significance is the max across extractors, never a sum.
	assert.LessOrEqual(t, got.Significance, 1.0)
	assert.Greater(t, got.Significance, 0.0)
	assert.NotEmpty(t, got.Category)
}

func TestAdapterIsolatesFailures(t *testing.T) {
	r := NewRegistry()
	r.Register(&failingExtractor{})
	r.Register(NewMessageExtractor())
	a := NewAdapter(r, nil)

	got, warnings, _ := a.Extract(commitAt("deadbeefcafe", "feat: add rate limiter", "limiter.go"))

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `extractor "boom" failed`)
	assert.Contains(t, warnings[0], "deadbeef")
	assert.Contains(t, got.MessageSignals, "type:feat")
}

func TestAdapterCacheRoundTrip(t *testing.T) {
	store := newMemoryStore()
	a := NewAdapter(DefaultRegistry(), store)
	commit := commitAt("cafef00d", "feat: add webhook handler", "handlers/webhook.go")

	first, _, hit := a.Extract(commit)
	assert.False(t, hit)
	assert.Equal(t, 1, store.sets)

	second, _, hit := a.Extract(commit)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.sets, "cache hit must not rewrite the entry")
}

func TestAdapterRejectsStaleCacheVersion(t *testing.T) {
	store := newMemoryStore()
	store.payloads["cafef00d"] = []byte(`{"sha":"cafef00d"}`)
	store.versions["cafef00d"] = patternCacheVersion + 1
	a := NewAdapter(DefaultRegistry(), store)

	_, _, hit := a.Extract(commitAt("cafef00d", "feat: add webhook handler", "handlers/webhook.go"))
	assert.False(t, hit)
	assert.Equal(t, patternCacheVersion, store.versions["cafef00d"], "recompute overwrites stale entry")
}
