package schema

// OutputMode determines how mined decisions are rendered.
type OutputMode string

// Output modes.
const (
	TextOut     OutputMode = "text"
	JSONOut     OutputMode = "json"
	CSVOut      OutputMode = "csv"
	ParquetOut  OutputMode = "parquet"
	MarkdownOut OutputMode = "markdown"
)

// IsValid reports whether the output mode is one of the supported values.
func (m OutputMode) IsValid() bool {
	switch m {
	case TextOut, JSONOut, CSVOut, ParquetOut, MarkdownOut:
		return true
	}
	return false
}

// CacheBackend determines where the pattern-data cache lives.
type CacheBackend string

// Cache backends.
const (
	SQLiteBackend     CacheBackend = "sqlite"
	MySQLBackend      CacheBackend = "mysql"
	PostgreSQLBackend CacheBackend = "postgresql"
	NoneBackend       CacheBackend = "none"
)

// IsValid reports whether the cache backend is one of the supported values.
func (b CacheBackend) IsValid() bool {
	switch b {
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend:
		return true
	}
	return false
}

// NarratorKind selects the narrative collaborator implementation.
type NarratorKind string

// Narrator kinds. The template narrator is deterministic and needs no
// network access; the openai narrator calls an LLM via langchaingo.
const (
	TemplateNarrator NarratorKind = "template"
	OpenAINarrator   NarratorKind = "openai"
)

// IsValid reports whether the narrator kind is one of the supported values.
func (k NarratorKind) IsValid() bool {
	switch k {
	case TemplateNarrator, OpenAINarrator:
		return true
	}
	return false
}

// DecisionCategory classifies what kind of architectural decision a commit
// or cluster represents.
type DecisionCategory string

// Decision categories.
const (
	CategoryArchitecture  DecisionCategory = "architecture"
	CategoryTechnology    DecisionCategory = "technology"
	CategoryPattern       DecisionCategory = "pattern"
	CategoryConvention    DecisionCategory = "convention"
	CategorySecurity      DecisionCategory = "security"
	CategoryPerformance   DecisionCategory = "performance"
	CategoryTesting       DecisionCategory = "testing"
	CategoryDeployment    DecisionCategory = "deployment"
	CategoryDatabase      DecisionCategory = "database"
	CategoryAPI           DecisionCategory = "api"
	CategoryErrorHandling DecisionCategory = "error-handling"
	CategoryDocumentation DecisionCategory = "documentation"
)

// AllCategories lists every decision category in display order.
var AllCategories = []DecisionCategory{
	CategoryArchitecture,
	CategoryTechnology,
	CategoryPattern,
	CategoryConvention,
	CategorySecurity,
	CategoryPerformance,
	CategoryTesting,
	CategoryDeployment,
	CategoryDatabase,
	CategoryAPI,
	CategoryErrorHandling,
	CategoryDocumentation,
}

// CacheStatus holds status information about the pattern-data cache.
type CacheStatus struct {
	Backend    CacheBackend `json:"backend"`
	Location   string       `json:"location"`
	Entries    int64        `json:"entries"`
	SizeBytes  int64        `json:"sizeBytes"`
	OldestUnix int64        `json:"oldestUnix"`
	NewestUnix int64        `json:"newestUnix"`
}
