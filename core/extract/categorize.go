package extract

import (
	"strings"

	"github.com/huangsam/archmine/schema"
)

// categorizationRule maps message keywords and file path fragments to one
// decision category. Keyword hits weigh 0.3 each (capped at 0.6), file hits
// 0.2 each (capped at 0.4), so a rule can reach 1.0 at most.
type categorizationRule struct {
	category      schema.DecisionCategory
	keywords      []string
	filePatterns  []string
	minConfidence float64
}

// keywordWeight and related caps tune how rule hits accumulate.
const (
	keywordWeight = 0.3
	keywordCap    = 0.6
	fileWeight    = 0.2
	fileCap       = 0.4
)

// trivialPrefixes are commit subjects that never represent a decision.
var trivialPrefixes = []string{
	"merge branch", "merge pull request", "wip", "fixup!",
	"squash!", "revert \"revert",
}

var categorizationRules = []categorizationRule{
	{
		category: schema.CategoryArchitecture,
		keywords: []string{
			"architect", "microservice", "monolith", "modular", "layer",
			"decouple", "service mesh", "event-driven", "cqrs", "hexagonal",
			"clean architecture", "domain-driven",
		},
		filePatterns:  []string{"architecture", "design", "adr/"},
		minConfidence: 0.25,
	},
	{
		category: schema.CategoryTechnology,
		keywords: []string{
			"migrate", "upgrade", "switch to", "replace", "adopt",
			"framework", "library", "runtime", "engine", "platform",
		},
		filePatterns:  []string{"package.json", "Cargo.toml", "pom.xml", "go.mod", "Gemfile"},
		minConfidence: 0.25,
	},
	{
		category: schema.CategoryPattern,
		keywords: []string{
			"pattern", "singleton", "factory", "observer", "strategy",
			"repository", "middleware", "decorator", "adapter",
		},
		filePatterns:  []string{"patterns/", "utils/", "helpers/"},
		minConfidence: 0.25,
	},
	{
		category: schema.CategoryConvention,
		keywords: []string{
			"convention", "naming", "style", "lint", "format",
			"eslint", "prettier", "rustfmt", "standard",
		},
		filePatterns:  []string{".eslintrc", ".prettierrc", "rustfmt.toml", "clippy.toml"},
		minConfidence: 0.25,
	},
	{
		category: schema.CategorySecurity,
		keywords: []string{
			"security", "auth", "csrf", "xss", "injection", "encrypt",
			"vulnerability", "cve", "rate limit", "cors", "helmet",
			"sanitize", "validate input",
		},
		filePatterns:  []string{"security/", "auth/", "middleware/"},
		minConfidence: 0.25,
	},
	{
		category: schema.CategoryPerformance,
		keywords: []string{
			"performance", "optimize", "cache", "lazy load", "bundle",
			"compress", "index", "query optimization", "profil",
			"benchmark", "throughput", "latency",
		},
		filePatterns:  []string{"cache/", "perf/", "benchmark/"},
		minConfidence: 0.25,
	},
	{
		category: schema.CategoryTesting,
		keywords: []string{
			"test", "coverage", "jest", "mocha", "pytest", "junit",
			"integration test", "e2e", "snapshot", "mock", "fixture",
		},
		filePatterns:  []string{"test/", "tests/", "spec/", "__tests__/"},
		minConfidence: 0.25,
	},
	{
		category: schema.CategoryDeployment,
		keywords: []string{
			"deploy", "ci/cd", "docker", "kubernetes", "terraform",
			"pipeline", "github action", "jenkins", "helm",
		},
		filePatterns: []string{
			"Dockerfile", ".github/workflows/", "terraform/",
			"k8s/", "docker-compose", "Jenkinsfile",
		},
		minConfidence: 0.25,
	},
	{
		category: schema.CategoryDatabase,
		keywords: []string{
			"schema", "migration", "model", "entity", "table",
			"column", "index", "foreign key", "relation",
			"database", "orm",
		},
		filePatterns:  []string{"migrations/", "models/", "entities/", "schema/"},
		minConfidence: 0.25,
	},
	{
		category: schema.CategoryAPI,
		keywords: []string{
			"api", "endpoint", "rest", "graphql", "grpc", "openapi",
			"swagger", "route", "controller", "versioning",
		},
		filePatterns:  []string{"routes/", "controllers/", "api/", "openapi"},
		minConfidence: 0.25,
	},
	{
		category: schema.CategoryErrorHandling,
		keywords: []string{
			"error handling", "exception", "retry", "circuit breaker",
			"fallback", "graceful", "recovery", "error boundary",
		},
		filePatterns:  []string{"errors/", "exceptions/"},
		minConfidence: 0.25,
	},
	{
		category: schema.CategoryDocumentation,
		keywords: []string{
			"document", "readme", "changelog", "contributing",
			"api doc", "jsdoc", "rustdoc", "wiki",
		},
		filePatterns:  []string{"docs/", "README", "CHANGELOG", "CONTRIBUTING"},
		minConfidence: 0.25,
	},
}

// Categorization is the outcome of classifying one commit.
type Categorization struct {
	Category   schema.DecisionCategory
	Confidence float64
	Keywords   []string // Matched message keywords, rule order
	FileTags   []string // Matched file patterns, rule order
}

// IsTrivialCommit reports whether a commit message marks a commit that never
// represents a decision (merges, WIP, fixups).
func IsTrivialCommit(message string) bool {
	msg := strings.ToLower(strings.TrimSpace(message))
	for _, p := range trivialPrefixes {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}

// Categorize classifies a commit into the best-scoring decision category.
// The boolean result is false for trivial commits and for commits that clear
// no rule's minimum confidence.
func Categorize(commit schema.CommitRecord) (Categorization, bool) {
	if IsTrivialCommit(commit.Message) {
		return Categorization{}, false
	}

	msgLower := strings.ToLower(commit.Message)

	var best Categorization
	found := false
	for _, rule := range categorizationRules {
		c := scoreRule(rule, msgLower, commit.Files)
		if c.Confidence > rule.minConfidence && c.Confidence > best.Confidence {
			best = c
			found = true
		}
	}
	return best, found
}

// scoreRule scores one rule against a lowered message and file list.
func scoreRule(rule categorizationRule, msgLower string, files []string) Categorization {
	c := Categorization{Category: rule.category}

	var keywordScore float64
	for _, kw := range rule.keywords {
		if strings.Contains(msgLower, kw) {
			c.Keywords = append(c.Keywords, kw)
			keywordScore += keywordWeight
		}
	}
	if keywordScore > keywordCap {
		keywordScore = keywordCap
	}

	var fileScore float64
	for _, pat := range rule.filePatterns {
		for _, f := range files {
			if strings.Contains(f, pat) {
				c.FileTags = append(c.FileTags, pat)
				fileScore += fileWeight
				break
			}
		}
	}
	if fileScore > fileCap {
		fileScore = fileCap
	}

	c.Confidence = keywordScore + fileScore
	if c.Confidence > 1 {
		c.Confidence = 1
	}
	return c
}
