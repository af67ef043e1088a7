// Package schema has configs, models and global variables for all parts of archmine.
package schema

import "time"

// CommitRecord represents a single commit as produced by history traversal.
// It is read-only to the mining pipeline.
type CommitRecord struct {
	SHA       string    `json:"sha"`       // Full commit hash
	Author    string    `json:"author"`    // Author name or email
	Timestamp time.Time `json:"timestamp"` // Author timestamp
	Message   string    `json:"message"`   // Full commit message
	Files     []string  `json:"files"`     // Ordered list of touched file paths
	IsMerge   bool      `json:"isMerge"`   // True when the commit has more than one parent
}

// DependencyChange describes how a package dependency changed in a commit.
type DependencyChange string

// Dependency change kinds.
const (
	DependencyAdded   DependencyChange = "added"
	DependencyRemoved DependencyChange = "removed"
	DependencyUpdated DependencyChange = "updated"
)

// PatternDelta holds pattern identifiers grouped by how they changed.
type PatternDelta struct {
	Added    []string `json:"added,omitempty"`
	Removed  []string `json:"removed,omitempty"`
	Modified []string `json:"modified,omitempty"`
}

// FunctionDelta holds function identifiers grouped by how they changed.
type FunctionDelta struct {
	Added    []string `json:"added,omitempty"`
	Removed  []string `json:"removed,omitempty"`
	Modified []string `json:"modified,omitempty"`
	Renamed  []string `json:"renamed,omitempty"`
}

// CommitSemanticExtraction is the normalized semantic summary of one commit.
// It is produced once by the extraction adapter and immutable afterward.
type CommitSemanticExtraction struct {
	SHA                  string                      `json:"sha"`
	Patterns             PatternDelta                `json:"patterns"`
	Functions            FunctionDelta               `json:"functions"`
	Dependencies         map[string]DependencyChange `json:"dependencies,omitempty"`
	MessageSignals       []string                    `json:"messageSignals,omitempty"`
	ArchitecturalSignals []string                    `json:"architecturalSignals,omitempty"`
	Significance         float64                     `json:"significance"` // 0-1, monotonic with architectural weight
	Category             DecisionCategory            `json:"category,omitempty"`
}

// AllPatterns returns every pattern identifier regardless of change kind.
// The result preserves the added/removed/modified ordering.
func (e *CommitSemanticExtraction) AllPatterns() []string {
	out := make([]string, 0, len(e.Patterns.Added)+len(e.Patterns.Removed)+len(e.Patterns.Modified))
	out = append(out, e.Patterns.Added...)
	out = append(out, e.Patterns.Removed...)
	out = append(out, e.Patterns.Modified...)
	return out
}

// IsEmpty reports whether the extraction carries no semantic content at all.
func (e *CommitSemanticExtraction) IsEmpty() bool {
	return len(e.AllPatterns()) == 0 &&
		len(e.Dependencies) == 0 &&
		len(e.MessageSignals) == 0 &&
		len(e.ArchitecturalSignals) == 0 &&
		e.Significance == 0
}

// SimilarityEdge is the scored relationship between two commits. Indices refer
// into the pipeline's ordered commit slice. Edges are ephemeral: they exist
// only while clustering runs.
type SimilarityEdge struct {
	A           int     // Index of the first commit (A < B always)
	B           int     // Index of the second commit
	Temporal    float64 // Temporal proximity score (0-1)
	FileOverlap float64 // Jaccard similarity of touched-file sets (0-1)
	Pattern     float64 // Jaccard similarity of pattern identifier sets (0-1)
	Combined    float64 // Weighted combination, clipped to 0-1
}

// ReasonKind identifies which signal justified a cluster.
type ReasonKind string

// Cluster reason kinds.
const (
	ReasonTemporalProximity ReasonKind = "temporal-proximity"
	ReasonFileOverlap       ReasonKind = "file-overlap"
	ReasonPatternSimilarity ReasonKind = "pattern-similarity"
)

// ClusterReason explains one signal's contribution to a cluster, with the
// mean metric value across the cluster's internal edges.
type ClusterReason struct {
	Kind  ReasonKind `json:"kind"`
	Value float64    `json:"value"`
}

// CommitCluster is a set of commits judged to represent one architectural
// decision. Members are connected components of the pruned similarity graph,
// not cliques.
type CommitCluster struct {
	SHAs            []string        `json:"shas"`            // Member commit SHAs, oldest first
	Reasons         []ClusterReason `json:"reasons"`         // Most significant first
	SimilarityScore float64         `json:"similarityScore"` // Mean internal edge score (0-1)
	Start           time.Time       `json:"start"`           // Earliest member timestamp
	End             time.Time       `json:"end"`             // Latest member timestamp
}

// Reference points to a commit or file that grounds a synthesized narrative.
type Reference struct {
	Kind  string `json:"kind"` // "commit" or "file"
	Value string `json:"value"`
}

// EvidenceItem cites one concrete metric that justified a cluster or decision.
type EvidenceItem struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Detail string  `json:"detail,omitempty"`
}

// Narrative is the free-text portion of an ADR as returned by the narrative
// collaborator. References and evidence are never part of it; the synthesis
// coordinator derives those deterministically.
type Narrative struct {
	Context      string   `json:"context"`
	Decision     string   `json:"decision"`
	Consequences []string `json:"consequences,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// SynthesizedADR is the structured decision record produced per cluster.
type SynthesizedADR struct {
	Context      string         `json:"context"`
	Decision     string         `json:"decision"`
	Consequences []string       `json:"consequences,omitempty"`
	Alternatives []string       `json:"alternatives,omitempty"`
	References   []Reference    `json:"references"`
	Evidence     []EvidenceItem `json:"evidence"`
}

// EvidencePackage is the deterministic bundle handed to narrative synthesis.
type EvidencePackage struct {
	Cluster     CommitCluster              `json:"cluster"`
	Commits     []CommitRecord             `json:"commits"`
	Extractions []CommitSemanticExtraction `json:"extractions"`
	Category    DecisionCategory           `json:"category,omitempty"`
}

// MinedDecision wraps one cluster with its synthesized record and a final
// confidence derived from cluster similarity and extraction significance.
type MinedDecision struct {
	ID         string           `json:"id"`
	Cluster    CommitCluster    `json:"cluster"`
	ADR        SynthesizedADR   `json:"adr"`
	Confidence float64          `json:"confidence"`
	Category   DecisionCategory `json:"category,omitempty"`
	ReversedBy string           `json:"reversedBy,omitempty"` // ID of a later decision that reverses this one
}

// ErrorKind tags fatal pipeline errors.
type ErrorKind string

// Fatal error kinds. History traversal failure is the only stage-level fatal;
// cancellation is honored at stage boundaries.
const (
	ErrorKindGit       ErrorKind = "git-error"
	ErrorKindCancelled ErrorKind = "cancelled"
)

// MiningError is a fatal per-stage failure recorded in the result.
type MiningError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// MiningSummary carries run counts and timing for a mining run.
type MiningSummary struct {
	CommitsWalked        int           `json:"commitsWalked"`
	CommitsExtracted     int           `json:"commitsExtracted"`
	EdgesSurvived        int           `json:"edgesSurvived"`
	ClustersFormed       int           `json:"clustersFormed"`
	ClustersDiscarded    int           `json:"clustersDiscarded"` // Below size or confidence threshold
	DecisionsSynthesized int           `json:"decisionsSynthesized"`
	DecisionsDiscarded   int           `json:"decisionsDiscarded"` // Below minConfidence after synthesis
	Duration             time.Duration `json:"duration"`
	PatternCacheHits     int           `json:"patternCacheHits,omitempty"`
	ReversalsDetected    int           `json:"reversalsDetected,omitempty"`
	SynthesisFailures    int           `json:"synthesisFailures,omitempty"`
	ExtractionFailures   int           `json:"extractionFailures,omitempty"`
}

// DecisionMiningResult is the sole externally visible artifact of a run.
// It is assembled once at the end of a run and never mutated afterward.
type DecisionMiningResult struct {
	Decisions []MinedDecision `json:"decisions"`
	Summary   MiningSummary   `json:"summary"`
	Errors    []MiningError   `json:"errors"`
	Warnings  []string        `json:"warnings"`
}

// Failed reports whether the run hit a fatal error. Callers distinguish
// "no decisions found" from "mining failed" via this, not via empty Decisions.
func (r *DecisionMiningResult) Failed() bool {
	return len(r.Errors) > 0
}

// CategorizedCommit is one commit's classification outcome from a quick
// categorization pass.
type CategorizedCommit struct {
	SHA        string           `json:"sha"`
	Message    string           `json:"message"` // First line only
	Category   DecisionCategory `json:"category,omitempty"`
	Confidence float64          `json:"confidence,omitempty"`
	Trivial    bool             `json:"trivial,omitempty"`
}

// CategorizationSummary carries the counts of a categorization pass.
type CategorizationSummary struct {
	CommitsWalked int `json:"commitsWalked"`
	Categorized   int `json:"categorized"`
	Trivial       int `json:"trivial"`
	Uncategorized int `json:"uncategorized"`
}

// CategorizationResult is the artifact of walking a repository and
// classifying each commit without running the full mining pipeline.
type CategorizationResult struct {
	Commits []CategorizedCommit      `json:"commits"`
	Counts  map[DecisionCategory]int `json:"counts"`
	Summary CategorizationSummary    `json:"summary"`
}
