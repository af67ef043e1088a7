package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// maxFileReferences caps how many file references a decision record cites.
const maxFileReferences = 5

// synthesisOutcome is the per-cluster result slot. Outcomes live in a slice
// indexed by cluster position so concurrent synthesis stays order-stable.
type synthesisOutcome struct {
	decision  schema.MinedDecision
	ok        bool
	discarded bool
	warning   string
}

// SynthesizeDecisions turns clusters into decision records. The narrator only
// writes the free-text narrative; references, evidence, category, and
// confidence are all derived here, deterministically, from the cluster data.
//
// A narrator failure or timeout drops that one cluster with a warning and
// never aborts the run. Decisions below cfg.MinConfidence are discarded and
// counted. Results come back in cluster order regardless of which worker
// finished first.
func SynthesizeDecisions(
	ctx context.Context,
	narrator contract.Narrator,
	clusters []schema.CommitCluster,
	commits []schema.CommitRecord,
	extractions []schema.CommitSemanticExtraction,
	cfg *contract.Config,
) (decisions []schema.MinedDecision, warnings []string, failures, discarded int) {
	if len(clusters) == 0 {
		return nil, nil, 0, 0
	}

	bySHA := make(map[string]int, len(commits))
	for i, c := range commits {
		bySHA[c.SHA] = i
	}

	timeout := cfg.SynthesisTimeout
	if timeout <= 0 {
		timeout = contract.DefaultSynthesisTimeout
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]synthesisOutcome, len(clusters))
	clusterCh := make(chan int, len(clusters))
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			for idx := range clusterCh {
				outcomes[idx] = synthesizeOne(ctx, narrator, clusters[idx], commits, extractions, bySHA, timeout, cfg.MinConfidence)
			}
		})
	}
	for idx := range clusters {
		clusterCh <- idx
	}
	close(clusterCh)
	wg.Wait()

	for _, out := range outcomes {
		if out.warning != "" {
			warnings = append(warnings, out.warning)
			failures++
			continue
		}
		if out.discarded {
			discarded++
			continue
		}
		if !out.ok {
			continue
		}
		decisions = append(decisions, out.decision)
	}
	return decisions, warnings, failures, discarded
}

// synthesizeOne builds the evidence package for a cluster, runs the narrator
// under the per-cluster timeout, and assembles the finished decision.
// Confidence is fully determined by cluster similarity and extraction
// significance, so clusters below the confidence floor are discarded before
// the narrator is ever invoked.
func synthesizeOne(
	ctx context.Context,
	narrator contract.Narrator,
	cluster schema.CommitCluster,
	commits []schema.CommitRecord,
	extractions []schema.CommitSemanticExtraction,
	bySHA map[string]int,
	timeout time.Duration,
	minConfidence float64,
) synthesisOutcome {
	pkg := BuildEvidencePackage(cluster, commits, extractions, bySHA)

	meanSig := meanSignificance(pkg.Extractions)
	// Cluster cohesion sets the base; strong extractions can at most
	// double the weak-signal half of it.
	confidence := cluster.SimilarityScore * (0.5 + 0.5*meanSig)
	if confidence < minConfidence {
		return synthesisOutcome{discarded: true}
	}

	narrateCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	narrative, err := narrator.Synthesize(narrateCtx, pkg)
	if err == nil {
		err = validateNarrative(narrative)
	}
	if err != nil {
		return synthesisOutcome{warning: fmt.Sprintf(
			"synthesis: narrator %q failed on cluster %s: %v",
			narrator.Name(), schema.ShortSHA(cluster.SHAs[0]), err)}
	}

	decision := schema.MinedDecision{
		ID:      "dec-" + schema.ShortSHA(cluster.SHAs[0]),
		Cluster: cluster,
		ADR: schema.SynthesizedADR{
			Context:      narrative.Context,
			Decision:     narrative.Decision,
			Consequences: narrative.Consequences,
			Alternatives: narrative.Alternatives,
			References:   deriveReferences(pkg),
			Evidence:     deriveEvidence(cluster, meanSig),
		},
		Category:   pkg.Category,
		Confidence: confidence,
	}
	return synthesisOutcome{decision: decision, ok: true}
}

// BuildEvidencePackage bundles a cluster's commits and extractions into the
// deterministic input handed to the narrative collaborator.
func BuildEvidencePackage(
	cluster schema.CommitCluster,
	commits []schema.CommitRecord,
	extractions []schema.CommitSemanticExtraction,
	bySHA map[string]int,
) schema.EvidencePackage {
	pkg := schema.EvidencePackage{
		Cluster:     cluster,
		Commits:     make([]schema.CommitRecord, 0, len(cluster.SHAs)),
		Extractions: make([]schema.CommitSemanticExtraction, 0, len(cluster.SHAs)),
	}
	for _, sha := range cluster.SHAs {
		idx, ok := bySHA[sha]
		if !ok {
			continue
		}
		pkg.Commits = append(pkg.Commits, commits[idx])
		pkg.Extractions = append(pkg.Extractions, extractions[idx])
	}
	pkg.Category = dominantCategory(pkg.Extractions)
	return pkg
}

// dominantCategory picks the cluster category by significance-weighted vote
// across member extractions. Ties break alphabetically for determinism.
func dominantCategory(extractions []schema.CommitSemanticExtraction) schema.DecisionCategory {
	votes := map[schema.DecisionCategory]float64{}
	for _, e := range extractions {
		if e.Category == "" {
			continue
		}
		votes[e.Category] += e.Significance
	}
	// Any vote present makes a category eligible, even at zero weight;
	// only the comparison between candidates uses the vote mass.
	var best schema.DecisionCategory
	bestScore := 0.0
	for cat, score := range votes {
		if best == "" || score > bestScore || (score == bestScore && cat < best) {
			best = cat
			bestScore = score
		}
	}
	return best
}

// meanSignificance averages extraction significance across a cluster.
func meanSignificance(extractions []schema.CommitSemanticExtraction) float64 {
	if len(extractions) == 0 {
		return 0
	}
	var sum float64
	for _, e := range extractions {
		sum += e.Significance
	}
	return sum / float64(len(extractions))
}

// deriveReferences cites every member commit plus the files they touched
// most, capped and ordered by touch count then path.
func deriveReferences(pkg schema.EvidencePackage) []schema.Reference {
	refs := make([]schema.Reference, 0, len(pkg.Commits)+maxFileReferences)
	for _, c := range pkg.Commits {
		refs = append(refs, schema.Reference{Kind: "commit", Value: c.SHA})
	}

	touches := map[string]int{}
	for _, c := range pkg.Commits {
		for _, f := range c.Files {
			touches[f]++
		}
	}
	files := make([]string, 0, len(touches))
	for f := range touches {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		if touches[files[i]] != touches[files[j]] {
			return touches[files[i]] > touches[files[j]]
		}
		return files[i] < files[j]
	})
	for i, f := range files {
		if i == maxFileReferences {
			break
		}
		refs = append(refs, schema.Reference{Kind: "file", Value: f})
	}
	return refs
}

// deriveEvidence records the concrete metrics that justified the decision.
func deriveEvidence(cluster schema.CommitCluster, meanSig float64) []schema.EvidenceItem {
	items := []schema.EvidenceItem{
		{Metric: "commit-count", Value: float64(len(cluster.SHAs))},
		{Metric: "similarity-score", Value: cluster.SimilarityScore},
		{Metric: "mean-significance", Value: meanSig},
		{Metric: "span-hours", Value: cluster.End.Sub(cluster.Start).Hours()},
	}
	for _, r := range cluster.Reasons {
		items = append(items, schema.EvidenceItem{
			Metric: string(r.Kind),
			Value:  r.Value,
			Detail: "mean across cluster edges",
		})
	}
	return items
}

// validateNarrative rejects narratives missing the required free-text fields.
func validateNarrative(n schema.Narrative) error {
	if n.Context == "" || n.Decision == "" {
		return fmt.Errorf("%w: narrative missing context or decision", contract.ErrNarrative)
	}
	return nil
}
