package core

import (
	"regexp"
	"strings"

	"github.com/huangsam/archmine/schema"
)

// reversalVerbs maps a committing verb to the verb that undoes it.
var reversalVerbs = map[string]string{
	"add":       "remove",
	"adopt":     "abandon",
	"enable":    "disable",
	"introduce": "drop",
	"switch to": "switch from",
}

var verbObjectRe = regexp.MustCompile(`(?i)\b(add|adopt|enable|introduce|remove|abandon|disable|drop|switch to|switch from)\b\s+(.{3,60})`)

// stopwords are too generic to anchor a reversal match on their own.
var stopwords = map[string]bool{
	"the": true, "for": true, "and": true, "with": true, "from": true,
	"into": true, "new": true, "support": true, "our": true, "all": true,
}

// DetectReversals marks decisions that a later decision undoes. Two signals
// count: a dependency added by one cluster and removed by a later one, or an
// opposing verb pair over a shared subject in the commit messages. The
// earlier decision gets ReversedBy set to the later decision's ID.
func DetectReversals(decisions []schema.MinedDecision, extractions []schema.CommitSemanticExtraction) int {
	if len(decisions) < 2 {
		return 0
	}

	bySHA := make(map[string]schema.CommitSemanticExtraction, len(extractions))
	for _, e := range extractions {
		bySHA[e.SHA] = e
	}

	sigs := make([]decisionSignature, len(decisions))
	for i := range decisions {
		sigs[i] = signatureOf(&decisions[i], bySHA)
	}

	count := 0
	for i := range decisions {
		if decisions[i].ReversedBy != "" {
			continue
		}
		for j := range decisions {
			if i == j || !decisions[i].Cluster.End.Before(decisions[j].Cluster.Start) {
				continue
			}
			if reverses(sigs[i], sigs[j]) {
				decisions[i].ReversedBy = decisions[j].ID
				count++
				break
			}
		}
	}
	return count
}

// decisionSignature is the reversal-relevant digest of one decision.
type decisionSignature struct {
	addedDeps   map[string]bool
	removedDeps map[string]bool
	claims      []claim
}

// claim is one verb-object statement pulled from a commit subject.
type claim struct {
	verb   string
	tokens map[string]bool
}

func signatureOf(d *schema.MinedDecision, bySHA map[string]schema.CommitSemanticExtraction) decisionSignature {
	sig := decisionSignature{
		addedDeps:   map[string]bool{},
		removedDeps: map[string]bool{},
	}
	for _, sha := range d.Cluster.SHAs {
		e, ok := bySHA[sha]
		if !ok {
			continue
		}
		for name, change := range e.Dependencies {
			switch change {
			case schema.DependencyAdded:
				sig.addedDeps[name] = true
			case schema.DependencyRemoved:
				sig.removedDeps[name] = true
			}
		}
	}
	sig.claims = append(sig.claims, claimsFromText(d.ADR.Decision)...)
	sig.claims = append(sig.claims, claimsFromText(d.ADR.Context)...)
	return sig
}

// claimsFromText extracts verb-object claims from free text.
func claimsFromText(text string) []claim {
	var claims []claim
	for _, m := range verbObjectRe.FindAllStringSubmatch(text, -1) {
		verb := strings.ToLower(m[1])
		tokens := map[string]bool{}
		for _, tok := range strings.Fields(strings.ToLower(m[2])) {
			tok = strings.Trim(tok, ".,;:!?\"'()")
			if len(tok) >= 3 && !stopwords[tok] {
				tokens[tok] = true
			}
		}
		if len(tokens) > 0 {
			claims = append(claims, claim{verb: verb, tokens: tokens})
		}
	}
	return claims
}

// reverses reports whether the later decision undoes the earlier one.
func reverses(earlier, later decisionSignature) bool {
	for dep := range earlier.addedDeps {
		if later.removedDeps[dep] {
			return true
		}
	}
	for _, ec := range earlier.claims {
		opposite, ok := reversalVerbs[ec.verb]
		if !ok {
			continue
		}
		for _, lc := range later.claims {
			if lc.verb != opposite {
				continue
			}
			for tok := range ec.tokens {
				if lc.tokens[tok] {
					return true
				}
			}
		}
	}
	return false
}
