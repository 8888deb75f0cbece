package workflow

import (
	"context"
	"time"

	"github.com/iotrisk/orchestrator/internal/audit"
	"github.com/iotrisk/orchestrator/internal/citation"
	"github.com/iotrisk/orchestrator/internal/model"
	"github.com/iotrisk/orchestrator/internal/search"
)

// ChallengerB is the sources challenger: it builds the union citation set
// from the synthesized draft's explicit citation fields and a regex
// extraction over its free text, verifies each via SearchClient +
// RelevanceScorer, and decides accept/needs_review/reject from the
// verified fraction.
type ChallengerB struct {
	Search   search.Client
	Recorder *audit.Recorder
	Timeout  time.Duration
}

func (c *ChallengerB) Name() string { return "challenger_b" }

func (c *ChallengerB) Run(ctx context.Context, s model.State) (stateDelta, error) {
	if s.SynthesizedDraft == nil {
		return appendCritique(model.Critique{
			ChallengerID:   model.ChallengerB,
			IsValid:        false,
			Issues:         []string{model.ErrNoDraft.Error()},
			Confidence:     0.0,
			Recommendation: model.RecommendationReject,
		}), nil
	}

	draft := *s.SynthesizedDraft
	extracted := citation.Extract(draft.Reasoning.Summary + " " +
		joinStrings(draft.Reasoning.KeyArguments) + " " + joinStrings(draft.Reasoning.Vulnerabilities))
	explicit := citation.Citations{Regulations: draft.Reasoning.RegulatoryCitations}
	all := citation.Union(explicit, extracted)

	if len(all) == 0 {
		return appendCritique(model.Critique{
			ChallengerID:   model.ChallengerB,
			IsValid:        true,
			Issues:         []string{},
			Confidence:     1.0,
			Recommendation: model.RecommendationAccept,
		}), nil
	}

	verifiedCount := 0
	majorVerified := true
	var issues []string
	for _, cit := range all {
		runCtx, cancel := context.WithTimeout(ctx, c.Timeout)
		results, err := c.Search.Query(runCtx, search.BuildQuery(cit))
		cancel()

		if err != nil {
			c.Recorder.RecordError("challenger_b", "system", "search", s.RevisionCount, cit, err)
			issues = append(issues, "search failed for "+cit+": "+err.Error())
			if isMajorCitation(cit) {
				majorVerified = false
			}
			continue
		}

		verification := search.Score(cit, results)
		if verification.Verified {
			verifiedCount++
		} else {
			issues = append(issues, "unverified citation: "+cit)
			if isMajorCitation(cit) {
				majorVerified = false
			}
		}
	}

	verifiedFraction := float64(verifiedCount) / float64(len(all))

	var critique model.Critique
	switch {
	case verifiedFraction >= 0.5 || majorVerified:
		critique = model.Critique{
			ChallengerID: model.ChallengerB, IsValid: true, Issues: issues,
			Confidence: verifiedFraction, Recommendation: model.RecommendationAccept,
		}
	case verifiedFraction < 0.25:
		critique = model.Critique{
			ChallengerID: model.ChallengerB, IsValid: false, Issues: issues,
			Confidence: verifiedFraction, Recommendation: model.RecommendationReject,
		}
	default:
		critique = model.Critique{
			ChallengerID: model.ChallengerB, IsValid: false, Issues: issues,
			Confidence: verifiedFraction, Recommendation: model.RecommendationNeedsReview,
		}
	}

	return appendCritique(critique), nil
}

// isMajorCitation identifies the citation categories whose full
// verification alone is sufficient to accept: CVEs, the PSTI Act, and
// top-level ISO standards.
func isMajorCitation(cit string) bool {
	return hasPrefix(cit, "CVE-") || cit == "PSTI Act 2022" || hasPrefix(cit, "ISO ")
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func joinStrings(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += " "
		}
		out += item
	}
	return out
}
