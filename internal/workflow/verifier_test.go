package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotrisk/orchestrator/internal/audit"
	"github.com/iotrisk/orchestrator/internal/graph"
	"github.com/iotrisk/orchestrator/internal/llmfactory"
	"github.com/iotrisk/orchestrator/internal/model"
	"github.com/iotrisk/orchestrator/internal/providers"
)

type fakeVerifierProvider struct{}

func (fakeVerifierProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	return "no further revision warranted", nil
}
func (fakeVerifierProvider) Name() string  { return "anthropic" }
func (fakeVerifierProvider) Model() string { return "verify-1" }

func newVerifierTestFactory(t *testing.T) *llmfactory.Factory {
	t.Helper()
	t.Setenv("TEST_VERIFIER_ANTHROPIC_KEY", "x")
	registry := providers.NewRegistry(map[string]providers.FamilyConfig{
		"anthropic": {
			APIKeyEnv: "TEST_VERIFIER_ANTHROPIC_KEY",
			New: func(modelName string, temperature float64, timeout time.Duration) (providers.Provider, error) {
				return fakeVerifierProvider{}, nil
			},
		},
	})
	return llmfactory.New(registry, false)
}

func critiqueOf(id model.ChallengerID, rec model.Recommendation) model.Critique {
	return model.Critique{ChallengerID: id, IsValid: rec != model.RecommendationReject, Recommendation: rec, Confidence: 0.8}
}

func criticalDraft() *model.RiskAssessment {
	b := model.NewRiskBreakdown(5, "", 5, "")
	a := model.NewRiskAssessment("aggregator/anthropic", model.ReasoningTrace{}, &b)
	return &a
}

func lowDraft() *model.RiskAssessment {
	b := model.NewRiskBreakdown(2, "", 2, "")
	a := model.NewRiskAssessment("aggregator/anthropic", model.ReasoningTrace{}, &b)
	return &a
}

func TestRoute_UnanimousApproveEnds(t *testing.T) {
	s := model.State{
		SynthesizedDraft: lowDraft(),
		Critiques: []model.Critique{
			critiqueOf(model.ChallengerA, model.RecommendationAccept),
			critiqueOf(model.ChallengerB, model.RecommendationAccept),
			critiqueOf(model.ChallengerC, model.RecommendationAccept),
		},
	}
	assert.Equal(t, DecisionEnd, Route(s, 3))
}

func TestRoute_TwoThirdsMajorityEnds(t *testing.T) {
	s := model.State{
		SynthesizedDraft: lowDraft(),
		Critiques: []model.Critique{
			critiqueOf(model.ChallengerA, model.RecommendationAccept),
			critiqueOf(model.ChallengerB, model.RecommendationAccept),
			critiqueOf(model.ChallengerC, model.RecommendationNeedsReview),
		},
	}
	assert.Equal(t, DecisionEnd, Route(s, 3))
}

func TestRoute_CriticalClassificationEscalates(t *testing.T) {
	s := model.State{
		SynthesizedDraft: criticalDraft(),
		Critiques: []model.Critique{
			critiqueOf(model.ChallengerA, model.RecommendationReject),
			critiqueOf(model.ChallengerB, model.RecommendationNeedsReview),
			critiqueOf(model.ChallengerC, model.RecommendationNeedsReview),
		},
	}
	assert.Equal(t, DecisionEscalate, Route(s, 3))
}

func TestRoute_RevisesWhenBelowCapAndNoEscalation(t *testing.T) {
	s := model.State{
		RevisionCount:    0,
		SynthesizedDraft: lowDraft(),
		Critiques: []model.Critique{
			critiqueOf(model.ChallengerA, model.RecommendationReject),
			critiqueOf(model.ChallengerB, model.RecommendationNeedsReview),
			critiqueOf(model.ChallengerC, model.RecommendationAccept),
		},
	}
	assert.Equal(t, DecisionRevise, Route(s, 3))
}

func TestRoute_MaxRevisionsWithoutConsensusEscalates(t *testing.T) {
	s := model.State{
		RevisionCount:    3,
		SynthesizedDraft: lowDraft(),
		Critiques: []model.Critique{
			critiqueOf(model.ChallengerA, model.RecommendationReject),
			critiqueOf(model.ChallengerB, model.RecommendationNeedsReview),
			critiqueOf(model.ChallengerC, model.RecommendationAccept),
		},
	}
	assert.Equal(t, DecisionEscalate, Route(s, 3))
}

func TestRoute_UnanimousRejectEscalatesEvenBelowCap(t *testing.T) {
	s := model.State{
		RevisionCount:    1,
		SynthesizedDraft: lowDraft(),
		Critiques: []model.Critique{
			critiqueOf(model.ChallengerA, model.RecommendationReject),
			critiqueOf(model.ChallengerB, model.RecommendationReject),
			critiqueOf(model.ChallengerC, model.RecommendationReject),
		},
	}
	assert.Equal(t, DecisionEscalate, Route(s, 3))
}

func TestRoute_NoCritiquesIsEscalateSafety(t *testing.T) {
	s := model.State{SynthesizedDraft: lowDraft()}
	assert.Equal(t, DecisionEscalate, Route(s, 3))
}

// TestRoute_AllAcceptWithCriticalClassificationEndsNotEscalates pins down
// the documented resolution (DESIGN.md) of the conflict between this
// router's majority-first ordering and the critical-classification
// escalation trigger: a round where every challenger accepts ends the
// round even when the draft's classification is Critical. VerifierNode
// still downgrades Status to EndDegraded in this case (see
// TestVerifierNode_AllAcceptWithCriticalClassificationDegradesWithoutEscalating),
// but Route itself never reaches the escalation check.
func TestRoute_AllAcceptWithCriticalClassificationEndsNotEscalates(t *testing.T) {
	s := model.State{
		SynthesizedDraft: criticalDraft(),
		Critiques: []model.Critique{
			critiqueOf(model.ChallengerA, model.RecommendationAccept),
			critiqueOf(model.ChallengerB, model.RecommendationAccept),
			critiqueOf(model.ChallengerC, model.RecommendationAccept),
		},
	}
	assert.Equal(t, DecisionEnd, Route(s, 3))
}

// TestVerifierNode_AllAcceptWithCriticalClassificationDegradesWithoutEscalating
// pins down the full node-level behavior for the same all-accept+Critical
// combination: VerifierNode routes to graph.End (per Route, above) but
// still recognizes the unresolved escalation trigger by downgrading
// Status to EndDegraded rather than EndApproved. See DESIGN.md for why
// this divergence from spec.md's Scenario 4 text is intentional.
func TestVerifierNode_AllAcceptWithCriticalClassificationDegradesWithoutEscalating(t *testing.T) {
	v := &VerifierNode{
		Factory:      newVerifierTestFactory(t),
		Recorder:     audit.New("test-run"),
		Provider:     "anthropic",
		Model:        "verify-1",
		Temperature:  0.0,
		Timeout:      time.Second,
		MaxRevisions: 3,
	}
	s := model.State{
		SynthesizedDraft: criticalDraft(),
		Critiques: []model.Critique{
			critiqueOf(model.ChallengerA, model.RecommendationAccept),
			critiqueOf(model.ChallengerB, model.RecommendationAccept),
			critiqueOf(model.ChallengerC, model.RecommendationAccept),
		},
	}

	delta, err := v.Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, graph.End, delta.Route)

	final := delta.Apply(s)
	assert.Equal(t, model.EndDegraded, final.Status)
}

func TestEscalationTriggers_RecordsAllThatHold(t *testing.T) {
	s := model.State{
		RevisionCount:    3,
		SynthesizedDraft: criticalDraft(),
		Critiques: []model.Critique{
			critiqueOf(model.ChallengerA, model.RecommendationReject),
			critiqueOf(model.ChallengerB, model.RecommendationReject),
			critiqueOf(model.ChallengerC, model.RecommendationReject),
		},
	}
	reasons := EscalationTriggers(s, 3)
	assert.GreaterOrEqual(t, len(reasons), 2, "both the max-revisions and unanimous-reject triggers hold, and critical classification too")
}
