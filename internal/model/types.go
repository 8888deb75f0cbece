// Package model defines the value types that flow through the risk
// assessment workflow graph: reasoning traces, dual-factor risk breakdowns,
// per-model assessments, challenger critiques, and the run-scoped state.
package model

import "time"

// ReasoningTrace is the free-text justification attached to a RiskAssessment.
type ReasoningTrace struct {
	Summary              string   `json:"summary"`
	KeyArguments          []string `json:"key_arguments"`
	RegulatoryCitations   []string `json:"regulatory_citations"`
	Vulnerabilities       []string `json:"vulnerabilities"`
}

// Classification is the bucketed risk level derived from a FinalRiskScore.
type Classification string

const (
	ClassificationLow      Classification = "Low"
	ClassificationMedium   Classification = "Medium"
	ClassificationHigh     Classification = "High"
	ClassificationCritical Classification = "Critical"
)

func (c Classification) IsValid() bool {
	switch c {
	case ClassificationLow, ClassificationMedium, ClassificationHigh, ClassificationCritical:
		return true
	default:
		return false
	}
}

// ClassifyScore maps a final risk score in [1,25] to its classification
// bucket: 1-5 Low, 6-11 Medium, 12-19 High, 20-25 Critical.
func ClassifyScore(finalRiskScore int) Classification {
	switch {
	case finalRiskScore <= 5:
		return ClassificationLow
	case finalRiskScore <= 11:
		return ClassificationMedium
	case finalRiskScore <= 19:
		return ClassificationHigh
	default:
		return ClassificationCritical
	}
}

// LegacyScoreBucket maps a final risk score in [1,25] onto the legacy 1-5
// scale via the unequal-width bucket map {1-5:1, 6-10:2, 11-15:3, 16-20:4,
// 21-25:5}. Callers must treat the result as informational, not load
// bearing, per the bucketing's unequal widths.
func LegacyScoreBucket(finalRiskScore int) int {
	switch {
	case finalRiskScore <= 5:
		return 1
	case finalRiskScore <= 10:
		return 2
	case finalRiskScore <= 15:
		return 3
	case finalRiskScore <= 20:
		return 4
	default:
		return 5
	}
}

// RiskBreakdown is the dual-factor (frequency x impact) risk assessment.
// FinalRiskScore is kept consistent with FrequencyScore*ImpactScore by
// NewRiskBreakdown; any caller constructing one outside that path must
// call Repair to restore the invariant.
type RiskBreakdown struct {
	FrequencyScore     int            `json:"frequency_score"`
	FrequencyRationale string         `json:"frequency_rationale"`
	ImpactScore        int            `json:"impact_score"`
	ImpactRationale    string         `json:"impact_rationale"`
	FinalRiskScore     int            `json:"final_risk_score"`
	RiskClassification Classification `json:"risk_classification"`
}

// NewRiskBreakdown builds a RiskBreakdown, computing FinalRiskScore and
// RiskClassification from the two factor scores, so the invariant always
// holds; it takes no final score from the caller.
func NewRiskBreakdown(freqScore int, freqRationale string, impactScore int, impactRationale string) RiskBreakdown {
	final := freqScore * impactScore
	return RiskBreakdown{
		FrequencyScore:     freqScore,
		FrequencyRationale: freqRationale,
		ImpactScore:        impactScore,
		ImpactRationale:    impactRationale,
		FinalRiskScore:     final,
		RiskClassification: ClassifyScore(final),
	}
}

// Repair recomputes FinalRiskScore and RiskClassification from the two
// factor scores, preserving both rationales. Used to auto-correct a
// breakdown parsed from an LLM response whose FinalRiskScore or
// classification disagree with the factor scores.
func (b RiskBreakdown) Repair() RiskBreakdown {
	b.FinalRiskScore = b.FrequencyScore * b.ImpactScore
	b.RiskClassification = ClassifyScore(b.FinalRiskScore)
	return b
}

// Valid reports whether the invariant FinalRiskScore == FrequencyScore *
// ImpactScore holds and the classification matches the bucket map.
func (b RiskBreakdown) Valid() bool {
	return b.FinalRiskScore == b.FrequencyScore*b.ImpactScore &&
		b.RiskClassification == ClassifyScore(b.FinalRiskScore)
}

// RiskAssessment is one model's (or the aggregator's synthesized) output.
type RiskAssessment struct {
	ModelName  string         `json:"model_name"`
	LegacyScore int           `json:"score"`
	Reasoning  ReasoningTrace `json:"reasoning"`
	Breakdown  *RiskBreakdown `json:"risk_assessment,omitempty"`
}

// NewRiskAssessment derives LegacyScore from Breakdown.FinalRiskScore via
// LegacyScoreBucket when a breakdown is present.
func NewRiskAssessment(modelName string, reasoning ReasoningTrace, breakdown *RiskBreakdown) RiskAssessment {
	ra := RiskAssessment{ModelName: modelName, Reasoning: reasoning, Breakdown: breakdown}
	if breakdown != nil {
		ra.LegacyScore = LegacyScoreBucket(breakdown.FinalRiskScore)
	}
	return ra
}

// DegenerateAssessment builds the placeholder RiskAssessment substituted
// when a generator model fails, preserving ensemble cardinality.
func DegenerateAssessment(modelLabel string, errMsg string) RiskAssessment {
	return RiskAssessment{
		ModelName:   modelLabel + " [ERROR]",
		LegacyScore: 3,
		Reasoning: ReasoningTrace{
			Summary:             "Error: " + errMsg,
			KeyArguments:        []string{},
			RegulatoryCitations: []string{},
			Vulnerabilities:     []string{},
		},
		Breakdown: nil,
	}
}

// ChallengerID identifies one of the three fixed challenger agents.
type ChallengerID string

const (
	ChallengerA ChallengerID = "A"
	ChallengerB ChallengerID = "B"
	ChallengerC ChallengerID = "C"
)

func (c ChallengerID) IsValid() bool {
	switch c {
	case ChallengerA, ChallengerB, ChallengerC:
		return true
	default:
		return false
	}
}

// Recommendation is a challenger's disposition toward the draft it reviewed.
type Recommendation string

const (
	RecommendationAccept      Recommendation = "accept"
	RecommendationReject      Recommendation = "reject"
	RecommendationNeedsReview Recommendation = "needs_review"
)

// Critique is one challenger's structured review of the current draft.
type Critique struct {
	ChallengerID   ChallengerID   `json:"challenger_name"`
	IsValid        bool           `json:"is_valid"`
	Issues         []string       `json:"issues"`
	Confidence     float64        `json:"confidence"`
	Recommendation Recommendation `json:"recommendation"`
}

// Passed reports whether this critique counts as a convergence vote: valid
// and recommending acceptance.
func (c Critique) Passed() bool {
	return c.IsValid && c.Recommendation == RecommendationAccept
}

// FallbackEvent records a substitution of an alternative (provider, model)
// for a requested one that was unavailable.
type FallbackEvent struct {
	Timestamp        time.Time `json:"timestamp"`
	IntendedProvider string    `json:"intended_provider"`
	IntendedModel    string    `json:"intended_model"`
	ActualProvider   string    `json:"actual_provider"`
	ActualModel      string    `json:"actual_model"`
	Reason           string    `json:"reason"`
}

// ConversationRecord is a single recorded prompt/response exchange.
type ConversationRecord struct {
	Timestamp  time.Time         `json:"timestamp"`
	Stage      string            `json:"stage"`
	Role       string            `json:"role"`
	ModelLabel string            `json:"model_label"`
	Revision   int               `json:"revision"`
	Prompt     string            `json:"prompt"`
	Response   string            `json:"response"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// TerminalStatus is the runtime's outcome classification for a completed run.
type TerminalStatus string

const (
	EndApproved  TerminalStatus = "END_APPROVED"
	EndDegraded  TerminalStatus = "END_DEGRADED"
	EndEscalated TerminalStatus = "END_ESCALATED"
	EndCancelled TerminalStatus = "END_CANCELLED"
)

// EscalationInfo describes why and how a run was escalated to human review.
type EscalationInfo struct {
	Reasons     []string  `json:"reasons"`
	Priority    string    `json:"priority"` // HIGH or MEDIUM
	Timestamp   time.Time `json:"timestamp"`
	ArtifactRef string    `json:"artifact_ref"`
}

// State is the value threaded through the workflow graph for one run.
type State struct {
	RunID             string           `json:"run_id"`
	RiskInput         string           `json:"risk_input"`
	DraftAssessments  []RiskAssessment `json:"draft_assessments"`
	SynthesizedDraft  *RiskAssessment  `json:"synthesized_draft"`
	Critiques         []Critique       `json:"critiques"`
	RevisionCount     int              `json:"revision_count"`
	Escalation        *EscalationInfo  `json:"escalation,omitempty"`
	Status            TerminalStatus   `json:"status,omitempty"`
}

// LastRound returns the most recent round of critiques: the last three
// entries under the fixed three-challenger design. An implementer
// extending to variable-size panels must switch to explicit round tagging
// instead of this fixed-window slice.
func (s State) LastRound() []Critique {
	n := len(s.Critiques)
	if n == 0 {
		return nil
	}
	if n < 3 {
		return s.Critiques
	}
	return s.Critiques[n-3:]
}
