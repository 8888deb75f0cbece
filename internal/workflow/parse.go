// Package workflow implements the concrete agent graph nodes: the
// generator ensemble, aggregator, three challengers, verifier and
// convergence router, and escalation handler, wired together over
// internal/graph's engine.
package workflow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iotrisk/orchestrator/internal/model"
)

// extractJSON pulls the first JSON object out of a response that may be
// raw JSON or JSON fenced in a ```json ... ``` code block.
func extractJSON(response string) (string, error) {
	trimmed := strings.TrimSpace(response)

	if idx := strings.Index(trimmed, "```"); idx != -1 {
		rest := trimmed[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		rest = strings.TrimPrefix(rest, "JSON")
		if end := strings.Index(rest, "```"); end != -1 {
			trimmed = strings.TrimSpace(rest[:end])
		}
	}

	start := strings.Index(trimmed, "{")
	if start == -1 {
		return "", fmt.Errorf("no JSON object found in response")
	}
	var obj json.RawMessage
	if err := json.NewDecoder(strings.NewReader(trimmed[start:])).Decode(&obj); err != nil {
		return "", fmt.Errorf("no JSON object found in response: %w", err)
	}
	return string(obj), nil
}

// rawBreakdown mirrors the JSON shape an LLM returns for a dual-factor
// breakdown, before the calculation invariant is enforced.
type rawBreakdown struct {
	FrequencyScore     int    `json:"frequency_score"`
	FrequencyRationale string `json:"frequency_rationale"`
	ImpactScore        int    `json:"impact_score"`
	ImpactRationale    string `json:"impact_rationale"`
	FinalRiskScore     int    `json:"final_risk_score"`
	RiskClassification string `json:"risk_classification"`
}

// rawAssessment mirrors the full JSON shape a generator or aggregator
// model returns.
type rawAssessment struct {
	Score     int `json:"score"`
	Reasoning struct {
		Summary             string   `json:"summary"`
		KeyArguments        []string `json:"key_arguments"`
		RegulatoryCitations []string `json:"regulatory_citations"`
		Vulnerabilities     []string `json:"vulnerabilities"`
	} `json:"reasoning"`
	RiskAssessment *rawBreakdown `json:"risk_assessment"`
}

// ParseAssessment parses a model response into a RiskAssessment tagged
// with modelLabel, enforcing the calculation invariant (auto-repairing
// final_risk_score and classification when they disagree with the parsed
// factor scores) per the invariant-violation error-handling policy.
func ParseAssessment(modelLabel, response string) (model.RiskAssessment, error) {
	jsonText, err := extractJSON(response)
	if err != nil {
		return model.RiskAssessment{}, err
	}

	var raw rawAssessment
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return model.RiskAssessment{}, fmt.Errorf("parse assessment JSON: %w", err)
	}

	reasoning := model.ReasoningTrace{
		Summary:             raw.Reasoning.Summary,
		KeyArguments:        orEmpty(raw.Reasoning.KeyArguments),
		RegulatoryCitations: orEmpty(raw.Reasoning.RegulatoryCitations),
		Vulnerabilities:     orEmpty(raw.Reasoning.Vulnerabilities),
	}

	var breakdown *model.RiskBreakdown
	if raw.RiskAssessment != nil {
		b := model.RiskBreakdown{
			FrequencyScore:     raw.RiskAssessment.FrequencyScore,
			FrequencyRationale: raw.RiskAssessment.FrequencyRationale,
			ImpactScore:        raw.RiskAssessment.ImpactScore,
			ImpactRationale:    raw.RiskAssessment.ImpactRationale,
			FinalRiskScore:     raw.RiskAssessment.FinalRiskScore,
			RiskClassification: model.Classification(raw.RiskAssessment.RiskClassification),
		}
		if !b.Valid() {
			b = b.Repair()
		}
		breakdown = &b
	}

	assessment := model.NewRiskAssessment(modelLabel, reasoning, breakdown)
	if breakdown == nil {
		assessment.LegacyScore = raw.Score
	}
	return assessment, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// rawCritique mirrors the JSON shape a challenger model returns.
type rawCritique struct {
	IsValid        *bool    `json:"is_valid"`
	Issues         []string `json:"issues"`
	Confidence     *float64 `json:"confidence"`
	Recommendation string   `json:"recommendation"`
}

// ParseCritique parses a challenger's response into a Critique, applying
// the documented defaults when fields are missing: is_valid=true,
// issues=[], confidence=0.5, recommendation="needs_review".
func ParseCritique(challenger model.ChallengerID, response string) (model.Critique, error) {
	jsonText, err := extractJSON(response)
	if err != nil {
		return model.Critique{}, err
	}

	var raw rawCritique
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return model.Critique{}, fmt.Errorf("parse critique JSON: %w", err)
	}

	isValid := true
	if raw.IsValid != nil {
		isValid = *raw.IsValid
	}
	confidence := 0.5
	if raw.Confidence != nil {
		confidence = *raw.Confidence
	}
	recommendation := model.Recommendation(raw.Recommendation)
	if recommendation == "" {
		recommendation = model.RecommendationNeedsReview
	}
	issues := raw.Issues
	if issues == nil {
		issues = []string{}
	}

	return model.Critique{
		ChallengerID:   challenger,
		IsValid:        isValid,
		Issues:         issues,
		Confidence:     confidence,
		Recommendation: recommendation,
	}, nil
}

// ErrorCritique builds the critique substituted when a challenger's
// invocation fails outright.
func ErrorCritique(challenger model.ChallengerID, err error) model.Critique {
	return model.Critique{
		ChallengerID:   challenger,
		IsValid:        false,
		Issues:         []string{"Error: " + err.Error()},
		Confidence:     0.0,
		Recommendation: model.RecommendationNeedsReview,
	}
}
