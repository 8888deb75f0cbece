// Package prompt provides a default, template-based PromptBuilder. Prompt
// and rubric wording is out of scope for this module's invariants; this
// implementation exists so the graph's nodes have a concrete builder to run
// against, and so deployments can supply their own by implementing the same
// interface.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iotrisk/orchestrator/internal/model"
)

// Default is the template-based PromptBuilder used unless a deployment
// supplies its own.
type Default struct{}

const schemaHint = `Respond with a single JSON object only, matching this shape:
{
  "reasoning": {
    "summary": "...",
    "key_arguments": ["..."],
    "regulatory_citations": ["..."],
    "vulnerabilities": ["..."]
  },
  "risk_assessment": {
    "frequency_score": 1-5,
    "frequency_rationale": "...",
    "impact_score": 1-5,
    "impact_rationale": "...",
    "final_risk_score": frequency_score * impact_score,
    "risk_classification": "Low|Medium|High|Critical"
  }
}`

func (Default) GeneratorPrompt(riskInput, referenceSources string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assess the following IoT device risk scenario using the dual-factor Frequency x Impact model (1-5 each, final_risk_score = frequency_score * impact_score, 1-25):\n\n%s\n\n", riskInput)
	if referenceSources != "" {
		fmt.Fprintf(&b, "Reference sources: %s\n\n", referenceSources)
	}
	b.WriteString(schemaHint)
	return b.String()
}

func (Default) AggregatorInitialPrompt(riskInput string, drafts []model.RiskAssessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Synthesize one unified risk assessment for this scenario from %d independent draft assessments.\n\nScenario:\n%s\n\nDrafts:\n", len(drafts), riskInput)
	for i, d := range drafts {
		data, _ := json.Marshal(d)
		fmt.Fprintf(&b, "[%d] (%s): %s\n", i+1, d.ModelName, string(data))
	}
	b.WriteString("\n" + schemaHint)
	return b.String()
}

func (Default) AggregatorRevisionPrompt(previousDraft model.RiskAssessment, critiques []model.Critique) string {
	var b strings.Builder
	data, _ := json.Marshal(previousDraft)
	b.WriteString("Revise the following risk assessment in light of the critiques below, addressing every issue raised.\n\n")
	fmt.Fprintf(&b, "Previous draft: %s\n\nCritiques:\n", string(data))
	for _, c := range critiques {
		cdata, _ := json.Marshal(c)
		b.WriteString(string(cdata) + "\n")
	}
	b.WriteString("\n" + schemaHint)
	return b.String()
}

const critiqueSchemaHint = `Respond with a single JSON object only, matching this shape:
{
  "is_valid": true|false,
  "issues": ["..."],
  "confidence": 0.0-1.0,
  "recommendation": "accept|reject|needs_review"
}`

func (Default) ChallengerAPrompt(draft model.RiskAssessment) string {
	data, _ := json.Marshal(draft)
	return "Evaluate this risk assessment for internal consistency: does final_risk_score equal frequency_score * impact_score, does the classification match the score, and is each factor's rationale substantive?\n\n" +
		"Draft: " + string(data) + "\n\n" + critiqueSchemaHint
}

func (Default) ChallengerCPrompt(draft model.RiskAssessment, complianceReference string) string {
	data, _ := json.Marshal(draft)
	var b strings.Builder
	b.WriteString("Evaluate this risk assessment's reasoning against the following regulatory/compliance checkpoints. Downgrade minor omissions to needs_review rather than reject; only reject on major compliance gaps.\n\n")
	fmt.Fprintf(&b, "Checkpoints: %s\n\nDraft: %s\n\n", complianceReference, string(data))
	b.WriteString(critiqueSchemaHint)
	return b.String()
}
