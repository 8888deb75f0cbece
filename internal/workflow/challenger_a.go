package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/iotrisk/orchestrator/internal/audit"
	"github.com/iotrisk/orchestrator/internal/llmfactory"
	"github.com/iotrisk/orchestrator/internal/model"
)

// ChallengerA is the logic challenger: it evaluates the synthesized
// draft's dual-factor assessment for internal consistency (calculation,
// rationale presence, classification-bucket agreement). The rubric
// tolerances themselves live in the opaque prompt; this node only
// dispatches, parses, and contains failures.
type ChallengerA struct {
	Factory     *llmfactory.Factory
	Recorder    *audit.Recorder
	Prompts     PromptBuilder
	Provider    string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

func (c *ChallengerA) Name() string { return "challenger_a" }

func (c *ChallengerA) Run(ctx context.Context, s model.State) (stateDelta, error) {
	critique := runChallenger(ctx, model.ChallengerA, s, c.Factory, c.Recorder,
		c.Provider, c.Model, c.Temperature, c.Timeout,
		func(draft model.RiskAssessment) string { return c.Prompts.ChallengerAPrompt(draft) })
	return appendCritique(critique), nil
}

// runChallenger is the shared dispatch/parse/contain path for the two
// LLM-backed challengers, A and C, which differ only in prompt
// construction. Challenger B calls no LLM and does not use it.
func runChallenger(
	ctx context.Context,
	id model.ChallengerID,
	s model.State,
	factory *llmfactory.Factory,
	recorder *audit.Recorder,
	provider, modelName string,
	temperature float64,
	timeout time.Duration,
	buildPrompt func(model.RiskAssessment) string,
) model.Critique {
	if s.SynthesizedDraft == nil {
		return model.Critique{
			ChallengerID:   id,
			IsValid:        false,
			Issues:         []string{model.ErrNoDraft.Error()},
			Confidence:     0.0,
			Recommendation: model.RecommendationReject,
		}
	}

	label := fmt.Sprintf("challenger_%s/%s/%s", id, provider, modelName)
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, actualProvider, actualModel, _, err := factory.Create(
		provider, modelName, temperature, timeout, "", "", label,
	)
	modelLabel := fmt.Sprintf("%s/%s", actualProvider, actualModel)
	if err != nil {
		recorder.RecordError(string("challenger_"+id), "system", label, s.RevisionCount, "", err)
		return ErrorCritique(id, err)
	}

	prompt := buildPrompt(*s.SynthesizedDraft)
	response, err := client.Invoke(runCtx, prompt)
	if err != nil {
		recorder.RecordError(string("challenger_"+id), "assistant", modelLabel, s.RevisionCount, prompt, err)
		return ErrorCritique(id, err)
	}
	recorder.Record(string("challenger_"+id), "assistant", modelLabel, s.RevisionCount, prompt, response, nil)

	critique, err := ParseCritique(id, response)
	if err != nil {
		recorder.RecordError(string("challenger_"+id), "system", modelLabel, s.RevisionCount, prompt, err)
		return ErrorCritique(id, err)
	}
	return critique
}

// appendCritique builds the Delta that appends one challenger's critique
// to state. Used by all three challengers; each writes only its own
// critique, and the graph's ParallelGroup join combines the three in
// fixed [A, B, C] order, per the positional-slot discipline resolved in
// DESIGN.md.
func appendCritique(c model.Critique) stateDelta {
	return stateDelta{Apply: func(st model.State) model.State {
		st.Critiques = append(st.Critiques, c)
		return st
	}}
}
