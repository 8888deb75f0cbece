package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/iotrisk/orchestrator/internal/audit"
	"github.com/iotrisk/orchestrator/internal/llmfactory"
	"github.com/iotrisk/orchestrator/internal/model"
)

// Aggregator synthesizes one unified draft from the generator ensemble's
// drafts, or revises the previous draft given the most recent round of
// critiques. Per this module's resolution of the dispatch-path open
// question (see DESIGN.md), both modes dispatch uniformly through
// LLMFactory.Create, unlike the upstream reference implementation's
// initial-synthesis-only use of a direct client.
type Aggregator struct {
	Factory     *llmfactory.Factory
	Recorder    *audit.Recorder
	Prompts     PromptBuilder
	Provider    string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

func (a *Aggregator) Name() string { return "aggregator" }

// isRevisionMode reports whether this invocation should revise the prior
// draft rather than synthesize a fresh one: revision_count > 0, a
// synthesized draft already exists, and at least one critique has been
// recorded.
func isRevisionMode(s model.State) bool {
	return s.RevisionCount > 0 && s.SynthesizedDraft != nil && len(s.Critiques) > 0
}

func (a *Aggregator) Run(ctx context.Context, s model.State) (stateDelta, error) {
	label := fmt.Sprintf("aggregator/%s/%s", a.Provider, a.Model)
	runCtx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	client, actualProvider, actualModel, _, err := a.Factory.Create(
		a.Provider, a.Model, a.Temperature, a.Timeout, "", "", label,
	)
	modelLabel := fmt.Sprintf("%s/%s", actualProvider, actualModel)
	if err != nil {
		a.Recorder.RecordError("aggregator", "system", label, s.RevisionCount, "", err)
		return a.fallbackToFirstDraft(s), nil
	}

	var prompt string
	if isRevisionMode(s) {
		prompt = a.Prompts.AggregatorRevisionPrompt(*s.SynthesizedDraft, s.LastRound())
	} else {
		prompt = a.Prompts.AggregatorInitialPrompt(s.RiskInput, s.DraftAssessments)
	}

	response, err := client.Invoke(runCtx, prompt)
	if err != nil {
		a.Recorder.RecordError("aggregator", "assistant", modelLabel, s.RevisionCount, prompt, err)
		return a.fallbackToFirstDraft(s), nil
	}
	a.Recorder.Record("aggregator", "assistant", modelLabel, s.RevisionCount, prompt, response, nil)

	assessment, err := ParseAssessment(modelLabel, response)
	if err != nil {
		a.Recorder.RecordError("aggregator", "system", modelLabel, s.RevisionCount, prompt, err)
		return a.fallbackToFirstDraft(s), nil
	}

	return stateDelta{Apply: func(st model.State) model.State {
		st.SynthesizedDraft = &assessment
		return st
	}}, nil
}

// fallbackToFirstDraft preserves liveness of the graph on hard aggregator
// failure by carrying the first generator draft through verbatim.
func (a *Aggregator) fallbackToFirstDraft(s model.State) stateDelta {
	return stateDelta{Apply: func(st model.State) model.State {
		if st.SynthesizedDraft != nil {
			return st // revision failed: keep the existing draft rather than regress it
		}
		if len(st.DraftAssessments) > 0 {
			first := st.DraftAssessments[0]
			st.SynthesizedDraft = &first
		}
		return st
	}}
}
