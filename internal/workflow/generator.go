package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iotrisk/orchestrator/internal/audit"
	"github.com/iotrisk/orchestrator/internal/config"
	"github.com/iotrisk/orchestrator/internal/graph"
	"github.com/iotrisk/orchestrator/internal/llmfactory"
	"github.com/iotrisk/orchestrator/internal/model"
)

type stateDelta = graph.Delta[model.State]

// PromptBuilder assembles the opaque prompt text for one node invocation.
// Prompt/rubric content is out of scope for this module; callers inject a
// builder (e.g. a fixed template package) appropriate to their deployment.
type PromptBuilder interface {
	GeneratorPrompt(riskInput, referenceSources string) string
	AggregatorInitialPrompt(riskInput string, drafts []model.RiskAssessment) string
	AggregatorRevisionPrompt(previousDraft model.RiskAssessment, critiques []model.Critique) string
	ChallengerAPrompt(draft model.RiskAssessment) string
	ChallengerCPrompt(draft model.RiskAssessment, complianceReference string) string
}

// GeneratorEnsemble fans out risk_input to every configured generator
// spec in parallel, parses each response into a RiskAssessment, and
// returns exactly len(specs) assessments in spec order regardless of
// partial per-model failure.
type GeneratorEnsemble struct {
	Factory     *llmfactory.Factory
	Recorder    *audit.Recorder
	Prompts     PromptBuilder
	Specs       []config.GeneratorSpec
	Temperature      float64
	Timeout          time.Duration
	ReferenceSources string
}

func (g *GeneratorEnsemble) Name() string { return "generator_ensemble" }

func (g *GeneratorEnsemble) Run(ctx context.Context, s model.State) (stateDelta, error) {
	assessments := make([]model.RiskAssessment, len(g.Specs))

	var wg sync.WaitGroup
	for i, spec := range g.Specs {
		wg.Add(1)
		go func(i int, spec config.GeneratorSpec) {
			defer wg.Done()
			assessments[i] = g.runOne(ctx, spec, s.RiskInput)
		}(i, spec)
	}
	wg.Wait()

	return stateDelta{Apply: func(st model.State) model.State {
		st.DraftAssessments = assessments
		return st
	}}, nil
}

func (g *GeneratorEnsemble) runOne(ctx context.Context, spec config.GeneratorSpec, riskInput string) model.RiskAssessment {
	label := fmt.Sprintf("generator:%s/%s", spec.Provider, spec.Model)
	runCtx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	client, actualProvider, actualModel, _, err := g.Factory.Create(
		spec.Provider, spec.Model, g.Temperature, g.Timeout,
		spec.FallbackProvider, spec.FallbackModel, label,
	)
	if err != nil {
		g.Recorder.RecordError("generator_ensemble", "system", label, 0, "", err)
		return model.DegenerateAssessment(label, err.Error())
	}

	prompt := g.Prompts.GeneratorPrompt(riskInput, g.ReferenceSources)
	response, err := client.Invoke(runCtx, prompt)
	modelLabel := fmt.Sprintf("%s/%s", actualProvider, actualModel)
	if err != nil {
		g.Recorder.RecordError("generator_ensemble", "assistant", modelLabel, 0, prompt, err)
		return model.DegenerateAssessment(modelLabel, err.Error())
	}
	g.Recorder.Record("generator_ensemble", "assistant", modelLabel, 0, prompt, response, nil)

	assessment, err := ParseAssessment(modelLabel, response)
	if err != nil {
		g.Recorder.RecordError("generator_ensemble", "system", modelLabel, 0, prompt, err)
		return model.DegenerateAssessment(modelLabel, err.Error())
	}
	return assessment
}
