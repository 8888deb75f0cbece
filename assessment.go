// Package iotrisk orchestrates a directed agent graph of heterogeneous LLM
// providers to produce dual-factor (Frequency x Impact) IoT device risk
// assessments, with bounded revision, escalation to human review, and a
// persisted per-run audit trail.
package iotrisk

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/iotrisk/orchestrator/internal/artifact"
	"github.com/iotrisk/orchestrator/internal/audit"
	"github.com/iotrisk/orchestrator/internal/config"
	"github.com/iotrisk/orchestrator/internal/kb"
	"github.com/iotrisk/orchestrator/internal/llmfactory"
	"github.com/iotrisk/orchestrator/internal/model"
	"github.com/iotrisk/orchestrator/internal/prompt"
	"github.com/iotrisk/orchestrator/internal/providers"
	"github.com/iotrisk/orchestrator/internal/search"
	"github.com/iotrisk/orchestrator/internal/workflow"
)

// referenceSourceDepth bounds how many passages a configured KB is asked
// to retrieve for the generator ensemble's reference-sources text.
const referenceSourceDepth = 3

// Options customizes one RunAssessment call beyond the static Config.
type Options struct {
	// Prompts overrides the default template PromptBuilder.
	Prompts workflow.PromptBuilder
	// Search overrides the default Tavily-compatible HTTP search client.
	Search search.Client
	// KB optionally supplies retrieval-augmented reference sources for the
	// generator ensemble's prompt. When nil, or when it errors or returns
	// an empty result, kb.Baseline() is used verbatim.
	KB kb.KB
	// ReferenceSources, when non-empty, overrides KB resolution entirely
	// and is passed to the generator ensemble's prompt as-is.
	ReferenceSources string
	// ComplianceReference is passed to Challenger C's prompt.
	ComplianceReference string
	// SaveArtifact writes the run-result JSON artifact to Config.OutputDir
	// when true, and then fills Outcome.EscalationPath if the run escalated.
	// The escalation artifact itself is written by the escalation node
	// whenever a run escalates, whether or not SaveArtifact is set.
	SaveArtifact bool
}

// Outcome is the result of one completed (or cancelled) assessment run.
type Outcome struct {
	State           model.State
	Conversation    []model.ConversationRecord
	Heterogeneity   llmfactory.HeterogeneityReport
	RunResultPath   string
	EscalationPath  string
}

// RunAssessment executes the full agent graph for one risk_input: ensemble
// generation, aggregation, parallel challenge, verification/convergence,
// bounded revision, and escalation when convergence is not reached. It
// constructs a fresh run-scoped Recorder and Factory; nothing is shared
// across concurrent calls.
func RunAssessment(ctx context.Context, cfg *config.Config, riskInput string, opts Options) (Outcome, error) {
	if missing := cfg.Validate(); len(missing) > 0 {
		return Outcome{}, fmt.Errorf("missing required provider credentials: %v", missing)
	}

	runID := uuid.NewString()
	recorder := audit.New(runID)
	registry := providers.Default(cfg.Credentials)
	factory := llmfactory.New(registry, cfg.LogFallbackEvents)

	promptBuilder := opts.Prompts
	if promptBuilder == nil {
		promptBuilder = prompt.Default{}
	}
	searchClient := opts.Search
	if searchClient == nil {
		searchClient = search.NewHTTPClient(cfg.SearchBaseURL, os.Getenv(cfg.SearchAPIKeyEnv))
	}
	referenceSources := opts.ReferenceSources
	if referenceSources == "" {
		referenceSources = kb.Resolve(ctx, opts.KB, riskInput, referenceSourceDepth)
	}

	intended := make([]string, 0, len(cfg.GeneratorModels))
	seen := make(map[string]bool, len(cfg.GeneratorModels))
	for _, spec := range cfg.GeneratorModels {
		if !seen[spec.Provider] {
			seen[spec.Provider] = true
			intended = append(intended, spec.Provider)
		}
	}
	if cfg.ReportHeterogeneityStatus {
		slog.Info("starting IoT risk assessment", "run_id", runID, "intended_providers", intended)
	}

	engine, err := workflow.Build(&workflow.Dependencies{
		Factory:             factory,
		Recorder:            recorder,
		Prompts:             promptBuilder,
		Search:              searchClient,
		Config:              cfg,
		ReferenceSources:    referenceSources,
		ComplianceReference: opts.ComplianceReference,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("build workflow graph: %w", err)
	}

	initial := model.State{
		RunID:     runID,
		RiskInput: riskInput,
	}

	final, runErr := engine.Invoke(ctx, initial)
	if runErr != nil && ctx.Err() != nil {
		final.Status = model.EndCancelled
		runErr = fmt.Errorf("%w: %v", model.ErrCancelled, runErr)
	}

	outcome := Outcome{
		State:         final,
		Conversation:  recorder.Snapshot(),
		Heterogeneity: factory.HeterogeneityReport(intended),
	}
	if cfg.ReportHeterogeneityStatus {
		slog.Info("assessment heterogeneity report", "run_id", runID,
			"actual_providers", outcome.Heterogeneity.ActualProviders,
			"diversity_score", outcome.Heterogeneity.DiversityScore,
			"fallback_events", len(outcome.Heterogeneity.FallbackEvents),
		)
	}

	if opts.SaveArtifact {
		path, err := artifact.WriteRunResult(cfg.OutputDir, final, outcome.Conversation, time.Now())
		if err != nil {
			return outcome, fmt.Errorf("write run result artifact: %w", err)
		}
		outcome.RunResultPath = path
		if final.Escalation != nil {
			outcome.EscalationPath = final.Escalation.ArtifactRef
		}
	}

	if runErr != nil {
		return outcome, fmt.Errorf("assessment run %s: %w", runID, runErr)
	}
	return outcome, nil
}
