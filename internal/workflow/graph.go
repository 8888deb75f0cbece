package workflow

import (
	"github.com/iotrisk/orchestrator/internal/audit"
	"github.com/iotrisk/orchestrator/internal/config"
	"github.com/iotrisk/orchestrator/internal/graph"
	"github.com/iotrisk/orchestrator/internal/llmfactory"
	"github.com/iotrisk/orchestrator/internal/model"
	"github.com/iotrisk/orchestrator/internal/search"
)

// Dependencies bundles everything the graph's nodes need, constructed
// once per run by the root RunAssessment function.
type Dependencies struct {
	Factory             *llmfactory.Factory
	Recorder            *audit.Recorder
	Prompts             PromptBuilder
	Search              search.Client
	Config              *config.Config
	ReferenceSources     string
	ComplianceReference  string
}

// Build compiles the full workflow graph over model.State, wiring the
// topology: generator_ensemble -> aggregator -> {challenger_a,
// challenger_b, challenger_c} (parallel, fan-in) -> verifier ->
// (conditional: revise -> aggregator | escalate -> escalation | end).
func Build(deps *Dependencies) (*graph.Engine[model.State], error) {
	cfg := deps.Config
	e := graph.New[model.State]()

	generator := &GeneratorEnsemble{
		Factory:          deps.Factory,
		Recorder:         deps.Recorder,
		Prompts:          deps.Prompts,
		Specs:            cfg.GeneratorModels,
		Temperature:      cfg.GeneratorTemperature,
		Timeout:          cfg.LLMRequestTimeout,
		ReferenceSources: deps.ReferenceSources,
	}

	aggregator := &Aggregator{
		Factory:     deps.Factory,
		Recorder:    deps.Recorder,
		Prompts:     deps.Prompts,
		Provider:    cfg.AggregatorProvider,
		Model:       cfg.AggregatorModel,
		Temperature: cfg.AggregatorTemperature,
		Timeout:     cfg.LLMRequestTimeout,
	}

	challengerA := &ChallengerA{
		Factory:     deps.Factory,
		Recorder:    deps.Recorder,
		Prompts:     deps.Prompts,
		Provider:    cfg.ChallengerAProvider,
		Model:       cfg.ChallengerAModel,
		Temperature: cfg.ChallengerTemperature,
		Timeout:     cfg.LLMRequestTimeout,
	}
	challengerB := &ChallengerB{
		Search:   deps.Search,
		Recorder: deps.Recorder,
		Timeout:  cfg.LLMRequestTimeout,
	}
	challengerC := &ChallengerC{
		Factory:             deps.Factory,
		Recorder:            deps.Recorder,
		Prompts:             deps.Prompts,
		ComplianceReference: deps.ComplianceReference,
		Provider:            cfg.ChallengerCProvider,
		Model:               cfg.ChallengerCModel,
		Temperature:         cfg.ChallengerTemperature,
		Timeout:             cfg.LLMRequestTimeout,
	}

	challengerGroup := &graph.ParallelGroup[model.State]{
		GroupName: "challengers",
		Branches:  []graph.Node[model.State]{challengerA, challengerB, challengerC},
		Combine: func(s model.State, deltas []graph.Delta[model.State]) graph.Delta[model.State] {
			return graph.Delta[model.State]{Apply: func(st model.State) model.State {
				// Apply in fixed [A, B, C] branch order regardless of
				// goroutine completion order, per the positional-slot
				// discipline resolved for parallel critique writes.
				for _, d := range deltas {
					if d.Apply != nil {
						st = d.Apply(st)
					}
				}
				return st
			}}
		},
	}

	verifier := &VerifierNode{
		Factory:      deps.Factory,
		Recorder:     deps.Recorder,
		Provider:     cfg.VerifierProvider,
		Model:        cfg.VerifierModel,
		Temperature:  cfg.VerifierTemperature,
		Timeout:      cfg.LLMRequestTimeout,
		MaxRevisions: cfg.MaxRevisions,
	}

	escalation := &EscalationHandler{
		Recorder:     deps.Recorder,
		OutputDir:    cfg.OutputDir,
		MaxRevisions: cfg.MaxRevisions,
	}

	if err := e.Add("generator_ensemble", generator); err != nil {
		return nil, err
	}
	if err := e.Add("aggregator", aggregator); err != nil {
		return nil, err
	}
	if err := e.Add("challengers", challengerGroup); err != nil {
		return nil, err
	}
	if err := e.Add("verifier", verifier); err != nil {
		return nil, err
	}
	if err := e.Add("escalation", escalation); err != nil {
		return nil, err
	}

	if err := e.StartAt("generator_ensemble"); err != nil {
		return nil, err
	}
	if err := e.Connect("generator_ensemble", "aggregator"); err != nil {
		return nil, err
	}
	if err := e.Connect("aggregator", "challengers"); err != nil {
		return nil, err
	}
	if err := e.Connect("challengers", "verifier"); err != nil {
		return nil, err
	}
	// Verifier's own Delta.Route drives the conditional transition
	// (revise -> aggregator | escalate -> escalation | end -> graph.End);
	// no static edge is declared for it.
	if err := e.Connect("escalation", graph.End); err != nil {
		return nil, err
	}

	return e, nil
}
