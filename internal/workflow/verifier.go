package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/iotrisk/orchestrator/internal/audit"
	"github.com/iotrisk/orchestrator/internal/graph"
	"github.com/iotrisk/orchestrator/internal/llmfactory"
	"github.com/iotrisk/orchestrator/internal/model"
)

// Decision is the ConvergenceRouter's routing outcome.
type Decision string

const (
	DecisionRevise   Decision = "revise"
	DecisionEscalate Decision = "escalate"
	DecisionEnd      Decision = "end"
)

// Route is the pure, deterministic convergence router: given the current
// state and the configured revision cap, it decides whether to approve,
// escalate, or revise, per the fixed ordering (approve check, then
// escalation check, then revision-cap check). It performs no I/O and is
// unit-testable independently of the graph runtime.
func Route(s model.State, maxRevisions int) Decision {
	round := s.LastRound()
	if len(round) == 0 {
		return DecisionEscalate // no critiques at all: cannot converge, safest is human review
	}

	passed := 0
	for _, c := range round {
		if c.Passed() {
			passed++
		}
	}
	total := len(round)

	if float64(passed)/float64(total) >= 2.0/3.0 {
		return DecisionEnd
	}

	if len(EscalationTriggers(s, maxRevisions)) > 0 {
		return DecisionEscalate
	}

	if s.RevisionCount < maxRevisions {
		for _, c := range round {
			if !c.IsValid || c.Recommendation == model.RecommendationReject {
				return DecisionRevise
			}
		}
	}

	return DecisionEnd // graceful degradation: no consensus, and no revision left or called for
}

// Consult optionally dispatches to an LLM for a natural-language
// assessment of whether revision is warranted. The routing decision
// itself is always made by the pure Route function; Consult's result is
// informational only and recorded to the audit log.
func Consult(ctx context.Context, factory *llmfactory.Factory, recorder *audit.Recorder, s model.State, provider, modelName string, temperature float64, timeout time.Duration) {
	label := fmt.Sprintf("verifier/%s/%s", provider, modelName)
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, actualProvider, actualModel, _, err := factory.Create(
		provider, modelName, temperature, timeout, "", "", label,
	)
	modelLabel := fmt.Sprintf("%s/%s", actualProvider, actualModel)
	if err != nil {
		recorder.RecordError("verifier", "system", label, s.RevisionCount, "", err)
		return
	}

	prompt := fmt.Sprintf("Review the %d critiques recorded so far for revision_count=%d and state whether further revision is warranted.",
		len(s.Critiques), s.RevisionCount)
	response, err := client.Invoke(runCtx, prompt)
	if err != nil {
		recorder.RecordError("verifier", "assistant", modelLabel, s.RevisionCount, prompt, err)
		return
	}
	recorder.Record("verifier", "assistant", modelLabel, s.RevisionCount, prompt, response, nil)
}

// VerifierNode wraps Consult (optional) and increments RevisionCount when
// the router decides to revise, matching the verifier's sole role as the
// writer of revision_count (§5 ordering guarantee: revision_count updates
// are serial).
type VerifierNode struct {
	Factory      *llmfactory.Factory
	Recorder     *audit.Recorder
	Provider     string
	Model        string
	Temperature  float64
	Timeout      time.Duration
	MaxRevisions int
}

func (v *VerifierNode) Name() string { return "verifier" }

func (v *VerifierNode) Run(ctx context.Context, s model.State) (stateDelta, error) {
	Consult(ctx, v.Factory, v.Recorder, s, v.Provider, v.Model, v.Temperature, v.Timeout)

	decision := Route(s, v.MaxRevisions)

	var nextNode string
	switch decision {
	case DecisionRevise:
		nextNode = "aggregator"
	case DecisionEscalate:
		nextNode = "escalation"
	default:
		nextNode = graph.End
	}

	return stateDelta{
		Apply: func(st model.State) model.State {
			if decision == DecisionRevise {
				st.RevisionCount++
			} else if decision == DecisionEnd {
				round := st.LastRound()
				passed := 0
				for _, c := range round {
					if c.Passed() {
						passed++
					}
				}
				st.Status = model.EndApproved
				if float64(passed)/float64(len(round)) < 2.0/3.0 || len(EscalationTriggers(st, v.MaxRevisions)) > 0 {
					// graceful degradation: ending without a two-thirds
					// majority, or with an escalation trigger still holding
					st.Status = model.EndDegraded
				}
			}
			return st
		},
		Route: nextNode,
	}, nil
}
