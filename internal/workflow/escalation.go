package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iotrisk/orchestrator/internal/artifact"
	"github.com/iotrisk/orchestrator/internal/audit"
	"github.com/iotrisk/orchestrator/internal/model"
)

// EscalationTriggers evaluates the three escalation conditions and
// returns every one that currently holds (DESIGN.md resolution #3: all
// triggered reasons are recorded, not just the first).
func EscalationTriggers(s model.State, maxRevisions int) []string {
	var reasons []string

	round := s.LastRound()
	if len(round) > 0 {
		passed := 0
		for _, c := range round {
			if c.Passed() {
				passed++
			}
		}
		if s.RevisionCount >= maxRevisions && float64(passed)/float64(len(round)) < 2.0/3.0 {
			reasons = append(reasons, fmt.Sprintf("Max revisions reached (%d) without consensus", maxRevisions))
		}

		allRejectedOrInvalid := true
		for _, c := range round {
			if c.IsValid && c.Recommendation != model.RecommendationReject {
				allRejectedOrInvalid = false
				break
			}
		}
		if allRejectedOrInvalid {
			reasons = append(reasons, "All challengers rejected the draft unanimously")
		}
	}

	if s.SynthesizedDraft != nil && s.SynthesizedDraft.Breakdown != nil &&
		s.SynthesizedDraft.Breakdown.RiskClassification == model.ClassificationCritical {
		reasons = append(reasons, "Critical risk classification")
	}

	return reasons
}

// EscalationHandler is the terminal node reached when the convergence
// router decides to escalate: it builds the EscalationInfo, writes the
// escalation artifact, and records an audit entry. No further routing
// follows this node.
type EscalationHandler struct {
	Recorder     *audit.Recorder
	OutputDir    string
	MaxRevisions int
}

func (h *EscalationHandler) Name() string { return "escalation" }

func (h *EscalationHandler) Run(ctx context.Context, s model.State) (stateDelta, error) {
	reasons := EscalationTriggers(s, h.MaxRevisions)
	if len(reasons) == 0 {
		reasons = []string{"Escalation triggered"}
	}

	priority := "MEDIUM"
	for _, r := range reasons {
		if r == "Critical risk classification" {
			priority = "HIGH"
			break
		}
	}

	path, err := artifact.WriteEscalation(h.OutputDir, s, reasons, priority, time.Now())
	if err != nil {
		h.Recorder.RecordError("escalation", "system", "artifact_writer", s.RevisionCount, "", err)
	}

	info := &model.EscalationInfo{
		Reasons:     reasons,
		Priority:    priority,
		Timestamp:   time.Now(),
		ArtifactRef: path,
	}

	h.Recorder.Record("escalation", "system", "escalation_handler", s.RevisionCount,
		"", fmt.Sprintf("escalated: %v", reasons), map[string]string{"priority": priority})
	slog.Warn("assessment escalated to human review",
		"reasons", reasons, "priority", priority, "artifact", path)

	return stateDelta{Apply: func(st model.State) model.State {
		st.Escalation = info
		st.Status = model.EndEscalated
		return st
	}}, nil
}
