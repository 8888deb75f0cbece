package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotrisk/orchestrator/internal/audit"
	"github.com/iotrisk/orchestrator/internal/model"
)

func TestEscalationHandler_Run_WritesArtifactAndSetsStatus(t *testing.T) {
	dir := t.TempDir()
	handler := &EscalationHandler{
		Recorder:     audit.New("run-1"),
		OutputDir:    dir,
		MaxRevisions: 3,
	}

	s := model.State{
		RunID:            "run-1",
		RevisionCount:    3,
		SynthesizedDraft: criticalDraft(),
		Critiques: []model.Critique{
			critiqueOf(model.ChallengerA, model.RecommendationReject),
			critiqueOf(model.ChallengerB, model.RecommendationReject),
			critiqueOf(model.ChallengerC, model.RecommendationReject),
		},
	}

	delta, err := handler.Run(context.Background(), s)
	require.NoError(t, err)

	final := delta.Apply(s)
	require.NotNil(t, final.Escalation)
	assert.Equal(t, model.EndEscalated, final.Status)
	assert.Equal(t, "HIGH", final.Escalation.Priority)
	assert.NotEmpty(t, final.Escalation.Reasons)
	assert.FileExists(t, final.Escalation.ArtifactRef)

	entries, err := os.ReadDir(filepath.Join(dir, "escalations"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEscalationHandler_Run_MediumPriorityWithoutCriticalClassification(t *testing.T) {
	dir := t.TempDir()
	handler := &EscalationHandler{
		Recorder:     audit.New("run-2"),
		OutputDir:    dir,
		MaxRevisions: 3,
	}

	s := model.State{
		RunID:            "run-2",
		RevisionCount:    3,
		SynthesizedDraft: lowDraft(),
		Critiques: []model.Critique{
			critiqueOf(model.ChallengerA, model.RecommendationReject),
			critiqueOf(model.ChallengerB, model.RecommendationNeedsReview),
			critiqueOf(model.ChallengerC, model.RecommendationAccept),
		},
	}

	delta, err := handler.Run(context.Background(), s)
	require.NoError(t, err)
	final := delta.Apply(s)
	assert.Equal(t, "MEDIUM", final.Escalation.Priority)
}
