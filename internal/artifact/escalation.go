package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iotrisk/orchestrator/internal/model"
)

type escalationMetadata struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type humanReviewRequired struct {
	Priority string `json:"priority"`
}

type escalationDoc struct {
	Metadata          escalationMetadata     `json:"metadata"`
	EscalationReason  []string               `json:"escalation_reason"`
	SynthesizedDraft  *model.RiskAssessment  `json:"synthesized_draft"`
	DraftAssessments  []model.RiskAssessment `json:"draft_assessments"`
	Critiques         []model.Critique       `json:"critiques"`
	HumanReviewRequired humanReviewRequired  `json:"human_review_required"`
}

// WriteEscalation serializes the escalation artifact to
// <outputDir>/escalations/escalation_YYYYMMDD_HHMMSS.json and returns the
// path written.
func WriteEscalation(outputDir string, s model.State, reasons []string, priority string, now time.Time) (string, error) {
	dir := filepath.Join(outputDir, "escalations")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create escalations dir: %w", err)
	}

	doc := escalationDoc{
		Metadata: escalationMetadata{
			Status:    "PENDING_HUMAN_REVIEW",
			Timestamp: now.UTC().Format(time.RFC3339),
		},
		EscalationReason:   reasons,
		SynthesizedDraft:   s.SynthesizedDraft,
		DraftAssessments:   s.DraftAssessments,
		Critiques:          s.Critiques,
		HumanReviewRequired: humanReviewRequired{Priority: priority},
	}

	filename := fmt.Sprintf("escalation_%s.json", now.UTC().Format("20060102_150405"))
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal escalation: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write escalation artifact: %w", err)
	}
	return path, nil
}
