// Package artifact writes the persisted run-result and escalation JSON
// documents described by the system's external interfaces.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iotrisk/orchestrator/internal/model"
)

type runResultMetadata struct {
	Timestamp     string `json:"timestamp"`
	RevisionCount int    `json:"revision_count"`
	RunID         string `json:"run_id"`
	Status        string `json:"status"`
}

type runResultOutput struct {
	SynthesizedDraft *model.RiskAssessment  `json:"synthesized_draft"`
	DraftAssessments []model.RiskAssessment `json:"draft_assessments"`
	Critiques        []model.Critique       `json:"critiques"`
}

type workflowStats struct {
	RevisionCount   int `json:"revision_count"`
	TotalCritiques  int `json:"total_critiques"`
	DraftCount      int `json:"draft_count"`
}

type runResultDoc struct {
	Metadata       runResultMetadata          `json:"metadata"`
	Input          string                     `json:"input"`
	Output         runResultOutput            `json:"output"`
	WorkflowStats  workflowStats              `json:"workflow_stats"`
	ConversationLog []model.ConversationRecord `json:"conversation_log"`
}

// WriteRunResult serializes the final state and conversation log to
// <outputDir>/assessment_iot_risk_YYYYMMDD_HHMMSS.json and returns the
// path written.
func WriteRunResult(outputDir string, s model.State, conversation []model.ConversationRecord, now time.Time) (string, error) {
	doc := runResultDoc{
		Metadata: runResultMetadata{
			Timestamp:     now.UTC().Format(time.RFC3339),
			RevisionCount: s.RevisionCount,
			RunID:         s.RunID,
			Status:        string(s.Status),
		},
		Input: s.RiskInput,
		Output: runResultOutput{
			SynthesizedDraft: s.SynthesizedDraft,
			DraftAssessments: s.DraftAssessments,
			Critiques:        s.Critiques,
		},
		WorkflowStats: workflowStats{
			RevisionCount:  s.RevisionCount,
			TotalCritiques: len(s.Critiques),
			DraftCount:     len(s.DraftAssessments),
		},
		ConversationLog: conversation,
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	filename := fmt.Sprintf("assessment_iot_risk_%s.json", now.UTC().Format("20060102_150405"))
	path := filepath.Join(outputDir, filename)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal run result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write run result: %w", err)
	}
	return path, nil
}
