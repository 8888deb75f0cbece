// Package audit implements the run-scoped AuditRecorder: an append-only
// log of every prompt/response exchange in one run, passed explicitly into
// each workflow node rather than carried by ambient/global state.
package audit

import (
	"sync"
	"time"

	"github.com/iotrisk/orchestrator/internal/model"
)

// Recorder is a single run's append-only conversation log. It is
// constructed once per RunAssessment call and passed by reference into
// every node; there is no global or package-level instance.
type Recorder struct {
	mu      sync.Mutex
	runID   string
	records []model.ConversationRecord
}

// New creates a Recorder scoped to one run.
func New(runID string) *Recorder {
	return &Recorder{runID: runID}
}

// RunID returns the run this recorder is scoped to.
func (r *Recorder) RunID() string {
	return r.runID
}

// Record appends one ConversationRecord with a monotonic timestamp.
// Callers recording an LLM error must pass response = "ERROR: <message>"
// so the audit trail stays complete regardless of success.
func (r *Recorder) Record(stage, role, modelLabel string, revision int, prompt, response string, extra map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, model.ConversationRecord{
		Timestamp:  time.Now(),
		Stage:      stage,
		Role:       role,
		ModelLabel: modelLabel,
		Revision:   revision,
		Prompt:     prompt,
		Response:   response,
		Extra:      extra,
	})
}

// RecordError is a convenience wrapper around Record for LLM call failures.
func (r *Recorder) RecordError(stage, role, modelLabel string, revision int, prompt string, err error) {
	r.Record(stage, role, modelLabel, revision, prompt, "ERROR: "+err.Error(), nil)
}

// Snapshot returns a copy of every record captured so far. Safe to call
// concurrently with in-flight Record calls (e.g. after a cancelled run, to
// retrieve partial audit records per the cancellation policy).
func (r *Recorder) Snapshot() []model.ConversationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ConversationRecord, len(r.records))
	copy(out, r.records)
	return out
}
