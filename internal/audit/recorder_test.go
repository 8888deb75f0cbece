package audit

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder_RecordAndSnapshot(t *testing.T) {
	r := New("run-1")
	assert.Equal(t, "run-1", r.RunID())

	r.Record("generator_ensemble", "assistant", "openai/gpt-4o", 0, "prompt", "response", nil)
	r.RecordError("aggregator", "assistant", "anthropic/claude-3-5-sonnet-latest", 1, "prompt2", errors.New("timeout"))

	snap := r.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, "response", snap[0].Response)
	assert.Equal(t, "ERROR: timeout", snap[1].Response)
}

func TestRecorder_SnapshotIsDefensiveCopy(t *testing.T) {
	r := New("run-2")
	r.Record("a", "system", "m", 0, "p", "r", nil)

	snap := r.Snapshot()
	snap[0].Response = "mutated"

	assert.Equal(t, "r", r.Snapshot()[0].Response)
}

func TestRecorder_ConcurrentRecordsAreSafe(t *testing.T) {
	r := New("run-3")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Record("challenger_a", "assistant", "openai/gpt-4o", 0, "p", "r", nil)
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.Snapshot(), 50)
}
