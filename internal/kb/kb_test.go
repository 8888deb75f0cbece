package kb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeKB struct {
	text string
	err  error
}

func (f fakeKB) Retrieve(ctx context.Context, topic string, n int) (string, error) {
	return f.text, f.err
}

func TestResolve_NilKBReturnsBaseline(t *testing.T) {
	assert.Equal(t, Baseline(), Resolve(context.Background(), nil, "topic", 3))
}

func TestResolve_ErrorFallsBackToBaseline(t *testing.T) {
	got := Resolve(context.Background(), fakeKB{err: errors.New("unavailable")}, "topic", 3)
	assert.Equal(t, Baseline(), got)
}

func TestResolve_EmptyResultFallsBackToBaseline(t *testing.T) {
	got := Resolve(context.Background(), fakeKB{text: ""}, "topic", 3)
	assert.Equal(t, Baseline(), got)
}

func TestResolve_ReturnsRetrievedText(t *testing.T) {
	got := Resolve(context.Background(), fakeKB{text: "relevant passage"}, "topic", 3)
	assert.Equal(t, "relevant passage", got)
}
