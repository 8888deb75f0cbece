package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	count int
	path  []string
}

func incNode(name string) NodeFunc[counterState] {
	return NodeFunc[counterState]{
		NodeName: name,
		Fn: func(ctx context.Context, s counterState) (Delta[counterState], error) {
			return Delta[counterState]{Apply: func(st counterState) counterState {
				st.count++
				st.path = append(append([]string{}, st.path...), name)
				return st
			}}, nil
		},
	}
}

func TestEngine_LinearInvoke(t *testing.T) {
	e := New[counterState]()
	require.NoError(t, e.Add("a", incNode("a")))
	require.NoError(t, e.Add("b", incNode("b")))
	require.NoError(t, e.StartAt("a"))
	require.NoError(t, e.Connect("a", "b"))
	require.NoError(t, e.Connect("b", End))

	final, err := e.Invoke(context.Background(), counterState{})
	require.NoError(t, err)
	assert.Equal(t, 2, final.count)
	assert.Equal(t, []string{"a", "b"}, final.path)
}

func TestEngine_ConditionalRouting(t *testing.T) {
	e := New[counterState]()
	require.NoError(t, e.Add("a", incNode("a")))
	require.NoError(t, e.Add("loop", incNode("loop")))
	require.NoError(t, e.StartAt("a"))
	require.NoError(t, e.ConnectConditional("a", func(s counterState) string {
		if s.count < 3 {
			return "loop"
		}
		return End
	}))
	require.NoError(t, e.ConnectConditional("loop", func(s counterState) string {
		if s.count < 3 {
			return "loop"
		}
		return End
	}))

	final, err := e.Invoke(context.Background(), counterState{})
	require.NoError(t, err)
	assert.Equal(t, 3, final.count)
}

func TestEngine_DeltaRouteOverridesStaticEdge(t *testing.T) {
	e := New[counterState]()
	override := NodeFunc[counterState]{
		NodeName: "override",
		Fn: func(ctx context.Context, s counterState) (Delta[counterState], error) {
			return Delta[counterState]{Route: End}, nil
		},
	}
	require.NoError(t, e.Add("override", override))
	require.NoError(t, e.Add("never", incNode("never")))
	require.NoError(t, e.StartAt("override"))
	require.NoError(t, e.Connect("override", "never"))

	final, err := e.Invoke(context.Background(), counterState{})
	require.NoError(t, err)
	assert.Equal(t, 0, final.count)
}

func TestEngine_PropagatesNodeError(t *testing.T) {
	e := New[counterState]()
	failing := NodeFunc[counterState]{
		NodeName: "fail",
		Fn: func(ctx context.Context, s counterState) (Delta[counterState], error) {
			return Delta[counterState]{}, assertErr{"boom"}
		},
	}
	require.NoError(t, e.Add("fail", failing))
	require.NoError(t, e.StartAt("fail"))

	_, err := e.Invoke(context.Background(), counterState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

type assertErr struct{ msg string }

func (e assertErr) Error() string { return e.msg }
