package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listState struct {
	items []string
}

func appendNode(label string) NodeFunc[listState] {
	return NodeFunc[listState]{
		NodeName: label,
		Fn: func(ctx context.Context, s listState) (Delta[listState], error) {
			return Delta[listState]{Apply: func(st listState) listState {
				st.items = append(append([]string{}, st.items...), label)
				return st
			}}, nil
		},
	}
}

func TestParallelGroup_CombinesInFixedBranchOrder(t *testing.T) {
	group := &ParallelGroup[listState]{
		GroupName: "fanout",
		Branches: []Node[listState]{
			appendNode("A"), appendNode("B"), appendNode("C"),
		},
		Combine: func(s listState, deltas []Delta[listState]) Delta[listState] {
			return Delta[listState]{Apply: func(st listState) listState {
				for _, d := range deltas {
					st = d.Apply(st)
				}
				return st
			}}
		},
	}

	// Run repeatedly: goroutine completion order is nondeterministic, but
	// the combined result must always reflect branch-declaration order.
	for i := 0; i < 20; i++ {
		delta, err := group.Run(context.Background(), listState{})
		require.NoError(t, err)
		final := delta.Apply(listState{})
		assert.Equal(t, []string{"A", "B", "C"}, final.items)
	}
}

func TestParallelGroup_PropagatesFirstError(t *testing.T) {
	group := &ParallelGroup[listState]{
		GroupName: "fanout",
		Branches: []Node[listState]{
			appendNode("A"),
			NodeFunc[listState]{NodeName: "B", Fn: func(ctx context.Context, s listState) (Delta[listState], error) {
				return Delta[listState]{}, assertErr{"branch B failed"}
			}},
		},
		Combine: func(s listState, deltas []Delta[listState]) Delta[listState] {
			return Delta[listState]{}
		},
	}

	_, err := group.Run(context.Background(), listState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "branch B failed")
}
