package graph

import (
	"context"
	"sync"
)

// ParallelGroup wraps a fixed set of nodes that must all run concurrently
// on the same input state, joining before producing a single combined
// Delta. It is the graph's special case for fan-out/fan-in: the runtime
// blocks at the join until every branch has completed or failed, matching
// the fan-out-with-join-barrier discipline used elsewhere in this
// codebase's concurrent dispatch of independent branches.
type ParallelGroup[S any] struct {
	GroupName string
	Branches  []Node[S]
	// Combine folds the ordered list of branch deltas (in Branches order,
	// not completion order) into one Delta for the group.
	Combine func(s S, deltas []Delta[S]) Delta[S]
}

func (g *ParallelGroup[S]) Name() string { return g.GroupName }

func (g *ParallelGroup[S]) Run(ctx context.Context, s S) (Delta[S], error) {
	deltas := make([]Delta[S], len(g.Branches))
	errs := make([]error, len(g.Branches))

	var wg sync.WaitGroup
	for i, branch := range g.Branches {
		wg.Add(1)
		go func(i int, branch Node[S]) {
			defer wg.Done()
			d, err := branch.Run(ctx, s)
			deltas[i] = d
			errs[i] = err
		}(i, branch)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Delta[S]{}, err
		}
	}

	return g.Combine(s, deltas), nil
}
