// Package graph provides a small, generic directed-graph execution engine:
// nodes, static and conditional edges, a parallel-group node for
// fan-out/fan-in, and Invoke/Stream execution modes. It is shaped by the
// node/edge/reducer vocabulary common to Go graph-orchestration libraries,
// implemented by hand against this module's own state-merge and
// cancellation requirements rather than depending on an external
// single-purpose graph framework (see DESIGN.md).
package graph

import (
	"context"
	"fmt"
)

// Delta is one node's proposed change to the run state: Apply folds the
// node's output into the current state; Route optionally overrides the
// statically declared next node (used by conditional edges).
type Delta[S any] struct {
	Apply func(S) S
	Route string
}

// Node is one unit of graph work.
type Node[S any] interface {
	Name() string
	Run(ctx context.Context, s S) (Delta[S], error)
}

// NodeFunc adapts a plain function to the Node interface.
type NodeFunc[S any] struct {
	NodeName string
	Fn       func(ctx context.Context, s S) (Delta[S], error)
}

func (f NodeFunc[S]) Name() string { return f.NodeName }
func (f NodeFunc[S]) Run(ctx context.Context, s S) (Delta[S], error) {
	return f.Fn(ctx, s)
}

// edge is a static or conditional outgoing connection from a node.
type edge[S any] struct {
	to     string
	router func(S) string // non-nil for conditional edges
}

// End is the sentinel "next node" name meaning terminate the run. It is
// distinct from the empty string, which Delta.Route uses to mean "no
// override, use the statically declared edge".
const End = "__END__"

// Engine compiles and executes a directed graph over state type S.
type Engine[S any] struct {
	nodes map[string]Node[S]
	edges map[string]edge[S]
	start string
}

// New builds an empty Engine.
func New[S any]() *Engine[S] {
	return &Engine[S]{
		nodes: make(map[string]Node[S]),
		edges: make(map[string]edge[S]),
	}
}

// Add registers a node under name.
func (e *Engine[S]) Add(name string, n Node[S]) error {
	if _, exists := e.nodes[name]; exists {
		return fmt.Errorf("node %q already registered", name)
	}
	e.nodes[name] = n
	return nil
}

// Connect declares a static edge from -> to.
func (e *Engine[S]) Connect(from, to string) error {
	if _, ok := e.nodes[from]; !ok {
		return fmt.Errorf("unknown source node %q", from)
	}
	e.edges[from] = edge[S]{to: to}
	return nil
}

// ConnectConditional declares an edge whose destination is computed from
// the state after the node runs, unless the node's own Delta.Route
// overrides it.
func (e *Engine[S]) ConnectConditional(from string, router func(S) string) error {
	if _, ok := e.nodes[from]; !ok {
		return fmt.Errorf("unknown source node %q", from)
	}
	e.edges[from] = edge[S]{router: router}
	return nil
}

// StartAt designates the entry node.
func (e *Engine[S]) StartAt(name string) error {
	if _, ok := e.nodes[name]; !ok {
		return fmt.Errorf("unknown start node %q", name)
	}
	e.start = name
	return nil
}

// Invoke runs the graph to completion and returns only the final state.
func (e *Engine[S]) Invoke(ctx context.Context, initial S) (S, error) {
	var final S
	ch, errCh := e.Stream(ctx, initial)
	for s := range ch {
		final = s
	}
	if err := <-errCh; err != nil {
		return final, err
	}
	return final, nil
}

// Stream runs the graph, emitting the state snapshot after every node on
// the returned channel, and the terminal error (nil on success) on the
// error channel once the run completes or is cancelled.
func (e *Engine[S]) Stream(ctx context.Context, initial S) (<-chan S, <-chan error) {
	out := make(chan S)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		state := initial
		current := e.start

		for current != End {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			default:
			}

			node, ok := e.nodes[current]
			if !ok {
				errCh <- fmt.Errorf("node %q not found", current)
				return
			}

			delta, err := node.Run(ctx, state)
			if err != nil {
				errCh <- fmt.Errorf("node %q: %w", current, err)
				return
			}
			if delta.Apply != nil {
				state = delta.Apply(state)
			}
			out <- state

			next := delta.Route
			if next == "" {
				ed, ok := e.edges[current]
				if !ok {
					break // no outgoing edge: treat as terminal
				}
				if ed.router != nil {
					next = ed.router(state)
				} else {
					next = ed.to
				}
			}
			current = next
		}

		errCh <- nil
	}()

	return out, errCh
}
