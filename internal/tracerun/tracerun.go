// Package tracerun drives a depgraph.Graph from the outside: it fans a
// batch of root TraceNode calls out across goroutines, tracks each root's
// resolution independently, and adapts the graph's event bus into
// formatted progress lines. None of this lives in internal/depgraph
// itself — the core has no scheduling policy, by design.
package tracerun

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

// Status is the state of a single root within a Run.
type Status string

const (
	StatusPending  Status = "pending"
	StatusWorking  Status = "working"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// ProgressEvent is emitted to the caller as a root moves through its
// lifecycle during a Run.
type ProgressEvent struct {
	Root    depgraph.NodeID
	Status  Status
	Message string
}

// RootResult holds the outcome of tracing a single root.
type RootResult struct {
	Root depgraph.NodeID
	Err  error
}

// Runner drives TraceNode calls against a shared Graph and narrates their
// progress.
type Runner struct {
	graph      *depgraph.Graph
	onProgress func(ProgressEvent)
}

// NewRunner creates a Runner over graph. onProgress is called synchronously
// from whichever goroutine reaches the state transition; it may be nil.
func NewRunner(graph *depgraph.Graph, onProgress func(ProgressEvent)) *Runner {
	return &Runner{graph: graph, onProgress: onProgress}
}

// TraceIfUndefined traces id only when it is not already present in the
// store. internal/depgraph's TraceNode unconditionally enqueues a job on
// every call, matching the source it is built from; this short-circuit is
// the host-side optimization the core deliberately leaves out.
func (r *Runner) TraceIfUndefined(id depgraph.NodeID) {
	if r.graph.IsNodeDefined(id) {
		return
	}
	r.graph.TraceNode(id)
}

// Run traces every root concurrently and waits for each to resolve its own
// direct dependencies (or report an error). It returns one RootResult per
// root, in the same order as roots, plus the first error encountered.
//
// A root's TracedEvent or ErrorEvent may arrive on whatever goroutine the
// resolver callback runs on, so the completion channels below are written
// from arbitrary goroutines and read from the one that dispatched that
// root; the index map itself is only ever read once set up, before any
// goroutine starts.
func (r *Runner) Run(ctx context.Context, roots []depgraph.NodeID) ([]RootResult, error) {
	results := make([]RootResult, len(roots))
	done := make([]chan error, len(roots))
	index := make(map[depgraph.NodeID]int, len(roots))
	for i, root := range roots {
		done[i] = make(chan error, 1)
		index[root] = i
	}

	r.graph.Events().OnTraced(func(ev depgraph.TracedEvent) {
		if i, ok := index[ev.Node]; ok {
			select {
			case done[i] <- nil:
			default:
			}
		}
	})
	r.graph.Events().OnError(func(ev depgraph.ErrorEvent) {
		if i, ok := index[ev.Node]; ok {
			select {
			case done[i] <- ev.Error:
			default:
			}
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		i, root := i, root
		r.emit(ProgressEvent{Root: root, Status: StatusPending})

		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			r.emit(ProgressEvent{Root: root, Status: StatusWorking})

			alreadyDefined := r.graph.IsNodeDefined(root)
			r.TraceIfUndefined(root)
			if alreadyDefined {
				results[i] = RootResult{Root: root}
				r.emit(ProgressEvent{Root: root, Status: StatusComplete})
				return nil
			}

			select {
			case err := <-done[i]:
				results[i] = RootResult{Root: root, Err: err}
				if err != nil {
					r.emit(ProgressEvent{Root: root, Status: StatusFailed, Message: err.Error()})
					return err
				}
				r.emit(ProgressEvent{Root: root, Status: StatusComplete})
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	err := g.Wait()
	return results, err
}

func (r *Runner) emit(ev ProgressEvent) {
	if r.onProgress != nil {
		r.onProgress(ev)
	}
}
