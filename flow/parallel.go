package flow

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ddbase3/MissionBay-sub002/event"
)

// runPassParallel executes the independently-ready nodes of one pass
// concurrently. The ready set is snapshotted up front and outputs are
// staged until every node of the pass has finished, so there is no
// partial cross-visibility mid-pass; downstream buffers then receive the
// deliveries in declaration order. Context variable and memory writes
// are serialized by their own locks.
func (e *Engine) runPassParallel(
	ctx context.Context, f *Flow, run *runState, ectx *Context, runID string, pass int,
) bool {
	e.emit(event.Event{Type: event.TypePass, RunID: runID, Pass: pass})

	var ready []string
	for _, id := range f.nodeIDs {
		if run.executed[id] {
			continue
		}
		if f.router.IsReady(id, run.buffers[id]) {
			ready = append(ready, id)
		}
	}
	if len(ready) == 0 {
		return false
	}

	results := make([]map[string]any, len(ready))

	var g errgroup.Group
	g.SetLimit(e.parallel)
	for i, id := range ready {
		g.Go(func() error {
			results[i] = e.executeNode(ctx, f, id, run.buffers[id], ectx, runID, pass)
			return nil
		})
	}
	// Node faults are captured inside executeNode; the group never
	// carries an error.
	_ = g.Wait()

	for i, id := range ready {
		run.executed[id] = true
		run.outputs[id] = results[i]
		e.propagate(f, run, id, results[i])
	}
	return true
}
