// Package worker runs queued jobs strictly one at a time. The runtime relies
// on this to keep at most one turn mutating the live session.
package worker

import "context"

type StartOptions[J any] struct {
	Ctx    context.Context
	Jobs   <-chan J
	Handle func(context.Context, J)
}

// Start consumes Jobs on a single goroutine, invoking Handle synchronously
// for each job. It returns once the context is done or Jobs is closed.
func Start[J any](opts StartOptions[J]) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-opts.Ctx.Done():
				return
			case job, ok := <-opts.Jobs:
				if !ok {
					return
				}
				opts.Handle(opts.Ctx, job)
			}
		}
	}()
	return done
}

// Enqueue submits a job, giving up when either context ends.
func Enqueue[J any](ctx, workersCtx context.Context, jobs chan<- J, job J) error {
	if ctx == nil {
		ctx = workersCtx
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-workersCtx.Done():
		return workersCtx.Err()
	case jobs <- job:
		return nil
	}
}
