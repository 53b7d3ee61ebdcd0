package async

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
)

// Dispatcher runs handlers in the background so the push stream loop never waits on
// slow side effects such as outbound notifications. Wait blocks until every
// dispatched handler returned.
type Dispatcher struct {
	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Dispatch executes handler asynchronously with the caller's logger and panic recovery.
// The handler context is detached from ctx cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("Panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("Error in async handler",
				"error", err,
			)
		}
	}()
}

// Wait blocks until all dispatched handlers have finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

var defaultDispatcher = NewDispatcher()

// Dispatch executes handler on the package-level Dispatcher
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	defaultDispatcher.Dispatch(ctx, handler)
}

// newBackgroundContext creates a new background context preserving the logger
func newBackgroundContext(ctx context.Context) context.Context {
	return ctxlog.With(context.Background(), ctxlog.From(ctx))
}
