package async_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/crowdlens/pkg/utils/async"
)

func waitOrFail(t *testing.T, d *async.Dispatcher) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Async handlers did not complete within timeout")
	}
}

func TestDispatcher(t *testing.T) {
	t.Run("Execute handler asynchronously", func(t *testing.T) {
		d := async.NewDispatcher()
		var executed atomic.Bool

		d.Dispatch(context.Background(), func(ctx context.Context) error {
			executed.Store(true)
			return nil
		})

		waitOrFail(t, d)
		gt.True(t, executed.Load())
	})

	t.Run("Log errors from handler", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
		d := async.NewDispatcher()

		d.Dispatch(ctx, func(ctx context.Context) error {
			return goerr.New("test error")
		})

		waitOrFail(t, d)
		gt.S(t, buf.String()).Contains("Error in async handler")
	})

	t.Run("Recover from panic", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
		d := async.NewDispatcher()

		d.Dispatch(ctx, func(ctx context.Context) error {
			panic("test panic")
		})

		waitOrFail(t, d)
		gt.S(t, buf.String()).Contains("Panic in async handler")
	})

	t.Run("Handler context survives caller cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		d := async.NewDispatcher()
		release := make(chan struct{})
		var handlerErr atomic.Value

		d.Dispatch(ctx, func(ctx context.Context) error {
			<-release
			if err := ctx.Err(); err != nil {
				handlerErr.Store(err)
			}
			return nil
		})
		cancel()
		close(release)

		waitOrFail(t, d)
		gt.Nil(t, handlerErr.Load())
	})

	t.Run("Multiple dispatches", func(t *testing.T) {
		d := async.NewDispatcher()
		var counter atomic.Int32

		for i := 0; i < 10; i++ {
			d.Dispatch(context.Background(), func(ctx context.Context) error {
				counter.Add(1)
				return nil
			})
		}

		waitOrFail(t, d)
		gt.Equal(t, int32(10), counter.Load())
	})
}
