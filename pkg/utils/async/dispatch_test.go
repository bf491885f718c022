package async_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/insights/pkg/utils/async"
)

func TestDispatch(t *testing.T) {
	t.Run("Execute handler asynchronously", func(t *testing.T) {
		ctx := context.Background()
		var wg sync.WaitGroup
		executed := false

		wg.Add(1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer wg.Done()
			executed = true
			return nil
		})

		// Wait for async execution with timeout
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			gt.True(t, executed)
		case <-time.After(1 * time.Second):
			t.Fatal("Async handler did not execute within timeout")
		}
	})

	t.Run("Handle errors in async handler", func(t *testing.T) {
		ctx := context.Background()
		var wg sync.WaitGroup

		wg.Add(1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer wg.Done()
			return goerr.New("test error")
		})

		// Wait for async execution
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Test passes if no panic occurs
		case <-time.After(1 * time.Second):
			t.Fatal("Async handler did not complete within timeout")
		}
	})

	t.Run("Recover from panic in async handler", func(t *testing.T) {
		ctx := context.Background()
		var wg sync.WaitGroup

		wg.Add(1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer wg.Done()
			panic("test panic")
		})

		// Wait for async execution
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Test passes if panic is recovered
		case <-time.After(1 * time.Second):
			t.Fatal("Async handler did not recover from panic within timeout")
		}
	})

	t.Run("Multiple async dispatches", func(t *testing.T) {
		ctx := context.Background()
		var wg sync.WaitGroup
		counter := 0
		var mu sync.Mutex

		for i := 0; i < 10; i++ {
			wg.Add(1)
			async.Dispatch(ctx, func(ctx context.Context) error {
				defer wg.Done()
				mu.Lock()
				counter++
				mu.Unlock()
				return nil
			})
		}

		// Wait for all async executions
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			gt.Equal(t, 10, counter)
		case <-time.After(2 * time.Second):
			t.Fatal("Async handlers did not complete within timeout")
		}
	})
}

func TestContextPreservation(t *testing.T) {
	t.Run("Logger is preserved in background context", func(t *testing.T) {
		ctx := context.Background()
		logger := ctxlog.From(context.Background()) // Get default logger
		ctx = ctxlog.With(ctx, logger)

		done := make(chan bool, 1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			done <- ctxlog.From(ctx) != nil
			return nil
		})

		select {
		case hasLogger := <-done:
			gt.True(t, hasLogger)
		case <-time.After(1 * time.Second):
			t.Fatal("Async handler did not complete within timeout")
		}
	})

	t.Run("Cancelling the caller does not cancel the handler", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		release := make(chan struct{})
		done := make(chan error, 1)

		async.Dispatch(ctx, func(ctx context.Context) error {
			<-release
			done <- ctx.Err()
			return nil
		})
		cancel()
		close(release)

		select {
		case err := <-done:
			gt.NoError(t, err)
		case <-time.After(1 * time.Second):
			t.Fatal("Async handler did not complete within timeout")
		}
	})
}

func TestEvery(t *testing.T) {
	t.Run("Runs handler on every tick until stopped", func(t *testing.T) {
		var count atomic.Int32
		stop := async.Every(context.Background(), 5*time.Millisecond, func(ctx context.Context) error {
			count.Add(1)
			return nil
		})

		deadline := time.After(2 * time.Second)
		for count.Load() < 3 {
			select {
			case <-deadline:
				t.Fatal("handler did not run three times within timeout")
			case <-time.After(time.Millisecond):
			}
		}

		stop()
		stopped := count.Load()
		time.Sleep(30 * time.Millisecond)
		gt.Equal(t, stopped, count.Load())
	})

	t.Run("Keeps ticking after errors and panics", func(t *testing.T) {
		var count atomic.Int32
		stop := async.Every(context.Background(), 5*time.Millisecond, func(ctx context.Context) error {
			n := count.Add(1)
			if n == 1 {
				panic("test panic")
			}
			return goerr.New("test error")
		})
		defer stop()

		deadline := time.After(2 * time.Second)
		for count.Load() < 3 {
			select {
			case <-deadline:
				t.Fatal("loop stopped after a failing run")
			case <-time.After(time.Millisecond):
			}
		}
	})

	t.Run("Stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var count atomic.Int32
		stop := async.Every(ctx, time.Hour, func(ctx context.Context) error {
			count.Add(1)
			return nil
		})
		cancel()

		finished := make(chan struct{})
		go func() {
			stop()
			stop()
			close(finished)
		}()

		select {
		case <-finished:
			gt.Equal(t, int32(0), count.Load())
		case <-time.After(1 * time.Second):
			t.Fatal("stop did not return after cancel")
		}
	})
}
