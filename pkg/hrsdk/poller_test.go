package hrsdk

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoller(t *testing.T) {
	t.Run("fires immediately and then on every tick", func(t *testing.T) {
		var ticks atomic.Int64
		p := NewPoller(10*time.Millisecond, func(ctx context.Context) error {
			ticks.Add(1)
			return nil
		}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			p.Run(ctx)
			close(done)
		}()

		require.Eventually(t, func() bool {
			return ticks.Load() >= 3
		}, time.Second, 5*time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("poller did not stop after cancellation")
		}
	})

	t.Run("a failing fetch does not stop the polling", func(t *testing.T) {
		var ticks atomic.Int64
		p := NewPoller(10*time.Millisecond, func(ctx context.Context) error {
			ticks.Add(1)
			return context.DeadlineExceeded
		}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go p.Run(ctx)

		require.Eventually(t, func() bool {
			return ticks.Load() >= 2
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("non-positive interval falls back to the default", func(t *testing.T) {
		p := NewPoller(0, func(ctx context.Context) error { return nil }, nil)
		require.Equal(t, DefaultPollInterval, p.interval)
	})
}
