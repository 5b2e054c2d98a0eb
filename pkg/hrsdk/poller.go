package hrsdk

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPollInterval is used by the notification widget and the attendance
// log view.
const DefaultPollInterval = 30 * time.Second

// Poller drives a fetch function at a fixed interval. Cancel the context to
// tear it down when the owning view goes away; a result that lands after
// cancellation is dropped, not acted upon.
type Poller struct {
	interval time.Duration
	fn       func(context.Context) error
	logger   *slog.Logger
}

// NewPoller creates a poller. A non-positive interval falls back to
// DefaultPollInterval.
func NewPoller(interval time.Duration, fn func(context.Context) error, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{interval: interval, fn: fn, logger: logger}
}

// Run fires the fetch immediately, then on every tick until ctx is
// cancelled. A failed fetch is logged and the polling continues; the ticker
// is always released on return.
func (p *Poller) Run(ctx context.Context) {
	tick := func() {
		if err := p.fn(ctx); err != nil {
			if ctx.Err() != nil {
				return // view torn down mid-fetch; drop the result
			}
			p.logger.Warn("poll failed", "err", err)
		}
	}

	tick()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}
