// Package notify keeps an unread-notification count fresh by polling
// the server on a fixed interval.
package notify

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the polling cadence of the unread badge.
const DefaultInterval = 30 * time.Second

// API is the slice of the server client the poller needs.
type API interface {
	UnreadCount(ctx context.Context) (int, error)
}

// Poller periodically reads the unread count and hands it to a
// callback. Poll failures are logged and swallowed so the badge keeps
// its last value until a later round succeeds.
type Poller struct {
	api      API
	interval time.Duration
	logger   *slog.Logger
	onCount  func(int)
}

// NewPoller returns a poller calling onCount with each fresh count. A
// non-positive interval falls back to DefaultInterval.
func NewPoller(client API, interval time.Duration, logger *slog.Logger, onCount func(int)) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Poller{api: client, interval: interval, logger: logger, onCount: onCount}
}

// Run polls once immediately, then on every tick until ctx is
// cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	count, err := p.api.UnreadCount(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("notification poll failed", "error", err)
		return
	}
	p.onCount(count)
}
