package oracle

import (
	"context"
	"log/slog"
	"time"

	"github.com/henrysammarfo/tapngo/internal/metrics"
)

// Fetcher reads a rate from a remote feed.
type Fetcher interface {
	Fetch(ctx context.Context) (Rate, error)
}

// Poller refreshes a Cache from a Fetcher on a fixed interval.
type Poller struct {
	Feed     Fetcher
	Cache    *Cache
	Interval time.Duration
}

// Run polls until ctx is cancelled. The first refresh happens immediately.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		if err := p.RefreshOnce(ctx); err != nil {
			slog.Warn("Price feed refresh failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RefreshOnce fetches one rate and stores it. A failed fetch keeps the
// previous rate, which then ages toward the router's staleness limit.
func (p *Poller) RefreshOnce(ctx context.Context) error {
	r, err := p.Feed.Fetch(ctx)
	if err != nil {
		metrics.RateUpdates.WithLabelValues("error").Inc()
		return err
	}
	if err := p.Cache.Set(r); err != nil {
		metrics.RateUpdates.WithLabelValues("error").Inc()
		return err
	}
	metrics.RateUpdates.WithLabelValues("ok").Inc()
	slog.Debug("Exchange rate refreshed", "rate", r.String(), "source", r.Source, "observed_at", r.Timestamp)
	return nil
}
