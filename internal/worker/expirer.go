// Package worker runs the background maintenance loops of the settlement core.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultInterval is how often overdue orders are swept when no interval is configured.
const DefaultInterval = 30 * time.Second

// Sweeper expires overdue pending orders. *payments.Router satisfies it.
type Sweeper interface {
	ExpireStale(ctx context.Context) ([]common.Hash, error)
}

// Expirer periodically flips pending orders past their TTL to expired.
type Expirer struct {
	Orders   Sweeper
	Interval time.Duration
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (e *Expirer) Run(ctx context.Context) {
	interval := e.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("Order expirer started", "interval", interval)
	for {
		if _, err := e.SweepOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Order sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			slog.Info("Order expirer stopped")
			return
		case <-ticker.C:
		}
	}
}

// SweepOnce runs a single pass and returns how many orders it expired.
func (e *Expirer) SweepOnce(ctx context.Context) (int, error) {
	ids, err := e.Orders.ExpireStale(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		slog.Info("Expired stale orders", "count", len(ids))
	}
	return len(ids), nil
}
