package oracle

import (
	"context"
	"time"
)

// Static serves a configured rate and fee. Every read is stamped with the
// current time, so a static rate is never stale.
type Static struct {
	Rate   uint64
	FeeBps uint16
	Name   string
}

func (s Static) CurrentRate(ctx context.Context) (Rate, error) {
	if s.Rate == 0 {
		return Rate{}, ErrNoRate
	}
	name := s.Name
	if name == "" {
		name = "fixed"
	}
	return Rate{Value: s.Rate, Timestamp: time.Now().UTC(), Source: name}, nil
}

func (s Static) PlatformFeeBps(ctx context.Context) (uint16, error) {
	return s.FeeBps, nil
}
