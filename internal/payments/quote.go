package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/henrysammarfo/tapngo/internal/calculator"
	"github.com/henrysammarfo/tapngo/internal/oracle"
	"github.com/henrysammarfo/tapngo/internal/token"
)

// Quote is a fiat amount converted at a specific rate.
type Quote struct {
	AmountFiat  uint64
	AmountToken uint64
	Rate        oracle.Rate
}

// CalculateTokenAmount previews the token amount an order for amountFiat
// would freeze right now. It applies the same rounding as CreateOrder.
func (r *Router) CalculateTokenAmount(ctx context.Context, amountFiat uint64) (Quote, error) {
	return r.quote(ctx, amountFiat)
}

func (r *Router) quote(ctx context.Context, amountFiat uint64) (Quote, error) {
	if amountFiat == 0 || amountFiat > math.MaxInt64 {
		return Quote{}, ErrInvalidAmount
	}

	rate, err := r.oracle.CurrentRate(ctx)
	if err != nil {
		if errors.Is(err, oracle.ErrNoRate) {
			return Quote{}, fmt.Errorf("%w: %w", ErrStaleRate, err)
		}
		return Quote{}, fmt.Errorf("failed to read exchange rate: %w", err)
	}
	if r.cfg.MaxRateAge > 0 {
		if age := rate.Age(r.now()); age > r.cfg.MaxRateAge {
			return Quote{}, fmt.Errorf("%w: rate from %s is %s old", ErrStaleRate, rate.Source, age.Round(time.Second))
		}
	}

	amountToken, err := calculator.TokenAmount(amountFiat, rate.Value)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	if amountToken == 0 || amountToken > token.MaxSupply {
		return Quote{}, fmt.Errorf("%w: converts to %d token units", ErrInvalidAmount, amountToken)
	}

	return Quote{AmountFiat: amountFiat, AmountToken: amountToken, Rate: rate}, nil
}
