// Package oracle supplies the fiat-per-token exchange rate and the platform
// fee to the payment router.
//
// Rates are fixed-point integers with calculator.RateDecimals decimals. A
// Source answers from memory; network fetches happen in a Poller that
// refreshes a Cache in the background.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/henrysammarfo/tapngo/internal/calculator"
)

var (
	// ErrNoRate is returned by a Cache that has not been filled yet.
	ErrNoRate = errors.New("no exchange rate available")

	// ErrInvalidRate is returned for zero, negative or oversized rates.
	ErrInvalidRate = errors.New("invalid exchange rate")
)

// Rate is a fiat-per-token exchange rate observation.
type Rate struct {
	// Value has calculator.RateDecimals decimals; 100_000_000 is 1.0.
	Value     uint64
	Timestamp time.Time
	Source    string
}

// Decimal returns the rate as a decimal number.
func (r Rate) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(r.Value), -calculator.RateDecimals)
}

func (r Rate) String() string {
	return FormatRate(r.Value)
}

// Age is how old the observation is at now.
func (r Rate) Age(now time.Time) time.Duration {
	return now.Sub(r.Timestamp)
}

// Source is the router's view of the pricing collaborator.
type Source interface {
	CurrentRate(ctx context.Context) (Rate, error)
	PlatformFeeBps(ctx context.Context) (uint16, error)
}

var maxRate = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), -calculator.RateDecimals)

// ParseRate converts a decimal string such as "1.0002" to a fixed-point
// rate. Digits beyond calculator.RateDecimals are dropped.
func ParseRate(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	return RateFromDecimal(d)
}

// RateFromDecimal converts d to a fixed-point rate, rounding down.
func RateFromDecimal(d decimal.Decimal) (uint64, error) {
	if !d.IsPositive() || d.GreaterThan(maxRate) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidRate, d.String())
	}
	v := d.Shift(calculator.RateDecimals).Floor().BigInt()
	if v.Sign() == 0 || !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidRate, d.String())
	}
	return v.Uint64(), nil
}

// FormatRate renders a fixed-point rate as a decimal string.
func FormatRate(v uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), -calculator.RateDecimals).String()
}
