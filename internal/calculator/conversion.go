// Package calculator holds the integer arithmetic of settlement: fiat to
// token conversion, fee splitting and supply reconciliation. Every rule
// rounds down.
package calculator

import (
	"errors"
	"math/big"
)

// RateDecimals is the fixed-point scale of fiat-per-token exchange rates.
const RateDecimals = 8

// RateScale is 10^RateDecimals, the integer value of a rate of exactly 1.0.
const RateScale uint64 = 100_000_000

var (
	// ErrZeroRate is returned when converting at a rate of zero.
	ErrZeroRate = errors.New("exchange rate must be positive")

	// ErrAmountOverflow is returned when a converted amount does not fit in 64 bits.
	ErrAmountOverflow = errors.New("converted amount overflows")
)

// TokenAmount converts a fiat amount to token units at rate.
// Fiat and token amounts share the same 6-decimal scale; rate is fiat per
// token with RateDecimals decimals:
//
//	amount_token = floor(amount_fiat × 10^8 / rate)
func TokenAmount(amountFiat, rate uint64) (uint64, error) {
	if rate == 0 {
		return 0, ErrZeroRate
	}

	num := new(big.Int).Mul(new(big.Int).SetUint64(amountFiat), new(big.Int).SetUint64(RateScale))
	quot := num.Quo(num, new(big.Int).SetUint64(rate))
	if !quot.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return quot.Uint64(), nil
}
