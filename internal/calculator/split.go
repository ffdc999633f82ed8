package calculator

import (
	"errors"
	"math/big"
)

// MaxFeeBps is 100% expressed in basis points.
const MaxFeeBps = 10_000

// ErrFeeOutOfRange is returned for fee configurations above MaxFeeBps.
var ErrFeeOutOfRange = errors.New("fee basis points out of range")

// FeeSplit is the division of an order's token amount between the
// recipient and the platform.
type FeeSplit struct {
	PlatformFee     uint64
	RecipientAmount uint64
}

// SplitFee computes the platform fee on amount and what is left for the recipient.
// Based on the rule: platform_fee = floor(amount × fee_bps / 10000)
// The fee never exceeds amount, so RecipientAmount + PlatformFee == amount.
func SplitFee(amount uint64, feeBps uint16) (FeeSplit, error) {
	if feeBps > MaxFeeBps {
		return FeeSplit{}, ErrFeeOutOfRange
	}

	// amount × bps can exceed uint64 for large amounts
	num := new(big.Int).Mul(new(big.Int).SetUint64(amount), big.NewInt(int64(feeBps)))
	fee := num.Quo(num, big.NewInt(MaxFeeBps)).Uint64()

	return FeeSplit{
		PlatformFee:     fee,
		RecipientAmount: amount - fee,
	}, nil
}
