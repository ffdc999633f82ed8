package calculator

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Holding is one address and the tokens it holds.
type Holding struct {
	Address common.Address
	Amount  uint64
}

// Reconciliation compares the recorded total supply with the balances that back it.
type Reconciliation struct {
	// Holders lists every non-zero balance, largest first, ties by address.
	Holders []Holding

	// Sum is Σ balances, unbounded.
	Sum *big.Int

	TotalSupply uint64
	MaxSupply   uint64
}

// Balanced reports whether Σ balances equals the recorded total supply.
func (r Reconciliation) Balanced() bool {
	return r.Sum.IsUint64() && r.Sum.Uint64() == r.TotalSupply
}

// WithinCap reports whether both the total supply and Σ balances respect MaxSupply.
func (r Reconciliation) WithinCap() bool {
	return r.TotalSupply <= r.MaxSupply && r.Sum.Cmp(new(big.Int).SetUint64(r.MaxSupply)) <= 0
}

// ReconcileSupply sums balances and sets them against totalSupply and maxSupply.
//
// Algorithm:
// - Drop zero balances (they are not holders)
// - Sum the rest without overflow
// - Order holders by amount descending, then by address
func ReconcileSupply(balances map[common.Address]uint64, totalSupply, maxSupply uint64) Reconciliation {
	r := Reconciliation{
		Sum:         new(big.Int),
		TotalSupply: totalSupply,
		MaxSupply:   maxSupply,
	}

	for addr, amount := range balances {
		if amount == 0 {
			continue
		}
		r.Holders = append(r.Holders, Holding{Address: addr, Amount: amount})
		r.Sum.Add(r.Sum, new(big.Int).SetUint64(amount))
	}

	sort.Slice(r.Holders, func(i, j int) bool {
		if r.Holders[i].Amount != r.Holders[j].Amount {
			return r.Holders[i].Amount > r.Holders[j].Amount
		}
		return r.Holders[i].Address.Cmp(r.Holders[j].Address) < 0
	})

	return r
}
