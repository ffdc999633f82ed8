package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestSplitFee(t *testing.T) {
	tests := []struct {
		name    string
		amount  uint64
		feeBps  uint16
		wantFee uint64
		wantNet uint64
		wantErr error
	}{
		{
			// 100 tokens at 1%
			name:    "one percent of a hundred tokens",
			amount:  100_000_000,
			feeBps:  100,
			wantFee: 1_000_000,
			wantNet: 99_000_000,
		},
		{
			name:    "zero fee",
			amount:  5_000_000,
			feeBps:  0,
			wantFee: 0,
			wantNet: 5_000_000,
		},
		{
			name:    "full fee",
			amount:  5_000_000,
			feeBps:  MaxFeeBps,
			wantFee: 5_000_000,
			wantNet: 0,
		},
		{
			// 99 × 100 / 10000 = 0.99, floored to 0
			name:    "sub-unit fee rounds down",
			amount:  99,
			feeBps:  100,
			wantFee: 0,
			wantNet: 99,
		},
		{
			// 12345 × 250 / 10000 = 308.625
			name:    "fractional fee rounds down",
			amount:  12_345,
			feeBps:  250,
			wantFee: 308,
			wantNet: 12_037,
		},
		{
			name:    "no overflow on huge amounts",
			amount:  math.MaxUint64,
			feeBps:  MaxFeeBps,
			wantFee: math.MaxUint64,
			wantNet: 0,
		},
		{
			name:    "fee above 100 percent rejected",
			amount:  1_000,
			feeBps:  MaxFeeBps + 1,
			wantErr: ErrFeeOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitFee(tt.amount, tt.feeBps)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SplitFee() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if got.PlatformFee != tt.wantFee {
				t.Errorf("PlatformFee = %d, want %d", got.PlatformFee, tt.wantFee)
			}
			if got.RecipientAmount != tt.wantNet {
				t.Errorf("RecipientAmount = %d, want %d", got.RecipientAmount, tt.wantNet)
			}
			if got.PlatformFee+got.RecipientAmount != tt.amount {
				t.Errorf("split does not add up: %d + %d != %d", got.PlatformFee, got.RecipientAmount, tt.amount)
			}
		})
	}
}

func TestTokenAmount(t *testing.T) {
	tests := []struct {
		name       string
		amountFiat uint64
		rate       uint64
		want       uint64
		wantErr    error
	}{
		{
			name:       "parity rate",
			amountFiat: 100_000_000,
			rate:       RateScale,
			want:       100_000_000,
		},
		{
			// 1.50 fiat per token: 3 fiat buys 2 tokens
			name:       "fiat stronger than token",
			amountFiat: 3_000_000,
			rate:       150_000_000,
			want:       2_000_000,
		},
		{
			// 1 / 3 = 0.333333|33..., the tail is dropped
			name:       "repeating fraction rounds down",
			amountFiat: 1_000_000,
			rate:       300_000_000,
			want:       333_333,
		},
		{
			// 1.0002 per token: 1_000_000 × 1e8 / 100_020_000 = 999_800.03...
			name:       "rate just above parity",
			amountFiat: 1_000_000,
			rate:       100_020_000,
			want:       999_800,
		},
		{
			name:       "dust converts to zero",
			amountFiat: 1,
			rate:       200_000_000,
			want:       0,
		},
		{
			name:       "zero rate rejected",
			amountFiat: 1_000_000,
			rate:       0,
			wantErr:    ErrZeroRate,
		},
		{
			name:       "overflow rejected",
			amountFiat: math.MaxUint64,
			rate:       1,
			wantErr:    ErrAmountOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokenAmount(tt.amountFiat, tt.rate)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("TokenAmount() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("TokenAmount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReconcileSupply(t *testing.T) {
	a := common.HexToAddress("0x0000000000000000000000000000000000000001")
	b := common.HexToAddress("0x0000000000000000000000000000000000000002")
	c := common.HexToAddress("0x0000000000000000000000000000000000000003")

	t.Run("balanced ledger", func(t *testing.T) {
		r := ReconcileSupply(map[common.Address]uint64{a: 10, b: 30, c: 10}, 50, 100)
		if !r.Balanced() || !r.WithinCap() {
			t.Errorf("expected balanced ledger within cap, sum=%s", r.Sum)
		}
		if len(r.Holders) != 3 {
			t.Fatalf("expected 3 holders, got %d", len(r.Holders))
		}
		// b holds the most; a and c tie and sort by address
		want := []common.Address{b, a, c}
		for i, h := range r.Holders {
			if h.Address != want[i] {
				t.Errorf("holder %d = %s, want %s", i, h.Address.Hex(), want[i].Hex())
			}
		}
	})

	t.Run("zero balances are not holders", func(t *testing.T) {
		r := ReconcileSupply(map[common.Address]uint64{a: 0, b: 5}, 5, 100)
		if len(r.Holders) != 1 {
			t.Errorf("expected 1 holder, got %d", len(r.Holders))
		}
	})

	t.Run("drift is detected", func(t *testing.T) {
		r := ReconcileSupply(map[common.Address]uint64{a: 10}, 11, 100)
		if r.Balanced() {
			t.Error("expected drift to be reported")
		}
	})

	t.Run("sum beyond uint64 does not wrap", func(t *testing.T) {
		r := ReconcileSupply(map[common.Address]uint64{a: math.MaxUint64, b: 1}, 0, math.MaxUint64)
		if r.Balanced() || r.WithinCap() {
			t.Error("expected overflowing sum to be unbalanced and over cap")
		}
	})

	t.Run("supply above cap", func(t *testing.T) {
		r := ReconcileSupply(map[common.Address]uint64{a: 200}, 200, 100)
		if !r.Balanced() || r.WithinCap() {
			t.Error("expected balanced ledger over cap")
		}
	})
}
