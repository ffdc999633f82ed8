package token

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/events"
	"github.com/henrysammarfo/tapngo/internal/metrics"
	"github.com/henrysammarfo/tapngo/internal/storage"
)

// Mint creates amount tokens in the account of to. Admin only; allowed
// while paused.
func (l *Ledger) Mint(ctx context.Context, caller, to common.Address, amount uint64) error {
	if !l.admins.IsAdmin(caller) {
		return ErrUnauthorized
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	if to == (common.Address{}) {
		return ErrInvalidAddress
	}
	if amount > MaxSupply {
		return ErrSupplyCapExceeded
	}

	unlock := l.locks.Lock(accountKey(to), supplyKey)
	defer unlock()

	supply, err := l.issue(ctx, to, amount, nil)
	if err != nil {
		return err
	}

	metrics.TokenSupply.Set(float64(supply))
	l.events.Publish(events.New(events.TokenMinted, map[string]any{
		"amount": strconv.FormatUint(amount, 10),
		"by":     caller.Hex(),
	}, to))
	slog.Info("Tokens minted", "to", to.Hex(), "amount", amount, "by", caller.Hex())
	return nil
}

// Burn destroys amount tokens held by from. Admin only; allowed while paused.
func (l *Ledger) Burn(ctx context.Context, caller, from common.Address, amount uint64) error {
	if !l.admins.IsAdmin(caller) {
		return ErrUnauthorized
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	if from == (common.Address{}) {
		return ErrInvalidAddress
	}

	unlock := l.locks.Lock(accountKey(from), supplyKey)
	defer unlock()

	var supply uint64
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		bal, err := tx.Balance(ctx, from)
		if err != nil {
			return err
		}
		if bal < amount {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, bal, amount)
		}
		current, err := readSupply(ctx, tx)
		if err != nil {
			return err
		}
		supply = current - amount
		if err := tx.SetBalance(ctx, from, bal-amount); err != nil {
			return err
		}
		return writeSupply(ctx, tx, supply)
	})
	if err != nil {
		return err
	}

	metrics.TokenSupply.Set(float64(supply))
	l.events.Publish(events.New(events.TokenBurned, map[string]any{
		"amount": strconv.FormatUint(amount, 10),
		"by":     caller.Hex(),
	}, from))
	slog.Info("Tokens burned", "from", from.Hex(), "amount", amount, "by", caller.Hex())
	return nil
}

// ClaimFaucet credits FaucetAmount to caller at most once per FaucetCooldown.
func (l *Ledger) ClaimFaucet(ctx context.Context, caller common.Address) error {
	if caller == (common.Address{}) {
		return ErrInvalidAddress
	}

	unlock := l.locks.Lock(accountKey(caller), supplyKey)
	defer unlock()

	now := l.now()
	supply, err := l.issue(ctx, caller, FaucetAmount, func(tx storage.Tx) error {
		paused, err := readPaused(ctx, tx)
		if err != nil {
			return err
		}
		if paused {
			return ErrPaused
		}

		last, ok, err := tx.LastFaucetClaim(ctx, caller)
		if err != nil {
			return err
		}
		if ok {
			if remaining := cooldownRemaining(last, now); remaining > 0 {
				return fmt.Errorf("%w: next claim in %s", ErrCooldownActive, remaining.Round(time.Second))
			}
		}
		return tx.SetFaucetClaim(ctx, caller, now)
	})
	if err != nil {
		return err
	}

	metrics.FaucetClaims.Inc()
	metrics.TokenSupply.Set(float64(supply))
	l.events.Publish(events.New(events.TokenFaucetClaimed, map[string]any{
		"amount": strconv.FormatUint(FaucetAmount, 10),
	}, caller))
	slog.Info("Faucet claimed", "address", caller.Hex(), "amount", FaucetAmount)
	return nil
}

// CanClaimFaucet reports whether addr may claim now and, if not, how long
// until it may.
func (l *Ledger) CanClaimFaucet(ctx context.Context, addr common.Address) (bool, time.Duration, error) {
	last, ok, err := l.store.LastFaucetClaim(ctx, addr)
	if err != nil {
		return false, 0, err
	}
	if !ok {
		return true, 0, nil
	}
	remaining := cooldownRemaining(last, l.now())
	return remaining == 0, remaining, nil
}

// NextFaucetClaim returns when addr may next claim. A never-claimed address
// may claim now.
func (l *Ledger) NextFaucetClaim(ctx context.Context, addr common.Address) (time.Time, error) {
	last, ok, err := l.store.LastFaucetClaim(ctx, addr)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return l.now(), nil
	}
	return last.Add(FaucetCooldown), nil
}

func cooldownRemaining(last, now time.Time) time.Duration {
	elapsed := now.Sub(last)
	if elapsed >= FaucetCooldown {
		return 0
	}
	return FaucetCooldown - elapsed
}

// issue credits amount to to and grows the supply, enforcing the cap.
// check runs first in the same transaction. Callers hold the locks.
func (l *Ledger) issue(ctx context.Context, to common.Address, amount uint64, check func(tx storage.Tx) error) (uint64, error) {
	var supply uint64
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		if check != nil {
			if err := check(tx); err != nil {
				return err
			}
		}

		current, err := readSupply(ctx, tx)
		if err != nil {
			return err
		}
		if amount > MaxSupply-current {
			return fmt.Errorf("%w: supply %d + %d > %d", ErrSupplyCapExceeded, current, amount, MaxSupply)
		}
		bal, err := tx.Balance(ctx, to)
		if err != nil {
			return err
		}
		if err := tx.SetBalance(ctx, to, bal+amount); err != nil {
			return err
		}
		supply = current + amount
		return writeSupply(ctx, tx, supply)
	})
	return supply, err
}
