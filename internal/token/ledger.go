// Package token implements the capped, pausable token ledger.
//
// All balance mutations go through a Ledger. Each operation locks the
// accounts it touches (plus the supply for issuance) before opening its
// database transaction, and publishes its event only after commit.
package token

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/calculator"
	"github.com/henrysammarfo/tapngo/internal/events"
	"github.com/henrysammarfo/tapngo/internal/keylock"
	"github.com/henrysammarfo/tapngo/internal/metrics"
	"github.com/henrysammarfo/tapngo/internal/storage"
)

const (
	// Decimals is the fixed-point scale of token amounts.
	Decimals = 6

	// Unit is one whole token in base units.
	Unit uint64 = 1_000_000

	MaxSupply      uint64 = 1_000_000_000 * Unit
	FaucetAmount   uint64 = 1_000 * Unit
	FaucetCooldown        = 24 * time.Hour
)

const (
	supplyKey = "supply"
	stateKey  = "state"
)

// Authorizer decides who holds the admin capability.
type Authorizer interface {
	IsAdmin(addr common.Address) bool
}

// Ledger is the token ledger.
type Ledger struct {
	store  storage.Store
	admins Authorizer
	locks  *keylock.Locker
	events events.Publisher
	now    func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for faucet cooldowns.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithPublisher sets where ledger events go.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.events = p }
}

// NewLedger creates a ledger over store.
func NewLedger(store storage.Store, admins Authorizer, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		admins: admins,
		locks:  keylock.New(),
		events: events.Discard,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func accountKey(addr common.Address) string {
	return "acct:" + addr.Hex()
}

// BalanceOf returns the balance of addr.
func (l *Ledger) BalanceOf(ctx context.Context, addr common.Address) (uint64, error) {
	return l.store.Balance(ctx, addr)
}

// TotalSupply returns the number of tokens in existence.
func (l *Ledger) TotalSupply(ctx context.Context) (uint64, error) {
	return readSupply(ctx, l.store)
}

// Paused reports whether transfers and faucet claims are halted.
func (l *Ledger) Paused(ctx context.Context) (bool, error) {
	return readPaused(ctx, l.store)
}

// Bootstrap mints initialSupply to owner the first time it runs and records
// that genesis happened. Later calls report applied=false and change nothing.
func (l *Ledger) Bootstrap(ctx context.Context, owner common.Address, initialSupply uint64) (applied bool, err error) {
	if owner == (common.Address{}) {
		return false, ErrInvalidAddress
	}
	if initialSupply > MaxSupply {
		return false, ErrSupplyCapExceeded
	}

	unlock := l.locks.Lock(accountKey(owner), supplyKey)
	defer unlock()

	var supply uint64
	err = l.store.InTx(ctx, func(tx storage.Tx) error {
		if _, done, err := tx.LedgerState(ctx, storage.StateGenesis); err != nil || done {
			return err
		}

		current, err := readSupply(ctx, tx)
		if err != nil {
			return err
		}
		supply = current
		if initialSupply > 0 {
			if supply+initialSupply > MaxSupply {
				return ErrSupplyCapExceeded
			}
			bal, err := tx.Balance(ctx, owner)
			if err != nil {
				return err
			}
			if err := tx.SetBalance(ctx, owner, bal+initialSupply); err != nil {
				return err
			}
			supply += initialSupply
			if err := writeSupply(ctx, tx, supply); err != nil {
				return err
			}
		}
		applied = true
		return tx.SetLedgerState(ctx, storage.StateGenesis, owner.Hex())
	})
	if err != nil {
		return false, err
	}

	if applied {
		metrics.TokenSupply.Set(float64(supply))
		if initialSupply > 0 {
			l.events.Publish(events.New(events.TokenMinted, map[string]any{
				"amount":  strconv.FormatUint(initialSupply, 10),
				"genesis": true,
			}, owner))
		}
		slog.Info("Ledger bootstrapped", "owner", owner.Hex(), "initial_supply", initialSupply)
	} else {
		// refresh the gauge after a restart
		if supply, err := l.TotalSupply(ctx); err == nil {
			metrics.TokenSupply.Set(float64(supply))
		}
	}
	return applied, nil
}

// Audit reconciles Σ balances with the recorded total supply and the cap.
// It returns ErrInvariantViolated along with the report when they disagree.
func (l *Ledger) Audit(ctx context.Context) (calculator.Reconciliation, error) {
	var r calculator.Reconciliation
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		balances, err := tx.Balances(ctx)
		if err != nil {
			return err
		}
		supply, err := readSupply(ctx, tx)
		if err != nil {
			return err
		}
		r = calculator.ReconcileSupply(balances, supply, MaxSupply)
		return nil
	})
	if err != nil {
		return r, fmt.Errorf("failed to audit ledger: %w", err)
	}

	if !r.Balanced() || !r.WithinCap() {
		return r, fmt.Errorf("%w: supply %d, balances sum %s, cap %d",
			ErrInvariantViolated, r.TotalSupply, r.Sum, r.MaxSupply)
	}
	return r, nil
}

func readSupply(ctx context.Context, r storage.Reader) (uint64, error) {
	v, ok, err := r.LedgerState(ctx, storage.StateTotalSupply)
	if err != nil || !ok {
		return 0, err
	}
	supply, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse total supply %q: %w", v, err)
	}
	return supply, nil
}

func writeSupply(ctx context.Context, tx storage.Tx, supply uint64) error {
	return tx.SetLedgerState(ctx, storage.StateTotalSupply, strconv.FormatUint(supply, 10))
}

func readPaused(ctx context.Context, r storage.Reader) (bool, error) {
	v, ok, err := r.LedgerState(ctx, storage.StatePaused)
	if err != nil || !ok {
		return false, err
	}
	return v == "true", nil
}
