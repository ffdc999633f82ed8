package token

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/events"
	"github.com/henrysammarfo/tapngo/internal/storage"
)

// Pause halts transfers and faucet claims. Fails with ErrPaused if already paused.
func (l *Ledger) Pause(ctx context.Context, caller common.Address) error {
	return l.setPaused(ctx, caller, true)
}

// Unpause resumes transfers. Fails with ErrNotPaused if not paused.
func (l *Ledger) Unpause(ctx context.Context, caller common.Address) error {
	return l.setPaused(ctx, caller, false)
}

func (l *Ledger) setPaused(ctx context.Context, caller common.Address, paused bool) error {
	if !l.admins.IsAdmin(caller) {
		return ErrUnauthorized
	}

	unlock := l.locks.Lock(stateKey)
	defer unlock()

	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		current, err := readPaused(ctx, tx)
		if err != nil {
			return err
		}
		switch {
		case paused && current:
			return ErrPaused
		case !paused && !current:
			return ErrNotPaused
		}
		return tx.SetLedgerState(ctx, storage.StatePaused, strconv.FormatBool(paused))
	})
	if err != nil {
		return err
	}

	typ := events.TokenUnpaused
	if paused {
		typ = events.TokenPaused
	}
	l.events.Publish(events.New(typ, map[string]any{"by": caller.Hex()}, caller))
	slog.Info("Token pause state changed", "paused", paused, "by", caller.Hex())
	return nil
}
