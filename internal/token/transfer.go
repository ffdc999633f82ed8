package token

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/events"
	"github.com/henrysammarfo/tapngo/internal/storage"
)

// Credit is one leg of a settlement.
type Credit struct {
	To     common.Address
	Amount uint64
}

// Transfer moves amount from one account to another.
func (l *Ledger) Transfer(ctx context.Context, from, to common.Address, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if to == (common.Address{}) {
		return ErrInvalidAddress
	}
	return l.Settle(ctx, "", from, []Credit{{To: to, Amount: amount}}, nil)
}

// Settle debits payer by the sum of credits, applies every credit and then
// runs commit, all in one transaction. Either every write lands or none
// does. Zero-amount credits are skipped. ref tags the emitted events.
func (l *Ledger) Settle(ctx context.Context, ref string, payer common.Address, credits []Credit, commit func(tx storage.Tx) error) error {
	if payer == (common.Address{}) {
		return ErrInvalidAddress
	}

	var total uint64
	keys := []string{accountKey(payer)}
	legs := make([]Credit, 0, len(credits))
	for _, c := range credits {
		if c.Amount == 0 {
			continue
		}
		if c.To == (common.Address{}) {
			return ErrInvalidAddress
		}
		if c.Amount > MaxSupply-total {
			return fmt.Errorf("%w: settlement exceeds supply cap", ErrInvalidAmount)
		}
		total += c.Amount
		legs = append(legs, c)
		keys = append(keys, accountKey(c.To))
	}

	unlock := l.locks.Lock(keys...)
	defer unlock()

	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		paused, err := readPaused(ctx, tx)
		if err != nil {
			return err
		}
		if paused {
			return ErrPaused
		}

		balances := make(map[common.Address]uint64, len(legs)+1)
		balance := func(addr common.Address) (uint64, error) {
			if v, ok := balances[addr]; ok {
				return v, nil
			}
			v, err := tx.Balance(ctx, addr)
			if err != nil {
				return 0, err
			}
			balances[addr] = v
			return v, nil
		}

		bal, err := balance(payer)
		if err != nil {
			return err
		}
		if bal < total {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, bal, total)
		}
		balances[payer] = bal - total

		for _, c := range legs {
			v, err := balance(c.To)
			if err != nil {
				return err
			}
			balances[c.To] = v + c.Amount
		}
		for addr, v := range balances {
			if err := tx.SetBalance(ctx, addr, v); err != nil {
				return err
			}
		}

		if commit != nil {
			return commit(tx)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, c := range legs {
		data := map[string]any{
			"from":   payer.Hex(),
			"to":     c.To.Hex(),
			"amount": strconv.FormatUint(c.Amount, 10),
		}
		if ref != "" {
			data["ref"] = ref
		}
		l.events.Publish(events.New(events.TokenTransferred, data, payer, c.To))
	}
	slog.Debug("Tokens transferred", "from", payer.Hex(), "total", total, "legs", len(legs), "ref", ref)
	return nil
}
