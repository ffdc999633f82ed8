package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Balance returns the token balance held by addr.
func (s *queries) Balance(ctx context.Context, addr common.Address) (uint64, error) {
	var amount int64
	err := s.q.QueryRowContext(ctx,
		"SELECT amount FROM balances WHERE address = ?",
		addr.Hex(),
	).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return uint64(amount), nil
}

// Balances returns every address with a non-zero balance.
func (s *queries) Balances(ctx context.Context) (map[common.Address]uint64, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT address, amount FROM balances WHERE amount > 0")
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[common.Address]uint64)
	for rows.Next() {
		var (
			addr   string
			amount int64
		)
		if err := rows.Scan(&addr, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances[common.HexToAddress(addr)] = uint64(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}
	return balances, nil
}

// SetBalance writes the balance of addr. A zero balance removes the row.
func (s *queries) SetBalance(ctx context.Context, addr common.Address, amount uint64) error {
	if amount == 0 {
		if _, err := s.q.ExecContext(ctx, "DELETE FROM balances WHERE address = ?", addr.Hex()); err != nil {
			return fmt.Errorf("failed to clear balance: %w", err)
		}
		return nil
	}

	v, err := toInt64(amount)
	if err != nil {
		return err
	}
	_, err = s.q.ExecContext(ctx,
		`INSERT INTO balances (address, amount) VALUES (?, ?)
		 ON CONFLICT(address) DO UPDATE SET amount = excluded.amount`,
		addr.Hex(), v,
	)
	if err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	return nil
}

// LedgerState reads a ledger-wide value such as total supply or the pause flag.
func (s *queries) LedgerState(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.q.QueryRowContext(ctx, "SELECT value FROM ledger_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get ledger state %q: %w", key, err)
	}
	return value, true, nil
}

func (s *queries) SetLedgerState(ctx context.Context, key, value string) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO ledger_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set ledger state %q: %w", key, err)
	}
	return nil
}

// LastFaucetClaim returns when addr last claimed. ok is false if it never has.
func (s *queries) LastFaucetClaim(ctx context.Context, addr common.Address) (time.Time, bool, error) {
	var at int64
	err := s.q.QueryRowContext(ctx,
		"SELECT claimed_at FROM faucet_claims WHERE address = ?",
		addr.Hex(),
	).Scan(&at)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get faucet claim: %w", err)
	}
	return fromNanos(at), true, nil
}

func (s *queries) SetFaucetClaim(ctx context.Context, addr common.Address, at time.Time) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO faucet_claims (address, claimed_at) VALUES (?, ?)
		 ON CONFLICT(address) DO UPDATE SET claimed_at = excluded.claimed_at`,
		addr.Hex(), at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record faucet claim: %w", err)
	}
	return nil
}
