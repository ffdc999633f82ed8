package main

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/henrysammarfo/tapngo/internal/auth"
	"github.com/henrysammarfo/tapngo/internal/config"
	"github.com/henrysammarfo/tapngo/internal/storage/sqlite"
	"github.com/henrysammarfo/tapngo/internal/token"
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check that total supply matches the sum of balances",
		Long: `Recompute the sum of all balances and compare it with the recorded
total supply and the supply cap. Exits non-zero when they disagree.`,
		RunE: runAudit,
	}

	cmd.Flags().String("db", "", "Database path (overrides config)")
	cmd.Flags().IntP("top", "n", 10, "Number of largest holders to list")

	return cmd
}

func runAudit(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		dbPath = cfg.DB.Path
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	// read-only: no admins are needed
	ledger := token.NewLedger(store, auth.NewAdminSet())
	rec, auditErr := ledger.Audit(cmd.Context())
	if auditErr != nil && !errors.Is(auditErr, token.ErrInvariantViolated) {
		return auditErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Ledger Audit")
	fmt.Fprintln(out, strings.Repeat("=", 40))
	fmt.Fprintf(out, "  Database:     %s\n", dbPath)
	fmt.Fprintf(out, "  Total supply: %s\n", formatTokens(rec.TotalSupply))
	fmt.Fprintf(out, "  Balances sum: %s\n", decimal.NewFromBigInt(rec.Sum, -token.Decimals).StringFixed(token.Decimals))
	fmt.Fprintf(out, "  Max supply:   %s\n", formatTokens(rec.MaxSupply))
	fmt.Fprintf(out, "  Holders:      %d\n", len(rec.Holders))

	top, _ := cmd.Flags().GetInt("top")
	if top > 0 && len(rec.Holders) > 0 {
		fmt.Fprintln(out, "\nLargest holders:")
		for i, h := range rec.Holders {
			if i == top {
				break
			}
			fmt.Fprintf(out, "  %s  %s\n", h.Address.Hex(), formatTokens(h.Amount))
		}
	}

	if auditErr != nil {
		fmt.Fprintln(out, "\nStatus: DRIFT")
		return auditErr
	}
	fmt.Fprintln(out, "\nStatus: OK")
	return nil
}

// formatTokens renders base units with the token's 6 decimals.
func formatTokens(units uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -token.Decimals).StringFixed(token.Decimals)
}
