package token

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrUnauthorized        = errors.New("caller is not an admin")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrCooldownActive      = errors.New("faucet cooldown active")
	ErrPaused              = errors.New("token is paused")
	ErrNotPaused           = errors.New("token is not paused")
	ErrSupplyCapExceeded   = errors.New("supply cap exceeded")

	// ErrInvariantViolated is returned by Audit when Σ balances drifts from
	// the total supply or either exceeds the cap.
	ErrInvariantViolated = errors.New("ledger invariant violated")
)
