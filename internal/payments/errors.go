package payments

import "errors"

// Validation errors.
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidFee         = errors.New("invalid platform fee")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidMetadata    = errors.New("metadata too long")
	ErrInvalidPaymentType = errors.New("invalid payment type")
	ErrInvalidRecipient   = errors.New("invalid recipient")
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrReceiptNotFound    = errors.New("receipt not found")
	ErrOrderNotPending    = errors.New("order is not pending")
	ErrOrderExpired       = errors.New("order expired")
	ErrVendorNotEligible  = errors.New("vendor not eligible")
	ErrUnauthorized       = errors.New("caller is not the payer")
)

// Resource errors. ErrSettlementFailed wraps the ledger error that caused it.
var (
	ErrStaleRate        = errors.New("exchange rate is stale")
	ErrSettlementFailed = errors.New("settlement failed")
)
