// Package models defines the core domain models for the TapNGo settlement core.
//
// # Models
//
//   - Order: a reserved, not-yet-settled payment intent with a frozen token amount
//   - Receipt: the immutable record written when an Order settles
//   - Vendor: a merchant recipient eligible for VendorPay orders
//
// Token balances are not modelled here; they live behind the token ledger and are
// only reachable through its operations.
//
// # Amounts
//
// All amounts are unsigned fixed-point integers with 6 decimal places, stored as
// uint64 base units (1 token = 1_000_000 units). Fiat amounts use the same scale.
// Exchange rates use 8 decimal places (see calculator.RateDecimals).
//
// # Identifiers
//
// Addresses are EVM-style 20-byte addresses (common.Address) and are persisted in
// their EIP-55 checksummed form. Order IDs are 32-byte Keccak-256 hashes.
package models
