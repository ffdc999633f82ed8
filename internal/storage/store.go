// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/models"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("record not found")

// Ledger state keys.
const (
	StateTotalSupply = "total_supply"
	StatePaused      = "paused"
	StateGenesis     = "genesis"
)

// Store defines the persistence operations of the settlement core.
// This abstraction allows swapping storage backends without changing the
// ledger or router code.
type Store interface {
	Reader

	// InTx runs fn inside one database transaction. The transaction commits
	// when fn returns nil and rolls back otherwise. fn must only use tx while
	// it runs.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// ExpirePending flips every pending order whose expiry is before now to
	// expired and returns their IDs.
	ExpirePending(ctx context.Context, now time.Time) ([]common.Hash, error)

	// Close releases any resources held by the store.
	Close() error
}

// Reader holds the read operations available both inside and outside a transaction.
type Reader interface {
	// Balance returns the balance of addr, zero if it has never held tokens.
	Balance(ctx context.Context, addr common.Address) (uint64, error)

	// Balances returns every non-zero balance.
	Balances(ctx context.Context) (map[common.Address]uint64, error)

	// LedgerState returns the raw value stored for key.
	LedgerState(ctx context.Context, key string) (string, bool, error)

	// LastFaucetClaim returns the time addr last claimed from the faucet.
	LastFaucetClaim(ctx context.Context, addr common.Address) (time.Time, bool, error)

	// GetOrder returns ErrNotFound if the order does not exist.
	GetOrder(ctx context.Context, id common.Hash) (*models.Order, error)

	// GetReceipt returns ErrNotFound if the order has not settled.
	GetReceipt(ctx context.Context, orderID common.Hash) (*models.Receipt, error)

	// ListReceiptsByAddress returns receipts where addr is sender or recipient,
	// oldest first, ties broken by order ID.
	ListReceiptsByAddress(ctx context.Context, addr common.Address, offset, limit int) ([]*models.Receipt, error)

	GetVendor(ctx context.Context, addr common.Address) (*models.Vendor, error)
	GetVendorByIdentifier(ctx context.Context, identifier string) (*models.Vendor, error)
}

// Tx is a unit of work. All writes go through a Tx.
type Tx interface {
	Reader

	SetBalance(ctx context.Context, addr common.Address, amount uint64) error
	SetLedgerState(ctx context.Context, key, value string) error
	SetFaucetClaim(ctx context.Context, addr common.Address, at time.Time) error

	CreateOrder(ctx context.Context, order *models.Order) error

	// UpdateOrderStatus moves an order from one status to another.
	// It reports false when the order was not in the from status.
	UpdateOrderStatus(ctx context.Context, id common.Hash, from, to models.OrderStatus, at time.Time) (bool, error)

	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	CreateVendor(ctx context.Context, vendor *models.Vendor) error
	UpdateVendor(ctx context.Context, vendor *models.Vendor) error
}
