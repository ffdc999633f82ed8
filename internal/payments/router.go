// Package payments implements the two-phase payment router: orders are
// quoted and frozen at creation, then settled exactly once against the
// token ledger.
package payments

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/directory"
	"github.com/henrysammarfo/tapngo/internal/events"
	"github.com/henrysammarfo/tapngo/internal/keylock"
	"github.com/henrysammarfo/tapngo/internal/oracle"
	"github.com/henrysammarfo/tapngo/internal/storage"
	"github.com/henrysammarfo/tapngo/internal/token"
)

const (
	DefaultOrderTTL   = 15 * time.Minute
	DefaultMaxRateAge = 5 * time.Minute

	// MaxMetadataLength bounds order metadata in bytes.
	MaxMetadataLength = 256

	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Directory resolves recipients.
type Directory interface {
	Resolve(ctx context.Context, identifier string) (directory.Recipient, error)
	IsActiveVendor(ctx context.Context, addr common.Address) (bool, error)
}

// Ledger settles orders atomically.
type Ledger interface {
	Settle(ctx context.Context, ref string, payer common.Address, credits []token.Credit, commit func(tx storage.Tx) error) error
}

// Config holds router policy.
type Config struct {
	// FeeRecipient receives the platform fee of every settlement.
	FeeRecipient common.Address

	// OrderTTL is how long an order may wait for completion.
	OrderTTL time.Duration

	// MaxRateAge rejects older oracle rates. Zero disables the check.
	MaxRateAge time.Duration
}

// Router is the payment router.
type Router struct {
	store  storage.Store
	ledger Ledger
	oracle oracle.Source
	dir    Directory
	cfg    Config
	locks  *keylock.Locker
	events events.Publisher
	now    func() time.Time
}

// Option configures a Router.
type Option func(*Router)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// WithPublisher sets where order events go.
func WithPublisher(p events.Publisher) Option {
	return func(r *Router) { r.events = p }
}

// NewRouter wires a router. It fails if no fee recipient is configured.
func NewRouter(store storage.Store, ledger Ledger, rates oracle.Source, dir Directory, cfg Config, opts ...Option) (*Router, error) {
	if cfg.FeeRecipient == (common.Address{}) {
		return nil, errors.New("fee recipient is required")
	}
	if cfg.OrderTTL <= 0 {
		cfg.OrderTTL = DefaultOrderTTL
	}

	r := &Router{
		store:  store,
		ledger: ledger,
		oracle: rates,
		dir:    dir,
		cfg:    cfg,
		locks:  keylock.New(),
		events: events.Discard,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func orderKey(id common.Hash) string {
	return "order:" + id.Hex()
}
