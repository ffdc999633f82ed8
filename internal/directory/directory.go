// Package directory resolves payment recipients and keeps the vendor registry.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/events"
	"github.com/henrysammarfo/tapngo/internal/models"
	"github.com/henrysammarfo/tapngo/internal/storage"
)

var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrVendorNotFound    = errors.New("vendor not found")
	ErrVendorExists      = errors.New("vendor already registered")
	ErrIdentifierTaken   = errors.New("identifier already taken")
	ErrInvalidIdentifier = errors.New("invalid vendor identifier")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrUnauthorized      = errors.New("caller is not an admin")
)

// identifierPattern accepts names such as "coffee.tapngo.eth" or "bobs-bakery".
var identifierPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{1,62}[a-z0-9]$`)

// Authorizer decides who may administer the registry.
type Authorizer interface {
	IsAdmin(addr common.Address) bool
}

// Recipient is a resolved payment target.
type Recipient struct {
	Address    common.Address
	Identifier string
	IsVendor   bool
}

// Directory resolves identifiers against the vendor registry.
type Directory struct {
	store  storage.Store
	admins Authorizer
	events events.Publisher
	now    func() time.Time
}

// New creates a directory. A nil publisher discards events.
func New(store storage.Store, admins Authorizer, publisher events.Publisher) *Directory {
	if publisher == nil {
		publisher = events.Discard
	}
	return &Directory{
		store:  store,
		admins: admins,
		events: publisher,
		now:    time.Now,
	}
}

// NormalizeIdentifier lowercases and trims a vendor name.
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// Resolve maps identifier to a recipient. Identifier is either a hex
// address, which always resolves, or a registered vendor name, matched
// case-insensitively.
func (d *Directory) Resolve(ctx context.Context, identifier string) (Recipient, error) {
	raw := strings.TrimSpace(identifier)
	if raw == "" {
		return Recipient{}, ErrRecipientNotFound
	}

	if common.IsHexAddress(raw) {
		addr := common.HexToAddress(raw)
		if addr == (common.Address{}) {
			return Recipient{}, ErrRecipientNotFound
		}
		v, err := d.lookup(ctx, addr)
		if err != nil {
			return Recipient{}, err
		}
		return Recipient{Address: addr, Identifier: raw, IsVendor: v != nil}, nil
	}

	v, err := d.store.GetVendorByIdentifier(ctx, NormalizeIdentifier(raw))
	if errors.Is(err, storage.ErrNotFound) {
		return Recipient{}, fmt.Errorf("%w: %q", ErrRecipientNotFound, raw)
	}
	if err != nil {
		return Recipient{}, fmt.Errorf("failed to resolve recipient: %w", err)
	}
	return Recipient{Address: v.Address, Identifier: v.Identifier, IsVendor: true}, nil
}

// IsVendor reports whether addr is registered, regardless of status.
func (d *Directory) IsVendor(ctx context.Context, addr common.Address) (bool, error) {
	v, err := d.lookup(ctx, addr)
	return v != nil, err
}

// IsActiveVendor reports whether addr may receive vendor payments.
func (d *Directory) IsActiveVendor(ctx context.Context, addr common.Address) (bool, error) {
	v, err := d.lookup(ctx, addr)
	if err != nil || v == nil {
		return false, err
	}
	return v.Eligible(), nil
}

// Vendor returns the registry record of addr.
func (d *Directory) Vendor(ctx context.Context, addr common.Address) (*models.Vendor, error) {
	v, err := d.lookup(ctx, addr)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVendorNotFound
	}
	return v, nil
}

// Register adds a vendor. New vendors are active but unverified, so they
// cannot take vendor payments until an admin verifies them.
func (d *Directory) Register(ctx context.Context, caller, addr common.Address, identifier string) (*models.Vendor, error) {
	if !d.admins.IsAdmin(caller) {
		return nil, ErrUnauthorized
	}
	if addr == (common.Address{}) {
		return nil, ErrInvalidAddress
	}
	name := NormalizeIdentifier(identifier)
	if !identifierPattern.MatchString(name) || common.IsHexAddress(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, identifier)
	}

	now := d.now().UTC()
	v := &models.Vendor{
		Address:    addr,
		Identifier: name,
		Verified:   false,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := d.store.InTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetVendor(ctx, addr); err == nil {
			return ErrVendorExists
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if _, err := tx.GetVendorByIdentifier(ctx, name); err == nil {
			return ErrIdentifierTaken
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return tx.CreateVendor(ctx, v)
	})
	if err != nil {
		return nil, err
	}

	d.events.Publish(events.New(events.VendorRegistered, map[string]any{
		"identifier": v.Identifier,
	}, addr))
	slog.Info("Vendor registered", "address", addr.Hex(), "identifier", v.Identifier, "by", caller.Hex())
	return v, nil
}

// SetStatus updates the verified and active flags of a vendor.
func (d *Directory) SetStatus(ctx context.Context, caller, addr common.Address, verified, active bool) (*models.Vendor, error) {
	if !d.admins.IsAdmin(caller) {
		return nil, ErrUnauthorized
	}

	var v *models.Vendor
	err := d.store.InTx(ctx, func(tx storage.Tx) error {
		current, err := tx.GetVendor(ctx, addr)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrVendorNotFound
		}
		if err != nil {
			return err
		}
		current.Verified = verified
		current.Active = active
		current.UpdatedAt = d.now().UTC()
		v = current
		return tx.UpdateVendor(ctx, current)
	})
	if err != nil {
		return nil, err
	}

	d.events.Publish(events.New(events.VendorUpdated, map[string]any{
		"identifier": v.Identifier,
		"verified":   v.Verified,
		"active":     v.Active,
	}, addr))
	slog.Info("Vendor status updated", "address", addr.Hex(), "verified", verified, "active", active, "by", caller.Hex())
	return v, nil
}

// lookup returns nil without error when addr is not a vendor.
func (d *Directory) lookup(ctx context.Context, addr common.Address) (*models.Vendor, error) {
	v, err := d.store.GetVendor(ctx, addr)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up vendor: %w", err)
	}
	return v, nil
}
