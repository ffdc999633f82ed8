package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/models"
	"github.com/henrysammarfo/tapngo/internal/storage"
)

// CreateVendor inserts a new vendor into the database.
func (s *queries) CreateVendor(ctx context.Context, v *models.Vendor) error {
	query := `
		INSERT INTO vendors (address, identifier, verified, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.q.ExecContext(ctx, query,
		v.Address.Hex(),
		v.Identifier,
		v.Verified,
		v.Active,
		v.CreatedAt.UnixNano(),
		v.UpdatedAt.UnixNano(),
	)

	if err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}

	return nil
}

// UpdateVendor overwrites the flags of an existing vendor.
func (s *queries) UpdateVendor(ctx context.Context, v *models.Vendor) error {
	query := `
		UPDATE vendors
		SET verified = ?, active = ?, updated_at = ?
		WHERE address = ?
	`

	res, err := s.q.ExecContext(ctx, query, v.Verified, v.Active, v.UpdatedAt.UnixNano(), v.Address.Hex())
	if err != nil {
		return fmt.Errorf("failed to update vendor: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("vendor %s: %w", v.Address.Hex(), storage.ErrNotFound)
	}

	return nil
}

// GetVendor retrieves a vendor by address.
func (s *queries) GetVendor(ctx context.Context, addr common.Address) (*models.Vendor, error) {
	query := `
		SELECT address, identifier, verified, active, created_at, updated_at
		FROM vendors
		WHERE address = ?
	`

	v, err := scanVendor(s.q.QueryRowContext(ctx, query, addr.Hex()))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("vendor %s: %w", addr.Hex(), storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	return v, nil
}

// GetVendorByIdentifier retrieves a vendor by its lowercased identifier.
func (s *queries) GetVendorByIdentifier(ctx context.Context, identifier string) (*models.Vendor, error) {
	query := `
		SELECT address, identifier, verified, active, created_at, updated_at
		FROM vendors
		WHERE identifier = ?
	`

	v, err := scanVendor(s.q.QueryRowContext(ctx, query, identifier))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("vendor %q: %w", identifier, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor by identifier: %w", err)
	}

	return v, nil
}

func scanVendor(row rowScanner) (*models.Vendor, error) {
	var (
		v                    models.Vendor
		addr                 string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&addr, &v.Identifier, &v.Verified, &v.Active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	v.Address = common.HexToAddress(addr)
	v.CreatedAt = fromNanos(createdAt)
	v.UpdatedAt = fromNanos(updatedAt)
	return &v, nil
}
