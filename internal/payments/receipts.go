package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/models"
	"github.com/henrysammarfo/tapngo/internal/storage"
)

// GetReceipt returns the receipt of a settled order.
func (r *Router) GetReceipt(ctx context.Context, orderID common.Hash) (*models.Receipt, error) {
	receipt, err := r.store.GetReceipt(ctx, orderID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrReceiptNotFound, orderID.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return receipt, nil
}

// PageBounds returns the offset and limit ListReceipts actually uses.
// A negative offset starts at zero, a non-positive limit uses
// DefaultPageSize, and limits are capped at MaxPageSize.
func PageBounds(offset, limit int) (int, int) {
	offset = max(offset, 0)
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return offset, min(limit, MaxPageSize)
}

// ListReceipts pages through the receipts addr sent or received, oldest
// first, within PageBounds.
func (r *Router) ListReceipts(ctx context.Context, addr common.Address, offset, limit int) ([]*models.Receipt, error) {
	offset, limit = PageBounds(offset, limit)

	receipts, err := r.store.ListReceiptsByAddress(ctx, addr, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, nil
}
