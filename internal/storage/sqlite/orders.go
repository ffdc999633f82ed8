package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/models"
	"github.com/henrysammarfo/tapngo/internal/storage"
)

const orderColumns = `order_id, payer, recipient, recipient_identifier, amount_fiat, amount_token,
	fx_rate, rate_source, payment_type, metadata, status, created_at, expires_at, updated_at`

// CreateOrder persists a new pending order.
func (s *queries) CreateOrder(ctx context.Context, order *models.Order) error {
	fiat, err := toInt64(order.AmountFiat)
	if err != nil {
		return err
	}
	tokens, err := toInt64(order.AmountToken)
	if err != nil {
		return err
	}
	rate, err := toInt64(order.FXRate)
	if err != nil {
		return err
	}

	_, err = s.q.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID.Hex(), order.Payer.Hex(), order.Recipient.Hex(), order.RecipientIdentifier,
		fiat, tokens, rate, order.RateSource, string(order.PaymentType), order.Metadata,
		string(order.Status), order.CreatedAt.UnixNano(), order.ExpiresAt.UnixNano(), order.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// GetOrder retrieves an order by ID.
func (s *queries) GetOrder(ctx context.Context, id common.Hash) (*models.Order, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE order_id = ?",
		id.Hex(),
	)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %s: %w", id.Hex(), storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// UpdateOrderStatus is a compare-and-set on the order status.
func (s *queries) UpdateOrderStatus(ctx context.Context, id common.Hash, from, to models.OrderStatus, at time.Time) (bool, error) {
	res, err := s.q.ExecContext(ctx,
		"UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ? AND status = ?",
		string(to), at.UnixNano(), id.Hex(), string(from),
	)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

func scanOrder(row *sql.Row) (*models.Order, error) {
	var (
		o                               models.Order
		id, payer, recipient            string
		paymentType, status             string
		fiat, tokens, rate              int64
		createdAt, expiresAt, updatedAt int64
	)
	err := row.Scan(&id, &payer, &recipient, &o.RecipientIdentifier, &fiat, &tokens,
		&rate, &o.RateSource, &paymentType, &o.Metadata, &status, &createdAt, &expiresAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	o.ID = common.HexToHash(id)
	o.Payer = common.HexToAddress(payer)
	o.Recipient = common.HexToAddress(recipient)
	o.AmountFiat = uint64(fiat)
	o.AmountToken = uint64(tokens)
	o.FXRate = uint64(rate)
	o.PaymentType = models.PaymentType(paymentType)
	o.Status = models.OrderStatus(status)
	o.CreatedAt = fromNanos(createdAt)
	o.ExpiresAt = fromNanos(expiresAt)
	o.UpdatedAt = fromNanos(updatedAt)
	return &o, nil
}
