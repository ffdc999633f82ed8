package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/models"
	"github.com/henrysammarfo/tapngo/internal/storage"
)

const receiptColumns = `order_id, recipient_identifier, sender, recipient, amount_fiat, amount_token,
	fx_rate, platform_fee, recipient_amount, fee_recipient, payment_type, status, metadata,
	is_vendor_payment, created_at`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CreateReceipt persists the receipt of a completed payment.
func (s *queries) CreateReceipt(ctx context.Context, r *models.Receipt) error {
	var vals [5]int64
	for i, v := range []uint64{r.AmountFiat, r.AmountToken, r.FXRate, r.PlatformFee, r.RecipientAmount} {
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		vals[i] = n
	}

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO receipts (`+receiptColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.OrderID.Hex(), r.RecipientIdentifier, r.Sender.Hex(), r.Recipient.Hex(),
		vals[0], vals[1], vals[2], vals[3], vals[4], r.FeeRecipient.Hex(),
		string(r.PaymentType), string(r.Status), r.Metadata, r.IsVendorPayment, r.Timestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}
	return nil
}

// GetReceipt retrieves the receipt for an order.
func (s *queries) GetReceipt(ctx context.Context, orderID common.Hash) (*models.Receipt, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+receiptColumns+" FROM receipts WHERE order_id = ?",
		orderID.Hex(),
	)

	r, err := scanReceipt(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("receipt %s: %w", orderID.Hex(), storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return r, nil
}

// ListReceiptsByAddress retrieves receipts sent or received by addr.
func (s *queries) ListReceiptsByAddress(ctx context.Context, addr common.Address, offset, limit int) ([]*models.Receipt, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+receiptColumns+` FROM receipts
		 WHERE sender = ? OR recipient = ?
		 ORDER BY created_at ASC, order_id ASC
		 LIMIT ? OFFSET ?`,
		addr.Hex(), addr.Hex(), limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}

	return receipts, nil
}

func scanReceipt(row rowScanner) (*models.Receipt, error) {
	var (
		r                                   models.Receipt
		orderID, sender, recipient, feeRcpt string
		paymentType, status                 string
		fiat, tokens, rate, fee, net, ts    int64
	)
	err := row.Scan(&orderID, &r.RecipientIdentifier, &sender, &recipient, &fiat, &tokens,
		&rate, &fee, &net, &feeRcpt, &paymentType, &status, &r.Metadata, &r.IsVendorPayment, &ts)
	if err != nil {
		return nil, err
	}

	r.OrderID = common.HexToHash(orderID)
	r.Sender = common.HexToAddress(sender)
	r.Recipient = common.HexToAddress(recipient)
	r.FeeRecipient = common.HexToAddress(feeRcpt)
	r.AmountFiat = uint64(fiat)
	r.AmountToken = uint64(tokens)
	r.FXRate = uint64(rate)
	r.PlatformFee = uint64(fee)
	r.RecipientAmount = uint64(net)
	r.PaymentType = models.PaymentType(paymentType)
	r.Status = models.OrderStatus(status)
	r.Timestamp = fromNanos(ts)
	return &r, nil
}
