package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/calculator"
	"github.com/henrysammarfo/tapngo/internal/events"
	"github.com/henrysammarfo/tapngo/internal/metrics"
	"github.com/henrysammarfo/tapngo/internal/models"
	"github.com/henrysammarfo/tapngo/internal/storage"
	"github.com/henrysammarfo/tapngo/internal/token"
)

// CompletePayment settles a pending order: the payer is debited the frozen
// token amount, the recipient and fee recipient are credited, the order is
// marked completed and its receipt written, all in one transaction.
//
// Checks run in order: the order exists, is pending, has not expired,
// caller is its payer, and a vendor recipient is still eligible. Any ledger failure is returned as ErrSettlementFailed
// wrapping the cause, and the order stays pending.
func (r *Router) CompletePayment(ctx context.Context, id common.Hash, caller common.Address) (*models.Receipt, error) {
	// the fee comes from an external collaborator; read it before locking
	feeBps, feeErr := r.oracle.PlatformFeeBps(ctx)

	unlock := r.locks.Lock(orderKey(id))
	defer unlock()

	order, err := r.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderPending {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotPending, order.Status)
	}
	now := r.now().UTC()
	if order.ExpiredAt(now) {
		r.expire(ctx, order, now)
		return nil, ErrOrderExpired
	}
	if caller != order.Payer {
		return nil, ErrUnauthorized
	}
	if order.PaymentType == models.PaymentVendor {
		active, err := r.dir.IsActiveVendor(ctx, order.Recipient)
		if err != nil {
			return nil, fmt.Errorf("failed to check vendor: %w", err)
		}
		if !active {
			return nil, fmt.Errorf("%w: %s", ErrVendorNotEligible, order.Recipient.Hex())
		}
	}

	if feeErr != nil {
		return nil, fmt.Errorf("failed to read platform fee: %w", feeErr)
	}
	split, err := calculator.SplitFee(order.AmountToken, feeBps)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bps", ErrInvalidFee, feeBps)
	}

	receipt := &models.Receipt{
		OrderID:             order.ID,
		RecipientIdentifier: order.RecipientIdentifier,
		Sender:              order.Payer,
		Recipient:           order.Recipient,
		AmountFiat:          order.AmountFiat,
		AmountToken:         order.AmountToken,
		FXRate:              order.FXRate,
		PlatformFee:         split.PlatformFee,
		RecipientAmount:     split.RecipientAmount,
		FeeRecipient:        r.cfg.FeeRecipient,
		PaymentType:         order.PaymentType,
		Status:              models.OrderCompleted,
		Metadata:            order.Metadata,
		IsVendorPayment:     order.PaymentType == models.PaymentVendor,
		Timestamp:           now,
	}

	credits := []token.Credit{
		{To: order.Recipient, Amount: split.RecipientAmount},
		{To: r.cfg.FeeRecipient, Amount: split.PlatformFee},
	}
	err = r.ledger.Settle(ctx, order.ID.Hex(), order.Payer, credits, func(tx storage.Tx) error {
		ok, err := tx.UpdateOrderStatus(ctx, order.ID, models.OrderPending, models.OrderCompleted, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotPending
		}
		return tx.CreateReceipt(ctx, receipt)
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotPending) {
			return nil, err
		}
		metrics.PaymentsFailed.WithLabelValues(failureReason(err)).Inc()
		slog.Warn("Settlement failed", "order_id", order.ID.Hex(), "payer", order.Payer.Hex(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSettlementFailed, err)
	}

	metrics.PaymentsCompleted.WithLabelValues(string(order.PaymentType)).Inc()
	r.events.Publish(events.New(events.OrderCompleted, map[string]any{
		"order_id":         order.ID.Hex(),
		"amount_token":     strconv.FormatUint(receipt.AmountToken, 10),
		"platform_fee":     strconv.FormatUint(receipt.PlatformFee, 10),
		"recipient_amount": strconv.FormatUint(receipt.RecipientAmount, 10),
		"payment_type":     string(receipt.PaymentType),
	}, order.Payer, order.Recipient))
	slog.Info("Payment completed",
		"order_id", order.ID.Hex(),
		"payer", order.Payer.Hex(),
		"recipient", order.Recipient.Hex(),
		"amount_token", receipt.AmountToken,
		"platform_fee", receipt.PlatformFee,
	)
	return receipt, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, token.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, token.ErrPaused):
		return "paused"
	default:
		return "internal"
	}
}
