package payments

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/henrysammarfo/tapngo/internal/directory"
	"github.com/henrysammarfo/tapngo/internal/events"
	"github.com/henrysammarfo/tapngo/internal/metrics"
	"github.com/henrysammarfo/tapngo/internal/models"
	"github.com/henrysammarfo/tapngo/internal/storage"
)

// CreateOrderParams describes a payment intent.
type CreateOrderParams struct {
	Payer               common.Address
	RecipientIdentifier string
	AmountFiat          uint64
	PaymentType         models.PaymentType
	Metadata            string
}

// CreateOrder validates the request, resolves the recipient, freezes the
// token amount at the current rate and persists a pending order. No tokens
// move.
func (r *Router) CreateOrder(ctx context.Context, p CreateOrderParams) (*models.Order, error) {
	if p.Payer == (common.Address{}) {
		return nil, ErrInvalidAddress
	}
	if p.AmountFiat == 0 {
		return nil, ErrInvalidAmount
	}
	if len(p.Metadata) > MaxMetadataLength {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrInvalidMetadata, len(p.Metadata), MaxMetadataLength)
	}
	if !p.PaymentType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentType, p.PaymentType)
	}

	recipient, err := r.dir.Resolve(ctx, p.RecipientIdentifier)
	if errors.Is(err, directory.ErrRecipientNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrRecipientNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}
	if recipient.Address == p.Payer {
		return nil, fmt.Errorf("%w: cannot pay yourself", ErrInvalidRecipient)
	}
	if p.PaymentType == models.PaymentVendor {
		active, err := r.dir.IsActiveVendor(ctx, recipient.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to check vendor: %w", err)
		}
		if !active {
			return nil, fmt.Errorf("%w: %s", ErrVendorNotEligible, recipient.Address.Hex())
		}
	}

	q, err := r.quote(ctx, p.AmountFiat)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	order := &models.Order{
		ID:                  orderID(p.Payer, recipient.Address, now),
		Payer:               p.Payer,
		Recipient:           recipient.Address,
		RecipientIdentifier: p.RecipientIdentifier,
		AmountFiat:          p.AmountFiat,
		AmountToken:         q.AmountToken,
		FXRate:              q.Rate.Value,
		RateSource:          q.Rate.Source,
		PaymentType:         p.PaymentType,
		Metadata:            p.Metadata,
		Status:              models.OrderPending,
		CreatedAt:           now,
		ExpiresAt:           now.Add(r.cfg.OrderTTL),
		UpdatedAt:           now,
	}

	if err := r.store.InTx(ctx, func(tx storage.Tx) error {
		return tx.CreateOrder(ctx, order)
	}); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrdersCreated.WithLabelValues(string(order.PaymentType)).Inc()
	r.events.Publish(events.New(events.OrderCreated, map[string]any{
		"order_id":     order.ID.Hex(),
		"amount_fiat":  strconv.FormatUint(order.AmountFiat, 10),
		"amount_token": strconv.FormatUint(order.AmountToken, 10),
		"payment_type": string(order.PaymentType),
		"expires_at":   order.ExpiresAt,
	}, order.Payer, order.Recipient))
	slog.Info("Order created",
		"order_id", order.ID.Hex(),
		"payer", order.Payer.Hex(),
		"recipient", order.Recipient.Hex(),
		"amount_token", order.AmountToken,
		"rate", q.Rate.String(),
	)
	return order, nil
}

// CancelOrder moves a pending order to cancelled. Only the payer may cancel.
func (r *Router) CancelOrder(ctx context.Context, id common.Hash, caller common.Address) (*models.Order, error) {
	unlock := r.locks.Lock(orderKey(id))
	defer unlock()

	order, err := r.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller != order.Payer {
		return nil, ErrUnauthorized
	}
	if order.Status != models.OrderPending {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotPending, order.Status)
	}
	now := r.now().UTC()
	if order.ExpiredAt(now) {
		r.expire(ctx, order, now)
		return nil, ErrOrderExpired
	}

	if err := r.transition(ctx, order, models.OrderCancelled, now); err != nil {
		return nil, err
	}

	metrics.OrdersCancelled.Inc()
	r.events.Publish(events.New(events.OrderCancelled, map[string]any{
		"order_id": order.ID.Hex(),
	}, order.Payer, order.Recipient))
	slog.Info("Order cancelled", "order_id", order.ID.Hex(), "payer", order.Payer.Hex())
	return order, nil
}

// GetOrder returns an order. A pending order past its expiry is flipped to
// expired on read.
func (r *Router) GetOrder(ctx context.Context, id common.Hash) (*models.Order, error) {
	order, err := r.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if now := r.now().UTC(); order.ExpiredAt(now) {
		r.expire(ctx, order, now)
		if order.Status == models.OrderPending {
			// another writer settled it first
			return r.loadOrder(ctx, id)
		}
	}
	return order, nil
}

// ExpireStale sweeps every overdue pending order to expired.
func (r *Router) ExpireStale(ctx context.Context) ([]common.Hash, error) {
	ids, err := r.store.ExpirePending(ctx, r.now().UTC())
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		r.events.Publish(events.New(events.OrderExpired, map[string]any{"order_id": id.Hex()}))
	}
	metrics.OrdersExpired.Add(float64(len(ids)))
	return ids, nil
}

func (r *Router) loadOrder(ctx context.Context, id common.Hash) (*models.Order, error) {
	order, err := r.store.GetOrder(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

// transition compare-and-sets a pending order to status and updates order in place.
func (r *Router) transition(ctx context.Context, order *models.Order, status models.OrderStatus, now time.Time) error {
	return r.store.InTx(ctx, func(tx storage.Tx) error {
		ok, err := tx.UpdateOrderStatus(ctx, order.ID, models.OrderPending, status, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotPending
		}
		order.Status = status
		order.UpdatedAt = now
		return nil
	})
}

// expire flips an overdue order. Losing the race to another writer is fine;
// the order is no longer pending either way.
func (r *Router) expire(ctx context.Context, order *models.Order, now time.Time) {
	err := r.transition(ctx, order, models.OrderExpired, now)
	switch {
	case err == nil:
		metrics.OrdersExpired.Inc()
		r.events.Publish(events.New(events.OrderExpired, map[string]any{
			"order_id": order.ID.Hex(),
		}, order.Payer, order.Recipient))
		slog.Info("Order expired", "order_id", order.ID.Hex())
	case errors.Is(err, ErrOrderNotPending):
	default:
		slog.Warn("Failed to expire order", "order_id", order.ID.Hex(), "error", err)
	}
}

// orderID hashes payer, recipient, a random nonce and the creation time.
func orderID(payer, recipient common.Address, createdAt time.Time) common.Hash {
	nonce := uuid.New()
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(createdAt.UnixNano()))
	return crypto.Keccak256Hash(payer.Bytes(), recipient.Bytes(), nonce[:], ts[:])
}
