package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/henrysammarfo/tapngo/internal/models"
	"github.com/henrysammarfo/tapngo/internal/payments"
	"github.com/henrysammarfo/tapngo/pkg/api"
)

// PaymentService implements the PaymentService RPC interface.
type PaymentService struct {
	router *payments.Router
}

// NewPaymentService creates a new payment service backed by router.
func NewPaymentService(router *payments.Router) *PaymentService {
	return &PaymentService{router: router}
}

// CreateOrder opens a pending order paid by the caller.
func (s *PaymentService) CreateOrder(ctx context.Context, req *connect.Request[api.CreateOrderRequest]) (*connect.Response[api.CreateOrderResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.router.CreateOrder(ctx, payments.CreateOrderParams{
		Payer:               caller,
		RecipientIdentifier: req.Msg.Recipient,
		AmountFiat:          req.Msg.AmountFiat,
		PaymentType:         models.PaymentType(req.Msg.PaymentType),
		Metadata:            req.Msg.Metadata,
	})
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.CreateOrderResponse{Order: toAPIOrder(order)}), nil
}

// CompletePayment settles an order the caller created.
func (s *PaymentService) CompletePayment(ctx context.Context, req *connect.Request[api.CompletePaymentRequest]) (*connect.Response[api.CompletePaymentResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseOrderID(req.Msg.OrderID)
	if err != nil {
		return nil, err
	}

	receipt, err := s.router.CompletePayment(ctx, id, caller)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.CompletePaymentResponse{Receipt: toAPIReceipt(receipt)}), nil
}

// CancelOrder cancels an order the caller created.
func (s *PaymentService) CancelOrder(ctx context.Context, req *connect.Request[api.CancelOrderRequest]) (*connect.Response[api.CancelOrderResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseOrderID(req.Msg.OrderID)
	if err != nil {
		return nil, err
	}

	order, err := s.router.CancelOrder(ctx, id, caller)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.CancelOrderResponse{Order: toAPIOrder(order)}), nil
}

func (s *PaymentService) GetOrder(ctx context.Context, req *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error) {
	id, err := parseOrderID(req.Msg.OrderID)
	if err != nil {
		return nil, err
	}

	order, err := s.router.GetOrder(ctx, id)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.GetOrderResponse{Order: toAPIOrder(order)}), nil
}

func (s *PaymentService) GetReceipt(ctx context.Context, req *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error) {
	id, err := parseOrderID(req.Msg.OrderID)
	if err != nil {
		return nil, err
	}

	receipt, err := s.router.GetReceipt(ctx, id)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.GetReceiptResponse{Receipt: toAPIReceipt(receipt)}), nil
}

// ListReceipts pages through an address's receipts, oldest first.
func (s *PaymentService) ListReceipts(ctx context.Context, req *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error) {
	addr, err := parseAddress("address", req.Msg.Address)
	if err != nil {
		return nil, err
	}

	offset, limit := payments.PageBounds(req.Msg.Offset, req.Msg.Limit)
	receipts, err := s.router.ListReceipts(ctx, addr, offset, limit)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	resp := &api.ListReceiptsResponse{Receipts: make([]api.Receipt, 0, len(receipts))}
	for _, r := range receipts {
		resp.Receipts = append(resp.Receipts, toAPIReceipt(r))
	}
	if len(receipts) == limit {
		resp.NextOffset = offset + limit
	}

	return connect.NewResponse(resp), nil
}

// CalculateTokenAmount previews the token amount for a fiat amount at the current rate.
func (s *PaymentService) CalculateTokenAmount(ctx context.Context, req *connect.Request[api.CalculateTokenAmountRequest]) (*connect.Response[api.CalculateTokenAmountResponse], error) {
	q, err := s.router.CalculateTokenAmount(ctx, req.Msg.AmountFiat)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.CalculateTokenAmountResponse{
		AmountFiat:    q.AmountFiat,
		AmountToken:   q.AmountToken,
		Rate:          q.Rate.String(),
		RateSource:    q.Rate.Source,
		RateTimestamp: q.Rate.Timestamp,
	}), nil
}
