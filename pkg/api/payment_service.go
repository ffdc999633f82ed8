package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// PaymentServiceName is the fully-qualified name of PaymentService.
const PaymentServiceName = "tapngo.v1.PaymentService"

// Procedure names, as they appear in URL paths and interceptor specs.
const (
	PaymentServiceCreateOrderProcedure          = "/tapngo.v1.PaymentService/CreateOrder"
	PaymentServiceCompletePaymentProcedure      = "/tapngo.v1.PaymentService/CompletePayment"
	PaymentServiceCancelOrderProcedure          = "/tapngo.v1.PaymentService/CancelOrder"
	PaymentServiceGetOrderProcedure             = "/tapngo.v1.PaymentService/GetOrder"
	PaymentServiceGetReceiptProcedure           = "/tapngo.v1.PaymentService/GetReceipt"
	PaymentServiceListReceiptsProcedure         = "/tapngo.v1.PaymentService/ListReceipts"
	PaymentServiceCalculateTokenAmountProcedure = "/tapngo.v1.PaymentService/CalculateTokenAmount"
)

// PaymentServiceHandler is implemented by the server side of PaymentService.
// PaymentService settles two-phase payments.
type PaymentServiceHandler interface {
	// CreateOrder creates a pending order with its token amount frozen at the current rate.
	CreateOrder(context.Context, *connect.Request[CreateOrderRequest]) (*connect.Response[CreateOrderResponse], error)

	// CompletePayment settles a pending order and returns its receipt.
	CompletePayment(context.Context, *connect.Request[CompletePaymentRequest]) (*connect.Response[CompletePaymentResponse], error)

	// CancelOrder cancels a pending order.
	CancelOrder(context.Context, *connect.Request[CancelOrderRequest]) (*connect.Response[CancelOrderResponse], error)

	// GetOrder returns an order.
	GetOrder(context.Context, *connect.Request[GetOrderRequest]) (*connect.Response[GetOrderResponse], error)

	// GetReceipt returns the receipt of a completed order.
	GetReceipt(context.Context, *connect.Request[GetReceiptRequest]) (*connect.Response[GetReceiptResponse], error)

	// ListReceipts pages through receipts an address sent or received.
	ListReceipts(context.Context, *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error)

	// CalculateTokenAmount previews the token amount an order would freeze.
	CalculateTokenAmount(context.Context, *connect.Request[CalculateTokenAmountRequest]) (*connect.Response[CalculateTokenAmountResponse], error)
}

// NewPaymentServiceHandler builds an HTTP handler for svc. It returns the path to
// mount it on.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createOrderHandler := connect.NewUnaryHandler(PaymentServiceCreateOrderProcedure, svc.CreateOrder, opts...)
	completePaymentHandler := connect.NewUnaryHandler(PaymentServiceCompletePaymentProcedure, svc.CompletePayment, opts...)
	cancelOrderHandler := connect.NewUnaryHandler(PaymentServiceCancelOrderProcedure, svc.CancelOrder, opts...)
	getOrderHandler := connect.NewUnaryHandler(PaymentServiceGetOrderProcedure, svc.GetOrder, opts...)
	getReceiptHandler := connect.NewUnaryHandler(PaymentServiceGetReceiptProcedure, svc.GetReceipt, opts...)
	listReceiptsHandler := connect.NewUnaryHandler(PaymentServiceListReceiptsProcedure, svc.ListReceipts, opts...)
	calculateTokenAmountHandler := connect.NewUnaryHandler(PaymentServiceCalculateTokenAmountProcedure, svc.CalculateTokenAmount, opts...)

	return "/" + PaymentServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PaymentServiceCreateOrderProcedure:
			createOrderHandler.ServeHTTP(w, r)
		case PaymentServiceCompletePaymentProcedure:
			completePaymentHandler.ServeHTTP(w, r)
		case PaymentServiceCancelOrderProcedure:
			cancelOrderHandler.ServeHTTP(w, r)
		case PaymentServiceGetOrderProcedure:
			getOrderHandler.ServeHTTP(w, r)
		case PaymentServiceGetReceiptProcedure:
			getReceiptHandler.ServeHTTP(w, r)
		case PaymentServiceListReceiptsProcedure:
			listReceiptsHandler.ServeHTTP(w, r)
		case PaymentServiceCalculateTokenAmountProcedure:
			calculateTokenAmountHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// PaymentServiceClient is a client for PaymentService.
type PaymentServiceClient interface {
	CreateOrder(context.Context, *connect.Request[CreateOrderRequest]) (*connect.Response[CreateOrderResponse], error)
	CompletePayment(context.Context, *connect.Request[CompletePaymentRequest]) (*connect.Response[CompletePaymentResponse], error)
	CancelOrder(context.Context, *connect.Request[CancelOrderRequest]) (*connect.Response[CancelOrderResponse], error)
	GetOrder(context.Context, *connect.Request[GetOrderRequest]) (*connect.Response[GetOrderResponse], error)
	GetReceipt(context.Context, *connect.Request[GetReceiptRequest]) (*connect.Response[GetReceiptResponse], error)
	ListReceipts(context.Context, *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error)
	CalculateTokenAmount(context.Context, *connect.Request[CalculateTokenAmountRequest]) (*connect.Response[CalculateTokenAmountResponse], error)
}

type paymentServiceClient struct {
	createOrder          *connect.Client[CreateOrderRequest, CreateOrderResponse]
	completePayment      *connect.Client[CompletePaymentRequest, CompletePaymentResponse]
	cancelOrder          *connect.Client[CancelOrderRequest, CancelOrderResponse]
	getOrder             *connect.Client[GetOrderRequest, GetOrderResponse]
	getReceipt           *connect.Client[GetReceiptRequest, GetReceiptResponse]
	listReceipts         *connect.Client[ListReceiptsRequest, ListReceiptsResponse]
	calculateTokenAmount *connect.Client[CalculateTokenAmountRequest, CalculateTokenAmountResponse]
}

// NewPaymentServiceClient creates a PaymentService client for the server at baseURL,
// for example http://localhost:8080.
func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PaymentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &paymentServiceClient{
		createOrder:          connect.NewClient[CreateOrderRequest, CreateOrderResponse](httpClient, baseURL+PaymentServiceCreateOrderProcedure, opts...),
		completePayment:      connect.NewClient[CompletePaymentRequest, CompletePaymentResponse](httpClient, baseURL+PaymentServiceCompletePaymentProcedure, opts...),
		cancelOrder:          connect.NewClient[CancelOrderRequest, CancelOrderResponse](httpClient, baseURL+PaymentServiceCancelOrderProcedure, opts...),
		getOrder:             connect.NewClient[GetOrderRequest, GetOrderResponse](httpClient, baseURL+PaymentServiceGetOrderProcedure, opts...),
		getReceipt:           connect.NewClient[GetReceiptRequest, GetReceiptResponse](httpClient, baseURL+PaymentServiceGetReceiptProcedure, opts...),
		listReceipts:         connect.NewClient[ListReceiptsRequest, ListReceiptsResponse](httpClient, baseURL+PaymentServiceListReceiptsProcedure, opts...),
		calculateTokenAmount: connect.NewClient[CalculateTokenAmountRequest, CalculateTokenAmountResponse](httpClient, baseURL+PaymentServiceCalculateTokenAmountProcedure, opts...),
	}
}

func (c *paymentServiceClient) CreateOrder(ctx context.Context, req *connect.Request[CreateOrderRequest]) (*connect.Response[CreateOrderResponse], error) {
	return c.createOrder.CallUnary(ctx, req)
}

func (c *paymentServiceClient) CompletePayment(ctx context.Context, req *connect.Request[CompletePaymentRequest]) (*connect.Response[CompletePaymentResponse], error) {
	return c.completePayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) CancelOrder(ctx context.Context, req *connect.Request[CancelOrderRequest]) (*connect.Response[CancelOrderResponse], error) {
	return c.cancelOrder.CallUnary(ctx, req)
}

func (c *paymentServiceClient) GetOrder(ctx context.Context, req *connect.Request[GetOrderRequest]) (*connect.Response[GetOrderResponse], error) {
	return c.getOrder.CallUnary(ctx, req)
}

func (c *paymentServiceClient) GetReceipt(ctx context.Context, req *connect.Request[GetReceiptRequest]) (*connect.Response[GetReceiptResponse], error) {
	return c.getReceipt.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ListReceipts(ctx context.Context, req *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error) {
	return c.listReceipts.CallUnary(ctx, req)
}

func (c *paymentServiceClient) CalculateTokenAmount(ctx context.Context, req *connect.Request[CalculateTokenAmountRequest]) (*connect.Response[CalculateTokenAmountResponse], error) {
	return c.calculateTokenAmount.CallUnary(ctx, req)
}
