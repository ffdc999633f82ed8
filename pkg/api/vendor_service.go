package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// VendorServiceName is the fully-qualified name of VendorService.
const VendorServiceName = "tapngo.v1.VendorService"

// Procedure names, as they appear in URL paths and interceptor specs.
const (
	VendorServiceResolveRecipientProcedure = "/tapngo.v1.VendorService/ResolveRecipient"
	VendorServiceRegisterVendorProcedure   = "/tapngo.v1.VendorService/RegisterVendor"
	VendorServiceSetVendorStatusProcedure  = "/tapngo.v1.VendorService/SetVendorStatus"
)

// VendorServiceHandler is implemented by the server side of VendorService.
// VendorService manages the vendor directory.
type VendorServiceHandler interface {
	// ResolveRecipient maps an address or vendor name to a recipient.
	ResolveRecipient(context.Context, *connect.Request[ResolveRecipientRequest]) (*connect.Response[ResolveRecipientResponse], error)

	// RegisterVendor adds a vendor. Admin only.
	RegisterVendor(context.Context, *connect.Request[RegisterVendorRequest]) (*connect.Response[RegisterVendorResponse], error)

	// SetVendorStatus updates vendor verification and activity. Admin only.
	SetVendorStatus(context.Context, *connect.Request[SetVendorStatusRequest]) (*connect.Response[SetVendorStatusResponse], error)
}

// NewVendorServiceHandler builds an HTTP handler for svc. It returns the path to
// mount it on.
func NewVendorServiceHandler(svc VendorServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	resolveRecipientHandler := connect.NewUnaryHandler(VendorServiceResolveRecipientProcedure, svc.ResolveRecipient, opts...)
	registerVendorHandler := connect.NewUnaryHandler(VendorServiceRegisterVendorProcedure, svc.RegisterVendor, opts...)
	setVendorStatusHandler := connect.NewUnaryHandler(VendorServiceSetVendorStatusProcedure, svc.SetVendorStatus, opts...)

	return "/" + VendorServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case VendorServiceResolveRecipientProcedure:
			resolveRecipientHandler.ServeHTTP(w, r)
		case VendorServiceRegisterVendorProcedure:
			registerVendorHandler.ServeHTTP(w, r)
		case VendorServiceSetVendorStatusProcedure:
			setVendorStatusHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// VendorServiceClient is a client for VendorService.
type VendorServiceClient interface {
	ResolveRecipient(context.Context, *connect.Request[ResolveRecipientRequest]) (*connect.Response[ResolveRecipientResponse], error)
	RegisterVendor(context.Context, *connect.Request[RegisterVendorRequest]) (*connect.Response[RegisterVendorResponse], error)
	SetVendorStatus(context.Context, *connect.Request[SetVendorStatusRequest]) (*connect.Response[SetVendorStatusResponse], error)
}

type vendorServiceClient struct {
	resolveRecipient *connect.Client[ResolveRecipientRequest, ResolveRecipientResponse]
	registerVendor   *connect.Client[RegisterVendorRequest, RegisterVendorResponse]
	setVendorStatus  *connect.Client[SetVendorStatusRequest, SetVendorStatusResponse]
}

// NewVendorServiceClient creates a VendorService client for the server at baseURL,
// for example http://localhost:8080.
func NewVendorServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) VendorServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &vendorServiceClient{
		resolveRecipient: connect.NewClient[ResolveRecipientRequest, ResolveRecipientResponse](httpClient, baseURL+VendorServiceResolveRecipientProcedure, opts...),
		registerVendor:   connect.NewClient[RegisterVendorRequest, RegisterVendorResponse](httpClient, baseURL+VendorServiceRegisterVendorProcedure, opts...),
		setVendorStatus:  connect.NewClient[SetVendorStatusRequest, SetVendorStatusResponse](httpClient, baseURL+VendorServiceSetVendorStatusProcedure, opts...),
	}
}

func (c *vendorServiceClient) ResolveRecipient(ctx context.Context, req *connect.Request[ResolveRecipientRequest]) (*connect.Response[ResolveRecipientResponse], error) {
	return c.resolveRecipient.CallUnary(ctx, req)
}

func (c *vendorServiceClient) RegisterVendor(ctx context.Context, req *connect.Request[RegisterVendorRequest]) (*connect.Response[RegisterVendorResponse], error) {
	return c.registerVendor.CallUnary(ctx, req)
}

func (c *vendorServiceClient) SetVendorStatus(ctx context.Context, req *connect.Request[SetVendorStatusRequest]) (*connect.Response[SetVendorStatusResponse], error) {
	return c.setVendorStatus.CallUnary(ctx, req)
}
