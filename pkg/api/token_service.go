package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// TokenServiceName is the fully-qualified name of TokenService.
const TokenServiceName = "tapngo.v1.TokenService"

// Procedure names, as they appear in URL paths and interceptor specs.
const (
	TokenServiceGetBalanceProcedure     = "/tapngo.v1.TokenService/GetBalance"
	TokenServiceGetSupplyProcedure      = "/tapngo.v1.TokenService/GetSupply"
	TokenServiceTransferProcedure       = "/tapngo.v1.TokenService/Transfer"
	TokenServiceClaimFaucetProcedure    = "/tapngo.v1.TokenService/ClaimFaucet"
	TokenServiceCanClaimFaucetProcedure = "/tapngo.v1.TokenService/CanClaimFaucet"
	TokenServiceMintProcedure           = "/tapngo.v1.TokenService/Mint"
	TokenServiceBurnProcedure           = "/tapngo.v1.TokenService/Burn"
	TokenServicePauseProcedure          = "/tapngo.v1.TokenService/Pause"
	TokenServiceUnpauseProcedure        = "/tapngo.v1.TokenService/Unpause"
)

// TokenServiceHandler is implemented by the server side of TokenService.
// TokenService exposes the token ledger.
type TokenServiceHandler interface {
	// GetBalance returns the balance of an address.
	GetBalance(context.Context, *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error)

	// GetSupply returns total and maximum supply and the pause flag.
	GetSupply(context.Context, *connect.Request[GetSupplyRequest]) (*connect.Response[GetSupplyResponse], error)

	// Transfer moves tokens from the caller.
	Transfer(context.Context, *connect.Request[TransferRequest]) (*connect.Response[TransferResponse], error)

	// ClaimFaucet credits the caller from the faucet.
	ClaimFaucet(context.Context, *connect.Request[ClaimFaucetRequest]) (*connect.Response[ClaimFaucetResponse], error)

	// CanClaimFaucet reports whether an address may claim and how long until it can.
	CanClaimFaucet(context.Context, *connect.Request[CanClaimFaucetRequest]) (*connect.Response[CanClaimFaucetResponse], error)

	// Mint issues new tokens. Admin only.
	Mint(context.Context, *connect.Request[MintRequest]) (*connect.Response[MintResponse], error)

	// Burn destroys tokens. Admin only.
	Burn(context.Context, *connect.Request[BurnRequest]) (*connect.Response[BurnResponse], error)

	// Pause halts transfers and settlements. Admin only.
	Pause(context.Context, *connect.Request[PauseRequest]) (*connect.Response[PauseResponse], error)

	// Unpause resumes transfers and settlements. Admin only.
	Unpause(context.Context, *connect.Request[PauseRequest]) (*connect.Response[PauseResponse], error)
}

// NewTokenServiceHandler builds an HTTP handler for svc. It returns the path to
// mount it on.
func NewTokenServiceHandler(svc TokenServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getBalanceHandler := connect.NewUnaryHandler(TokenServiceGetBalanceProcedure, svc.GetBalance, opts...)
	getSupplyHandler := connect.NewUnaryHandler(TokenServiceGetSupplyProcedure, svc.GetSupply, opts...)
	transferHandler := connect.NewUnaryHandler(TokenServiceTransferProcedure, svc.Transfer, opts...)
	claimFaucetHandler := connect.NewUnaryHandler(TokenServiceClaimFaucetProcedure, svc.ClaimFaucet, opts...)
	canClaimFaucetHandler := connect.NewUnaryHandler(TokenServiceCanClaimFaucetProcedure, svc.CanClaimFaucet, opts...)
	mintHandler := connect.NewUnaryHandler(TokenServiceMintProcedure, svc.Mint, opts...)
	burnHandler := connect.NewUnaryHandler(TokenServiceBurnProcedure, svc.Burn, opts...)
	pauseHandler := connect.NewUnaryHandler(TokenServicePauseProcedure, svc.Pause, opts...)
	unpauseHandler := connect.NewUnaryHandler(TokenServiceUnpauseProcedure, svc.Unpause, opts...)

	return "/" + TokenServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case TokenServiceGetBalanceProcedure:
			getBalanceHandler.ServeHTTP(w, r)
		case TokenServiceGetSupplyProcedure:
			getSupplyHandler.ServeHTTP(w, r)
		case TokenServiceTransferProcedure:
			transferHandler.ServeHTTP(w, r)
		case TokenServiceClaimFaucetProcedure:
			claimFaucetHandler.ServeHTTP(w, r)
		case TokenServiceCanClaimFaucetProcedure:
			canClaimFaucetHandler.ServeHTTP(w, r)
		case TokenServiceMintProcedure:
			mintHandler.ServeHTTP(w, r)
		case TokenServiceBurnProcedure:
			burnHandler.ServeHTTP(w, r)
		case TokenServicePauseProcedure:
			pauseHandler.ServeHTTP(w, r)
		case TokenServiceUnpauseProcedure:
			unpauseHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// TokenServiceClient is a client for TokenService.
type TokenServiceClient interface {
	GetBalance(context.Context, *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error)
	GetSupply(context.Context, *connect.Request[GetSupplyRequest]) (*connect.Response[GetSupplyResponse], error)
	Transfer(context.Context, *connect.Request[TransferRequest]) (*connect.Response[TransferResponse], error)
	ClaimFaucet(context.Context, *connect.Request[ClaimFaucetRequest]) (*connect.Response[ClaimFaucetResponse], error)
	CanClaimFaucet(context.Context, *connect.Request[CanClaimFaucetRequest]) (*connect.Response[CanClaimFaucetResponse], error)
	Mint(context.Context, *connect.Request[MintRequest]) (*connect.Response[MintResponse], error)
	Burn(context.Context, *connect.Request[BurnRequest]) (*connect.Response[BurnResponse], error)
	Pause(context.Context, *connect.Request[PauseRequest]) (*connect.Response[PauseResponse], error)
	Unpause(context.Context, *connect.Request[PauseRequest]) (*connect.Response[PauseResponse], error)
}

type tokenServiceClient struct {
	getBalance     *connect.Client[GetBalanceRequest, GetBalanceResponse]
	getSupply      *connect.Client[GetSupplyRequest, GetSupplyResponse]
	transfer       *connect.Client[TransferRequest, TransferResponse]
	claimFaucet    *connect.Client[ClaimFaucetRequest, ClaimFaucetResponse]
	canClaimFaucet *connect.Client[CanClaimFaucetRequest, CanClaimFaucetResponse]
	mint           *connect.Client[MintRequest, MintResponse]
	burn           *connect.Client[BurnRequest, BurnResponse]
	pause          *connect.Client[PauseRequest, PauseResponse]
	unpause        *connect.Client[PauseRequest, PauseResponse]
}

// NewTokenServiceClient creates a TokenService client for the server at baseURL,
// for example http://localhost:8080.
func NewTokenServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TokenServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &tokenServiceClient{
		getBalance:     connect.NewClient[GetBalanceRequest, GetBalanceResponse](httpClient, baseURL+TokenServiceGetBalanceProcedure, opts...),
		getSupply:      connect.NewClient[GetSupplyRequest, GetSupplyResponse](httpClient, baseURL+TokenServiceGetSupplyProcedure, opts...),
		transfer:       connect.NewClient[TransferRequest, TransferResponse](httpClient, baseURL+TokenServiceTransferProcedure, opts...),
		claimFaucet:    connect.NewClient[ClaimFaucetRequest, ClaimFaucetResponse](httpClient, baseURL+TokenServiceClaimFaucetProcedure, opts...),
		canClaimFaucet: connect.NewClient[CanClaimFaucetRequest, CanClaimFaucetResponse](httpClient, baseURL+TokenServiceCanClaimFaucetProcedure, opts...),
		mint:           connect.NewClient[MintRequest, MintResponse](httpClient, baseURL+TokenServiceMintProcedure, opts...),
		burn:           connect.NewClient[BurnRequest, BurnResponse](httpClient, baseURL+TokenServiceBurnProcedure, opts...),
		pause:          connect.NewClient[PauseRequest, PauseResponse](httpClient, baseURL+TokenServicePauseProcedure, opts...),
		unpause:        connect.NewClient[PauseRequest, PauseResponse](httpClient, baseURL+TokenServiceUnpauseProcedure, opts...),
	}
}

func (c *tokenServiceClient) GetBalance(ctx context.Context, req *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

func (c *tokenServiceClient) GetSupply(ctx context.Context, req *connect.Request[GetSupplyRequest]) (*connect.Response[GetSupplyResponse], error) {
	return c.getSupply.CallUnary(ctx, req)
}

func (c *tokenServiceClient) Transfer(ctx context.Context, req *connect.Request[TransferRequest]) (*connect.Response[TransferResponse], error) {
	return c.transfer.CallUnary(ctx, req)
}

func (c *tokenServiceClient) ClaimFaucet(ctx context.Context, req *connect.Request[ClaimFaucetRequest]) (*connect.Response[ClaimFaucetResponse], error) {
	return c.claimFaucet.CallUnary(ctx, req)
}

func (c *tokenServiceClient) CanClaimFaucet(ctx context.Context, req *connect.Request[CanClaimFaucetRequest]) (*connect.Response[CanClaimFaucetResponse], error) {
	return c.canClaimFaucet.CallUnary(ctx, req)
}

func (c *tokenServiceClient) Mint(ctx context.Context, req *connect.Request[MintRequest]) (*connect.Response[MintResponse], error) {
	return c.mint.CallUnary(ctx, req)
}

func (c *tokenServiceClient) Burn(ctx context.Context, req *connect.Request[BurnRequest]) (*connect.Response[BurnResponse], error) {
	return c.burn.CallUnary(ctx, req)
}

func (c *tokenServiceClient) Pause(ctx context.Context, req *connect.Request[PauseRequest]) (*connect.Response[PauseResponse], error) {
	return c.pause.CallUnary(ctx, req)
}

func (c *tokenServiceClient) Unpause(ctx context.Context, req *connect.Request[PauseRequest]) (*connect.Response[PauseResponse], error) {
	return c.unpause.CallUnary(ctx, req)
}
