package service

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/henrysammarfo/tapngo/internal/token"
	"github.com/henrysammarfo/tapngo/pkg/api"
)

// TokenService implements the TokenService RPC interface.
type TokenService struct {
	ledger *token.Ledger
}

// NewTokenService creates a new token service backed by ledger.
func NewTokenService(ledger *token.Ledger) *TokenService {
	return &TokenService{ledger: ledger}
}

func (s *TokenService) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	addr, err := parseAddress("address", req.Msg.Address)
	if err != nil {
		return nil, err
	}

	bal, err := s.ledger.BalanceOf(ctx, addr)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.GetBalanceResponse{Address: addr.Hex(), Balance: bal}), nil
}

func (s *TokenService) GetSupply(ctx context.Context, req *connect.Request[api.GetSupplyRequest]) (*connect.Response[api.GetSupplyResponse], error) {
	supply, err := s.ledger.TotalSupply(ctx)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	paused, err := s.ledger.Paused(ctx)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.GetSupplyResponse{
		TotalSupply: supply,
		MaxSupply:   token.MaxSupply,
		Decimals:    token.Decimals,
		Paused:      paused,
	}), nil
}

// Transfer moves tokens from the caller to another address.
func (s *TokenService) Transfer(ctx context.Context, req *connect.Request[api.TransferRequest]) (*connect.Response[api.TransferResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	to, err := parseAddress("to", req.Msg.To)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Transfer(ctx, caller, to, req.Msg.Amount); err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	bal, err := s.ledger.BalanceOf(ctx, caller)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.TransferResponse{Balance: bal}), nil
}

// ClaimFaucet credits the caller with FaucetAmount once per cooldown.
func (s *TokenService) ClaimFaucet(ctx context.Context, req *connect.Request[api.ClaimFaucetRequest]) (*connect.Response[api.ClaimFaucetResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.ClaimFaucet(ctx, caller); err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	bal, err := s.ledger.BalanceOf(ctx, caller)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	next, err := s.ledger.NextFaucetClaim(ctx, caller)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.ClaimFaucetResponse{
		Amount:      token.FaucetAmount,
		Balance:     bal,
		NextClaimAt: next.UTC().Truncate(time.Second),
	}), nil
}

func (s *TokenService) CanClaimFaucet(ctx context.Context, req *connect.Request[api.CanClaimFaucetRequest]) (*connect.Response[api.CanClaimFaucetResponse], error) {
	addr, err := parseAddress("address", req.Msg.Address)
	if err != nil {
		return nil, err
	}

	ok, remaining, err := s.ledger.CanClaimFaucet(ctx, addr)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.CanClaimFaucetResponse{
		CanClaim:         ok,
		RemainingSeconds: int64((remaining + time.Second - 1) / time.Second),
	}), nil
}

func (s *TokenService) Mint(ctx context.Context, req *connect.Request[api.MintRequest]) (*connect.Response[api.MintResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	to, err := parseAddress("to", req.Msg.To)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Mint(ctx, caller, to, req.Msg.Amount); err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	supply, err := s.ledger.TotalSupply(ctx)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&api.MintResponse{TotalSupply: supply}), nil
}

func (s *TokenService) Burn(ctx context.Context, req *connect.Request[api.BurnRequest]) (*connect.Response[api.BurnResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	from, err := parseAddress("from", req.Msg.From)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Burn(ctx, caller, from, req.Msg.Amount); err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	supply, err := s.ledger.TotalSupply(ctx)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&api.BurnResponse{TotalSupply: supply}), nil
}

func (s *TokenService) Pause(ctx context.Context, req *connect.Request[api.PauseRequest]) (*connect.Response[api.PauseResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Pause(ctx, caller); err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&api.PauseResponse{Paused: true}), nil
}

func (s *TokenService) Unpause(ctx context.Context, req *connect.Request[api.PauseRequest]) (*connect.Response[api.PauseResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Unpause(ctx, caller); err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&api.PauseResponse{Paused: false}), nil
}
