package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/henrysammarfo/tapngo/internal/auth"
	"github.com/henrysammarfo/tapngo/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Challenge issues a login message for the wallet to sign.
func (s *AuthService) Challenge(ctx context.Context, req *connect.Request[api.ChallengeRequest]) (*connect.Response[api.ChallengeResponse], error) {
	addr, err := parseAddress("address", req.Msg.Address)
	if err != nil {
		return nil, err
	}

	c, err := s.authenticator.Challenge(ctx, addr)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.ChallengeResponse{
		Message:   c.Message,
		Nonce:     c.Nonce,
		ExpiresAt: c.ExpiresAt,
	}), nil
}

// Login verifies the signed challenge and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	addr, err := parseAddress("address", req.Msg.Address)
	if err != nil {
		return nil, err
	}

	caller, err := s.authenticator.Authenticate(ctx, addr, req.Msg.Signature)
	if err != nil {
		slog.Warn("Login failed", "address", addr.Hex(), "error", err)
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	issued := time.Now().UTC()
	token, err := s.jwtManager.Generate(caller, "")
	if err != nil {
		slog.Error("Failed to generate token", "address", caller.Hex(), "error", err)
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	slog.Info("Wallet logged in", "address", caller.Hex())
	return connect.NewResponse(&api.LoginResponse{
		Token:     token,
		ExpiresAt: issued.Add(s.jwtManager.Duration()),
	}), nil
}
