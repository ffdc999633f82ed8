package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// AuthServiceName is the fully-qualified name of AuthService.
const AuthServiceName = "tapngo.v1.AuthService"

// Procedure names, as they appear in URL paths and interceptor specs.
const (
	AuthServiceChallengeProcedure = "/tapngo.v1.AuthService/Challenge"
	AuthServiceLoginProcedure     = "/tapngo.v1.AuthService/Login"
)

// AuthServiceHandler is implemented by the server side of AuthService.
// AuthService issues session tokens to wallets.
type AuthServiceHandler interface {
	// Challenge issues a message for a wallet to sign.
	Challenge(context.Context, *connect.Request[ChallengeRequest]) (*connect.Response[ChallengeResponse], error)

	// Login exchanges a signed challenge for a session token.
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc. It returns the path to
// mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	challengeHandler := connect.NewUnaryHandler(AuthServiceChallengeProcedure, svc.Challenge, opts...)
	loginHandler := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)

	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceChallengeProcedure:
			challengeHandler.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			loginHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// AuthServiceClient is a client for AuthService.
type AuthServiceClient interface {
	Challenge(context.Context, *connect.Request[ChallengeRequest]) (*connect.Response[ChallengeResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
}

type authServiceClient struct {
	challenge *connect.Client[ChallengeRequest, ChallengeResponse]
	login     *connect.Client[LoginRequest, LoginResponse]
}

// NewAuthServiceClient creates an AuthService client for the server at baseURL,
// for example http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		challenge: connect.NewClient[ChallengeRequest, ChallengeResponse](httpClient, baseURL+AuthServiceChallengeProcedure, opts...),
		login:     connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
	}
}

func (c *authServiceClient) Challenge(ctx context.Context, req *connect.Request[ChallengeRequest]) (*connect.Response[ChallengeResponse], error) {
	return c.challenge.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}
