// Package server assembles the HTTP surface: Connect services, health,
// metrics and the live event stream.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/henrysammarfo/tapngo/internal/auth"
	"github.com/henrysammarfo/tapngo/internal/middleware"
	"github.com/henrysammarfo/tapngo/internal/service"
	"github.com/henrysammarfo/tapngo/pkg/api"
)

// PublicProcedures may be called without a session token.
var PublicProcedures = []string{
	api.PaymentServiceGetOrderProcedure,
	api.PaymentServiceGetReceiptProcedure,
	api.PaymentServiceListReceiptsProcedure,
	api.PaymentServiceCalculateTokenAmountProcedure,
	api.TokenServiceGetBalanceProcedure,
	api.TokenServiceGetSupplyProcedure,
	api.TokenServiceCanClaimFaucetProcedure,
	api.VendorServiceResolveRecipientProcedure,
	api.AuthServiceChallengeProcedure,
	api.AuthServiceLoginProcedure,
}

// Config holds the handlers the HTTP surface is built from.
type Config struct {
	Payments *service.PaymentService
	Tokens   *service.TokenService
	Vendors  *service.VendorService
	Auth     *service.AuthService
	JWT      *auth.JWTManager

	// Events serves /ws when set.
	Events http.Handler
}

// New returns the root handler.
func New(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)
	r.Use(cors)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	if cfg.Events != nil {
		r.Handle("/ws", cfg.Events)
	}

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.RequireAuth(cfg.JWT, PublicProcedures...),
	)
	mount := func(path string, h http.Handler) {
		r.Handle(path+"*", h)
	}
	mount(api.NewPaymentServiceHandler(cfg.Payments, interceptors))
	mount(api.NewTokenServiceHandler(cfg.Tokens, interceptors))
	mount(api.NewVendorServiceHandler(cfg.Vendors, interceptors))
	mount(api.NewAuthServiceHandler(cfg.Auth, interceptors))

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs all HTTP requests that are not RPCs; those are
// logged by the Connect interceptor.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if r.Method == http.MethodPost {
			return
		}
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// cors adds CORS headers for browser wallets.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, "+service.ReasonHeader+", "+service.CauseHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
