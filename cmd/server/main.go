package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/henrysammarfo/tapngo/internal/auth"
	"github.com/henrysammarfo/tapngo/internal/config"
	"github.com/henrysammarfo/tapngo/internal/directory"
	"github.com/henrysammarfo/tapngo/internal/events"
	"github.com/henrysammarfo/tapngo/internal/oracle"
	"github.com/henrysammarfo/tapngo/internal/payments"
	"github.com/henrysammarfo/tapngo/internal/server"
	"github.com/henrysammarfo/tapngo/internal/service"
	"github.com/henrysammarfo/tapngo/internal/storage/sqlite"
	"github.com/henrysammarfo/tapngo/internal/token"
	"github.com/henrysammarfo/tapngo/internal/worker"
	"github.com/henrysammarfo/tapngo/pkg/logging"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DB.Path)

	admins, err := auth.ParseAdminSet(cfg.Auth.Admins)
	if err != nil {
		return err
	}

	bus := events.NewBus()
	defer bus.Close()
	if cfg.Events.NATSURL != "" {
		conn, err := events.DialNATS(cfg.Events.NATSURL, 5*time.Second)
		if err != nil {
			return err
		}
		defer conn.Close()
		fwd := events.NewNATSForwarder(bus, conn, cfg.Events.SubjectPrefix)
		defer fwd.Close()
		slog.Info("Forwarding events to NATS", "url", cfg.Events.NATSURL, "prefix", cfg.Events.SubjectPrefix)
	}

	ledger := token.NewLedger(store, admins, token.WithPublisher(bus))
	owner := common.HexToAddress(cfg.Token.Owner)
	if cfg.Token.InitialSupply > token.MaxSupply/token.Unit {
		return errors.New("token.initial_supply exceeds the supply cap")
	}
	applied, err := ledger.Bootstrap(ctx, owner, cfg.Token.InitialSupply*token.Unit)
	if err != nil {
		return err
	}
	if applied {
		slog.Info("Genesis supply minted", "owner", owner.Hex(), "tokens", cfg.Token.InitialSupply)
	}

	rates, err := newRateSource(ctx, cfg)
	if err != nil {
		return err
	}

	dir := directory.New(store, admins, bus)
	router, err := payments.NewRouter(store, ledger, rates, dir, payments.Config{
		FeeRecipient: common.HexToAddress(cfg.Pricing.FeeRecipient),
		OrderTTL:     cfg.OrderTTL(),
		MaxRateAge:   cfg.MaxRateAge(),
	}, payments.WithPublisher(bus))
	if err != nil {
		return err
	}

	expirer := &worker.Expirer{Orders: router, Interval: cfg.ExpiryInterval()}
	go expirer.Run(ctx)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.TokenTTL())
	handler := server.New(server.Config{
		Payments: service.NewPaymentService(router),
		Tokens:   service.NewTokenService(ledger),
		Vendors:  service.NewVendorService(dir),
		Auth:     service.NewAuthService(auth.NewWalletAuthenticator(cfg.ChallengeTTL(), nil), jwtManager),
		JWT:      jwtManager,
		Events:   events.NewHub(bus),
	})

	// h2c serves HTTP/2 without TLS for gRPC-protocol clients
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Server.Addr, "admins", len(admins))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctxShutdown)
}

// newRateSource serves the configured fixed rate, or polls the price feed
// into a cache when feed_url is set.
func newRateSource(ctx context.Context, cfg *config.Config) (oracle.Source, error) {
	fee := uint16(cfg.Pricing.PlatformFeeBps)

	if cfg.Pricing.FeedURL == "" {
		rate, err := oracle.ParseRate(cfg.Pricing.FixedRate)
		if err != nil {
			return nil, err
		}
		slog.Info("Using fixed exchange rate", "rate", oracle.FormatRate(rate), "fee_bps", fee)
		return oracle.Static{Rate: rate, FeeBps: fee}, nil
	}

	cache := oracle.NewCache(fee)
	poller := &oracle.Poller{
		Feed:     oracle.NewFeedClient(cfg.Pricing.FeedURL, cfg.FeedTimeout()),
		Cache:    cache,
		Interval: cfg.PollInterval(),
	}
	// orders fail with StaleRate until the first fetch lands
	go poller.Run(ctx)
	slog.Info("Polling price feed", "url", cfg.Pricing.FeedURL, "interval", cfg.PollInterval())
	return cache, nil
}
