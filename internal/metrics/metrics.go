// Package metrics declares the Prometheus collectors of the settlement core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ============================================
	// Orders and payments
	// ============================================
	OrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tapngo_orders_created_total",
			Help: "Total number of payment orders created",
		},
		[]string{"payment_type"},
	)

	PaymentsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tapngo_payments_completed_total",
			Help: "Total number of orders settled",
		},
		[]string{"payment_type"},
	)

	PaymentsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tapngo_payments_failed_total",
			Help: "Total number of failed settlement attempts",
		},
		[]string{"reason"},
	)

	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapngo_orders_cancelled_total",
		Help: "Total number of orders cancelled by their payer",
	})

	OrdersExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapngo_orders_expired_total",
		Help: "Total number of orders that expired before settlement",
	})

	// ============================================
	// Token ledger
	// ============================================
	FaucetClaims = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapngo_faucet_claims_total",
		Help: "Total number of successful faucet claims",
	})

	TokenSupply = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tapngo_token_supply",
		Help: "Current total token supply in base units",
	})

	// ============================================
	// Transport, events and pricing
	// ============================================
	RPCDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tapngo_rpc_duration_seconds",
			Help:    "RPC handling duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"procedure", "code"},
	)

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapngo_events_dropped_total",
		Help: "Total number of events dropped because a subscriber was full",
	})

	RateUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tapngo_rate_updates_total",
			Help: "Total number of price feed refreshes",
		},
		[]string{"result"},
	)

	NATSConnectionStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tapngo_nats_connection_status",
		Help: "NATS connection status (1=connected, 0=disconnected)",
	})
)
