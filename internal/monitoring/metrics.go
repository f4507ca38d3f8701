package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	purchaseAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_purchase_attempts_total",
			Help: "Purchase attempts by final state",
		},
		[]string{"event_id", "state"},
	)

	purchaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_purchase_duration_seconds",
			Help:    "Time spent processing a purchase, including the simulated delay",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)

	walletConnections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_wallet_connections_total",
			Help: "Wallet connection attempts by backend and outcome",
		},
		[]string{"kind", "status"},
	)

	ledgerSkippedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_ledger_skipped_records_total",
			Help: "Ticket records skipped while listing because they could not be parsed",
		},
	)

	sessionSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_session_subscribers",
			Help: "Current number of wallet session stream subscribers",
		},
	)
)

func RecordPurchase(eventID, state string, elapsed time.Duration) {
	purchaseAttempts.WithLabelValues(eventID, state).Inc()
	if elapsed > 0 {
		purchaseDuration.Observe(elapsed.Seconds())
	}
}

func RecordWalletConnection(kind, status string) {
	walletConnections.WithLabelValues(kind, status).Inc()
}

func RecordSkippedRecord() {
	ledgerSkippedRecords.Inc()
}

func SetSessionSubscribers(n int) {
	sessionSubscribers.Set(float64(n))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
