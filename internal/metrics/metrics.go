package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Escrow counters and histograms.

var (
	// Settlement
	SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "escrow",
		Subsystem: "settlement",
		Name:      "attempts_total",
		Help:      "Release and refund attempts by outcome",
	}, []string{"operation", "outcome"})

	SettlementLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "escrow",
		Subsystem: "settlement",
		Name:      "duration_seconds",
		Help:      "Release and refund processing duration",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"operation"})

	// Transactions
	TransactionsInitiated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "escrow",
		Subsystem: "transaction",
		Name:      "initiated_total",
		Help:      "Escrow transactions created, by type and resulting status",
	}, []string{"type", "status"})

	// Events
	EventPublishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "escrow",
		Subsystem: "events",
		Name:      "publish_errors_total",
		Help:      "Events that could not be published after commit",
	}, []string{"routing_key"})

	NoticeEnqueueErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "escrow",
		Subsystem: "notices",
		Name:      "enqueue_errors_total",
		Help:      "Settlement notices that could not be queued",
	})

	// Worker
	AuditEventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "escrow",
		Subsystem: "audit",
		Name:      "events_processed_total",
		Help:      "Audit events consumed, by result",
	}, []string{"result"})

	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "escrow",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration by route and status",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
