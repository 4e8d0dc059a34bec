package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrelay_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatrelay_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrelay_webhook_events_total",
			Help: "Webhook events handled, by directive",
		},
		[]string{"directive"}, // "continue", "inspect" or "reset"
	)

	CompletionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatrelay_completion_duration_seconds",
			Help:    "Completion API call duration",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	CompletionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatrelay_completion_failures_total",
			Help: "Completion API calls that failed",
		},
	)

	DispatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatrelay_dispatch_failures_total",
			Help: "Reply dispatches that failed",
		},
	)

	// Infrastructure metrics
	StoreFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrelay_store_failures_total",
			Help: "History store operations that failed",
		},
		[]string{"op"}, // "load" or "save"
	)
)
