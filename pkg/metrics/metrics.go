// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// BookingsTotal tracks booking decisions by resulting status.
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Total bookings created by status",
		},
		[]string{"status"},
	)

	// BookingTransitionsTotal tracks supervisor-driven booking status changes.
	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Booking status transitions applied from supervisor replies",
		},
		[]string{"to"},
	)

	// EscalationsTotal tracks escalation lifecycle events.
	EscalationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escalations_total",
			Help: "Escalations by lifecycle event",
		},
		[]string{"event"},
	)

	// NotificationsTotal tracks notification dispatch outcomes.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Supervisor notifications by outcome",
		},
		[]string{"outcome"},
	)

	// PollCyclesTotal tracks mailbox poll cycles.
	PollCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailbox_poll_cycles_total",
			Help: "Mailbox poll cycles by result",
		},
		[]string{"result"},
	)

	// RepliesTotal tracks per-message outcomes of the reply poller.
	RepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailbox_replies_total",
			Help: "Inbound mailbox messages by outcome",
		},
		[]string{"outcome"},
	)

	// AgentTurnDuration tracks agent turn latency.
	AgentTurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_turn_duration_seconds",
			Help:    "Agent turn duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"status"},
	)

	// CoalescedTexts tracks how many user texts were merged into one turn.
	CoalescedTexts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agent_turn_coalesced_texts",
			Help:    "Number of user texts merged into a single agent turn",
			Buckets: []float64{1, 2, 3, 5, 8, 13},
		},
	)

	// MessagesTotal tracks total chat messages appended.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total chat messages appended",
		},
		[]string{"role"},
	)

	// NATSPublishFailures tracks domain events that could not be published.
	NATSPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_publish_failures_total",
			Help: "Domain events that failed to publish",
		},
		[]string{"type"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordAgentTurn records metrics for a submitted agent turn.
func RecordAgentTurn(status string, duration float64, texts int) {
	AgentTurnDuration.WithLabelValues(status).Observe(duration)
	CoalescedTexts.Observe(float64(texts))
}
