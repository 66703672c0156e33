// Package observability wires Prometheus metrics and OpenTelemetry spans
// around the session engine's turn tasks and tool dispatch — spec.md is
// silent on observability; this is supplemented per SPEC_FULL.md §4.1,
// grounded on haasonsaas-nexus's internal/observability/metrics.go.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics centralizes every counter/gauge/histogram the session engine and
// transport emit.
type Metrics struct {
	ActiveSessions    prometheus.Gauge
	TurnsTotal        *prometheus.CounterVec
	BargeInsTotal     prometheus.Counter
	ToolCallsTotal    *prometheus.CounterVec
	ToolCallDuration  *prometheus.HistogramVec
	StreamAborts      *prometheus.CounterVec
	WebhookReceived   *prometheus.CounterVec
	WebhookDuplicates prometheus.Counter
}

// NewMetrics creates and registers every metric against the default
// Prometheus registry. Call once at startup.
func NewMetrics() *Metrics {
	return &Metrics{
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "voicegateway_active_sessions",
			Help: "Current number of open voice sessions.",
		}),
		TurnsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voicegateway_turns_total",
			Help: "Total number of completed turn tasks by outcome.",
		}, []string{"outcome"}), // completed|cancelled|timed_out|failed

		BargeInsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicegateway_barge_ins_total",
			Help: "Total number of genuine barge-in cancellations.",
		}),

		ToolCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voicegateway_tool_calls_total",
			Help: "Total number of tool dispatches by tool name and outcome.",
		}, []string{"tool", "outcome"}),

		ToolCallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicegateway_tool_call_duration_seconds",
			Help:    "Tool dispatch latency in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"tool"}),

		StreamAborts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voicegateway_stream_aborts_total",
			Help: "Total number of LLM stream aborts by reason.",
		}, []string{"reason"}), // cancelled|timed_out|provider_error

		WebhookReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voicegateway_webhook_received_total",
			Help: "Total number of webhook deliveries received by provider.",
		}, []string{"provider"}),

		WebhookDuplicates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicegateway_webhook_duplicates_total",
			Help: "Total number of webhook deliveries dropped as duplicates.",
		}),
	}
}
