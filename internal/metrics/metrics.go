// Package metrics exposes Prometheus collectors for the chat pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	chatRequests *prometheus.CounterVec
	toolCalls    *prometheus.CounterVec
	roundTrips   prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsagent_chat_requests_total",
			Help: "Chat requests by orchestration outcome.",
		}, []string{"outcome"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsagent_tool_calls_total",
			Help: "Dispatched tool calls by tool and status.",
		}, []string{"tool", "status"}),
		roundTrips: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsagent_model_round_trips",
			Help:    "Model round-trips per chat request.",
			Buckets: []float64{0, 1, 2, 3, 4, 6, 8, 12},
		}),
	}
	reg.MustRegister(m.chatRequests, m.toolCalls, m.roundTrips)
	return m
}

func (m *Metrics) ObserveOutcome(outcome string, roundTrips int) {
	if m == nil {
		return
	}
	m.chatRequests.WithLabelValues(outcome).Inc()
	m.roundTrips.Observe(float64(roundTrips))
}

func (m *Metrics) ObserveToolCall(tool string, failed bool) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
}
