// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduai_provider_attempts_total",
			Help: "AI provider call attempts by outcome",
		},
		[]string{"provider", "outcome"},
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eduai_provider_call_duration_seconds",
			Help:    "Duration of single AI provider calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"provider"},
	)

	ProvidersExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eduai_providers_exhausted_total",
			Help: "Calls that failed after every provider was exhausted",
		},
	)

	ActionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduai_action_requests_total",
			Help: "API action requests by status",
		},
		[]string{"action", "status"},
	)

	ActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "eduai_action_duration_seconds",
			Help: "Duration of API action processing in seconds",
		},
		[]string{"action"},
	)

	ResourceSubstitutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduai_resource_substitutions_total",
			Help: "Resources replaced by a fallback resource",
		},
		[]string{"slot", "reason"},
	)

	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eduai_rate_limit_rejections_total",
			Help: "Requests rejected by the per-user rate limiter",
		},
	)
)
