package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LLMCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipo_llm_calls_total",
		Help: "LLM queries by outcome.",
	}, []string{"outcome"})

	LLMDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipo_llm_duration_seconds",
		Help:    "Latency of LLM queries.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
	})

	ActionExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipo_action_executions_total",
		Help: "Action executions by action and outcome.",
	}, []string{"action", "outcome"})

	ActionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "pipo_action_duration_seconds",
		Help: "Duration of action executions.",
	}, []string{"action"})

	SessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipo_session_transitions_total",
		Help: "Planning session stage transitions by target stage.",
	}, []string{"stage"})

	Jobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipo_jobs_total",
		Help: "Agent requests by final state.",
	}, []string{"state"})
)

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
