package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CollaboratorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_collaborator_calls_total",
			Help: "Total number of collaborator calls by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	CollaboratorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "loan_collaborator_call_duration_seconds",
			Help: "Duration of collaborator calls in seconds",
		},
		[]string{"kind"},
	)

	CallsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loan_collaborator_calls_in_flight",
			Help: "1 while a calculation or submission call is outstanding",
		},
	)

	RegistryApplications = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loan_registry_applications",
			Help: "Number of applications held by the registry",
		},
	)

	PersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loan_registry_persist_failures_total",
			Help: "Registry writes that could not be persisted",
		},
	)

	IdempotencyOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_idempotency_outcomes_total",
			Help: "Idempotency middleware decisions by outcome",
		},
		[]string{"outcome"},
	)
)
