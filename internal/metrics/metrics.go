package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chainloom_queries_total",
		Help: "Pattern queries executed, labelled by outcome (matched, no_match, unrecognized).",
	}, []string{"outcome"})

	TracesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chainloom_traces_total",
		Help: "Provenance traces executed, labelled by status (ok, not_found).",
	}, []string{"status"})

	PlansExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chainloom_plans_total",
		Help: "Structured query plans executed.",
	})

	SnapshotLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chainloom_snapshot_loads_total",
		Help: "Snapshot imports, labelled by status (ok, error).",
	}, []string{"status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chainloom_http_request_duration_ms",
		Help:    "HTTP request latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"path", "status"})
)
