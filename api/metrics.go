/*
metrics.go - Prometheus instrumentation for the API

PURPOSE:
  Exposes operational counters for the two expensive paths: ledger
  rebuilds and optimizer runs. Served on GET /metrics.
*/
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerBuilds tracks total ledger rebuilds triggered via the API.
var LedgerBuilds = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "planner",
	Subsystem: "ledger",
	Name:      "builds_total",
	Help:      "Total ledger rebuilds.",
})

// LedgerBuildDuration tracks how long a full rebuild takes.
var LedgerBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "planner",
	Subsystem: "ledger",
	Name:      "build_duration_seconds",
	Help:      "Ledger rebuild duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
})

// LedgerWarnings tracks build diagnostics by warning code.
var LedgerWarnings = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "planner",
	Subsystem: "ledger",
	Name:      "warnings_total",
	Help:      "Total build warnings by code.",
}, []string{"code"})

// SuggestionRuns tracks optimizer runs by strategy.
var SuggestionRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "planner",
	Subsystem: "optimizer",
	Name:      "runs_total",
	Help:      "Total optimizer runs by strategy.",
}, []string{"strategy"})
