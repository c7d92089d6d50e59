// Package metrics holds the Prometheus collectors for the payroll run workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "payrun"

// CommandCenterCache counts cache lookups by result (hit, miss, bypass).
var CommandCenterCache = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "command_center",
	Name:      "cache_lookups_total",
	Help:      "Command Center source data lookups by cache result.",
}, []string{"result"})

var DraftOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "draft",
	Name:      "operations_total",
	Help:      "Draft session operations by operation and outcome.",
}, []string{"operation", "outcome"})

var PreviewRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "preview",
	Name:      "requests_total",
	Help:      "Calculation preview requests by outcome.",
}, []string{"outcome"})

// DisbursementTransitions counts run ledger state transitions.
var DisbursementTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "disbursement",
	Name:      "transitions_total",
	Help:      "Disbursement run state transitions by target state.",
}, []string{"state"})

// ConfirmCoalesced counts confirm calls that joined an in-flight confirm.
var ConfirmCoalesced = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "disbursement",
	Name:      "confirm_coalesced_total",
	Help:      "Confirm requests that shared the result of a concurrent confirm.",
})

var EngineLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "engine",
	Name:      "request_duration_seconds",
	Help:      "Latency of payroll engine calls.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "status"})

var OutboxPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "outbox",
	Name:      "published_total",
	Help:      "Outbox events handled by the producer worker by outcome.",
}, []string{"outcome"})

var ConsumedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "consumer",
	Name:      "events_total",
	Help:      "Events consumed by topic and outcome.",
}, []string{"topic", "outcome"})
