/*
Package metrics provides Prometheus metrics collection and exposition for the
canvas server.

The package defines and registers every metric using the Prometheus client
library, giving observability into session/connection churn, transaction
outcomes, and persisted document size. Metrics are exposed via an HTTP
endpoint for scraping by a Prometheus server.

# Architecture

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │          Prometheus Registry                 │          │
	│  │  - Global DefaultRegistry                    │          │
	│  │  - MustRegister at package init              │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │              Metric Categories                │          │
	│  │                                               │          │
	│  │  Orchestrator: sessions/connections active   │          │
	│  │  Transactions: outcome counts, process time  │          │
	│  │  Commands: dispatched session commands       │          │
	│  │  Documents: live object count per file       │          │
	│  │  File store: snapshot save latency           │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          HTTP Metrics Endpoint                │          │
	│  │  - Path: /metrics                            │          │
	│  │  - Format: Prometheus text exposition         │          │
	│  │  - Handler: Handler()                        │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Gauges updated in place

SessionsActive and ConnectionsActive are updated directly by
pkg/orchestrator's single-writer loop after every Connect, Disconnect, and
terminateSession call — there is no polling involved, since the orchestrator
is the only goroutine permitted to read its own session/connection maps.

# Polled gauges

DocumentObjectsTotal is sampled on a ticker by Collector, which walks every
file id a DocumentSource (pkg/filestore's admin registry) knows about and
loads its current snapshot to count live objects. This is deliberately kept
separate from the orchestrator's in-memory state: a file can be persisted and
offline (no open session) and still want a size gauge.

# Counters

TransactionsTotal is incremented inline wherever pkg/orchestrator resolves a
transaction, labeled by outcome. CommandsTotal is incremented by
pkg/transport's read loop as it submits each decoded command, labeled by kind.
SessionTerminationsTotal is incremented wherever a session is torn down,
labeled by why.

# Health and readiness

health.go provides a small component registry independent of the Prometheus
metrics above: RegisterComponent/UpdateComponent let any long-lived
subsystem (the orchestrator's run loop, the file store, the transport
listener) report its own up/down status, and HealthHandler/ReadyHandler/
LivenessHandler expose /health, /ready, and /live for a process supervisor.
GetReadiness treats "orchestrator", "filestore", and "transport" as critical:
any one of them missing or unhealthy reports not_ready.

# Timer

Timer is a small stopwatch helper: NewTimer captures a start time, and
ObserveDuration/ObserveDurationVec record the elapsed time to a histogram (or
labeled histogram) when the operation being timed completes.
*/
package metrics
