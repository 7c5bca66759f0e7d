package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SessionsActive is the number of sessions currently open across every
	// file the orchestrator has in memory.
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rcanvas_sessions_active",
			Help: "Number of sessions currently open",
		},
	)

	// ConnectionsActive is the number of live sockets registered with the
	// orchestrator, across every session.
	ConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rcanvas_connections_active",
			Help: "Number of connections currently registered with the orchestrator",
		},
	)

	// TransactionsTotal counts every transaction the orchestrator has
	// resolved, labeled by its outcome: "committed", "queued", or
	// "rejected".
	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rcanvas_transactions_total",
			Help: "Total number of transactions processed, by outcome",
		},
		[]string{"outcome"},
	)

	// TransactionProcessDuration measures how long a transaction spends in
	// Leader.ProcessTransaction, from Begin through commit or rollback.
	TransactionProcessDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rcanvas_transaction_process_duration_seconds",
			Help:    "Time taken for the leader to process a transaction",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CommandsTotal counts every SessionCommand pkg/transport has decoded
	// and submitted to the orchestrator, labeled by kind ("live_pointer",
	// "transaction", or "unknown").
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rcanvas_commands_total",
			Help: "Total number of session commands dispatched, by kind",
		},
		[]string{"kind"},
	)

	// SessionTerminationsTotal counts sessions torn down, labeled by
	// reason: "empty" (last connection left an auto-terminate session) or
	// "admin_closed" (an admin closed a manual-commit session).
	SessionTerminationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rcanvas_session_terminations_total",
			Help: "Total number of sessions terminated, by reason",
		},
		[]string{"reason"},
	)

	// DocumentObjectsTotal tracks the live (non-tombstoned) object count
	// of the most recently saved snapshot per file, labeled by file id.
	// Cardinality is bounded by how many distinct files a single process
	// has ever persisted, which the filestore's admin registry also caps.
	DocumentObjectsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rcanvas_document_objects_total",
			Help: "Number of live objects in a persisted document, by file id",
		},
		[]string{"file_id"},
	)

	// FileSaveDuration measures how long persisting a document snapshot
	// to the file store takes.
	FileSaveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rcanvas_file_save_duration_seconds",
			Help:    "Time taken to persist a document snapshot",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		SessionsActive,
		ConnectionsActive,
		TransactionsTotal,
		TransactionProcessDuration,
		CommandsTotal,
		SessionTerminationsTotal,
		DocumentObjectsTotal,
		FileSaveDuration,
	)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
