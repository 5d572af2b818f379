// Package metrics defines the minimal metrics surface used by the intake
// commands and the dataset store.
//
// Core code depends only on Backend; concrete sinks (Datadog, no-op) live in
// subpackages or here. Metric emission must never fail or block the caller:
// backends buffer in memory and submit on Flush.
package metrics

// Labels are free-form metric dimensions (e.g. severity, finding type).
type Labels map[string]string

// Backend is the pluggable metrics sink.
//
// Implementations must be safe for concurrent use and must treat unknown
// metric names as valid: callers never pre-register series.
type Backend interface {
	// IncCounter adds delta to a monotonically increasing counter.
	IncCounter(name string, delta float64, labels Labels)

	// ObserveHistogram records one sample of a distribution.
	ObserveHistogram(name string, value float64, labels Labels)

	// Flush submits buffered metrics to the sink.
	Flush() error

	// Close stops any background work and performs a final Flush.
	Close() error
}

// Metric names emitted by the intake toolkit.
const (
	MetricRowsIngested  = "intake.rows.ingested"
	MetricTablesLoaded  = "intake.tables.loaded"
	MetricFindings      = "intake.findings.total"
	MetricFixesApplied  = "intake.fixes.applied"
	MetricIngestSeconds = "intake.ingest.duration_seconds"
	MetricCheckSeconds  = "intake.validate.duration_seconds"
)

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }
func (nopBackend) Close() error                             { return nil }

// Nop returns a backend that discards everything. It is the default so core
// code can emit unconditionally.
func Nop() Backend { return nopBackend{} }
