package kmcgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    stepCounter   prometheus.Counter
//	    stepHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordStep(duration time.Duration, err error) {
//	    p.stepCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordStep is called after each single step.
	// duration is the total time taken, err is nil if successful.
	RecordStep(duration time.Duration, err error)

	// RecordRun is called after each run.
	// steps is the number of events the run fired, duration is the total
	// time taken, err is nil if the run reached its bound.
	RecordRun(steps uint64, duration time.Duration, err error)

	// RecordMatch is called after the initial full lattice match.
	// sites is the lattice size, duration is the time taken.
	RecordMatch(sites int, duration time.Duration)

	// RecordSnapshot is called after each snapshot write.
	RecordSnapshot(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordStep(time.Duration, error)        {}
func (NoopMetricsCollector) RecordRun(uint64, time.Duration, error) {}
func (NoopMetricsCollector) RecordMatch(int, time.Duration)         {}
func (NoopMetricsCollector) RecordSnapshot(time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	StepCount       atomic.Int64
	StepErrors      atomic.Int64
	StepTotalNanos  atomic.Int64
	RunCount        atomic.Int64
	RunSteps        atomic.Int64
	RunErrors       atomic.Int64
	RunTotalNanos   atomic.Int64
	MatchCount      atomic.Int64
	MatchSites      atomic.Int64
	MatchTotalNanos atomic.Int64
	SnapshotCount   atomic.Int64
	SnapshotErrors  atomic.Int64
}

// RecordStep implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStep(duration time.Duration, err error) {
	b.StepCount.Add(1)
	b.StepTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.StepErrors.Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(steps uint64, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunSteps.Add(int64(steps)) //nolint:gosec // G115: step counts stay far below int64 range
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordMatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatch(sites int, duration time.Duration) {
	b.MatchCount.Add(1)
	b.MatchSites.Add(int64(sites))
	b.MatchTotalNanos.Add(duration.Nanoseconds())
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		StepCount:      b.StepCount.Load(),
		StepErrors:     b.StepErrors.Load(),
		StepAvgNanos:   b.getAvgStepNanos(),
		RunCount:       b.RunCount.Load(),
		RunSteps:       b.RunSteps.Load(),
		RunErrors:      b.RunErrors.Load(),
		RunAvgNanos:    b.getAvgRunNanos(),
		MatchCount:     b.MatchCount.Load(),
		MatchSites:     b.MatchSites.Load(),
		MatchAvgNanos:  b.getAvgMatchNanos(),
		SnapshotCount:  b.SnapshotCount.Load(),
		SnapshotErrors: b.SnapshotErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgStepNanos() int64 {
	count := b.StepCount.Load()
	if count == 0 {
		return 0
	}
	return b.StepTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgRunNanos() int64 {
	count := b.RunCount.Load()
	if count == 0 {
		return 0
	}
	return b.RunTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgMatchNanos() int64 {
	count := b.MatchCount.Load()
	if count == 0 {
		return 0
	}
	return b.MatchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	StepCount      int64
	StepErrors     int64
	StepAvgNanos   int64
	RunCount       int64
	RunSteps       int64
	RunErrors      int64
	RunAvgNanos    int64
	MatchCount     int64
	MatchSites     int64
	MatchAvgNanos  int64
	SnapshotCount  int64
	SnapshotErrors int64
}
