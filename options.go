package kmcgo

import (
	"log/slog"

	"github.com/hupe1980/kmcgo/journal"
)

type options struct {
	seed             int64
	workers          int
	journalPath      string
	journalOptions   []func(*journal.Options)
	metricsCollector MetricsCollector
	logger           *Logger
	startStep        uint64
	startTime        float64
}

// Option configures Simulation constructor behavior.
type Option func(*options)

// WithSeed configures the seed of the random stream.
//
// Two simulations built with the same lattice, process table, initial
// occupation and seed produce identical trajectories. The default seed
// is 1.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithParallelMatch bounds the number of goroutines used for the initial
// full lattice match. Zero or negative means GOMAXPROCS.
//
// The match runs once during construction. Stepping itself is
// sequential, so workers only shorten startup on large lattices.
func WithParallelMatch(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithJournal configures trajectory journaling for the simulation.
// Every fired event is appended to a journal file inside path, so a
// finished or interrupted run can be replayed event by event.
//
// Example:
//
//	sim, err := kmcgo.New(cfg, procs, initial,
//	    kmcgo.WithJournal("./data", func(o *journal.Options) {
//	        o.Compress = true
//	        o.Sync = true
//	    }))
func WithJournal(path string, optFns ...func(*journal.Options)) Option {
	return func(o *options) {
		o.journalPath = path
		o.journalOptions = optFns
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kmcgo.BasicMetricsCollector{}
//	sim, _ := kmcgo.New(cfg, procs, initial, kmcgo.WithMetricsCollector(metrics))
//	// ... use sim ...
//	stats := metrics.GetStats()
//	fmt.Printf("Steps: %d, Avg latency: %dns\n", stats.StepCount, stats.StepAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := kmcgo.NewJSONLogger(slog.LevelInfo)
//	sim, _ := kmcgo.New(cfg, procs, initial, kmcgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// withStart preloads the step and time counters when resuming from a
// snapshot.
func withStart(step uint64, simTime float64) Option {
	return func(o *options) {
		o.startStep = step
		o.startTime = simTime
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		seed:             1,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
