package kmcgo

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hupe1980/kmcgo/core"
	"github.com/hupe1980/kmcgo/engine"
	"github.com/hupe1980/kmcgo/journal"
	"github.com/hupe1980/kmcgo/lattice"
	"github.com/hupe1980/kmcgo/process"
	"github.com/hupe1980/kmcgo/snapshot"
)

// Until bounds a run. Zero fields leave the bound open.
type Until = engine.Until

// Simulation is a kinetic Monte Carlo simulation bound to one periodic
// lattice. It owns the lattice index map, the process table, the
// stepping engine and, optionally, a trajectory journal.
//
// All methods are safe for concurrent use. Stepping itself is
// sequential: Step, Run, WriteSnapshot and Close serialize on an
// internal lock.
type Simulation struct {
	mu      sync.Mutex
	m       *lattice.Map
	procs   *process.Table
	eng     *engine.Engine
	jnl     *journal.Journal
	logger  *Logger
	metrics MetricsCollector
	closed  bool
}

// New creates a simulation over the lattice shape cfg with the given
// process table and initial occupation. initial is indexed by site and
// must cover every site of the lattice.
//
// Construction performs the full initial match, which visits every
// cell once. Use WithParallelMatch to bound its goroutines on large
// lattices.
func New(cfg lattice.Config, procs *process.Table, initial []core.TypeID, optFns ...Option) (*Simulation, error) {
	opts := applyOptions(optFns)

	// Nil collaborators mean disabled.
	if opts.logger == nil {
		opts.logger = NoopLogger()
	}
	if opts.metricsCollector == nil {
		opts.metricsCollector = NoopMetricsCollector{}
	}

	m, err := lattice.New(cfg)
	if err != nil {
		return nil, translateError(err)
	}

	// Create journal if path is specified
	var jnl *journal.Journal
	if opts.journalPath != "" {
		journalOptFns := append([]func(*journal.Options){
			func(o *journal.Options) {
				o.Path = opts.journalPath
			},
		}, opts.journalOptions...)

		jnl, err = journal.New(journalOptFns...)
		if err != nil {
			return nil, fmt.Errorf("kmcgo: failed to create journal: %w", err)
		}
	}

	start := time.Now()
	eng, err := engine.New(m, procs, initial, func(o *engine.Options) {
		o.Seed = opts.seed
		o.Workers = opts.workers
		o.StartStep = opts.startStep
		o.StartTime = opts.startTime
		o.Logger = opts.logger.Logger
	})
	if err != nil {
		if jnl != nil {
			_ = jnl.Close()
		}
		return nil, translateError(err)
	}
	opts.metricsCollector.RecordMatch(m.NumSites(), time.Since(start))

	return &Simulation{
		m:       m,
		procs:   procs,
		eng:     eng,
		jnl:     jnl,
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}, nil
}

// NewFromSnapshot restores a simulation from a snapshot file written by
// WriteSnapshot. The lattice shape and occupation come from the
// snapshot; the step counter and clock resume where the snapshot was
// taken.
//
// procs must be the table the snapshotted run used for the resumed
// trajectory to be meaningful.
func NewFromSnapshot(filename string, procs *process.Table, optFns ...Option) (*Simulation, error) {
	f, err := os.Open(filename) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return nil, fmt.Errorf("kmcgo: failed to open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	meta, types, err := snapshot.Read(f)
	if err != nil {
		return nil, fmt.Errorf("kmcgo: failed to read snapshot: %w", err)
	}

	optFns = append(optFns, withStart(meta.Step, meta.Time))

	return New(meta.Config(), procs, types, optFns...)
}

// Step selects and fires one event. It returns ErrExhausted when no
// process is eligible anywhere on the lattice.
//
// If journaling is enabled and the append fails, the returned event is
// still valid: the state has advanced, only its record is missing.
func (s *Simulation) Step(ctx context.Context) (*engine.Event, error) {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ev, err := s.eng.Step()
	if err == nil && s.jnl != nil {
		if jerr := s.jnl.Append(entryFromEvent(ev)); jerr != nil {
			err = fmt.Errorf("kmcgo: failed to journal step %d: %w", ev.Step, jerr)
		}
	}

	duration := time.Since(start)
	err = translateError(err)
	s.metrics.RecordStep(duration, err)
	s.logger.LogStep(ctx, s.eng.Steps(), s.eng.Time(), err)

	return ev, err
}

// Run fires events until a bound of until is reached, the context is
// canceled, or the lattice exhausts. Without bounds it runs until
// cancellation or exhaustion.
//
// Bounds compare against the cumulative counters, so a run resumed
// from a snapshot continues toward the same totals. Reaching a bound
// returns a nil error; exhaustion returns ErrExhausted. Run returns
// the number of events fired by this call.
func (s *Simulation) Run(ctx context.Context, until Until) (uint64, error) {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	var onEvent func(*engine.Event) error
	if s.jnl != nil {
		onEvent = func(ev *engine.Event) error {
			if err := s.jnl.Append(entryFromEvent(ev)); err != nil {
				return fmt.Errorf("kmcgo: failed to journal step %d: %w", ev.Step, err)
			}
			return nil
		}
	}

	steps, err := s.eng.Run(ctx, until, onEvent)

	duration := time.Since(start)
	err = translateError(err)
	s.metrics.RecordRun(steps, duration, err)
	s.logger.LogRun(ctx, steps, s.eng.Time(), err)

	return steps, err
}

// Steps returns the cumulative step counter.
func (s *Simulation) Steps() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Steps()
}

// Time returns the simulated time.
func (s *Simulation) Time() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Time()
}

// TotalRate returns the summed rate of all eligible processes.
func (s *Simulation) TotalRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.TotalRate()
}

// State returns the live occupation state. Callers must not mutate it
// and must not read it concurrently with Step or Run; use
// State().Snapshot() for an owned copy.
func (s *Simulation) State() *engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.State()
}

// Map returns the lattice index map.
func (s *Simulation) Map() *lattice.Map { return s.m }

// Processes returns the process table.
func (s *Simulation) Processes() *process.Table { return s.procs }

// WriteSnapshot saves the occupation and clock to filename. The file is
// written to a temporary name and renamed into place, so a crash never
// leaves a truncated snapshot behind.
func (s *Simulation) WriteSnapshot(filename string, optFns ...func(o *snapshot.Options)) error {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	meta := snapshot.Meta{
		Basis:       s.m.Basis(),
		Repetitions: s.m.Repetitions(),
		Periodic:    s.m.Periodic(),
		Step:        s.eng.Steps(),
		Time:        s.eng.Time(),
	}
	types := s.eng.State().Snapshot()

	err := writeFileAtomic(filename, func(w io.Writer) error {
		return snapshot.Write(w, meta, types, optFns...)
	})

	duration := time.Since(start)
	s.metrics.RecordSnapshot(duration, err)
	s.logger.LogSnapshot(context.Background(), filename, err)

	return err
}

// Close releases the simulation's resources. If journaling is enabled,
// the journal is flushed and closed. Close is idempotent.
func (s *Simulation) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.jnl != nil {
		if err := s.jnl.Close(); err != nil {
			return fmt.Errorf("kmcgo: failed to close journal: %w", err)
		}
	}
	return nil
}

// entryFromEvent converts a fired event into its journal entry. The
// event owns its writes, so the slice is shared, not copied.
func entryFromEvent(ev *engine.Event) journal.Entry {
	return journal.Entry{
		Step:      ev.Step,
		TimeDelta: ev.TimeDelta,
		Process:   ev.Process,
		Anchor:    ev.Anchor,
		Writes:    ev.Writes,
	}
}

// writeFileAtomic writes a file via a temp name in the same directory
// and renames it into place.
func writeFileAtomic(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0600)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
