package engine

import (
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/kmcgo/core"
	"github.com/hupe1980/kmcgo/internal/fenwick"
	"github.com/hupe1980/kmcgo/lattice"
	"github.com/hupe1980/kmcgo/process"
)

// progressInterval throttles run progress logging.
const progressInterval = time.Second

// Options contains configuration for the engine.
type Options struct {
	// Seed initializes the random stream.
	Seed int64

	// Workers bounds the goroutines of the initial full match. Zero means
	// GOMAXPROCS.
	Workers int

	// StartStep and StartTime preload the counters when resuming from a
	// snapshot.
	StartStep uint64
	StartTime float64

	// Logger receives progress output. Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns default engine options.
var DefaultOptions = Options{
	Seed: 1,
}

// Engine drives the kinetic Monte Carlo loop over one lattice.
type Engine struct {
	m     *lattice.Map
	procs *process.Table
	state *State

	tree     *fenwick.Tree
	eligible [][]core.ProcessID

	basis     int
	numCells  int
	maxShells int
	radii     []int

	rng      *rand.Rand
	logger   *slog.Logger
	progress *rate.Limiter

	steps uint64
	time  float64

	winBuf   []core.Site
	writeBuf []core.SiteWrite
	siteBuf  []core.Site
}

// New builds an engine over m with the given process table and initial
// occupations, and performs the full initial match.
func New(m *lattice.Map, table *process.Table, initial []core.TypeID, optFns ...func(*Options)) (*Engine, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if table.Basis() != m.Basis() {
		return nil, &ErrBasisMismatch{LatticeBasis: m.Basis(), TableBasis: table.Basis()}
	}
	if len(initial) != m.NumSites() {
		return nil, &ErrStateSize{Want: m.NumSites(), Got: len(initial)}
	}
	for i, tp := range initial {
		if tp == core.WildcardType {
			return nil, &ErrInvalidOccupation{Site: core.Site(i)}
		}
	}

	reps := m.Repetitions()
	periodic := m.Periodic()
	for ax := 0; ax < 3; ax++ {
		if periodic[ax] && table.MaxShells() > reps[ax] {
			return nil, &ErrWindowTooWide{
				Axis:   lattice.Axis(ax),
				Shells: table.MaxShells(),
				Extent: reps[ax],
			}
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine{
		m:         m,
		procs:     table,
		state:     NewStateFrom(initial),
		tree:      fenwick.New(m.NumCells()),
		eligible:  make([][]core.ProcessID, m.NumCells()),
		basis:     m.Basis(),
		numCells:  m.NumCells(),
		maxShells: table.MaxShells(),
		radii:     table.ShellRadii(),
		rng:       rand.New(rand.NewSource(opts.Seed)), //nolint:gosec // G404: reproducible trajectories need a seeded stream
		logger:    logger,
		progress:  rate.NewLimiter(rate.Every(progressInterval), 1),
		steps:     opts.StartStep,
		time:      opts.StartTime,
		winBuf:    make([]core.Site, 0, m.MaxNeighbors(table.MaxShells())),
	}

	if err := e.matchAll(opts.Workers); err != nil {
		return nil, err
	}

	return e, nil
}

// Steps returns the cumulative step counter.
func (e *Engine) Steps() uint64 { return e.steps }

// Time returns the simulated time.
func (e *Engine) Time() float64 { return e.time }

// TotalRate returns the summed rate of all eligible processes.
func (e *Engine) TotalRate() float64 { return e.tree.Total() }

// State returns the live occupation state. Callers must not mutate it
// while stepping.
func (e *Engine) State() *State { return e.state }

// Map returns the lattice index map.
func (e *Engine) Map() *lattice.Map { return e.m }

// Processes returns the process table.
func (e *Engine) Processes() *process.Table { return e.procs }
