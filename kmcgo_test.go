package kmcgo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmcgo/core"
	"github.com/hupe1980/kmcgo/engine"
	"github.com/hupe1980/kmcgo/journal"
	"github.com/hupe1980/kmcgo/lattice"
	"github.com/hupe1980/kmcgo/process"
)

func testConfig() lattice.Config {
	return lattice.Config{
		Basis:       1,
		Repetitions: [3]int{4, 4, 4},
		Periodic:    [3]bool{true, true, true},
	}
}

// flipTable never exhausts: every site is always eligible for exactly
// one of the two processes.
func flipTable(t *testing.T) *process.Table {
	t.Helper()

	table, err := process.NewTable(1,
		process.Process{
			Name:   "desorption",
			Rate:   1.0,
			Before: []core.TypeID{1},
			After:  []core.TypeID{0},
		},
		process.Process{
			Name:   "adsorption",
			Rate:   2.0,
			Before: []core.TypeID{0},
			After:  []core.TypeID{1},
		},
	)
	require.NoError(t, err)

	return table
}

// drainTable empties the lattice and then exhausts.
func drainTable(t *testing.T) *process.Table {
	t.Helper()

	table, err := process.NewTable(1,
		process.Process{
			Name:   "desorption",
			Rate:   1.0,
			Before: []core.TypeID{1},
			After:  []core.TypeID{0},
		},
	)
	require.NoError(t, err)

	return table
}

func filledState(n int) []core.TypeID {
	types := make([]core.TypeID, n)
	for i := range types {
		types[i] = 1
	}
	return types
}

func TestSimulation(t *testing.T) {
	ctx := context.Background()

	t.Run("StepAndRun", func(t *testing.T) {
		sim, err := New(testConfig(), flipTable(t), filledState(64), WithSeed(7))
		require.NoError(t, err)
		defer sim.Close()

		ev, err := sim.Step(ctx)
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t, uint64(1), ev.Step)
		assert.Positive(t, ev.TimeDelta)
		require.Len(t, ev.Writes, 1)

		assert.Equal(t, uint64(1), sim.Steps())
		assert.Equal(t, ev.TimeDelta, sim.Time())

		steps, err := sim.Run(ctx, Until{MaxSteps: 50})
		require.NoError(t, err)
		assert.Equal(t, uint64(49), steps)
		assert.Equal(t, uint64(50), sim.Steps())
		assert.Positive(t, sim.TotalRate())
	})

	t.Run("Determinism", func(t *testing.T) {
		a, err := New(testConfig(), flipTable(t), filledState(64), WithSeed(42))
		require.NoError(t, err)
		defer a.Close()

		b, err := New(testConfig(), flipTable(t), filledState(64), WithSeed(42))
		require.NoError(t, err)
		defer b.Close()

		_, err = a.Run(ctx, Until{MaxSteps: 200})
		require.NoError(t, err)
		_, err = b.Run(ctx, Until{MaxSteps: 200})
		require.NoError(t, err)

		assert.Equal(t, a.Steps(), b.Steps())
		assert.Equal(t, a.Time(), b.Time())
		assert.Equal(t, a.State().Snapshot(), b.State().Snapshot())

		c, err := New(testConfig(), flipTable(t), filledState(64), WithSeed(43))
		require.NoError(t, err)
		defer c.Close()

		_, err = c.Run(ctx, Until{MaxSteps: 200})
		require.NoError(t, err)
		assert.NotEqual(t, a.Time(), c.Time())
	})

	t.Run("Exhaustion", func(t *testing.T) {
		sim, err := New(testConfig(), drainTable(t), filledState(64), WithSeed(1))
		require.NoError(t, err)
		defer sim.Close()

		// Every event empties one site, so the run fires exactly once
		// per site before exhausting.
		steps, err := sim.Run(ctx, Until{})
		require.ErrorIs(t, err, ErrExhausted)
		require.ErrorIs(t, err, engine.ErrExhausted)
		assert.Equal(t, uint64(64), steps)
		assert.Equal(t, 64, sim.State().Count(0))
		assert.Zero(t, sim.TotalRate())

		_, err = sim.Step(ctx)
		require.ErrorIs(t, err, ErrExhausted)
	})

	t.Run("ClosedSimulation", func(t *testing.T) {
		sim, err := New(testConfig(), flipTable(t), filledState(64))
		require.NoError(t, err)

		require.NoError(t, sim.Close())
		require.NoError(t, sim.Close())

		_, err = sim.Step(ctx)
		require.ErrorIs(t, err, ErrClosed)

		_, err = sim.Run(ctx, Until{MaxSteps: 1})
		require.ErrorIs(t, err, ErrClosed)

		err = sim.WriteSnapshot(filepath.Join(t.TempDir(), "run.kmcs"))
		require.ErrorIs(t, err, ErrClosed)
	})

	t.Run("ContextCancellation", func(t *testing.T) {
		sim, err := New(testConfig(), flipTable(t), filledState(64))
		require.NoError(t, err)
		defer sim.Close()

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err = sim.Step(canceled)
		require.ErrorIs(t, err, context.Canceled)

		steps, err := sim.Run(canceled, Until{})
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, steps)
	})

	t.Run("ConstructionErrors", func(t *testing.T) {
		table, err := process.NewTable(2,
			process.Process{
				Name:   "desorption",
				Rate:   1.0,
				Before: []core.TypeID{1, core.WildcardType},
				After:  []core.TypeID{0, core.WildcardType},
			},
		)
		require.NoError(t, err)

		_, err = New(testConfig(), table, filledState(64))
		var bm *ErrBasisMismatch
		require.ErrorAs(t, err, &bm)
		assert.Equal(t, 1, bm.LatticeBasis)
		assert.Equal(t, 2, bm.TableBasis)

		_, err = New(testConfig(), flipTable(t), filledState(3))
		var ss *ErrStateSize
		require.ErrorAs(t, err, &ss)
		assert.Equal(t, 64, ss.Want)
		assert.Equal(t, 3, ss.Got)

		_, err = New(lattice.Config{}, flipTable(t), nil)
		require.Error(t, err)
	})

	t.Run("SnapshotRoundTrip", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "run.kmcs")

		sim, err := New(testConfig(), flipTable(t), filledState(64), WithSeed(5))
		require.NoError(t, err)
		defer sim.Close()

		_, err = sim.Run(ctx, Until{MaxSteps: 100})
		require.NoError(t, err)
		require.NoError(t, sim.WriteSnapshot(filename))

		restored, err := NewFromSnapshot(filename, flipTable(t))
		require.NoError(t, err)
		defer restored.Close()

		assert.Equal(t, sim.Steps(), restored.Steps())
		assert.Equal(t, sim.Time(), restored.Time())
		assert.Equal(t, sim.State().Snapshot(), restored.State().Snapshot())

		// Bounds compare against the restored cumulative counters.
		steps, err := restored.Run(ctx, Until{MaxSteps: 150})
		require.NoError(t, err)
		assert.Equal(t, uint64(50), steps)
		assert.Equal(t, uint64(150), restored.Steps())
	})

	t.Run("SnapshotMissingFile", func(t *testing.T) {
		_, err := NewFromSnapshot(filepath.Join(t.TempDir(), "absent.kmcs"), flipTable(t))
		require.ErrorContains(t, err, "failed to open snapshot")
	})

	t.Run("Journaling", func(t *testing.T) {
		dir := t.TempDir()

		sim, err := New(testConfig(), flipTable(t), filledState(64),
			WithSeed(11),
			WithJournal(dir),
		)
		require.NoError(t, err)

		ev, err := sim.Step(ctx)
		require.NoError(t, err)

		steps, err := sim.Run(ctx, Until{MaxSteps: 10})
		require.NoError(t, err)
		assert.Equal(t, uint64(9), steps)
		require.NoError(t, sim.Close())

		jnl, err := journal.New(func(o *journal.Options) {
			o.Path = dir
		})
		require.NoError(t, err)
		defer jnl.Close()

		var entries []journal.Entry
		require.NoError(t, jnl.Replay(func(entry journal.Entry) error {
			entries = append(entries, entry)
			return nil
		}))

		require.Len(t, entries, 10)
		assert.Equal(t, uint64(1), entries[0].Step)
		assert.Equal(t, ev.Anchor, entries[0].Anchor)
		assert.Equal(t, ev.Writes, entries[0].Writes)
		assert.Equal(t, uint64(10), entries[9].Step)
	})

	t.Run("Metrics", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}

		sim, err := New(testConfig(), flipTable(t), filledState(64),
			WithMetricsCollector(metrics),
		)
		require.NoError(t, err)
		defer sim.Close()

		_, err = sim.Step(ctx)
		require.NoError(t, err)
		_, err = sim.Step(ctx)
		require.NoError(t, err)

		_, err = sim.Run(ctx, Until{MaxSteps: 10})
		require.NoError(t, err)

		require.NoError(t, sim.WriteSnapshot(filepath.Join(t.TempDir(), "run.kmcs")))

		stats := metrics.GetStats()
		assert.EqualValues(t, 1, stats.MatchCount)
		assert.EqualValues(t, 64, stats.MatchSites)
		assert.EqualValues(t, 2, stats.StepCount)
		assert.Zero(t, stats.StepErrors)
		assert.EqualValues(t, 1, stats.RunCount)
		assert.EqualValues(t, 8, stats.RunSteps)
		assert.EqualValues(t, 1, stats.SnapshotCount)
		assert.Zero(t, stats.SnapshotErrors)
	})

	t.Run("NilOptions", func(t *testing.T) {
		sim, err := New(testConfig(), flipTable(t), filledState(64),
			nil,
			WithLogger(nil),
			WithMetricsCollector(nil),
		)
		require.NoError(t, err)
		defer sim.Close()

		_, err = sim.Step(ctx)
		require.NoError(t, err)
	})
}

func BenchmarkSimulationStep(b *testing.B) {
	ctx := context.Background()

	table, err := process.NewTable(1,
		process.Process{
			Name:   "desorption",
			Rate:   1.0,
			Before: []core.TypeID{1},
			After:  []core.TypeID{0},
		},
		process.Process{
			Name:   "adsorption",
			Rate:   2.0,
			Before: []core.TypeID{0},
			After:  []core.TypeID{1},
		},
	)
	if err != nil {
		b.Fatalf("NewTable failed: %v", err)
	}

	cfg := lattice.Config{
		Basis:       1,
		Repetitions: [3]int{16, 16, 16},
		Periodic:    [3]bool{true, true, true},
	}

	sim, err := New(cfg, table, filledState(16*16*16))
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	defer sim.Close()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := sim.Step(ctx); err != nil {
			b.Fatalf("Step failed: %v", err)
		}
	}
}
