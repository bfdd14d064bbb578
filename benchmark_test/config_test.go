package benchmark_test

import (
	"testing"

	"github.com/hupe1980/kmcgo"
	"github.com/hupe1980/kmcgo/core"
	"github.com/hupe1980/kmcgo/lattice"
	"github.com/hupe1980/kmcgo/process"
	"github.com/hupe1980/kmcgo/testutil"
)

// Standard cube edges used across benchmarks for consistency.
const (
	edgeSmall  = 16 // 4K sites, fast CI benchmarks
	edgeMedium = 32 // 32K sites
	edgeLarge  = 64 // 262K sites, production-scale
)

// Seed for deterministic benchmarks - enables reproducible comparisons.
const benchSeed = 42

func benchConfig(edge int) lattice.Config {
	return lattice.Config{
		Basis:       1,
		Repetitions: [3]int{edge, edge, edge},
		Periodic:    [3]bool{true, true, true},
	}
}

// flipTable exchanges empty (0) and adsorbed (1) sites. Every site is
// always eligible for exactly one process, so stepping never exhausts
// and all rematch work stays within one cell.
func flipTable(b *testing.B) *process.Table {
	b.Helper()

	table, err := process.NewTable(1,
		process.Process{
			Name:   "adsorption",
			Rate:   2.0,
			Before: []core.TypeID{0},
			After:  []core.TypeID{1},
		},
		process.Process{
			Name:   "desorption",
			Rate:   1.0,
			Before: []core.TypeID{1},
			After:  []core.TypeID{0},
		},
	)
	if err != nil {
		b.Fatal(err)
	}
	return table
}

// surfaceTable is a three-species model with a shell-1 process, so
// every fired event repairs a 3x3x3 neighborhood of anchors. Adsorption
// and desorption exchange 0 and 1, conversion turns an adsorbed site
// into product (2), and recovery empties product sites again, so no
// species is absorbing.
func surfaceTable(b *testing.B) *process.Table {
	b.Helper()

	rng := testutil.NewRNG(benchSeed)
	rates := rng.Rates(4, 1e-2, 1e2)

	// Shell-1 window on a basis-1 lattice: 27 cells with the anchor
	// cell at the center.
	const window = 27
	const center = 13
	before := make([]core.TypeID, window)
	after := make([]core.TypeID, window)
	for i := range before {
		before[i] = core.WildcardType
		after[i] = core.WildcardType
	}
	before[center] = 1
	after[center] = 2

	table, err := process.NewTable(1,
		process.Process{
			Name:   "adsorption",
			Rate:   rates[0],
			Before: []core.TypeID{0},
			After:  []core.TypeID{1},
		},
		process.Process{
			Name:   "desorption",
			Rate:   rates[1],
			Before: []core.TypeID{1},
			After:  []core.TypeID{0},
		},
		process.Process{
			Name:   "conversion",
			Rate:   rates[2],
			Shells: 1,
			Before: before,
			After:  after,
		},
		process.Process{
			Name:   "recovery",
			Rate:   rates[3],
			Before: []core.TypeID{2},
			After:  []core.TypeID{0},
		},
	)
	if err != nil {
		b.Fatal(err)
	}
	return table
}

func benchState(edge int, coverage float64) []core.TypeID {
	rng := testutil.NewRNG(benchSeed)
	return rng.CoverageOccupation(edge*edge*edge, coverage)
}

func newBenchSim(b *testing.B, edge int, table *process.Table, optFns ...kmcgo.Option) *kmcgo.Simulation {
	b.Helper()

	optFns = append([]kmcgo.Option{kmcgo.WithSeed(benchSeed)}, optFns...)

	sim, err := kmcgo.New(benchConfig(edge), table, benchState(edge, 0.5), optFns...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = sim.Close() })

	return sim
}
