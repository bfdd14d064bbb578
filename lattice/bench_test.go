package lattice

import (
	"fmt"
	"testing"

	"github.com/hupe1980/kmcgo/core"
)

func benchMap(b *testing.B, reps int) *Map {
	b.Helper()
	m, err := New(Config{
		Basis:       2,
		Repetitions: [3]int{reps, reps, reps},
		Periodic:    [3]bool{true, true, true},
	})
	if err != nil {
		b.Fatal(err)
	}
	return m
}

func BenchmarkCellOf(b *testing.B) {
	m := benchMap(b, 32)
	n := uint32(m.NumSites())

	var sink Cell
	b.ReportAllocs()
	for b.Loop() {
		c, err := m.CellOf(core.Site(12345 % n))
		if err != nil {
			b.Fatal(err)
		}
		sink = c
	}
	_ = sink
}

func BenchmarkNeighbors(b *testing.B) {
	for _, shells := range []int{1, 2, 3} {
		b.Run(fmt.Sprintf("shells-%d", shells), func(b *testing.B) {
			m := benchMap(b, 32)

			var sink []core.Site
			b.ReportAllocs()
			for b.Loop() {
				nb, err := m.Neighbors(777, shells)
				if err != nil {
					b.Fatal(err)
				}
				sink = nb
			}
			_ = sink
		})
	}
}

func BenchmarkAppendNeighbors(b *testing.B) {
	m := benchMap(b, 32)
	buf := make([]core.Site, 0, m.MaxNeighbors(1))

	b.ReportAllocs()
	for b.Loop() {
		var err error
		buf, err = m.AppendNeighbors(buf[:0], 777, 1)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNeighborUnion(b *testing.B) {
	for _, n := range []int{1, 8, 64} {
		b.Run(fmt.Sprintf("sites-%d", n), func(b *testing.B) {
			m := benchMap(b, 32)

			sites := make([]core.Site, n)
			for i := range sites {
				sites[i] = core.Site(i * 97 % m.NumSites())
			}

			var sink []core.Site
			b.ReportAllocs()
			for b.Loop() {
				out, err := m.NeighborUnion(sites)
				if err != nil {
					b.Fatal(err)
				}
				sink = out
			}
			_ = sink
		})
	}
}
