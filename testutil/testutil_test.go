package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/kmcgo/core"
)

func TestOccupation(t *testing.T) {
	rng := NewRNG(4711)

	types := rng.Occupation(1024, 3)

	assert.Len(t, types, 1024)
	for _, tp := range types {
		assert.Less(t, tp, core.TypeID(3))
	}
}

func TestCoverageOccupation(t *testing.T) {
	rng := NewRNG(4711)

	types := rng.CoverageOccupation(10000, 0.3)

	assert.Len(t, types, 10000)

	occupied := 0
	for _, tp := range types {
		switch tp {
		case 0:
		case 1:
			occupied++
		default:
			t.Fatalf("unexpected type %d", tp)
		}
	}

	ratio := float64(occupied) / float64(len(types))
	assert.InDelta(t, 0.3, ratio, 0.05)
}

func TestIslandOccupation(t *testing.T) {
	rng := NewRNG(42)

	types := rng.IslandOccupation(10000, 5, 0.2)

	assert.Len(t, types, 10000)

	occupied := 0
	for _, tp := range types {
		if tp == 1 {
			occupied++
		}
	}

	// Overlap can only lower the realized coverage.
	assert.LessOrEqual(t, occupied, 2000)
	assert.Positive(t, occupied)

	// Occupied sites form few contiguous runs, not scattered singletons.
	runs := 0
	for i, tp := range types {
		prev := types[(i+len(types)-1)%len(types)]
		if tp == 1 && prev == 0 {
			runs++
		}
	}
	assert.LessOrEqual(t, runs, 5)
}

func TestRates(t *testing.T) {
	rng := NewRNG(4711)

	rates := rng.Rates(100, 1e-3, 1e3)

	assert.Len(t, rates, 100)
	for _, rate := range rates {
		assert.GreaterOrEqual(t, rate, 1e-3)
		assert.Less(t, rate, 1e3)
	}
}

func TestSites(t *testing.T) {
	rng := NewRNG(4711)

	sites := rng.Sites(256, 64)

	assert.Len(t, sites, 256)
	for _, s := range sites {
		assert.Less(t, s, core.Site(64))
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.Occupation(64, 4)

	rng.Reset()
	v2 := rng.Occupation(64, 4)

	assert.Equal(t, v1, v2)
}
