package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmcgo/core"
)

func TestMap_NeighborUnion(t *testing.T) {
	m, err := New(Config{Basis: 2, Repetitions: [3]int{4, 4, 4}, Periodic: [3]bool{true, true, true}})
	require.NoError(t, err)

	sites := []core.Site{0, 17, 63}
	got, err := m.NeighborUnion(sites)
	require.NoError(t, err)

	// Reference union via a plain map.
	ref := make(map[core.Site]struct{})
	for _, s := range sites {
		nb, err := m.Neighbors(s, DefaultShells)
		require.NoError(t, err)
		for _, n := range nb {
			ref[n] = struct{}{}
		}
	}

	require.Len(t, got, len(ref))
	for i, n := range got {
		if i > 0 {
			assert.Less(t, got[i-1], n, "entry %d", i)
		}
		_, ok := ref[n]
		assert.True(t, ok, "unexpected site %d", n)
	}
}

func TestMap_NeighborUnion_CoversSmallLattice(t *testing.T) {
	// On a 2x2x2 periodic lattice a single window reaches every site.
	m, err := New(Config{Basis: 2, Repetitions: [3]int{2, 2, 2}, Periodic: [3]bool{true, true, true}})
	require.NoError(t, err)

	got, err := m.NeighborUnion([]core.Site{5})
	require.NoError(t, err)

	require.Len(t, got, 16)
	for i, n := range got {
		assert.Equal(t, core.Site(i), n)
	}
}

func TestMap_NeighborUnion_InputOrderIndependent(t *testing.T) {
	m, err := New(Config{Basis: 1, Repetitions: [3]int{5, 5, 5}})
	require.NoError(t, err)

	inputs := [][]core.Site{
		{3, 62, 124, 0},
		{0, 3, 62, 124},
		{124, 62, 3, 0},
		{62, 0, 124, 3, 62, 0},
	}

	want, err := m.NeighborUnion(inputs[0])
	require.NoError(t, err)
	require.NotEmpty(t, want)

	for i, in := range inputs[1:] {
		got, err := m.NeighborUnion(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %d", i+1)
	}
}

func TestMap_NeighborUnion_Empty(t *testing.T) {
	m, err := New(Config{Basis: 1, Repetitions: [3]int{2, 2, 2}})
	require.NoError(t, err)

	got, err := m.NeighborUnion(nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMap_NeighborUnion_PropagatesErrors(t *testing.T) {
	m, err := New(Config{Basis: 1, Repetitions: [3]int{2, 2, 2}})
	require.NoError(t, err)

	got, err := m.NeighborUnion([]core.Site{0, 8})
	var er *ErrSiteOutOfRange
	require.ErrorAs(t, err, &er)
	assert.Nil(t, got)
	assert.Equal(t, core.Site(8), er.Site)
}

func TestMap_NeighborUnionWithin(t *testing.T) {
	m, err := New(Config{Basis: 2, Repetitions: [3]int{3, 3, 3}})
	require.NoError(t, err)

	// Radius zero unions the home cells.
	got, err := m.NeighborUnionWithin([]core.Site{1, 0, 53}, 0)
	require.NoError(t, err)
	assert.Equal(t, []core.Site{0, 1, 52, 53}, got)

	_, err = m.NeighborUnionWithin([]core.Site{0}, -2)
	var es *ErrInvalidShells
	require.ErrorAs(t, err, &es)
}
