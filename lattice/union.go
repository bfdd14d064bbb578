package lattice

import (
	"sync"

	"github.com/hupe1980/kmcgo/core"
)

// unionScratch bundles the reusable buffers of one union query.
type unionScratch struct {
	set *SiteSet
	buf []core.Site
}

var unionPool = sync.Pool{
	New: func() any {
		return &unionScratch{set: NewSiteSet()}
	},
}

// NeighborUnion returns the union of the default shell windows around each
// given site, sorted ascending with duplicates removed.
//
// The result is owned by the caller. Input order and repeated input sites
// do not affect the output.
func (m *Map) NeighborUnion(sites []core.Site) ([]core.Site, error) {
	return m.NeighborUnionWithin(sites, DefaultShells)
}

// NeighborUnionWithin is NeighborUnion with an explicit shell radius.
func (m *Map) NeighborUnionWithin(sites []core.Site, shells int) ([]core.Site, error) {
	if shells < 0 {
		return nil, &ErrInvalidShells{Shells: shells}
	}

	sc := unionPool.Get().(*unionScratch)
	defer func() {
		sc.set.Clear()
		unionPool.Put(sc)
	}()

	for _, s := range sites {
		var err error
		sc.buf, err = m.AppendNeighbors(sc.buf[:0], s, shells)
		if err != nil {
			return nil, err
		}
		for _, n := range sc.buf {
			sc.set.Add(n)
		}
	}

	out := make([]core.Site, 0, sc.set.Cardinality())
	return sc.set.AppendTo(out), nil
}
