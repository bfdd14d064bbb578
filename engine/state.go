package engine

import (
	"github.com/hupe1980/kmcgo/core"
)

// State holds the occupation type of every lattice site plus a version
// counter bumped on every effective write.
type State struct {
	types   []core.TypeID
	version uint64
}

// NewState creates a state of n sites, all set to fill.
func NewState(n int, fill core.TypeID) *State {
	types := make([]core.TypeID, n)
	if fill != 0 {
		for i := range types {
			types[i] = fill
		}
	}
	return &State{types: types}
}

// NewStateFrom copies types into a fresh state.
func NewStateFrom(types []core.TypeID) *State {
	return &State{types: append([]core.TypeID(nil), types...)}
}

// Len returns the number of sites.
func (s *State) Len() int { return len(s.types) }

// TypeAt returns the occupation of site st. It panics if st is out of
// range.
func (s *State) TypeAt(st core.Site) core.TypeID { return s.types[st] }

// Version returns the mutation counter.
func (s *State) Version() uint64 { return s.version }

// Snapshot returns a copy of all occupations in site order.
func (s *State) Snapshot() []core.TypeID {
	return append([]core.TypeID(nil), s.types...)
}

// Count returns the number of sites with occupation tp.
func (s *State) Count(tp core.TypeID) int {
	n := 0
	for _, v := range s.types {
		if v == tp {
			n++
		}
	}
	return n
}

// set writes tp at st and reports whether the occupation changed.
func (s *State) set(st core.Site, tp core.TypeID) bool {
	if s.types[st] == tp {
		return false
	}
	s.types[st] = tp
	s.version++
	return true
}
