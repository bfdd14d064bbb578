package lattice

import (
	"github.com/hupe1980/kmcgo/core"
)

// MaxNeighbors returns the entry count of a complete window of the given
// shell radius: the basis times the cube of the window edge 2*shells+1.
// Aperiodic clipping can only produce fewer entries.
func (m *Map) MaxNeighbors(shells int) int {
	if shells < 0 {
		return 0
	}
	edge := 2*shells + 1
	return m.basis * edge * edge * edge
}

// Neighbors returns the sites of the cubic cell window of the given shell
// radius around the cell of s.
//
// Window cells are visited with the a offset varying slowest and the c
// offset fastest, each from -shells to +shells, and every visited cell
// contributes its sites in basis order. Along a periodic axis an offset
// outside the grid wraps by exactly one period; along a bounded axis it is
// dropped. Cells reached more than once through wrapping repeat in the
// result.
//
// A shell radius of zero yields exactly the sites of the cell of s.
func (m *Map) Neighbors(s core.Site, shells int) ([]core.Site, error) {
	out, err := m.AppendNeighbors(make([]core.Site, 0, m.MaxNeighbors(shells)), s, shells)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AppendNeighbors appends the window sites of s to dst and returns the
// extended slice. See Neighbors for the enumeration contract.
func (m *Map) AppendNeighbors(dst []core.Site, s core.Site, shells int) ([]core.Site, error) {
	if shells < 0 {
		return dst, &ErrInvalidShells{Shells: shells}
	}
	if uint32(s) >= m.numSites {
		return dst, &ErrSiteOutOfRange{Site: s, Limit: m.numSites}
	}

	ci := int(s) / m.basis
	ca := ci / m.cellsBC
	cb := (ci / m.reps[2]) % m.reps[1]
	cc := ci % m.reps[2]

	for i := ca - shells; i <= ca+shells; i++ {
		ii := i
		if m.periodic[0] {
			if ii < 0 {
				ii += m.reps[0]
			} else if ii >= m.reps[0] {
				ii -= m.reps[0]
			}
		}
		// Wrapping shifts by one period only, so offsets beyond a full
		// period stay out of range and are dropped like bounded ones.
		if ii < 0 || ii >= m.reps[0] {
			continue
		}
		rowA := ii * m.reps[1]

		for j := cb - shells; j <= cb+shells; j++ {
			jj := j
			if m.periodic[1] {
				if jj < 0 {
					jj += m.reps[1]
				} else if jj >= m.reps[1] {
					jj -= m.reps[1]
				}
			}
			if jj < 0 || jj >= m.reps[1] {
				continue
			}
			rowB := (rowA + jj) * m.reps[2]

			for k := cc - shells; k <= cc+shells; k++ {
				kk := k
				if m.periodic[2] {
					if kk < 0 {
						kk += m.reps[2]
					} else if kk >= m.reps[2] {
						kk -= m.reps[2]
					}
				}
				if kk < 0 || kk >= m.reps[2] {
					continue
				}

				first := (rowB + kk) * m.basis
				for b := 0; b < m.basis; b++ {
					dst = append(dst, core.Site(first+b))
				}
			}
		}
	}

	return dst, nil
}
