package lattice

import (
	"fmt"

	"github.com/hupe1980/kmcgo/core"
)

// DefaultShells is the shell radius of the standard interaction window used
// by NeighborUnion.
const DefaultShells = 1

// Axis identifies one of the three lattice axes in numbering order.
type Axis int

const (
	// AxisA is the slowest varying axis.
	AxisA Axis = iota
	// AxisB is the middle axis.
	AxisB
	// AxisC is the fastest varying cell axis.
	AxisC
)

// String implements fmt.Stringer.
func (a Axis) String() string {
	switch a {
	case AxisA:
		return "a"
	case AxisB:
		return "b"
	case AxisC:
		return "c"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Cell addresses one unit cell by its offsets along the a, b and c axes.
type Cell struct {
	A int
	B int
	C int
}

// String implements fmt.Stringer.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.A, c.B, c.C)
}

// Config describes the shape of a lattice.
type Config struct {
	// Basis is the number of sites per unit cell. Must be positive.
	Basis int

	// Repetitions is the number of unit cells along the a, b and c axes.
	// Each entry must be positive.
	Repetitions [3]int

	// Periodic marks each axis as wrapping (true) or bounded (false).
	Periodic [3]bool
}

// Map is an immutable index map over a periodic three dimensional lattice.
// All methods are safe for concurrent use.
type Map struct {
	basis    int
	reps     [3]int
	periodic [3]bool

	cellsBC  int // reps[1]*reps[2], the a axis stride in cells
	numCells int
	numSites uint32
}

// New validates cfg and builds the index map.
func New(cfg Config) (*Map, error) {
	if cfg.Basis <= 0 {
		return nil, &ErrInvalidBasis{Basis: cfg.Basis}
	}
	for ax, r := range cfg.Repetitions {
		if r <= 0 {
			return nil, &ErrInvalidRepetition{Axis: Axis(ax), Count: r}
		}
	}

	limit := uint64(core.MaxSite) + 1
	total := uint64(cfg.Basis)
	for _, r := range cfg.Repetitions {
		if total > limit/uint64(r) {
			return nil, &ErrTooManySites{Basis: cfg.Basis, Repetitions: cfg.Repetitions}
		}
		total *= uint64(r)
	}
	if total > uint64(core.MaxSite) {
		return nil, &ErrTooManySites{Basis: cfg.Basis, Repetitions: cfg.Repetitions}
	}

	m := &Map{
		basis:    cfg.Basis,
		reps:     cfg.Repetitions,
		periodic: cfg.Periodic,
	}
	m.cellsBC = cfg.Repetitions[1] * cfg.Repetitions[2]
	m.numCells = cfg.Repetitions[0] * m.cellsBC
	m.numSites = uint32(total)

	return m, nil
}

// Basis returns the number of sites per unit cell.
func (m *Map) Basis() int { return m.basis }

// Repetitions returns the number of unit cells along each axis.
func (m *Map) Repetitions() [3]int { return m.reps }

// Periodic returns the wrapping flag of each axis.
func (m *Map) Periodic() [3]bool { return m.periodic }

// NumCells returns the total number of unit cells.
func (m *Map) NumCells() int { return m.numCells }

// NumSites returns the total number of sites.
func (m *Map) NumSites() int { return int(m.numSites) }

// Contains reports whether c lies inside the repetition grid.
func (m *Map) Contains(c Cell) bool {
	return c.A >= 0 && c.A < m.reps[0] &&
		c.B >= 0 && c.B < m.reps[1] &&
		c.C >= 0 && c.C < m.reps[2]
}

// IndexOfCell returns the ordinal of c in cell numbering order.
func (m *Map) IndexOfCell(c Cell) (int, error) {
	if !m.Contains(c) {
		return 0, &ErrCellOutOfRange{Cell: c, Repetitions: m.reps}
	}
	return (c.A*m.reps[1]+c.B)*m.reps[2] + c.C, nil
}

// CellOf returns the unit cell containing site s.
func (m *Map) CellOf(s core.Site) (Cell, error) {
	if uint32(s) >= m.numSites {
		return Cell{}, &ErrSiteOutOfRange{Site: s, Limit: m.numSites}
	}
	ci := int(s) / m.basis
	return Cell{
		A: ci / m.cellsBC,
		B: (ci / m.reps[2]) % m.reps[1],
		C: ci % m.reps[2],
	}, nil
}

// BasisOffset returns the position of site s within its unit cell.
func (m *Map) BasisOffset(s core.Site) (int, error) {
	if uint32(s) >= m.numSites {
		return 0, &ErrSiteOutOfRange{Site: s, Limit: m.numSites}
	}
	return int(s) % m.basis, nil
}

// SitesOfCell returns the sites of cell c in basis order.
func (m *Map) SitesOfCell(c Cell) ([]core.Site, error) {
	out, err := m.AppendSitesOfCell(make([]core.Site, 0, m.basis), c)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AppendSitesOfCell appends the sites of cell c to dst in basis order and
// returns the extended slice.
func (m *Map) AppendSitesOfCell(dst []core.Site, c Cell) ([]core.Site, error) {
	ci, err := m.IndexOfCell(c)
	if err != nil {
		return dst, err
	}
	first := ci * m.basis
	for b := 0; b < m.basis; b++ {
		dst = append(dst, core.Site(first+b))
	}
	return dst, nil
}
