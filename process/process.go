// Package process defines elementary lattice processes and the validated,
// immutable process table of a simulation.
//
// A process is a pattern over the cell window around an anchor site
// together with the occupation update written when the process fires. The
// pattern runs in window order: the sites the lattice enumerates for the
// anchor with the process shell radius. Anchors are the first basis site
// of each cell.
package process

import (
	"math"
	"slices"

	"github.com/hupe1980/kmcgo/core"
)

// Process is one elementary event type.
type Process struct {
	// Name identifies the process in logs and trajectories.
	Name string

	// Rate is the rate constant in events per unit time. Must be positive
	// and finite.
	Rate float64

	// Shells is the shell radius of the pattern window.
	Shells int

	// Before is the occupation pattern that must match for the process to
	// be eligible at an anchor. WildcardType entries match any occupation.
	Before []core.TypeID

	// After is the update written when the process fires. WildcardType
	// entries leave the site untouched.
	After []core.TypeID
}

// WindowLen returns the pattern length demanded by the shell radius on a
// lattice with the given basis.
func (p *Process) WindowLen(basis int) int {
	edge := 2*p.Shells + 1
	return basis * edge * edge * edge
}

// Validate checks the process against a lattice basis.
func (p *Process) Validate(basis int) error {
	if p.Rate <= 0 || math.IsInf(p.Rate, 0) || math.IsNaN(p.Rate) {
		return &ErrInvalidRate{Name: p.Name, Rate: p.Rate}
	}
	if p.Shells < 0 {
		return &ErrInvalidShells{Name: p.Name, Shells: p.Shells}
	}

	want := p.WindowLen(basis)
	if len(p.Before) != want {
		return &ErrPatternSize{Name: p.Name, Field: "before", Want: want, Got: len(p.Before)}
	}
	if len(p.After) != want {
		return &ErrPatternSize{Name: p.Name, Field: "after", Want: want, Got: len(p.After)}
	}

	// An update entry can change state only if it writes a concrete type
	// over a wildcard match or over a different matched type.
	effective := false
	for i, tp := range p.After {
		if tp == core.WildcardType {
			continue
		}
		if p.Before[i] == core.WildcardType || p.Before[i] != tp {
			effective = true
			break
		}
	}
	if !effective {
		return &ErrNoEffect{Name: p.Name}
	}

	return nil
}

// Table is an immutable, validated collection of processes addressed by
// dense ProcessIDs in declaration order.
type Table struct {
	basis     int
	procs     []Process
	byName    map[string]core.ProcessID
	byShells  map[int][]core.ProcessID
	radii     []int
	maxShells int
}

// NewTable validates every process against the basis and builds the table.
func NewTable(basis int, procs ...Process) (*Table, error) {
	if basis <= 0 {
		return nil, &ErrInvalidBasis{Basis: basis}
	}
	if len(procs) == 0 {
		return nil, ErrEmptyTable
	}
	if len(procs) > int(core.MaxProcessID)+1 {
		return nil, &ErrTooManyProcesses{Count: len(procs)}
	}

	t := &Table{
		basis:    basis,
		procs:    make([]Process, len(procs)),
		byName:   make(map[string]core.ProcessID, len(procs)),
		byShells: make(map[int][]core.ProcessID),
	}

	for i, p := range procs {
		if err := p.Validate(basis); err != nil {
			return nil, err
		}
		if _, ok := t.byName[p.Name]; ok {
			return nil, &ErrDuplicateName{Name: p.Name}
		}

		// The table owns its pattern slices.
		cp := p
		cp.Before = append([]core.TypeID(nil), p.Before...)
		cp.After = append([]core.TypeID(nil), p.After...)
		t.procs[i] = cp

		id := core.ProcessID(i)
		t.byName[p.Name] = id
		t.byShells[p.Shells] = append(t.byShells[p.Shells], id)
		if p.Shells > t.maxShells {
			t.maxShells = p.Shells
		}
	}

	t.radii = make([]int, 0, len(t.byShells))
	for r := range t.byShells {
		t.radii = append(t.radii, r)
	}
	slices.Sort(t.radii)

	return t, nil
}

// Len returns the number of processes.
func (t *Table) Len() int { return len(t.procs) }

// Basis returns the lattice basis the table was validated against.
func (t *Table) Basis() int { return t.basis }

// MaxShells returns the largest shell radius in the table.
func (t *Table) MaxShells() int { return t.maxShells }

// At returns the process with the given ID. It panics if id is out of
// range.
func (t *Table) At(id core.ProcessID) *Process {
	return &t.procs[id]
}

// ByName returns the ID of the named process.
func (t *Table) ByName(name string) (core.ProcessID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// ShellRadii returns the distinct shell radii in ascending order. The
// returned slice is shared; treat it as read only.
func (t *Table) ShellRadii() []int {
	return t.radii
}

// WithShells returns the IDs of all processes with the given shell radius
// in table order. The returned slice is shared; treat it as read only.
func (t *Table) WithShells(shells int) []core.ProcessID {
	return t.byShells[shells]
}
