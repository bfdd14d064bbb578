package lattice

import (
	"fmt"

	"github.com/hupe1980/kmcgo/core"
)

// ErrInvalidBasis indicates a non-positive basis size.
type ErrInvalidBasis struct {
	Basis int
}

func (e *ErrInvalidBasis) Error() string {
	return fmt.Sprintf("invalid basis: %d", e.Basis)
}

// ErrInvalidRepetition indicates a non-positive repetition count along one
// axis.
type ErrInvalidRepetition struct {
	Axis  Axis
	Count int
}

func (e *ErrInvalidRepetition) Error() string {
	return fmt.Sprintf("invalid repetition count along %s: %d", e.Axis, e.Count)
}

// ErrTooManySites indicates a shape whose site count does not fit the
// 32-bit index space.
type ErrTooManySites struct {
	Basis       int
	Repetitions [3]int
}

func (e *ErrTooManySites) Error() string {
	return fmt.Sprintf("lattice %dx%dx%d with basis %d does not fit the 32-bit site index space",
		e.Repetitions[0], e.Repetitions[1], e.Repetitions[2], e.Basis)
}

// ErrSiteOutOfRange indicates a site index at or beyond the site count.
type ErrSiteOutOfRange struct {
	Site  core.Site
	Limit uint32
}

func (e *ErrSiteOutOfRange) Error() string {
	return fmt.Sprintf("site %d out of range [0, %d)", e.Site, e.Limit)
}

// ErrCellOutOfRange indicates cell coordinates outside the repetition grid.
type ErrCellOutOfRange struct {
	Cell        Cell
	Repetitions [3]int
}

func (e *ErrCellOutOfRange) Error() string {
	return fmt.Sprintf("cell %s out of range %dx%dx%d",
		e.Cell, e.Repetitions[0], e.Repetitions[1], e.Repetitions[2])
}

// ErrInvalidShells indicates a negative neighbor shell radius.
type ErrInvalidShells struct {
	Shells int
}

func (e *ErrInvalidShells) Error() string {
	return fmt.Sprintf("invalid shell radius: %d", e.Shells)
}
