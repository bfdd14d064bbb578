package engine

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kmcgo/core"
	"github.com/hupe1980/kmcgo/lattice"
)

// ErrExhausted is returned when no process is eligible anywhere on the
// lattice.
var ErrExhausted = errors.New("no eligible process on the lattice")

// ErrBasisMismatch indicates a process table built for a different basis
// than the lattice.
type ErrBasisMismatch struct {
	LatticeBasis int
	TableBasis   int
}

func (e *ErrBasisMismatch) Error() string {
	return fmt.Sprintf("basis mismatch: lattice has %d, process table expects %d",
		e.LatticeBasis, e.TableBasis)
}

// ErrStateSize indicates an initial state whose length does not match the
// site count.
type ErrStateSize struct {
	Want int
	Got  int
}

func (e *ErrStateSize) Error() string {
	return fmt.Sprintf("initial state has %d sites, lattice has %d", e.Got, e.Want)
}

// ErrInvalidOccupation indicates a wildcard occupation in an initial
// state.
type ErrInvalidOccupation struct {
	Site core.Site
}

func (e *ErrInvalidOccupation) Error() string {
	return fmt.Sprintf("site %d: wildcard is not a valid occupation", e.Site)
}

// ErrWindowTooWide indicates a process radius beyond a periodic axis
// extent, which would break incremental rate repair.
type ErrWindowTooWide struct {
	Axis   lattice.Axis
	Shells int
	Extent int
}

func (e *ErrWindowTooWide) Error() string {
	return fmt.Sprintf("process radius %d exceeds periodic axis %s extent %d",
		e.Shells, e.Axis, e.Extent)
}
