package kmcgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kmcgo/engine"
)

var (
	// ErrClosed is returned when an operation is attempted on a closed
	// simulation.
	ErrClosed = errors.New("simulation is closed")

	// ErrExhausted is returned when no eligible process remains anywhere
	// on the lattice.
	ErrExhausted = errors.New("no eligible process remains")
)

// ErrBasisMismatch indicates a process table built for a different basis
// than the lattice.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrBasisMismatch struct {
	LatticeBasis int
	TableBasis   int
	cause        error
}

func (e *ErrBasisMismatch) Error() string {
	return fmt.Sprintf("basis mismatch: lattice basis %d, process table basis %d", e.LatticeBasis, e.TableBasis)
}

func (e *ErrBasisMismatch) Unwrap() error { return e.cause }

// ErrStateSize indicates an initial occupation whose length does not
// match the lattice site count.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrStateSize struct {
	Want  int
	Got   int
	cause error
}

func (e *ErrStateSize) Error() string {
	return fmt.Sprintf("state size mismatch: want %d sites, got %d", e.Want, e.Got)
}

func (e *ErrStateSize) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Exhaustion unification.
	if errors.Is(err, engine.ErrExhausted) {
		return fmt.Errorf("%w: %w", ErrExhausted, err)
	}

	// Construction argument normalization.
	var bm *engine.ErrBasisMismatch
	if errors.As(err, &bm) {
		return &ErrBasisMismatch{LatticeBasis: bm.LatticeBasis, TableBasis: bm.TableBasis, cause: err}
	}
	var ss *engine.ErrStateSize
	if errors.As(err, &ss) {
		return &ErrStateSize{Want: ss.Want, Got: ss.Got, cause: err}
	}

	return err
}
