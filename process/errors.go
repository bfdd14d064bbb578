package process

import (
	"errors"
	"fmt"
)

// ErrEmptyTable is returned when a table is built without processes.
var ErrEmptyTable = errors.New("process table is empty")

// ErrInvalidBasis indicates a non-positive basis size.
type ErrInvalidBasis struct {
	Basis int
}

func (e *ErrInvalidBasis) Error() string {
	return fmt.Sprintf("invalid basis: %d", e.Basis)
}

// ErrInvalidRate indicates a rate constant that is not positive and
// finite.
type ErrInvalidRate struct {
	Name string
	Rate float64
}

func (e *ErrInvalidRate) Error() string {
	return fmt.Sprintf("process %q: invalid rate %v", e.Name, e.Rate)
}

// ErrInvalidShells indicates a negative shell radius.
type ErrInvalidShells struct {
	Name   string
	Shells int
}

func (e *ErrInvalidShells) Error() string {
	return fmt.Sprintf("process %q: invalid shell radius %d", e.Name, e.Shells)
}

// ErrPatternSize indicates a pattern whose length does not match the
// window demanded by the shell radius.
type ErrPatternSize struct {
	Name  string
	Field string
	Want  int
	Got   int
}

func (e *ErrPatternSize) Error() string {
	return fmt.Sprintf("process %q: %s pattern has %d entries, window needs %d",
		e.Name, e.Field, e.Got, e.Want)
}

// ErrNoEffect indicates a process whose update can never change any site.
type ErrNoEffect struct {
	Name string
}

func (e *ErrNoEffect) Error() string {
	return fmt.Sprintf("process %q: update never changes state", e.Name)
}

// ErrDuplicateName indicates two processes sharing a name.
type ErrDuplicateName struct {
	Name string
}

func (e *ErrDuplicateName) Error() string {
	return fmt.Sprintf("duplicate process name %q", e.Name)
}

// ErrTooManyProcesses indicates a table beyond the 16-bit ID space.
type ErrTooManyProcesses struct {
	Count int
}

func (e *ErrTooManyProcesses) Error() string {
	return fmt.Sprintf("too many processes: %d", e.Count)
}
