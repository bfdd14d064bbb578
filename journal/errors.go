package journal

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed journal.
var ErrClosed = errors.New("journal is closed")

// ErrStepOrder is returned when an appended entry does not advance the
// step counter.
type ErrStepOrder struct {
	Last uint64
	Got  uint64
}

func (e *ErrStepOrder) Error() string {
	return fmt.Sprintf("journal step %d does not advance past %d", e.Got, e.Last)
}
