package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRunID is returned when a run id is empty or contains a
	// path separator. Run ids become blob name prefixes.
	ErrInvalidRunID = errors.New("run id must be non-empty and must not contain path separators")

	// ErrNoSnapshot is returned when a pushed run names no snapshot file.
	ErrNoSnapshot = errors.New("a run must name a snapshot file")
)

// ErrCorruptArtifact is returned when a fetched artifact does not match
// the checksum recorded in the manifest.
type ErrCorruptArtifact struct {
	Name     string
	Expected uint32
	Actual   uint32
}

func (e *ErrCorruptArtifact) Error() string {
	return fmt.Sprintf("artifact %s is corrupt: expected checksum 0x%08x, got 0x%08x", e.Name, e.Expected, e.Actual)
}
