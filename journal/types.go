package journal

import (
	"github.com/hupe1980/kmcgo/core"
)

// FileName is the journal file created inside Options.Path.
const FileName = "trajectory.kmcj"

// Entry is one applied event in the trajectory.
type Entry struct {
	// Step is the step counter after the event fired. Entries carry
	// strictly increasing steps.
	Step uint64

	// TimeDelta is the waiting time the event consumed.
	TimeDelta float64

	// Process identifies the fired process in the table the run used.
	Process core.ProcessID

	// Anchor is the anchor site the process fired at.
	Anchor core.Site

	// Writes lists the occupation changes in window order.
	Writes []core.SiteWrite
}

// Options contains configuration for the journal.
type Options struct {
	// Path is the directory where the journal file is stored.
	Path string

	// Compress enables zstd stream compression. Trajectories compress
	// well because consecutive events touch nearby sites.
	Compress bool

	// CompressionLevel sets the zstd compression level (1-22).
	CompressionLevel int

	// Sync fsyncs after every append. Off, the file is synced on Sync
	// and Close only.
	Sync bool
}

// DefaultOptions returns default journal options.
var DefaultOptions = Options{
	Path:             ".",
	Compress:         false,
	CompressionLevel: 3,
	Sync:             false,
}
