package archive

import (
	"time"

	"github.com/hupe1980/kmcgo/journal"
)

const (
	// ManifestName is the blob name of a run's manifest.
	ManifestName = "manifest.json"

	// SnapshotName is the blob name of the occupation snapshot.
	SnapshotName = "snapshot.kmcs"

	// JournalName mirrors journal.FileName, so a fetched run directory
	// can be replayed or resumed in place.
	JournalName = journal.FileName

	// manifestVersion guards against manifests written by a newer layout.
	manifestVersion = 1
)

// File records one artifact of an archived run.
type File struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	CRC32 uint32 `json:"crc32"`
}

// Manifest describes an archived run. It is stored as indented JSON so
// a run prefix stays inspectable with plain object store tooling.
type Manifest struct {
	Version     int       `json:"version"`
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
	Basis       int       `json:"basis"`
	Repetitions [3]int    `json:"repetitions"`
	Periodic    [3]bool   `json:"periodic"`
	Steps       uint64    `json:"steps"`
	Time        float64   `json:"time"`
	Files       []File    `json:"files"`
}

// Lookup returns the file entry with the given name.
func (m *Manifest) Lookup(name string) (File, bool) {
	for _, f := range m.Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}
