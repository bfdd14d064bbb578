// Package snapshot reads and writes occupation snapshots.
//
// A snapshot captures the full occupation array of a lattice together
// with the shape it was taken on and the step/time clock, so a run can
// be resumed or inspected without replaying its journal. The payload is
// stored in compressed blocks; a trailing CRC32 covers everything after
// the magic.
//
// File layout, little-endian:
//
//	[magic "KMCS":4]
//	[version:2][flags:2][compression:1][reserved:7]
//	[basis:4][repsA:4][repsB:4][repsC:4][periodic bits:1][reserved:7]
//	[step:8][time:8 float64 bits][numSites:4]
//	payload blocks until numSites bytes are covered
//	[crc32:4]
package snapshot

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unsafe"

	"github.com/hupe1980/kmcgo/core"
	"github.com/hupe1980/kmcgo/lattice"
)

var snapshotMagic = [4]byte{'K', 'M', 'C', 'S'}

const snapshotVersion = uint16(1)

const (
	headerAfterMagicLen = 12
	metaLen             = 4*4 + 8 + 8 + 8 + 4
)

// Meta describes the lattice shape and simulation clock a snapshot was
// taken at.
type Meta struct {
	Basis       int
	Repetitions [3]int
	Periodic    [3]bool
	Step        uint64
	Time        float64
}

// Config returns the lattice configuration of the snapshot.
func (m Meta) Config() lattice.Config {
	return lattice.Config{
		Basis:       m.Basis,
		Repetitions: m.Repetitions,
		Periodic:    m.Periodic,
	}
}

// Matches reports whether the snapshot was taken on a lattice of the
// given shape.
func (m Meta) Matches(cfg lattice.Config) bool {
	return m.Basis == cfg.Basis &&
		m.Repetitions == cfg.Repetitions &&
		m.Periodic == cfg.Periodic
}

// Options contains configuration for writing a snapshot.
type Options struct {
	// Compression selects the block compression algorithm.
	Compression Compression

	// BlockSize is the uncompressed payload size per block.
	BlockSize int
}

// DefaultOptions returns default snapshot options.
var DefaultOptions = Options{
	Compression: CompressionZstd,
	BlockSize:   256 * 1024,
}

func validateMeta(meta Meta, numSites int) error {
	if meta.Basis <= 0 {
		return fmt.Errorf("basis must be positive, got %d", meta.Basis)
	}
	total := uint64(meta.Basis)
	for ax, r := range meta.Repetitions {
		if r <= 0 {
			return fmt.Errorf("repetitions[%d] must be positive, got %d", ax, r)
		}
		if total > (uint64(core.MaxSite)+1)/uint64(r) {
			return fmt.Errorf("lattice shape does not fit the 32-bit site index space")
		}
		total *= uint64(r)
	}
	if total != uint64(numSites) { //nolint:gosec // G115: numSites comes from a slice length or a decoded uint32
		return fmt.Errorf("occupation of %d sites does not match shape with %d sites", numSites, total)
	}
	return nil
}

// typesAsBytes reinterprets the occupation array as raw bytes.
func typesAsBytes(types []core.TypeID) []byte {
	if len(types) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&types[0])), len(types)) //nolint:gosec // zero-copy view, TypeID is one byte
}

// Write serializes the occupation array with its meta to w.
func Write(w io.Writer, meta Meta, types []core.TypeID, optFns ...func(o *Options)) error {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultOptions.BlockSize
	}
	if !opts.Compression.valid() {
		return fmt.Errorf("unknown compression type %d", opts.Compression)
	}
	if err := validateMeta(meta, len(types)); err != nil {
		return err
	}

	if _, err := w.Write(snapshotMagic[:]); err != nil {
		return fmt.Errorf("failed to write snapshot magic: %w", err)
	}
	cw := NewChecksumWriter(w)

	var hdr [headerAfterMagicLen]byte
	binary.LittleEndian.PutUint16(hdr[0:2], snapshotVersion)
	// hdr[2:4] flags reserved
	hdr[4] = byte(opts.Compression)
	// hdr[5:12] reserved
	if _, err := cw.Write(hdr[:]); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}

	var mb [metaLen]byte
	binary.LittleEndian.PutUint32(mb[0:4], uint32(meta.Basis))            //nolint:gosec // G115: checked by validateMeta
	binary.LittleEndian.PutUint32(mb[4:8], uint32(meta.Repetitions[0]))   //nolint:gosec // G115
	binary.LittleEndian.PutUint32(mb[8:12], uint32(meta.Repetitions[1]))  //nolint:gosec // G115
	binary.LittleEndian.PutUint32(mb[12:16], uint32(meta.Repetitions[2])) //nolint:gosec // G115
	var mask byte
	for ax := 0; ax < 3; ax++ {
		if meta.Periodic[ax] {
			mask |= 1 << ax
		}
	}
	mb[16] = mask
	// mb[17:24] reserved
	binary.LittleEndian.PutUint64(mb[24:32], meta.Step)
	binary.LittleEndian.PutUint64(mb[32:40], math.Float64bits(meta.Time))
	binary.LittleEndian.PutUint32(mb[40:44], uint32(len(types))) //nolint:gosec // G115: checked by validateMeta
	if _, err := cw.Write(mb[:]); err != nil {
		return fmt.Errorf("failed to write snapshot meta: %w", err)
	}

	payload := typesAsBytes(types)
	for off := 0; off < len(payload); off += opts.BlockSize {
		end := off + opts.BlockSize
		if end > len(payload) {
			end = len(payload)
		}
		if err := writeBlock(cw, payload[off:end], opts.Compression); err != nil {
			return fmt.Errorf("failed to write snapshot block at byte %d: %w", off, err)
		}
	}

	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], cw.Sum())
	if _, err := w.Write(trailer[:]); err != nil {
		return fmt.Errorf("failed to write snapshot checksum: %w", err)
	}
	return nil
}

// Read deserializes a snapshot and verifies its checksum. The returned
// occupation slice is freshly allocated and caller-owned.
func Read(r io.Reader) (Meta, []core.TypeID, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Meta{}, nil, fmt.Errorf("failed to read snapshot magic: %w", err)
	}
	if magic != snapshotMagic {
		return Meta{}, nil, fmt.Errorf("unsupported snapshot format: invalid magic")
	}

	cr := NewChecksumReader(r)

	var hdr [headerAfterMagicLen]byte
	if _, err := io.ReadFull(cr, hdr[:]); err != nil {
		return Meta{}, nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}
	version := binary.LittleEndian.Uint16(hdr[0:2])
	if version != snapshotVersion {
		return Meta{}, nil, fmt.Errorf("unsupported snapshot version: %d", version)
	}
	comp := Compression(hdr[4])
	if !comp.valid() {
		return Meta{}, nil, fmt.Errorf("unknown compression type %d", comp)
	}

	var mb [metaLen]byte
	if _, err := io.ReadFull(cr, mb[:]); err != nil {
		return Meta{}, nil, fmt.Errorf("failed to read snapshot meta: %w", err)
	}
	meta := Meta{
		Basis: int(binary.LittleEndian.Uint32(mb[0:4])),
		Repetitions: [3]int{
			int(binary.LittleEndian.Uint32(mb[4:8])),
			int(binary.LittleEndian.Uint32(mb[8:12])),
			int(binary.LittleEndian.Uint32(mb[12:16])),
		},
		Step: binary.LittleEndian.Uint64(mb[24:32]),
		Time: math.Float64frombits(binary.LittleEndian.Uint64(mb[32:40])),
	}
	mask := mb[16]
	for ax := 0; ax < 3; ax++ {
		meta.Periodic[ax] = mask&(1<<ax) != 0
	}

	numSites := binary.LittleEndian.Uint32(mb[40:44])
	if err := validateMeta(meta, int(numSites)); err != nil {
		return Meta{}, nil, fmt.Errorf("corrupt snapshot meta: %w", err)
	}

	types := make([]core.TypeID, numSites)
	buf := typesAsBytes(types)
	filled := 0
	for filled < len(buf) {
		block, err := readBlock(cr, comp, len(buf)-filled)
		if err != nil {
			return Meta{}, nil, fmt.Errorf("failed to read snapshot block at byte %d: %w", filled, err)
		}
		copy(buf[filled:], block)
		filled += len(block)
	}

	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return Meta{}, nil, fmt.Errorf("failed to read snapshot checksum: %w", err)
	}
	if err := cr.Verify(binary.LittleEndian.Uint32(trailer[:])); err != nil {
		return Meta{}, nil, err
	}

	return meta, types, nil
}
