package journal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/kmcgo/core"
)

// Entry format, little-endian:
// [Step:8][TimeDelta:8 float64 bits][Process:2][Anchor:4][NumWrites:4]
// then NumWrites x [Site:4][Type:1].
const entryFixedLen = 8 + 8 + 2 + 4 + 4

const writeLen = 4 + 1

// maxEntryWrites bounds the write list of a single entry. No process
// window comes near this size, so a larger count marks a corrupt file.
const maxEntryWrites = 1 << 20

// encodeEntry writes an entry in binary format.
func (j *Journal) encodeEntry(entry *Entry) error {
	n := len(entry.Writes)
	if n > maxEntryWrites {
		return fmt.Errorf("journal entry carries %d writes, format limit is %d", n, maxEntryWrites)
	}

	var fixed [entryFixedLen]byte
	binary.LittleEndian.PutUint64(fixed[0:8], entry.Step)
	binary.LittleEndian.PutUint64(fixed[8:16], math.Float64bits(entry.TimeDelta))
	binary.LittleEndian.PutUint16(fixed[16:18], uint16(entry.Process))
	binary.LittleEndian.PutUint32(fixed[18:22], uint32(entry.Anchor))
	binary.LittleEndian.PutUint32(fixed[22:26], uint32(n)) //nolint:gosec // G115: bounded above

	if _, err := j.writer.Write(fixed[:]); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	j.scratch = j.scratch[:0]
	for _, w := range entry.Writes {
		j.scratch = binary.LittleEndian.AppendUint32(j.scratch, uint32(w.Site))
		j.scratch = append(j.scratch, byte(w.Type))
	}
	_, err := j.writer.Write(j.scratch)
	return err
}

// decodeEntry reads an entry in binary format. It returns io.EOF at a
// clean stream end and io.ErrUnexpectedEOF on a truncated entry.
func (j *Journal) decodeEntry(reader io.Reader, entry *Entry) error {
	var fixed [entryFixedLen]byte
	if n, err := io.ReadFull(reader, fixed[:]); err != nil {
		// A compression frame that was flushed but never finished ends
		// exactly on an entry boundary; that is a clean end of stream.
		if n == 0 && errors.Is(err, io.ErrUnexpectedEOF) {
			return io.EOF
		}
		return err
	}

	entry.Step = binary.LittleEndian.Uint64(fixed[0:8])
	entry.TimeDelta = math.Float64frombits(binary.LittleEndian.Uint64(fixed[8:16]))
	entry.Process = core.ProcessID(binary.LittleEndian.Uint16(fixed[16:18]))
	entry.Anchor = core.Site(binary.LittleEndian.Uint32(fixed[18:22]))

	n := binary.LittleEndian.Uint32(fixed[22:26])
	if n > maxEntryWrites {
		return fmt.Errorf("journal entry write count %d exceeds format limit %d", n, maxEntryWrites)
	}
	if n == 0 {
		entry.Writes = nil
		return nil
	}

	if cap(j.scratch) < int(n)*writeLen {
		j.scratch = make([]byte, int(n)*writeLen)
	}
	buf := j.scratch[:int(n)*writeLen]
	if _, err := io.ReadFull(reader, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}

	entry.Writes = make([]core.SiteWrite, n)
	for i := range entry.Writes {
		off := i * writeLen
		entry.Writes[i] = core.SiteWrite{
			Site: core.Site(binary.LittleEndian.Uint32(buf[off : off+4])),
			Type: core.TypeID(buf[off+4]),
		}
	}
	return nil
}

func (j *Journal) flushLocked() error {
	if err := j.bufWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}
	if j.compressed {
		if err := j.compressor.Flush(); err != nil {
			return fmt.Errorf("failed to flush compressor: %w", err)
		}
	}
	return nil
}
