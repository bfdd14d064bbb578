// Package journal provides an append-only trajectory log.
//
// The journal records every applied event (step, waiting time, process,
// anchor, occupation writes) so a finished or crashed run can be
// replayed against its starting occupation. The file carries a
// self-describing header, so a reader never needs the options the
// writer used.
//
// Features:
//   - Strictly increasing step numbers enforced on Append
//   - Optional zstd stream compression
//   - Configurable fsync behavior (per append or on Sync/Close)
//   - Sequential Replay with corruption reported by entry position
package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Journal is an append-only event log with a single writer.
type Journal struct {
	mu               sync.Mutex
	file             *os.File
	writer           io.Writer
	bufWriter        *bufio.Writer
	compressor       *zstd.Encoder
	decompressor     *zstd.Decoder
	filePath         string
	compressed       bool
	compressionLevel int
	syncEachAppend   bool
	dataOffset       int64
	lastStep         uint64
	entries          int
	scratch          []byte
}

// New opens or creates the journal file inside opts.Path. An existing
// file is scanned so appends continue the recorded step sequence.
func New(optFns ...func(o *Options)) (*Journal, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := os.MkdirAll(opts.Path, 0750); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	filePath := filepath.Join(opts.Path, FileName)

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR, 0600) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	st, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat journal file: %w", err)
	}

	j := &Journal{
		file:             file,
		filePath:         filePath,
		compressionLevel: opts.CompressionLevel,
		syncEachAppend:   opts.Sync,
	}

	if err := j.initializeFile(st, opts); err != nil {
		_ = file.Close()
		return nil, err
	}

	if _, err := j.file.Seek(j.dataOffset, 0); err != nil {
		_ = j.file.Close()
		return nil, fmt.Errorf("failed to seek journal data offset: %w", err)
	}

	if j.compressed {
		level := zstd.EncoderLevelFromZstd(j.compressionLevel)
		compressor, err := zstd.NewWriter(j.file, zstd.WithEncoderLevel(level))
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to create compressor: %w", err)
		}
		j.compressor = compressor
		j.bufWriter = bufio.NewWriter(compressor)
		j.writer = j.bufWriter

		decompressor, err := zstd.NewReader(nil)
		if err != nil {
			_ = compressor.Close()
			_ = file.Close()
			return nil, fmt.Errorf("failed to create decompressor: %w", err)
		}
		j.decompressor = decompressor
	} else {
		j.bufWriter = bufio.NewWriter(j.file)
		j.writer = j.bufWriter
	}

	if err := j.scan(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to scan journal: %w", err)
	}

	return j, nil
}

func (j *Journal) initializeFile(info os.FileInfo, opts Options) error {
	if info.Size() == 0 {
		hdrLen, err := writeJournalHeader(j.file, journalHeaderInfo{
			Compressed:       opts.Compress,
			CompressionLevel: opts.CompressionLevel,
		})
		if err != nil {
			return fmt.Errorf("failed to write journal header: %w", err)
		}
		j.dataOffset = hdrLen
		j.compressed = opts.Compress
		return nil
	}

	// The header wins over the options so a reopened journal keeps its
	// on-disk format.
	hdrInfo, valid, err := readJournalHeader(j.file)
	if err != nil {
		return fmt.Errorf("failed to read journal header: %w", err)
	}
	if !valid {
		return fmt.Errorf("invalid journal header")
	}
	j.dataOffset = hdrInfo.HeaderLen
	j.compressed = hdrInfo.Compressed
	j.compressionLevel = hdrInfo.CompressionLevel
	return nil
}

// scan reads the entry stream to recover the step sequence and entry
// count, stopping at the first corrupt entry, then positions the file
// for appending.
func (j *Journal) scan() error {
	if _, err := j.file.Seek(j.dataOffset, 0); err != nil {
		return err
	}

	var reader io.Reader
	if j.compressed {
		if err := j.decompressor.Reset(j.file); err != nil {
			return fmt.Errorf("failed to reset decompressor: %w", err)
		}
		reader = j.decompressor
	} else {
		reader = bufio.NewReader(j.file)
	}

	for {
		var entry Entry
		if err := j.decodeEntry(reader, &entry); err != nil {
			break
		}
		j.lastStep = entry.Step
		j.entries++
	}

	if _, err := j.file.Seek(0, 2); err != nil {
		return err
	}
	return nil
}

// FilePath returns the path to the journal file.
func (j *Journal) FilePath() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.filePath
}

// Len returns the number of readable entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.entries
}

// LastStep returns the step of the most recent entry, 0 when empty.
func (j *Journal) LastStep() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastStep
}

// Append writes one entry. The entry's step must advance past every
// step already in the journal.
func (j *Journal) Append(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return ErrClosed
	}
	if entry.Step <= j.lastStep {
		return &ErrStepOrder{Last: j.lastStep, Got: entry.Step}
	}

	if err := j.encodeEntry(&entry); err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}
	if err := j.flushLocked(); err != nil {
		return err
	}
	if j.syncEachAppend {
		if err := j.file.Sync(); err != nil {
			return err
		}
	}

	j.lastStep = entry.Step
	j.entries++
	return nil
}

// Sync flushes buffered entries and fsyncs the file.
func (j *Journal) Sync() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return ErrClosed
	}
	if err := j.flushLocked(); err != nil {
		return err
	}
	return j.file.Sync()
}

// Close flushes and closes the journal. Close is idempotent.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}

	var errs []error
	if err := j.bufWriter.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("failed to flush buffer: %w", err))
	}
	if j.compressed && j.compressor != nil {
		if err := j.compressor.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close compressor: %w", err))
		}
	}
	if j.decompressor != nil {
		j.decompressor.Close()
	}
	if err := j.file.Close(); err != nil {
		errs = append(errs, err)
	}
	j.file = nil
	return errors.Join(errs...)
}
