package journal

import (
	"bufio"
	"fmt"
	"io"
)

// Replay decodes every entry in order and hands it to callback. A
// callback error stops the replay and is returned wrapped. Corruption
// is reported with the position of the failing entry.
func (j *Journal) Replay(callback func(entry Entry) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return ErrClosed
	}

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

	pos := 0
	for {
		var entry Entry
		if err := j.decodeEntry(reader, &entry); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("journal corrupted at entry %d: %w", pos, err)
		}

		if err := callback(entry); err != nil {
			return fmt.Errorf("failed to replay step %d: %w", entry.Step, err)
		}
		pos++
	}

	if _, err := j.file.Seek(0, 2); err != nil {
		return err
	}
	return nil
}
