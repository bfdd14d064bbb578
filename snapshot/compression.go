package snapshot

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression algorithm.
type Compression uint8

const (
	// CompressionNone stores blocks raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses zstd block compression (better ratio).
	CompressionZstd Compression = 2
)

func (c Compression) valid() bool { return c <= CompressionZstd }

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Blocks are framed [UncompressedSize:4][CompressedSize:4][data].
// CompressedSize 0 marks a raw block; compression that saves less than
// 10% stores the block raw as well, so a compressed block is always
// smaller than its payload.
const blockHeaderSize = 8

func writeBlock(w io.Writer, data []byte, c Compression) error {
	var compressed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return err
		}
		// n == 0 means incompressible.
		compressed = buf[:n]
	case CompressionZstd:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	}

	var hdr [blockHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(data))) //nolint:gosec // G115: blocks are sized by Options.BlockSize

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		binary.LittleEndian.PutUint32(hdr[4:8], 0)
		if _, err := w.Write(hdr[:]); err != nil {
			return err
		}
		_, err := w.Write(data)
		return err
	}

	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(compressed))) //nolint:gosec // G115: smaller than the payload
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(compressed)
	return err
}

// readBlock reads and decompresses the next block. remaining bounds the
// payload a valid block may still contribute.
func readBlock(r io.Reader, c Compression, remaining int) ([]byte, error) {
	var hdr [blockHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	uncompressedSize := binary.LittleEndian.Uint32(hdr[0:4])
	compressedSize := binary.LittleEndian.Uint32(hdr[4:8])

	if uncompressedSize == 0 {
		return nil, fmt.Errorf("empty block")
	}
	if int64(uncompressedSize) > int64(remaining) {
		return nil, fmt.Errorf("block payload of %d bytes exceeds the %d bytes left to fill", uncompressedSize, remaining)
	}

	if compressedSize == 0 {
		block := make([]byte, uncompressedSize)
		if _, err := io.ReadFull(r, block); err != nil {
			return nil, err
		}
		return block, nil
	}
	if compressedSize >= uncompressedSize {
		return nil, fmt.Errorf("compressed block not smaller than its payload")
	}

	compressed := make([]byte, compressedSize)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, err
	}

	result := make([]byte, uncompressedSize)
	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(compressed, result)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize { //nolint:gosec // G115: n <= len(result)
			return nil, fmt.Errorf("decompressed size mismatch: got %d, want %d", n, uncompressedSize)
		}
		return result, nil

	case CompressionZstd:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(compressed, result[:0])
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != uncompressedSize { //nolint:gosec // G115: bounded by remaining
			return nil, fmt.Errorf("decompressed size mismatch: got %d, want %d", len(decoded), uncompressedSize)
		}
		return decoded, nil

	default:
		return nil, fmt.Errorf("compressed block in a file marked uncompressed")
	}
}
