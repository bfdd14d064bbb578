package snapshot

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmcgo/core"
	"github.com/hupe1980/kmcgo/lattice"
)

func sampleMeta() Meta {
	return Meta{
		Basis:       2,
		Repetitions: [3]int{4, 4, 4},
		Periodic:    [3]bool{true, false, true},
		Step:        1234,
		Time:        0.125,
	}
}

func sampleTypes(n int) []core.TypeID {
	types := make([]core.TypeID, n)
	for i := range types {
		types[i] = core.TypeID(i % 3)
	}
	return types
}

func TestSnapshot_RoundTrip(t *testing.T) {
	meta := sampleMeta()
	types := sampleTypes(128)

	for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(comp.String(), func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, meta, types, func(o *Options) {
				o.Compression = comp
			})
			require.NoError(t, err)

			gotMeta, gotTypes, err := Read(&buf)
			require.NoError(t, err)
			assert.Equal(t, meta, gotMeta)
			assert.Equal(t, types, gotTypes)
		})
	}
}

func TestSnapshot_MultiBlock(t *testing.T) {
	meta := Meta{Basis: 3, Repetitions: [3]int{10, 10, 10}, Step: 7, Time: 2.5}
	types := sampleTypes(3000)

	var buf bytes.Buffer
	err := Write(&buf, meta, types, func(o *Options) {
		o.Compression = CompressionZstd
		o.BlockSize = 256
	})
	require.NoError(t, err)

	gotMeta, gotTypes, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, meta, gotMeta)
	assert.Equal(t, types, gotTypes)
}

func TestSnapshot_IncompressiblePayload(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) //nolint:gosec // G404: deterministic test data
	types := make([]core.TypeID, 512)
	for i := range types {
		types[i] = core.TypeID(rng.Intn(200))
	}
	meta := Meta{Basis: 1, Repetitions: [3]int{8, 8, 8}, Step: 1, Time: 1}

	// Random bytes defeat LZ4, so blocks fall back to raw storage.
	var buf bytes.Buffer
	err := Write(&buf, meta, types, func(o *Options) {
		o.Compression = CompressionLZ4
		o.BlockSize = 128
	})
	require.NoError(t, err)

	_, gotTypes, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, types, gotTypes)
}

func TestSnapshot_DetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleMeta(), sampleTypes(128), func(o *Options) {
		o.Compression = CompressionNone
	})
	require.NoError(t, err)

	data := buf.Bytes()
	data[len(data)-10] ^= 0xFF

	_, _, err = Read(bytes.NewReader(data))
	var mismatch *ErrChecksumMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.NotEqual(t, mismatch.Expected, mismatch.Actual)
}

func TestSnapshot_Truncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleMeta(), sampleTypes(128)))

	data := buf.Bytes()
	_, _, err := Read(bytes.NewReader(data[:len(data)-5]))
	require.Error(t, err)
}

func TestSnapshot_InvalidMagic(t *testing.T) {
	_, _, err := Read(bytes.NewReader([]byte("NOPE....five more")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid magic")
}

func TestSnapshot_WriteValidation(t *testing.T) {
	meta := sampleMeta()

	// 2*4*4*4 = 128 sites, slice has 100.
	err := Write(&bytes.Buffer{}, meta, sampleTypes(100))
	require.Error(t, err)

	meta.Basis = 0
	err = Write(&bytes.Buffer{}, meta, sampleTypes(128))
	require.Error(t, err)

	err = Write(&bytes.Buffer{}, sampleMeta(), sampleTypes(128), func(o *Options) {
		o.Compression = Compression(9)
	})
	require.Error(t, err)
}

func TestMeta_ConfigAndMatches(t *testing.T) {
	meta := sampleMeta()
	cfg := lattice.Config{
		Basis:       2,
		Repetitions: [3]int{4, 4, 4},
		Periodic:    [3]bool{true, false, true},
	}

	assert.Equal(t, cfg, meta.Config())
	assert.True(t, meta.Matches(cfg))

	cfg.Repetitions[2] = 5
	assert.False(t, meta.Matches(cfg))
}

func TestChecksumWriterReader(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChecksumWriter(&buf)
	_, err := cw.Write([]byte("occupation data"))
	require.NoError(t, err)
	sum := cw.Sum()
	assert.Equal(t, Checksum([]byte("occupation data")), sum)

	cr := NewChecksumReader(&buf)
	out := make([]byte, 15)
	_, err = cr.Read(out)
	require.NoError(t, err)
	require.NoError(t, cr.Verify(sum))

	err = cr.Verify(sum + 1)
	var mismatch *ErrChecksumMismatch
	require.True(t, errors.As(err, &mismatch))
}
