package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/kmcgo/core"
)

func TestState_NewState(t *testing.T) {
	s := NewState(4, 2)
	assert.Equal(t, 4, s.Len())
	for i := 0; i < 4; i++ {
		assert.Equal(t, core.TypeID(2), s.TypeAt(core.Site(i)))
	}
	assert.Equal(t, 4, s.Count(2))
	assert.Equal(t, 0, s.Count(0))

	z := NewState(3, 0)
	assert.Equal(t, 3, z.Count(0))
}

func TestState_NewStateFromCopies(t *testing.T) {
	src := []core.TypeID{1, 2, 3}
	s := NewStateFrom(src)

	src[0] = 9
	assert.Equal(t, core.TypeID(1), s.TypeAt(0))
}

func TestState_SnapshotIsACopy(t *testing.T) {
	s := NewStateFrom([]core.TypeID{1, 2})

	snap := s.Snapshot()
	snap[0] = 9
	assert.Equal(t, core.TypeID(1), s.TypeAt(0))
}

func TestState_Set(t *testing.T) {
	s := NewState(2, 0)
	assert.Equal(t, uint64(0), s.Version())

	assert.True(t, s.set(1, 5))
	assert.Equal(t, core.TypeID(5), s.TypeAt(1))
	assert.Equal(t, uint64(1), s.Version())

	// Writing the same value is not a mutation.
	assert.False(t, s.set(1, 5))
	assert.Equal(t, uint64(1), s.Version())
}
