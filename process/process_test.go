package process

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmcgo/core"
)

const (
	empty core.TypeID = iota
	atomA
	atomB
)

// flipProcess builds a shell-0 process on a single-site basis.
func flipProcess(name string, rate float64, from, to core.TypeID) Process {
	return Process{
		Name:   name,
		Rate:   rate,
		Shells: 0,
		Before: []core.TypeID{from},
		After:  []core.TypeID{to},
	}
}

func TestProcess_WindowLen(t *testing.T) {
	p := Process{Shells: 1}
	assert.Equal(t, 27, p.WindowLen(1))
	assert.Equal(t, 54, p.WindowLen(2))

	p.Shells = 0
	assert.Equal(t, 3, p.WindowLen(3))
}

func TestProcess_Validate(t *testing.T) {
	tests := []struct {
		name    string
		proc    Process
		wantErr any
	}{
		{
			name:    "valid flip",
			proc:    flipProcess("flip", 1.5, atomA, atomB),
			wantErr: nil,
		},
		{
			name:    "zero rate",
			proc:    flipProcess("flip", 0, atomA, atomB),
			wantErr: &ErrInvalidRate{},
		},
		{
			name:    "negative rate",
			proc:    flipProcess("flip", -2, atomA, atomB),
			wantErr: &ErrInvalidRate{},
		},
		{
			name:    "infinite rate",
			proc:    flipProcess("flip", math.Inf(1), atomA, atomB),
			wantErr: &ErrInvalidRate{},
		},
		{
			name:    "nan rate",
			proc:    flipProcess("flip", math.NaN(), atomA, atomB),
			wantErr: &ErrInvalidRate{},
		},
		{
			name: "negative shells",
			proc: Process{
				Name: "bad", Rate: 1, Shells: -1,
				Before: []core.TypeID{atomA},
				After:  []core.TypeID{atomB},
			},
			wantErr: &ErrInvalidShells{},
		},
		{
			name: "short before pattern",
			proc: Process{
				Name: "bad", Rate: 1, Shells: 1,
				Before: []core.TypeID{atomA},
				After:  make([]core.TypeID, 27),
			},
			wantErr: &ErrPatternSize{},
		},
		{
			name: "short after pattern",
			proc: Process{
				Name: "bad", Rate: 1, Shells: 1,
				Before: make([]core.TypeID, 27),
				After:  []core.TypeID{atomB},
			},
			wantErr: &ErrPatternSize{},
		},
		{
			name:    "writes its own match back",
			proc:    flipProcess("noop", 1, atomA, atomA),
			wantErr: &ErrNoEffect{},
		},
		{
			name: "all wildcard update",
			proc: Process{
				Name: "noop", Rate: 1, Shells: 0,
				Before: []core.TypeID{atomA},
				After:  []core.TypeID{core.WildcardType},
			},
			wantErr: &ErrNoEffect{},
		},
		{
			name: "concrete write over wildcard match",
			proc: Process{
				Name: "spawn", Rate: 1, Shells: 0,
				Before: []core.TypeID{core.WildcardType},
				After:  []core.TypeID{atomA},
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.proc.Validate(1)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			switch tt.wantErr.(type) {
			case *ErrInvalidRate:
				var e *ErrInvalidRate
				assert.ErrorAs(t, err, &e)
			case *ErrInvalidShells:
				var e *ErrInvalidShells
				assert.ErrorAs(t, err, &e)
			case *ErrPatternSize:
				var e *ErrPatternSize
				assert.ErrorAs(t, err, &e)
			case *ErrNoEffect:
				var e *ErrNoEffect
				assert.ErrorAs(t, err, &e)
			}
		})
	}
}

func TestNewTable(t *testing.T) {
	tbl, err := NewTable(1,
		flipProcess("a-to-b", 2, atomA, atomB),
		flipProcess("b-to-a", 1, atomB, atomA),
		Process{
			Name: "wide", Rate: 0.5, Shells: 1,
			Before: wildcardPattern(27, 0, atomA),
			After:  wildcardPattern(27, 0, atomB),
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 1, tbl.Basis())
	assert.Equal(t, 1, tbl.MaxShells())
	assert.Equal(t, []int{0, 1}, tbl.ShellRadii())

	assert.Equal(t, []core.ProcessID{0, 1}, tbl.WithShells(0))
	assert.Equal(t, []core.ProcessID{2}, tbl.WithShells(1))
	assert.Empty(t, tbl.WithShells(2))

	id, ok := tbl.ByName("b-to-a")
	require.True(t, ok)
	assert.Equal(t, core.ProcessID(1), id)
	assert.Equal(t, "b-to-a", tbl.At(id).Name)

	_, ok = tbl.ByName("missing")
	assert.False(t, ok)
}

// wildcardPattern builds an n entry wildcard pattern with tp at index i.
func wildcardPattern(n, i int, tp core.TypeID) []core.TypeID {
	pat := make([]core.TypeID, n)
	for j := range pat {
		pat[j] = core.WildcardType
	}
	pat[i] = tp
	return pat
}

func TestNewTable_Validation(t *testing.T) {
	t.Run("invalid basis", func(t *testing.T) {
		_, err := NewTable(0, flipProcess("flip", 1, atomA, atomB))
		var e *ErrInvalidBasis
		require.ErrorAs(t, err, &e)
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := NewTable(1)
		require.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := NewTable(1,
			flipProcess("flip", 1, atomA, atomB),
			flipProcess("flip", 2, atomB, atomA),
		)
		var e *ErrDuplicateName
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "flip", e.Name)
	})

	t.Run("invalid process", func(t *testing.T) {
		_, err := NewTable(1, flipProcess("flip", -1, atomA, atomB))
		var e *ErrInvalidRate
		require.ErrorAs(t, err, &e)
	})
}

func TestNewTable_CopiesPatterns(t *testing.T) {
	before := []core.TypeID{atomA}
	after := []core.TypeID{atomB}

	tbl, err := NewTable(1, Process{
		Name: "flip", Rate: 1, Shells: 0,
		Before: before,
		After:  after,
	})
	require.NoError(t, err)

	before[0] = atomB
	after[0] = atomA

	p := tbl.At(0)
	assert.Equal(t, atomA, p.Before[0])
	assert.Equal(t, atomB, p.After[0])
}
