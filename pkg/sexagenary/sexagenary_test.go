package sexagenary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleLabels(t *testing.T) {
	assert.Equal(t, "甲子", Index(0).Label())
	assert.Equal(t, "乙丑", Index(1).Label())
	assert.Equal(t, "丙寅", Index(2).Label())
	assert.Equal(t, "甲戌", Index(10).Label())
	assert.Equal(t, "癸亥", Index(59).Label())

	// Every label in the cycle is distinct.
	seen := make(map[string]bool, 60)
	for i := 0; i < 60; i++ {
		label := Index(i).Label()
		assert.False(t, seen[label], "duplicate label %s at index %d", label, i)
		seen[label] = true
	}
}

func TestAtAndIndexRoundTrip(t *testing.T) {
	for i := 0; i < 60; i++ {
		p := At(Index(i))
		idx, err := p.Index()
		require.NoError(t, err)
		assert.Equal(t, Index(i), idx)
		assert.Equal(t, Index(i).Label(), p.String())
	}
}

func TestAtNormalizes(t *testing.T) {
	assert.Equal(t, At(0), At(60))
	assert.Equal(t, At(59), At(-1))
	assert.Equal(t, At(5), At(125))
}

func TestIndexOf(t *testing.T) {
	i, err := IndexOf("甲子")
	require.NoError(t, err)
	assert.Equal(t, Index(0), i)

	i, err = IndexOf("癸亥")
	require.NoError(t, err)
	assert.Equal(t, Index(59), i)

	_, err = IndexOf("甲丑")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLabel))

	_, err = IndexOf("bogus")
	assert.True(t, errors.Is(err, ErrUnknownLabel))
}

func TestCombineRejectsMismatchedParity(t *testing.T) {
	// An even stem never pairs with an odd branch in the 60-entry cycle.
	_, err := Combine(0, 1)
	assert.True(t, errors.Is(err, ErrUnknownLabel))

	_, err = Combine(1, 0)
	assert.True(t, errors.Is(err, ErrUnknownLabel))

	_, err = Combine(10, 0)
	assert.True(t, errors.Is(err, ErrUnknownLabel))

	_, err = Combine(0, 12)
	assert.True(t, errors.Is(err, ErrUnknownLabel))
}

func TestStepIsInvertible(t *testing.T) {
	for i := 0; i < 60; i++ {
		idx := Index(i)
		assert.Equal(t, idx, idx.Step(Forward).Step(Backward))
		assert.Equal(t, idx, idx.Step(Backward).Step(Forward))
	}
	assert.Equal(t, Index(0), Index(59).Step(Forward))
	assert.Equal(t, Index(59), Index(0).Step(Backward))
}

func TestIsYangStem(t *testing.T) {
	// 甲 丙 戊 庚 壬 are Yang, the others Yin.
	yang := []int{0, 2, 4, 6, 8}
	yin := []int{1, 3, 5, 7, 9}
	for _, s := range yang {
		assert.True(t, IsYangStem(s), "stem %d", s)
	}
	for _, s := range yin {
		assert.False(t, IsYangStem(s), "stem %d", s)
	}
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "forward", Forward.String())
	assert.Equal(t, "backward", Backward.String())
}

func TestPillarLabels(t *testing.T) {
	p := Pillar{Stem: 6, Branch: 6}
	assert.Equal(t, "庚午", p.String())
	assert.Equal(t, "庚", p.StemLabel())
	assert.Equal(t, "午", p.BranchLabel())

	bad := Pillar{Stem: -1, Branch: 4}
	assert.Equal(t, "??", bad.String())
}
