package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsEmptyAndInvalidBytes(t *testing.T) {
	_, err := Parse("")
	require.ErrorIs(t, err, ErrEmpty)

	_, err = Parse("abc\x7f")
	require.ErrorIs(t, err, ErrInvalidByte)

	v, err := Parse("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", v.String())
}

func TestMidIsStable(t *testing.T) {
	assert.Equal(t, Mid(), Mid())
}

func TestAvgWithZeroIsStrictlyLess(t *testing.T) {
	a := Mid()
	lower := AvgWithZero(a)
	assert.Less(t, string(lower), string(a))
}

func TestAvgWithOneIsStrictlyGreater(t *testing.T) {
	a := Mid()
	higher := AvgWithOne(a)
	assert.Greater(t, string(higher), string(a))
}

func TestAvgIsStrictlyBetween(t *testing.T) {
	a := AvgWithZero(Mid())
	b := Mid()
	mid := Avg(a, b)
	assert.Less(t, string(a), string(mid))
	assert.Less(t, string(mid), string(b))
}

func TestAvgPanicsWhenNotOrdered(t *testing.T) {
	a := Mid()
	b := AvgWithZero(a)
	assert.Panics(t, func() { Avg(a, b) })
}

// TestRepeatedMidpointInsertion exercises the testable property that k
// successive insertions between the same two neighbors always produce k
// distinct, strictly ordered values, regardless of k.
func TestRepeatedMidpointInsertion(t *testing.T) {
	for _, k := range []int{1, 2, 5, 25, 100} {
		lo := AvgWithZero(Mid())
		hi := Mid()
		seen := make([]Base95, 0, k)
		cur := lo
		for i := 0; i < k; i++ {
			v := Avg(cur, hi)
			require.Greater(t, string(v), string(cur))
			require.Less(t, string(v), string(hi))
			seen = append(seen, v)
			cur = v
		}
		for i := 1; i < len(seen); i++ {
			assert.Less(t, string(seen[i-1]), string(seen[i]))
		}
	}
}

// TestGeneratedValuesNeverEndInReservedDigit guards the invariant the
// midpoint algorithm relies on: none of Mid/AvgWithZero/AvgWithOne/Avg ever
// produce a value ending in the reserved zero digit (space), since such a
// value would have no room below it for a later insertion.
func TestGeneratedValuesNeverEndInReservedDigit(t *testing.T) {
	check := func(v Base95) {
		t.Helper()
		s := string(v)
		require.NotEmpty(t, s)
		assert.NotEqual(t, byte(alphabetLow), s[len(s)-1])
	}

	check(Mid())
	a := Mid()
	for i := 0; i < 20; i++ {
		a = AvgWithZero(a)
		check(a)
	}
	b := Mid()
	for i := 0; i < 20; i++ {
		b = AvgWithOne(b)
		check(b)
	}
}

func TestLexicographicOrderMatchesInsertionChain(t *testing.T) {
	values := []Base95{Mid()}
	for i := 0; i < 10; i++ {
		values = append(values, AvgWithOne(values[len(values)-1]))
	}
	for i := 1; i < len(values); i++ {
		assert.Less(t, string(values[i-1]), string(values[i]))
	}
}
