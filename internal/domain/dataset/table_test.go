package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateKnownLayouts(t *testing.T) {
	for _, s := range []string{
		"2024-01-05",
		"2024-01-05 13:30:00",
		"2024-01-05T13:30:00Z",
		"2024/01/05",
		"01/05/2024",
	} {
		d, ok := ParseDate(s)
		require.True(t, ok, "expected %q to parse", s)
		assert.Equal(t, 2024, d.Year())
	}

	_, ok := ParseDate("last tuesday")
	assert.False(t, ok)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", "yes", "y", "t"} {
		b, ok := ParseBool(s)
		require.True(t, ok, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"false", "0", "no", "n", "f"} {
		b, ok := ParseBool(s)
		require.True(t, ok, s)
		assert.False(t, b, s)
	}

	// nonzero numerics count as true
	b, ok := ParseBool("2.5")
	require.True(t, ok)
	assert.True(t, b)

	_, ok = ParseBool("maybe")
	assert.False(t, ok)
}

func TestParseBoolBlankCellsAreMissing(t *testing.T) {
	for _, s := range []string{"", " ", "\t", "   "} {
		_, ok := ParseBool(s)
		assert.False(t, ok, "%q should not count as a value", s)
	}

	// padded cells still parse
	b, ok := ParseBool("  yes ")
	require.True(t, ok)
	assert.True(t, b)
}

func TestNumericColumnSkipsBlanksAndJunk(t *testing.T) {
	tbl := &Table{
		Name:    "t",
		Columns: []string{"v"},
		Rows:    [][]string{{"1.5"}, {""}, {"oops"}, {"2.5"}},
		Kinds:   []Kind{KindNumeric},
	}
	assert.Equal(t, []float64{1.5, 2.5}, tbl.NumericColumn("v"))
	assert.Nil(t, tbl.NumericColumn("missing"))
}
