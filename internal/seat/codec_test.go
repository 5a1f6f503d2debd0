package seat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexToLabel(t *testing.T) {
	cases := []struct {
		index, columns int
		want           string
	}{
		{0, 8, "1A"},
		{1, 8, "1B"},
		{7, 8, "1H"},
		{8, 8, "2A"},
		{31, 8, "4H"},
		{0, 1, "1A"},
		{5, 1, "6A"},
		{25, 26, "1Z"},
		{26, 26, "2A"},
		{125, 14, "9N"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IndexToLabel(tc.index, tc.columns), "index %d columns %d", tc.index, tc.columns)
	}
}

func TestLabelToIndexRoundTrip(t *testing.T) {
	for columns := 1; columns <= MaxColumns; columns++ {
		for rows := 1; rows <= 12; rows++ {
			for i := 0; i < rows*columns; i++ {
				got, err := LabelToIndex(IndexToLabel(i, columns), columns)
				require.NoError(t, err)
				require.Equal(t, i, got, "columns=%d", columns)
			}
		}
	}
}

func TestLabelToIndexRejectsMalformed(t *testing.T) {
	for _, label := range []string{"", "A1", "1a", "1", "A", "1AA", " 1A", "1A ", "-1A", "1-A", "1Ä"} {
		_, err := LabelToIndex(label, 8)
		assert.ErrorIs(t, err, ErrInvalidFormat, "label %q", label)
	}
}

func TestFormatCheckIsIndependentOfBounds(t *testing.T) {
	// 99Z is far outside a 4x8 grid but still well formed
	idx, err := LabelToIndex("99Z", 8)
	require.NoError(t, err)
	assert.Equal(t, 98*8+25, idx)
}

func TestCanonical(t *testing.T) {
	got, err := Canonical("007C")
	require.NoError(t, err)
	assert.Equal(t, "7C", got)

	_, err = Canonical("7c")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDimensionsIndex(t *testing.T) {
	d := Dimensions{Rows: 4, Columns: 8}

	idx, err := d.Index("4H")
	require.NoError(t, err)
	assert.Equal(t, 31, idx)

	for _, label := range []string{"5A", "1I", "0A", "4Z"} {
		_, err := d.Index(label)
		assert.ErrorIs(t, err, ErrOutOfBounds, "label %q", label)
	}

	_, err = d.Index("x")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDimensionsValidate(t *testing.T) {
	assert.NoError(t, Dimensions{Rows: 9, Columns: 14}.Validate())
	assert.Error(t, Dimensions{Rows: 0, Columns: 14}.Validate())
	assert.Error(t, Dimensions{Rows: 3, Columns: 0}.Validate())
	assert.Error(t, Dimensions{Rows: 3, Columns: 27}.Validate())
}

func TestFirstFreeIsRowMajor(t *testing.T) {
	d := Dimensions{Rows: 4, Columns: 8}
	taken := map[string]struct{}{"1A": {}, "1B": {}}

	assert.Equal(t, []string{"1C", "1D", "1E"}, d.FirstFree(3, taken))
	assert.Equal(t, []string{"1C", "1D", "1E", "1F", "1G", "1H", "2A"}, d.FirstFree(7, taken))
	// repeatable for the same inventory
	assert.Equal(t, d.FirstFree(5, taken), d.FirstFree(5, taken))
	assert.Len(t, d.FirstFree(100, taken), 30)
}
