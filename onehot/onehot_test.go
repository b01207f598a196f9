package onehot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCanonicalBases(t *testing.T) {
	got := Encode("ACGT")
	want := [][Width]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	assert.Equal(t, want, got)
}

// Unknown characters are not errors; they encode to zeros.
func TestEncodeUnknownIsZero(t *testing.T) {
	for _, s := range []string{"N", "a", "c", "R", "-", "*"} {
		got := Encode(s)
		require.Len(t, got, 1)
		assert.Equal(t, [Width]float32{}, got[0], "character %q", s)
	}
}

func TestEncodeRowSums(t *testing.T) {
	seq := "ACGTNacgtRYKMxx-AAT"
	got := Encode(seq)
	require.Len(t, got, len(seq))
	for i, row := range got {
		var sum float32
		for _, v := range row {
			sum += v
		}
		if Position(seq[i]) >= 0 {
			assert.Equal(t, float32(1), sum, "row %d (%q)", i, seq[i])
		} else {
			assert.Equal(t, float32(0), sum, "row %d (%q)", i, seq[i])
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	assert.Empty(t, Encode(""))
}

func TestEncodeIntoMatchesEncode(t *testing.T) {
	seq := "GATTACAN"
	dst := make([]float32, Width*len(seq))
	for i := range dst {
		dst[i] = 7 // stale values must be overwritten
	}
	EncodeInto(dst, seq)

	for i, row := range Encode(seq) {
		assert.Equal(t, row[:], dst[i*Width:(i+1)*Width], "base %d", i)
	}
}

func TestEncodeIntoShortBufferPanics(t *testing.T) {
	assert.Panics(t, func() { EncodeInto(make([]float32, 3), "A") })
}
