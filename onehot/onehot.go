// Package onehot encodes nucleotide sequences as one-hot vectors.
//
// Each base becomes a vector of Width float32 values with a single 1 at the
// base's canonical position (A, C, G, T). Bytes outside that set, including
// 'N' and lowercase bases, encode to the all-zero vector.
package onehot

// Width is the length of the vector produced for each base.
const Width = 4

var lookup [256]int8

func init() {
	for i := range lookup {
		lookup[i] = -1
	}
	lookup['A'] = 0
	lookup['C'] = 1
	lookup['G'] = 2
	lookup['T'] = 3
}

// Position returns the canonical index of b, or -1 when b has no encoding.
func Position(b byte) int {
	return int(lookup[b])
}

// Encode returns one Width-length vector per byte of seq.
func Encode(seq string) [][Width]float32 {
	out := make([][Width]float32, len(seq))
	for i := 0; i < len(seq); i++ {
		if p := lookup[seq[i]]; p >= 0 {
			out[i][p] = 1
		}
	}
	return out
}

// EncodeInto writes the encoding of seq into dst, which must hold at least
// Width*len(seq) values. The written region is zeroed first so dst can be
// reused across batches.
func EncodeInto(dst []float32, seq string) {
	n := Width * len(seq)
	if len(dst) < n {
		panic("onehot: destination buffer too short")
	}
	clear(dst[:n])
	for i := 0; i < len(seq); i++ {
		if p := lookup[seq[i]]; p >= 0 {
			dst[i*Width+int(p)] = 1
		}
	}
}
