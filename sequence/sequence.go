// Package sequence holds the string transforms applied to reference
// sequences before encoding: reverse complement for strand augmentation and
// a chunked dinucleotide shuffle used to build negative controls.
package sequence

import (
	"math/rand"
	"strings"
)

// complement maps every byte to the uppercased complement of its base.
// Bytes other than A, C, G and T (in either case) are only uppercased.
var complement [256]byte

func init() {
	for i := range complement {
		b := byte(i)
		if 'a' <= b && b <= 'z' {
			b -= 'a' - 'A'
		}
		complement[i] = b
	}
	for _, pair := range []string{"AT", "TA", "CG", "GC"} {
		complement[pair[0]] = pair[1]
		complement[pair[0]+'a'-'A'] = pair[1]
	}
}

// ReverseComplement reverses seq, uppercases it and swaps A<->T and C<->G.
// It works byte by byte: anything else (N, IUPAC codes, gaps, non-ASCII
// bytes) is kept as it is, so the result is always len(seq) bytes long.
func ReverseComplement(seq string) string {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = complement[seq[n-1-i]]
	}
	return string(out)
}

// Chunks splits seq into consecutive two-byte pieces. When len(seq) is odd
// the final piece holds a single byte.
func Chunks(seq string) []string {
	out := make([]string, 0, (len(seq)+1)/2)
	for i := 0; i < len(seq); i += 2 {
		end := min(i+2, len(seq))
		out = append(out, seq[i:end])
	}
	return out
}

// DinucleotideShuffle permutes the order of the Chunks of seq uniformly at
// random and joins them back together.
//
// Pairs are fixed from the start of the sequence, so an odd-length input
// carries its trailing base as a one-byte chunk that is shuffled along with
// the pairs. This is a coarse negative control, not a composition
// preserving Altschul-Erikson shuffle.
func DinucleotideShuffle(seq string, rng *rand.Rand) string {
	chunks := Chunks(seq)
	rng.Shuffle(len(chunks), func(i, j int) {
		chunks[i], chunks[j] = chunks[j], chunks[i]
	})
	return strings.Join(chunks, "")
}
