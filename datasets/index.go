package datasets

import "math/rand"

// indexDomain is an ordered list of row positions into one label table,
// read one batch-sized window at a time. Its length only changes when it is
// built; reshuffle permutes it in place.
type indexDomain struct {
	indices []int
	batch   int
}

// newIndexDomain covers rows 0..n-1 where n is rows rounded down to a whole
// number of batches.
func newIndexDomain(rows, batch int) *indexDomain {
	n := (rows / batch) * batch
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return &indexDomain{indices: indices, batch: batch}
}

// batches returns the number of whole windows in the domain.
func (d *indexDomain) batches() int {
	return len(d.indices) / d.batch
}

// tile repeats the domain until it holds at least n windows. The last
// repetition is cut at the window boundary. Domains that already hold n
// windows are left alone so no row drops out of the rotation.
func (d *indexDomain) tile(n int) {
	want := n * d.batch
	if len(d.indices) == 0 || len(d.indices) >= want {
		return
	}
	reps := (want + len(d.indices) - 1) / len(d.indices)
	out := make([]int, 0, reps*len(d.indices))
	for range reps {
		out = append(out, d.indices...)
	}
	d.indices = out[:want]
}

func (d *indexDomain) reshuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.indices), func(i, j int) {
		d.indices[i], d.indices[j] = d.indices[j], d.indices[i]
	})
}

// window returns the rows of batch ordinal. The slice aliases the domain.
func (d *indexDomain) window(ordinal int) []int {
	return d.indices[ordinal*d.batch : (ordinal+1)*d.batch]
}
