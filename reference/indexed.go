package reference

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shenwei356/bio/seqio/fai"
)

// Indexed reads ranges on demand from a faidx-indexed FASTA file. The .fai
// index is created next to the FASTA file when it does not exist yet.
//
// The underlying reader is not documented as safe for concurrent use, so
// Fetch serializes access.
type Indexed struct {
	Path string

	mu  sync.Mutex
	idx *fai.Faidx
}

// OpenIndexed opens the FASTA file at path for random access.
func OpenIndexed(path string) (*Indexed, error) {
	idx, err := fai.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open indexed reference %s: %w", path, err)
	}
	return &Indexed{Path: path, idx: idx}, nil
}

// Fetch implements Provider.
func (r *Indexed) Fetch(contig string, start, end int) (string, error) {
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: %s:%d-%d", ErrOutOfBounds, contig, start, end)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.idx == nil {
		return "", errors.New("indexed reference is closed")
	}

	// fai uses 1-based, end-inclusive coordinates.
	seq, err := r.idx.SubSeq(contig, start+1, end)
	if err != nil {
		if errors.Is(err, fai.ErrSeqNotExists) {
			return "", fmt.Errorf("%w: %s", ErrUnknownContig, contig)
		}
		return "", fmt.Errorf("failed to fetch %s:%d-%d: %w", contig, start, end, err)
	}
	// Ranges past the contig end come back short instead of failing.
	if len(seq) != end-start {
		return "", fmt.Errorf("%w: %s:%d-%d (got %d bases)", ErrOutOfBounds, contig, start, end, len(seq))
	}
	return string(seq), nil
}

// Close releases the underlying file.
func (r *Indexed) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.idx == nil {
		return nil
	}
	err := r.idx.Close()
	r.idx = nil
	return err
}
