// Package reference provides random access to reference genome sequence.
//
// Coordinates are 0-based and half-open, the same convention as BED files:
// Fetch("chr1", 10, 20) returns the ten bases starting at offset 10.
package reference

import (
	"errors"
	"fmt"
	"io"

	"github.com/shenwei356/bio/seqio/fastx"
)

var (
	// ErrUnknownContig is returned when a contig is not present in the reference.
	ErrUnknownContig = errors.New("unknown contig")

	// ErrOutOfBounds is returned for empty, negative or overhanging ranges.
	ErrOutOfBounds = errors.New("range out of bounds")
)

// Provider fetches the sequence of contig between start and end.
type Provider interface {
	Fetch(contig string, start, end int) (string, error)
}

func checkRange(contig string, start, end, length int) error {
	if start < 0 || end <= start || end > length {
		return fmt.Errorf("%w: %s:%d-%d (contig length %d)", ErrOutOfBounds, contig, start, end, length)
	}
	return nil
}

// Memory holds whole contigs in memory. It is read-only once built and
// safe for concurrent use.
type Memory struct {
	contigs map[string]string
}

// NewMemory creates a Memory provider from contig name -> sequence.
func NewMemory(contigs map[string]string) *Memory {
	m := &Memory{contigs: make(map[string]string, len(contigs))}
	for name, seq := range contigs {
		m.contigs[name] = seq
	}
	return m
}

// LoadFasta reads every record of a (possibly gzipped) FASTA file into
// memory, keyed by record ID.
func LoadFasta(path string) (*Memory, error) {
	reader, err := fastx.NewReader(nil, path, "")
	if err != nil {
		return nil, fmt.Errorf("failed to open reference %s: %w", path, err)
	}
	defer reader.Close()

	m := &Memory{contigs: make(map[string]string)}
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read reference %s: %w", path, err)
		}
		// The reader reuses its buffers, so the conversion copies.
		m.contigs[string(record.ID)] = string(record.Seq.Seq)
	}
	if len(m.contigs) == 0 {
		return nil, fmt.Errorf("no sequences found in reference %s", path)
	}
	return m, nil
}

// Fetch implements Provider.
func (m *Memory) Fetch(contig string, start, end int) (string, error) {
	seq, ok := m.contigs[contig]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownContig, contig)
	}
	if err := checkRange(contig, start, end, len(seq)); err != nil {
		return "", err
	}
	return seq[start:end], nil
}

// Contigs returns the names of the loaded contigs.
func (m *Memory) Contigs() []string {
	names := make([]string, 0, len(m.contigs))
	for name := range m.contigs {
		names = append(names, name)
	}
	return names
}

// Size returns the total number of bases held.
func (m *Memory) Size() int {
	n := 0
	for _, seq := range m.contigs {
		n += len(seq)
	}
	return n
}
