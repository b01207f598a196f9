package reference

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFasta = `>chr1 first contig
ACGTACGTAC
GTACGTNNNN
>chr2
GGGGCCCCAATT
`

// writeFasta writes content to dir/name and returns the path.
func writeFasta(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fasta %s: %v", path, err)
	}
	return path
}

func TestMemoryFetch(t *testing.T) {
	m := NewMemory(map[string]string{"chr1": "ACGTACGTAC"})

	got, err := m.Fetch("chr1", 2, 6)
	require.NoError(t, err)
	assert.Equal(t, "GTAC", got)

	got, err = m.Fetch("chr1", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGTAC", got)
}

func TestMemoryFetchErrors(t *testing.T) {
	m := NewMemory(map[string]string{"chr1": "ACGTACGTAC"})

	_, err := m.Fetch("chrX", 0, 1)
	assert.True(t, errors.Is(err, ErrUnknownContig), "got %v", err)

	for _, r := range [][2]int{{-1, 3}, {4, 4}, {5, 2}, {8, 11}} {
		_, err := m.Fetch("chr1", r[0], r[1])
		assert.True(t, errors.Is(err, ErrOutOfBounds), "range %v: got %v", r, err)
	}
}

func TestLoadFasta(t *testing.T) {
	path := writeFasta(t, t.TempDir(), "ref.fa", testFasta)

	m, err := LoadFasta(path)
	require.NoError(t, err)

	names := m.Contigs()
	sort.Strings(names)
	assert.Equal(t, []string{"chr1", "chr2"}, names)
	assert.Equal(t, 32, m.Size())

	got, err := m.Fetch("chr1", 8, 14)
	require.NoError(t, err)
	assert.Equal(t, "ACGTAC", got, "lines should be joined across wraps")

	got, err = m.Fetch("chr2", 8, 12)
	require.NoError(t, err)
	assert.Equal(t, "AATT", got)
}

func TestLoadFastaGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.fa.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testFasta))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	m, err := LoadFasta(path)
	require.NoError(t, err)
	got, err := m.Fetch("chr2", 0, 4)
	require.NoError(t, err)
	assert.Equal(t, "GGGG", got)
}

func TestLoadFastaMissingFile(t *testing.T) {
	_, err := LoadFasta(filepath.Join(t.TempDir(), "missing.fa"))
	assert.Error(t, err)
}

func TestIndexedFetch(t *testing.T) {
	path := writeFasta(t, t.TempDir(), "ref.fa", testFasta)

	r, err := OpenIndexed(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Fetch("chr1", 8, 14)
	require.NoError(t, err)
	assert.Equal(t, "ACGTAC", got)

	got, err = r.Fetch("chr2", 0, 12)
	require.NoError(t, err)
	assert.Equal(t, "GGGGCCCCAATT", got)

	_, err = r.Fetch("chr2", 10, 20)
	assert.True(t, errors.Is(err, ErrOutOfBounds), "got %v", err)

	_, err = r.Fetch("chr1", 3, 3)
	assert.True(t, errors.Is(err, ErrOutOfBounds), "got %v", err)

	require.NoError(t, r.Close())
	_, err = r.Fetch("chr1", 0, 2)
	assert.Error(t, err)
}
