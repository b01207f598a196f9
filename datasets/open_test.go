package datasets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func writeInputs(t *testing.T) (dir string) {
	t.Helper()
	dir = t.TempDir()
	writeFile(t, dir, "ref.fa", ">chr1\nACGTACGTAC\nGGCCAATTGG\n>chr2\nTTTTGGGGCC\n")
	writeFile(t, dir, "labels.tsv", strings.Join([]string{
		"chrom\tstart\tend\ta\tb",
		"chr1\t0\t5\t1\t0",
		"chr1\t5\t10\t0\t0",
		"chr1\t10\t15\t0\t1",
		"chr2\t0\t5\t0\t0",
	}, "\n")+"\n")
	return dir
}

func TestOpen(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		dir := writeInputs(t)
		cfg := DefaultConfig()
		cfg.BatchSize = 4
		cfg.Upsample = false
		cfg.Seed = 3
		cfg.Tasks = []string{"b"}
		cfg.Labels = filepath.Join(dir, "labels.tsv")
		cfg.Reference = filepath.Join(dir, "ref.fa")
		cfg.IndexedReference = indexed

		g, closeFn, err := Open(cfg)
		require.NoError(t, err, "indexed=%v", indexed)
		assert.Equal(t, []string{"b"}, g.Tasks())
		assert.Equal(t, 2, g.Len())

		b, err := g.Batch(1)
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 0, 1, 0}, b.Labels)
		x, _ := b.Example(0)
		assert.Equal(t, "GGCCA", decode(x))
		x, _ = b.Example(3)
		assert.Equal(t, "CAAAA", decode(x), "reverse complement of chr2:0-5")

		require.NoError(t, closeFn())
	}
}

func TestOpenFromConfigFile(t *testing.T) {
	dir := writeInputs(t)
	path := writeConfig(t, dir, `
batch-size = 2
reverse-complement = false
upsample = true
upsample-ratio = 0.5
seed = 5
labels = "labels.tsv"
reference = "ref.fa"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	g, closeFn, err := Open(cfg)
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, Upsampled, g.Mode())
	for ord := range g.Len() {
		b, err := g.Batch(ord)
		require.NoError(t, err)
		_, y := b.Example(0)
		assert.True(t, y[0] > 0 || y[1] > 0)
		_, y = b.Example(1)
		assert.Equal(t, []float32{0, 0}, y)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := writeInputs(t)
	cfg := DefaultConfig()
	cfg.Upsample = false

	_, _, err := Open(cfg)
	assert.True(t, errors.Is(err, ErrConfig), "missing paths: got %v", err)

	cfg.Labels = filepath.Join(dir, "labels.tsv")
	cfg.Reference = filepath.Join(dir, "ref.fa")
	cfg.Tasks = []string{"zzz"}
	_, _, err = Open(cfg)
	assert.True(t, errors.Is(err, ErrConfig), "unknown task: got %v", err)

	cfg.Tasks = nil
	cfg.Reference = filepath.Join(dir, "missing.fa")
	_, _, err = Open(cfg)
	assert.Error(t, err)
}
