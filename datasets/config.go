package datasets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// SamplingMode selects how a Generator fills each batch. It is fixed when
// the generator is built.
type SamplingMode int

const (
	// Basic draws whole batches from the label table in shuffled order.
	Basic SamplingMode = iota
	// Upsampled draws a fixed share of each batch from positive rows.
	Upsampled
	// ShuffledReferenceNegative pairs each sequence with a dinucleotide
	// shuffled copy labelled all-zero.
	ShuffledReferenceNegative
)

func (m SamplingMode) String() string {
	switch m {
	case Basic:
		return "basic"
	case Upsampled:
		return "upsampled"
	case ShuffledReferenceNegative:
		return "shuffled-reference-negative"
	}
	return fmt.Sprintf("SamplingMode(%d)", int(m))
}

// Config holds the generator options. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// BatchSize is the number of examples in every produced batch,
	// augmentation included.
	BatchSize int `toml:"batch-size"`

	// ReverseComplement appends the reverse complement of every fetched
	// sequence, halving the number of intervals read per batch.
	ReverseComplement bool `toml:"reverse-complement"`

	// Tasks restricts the label columns. Nil keeps every column.
	Tasks []string `toml:"tasks"`

	// ShuffledRefNegatives appends a dinucleotide shuffle of every sequence
	// as an all-zero labelled negative. Takes precedence over Upsample.
	ShuffledRefNegatives bool `toml:"shuffled-ref-negatives"`

	// Upsample draws floor(batch*UpsampleRatio) rows of each batch from
	// rows with a positive label and the rest from the other rows.
	Upsample      bool    `toml:"upsample"`
	UpsampleRatio float64 `toml:"upsample-ratio"`

	// Seed for index shuffling and dinucleotide shuffles. Zero picks a
	// time based seed.
	Seed int64 `toml:"seed"`

	// Labels and Reference are the label table and FASTA paths used by
	// Open. Relative paths in a config file are resolved against the
	// file's directory.
	Labels           string `toml:"labels"`
	Reference        string `toml:"reference"`
	IndexedReference bool   `toml:"indexed-reference"`
}

// DefaultConfig returns the default options: batches of 128 with reverse
// complement augmentation and 10% positive upsampling.
func DefaultConfig() Config {
	return Config{
		BatchSize:         128,
		ReverseComplement: true,
		Upsample:          true,
		UpsampleRatio:     0.1,
	}
}

// LoadConfig reads a TOML config file on top of DefaultConfig. Unknown keys
// are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}

	dir := filepath.Dir(path)
	for _, p := range []*string{&cfg.Labels, &cfg.Reference} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return cfg, cfg.Validate()
}

// Mode returns the sampling mode the options select. Shuffled reference
// negatives win over upsampling when both are enabled.
func (c Config) Mode() SamplingMode {
	switch {
	case c.ShuffledRefNegatives:
		return ShuffledReferenceNegative
	case c.Upsample:
		return Upsampled
	default:
		return Basic
	}
}

// EffectiveBatchSize is the number of intervals read per batch before
// augmentation.
func (c Config) EffectiveBatchSize() int {
	b := c.BatchSize
	if c.ReverseComplement {
		b /= 2
	}
	if c.ShuffledRefNegatives {
		b /= 2
	}
	return b
}

// subBatches splits the effective batch into positive and negative rows for
// upsampled mode.
func (c Config) subBatches() (pos, neg int) {
	b := c.EffectiveBatchSize()
	pos = int(float64(b) * c.UpsampleRatio)
	return pos, b - pos
}

// Validate checks the options without touching the filesystem.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be > 0, got %d", ErrConfig, c.BatchSize)
	}
	if c.EffectiveBatchSize() == 0 {
		return fmt.Errorf("%w: batch size %d leaves no intervals per batch after augmentation",
			ErrConfig, c.BatchSize)
	}
	if c.Tasks != nil && len(c.Tasks) == 0 {
		return fmt.Errorf("%w: task list is empty", ErrConfig)
	}
	if c.Upsample {
		if !(c.UpsampleRatio > 0 && c.UpsampleRatio < 1) {
			return fmt.Errorf("%w: upsample ratio must be in (0,1), got %v", ErrConfig, c.UpsampleRatio)
		}
		if c.Mode() == Upsampled {
			pos, neg := c.subBatches()
			if pos == 0 || neg == 0 {
				return fmt.Errorf("%w: upsample ratio %v splits batch of %d into %d positive and %d negative rows",
					ErrConfig, c.UpsampleRatio, c.EffectiveBatchSize(), pos, neg)
			}
		}
	}
	return nil
}
