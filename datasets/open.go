package datasets

import (
	"errors"
	"fmt"

	"github.com/Noofbiz/seqbatch/labels"
	"github.com/Noofbiz/seqbatch/reference"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Open loads the label table and reference named by cfg and builds a
// generator over them. The returned close function releases the reference
// and must be called once the generator is no longer used.
func Open(cfg Config) (*Generator, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Labels == "" || cfg.Reference == "" {
		return nil, nil, fmt.Errorf("%w: labels and reference paths are required", ErrConfig)
	}

	table, err := labels.Open(cfg.Labels, cfg.Tasks)
	if err != nil {
		if errors.Is(err, labels.ErrUnknownTask) {
			return nil, nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		return nil, nil, err
	}

	var (
		ref     reference.Provider
		closeFn = func() error { return nil }
	)
	if cfg.IndexedReference {
		indexed, err := reference.OpenIndexed(cfg.Reference)
		if err != nil {
			return nil, nil, err
		}
		ref, closeFn = indexed, indexed.Close
	} else {
		mem, err := reference.LoadFasta(cfg.Reference)
		if err != nil {
			return nil, nil, err
		}
		logrus.WithFields(logrus.Fields{
			"path":    cfg.Reference,
			"contigs": len(mem.Contigs()),
			"bases":   humanize.Comma(int64(mem.Size())),
		}).Info("loaded reference")
		ref = mem
	}

	// The table already holds only the selected tasks.
	cfg.Tasks = nil
	g, err := NewGenerator(cfg, table, ref)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return g, closeFn, nil
}
