package datasets

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Noofbiz/seqbatch/labels"
	"github.com/Noofbiz/seqbatch/reference"
	"github.com/Noofbiz/seqbatch/sequence"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Generator produces training batches from a label table and a reference.
//
// All methods are safe for concurrent use. Batch assembly, reshuffling and
// the gomlx iteration methods share one lock, so a reshuffle never overlaps
// a batch in flight and the reference provider is only called by one
// goroutine at a time.
type Generator struct {
	mu sync.Mutex

	cfg   Config
	mode  SamplingMode
	table *labels.Table
	ref   reference.Provider
	rng   *rand.Rand

	// length is the number of servable batch ordinals per epoch.
	length int
	// batch is the number of intervals read per ordinal; pos and neg split
	// it in upsampled mode.
	batch    int
	pos, neg int

	// Basic and shuffled-negative modes read plain; upsampled mode reads
	// posIdx over posTable and negIdx over negTable.
	plain              *indexDomain
	posTable, negTable *labels.Table
	posIdx, negIdx     *indexDomain

	// cursor is the next ordinal returned by Yield.
	cursor int

	id  string
	log logrus.FieldLogger
}

var _ Sequence = (*Generator)(nil)

// NewGenerator builds a generator over table and ref. When cfg.Tasks is set
// the table is narrowed to those tasks.
func NewGenerator(cfg Config, table *labels.Table, ref reference.Provider) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("%w: label table is nil", ErrConfig)
	}
	if ref == nil {
		return nil, fmt.Errorf("%w: reference provider is nil", ErrConfig)
	}
	if cfg.Tasks != nil {
		var err error
		if table, err = table.Select(cfg.Tasks); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Generator{
		cfg:   cfg,
		mode:  cfg.Mode(),
		table: table,
		ref:   ref,
		rng:   rand.New(rand.NewSource(seed)),
		batch: cfg.EffectiveBatchSize(),
		id:    uuid.NewString(),
	}
	g.length = table.Len() / g.batch
	g.log = logrus.WithFields(logrus.Fields{
		"generator": g.id,
		"mode":      g.mode.String(),
	})

	switch g.mode {
	case Upsampled:
		if err := g.initUpsampled(); err != nil {
			return nil, err
		}
	default:
		g.plain = newIndexDomain(table.Len(), g.batch)
	}

	g.log.WithFields(logrus.Fields{
		"rows":    humanize.Comma(int64(table.Len())),
		"tasks":   table.NumTasks(),
		"batches": humanize.Comma(int64(g.length)),
		"batch":   cfg.BatchSize,
		"seed":    seed,
	}).Info("generator ready")
	return g, nil
}

func (g *Generator) initUpsampled() error {
	g.pos, g.neg = g.cfg.subBatches()
	g.posTable, g.negTable = g.table.Partition()

	if g.posTable.Len() < g.pos {
		return fmt.Errorf("%w: %d positive rows cannot fill a positive sub-batch of %d",
			ErrConfig, g.posTable.Len(), g.pos)
	}
	if g.negTable.Len() < g.neg {
		return fmt.Errorf("%w: %d negative rows cannot fill a negative sub-batch of %d",
			ErrConfig, g.negTable.Len(), g.neg)
	}

	g.posIdx = newIndexDomain(g.posTable.Len(), g.pos)
	g.negIdx = newIndexDomain(g.negTable.Len(), g.neg)
	g.posIdx.tile(g.length)
	g.negIdx.tile(g.length)

	g.log.WithFields(logrus.Fields{
		"positives": humanize.Comma(int64(g.posTable.Len())),
		"negatives": humanize.Comma(int64(g.negTable.Len())),
		"pos_batch": g.pos,
		"neg_batch": g.neg,
	}).Debug("partitioned label table")
	return nil
}

// SetLogger replaces the logger. The generator and mode fields are added
// to it.
func (g *Generator) SetLogger(l logrus.FieldLogger) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.log = l.WithFields(logrus.Fields{
		"generator": g.id,
		"mode":      g.mode.String(),
	})
}

// Len returns the number of batches per epoch.
func (g *Generator) Len() int {
	return g.length
}

// Mode returns the sampling mode chosen at construction.
func (g *Generator) Mode() SamplingMode {
	return g.mode
}

// EffectiveBatchSize returns the number of intervals read per batch.
func (g *Generator) EffectiveBatchSize() int {
	return g.batch
}

// SubBatchSizes returns the positive and negative rows per batch in
// upsampled mode, and zeros otherwise.
func (g *Generator) SubBatchSizes() (pos, neg int) {
	return g.pos, g.neg
}

// Tasks returns the label columns, in label order.
func (g *Generator) Tasks() []string {
	return g.table.Tasks()
}

// Batch assembles batch ordinal, which must be in [0, Len()).
func (g *Generator) Batch(ordinal int) (*Batch, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.batchLocked(ordinal)
}

func (g *Generator) batchLocked(ordinal int) (*Batch, error) {
	if ordinal < 0 || ordinal >= g.length {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrRange, ordinal, g.length)
	}
	switch g.mode {
	case Upsampled:
		return g.upsampledBatch(ordinal)
	case ShuffledReferenceNegative:
		return g.shuffledNegativesBatch(ordinal)
	default:
		return g.basicBatch(ordinal)
	}
}

func (g *Generator) basicBatch(ordinal int) (*Batch, error) {
	seqs, ys, err := g.fetch(g.table, g.plain.window(ordinal), nil, nil)
	if err != nil {
		return nil, err
	}
	seqs, ys = g.addReverseComplements(seqs, ys)
	return makeBatch(seqs, ys, g.table.NumTasks())
}

func (g *Generator) upsampledBatch(ordinal int) (*Batch, error) {
	seqs, ys, err := g.fetch(g.posTable, g.posIdx.window(ordinal), nil, nil)
	if err != nil {
		return nil, err
	}
	seqs, ys, err = g.fetch(g.negTable, g.negIdx.window(ordinal), seqs, ys)
	if err != nil {
		return nil, err
	}
	seqs, ys = g.addReverseComplements(seqs, ys)
	return makeBatch(seqs, ys, g.table.NumTasks())
}

func (g *Generator) shuffledNegativesBatch(ordinal int) (*Batch, error) {
	seqs, ys, err := g.fetch(g.table, g.plain.window(ordinal), nil, nil)
	if err != nil {
		return nil, err
	}
	seqs, ys = g.addReverseComplements(seqs, ys)

	n := len(seqs)
	zero := make([]float32, g.table.NumTasks())
	for i := range n {
		seqs = append(seqs, sequence.DinucleotideShuffle(seqs[i], g.rng))
		ys = append(ys, zero)
	}
	return makeBatch(seqs, ys, g.table.NumTasks())
}

// fetch appends the sequences and labels of rows in t to seqs and ys.
func (g *Generator) fetch(t *labels.Table, rows []int, seqs []string, ys [][]float32) ([]string, [][]float32, error) {
	for _, r := range rows {
		iv := t.Key(r)
		s, err := g.ref.Fetch(iv.Chrom, iv.Start, iv.End)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrRetrieval, iv, err)
		}
		seqs = append(seqs, s)
		ys = append(ys, t.Row(r))
	}
	return seqs, ys, nil
}

func (g *Generator) addReverseComplements(seqs []string, ys [][]float32) ([]string, [][]float32) {
	if !g.cfg.ReverseComplement {
		return seqs, ys
	}
	n := len(seqs)
	for i := range n {
		seqs = append(seqs, sequence.ReverseComplement(seqs[i]))
	}
	return seqs, append(ys, ys[:n]...)
}

// OnEpochEnd reshuffles the batch order for the next epoch.
func (g *Generator) OnEpochEnd() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reshuffleLocked()
}

func (g *Generator) reshuffleLocked() {
	if g.mode == Upsampled {
		g.posIdx.reshuffle(g.rng)
		g.negIdx.reshuffle(g.rng)
	} else {
		g.plain.reshuffle(g.rng)
	}
	g.log.Debug("reshuffled batch order")
}
