package datasets

import (
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Name returns the dataset name reported to gomlx training loops.
func (g *Generator) Name() string {
	return "seqbatch-" + g.mode.String()
}

// Yield returns the next batch of the epoch as gomlx tensors, implementing
// gomlx's train.Dataset. The spec value is the generator's SamplingMode.
// After Len() batches it returns io.EOF until Reset is called.
func (g *Generator) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cursor >= g.length {
		return nil, nil, nil, io.EOF
	}
	b, err := g.batchLocked(g.cursor)
	if err != nil {
		return nil, nil, nil, err
	}
	g.cursor++

	in, la, err := b.ToGomlxTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	return g.mode, []*tensors.Tensor{in}, []*tensors.Tensor{la}, nil
}

// Reset starts a new epoch for Yield: the batch order is reshuffled and the
// cursor rewinds to the first batch.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor = 0
	g.reshuffleLocked()
}
