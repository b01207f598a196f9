package datasets

import (
	"fmt"

	"github.com/Noofbiz/seqbatch/onehot"
	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Batch stores one training batch in flat contiguous buffers.
//
// Features has shape (Size, 1, SeqLen, onehot.Width) and Labels has shape
// (Size, NumTasks), both row-major.
type Batch struct {
	Features []float32
	Labels   []float32
	Size     int
	SeqLen   int
	NumTasks int
}

// makeBatch encodes seqs and copies labels into a Batch. All sequences must
// share one length.
func makeBatch(seqs []string, labels [][]float32, numTasks int) (*Batch, error) {
	if len(seqs) != len(labels) {
		return nil, fmt.Errorf("sequences and labels batch sizes don't match: %d != %d", len(seqs), len(labels))
	}
	b := &Batch{Size: len(seqs), NumTasks: numTasks}
	if b.Size == 0 {
		return b, nil
	}

	b.SeqLen = len(seqs[0])
	for i, s := range seqs {
		if len(s) != b.SeqLen {
			return nil, fmt.Errorf("%w: inconsistent sequence lengths at example %d: expected %d, got %d",
				ErrRetrieval, i, b.SeqLen, len(s))
		}
	}

	stride := b.SeqLen * onehot.Width
	b.Features = make([]float32, b.Size*stride)
	for i, s := range seqs {
		onehot.EncodeInto(b.Features[i*stride:(i+1)*stride], s)
	}

	b.Labels = make([]float32, b.Size*numTasks)
	for i, row := range labels {
		if len(row) != numTasks {
			return nil, fmt.Errorf("inconsistent label dimensions at example %d: expected %d, got %d",
				i, numTasks, len(row))
		}
		copy(b.Labels[i*numTasks:], row)
	}
	return b, nil
}

// FeatureShape returns the dimensions of Features.
func (b *Batch) FeatureShape() []int {
	return []int{b.Size, 1, b.SeqLen, onehot.Width}
}

// LabelShape returns the dimensions of Labels.
func (b *Batch) LabelShape() []int {
	return []int{b.Size, b.NumTasks}
}

// Example returns the encoded sequence and labels of row i. The slices
// alias the batch buffers.
func (b *Batch) Example(i int) (features []float32, labels []float32) {
	stride := b.SeqLen * onehot.Width
	return b.Features[i*stride : (i+1)*stride], b.Labels[i*b.NumTasks : (i+1)*b.NumTasks]
}

// ToGomlxTensors converts the batch to gomlx tensors shaped as FeatureShape
// and LabelShape. An empty batch yields tensors with a zero batch axis.
func (b *Batch) ToGomlxTensors() (*tensors.Tensor, *tensors.Tensor, error) {
	if len(b.Features) != b.Size*b.SeqLen*onehot.Width {
		return nil, nil, fmt.Errorf("feature buffer holds %d values, want %d for shape %v",
			len(b.Features), b.Size*b.SeqLen*onehot.Width, b.FeatureShape())
	}
	if len(b.Labels) != b.Size*b.NumTasks {
		return nil, nil, fmt.Errorf("label buffer holds %d values, want %d for shape %v",
			len(b.Labels), b.Size*b.NumTasks, b.LabelShape())
	}
	features := tensors.FromFlatDataAndDimensions(b.Features, b.FeatureShape()...)
	labels := tensors.FromFlatDataAndDimensions(b.Labels, b.LabelShape()...)
	return features, labels, nil
}
