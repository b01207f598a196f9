// Package datasets turns labelled genomic intervals and a reference genome
// into fixed-size one-hot batches for model training.
//
// A Generator owns the epoch state: which rows make up each batch ordinal,
// and how that order is reshuffled between epochs. For every requested
// ordinal it fetches the interval sequences from a reference.Provider,
// optionally augments them with reverse complements and dinucleotide
// shuffled negatives, and encodes them into a Batch.
//
// Three sampling modes are supported:
//
//	Basic                      rows in (shuffled) table order
//	Upsampled                  a fixed share of every batch drawn from rows
//	                           with a positive label
//	ShuffledReferenceNegative  each real sequence is paired with a
//	                           dinucleotide shuffle labelled all-zero
//
// Batches can be consumed directly through the Sequence interface or as a
// gomlx train.Dataset through Yield and Reset.
package datasets

import "errors"

// Sequence is the contract an epoch-driven training loop needs: how many
// batches an epoch holds, a batch by ordinal, and a hook called between
// epochs.
type Sequence interface {
	Len() int
	Batch(ordinal int) (*Batch, error)
	OnEpochEnd()
}

var (
	// ErrConfig marks invalid generator configuration.
	ErrConfig = errors.New("invalid configuration")

	// ErrRetrieval marks failures fetching or assembling batch sequences.
	ErrRetrieval = errors.New("sequence retrieval failed")

	// ErrRange is returned for batch ordinals outside [0, Len()).
	ErrRange = errors.New("batch ordinal out of range")
)
