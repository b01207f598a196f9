package main

// Example command that loads a generator from a TOML config, walks one
// epoch and prints the shape of each batch, then converts the first batch
// into gomlx tensors.
//
// Usage:
//   go run ./datasets/example -config seqbatch.toml
//
// A minimal config:
//
//   batch-size = 64
//   labels = "labels.tsv"
//   reference = "hg19.fa"

import (
	"flag"
	"fmt"

	"github.com/Noofbiz/seqbatch/datasets"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "seqbatch.toml", "generator config file")
	epochs := flag.Int("epochs", 1, "number of epochs to walk")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := datasets.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	gen, closeRef, err := datasets.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open generator: %v", err)
	}
	defer closeRef()

	fmt.Printf("Mode: %s\n", gen.Mode())
	fmt.Printf("Tasks: %v\n", gen.Tasks())
	fmt.Printf("Batches per epoch: %d (%d intervals read per batch)\n", gen.Len(), gen.EffectiveBatchSize())

	for epoch := range *epochs {
		positives := 0
		for ord := range gen.Len() {
			b, err := gen.Batch(ord)
			if err != nil {
				log.Fatalf("epoch %d batch %d: %v", epoch, ord, err)
			}
			for i := range b.Size {
				_, y := b.Example(i)
				for _, v := range y {
					if v > 0 {
						positives++
						break
					}
				}
			}
			if ord == 0 {
				fmt.Printf("  features %v labels %v\n", b.FeatureShape(), b.LabelShape())
			}
		}
		fmt.Printf("Epoch %d: %d examples with a positive label\n", epoch, positives)
		gen.OnEpochEnd()
	}

	if gen.Len() > 0 {
		b, err := gen.Batch(0)
		if err != nil {
			log.Fatalf("failed to build batch: %v", err)
		}
		inT, laT, err := b.ToGomlxTensors()
		if err != nil {
			log.Fatalf("failed to convert batch to gomlx tensors: %v", err)
		}
		fmt.Printf("Created tensors: input=%s label=%s\n", inT.Shape(), laT.Shape())
	}
}
