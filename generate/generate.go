// Package generate provides text sampling from a trained stack.
//
// This package wraps the internal generate implementation and provides
// a clean public API for text generation.
//
// Components:
//   - Sampler: sampling strategies (greedy, top-k, top-p, temperature, repetition penalty)
//   - Generator: primes a stack with a prompt and streams symbols
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/recurrent/generate"
//	    "github.com/born-ml/recurrent/model"
//	)
//
//	m, err := model.Load("shakespeare.rnn")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gen, err := generate.NewGenerator(m.Stack, m.Vocab)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg := generate.DefaultConfig()
//	cfg.Sampling.Temperature = 0.7
//	text, err := gen.Generate("ROMEO:", cfg)
package generate

import (
	"github.com/born-ml/recurrent/internal/generate"
	"github.com/born-ml/recurrent/internal/lstm"
	"github.com/born-ml/recurrent/internal/vocab"
)

// Sampling Configuration

// SamplingConfig configures the sampling strategy.
//
// Parameters:
//   - Temperature: controls randomness (0 = greedy, 1 = model distribution)
//   - TopK: limits sampling to the top K symbols (0 = disabled)
//   - TopP: nucleus sampling (1.0 = disabled)
//   - RepeatPenalty: penalty for recently emitted symbols (1.0 = none)
//   - RepeatWindow: symbols considered for the penalty (0 = all)
//   - Seed: random seed for reproducibility (-1 = random)
type SamplingConfig = generate.SamplingConfig

// DefaultSamplingConfig returns plain sampling from the model distribution.
func DefaultSamplingConfig() SamplingConfig {
	return generate.DefaultSamplingConfig()
}

// Sampler

// Sampler draws symbol indices from output distributions.
type Sampler = generate.Sampler

// NewSampler creates a sampler.
func NewSampler(config SamplingConfig) *Sampler {
	return generate.NewSampler(config)
}

// Generation

// Config configures a generation run.
type Config = generate.Config

// Result is one streamed symbol.
type Result = generate.Result

// Generator runs a stack forward one symbol at a time.
type Generator = generate.Generator

// ErrVocabMismatch is returned when the vocabulary and the stack disagree
// on the number of symbols.
var ErrVocabMismatch = generate.ErrVocabMismatch

// DefaultConfig returns generation defaults.
func DefaultConfig() Config {
	return generate.DefaultConfig()
}

// NewGenerator returns a generator with zero recurrent state.
func NewGenerator(stack *lstm.Stack, v vocab.Vocab) (*Generator, error) {
	return generate.NewGenerator(stack, v)
}
