// Package generate samples text from a trained stack.
//
// The network's layer-0 logits are turned into a next-symbol distribution
// by the Sampler and the sampled symbol is fed back as the next input.
package generate

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/recurrent/internal/nn"
	"github.com/born-ml/recurrent/internal/vecops"
)

// SamplingConfig configures the sampling strategy.
type SamplingConfig struct {
	// Temperature controls randomness. 0 = greedy, 1 = normal, >1 = more random.
	Temperature float64

	// TopK limits sampling to the K most likely symbols. 0 = disabled.
	TopK int

	// TopP (nucleus sampling) keeps the smallest set of symbols whose
	// cumulative probability exceeds P. 1.0 = disabled.
	TopP float64

	// RepeatPenalty divides the logits of recently emitted symbols. 1.0 = no penalty.
	RepeatPenalty float64
	RepeatWindow  int // number of recent symbols considered, 0 = all

	// Seed for reproducibility. -1 = random.
	Seed int64
}

// DefaultSamplingConfig returns defaults for character-level sampling.
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Temperature:   1.0,
		TopK:          0,
		TopP:          1.0,
		RepeatPenalty: 1.0,
		RepeatWindow:  32,
		Seed:          -1,
	}
}

// Sampler draws symbol indices from logits.
type Sampler struct {
	config SamplingConfig
	src    rand.Source
	logits []float64
	probs  []float64
}

// NewSampler creates a sampler with the given configuration.
func NewSampler(config SamplingConfig) *Sampler {
	seed := uint64(config.Seed) //nolint:gosec // G115: only the bit pattern matters.
	if config.Seed < 0 {
		seed = rand.Uint64()
	}
	return &Sampler{
		config: config,
		src:    rand.NewPCG(seed, seed^0xda3e39cb94b95bdb),
	}
}

// Sample returns the next symbol index.
//
// The steps are:
//  1. repetition penalty over the recent symbols
//  2. greedy argmax when Temperature is 0
//  3. Top-K filtering
//  4. softmax at Temperature
//  5. Top-P filtering
//  6. a categorical draw
func (s *Sampler) Sample(logits []float64, previous []int) int {
	s.logits = append(s.logits[:0], logits...)
	if cap(s.probs) < len(logits) {
		s.probs = make([]float64, len(logits))
	}
	s.probs = s.probs[:len(logits)]

	if s.config.RepeatPenalty != 1.0 && s.config.RepeatPenalty > 0 && len(previous) > 0 {
		s.applyRepetitionPenalty(previous)
	}

	if s.config.Temperature <= 0 {
		return vecops.ArgMax(s.logits)
	}

	if s.config.TopK > 0 && s.config.TopK < len(s.logits) {
		s.topKFilter()
	}

	nn.Softmax(s.probs, s.logits, s.config.Temperature)

	if s.config.TopP > 0 && s.config.TopP < 1.0 {
		s.topPFilter()
	}

	return int(distuv.NewCategorical(s.probs, s.src).Rand())
}

func (s *Sampler) applyRepetitionPenalty(previous []int) {
	recent := previous
	if w := s.config.RepeatWindow; w > 0 && len(previous) > w {
		recent = previous[len(previous)-w:]
	}
	seen := make(map[int]struct{}, len(recent))
	for _, idx := range recent {
		if _, ok := seen[idx]; ok || idx < 0 || idx >= len(s.logits) {
			continue
		}
		seen[idx] = struct{}{}
		if s.logits[idx] > 0 {
			s.logits[idx] /= s.config.RepeatPenalty
		} else {
			s.logits[idx] *= s.config.RepeatPenalty
		}
	}
}

// topKFilter sets every logit below the K-th largest to -Inf.
func (s *Sampler) topKFilter() {
	sorted := append([]float64(nil), s.logits...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	threshold := sorted[s.config.TopK-1]
	for i, v := range s.logits {
		if v < threshold {
			s.logits[i] = math.Inf(-1)
		}
	}
}

// topPFilter zeroes the tail of the distribution outside the nucleus and
// renormalizes. At least one symbol is always kept.
func (s *Sampler) topPFilter() {
	order := make([]int, len(s.probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return s.probs[order[i]] > s.probs[order[j]] })

	var cum float64
	cut := len(order)
	for i, idx := range order {
		cum += s.probs[idx]
		if cum > s.config.TopP {
			cut = i + 1
			break
		}
	}
	var kept float64
	for i, idx := range order {
		if i >= cut {
			s.probs[idx] = 0
			continue
		}
		kept += s.probs[idx]
	}
	vecops.Scale(s.probs, 1/kept)
}
