package generate

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/recurrent/internal/lstm"
	"github.com/born-ml/recurrent/internal/vocab"
)

// ErrVocabMismatch is returned when the vocabulary does not match the
// network's output width.
var ErrVocabMismatch = errors.New("generate: vocabulary size does not match network")

// Config configures text generation.
type Config struct {
	// MaxTokens is the number of symbols to generate.
	MaxTokens int

	// StopStrings end generation once the output ends with one of them.
	StopStrings []string

	// EchoPrompt includes the prompt in the output.
	EchoPrompt bool

	// Sampling is the sampling configuration.
	Sampling SamplingConfig
}

// DefaultConfig returns defaults for generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens: 256,
		Sampling:  DefaultSamplingConfig(),
	}
}

// Result is one generated symbol.
type Result struct {
	Token  string // decoded symbol
	Index  int    // symbol index
	Done   bool   // generation is complete
	Reason string // "max_tokens" or "stop_string" when Done
}

// Generator runs a Stack forward one symbol at a time.
type Generator struct {
	inf   *lstm.Inference
	vocab vocab.Vocab
}

// NewGenerator returns a generator with zero recurrent state.
func NewGenerator(stack *lstm.Stack, v vocab.Vocab) (*Generator, error) {
	if v.Size() != stack.Features {
		return nil, errors.Wrapf(ErrVocabMismatch, "vocabulary has %d symbols, network %d", v.Size(), stack.Features)
	}
	return &Generator{inf: stack.NewInference(), vocab: v}, nil
}

// Reset clears the recurrent state.
func (g *Generator) Reset() {
	g.inf.Reset()
}

// Generate primes the network with prompt and samples cfg.MaxTokens
// symbols. An empty prompt starts from a symbol drawn uniformly by the
// sampler.
func (g *Generator) Generate(prompt string, cfg Config) (string, error) {
	var out strings.Builder
	if cfg.EchoPrompt {
		out.WriteString(prompt)
	}
	err := g.Stream(prompt, cfg, func(r Result) bool {
		out.WriteString(r.Token)
		return true
	})
	return out.String(), err
}

// Stream is like Generate but hands each symbol to fn as it is produced.
// Generation stops early when fn returns false.
func (g *Generator) Stream(prompt string, cfg Config, fn func(Result) bool) error {
	sampler := NewSampler(cfg.Sampling)

	history, err := g.vocab.Encode(prompt)
	if err != nil {
		return errors.WithMessage(err, "encode prompt")
	}
	if len(history) == 0 {
		uniform := make([]float64, g.vocab.Size())
		history = append(history, sampler.Sample(uniform, nil))
	}

	var logits []float64
	for _, idx := range history {
		g.inf.Step(idx)
		logits = g.inf.Logits()
	}

	var text strings.Builder
	for i := range cfg.MaxTokens {
		next := sampler.Sample(logits, history)
		history = append(history, next)

		token, err := g.vocab.Decode([]int{next})
		if err != nil {
			return err
		}
		text.WriteString(token)

		r := Result{Token: token, Index: next}
		switch {
		case hasStop(text.String(), cfg.StopStrings):
			r.Done, r.Reason = true, "stop_string"
		case i == cfg.MaxTokens-1:
			r.Done, r.Reason = true, "max_tokens"
		}
		if !fn(r) || r.Done {
			return nil
		}

		g.inf.Step(next)
		logits = g.inf.Logits()
	}
	return nil
}

func hasStop(text string, stops []string) bool {
	for _, s := range stops {
		if s != "" && strings.HasSuffix(text, s) {
			return true
		}
	}
	return false
}
