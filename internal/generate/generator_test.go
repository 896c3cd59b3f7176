package generate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/recurrent/internal/lstm"
	"github.com/born-ml/recurrent/internal/vocab"
)

func newTestGenerator(t *testing.T) (*Generator, *vocab.Chars) {
	t.Helper()
	v := vocab.NewChars("abcd")
	stack, err := lstm.NewStack(lstm.StackConfig{Features: v.Size(), Neurons: 6, Layers: 2, Seed: 5})
	require.NoError(t, err)
	g, err := NewGenerator(stack, v)
	require.NoError(t, err)
	return g, v
}

func TestNewGenerator_VocabMismatch(t *testing.T) {
	stack, err := lstm.NewStack(lstm.StackConfig{Features: 3, Neurons: 4, Layers: 1})
	require.NoError(t, err)
	_, err = NewGenerator(stack, vocab.NewChars("abcd"))
	assert.ErrorIs(t, err, ErrVocabMismatch)
}

func TestGenerate_Length(t *testing.T) {
	g, v := newTestGenerator(t)
	cfg := DefaultConfig()
	cfg.MaxTokens = 20
	cfg.Sampling.Seed = 1

	out, err := g.Generate("ab", cfg)
	require.NoError(t, err)
	assert.Len(t, out, 20)
	_, err = v.Encode(out)
	assert.NoError(t, err, "only vocabulary symbols are produced")

	cfg.EchoPrompt = true
	g.Reset()
	out, err = g.Generate("ab", cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ab"))
	assert.Len(t, out, 22)
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTokens = 30
	cfg.Sampling.Seed = 11

	g1, _ := newTestGenerator(t)
	g2, _ := newTestGenerator(t)
	a, err := g1.Generate("", cfg)
	require.NoError(t, err)
	b, err := g2.Generate("", cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_UnknownPrompt(t *testing.T) {
	g, _ := newTestGenerator(t)
	_, err := g.Generate("xyz", DefaultConfig())
	assert.ErrorIs(t, err, vocab.ErrUnknownSymbol)
}

func TestStream_StopAndCancel(t *testing.T) {
	g, _ := newTestGenerator(t)
	cfg := DefaultConfig()
	cfg.MaxTokens = 100
	cfg.Sampling.Temperature = 0

	var results []Result
	require.NoError(t, g.Stream("a", cfg, func(r Result) bool {
		results = append(results, r)
		return len(results) < 5
	}))
	assert.Len(t, results, 5)

	// Greedy decoding is deterministic, so its first symbol is a valid stop string.
	g.Reset()
	results = results[:0]
	stop := ""
	cfg.StopStrings = []string{"\x00"}
	require.NoError(t, g.Stream("a", cfg, func(r Result) bool {
		if stop == "" {
			stop = r.Token
		}
		results = append(results, r)
		return true
	}))
	require.Len(t, results, 100)
	last := results[len(results)-1]
	assert.True(t, last.Done)
	assert.Equal(t, "max_tokens", last.Reason)

	g.Reset()
	cfg.StopStrings = []string{stop}
	results = results[:0]
	require.NoError(t, g.Stream("a", cfg, func(r Result) bool {
		results = append(results, r)
		return true
	}))
	require.Len(t, results, 1)
	assert.Equal(t, "stop_string", results[0].Reason)
}
