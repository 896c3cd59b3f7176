package vocab

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Errors returned by Encode and Decode.
var (
	ErrUnknownSymbol = errors.New("vocab: symbol not in vocabulary")
	ErrIndexRange    = errors.New("vocab: index out of range")
	ErrUnknownKind   = errors.New("vocab: unknown vocabulary kind")
)

// Vocab is a bijection between symbols and indices in [0, Size()).
type Vocab interface {
	// Encode converts text to symbol indices.
	Encode(text string) ([]int, error)

	// Decode converts symbol indices back to text.
	Decode(indices []int) (string, error)

	// Size returns the number of symbols.
	Size() int

	// Kind names the vocabulary type for persistence ("chars", "tiktoken").
	Kind() string
}

// envelope is the persisted form of any Vocab.
type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Marshal encodes v together with its kind.
func Marshal(v Vocab) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s vocabulary", v.Kind())
	}
	out, err := json.Marshal(envelope{Kind: v.Kind(), Data: data})
	return out, errors.WithStack(err)
}

// Unmarshal decodes a vocabulary written by Marshal.
func Unmarshal(data []byte) (Vocab, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "decoding vocabulary")
	}

	switch env.Kind {
	case kindChars:
		c := &Chars{}
		if err := json.Unmarshal(env.Data, c); err != nil {
			return nil, errors.Wrap(err, "decoding chars vocabulary")
		}
		return c, nil
	case kindTikToken:
		t := &TikToken{}
		if err := json.Unmarshal(env.Data, t); err != nil {
			return nil, errors.Wrap(err, "decoding tiktoken vocabulary")
		}
		return t, nil
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", env.Kind)
	}
}

// New builds a vocabulary of the given kind from a training corpus.
// encoding is only used by the "tiktoken" kind.
func New(kind, encoding, corpus string) (Vocab, error) {
	switch kind {
	case kindChars, "":
		return NewChars(corpus), nil
	case kindTikToken:
		return NewTikToken(encoding, corpus)
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
}
