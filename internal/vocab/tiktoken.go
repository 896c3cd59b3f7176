package vocab

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/pkoukk/tiktoken-go"
)

const (
	kindTikToken = "tiktoken"

	// DefaultEncoding is the encoding used when none is given.
	DefaultEncoding = "cl100k_base"
)

// TikToken wraps a pkoukk/tiktoken-go encoding.
//
// A full BPE vocabulary has ~100k entries, far more than a small LSTM can
// emit. TikToken keeps only the token ids that occur in the corpus it was
// built from and maps them to a dense range in first-seen order.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
	tokens   []int       // dense index -> BPE token id
	index    map[int]int // BPE token id -> dense index
}

// NewTikToken loads the named encoding and compacts the tokens of corpus.
//
// Supported encodings: "cl100k_base" (GPT-4), "p50k_base" and "r50k_base" (GPT-3).
func NewTikToken(encodingName, corpus string) (*TikToken, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	t := &TikToken{name: encodingName, index: make(map[int]int)}
	if err := t.load(); err != nil {
		return nil, err
	}
	for _, id := range t.encoding.Encode(corpus, nil, nil) {
		t.add(id)
	}
	return t, nil
}

func (t *TikToken) load() error {
	encoding, err := tiktoken.GetEncoding(t.name)
	if err != nil {
		return errors.Wrapf(err, "failed to load tiktoken encoding %q", t.name)
	}
	t.encoding = encoding
	return nil
}

func (t *TikToken) add(id int) {
	if _, ok := t.index[id]; ok {
		return
	}
	t.index[id] = len(t.tokens)
	t.tokens = append(t.tokens, id)
}

// Encode converts text to dense indices. Tokens that did not occur in the
// corpus are rejected.
func (t *TikToken) Encode(text string) ([]int, error) {
	ids := t.encoding.Encode(text, nil, nil)
	out := make([]int, len(ids))
	for i, id := range ids {
		idx, ok := t.index[id]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownSymbol, "token %d (%q)", id, t.encoding.Decode([]int{id}))
		}
		out[i] = idx
	}
	return out, nil
}

// Decode converts dense indices back to text.
func (t *TikToken) Decode(indices []int) (string, error) {
	ids := make([]int, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(t.tokens) {
			return "", errors.Wrapf(ErrIndexRange, "%d not in [0, %d)", idx, len(t.tokens))
		}
		ids[i] = t.tokens[idx]
	}
	return t.encoding.Decode(ids), nil
}

// Size returns the number of distinct tokens seen in the corpus.
func (t *TikToken) Size() int {
	return len(t.tokens)
}

// Kind returns "tiktoken".
func (t *TikToken) Kind() string {
	return kindTikToken
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}

type tiktokenJSON struct {
	Encoding string `json:"encoding"`
	Tokens   []int  `json:"tokens"`
}

// MarshalJSON writes the encoding name and the compacted token table.
func (t *TikToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(tiktokenJSON{Encoding: t.name, Tokens: t.tokens})
}

// UnmarshalJSON restores the token table and reloads the encoding.
func (t *TikToken) UnmarshalJSON(data []byte) error {
	var in tiktokenJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.WithStack(err)
	}
	*t = TikToken{name: in.Encoding, index: make(map[int]int, len(in.Tokens))}
	if err := t.load(); err != nil {
		return err
	}
	for _, id := range in.Tokens {
		t.add(id)
	}
	return nil
}
