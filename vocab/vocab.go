// Package vocab maps text to the index streams the network trains on.
//
// Supported vocabularies:
//   - Chars: one index per distinct byte, in first-seen order
//   - TikToken: BPE tokens of an OpenAI encoding, compacted to the tokens
//     the corpus uses
//
// Example usage:
//
//	import "github.com/born-ml/recurrent/vocab"
//
//	v := vocab.NewChars(corpus)
//	stream, err := v.Encode(corpus)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := v.Decode(stream[:10])
package vocab

import (
	"github.com/born-ml/recurrent/internal/vocab"
)

// Vocab is the core interface shared by all vocabularies.
type Vocab = vocab.Vocab

// Chars is a byte-level vocabulary.
type Chars = vocab.Chars

// TikToken is a BPE vocabulary backed by tiktoken.
type TikToken = vocab.TikToken

// DefaultEncoding is the tiktoken encoding used when none is named.
const DefaultEncoding = vocab.DefaultEncoding

// Errors.
var (
	ErrUnknownSymbol = vocab.ErrUnknownSymbol
	ErrIndexRange    = vocab.ErrIndexRange
	ErrUnknownKind   = vocab.ErrUnknownKind
)

// New builds a vocabulary of the given kind ("chars" or "tiktoken") from
// corpus. encoding is only used by tiktoken.
func New(kind, encoding, corpus string) (Vocab, error) {
	return vocab.New(kind, encoding, corpus)
}

// NewChars builds a byte vocabulary from text.
func NewChars(text string) *Chars {
	return vocab.NewChars(text)
}

// NewTikToken builds a compacted tiktoken vocabulary over corpus.
//
// Supported encodings include "cl100k_base", "p50k_base" and "r50k_base".
func NewTikToken(encoding, corpus string) (*TikToken, error) {
	return vocab.NewTikToken(encoding, corpus)
}

// Marshal encodes v together with its kind.
func Marshal(v Vocab) ([]byte, error) {
	return vocab.Marshal(v)
}

// Unmarshal restores a vocabulary written by Marshal.
func Unmarshal(data []byte) (Vocab, error) {
	return vocab.Unmarshal(data)
}
