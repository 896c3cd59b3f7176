package vocab

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

const kindChars = "chars"

// Chars is a byte-level vocabulary. Each distinct byte of the corpus is one
// symbol; indices follow the order in which bytes first appear.
type Chars struct {
	symbols []byte
	index   [256]int // byte -> index+1, 0 when absent
}

// NewChars collects the distinct bytes of text.
func NewChars(text string) *Chars {
	c := &Chars{}
	for i := range len(text) {
		c.add(text[i])
	}
	return c
}

// CharsFromSymbols builds a vocabulary with the given symbol order.
// Duplicate bytes keep their first position.
func CharsFromSymbols(symbols []byte) *Chars {
	c := &Chars{}
	for _, b := range symbols {
		c.add(b)
	}
	return c
}

func (c *Chars) add(b byte) {
	if c.index[b] != 0 {
		return
	}
	c.symbols = append(c.symbols, b)
	c.index[b] = len(c.symbols)
}

// Index returns the index of b.
func (c *Chars) Index(b byte) (int, bool) {
	i := c.index[b]
	return i - 1, i != 0
}

// Symbol returns the byte at index i.
func (c *Chars) Symbol(i int) (byte, error) {
	if i < 0 || i >= len(c.symbols) {
		return 0, errors.Wrapf(ErrIndexRange, "%d not in [0, %d)", i, len(c.symbols))
	}
	return c.symbols[i], nil
}

// Symbols returns the symbol table in index order.
func (c *Chars) Symbols() []byte {
	return c.symbols
}

// Encode maps every byte of text to its index.
func (c *Chars) Encode(text string) ([]int, error) {
	out := make([]int, len(text))
	for i := range len(text) {
		idx, ok := c.Index(text[i])
		if !ok {
			return nil, errors.Wrapf(ErrUnknownSymbol, "byte %q at offset %d", text[i], i)
		}
		out[i] = idx
	}
	return out, nil
}

// Decode maps indices back to bytes.
func (c *Chars) Decode(indices []int) (string, error) {
	var sb strings.Builder
	sb.Grow(len(indices))
	for _, i := range indices {
		b, err := c.Symbol(i)
		if err != nil {
			return sb.String(), err
		}
		sb.WriteByte(b)
	}
	return sb.String(), nil
}

// Size returns the number of distinct bytes.
func (c *Chars) Size() int {
	return len(c.symbols)
}

// Kind returns "chars".
func (c *Chars) Kind() string {
	return kindChars
}

type charsJSON struct {
	Symbols []int `json:"symbols"`
}

// MarshalJSON writes the symbol table as byte values, which keeps
// non-UTF-8 corpora intact.
func (c *Chars) MarshalJSON() ([]byte, error) {
	out := charsJSON{Symbols: make([]int, len(c.symbols))}
	for i, b := range c.symbols {
		out.Symbols[i] = int(b)
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a table written by MarshalJSON.
func (c *Chars) UnmarshalJSON(data []byte) error {
	var in charsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.WithStack(err)
	}
	*c = Chars{}
	for _, v := range in.Symbols {
		if v < 0 || v > 255 {
			return errors.Errorf("vocab: symbol %d is not a byte", v)
		}
		c.add(byte(v))
	}
	return nil
}
