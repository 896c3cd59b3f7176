package lstm

// Cache records every forward-pass value of one layer at one timestep.
//
// A training window of length L uses L+1 caches per layer: slot 0 only holds
// the boundary state (H and C) the window starts from, slots 1..L hold the
// forward values of each timestep.
type Cache struct {
	X     []float64 // concatenated input [h_prev | input], size S
	Hf    []float64 // forget gate activation, size N
	Hi    []float64 // input gate activation, size N
	Ho    []float64 // output gate activation, size N
	Hc    []float64 // candidate cell input, size N
	C     []float64 // cell state, size N
	H     []float64 // hidden state, size N
	COld  []float64 // previous cell state, size N
	HOld  []float64 // previous hidden state, size N
	TanhC []float64 // tanh(C), size N
	Logit []float64 // Wy·h + by before the output nonlinearity, size Y
	Probs []float64 // layer output, size Y
}

// NewCache allocates a zeroed cache for a layer of the given widths.
func NewCache(x, n, y int) *Cache {
	return &Cache{
		X:     make([]float64, x+n),
		Hf:    make([]float64, n),
		Hi:    make([]float64, n),
		Ho:    make([]float64, n),
		Hc:    make([]float64, n),
		C:     make([]float64, n),
		H:     make([]float64, n),
		COld:  make([]float64, n),
		HOld:  make([]float64, n),
		TanhC: make([]float64, n),
		Logit: make([]float64, y),
		Probs: make([]float64, y),
	}
}

// ResetState zeroes the hidden and cell state held by the cache.
func (c *Cache) ResetState() {
	clear(c.H)
	clear(c.C)
}

// SetState copies a carried state into the cache.
func (c *Cache) SetState(s State) {
	copy(c.H, s.H)
	copy(c.C, s.C)
}

// State is the hidden and cell state of one layer.
type State struct {
	H []float64
	C []float64
}

// NewState allocates a zero state of width n.
func NewState(n int) State {
	return State{H: make([]float64, n), C: make([]float64, n)}
}

// CopyFrom copies the state stored in a cache.
func (s State) CopyFrom(c *Cache) {
	copy(s.H, c.H)
	copy(s.C, c.C)
}

// Reset zeroes the state.
func (s State) Reset() {
	clear(s.H)
	clear(s.C)
}

// NextCache carries gradients across the reverse-time loop.
//
// DH and DC flow from timestep t into t-1 of the same layer. DYPass flows
// from this layer into the external-input dimensions of the layer above it
// in the stack (the one feeding it).
type NextCache struct {
	DH     []float64 // size N
	DC     []float64 // size N
	DYPass []float64 // size X
}

// NewNextCache allocates zeroed gradient carriers.
func NewNextCache(x, n int) *NextCache {
	return &NextCache{
		DH:     make([]float64, n),
		DC:     make([]float64, n),
		DYPass: make([]float64, x),
	}
}

// Zero clears all carriers.
func (nc *NextCache) Zero() {
	clear(nc.DH)
	clear(nc.DC)
	clear(nc.DYPass)
}
