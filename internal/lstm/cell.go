package lstm

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/recurrent/internal/nn"
	"github.com/born-ml/recurrent/internal/vecops"
)

// Cell is one LSTM layer.
//
// A Cell owns its weights, the gradient accumulator for the current window,
// the optimizer moment buffers, and the scratch buffers used by Backward.
// None of these are shared with other layers.
type Cell struct {
	x, n, y, s int

	// Output selects softmax (output-facing layer) or an elementwise
	// activation applied to Wy·h + by.
	Softmax     bool
	Temperature float64
	Activation  nn.Activation

	Params *Params // weights and biases
	Grads  *Params // ∂Loss/∂param summed over the current window
	M      *Params // momentum or Adam first moment
	R      *Params // Adam second moment

	// Backward scratch, sized once and overwritten every step.
	dldy                                   []float64 // Y
	dldh, dldc, dldho, dldhf, dldhi, dldhc []float64 // N
	dldXf, dldXi, dldXc, dldXo             []float64 // S

	// Forward scratch for i ⊙ c̃.
	tmp []float64
}

// CellConfig configures NewCell.
type CellConfig struct {
	X, N, Y     int
	Softmax     bool          // output-facing layer
	Temperature float64       // softmax temperature (default: 1.0)
	Activation  nn.Activation // non-softmax output activation
	Zero        bool          // zero weights instead of random initialization
}

// NewCell allocates a layer. Gate weights are drawn from N(0,1)/sqrt(S/5)
// and Wy from N(0,1)/sqrt(N/5); biases start at zero.
//
// It panics on non-positive widths: callers validate configuration first.
func NewCell(cfg CellConfig, src rand.Source) *Cell {
	if cfg.X <= 0 || cfg.N <= 0 || cfg.Y <= 0 {
		panic(fmt.Sprintf("lstm.NewCell: invalid dimensions X=%d N=%d Y=%d", cfg.X, cfg.N, cfg.Y))
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 1.0
	}
	x, n, y := cfg.X, cfg.N, cfg.Y
	s := x + n

	c := &Cell{
		x: x, n: n, y: y, s: s,
		Softmax:     cfg.Softmax,
		Temperature: cfg.Temperature,
		Activation:  cfg.Activation,
		Params:      NewParams(x, n, y),
		Grads:       NewParams(x, n, y),
		M:           NewParams(x, n, y),
		R:           NewParams(x, n, y),
		dldy:        make([]float64, y),
		dldh:        make([]float64, n),
		dldc:        make([]float64, n),
		dldho:       make([]float64, n),
		dldhf:       make([]float64, n),
		dldhi:       make([]float64, n),
		dldhc:       make([]float64, n),
		dldXf:       make([]float64, s),
		dldXi:       make([]float64, s),
		dldXc:       make([]float64, s),
		dldXo:       make([]float64, s),
		tmp:         make([]float64, n),
	}

	if !cfg.Zero {
		for _, g := range c.Params.Gates() {
			nn.Gaussian(g.Weight, s, src)
		}
		nn.Gaussian(c.Params.Y.Weight, n, src)
	}
	return c
}

// X returns the external input width.
func (c *Cell) X() int { return c.x }

// N returns the hidden width.
func (c *Cell) N() int { return c.n }

// Y returns the output width.
func (c *Cell) Y() int { return c.y }

// S returns the concatenated input width X + N.
func (c *Cell) S() int { return c.s }

// NewCache allocates a cache sized for this cell.
func (c *Cell) NewCache() *Cache {
	return NewCache(c.x, c.n, c.y)
}

// NewNextCache allocates gradient carriers sized for this cell.
func (c *Cell) NewNextCache() *NextCache {
	return NewNextCache(c.x, c.n)
}

// Forward runs one timestep.
//
// hPrev and cPrev are the previous hidden and cell state, input is the
// external input of width X. Every intermediate value is written to out.
// hPrev and cPrev must not alias out.H or out.C.
func (c *Cell) Forward(hPrev, cPrev, input []float64, out *Cache) {
	if len(input) != c.x {
		panic(fmt.Sprintf("Cell.Forward: expected input of width %d, got %d", c.x, len(input)))
	}
	n := c.n
	p := c.Params

	vecops.Copy(out.HOld, hPrev)
	vecops.Copy(out.COld, cPrev)

	copy(out.X[:n], hPrev)
	copy(out.X[n:], input)

	p.F.Forward(out.Hf, out.X)
	nn.Sigmoid.Forward(out.Hf, out.Hf)

	p.I.Forward(out.Hi, out.X)
	nn.Sigmoid.Forward(out.Hi, out.Hi)

	p.O.Forward(out.Ho, out.X)
	nn.Sigmoid.Forward(out.Ho, out.Ho)

	p.C.Forward(out.Hc, out.X)
	nn.Tanh.Forward(out.Hc, out.Hc)

	// c = f ⊙ c_old + i ⊙ c̃
	vecops.Copy(out.C, out.Hf)
	vecops.Mul(out.C, out.COld)
	vecops.Copy(c.tmp, out.Hi)
	vecops.Mul(c.tmp, out.Hc)
	vecops.Add(out.C, c.tmp)

	// h = o ⊙ tanh(c)
	nn.Tanh.Forward(out.TanhC, out.C)
	vecops.Copy(out.H, out.Ho)
	vecops.Mul(out.H, out.TanhC)

	p.Y.Forward(out.Logit, out.H)
	if c.Softmax {
		nn.Softmax(out.Probs, out.Logit, c.Temperature)
	} else {
		c.Activation.Forward(out.Probs, out.Logit)
	}
}

// Backward runs one reverse timestep.
//
// When target >= 0 the layer is treated as output-facing and the loss
// gradient is probs - onehot(target); upstream is ignored. Otherwise
// upstream is the gradient with respect to this layer's output (the DYPass
// of the layer below) and is propagated through the output activation.
//
// next holds the gradients flowing in from timestep t+1 on entry and the
// gradients for timestep t-1 on return; next.DYPass receives the gradient
// for this layer's external input. Parameter gradients are added to c.Grads.
func (c *Cell) Backward(cache *Cache, target int, upstream []float64, next *NextCache) {
	n := c.n
	p, g := c.Params, c.Grads

	if target >= 0 {
		nn.SoftmaxCrossEntropyBackward(c.dldy, cache.Probs, target)
	} else {
		if len(upstream) != c.y {
			panic(fmt.Sprintf("Cell.Backward: expected upstream gradient of width %d, got %d", c.y, len(upstream)))
		}
		c.Activation.Backward(c.dldy, upstream, cache.Probs)
	}

	p.Y.Backward(c.dldy, cache.H, g.Y, c.dldh)
	vecops.Add(c.dldh, next.DH)

	// output gate
	vecops.Copy(c.dldho, c.dldh)
	vecops.Mul(c.dldho, cache.TanhC)
	nn.Sigmoid.Backward(c.dldho, c.dldho, cache.Ho)

	// cell state
	vecops.Copy(c.dldc, c.dldh)
	vecops.Mul(c.dldc, cache.Ho)
	nn.Tanh.Backward(c.dldc, c.dldc, cache.TanhC)
	vecops.Add(c.dldc, next.DC)

	// forget gate
	vecops.Copy(c.dldhf, c.dldc)
	vecops.Mul(c.dldhf, cache.COld)
	nn.Sigmoid.Backward(c.dldhf, c.dldhf, cache.Hf)

	// input gate
	vecops.Copy(c.dldhi, c.dldc)
	vecops.Mul(c.dldhi, cache.Hc)
	nn.Sigmoid.Backward(c.dldhi, c.dldhi, cache.Hi)

	// candidate
	vecops.Copy(c.dldhc, cache.Hi)
	vecops.Mul(c.dldhc, c.dldc)
	nn.Tanh.Backward(c.dldhc, c.dldhc, cache.Hc)

	p.F.Backward(c.dldhf, cache.X, g.F, c.dldXf)
	p.I.Backward(c.dldhi, cache.X, g.I, c.dldXi)
	p.C.Backward(c.dldhc, cache.X, g.C, c.dldXc)
	p.O.Backward(c.dldho, cache.X, g.O, c.dldXo)

	vecops.Add(c.dldXi, c.dldXf)
	vecops.Add(c.dldXi, c.dldXc)
	vecops.Add(c.dldXi, c.dldXo)

	copy(next.DH, c.dldXi[:n])
	copy(next.DYPass, c.dldXi[n:])

	vecops.Copy(next.DC, cache.Hf)
	vecops.Mul(next.DC, c.dldc)
}

// ZeroGradients clears the gradient accumulator and the backward scratch.
func (c *Cell) ZeroGradients() {
	c.Grads.Zero()
	for _, b := range [][]float64{
		c.dldy, c.dldh, c.dldc, c.dldho, c.dldhf, c.dldhi, c.dldhc,
		c.dldXf, c.dldXi, c.dldXc, c.dldXo,
	} {
		clear(b)
	}
}

// ZeroMoments clears the optimizer state.
func (c *Cell) ZeroMoments() {
	c.M.Zero()
	c.R.Zero()
}
