package lstm

import (
	"fmt"
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/born-ml/recurrent/internal/nn"
)

// Configuration errors returned by NewStack.
var (
	ErrNoLayers     = errors.New("lstm: at least one layer is required")
	ErrInvalidWidth = errors.New("lstm: widths must be positive")
)

// StackConfig describes a stack of layers.
type StackConfig struct {
	Features    int           // vocabulary size: input width of the last layer, output width of layer 0
	Neurons     int           // hidden width of every layer
	Layers      int           // number of stacked cells
	Temperature float64       // softmax temperature of layer 0 (default: 1.0)
	Interlayer  nn.Activation // activation applied to the output of layers > 0
	Seed        uint64        // weight initialization seed
	Zero        bool          // zero weights instead of random initialization
}

// Stack is an ordered list of layers. Layers[0] is output-facing,
// Layers[len-1] receives the one-hot input.
type Stack struct {
	Layers   []*Cell
	Features int
}

// Dims returns the (X, Y) widths of layer p in a stack of the given size.
//
// A single layer maps features to features. With more layers the last one
// maps features to neurons, layer 0 maps neurons to features, and every layer
// in between maps neurons to neurons.
func Dims(p, layers, features, neurons int) (x, y int) {
	switch {
	case layers == 1:
		return features, features
	case p == 0:
		return neurons, features
	case p == layers-1:
		return features, neurons
	default:
		return neurons, neurons
	}
}

// NewStack validates cfg and allocates every layer.
func NewStack(cfg StackConfig) (*Stack, error) {
	if cfg.Layers <= 0 {
		return nil, ErrNoLayers
	}
	if cfg.Features <= 0 || cfg.Neurons <= 0 {
		return nil, errors.Wrapf(ErrInvalidWidth, "features=%d neurons=%d", cfg.Features, cfg.Neurons)
	}
	if cfg.Temperature < 0 {
		return nil, errors.Errorf("lstm: softmax temperature must be positive, got %v", cfg.Temperature)
	}

	src := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	s := &Stack{
		Layers:   make([]*Cell, cfg.Layers),
		Features: cfg.Features,
	}
	for p := range cfg.Layers {
		x, y := Dims(p, cfg.Layers, cfg.Features, cfg.Neurons)
		s.Layers[p] = NewCell(CellConfig{
			X:           x,
			N:           cfg.Neurons,
			Y:           y,
			Softmax:     p == 0,
			Temperature: cfg.Temperature,
			Activation:  cfg.Interlayer,
			Zero:        cfg.Zero,
		}, src)
	}
	return s, nil
}

// Validate checks that each layer's output feeds the next layer's input.
func (s *Stack) Validate() error {
	if len(s.Layers) == 0 {
		return ErrNoLayers
	}
	top := s.Layers[len(s.Layers)-1]
	if top.X() != s.Features {
		return errors.Errorf("lstm: input layer expects %d features, stack has %d", top.X(), s.Features)
	}
	if s.Layers[0].Y() != s.Features {
		return errors.Errorf("lstm: output layer produces %d features, stack has %d", s.Layers[0].Y(), s.Features)
	}
	for p := 1; p < len(s.Layers); p++ {
		if s.Layers[p].Y() != s.Layers[p-1].X() {
			return errors.Errorf("lstm: layer %d output width %d does not match layer %d input width %d",
				p, s.Layers[p].Y(), p-1, s.Layers[p-1].X())
		}
	}
	return nil
}

// NumParams returns the number of trainable scalars.
func (s *Stack) NumParams() int {
	var n int
	for _, c := range s.Layers {
		n += c.Params.Len()
	}
	return n
}

// Inference carries the recurrent state of a Stack between Step calls.
type Inference struct {
	stack  *Stack
	states []State
	caches []*Cache
	input  []float64
}

// NewInference returns a zero-state inference context for s.
func (s *Stack) NewInference() *Inference {
	inf := &Inference{
		stack:  s,
		states: make([]State, len(s.Layers)),
		caches: make([]*Cache, len(s.Layers)),
		input:  make([]float64, s.Features),
	}
	for p, c := range s.Layers {
		inf.states[p] = NewState(c.N())
		inf.caches[p] = c.NewCache()
	}
	return inf
}

// Reset zeroes the recurrent state.
func (inf *Inference) Reset() {
	for _, st := range inf.states {
		st.Reset()
	}
}

// State returns the carried state of layer p.
func (inf *Inference) State(p int) State {
	return inf.states[p]
}

// Forward feeds one external input vector through every layer, updates the
// carried state and returns the output distribution of layer 0.
//
// The returned slice is owned by inf and overwritten by the next call.
func (inf *Inference) Forward(input []float64) []float64 {
	in := input
	for p := len(inf.stack.Layers) - 1; p >= 0; p-- {
		cell, st, cache := inf.stack.Layers[p], inf.states[p], inf.caches[p]
		cell.Forward(st.H, st.C, in, cache)
		st.CopyFrom(cache)
		in = cache.Probs
	}
	return in
}

// Step feeds the one-hot encoding of index and returns the output
// distribution. See Forward.
func (inf *Inference) Step(index int) []float64 {
	if index < 0 || index >= inf.stack.Features {
		panic(fmt.Sprintf("Inference.Step: index %d out of range [0, %d)", index, inf.stack.Features))
	}
	clear(inf.input)
	inf.input[index] = 1
	return inf.Forward(inf.input)
}

// Logits returns the pre-softmax output of layer 0 from the last call.
func (inf *Inference) Logits() []float64 {
	return inf.caches[0].Logit
}
