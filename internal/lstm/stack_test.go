package lstm

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/recurrent/internal/nn"
)

func TestDims(t *testing.T) {
	tests := []struct {
		name  string
		p, l  int
		wantX int
		wantY int
	}{
		{"single layer", 0, 1, 7, 7},
		{"output layer", 0, 3, 5, 7},
		{"middle layer", 1, 3, 5, 5},
		{"input layer", 2, 3, 7, 5},
		{"two layers output", 0, 2, 5, 7},
		{"two layers input", 1, 2, 7, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Dims(tt.p, tt.l, 7, 5)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestNewStack(t *testing.T) {
	s, err := NewStack(StackConfig{Features: 6, Neurons: 4, Layers: 3, Seed: 1})
	require.NoError(t, err)
	require.Len(t, s.Layers, 3)
	require.NoError(t, s.Validate())

	assert.True(t, s.Layers[0].Softmax)
	assert.False(t, s.Layers[1].Softmax)
	assert.False(t, s.Layers[2].Softmax)

	assert.Equal(t, 6, s.Layers[2].X(), "input layer reads the one-hot input")
	assert.Equal(t, 6, s.Layers[0].Y(), "output layer produces the distribution")
	for _, c := range s.Layers {
		assert.Equal(t, 4, c.N())
	}

	var want int
	for _, c := range s.Layers {
		want += 4*(c.N()*c.S()+c.N()) + c.Y()*c.N() + c.Y()
	}
	assert.Equal(t, want, s.NumParams())
}

func TestNewStack_SingleLayer(t *testing.T) {
	s, err := NewStack(StackConfig{Features: 5, Neurons: 4, Layers: 1, Temperature: 0.5})
	require.NoError(t, err)
	require.Len(t, s.Layers, 1)

	c := s.Layers[0]
	assert.Equal(t, 5, c.X())
	assert.Equal(t, 5, c.Y())
	assert.True(t, c.Softmax)
	assert.Equal(t, 0.5, c.Temperature)
	assert.Equal(t, 4*(4*9+4)+5*4+5, s.NumParams())
}

func TestNewStack_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  StackConfig
		want error
	}{
		{"no layers", StackConfig{Features: 5, Neurons: 4}, ErrNoLayers},
		{"no features", StackConfig{Neurons: 4, Layers: 1}, ErrInvalidWidth},
		{"no neurons", StackConfig{Features: 5, Layers: 2}, ErrInvalidWidth},
		{"negative temperature", StackConfig{Features: 5, Neurons: 4, Layers: 1, Temperature: -1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStack(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, s)
			if tt.want != nil {
				assert.True(t, errors.Is(err, tt.want), "got %v", err)
			}
		})
	}
}

func TestNewStack_Seed(t *testing.T) {
	cfg := StackConfig{Features: 4, Neurons: 3, Layers: 2, Seed: 42}
	a, err := NewStack(cfg)
	require.NoError(t, err)
	b, err := NewStack(cfg)
	require.NoError(t, err)

	for p := range a.Layers {
		pa, pb := a.Layers[p].Params.Tensors(), b.Layers[p].Params.Tensors()
		for i := range pa {
			assert.Equal(t, pa[i].Data(), pb[i].Data())
		}
	}

	cfg.Seed = 43
	c, err := NewStack(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Layers[0].Params.F.Weight.Data(), c.Layers[0].Params.F.Weight.Data())

	cfg.Zero = true
	z, err := NewStack(cfg)
	require.NoError(t, err)
	for _, cell := range z.Layers {
		for _, tensor := range cell.Params.Tensors() {
			assert.Zero(t, floats.Norm(tensor.Data(), 2))
		}
	}
}

func TestStack_Validate(t *testing.T) {
	s, err := NewStack(StackConfig{Features: 5, Neurons: 4, Layers: 2, Zero: true})
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	tests := []struct {
		name   string
		mutate func(s *Stack)
	}{
		{"empty", func(s *Stack) { s.Layers = nil }},
		{"wrong features", func(s *Stack) { s.Features = 6 }},
		{"wrong input layer", func(s *Stack) {
			s.Layers[1] = NewCell(CellConfig{X: 3, N: 4, Y: 4, Zero: true}, nil)
		}},
		{"wrong output layer", func(s *Stack) {
			s.Layers[0] = NewCell(CellConfig{X: 4, N: 4, Y: 3, Softmax: true, Zero: true}, nil)
		}},
		{"broken link", func(s *Stack) {
			s.Layers[1] = NewCell(CellConfig{X: 5, N: 4, Y: 3, Zero: true}, nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broken := &Stack{Layers: append([]*Cell(nil), s.Layers...), Features: s.Features}
			tt.mutate(broken)
			assert.Error(t, broken.Validate())
		})
	}
}

func TestInference_Step(t *testing.T) {
	s, err := NewStack(StackConfig{Features: 4, Neurons: 3, Layers: 2, Seed: 9, Interlayer: nn.Tanh})
	require.NoError(t, err)
	inf := s.NewInference()

	// Manual chain: layer 1 reads the one-hot input, layer 0 reads layer 1.
	top, out := s.Layers[1], s.Layers[0]
	s1, s0 := NewState(3), NewState(3)
	topCache, outCache := top.NewCache(), out.NewCache()
	step := func(index int) []float64 {
		onehot := make([]float64, 4)
		onehot[index] = 1
		top.Forward(s1.H, s1.C, onehot, topCache)
		s1.CopyFrom(topCache)
		out.Forward(s0.H, s0.C, topCache.Probs, outCache)
		s0.CopyFrom(outCache)
		return outCache.Probs
	}

	var first []float64
	for i, index := range []int{0, 3, 1, 1, 2} {
		got := append([]float64(nil), inf.Step(index)...)
		want := step(index)
		assert.InDeltaSlice(t, want, got, 1e-15, "step %d", i)
		assert.InDelta(t, 1.0, floats.Sum(got), 1e-12)
		if i == 0 {
			first = got
		}
	}
	assert.Equal(t, s1.H, inf.State(1).H)
	assert.Equal(t, s0.C, inf.State(0).C)
	assert.Equal(t, outCache.Logit, inf.Logits())

	inf.Reset()
	for p := range s.Layers {
		assert.Zero(t, floats.Norm(inf.State(p).H, 2))
		assert.Zero(t, floats.Norm(inf.State(p).C, 2))
	}
	assert.Equal(t, first, inf.Step(0), "reset restores the initial state")

	assert.Panics(t, func() { inf.Step(-1) })
	assert.Panics(t, func() { inf.Step(4) })
}

func TestInference_StateCarries(t *testing.T) {
	s, err := NewStack(StackConfig{Features: 3, Neurons: 5, Layers: 1, Seed: 2})
	require.NoError(t, err)

	a := s.NewInference()
	a.Step(1)
	afterHistory := append([]float64(nil), a.Step(2)...)

	b := s.NewInference()
	fresh := b.Step(2)
	assert.NotEqual(t, afterHistory, fresh, "output depends on carried state")
}
