package nn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
)

var central = &fd.Settings{Formula: fd.Central, Step: 1e-6}

func TestParameter(t *testing.T) {
	p := NewParameter("Wf", 3, 5)
	assert.Equal(t, "Wf", p.Name())
	assert.Equal(t, 3, p.Rows())
	assert.Equal(t, 5, p.Cols())
	assert.Equal(t, 15, p.Len())
	assert.Len(t, p.Data(), 15)

	// Data is row-major and writes through.
	p.Data()[1*5+2] = 4.5
	assert.Equal(t, 4.5, p.Value().At(1, 2))

	q := NewParameter("Wi", 3, 5)
	q.CopyFrom(p)
	assert.Equal(t, p.Data(), q.Data())
	assert.True(t, p.SameShape(q))

	p.Zero()
	assert.Equal(t, make([]float64, 15), p.Data())
	assert.Equal(t, 4.5, q.Value().At(1, 2), "CopyFrom does not share storage")

	assert.False(t, p.SameShape(NewParameter("b", 3, 1)))
	assert.Panics(t, func() { p.CopyFrom(NewParameter("b", 3, 1)) })
	assert.Panics(t, func() { NewParameter("bad", 0, 1) })
}

func TestAffine_Forward(t *testing.T) {
	a := NewAffine("f", 3, 2)
	assert.Equal(t, "Wf", a.Weight.Name())
	assert.Equal(t, "bf", a.Bias.Name())
	assert.Equal(t, 3, a.In())
	assert.Equal(t, 2, a.Out())

	copy(a.Weight.Data(), []float64{
		1, 2, 3,
		-1, 0, 1,
	})
	copy(a.Bias.Data(), []float64{0.5, -0.5})

	y := make([]float64, 2)
	a.Forward(y, []float64{1, 1, 2})
	assert.Equal(t, []float64{9.5, 0.5}, y)

	assert.Panics(t, func() { a.Forward(make([]float64, 3), []float64{1, 1, 2}) })
}

func TestAffine_BackwardMatchesFiniteDifference(t *testing.T) {
	src := rand.NewPCG(1, 2)
	a := NewAffine("y", 4, 3)
	Gaussian(a.Weight, 4, src)
	Gaussian(a.Bias, 4, src)
	x := []float64{0.3, -0.7, 1.1, 0.2}
	dy := []float64{0.5, -1.0, 2.0}

	// L = dy · (W·x + b)
	loss := func() float64 {
		y := make([]float64, 3)
		a.Forward(y, x)
		return floats.Dot(dy, y)
	}

	grad := NewAffine("y", 4, 3)
	dx := make([]float64, 4)
	a.Backward(dy, x, grad, dx)

	for _, p := range []struct{ param, grad *Parameter }{{a.Weight, grad.Weight}, {a.Bias, grad.Bias}} {
		data := p.param.Data()
		numeric := fd.Gradient(nil, func(v []float64) float64 {
			saved := append([]float64(nil), data...)
			copy(data, v)
			defer copy(data, saved)
			return loss()
		}, append([]float64(nil), data...), central)
		for i := range numeric {
			assert.InDelta(t, numeric[i], p.grad.Data()[i], 1e-7, "%s[%d]", p.param.Name(), i)
		}
	}

	numericX := fd.Gradient(nil, func(v []float64) float64 {
		saved := append([]float64(nil), x...)
		copy(x, v)
		defer copy(x, saved)
		return loss()
	}, append([]float64(nil), x...), central)
	for i := range numericX {
		assert.InDelta(t, numericX[i], dx[i], 1e-7, "dx[%d]", i)
	}
}

func TestAffine_BackwardAccumulates(t *testing.T) {
	a := NewAffine("c", 2, 2)
	copy(a.Weight.Data(), []float64{1, 2, 3, 4})
	grad := NewAffine("c", 2, 2)

	a.Backward([]float64{1, 0}, []float64{1, 2}, grad, nil)
	a.Backward([]float64{0, 1}, []float64{3, 4}, grad, nil)

	assert.Equal(t, []float64{1, 2, 3, 4}, grad.Weight.Data())
	assert.Equal(t, []float64{1, 1}, grad.Bias.Data())
}

func TestActivation_Forward(t *testing.T) {
	src := []float64{-2, 0, 3}
	tests := []struct {
		act  Activation
		want []float64
	}{
		{Identity, []float64{-2, 0, 3}},
		{Sigmoid, []float64{1 / (1 + math.Exp(2)), 0.5, 1 / (1 + math.Exp(-3))}},
		{Tanh, []float64{math.Tanh(-2), 0, math.Tanh(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.act.String(), func(t *testing.T) {
			dst := make([]float64, len(src))
			tt.act.Forward(dst, src)
			assert.InDeltaSlice(t, tt.want, dst, 1e-15)
		})
	}
	assert.Panics(t, func() { Activation(9).Forward(make([]float64, 1), []float64{0}) })
}

func TestActivation_BackwardMatchesFiniteDifference(t *testing.T) {
	for _, act := range []Activation{Identity, Sigmoid, Tanh} {
		t.Run(act.String(), func(t *testing.T) {
			for _, x := range []float64{-1.5, -0.1, 0, 0.4, 2} {
				y := make([]float64, 1)
				act.Forward(y, []float64{x})
				dst := make([]float64, 1)
				act.Backward(dst, []float64{1}, y)

				numeric := fd.Derivative(func(v float64) float64 {
					out := make([]float64, 1)
					act.Forward(out, []float64{v})
					return out[0]
				}, x, central)
				assert.InDelta(t, numeric, dst[0], 1e-8, "x=%v", x)
			}
		})
	}
}

func TestParseActivation(t *testing.T) {
	tests := []struct {
		name    string
		want    Activation
		wantErr bool
	}{
		{"sigmoid", Sigmoid, false},
		{" TANH ", Tanh, false},
		{"identity", Identity, false},
		{"none", Identity, false},
		{"relu", Identity, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActivation(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	var a Activation
	require.NoError(t, a.UnmarshalText([]byte("tanh")))
	assert.Equal(t, Tanh, a)
	text, err := a.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "tanh", string(text))
}

func TestSoftmax(t *testing.T) {
	tests := []struct {
		name        string
		src         []float64
		temperature float64
	}{
		{"uniform", []float64{0, 0, 0, 0}, 1},
		{"spread", []float64{-1, 0.5, 2, 3}, 1},
		{"large values", []float64{1000, 1001, 999}, 1},
		{"hot", []float64{1, 2, 3}, 10},
		{"cold", []float64{1, 2, 3}, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]float64, len(tt.src))
			Softmax(dst, tt.src, tt.temperature)
			assert.InDelta(t, 1.0, floats.Sum(dst), 1e-12)
			for _, p := range dst {
				assert.Greater(t, p, 0.0)
				assert.Less(t, p, 1.0)
			}
		})
	}

	// Temperature sharpens or flattens the distribution.
	cold, hot := make([]float64, 3), make([]float64, 3)
	Softmax(cold, []float64{1, 2, 3}, 0.5)
	Softmax(hot, []float64{1, 2, 3}, 2)
	assert.Greater(t, cold[2], hot[2])

	// In place.
	v := []float64{1, 2}
	Softmax(v, v, 1)
	assert.InDelta(t, 1/(1+math.E), v[0], 1e-15)

	assert.Panics(t, func() { Softmax(v, v, 0) })
}

func TestCrossEntropy(t *testing.T) {
	probs := []float64{0.7, 0.2, 0.1}
	assert.InDelta(t, -math.Log(0.7), CrossEntropy(probs, 0), 1e-15)
	assert.InDelta(t, -math.Log(0.1), CrossEntropy(probs, 2), 1e-15)
	assert.Panics(t, func() { CrossEntropy(probs, 3) })
}

func TestSoftmaxCrossEntropyBackward(t *testing.T) {
	logits := []float64{0.2, -1.3, 0.8, 0.1}
	const target = 2

	probs := make([]float64, len(logits))
	Softmax(probs, logits, 1)
	grad := make([]float64, len(logits))
	SoftmaxCrossEntropyBackward(grad, probs, target)

	numeric := fd.Gradient(nil, func(x []float64) float64 {
		p := make([]float64, len(x))
		Softmax(p, x, 1)
		return CrossEntropy(p, target)
	}, logits, central)
	assert.InDeltaSlice(t, numeric, grad, 1e-8)
	assert.InDelta(t, 0.0, floats.Sum(grad), 1e-12)
}

func TestGaussian(t *testing.T) {
	p := NewParameter("W", 50, 40)
	Gaussian(p, 40, rand.NewPCG(3, 4))

	data := p.Data()
	mean := floats.Sum(data) / float64(len(data))
	var variance float64
	for _, v := range data {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(data))

	// N(0,1)/sqrt(40/5) has variance 1/8.
	assert.InDelta(t, 0.0, mean, 0.05)
	assert.InDelta(t, 1.0/8, variance, 0.02)

	Gaussian(p, 0, nil)
	assert.Equal(t, make([]float64, 2000), p.Data())
}
