package vecops

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementwise(t *testing.T) {
	tests := []struct {
		name string
		op   func(dst []float64)
		want []float64
	}{
		{"add", func(d []float64) { Add(d, []float64{1, 1, 1}) }, []float64{2, 3, 4}},
		{"sub", func(d []float64) { Sub(d, []float64{1, 1, 1}) }, []float64{0, 1, 2}},
		{"mul", func(d []float64) { Mul(d, []float64{2, 0, -1}) }, []float64{2, 0, -3}},
		{"scale", func(d []float64) { Scale(d, 0.5) }, []float64{0.5, 1, 1.5}},
		{"add scaled", func(d []float64) { AddScaled(d, -2, []float64{1, 1, 1}) }, []float64{-1, 0, 1}},
		{"zero", func(d []float64) { Zero(d) }, []float64{0, 0, 0}},
		{"copy", func(d []float64) { Copy(d, []float64{7, 8, 9}) }, []float64{7, 8, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := []float64{1, 2, 3}
			tt.op(dst)
			assert.Equal(t, tt.want, dst)
		})
	}

	assert.Panics(t, func() { Copy(make([]float64, 2), make([]float64, 3)) })
}

func TestClamp(t *testing.T) {
	v := []float64{-1e9, -5, -4.9, 0, 5, 1e300, math.Inf(1)}
	Clamp(v, 5)
	assert.Equal(t, []float64{-5, -5, -4.9, 0, 5, 5, 5}, v)
}

func TestNormAndArgMax(t *testing.T) {
	assert.InDelta(t, 5.0, Norm([]float64{3, 4}), 1e-15)
	assert.Equal(t, 2, ArgMax([]float64{0.1, 0.2, 0.6, 0.1}))
	assert.Equal(t, 0, ArgMax([]float64{1, 1}), "ties resolve to the first index")
}

func TestOneHot(t *testing.T) {
	v := []float64{5, 5, 5, 5}
	OneHot(v, 2)
	assert.Equal(t, []float64{0, 0, 1, 0}, v)
	assert.Panics(t, func() { OneHot(v, 4) })
	assert.Panics(t, func() { OneHot(v, -1) })
}

func TestRandomNormal(t *testing.T) {
	a, b := make([]float64, 100), make([]float64, 100)
	RandomNormal(a, 20, rand.NewPCG(9, 9))
	RandomNormal(b, 20, rand.NewPCG(9, 9))
	assert.Equal(t, a, b, "same seed, same values")
	assert.NotEqual(t, make([]float64, 100), a)

	RandomNormal(a, 0, nil)
	assert.Equal(t, make([]float64, 100), a)
}
