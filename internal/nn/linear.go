package nn

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Affine computes Y = A·X + b.
//
// It is used for every LSTM gate and for the output projection. Weight has
// shape [out, in], Bias has shape [out, 1].
type Affine struct {
	Weight *Parameter
	Bias   *Parameter
}

// NewAffine creates an affine transform with zeroed weight and bias.
func NewAffine(name string, in, out int) Affine {
	return Affine{
		Weight: NewParameter("W"+name, out, in),
		Bias:   NewParameter("b"+name, out, 1),
	}
}

// In returns the input width.
func (a Affine) In() int {
	return a.Weight.Cols()
}

// Out returns the output width.
func (a Affine) Out() int {
	return a.Weight.Rows()
}

// Forward computes y = W·x + b.
//
// y must have length Out() and x length In(); y and x must not alias.
func (a Affine) Forward(y, x []float64) {
	if len(y) != a.Out() || len(x) != a.In() {
		panic(fmt.Sprintf("Affine.Forward: expected y[%d], x[%d], got y[%d], x[%d]",
			a.Out(), a.In(), len(y), len(x)))
	}
	yv := mat.NewVecDense(len(y), y)
	yv.MulVec(a.Weight.Value(), mat.NewVecDense(len(x), x))
	floats.Add(y, a.Bias.Data())
}

// Backward propagates dy through the transform.
//
// The weight and bias gradients are accumulated into grad (dW += dy·xᵀ,
// db += dy) so repeated calls over a window sum their contributions.
// When dx is non-nil it is overwritten with Wᵀ·dy.
func (a Affine) Backward(dy, x []float64, grad Affine, dx []float64) {
	if len(dy) != a.Out() || len(x) != a.In() {
		panic(fmt.Sprintf("Affine.Backward: expected dy[%d], x[%d], got dy[%d], x[%d]",
			a.Out(), a.In(), len(dy), len(x)))
	}
	dyv := mat.NewVecDense(len(dy), dy)
	dw := grad.Weight.Value()
	dw.RankOne(dw, 1, dyv, mat.NewVecDense(len(x), x))
	floats.Add(grad.Bias.Data(), dy)

	if dx != nil {
		if len(dx) != a.In() {
			panic(fmt.Sprintf("Affine.Backward: expected dx[%d], got dx[%d]", a.In(), len(dx)))
		}
		dxv := mat.NewVecDense(len(dx), dx)
		dxv.MulVec(a.Weight.Value().T(), dyv)
	}
}

// Parameters returns [weight, bias].
func (a Affine) Parameters() []*Parameter {
	return []*Parameter{a.Weight, a.Bias}
}
