package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Parameter represents a trainable tensor in a recurrent network.
//
// Every parameter is a dense row-major matrix. Bias vectors are stored as
// n×1 matrices so weights and biases share one container type and one
// accessor set.
//
// Example:
//
//	w := nn.NewParameter("Wf", hidden, concat)
//	w.Data()[0] = 0.5
type Parameter struct {
	name  string     // Parameter name (e.g., "Wf", "by")
	value *mat.Dense // Parameter values, contiguous row-major storage
}

// NewParameter creates a zero-filled parameter with the given shape.
func NewParameter(name string, rows, cols int) *Parameter {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("nn.NewParameter(%q): invalid shape %dx%d", name, rows, cols))
	}
	return &Parameter{
		name:  name,
		value: mat.NewDense(rows, cols, nil),
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the underlying matrix.
func (p *Parameter) Value() *mat.Dense {
	return p.value
}

// Data returns the flat row-major storage backing the parameter.
//
// Writes through the returned slice update the parameter.
func (p *Parameter) Data() []float64 {
	return p.value.RawMatrix().Data
}

// Rows returns the number of rows.
func (p *Parameter) Rows() int {
	r, _ := p.value.Dims()
	return r
}

// Cols returns the number of columns.
func (p *Parameter) Cols() int {
	_, c := p.value.Dims()
	return c
}

// Len returns the number of elements.
func (p *Parameter) Len() int {
	r, c := p.value.Dims()
	return r * c
}

// Zero sets every element to zero.
func (p *Parameter) Zero() {
	p.value.Zero()
}

// CopyFrom copies the values of src into p. Shapes must match.
func (p *Parameter) CopyFrom(src *Parameter) {
	if p.Rows() != src.Rows() || p.Cols() != src.Cols() {
		panic(fmt.Sprintf("nn.Parameter.CopyFrom: shape mismatch %s %dx%d <- %s %dx%d",
			p.name, p.Rows(), p.Cols(), src.name, src.Rows(), src.Cols()))
	}
	p.value.Copy(src.value)
}

// SameShape reports whether p and o have identical dimensions.
func (p *Parameter) SameShape(o *Parameter) bool {
	return p.Rows() == o.Rows() && p.Cols() == o.Cols()
}
