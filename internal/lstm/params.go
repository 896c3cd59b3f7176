package lstm

import (
	"github.com/born-ml/recurrent/internal/nn"
)

// Params holds every tensor of one layer.
//
// The same shape set is used for weights, the per-window gradient
// accumulator, and the optimizer moments, so the three stay keyed 1:1.
type Params struct {
	F nn.Affine // forget gate, N×S
	I nn.Affine // input gate, N×S
	C nn.Affine // candidate cell input, N×S
	O nn.Affine // output gate, N×S
	Y nn.Affine // output projection, Y×N
}

// NewParams allocates zeroed tensors for a layer with external input width
// x, hidden width n and output width y.
func NewParams(x, n, y int) *Params {
	s := x + n
	return &Params{
		F: nn.NewAffine("f", s, n),
		I: nn.NewAffine("i", s, n),
		C: nn.NewAffine("c", s, n),
		O: nn.NewAffine("o", s, n),
		Y: nn.NewAffine("y", n, y),
	}
}

// Tensors returns the tensors in a fixed order:
// Wf, Wi, Wc, Wo, Wy, bf, bi, bc, bo, by.
func (p *Params) Tensors() []*nn.Parameter {
	return []*nn.Parameter{
		p.F.Weight, p.I.Weight, p.C.Weight, p.O.Weight, p.Y.Weight,
		p.F.Bias, p.I.Bias, p.C.Bias, p.O.Bias, p.Y.Bias,
	}
}

// Gates returns the four gate transforms in the order f, i, c, o.
func (p *Params) Gates() []nn.Affine {
	return []nn.Affine{p.F, p.I, p.C, p.O}
}

// Zero clears every tensor.
func (p *Params) Zero() {
	for _, t := range p.Tensors() {
		t.Zero()
	}
}

// CopyFrom copies every tensor of src into p.
func (p *Params) CopyFrom(src *Params) {
	dst, from := p.Tensors(), src.Tensors()
	for i := range dst {
		dst[i].CopyFrom(from[i])
	}
}

// Len returns the total number of scalars across all tensors.
func (p *Params) Len() int {
	var n int
	for _, t := range p.Tensors() {
		n += t.Len()
	}
	return n
}
