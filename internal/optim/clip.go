package optim

import (
	"math"

	"github.com/born-ml/recurrent/internal/nn"
	"github.com/born-ml/recurrent/internal/vecops"
)

// Clip bounds every gradient component to [-limit, limit].
func Clip(grads []*nn.Parameter, limit float64) {
	for _, g := range grads {
		vecops.Clamp(g.Data(), limit)
	}
}

// FitNorm rescales the gradient, taken as one vector across all tensors, so
// that its Euclidean norm does not exceed limit. It returns the norm before
// rescaling.
func FitNorm(grads []*nn.Parameter, limit float64) float64 {
	var sq float64
	for _, g := range grads {
		n := vecops.Norm(g.Data())
		sq += n * n
	}
	norm := math.Sqrt(sq)
	if norm <= limit || norm == 0 {
		return norm
	}
	scale := limit / norm
	for _, g := range grads {
		vecops.Scale(g.Data(), scale)
	}
	return norm
}
