package nn

import (
	"math/rand/v2"

	"github.com/born-ml/recurrent/internal/vecops"
)

// Gaussian fills p with N(0, 1)/sqrt(fanIn/5) samples.
//
// This is the scaled normal initialization used for every gate weight
// (fanIn = concatenated input width) and the output projection
// (fanIn = hidden width). A non-positive fanIn zeroes p.
func Gaussian(p *Parameter, fanIn int, src rand.Source) {
	vecops.RandomNormal(p.Data(), float64(fanIn), src)
}
