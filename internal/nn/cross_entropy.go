package nn

import (
	"fmt"
	"math"
)

// CrossEntropy returns -log(probs[target]).
func CrossEntropy(probs []float64, target int) float64 {
	if target < 0 || target >= len(probs) {
		panic(fmt.Sprintf("CrossEntropy: target %d out of range [0, %d)", target, len(probs)))
	}
	return -math.Log(probs[target])
}

// SoftmaxCrossEntropyBackward writes the gradient of CrossEntropy(Softmax(x))
// with respect to x into dst: probs with 1 subtracted at target.
//
// The softmax temperature is not folded into the gradient.
func SoftmaxCrossEntropyBackward(dst, probs []float64, target int) {
	copy(dst, probs)
	dst[target] -= 1.0
}
