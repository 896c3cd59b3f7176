// Package vecops implements elementwise operations over flat float64 buffers.
//
// These are the primitives shared by every numeric kernel in the module. They
// are thin wrappers over gonum's floats package with the argument order used
// throughout the code base: destination first, operand second.
package vecops

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Copy copies src into dst. Both must have the same length.
func Copy(dst, src []float64) {
	mustMatch("Copy", dst, src)
	copy(dst, src)
}

// Add computes dst[i] += s[i].
func Add(dst, s []float64) {
	floats.Add(dst, s)
}

// Sub computes dst[i] -= s[i].
func Sub(dst, s []float64) {
	floats.Sub(dst, s)
}

// Mul computes dst[i] *= s[i].
func Mul(dst, s []float64) {
	floats.Mul(dst, s)
}

// Scale computes dst[i] *= c.
func Scale(dst []float64, c float64) {
	floats.Scale(c, dst)
}

// AddScaled computes dst[i] += alpha * s[i].
func AddScaled(dst []float64, alpha float64, s []float64) {
	floats.AddScaled(dst, alpha, s)
}

// Zero sets every element of dst to zero.
func Zero(dst []float64) {
	clear(dst)
}

// Clamp bounds every element of dst to [-limit, limit].
func Clamp(dst []float64, limit float64) {
	for i, v := range dst {
		switch {
		case v > limit:
			dst[i] = limit
		case v < -limit:
			dst[i] = -limit
		}
	}
}

// Norm returns the Euclidean norm of s.
func Norm(s []float64) float64 {
	return floats.Norm(s, 2)
}

// ArgMax returns the index of the largest element. It panics on an empty slice.
func ArgMax(s []float64) int {
	return floats.MaxIdx(s)
}

// OneHot zeroes dst and sets dst[index] to 1.
func OneHot(dst []float64, index int) {
	if index < 0 || index >= len(dst) {
		panic(fmt.Sprintf("vecops.OneHot: index %d out of range [0, %d)", index, len(dst)))
	}
	clear(dst)
	dst[index] = 1
}

// RandomNormal fills dst with N(0, 1) / sqrt(fanIn/5) samples drawn from src.
//
// A non-positive fanIn zero-fills dst, which is how biases and the gradient,
// momentum and moment buffers are created.
func RandomNormal(dst []float64, fanIn float64, src rand.Source) {
	if fanIn <= 0 {
		clear(dst)
		return
	}
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	scale := 1 / math.Sqrt(fanIn/5)
	for i := range dst {
		dst[i] = dist.Rand() * scale
	}
}

func mustMatch(op string, a, b []float64) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("vecops.%s: length mismatch %d != %d", op, len(a), len(b)))
	}
}
