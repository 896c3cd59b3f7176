// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/recurrent/internal/nn"
)

// Parameter is a named trainable tensor.
type Parameter = nn.Parameter

// Affine computes y = W·x + b.
type Affine = nn.Affine

// Activation is an elementwise nonlinearity applied between layers.
type Activation = nn.Activation

// Supported activations.
const (
	Identity = nn.Identity
	Sigmoid  = nn.Sigmoid
	Tanh     = nn.Tanh
)

// NewParameter creates a zero-filled rows×cols parameter.
func NewParameter(name string, rows, cols int) *Parameter {
	return nn.NewParameter(name, rows, cols)
}

// NewAffine creates an affine transform from in to out features.
func NewAffine(name string, in, out int) Affine {
	return nn.NewAffine(name, in, out)
}

// ParseActivation maps "identity", "sigmoid" or "tanh" to an Activation.
func ParseActivation(name string) (Activation, error) {
	return nn.ParseActivation(name)
}

// Softmax writes softmax(src / temperature) into dst.
func Softmax(dst, src []float64, temperature float64) {
	nn.Softmax(dst, src, temperature)
}

// CrossEntropy returns -log(probs[target]).
func CrossEntropy(probs []float64, target int) float64 {
	return nn.CrossEntropy(probs, target)
}
