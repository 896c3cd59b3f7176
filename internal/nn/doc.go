// Package nn implements the numeric building blocks of the recurrent network:
// named parameters, the affine layer used by every gate, elementwise
// activations, temperature-scaled softmax and cross-entropy.
package nn
