// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/recurrent/internal/nn"
	"github.com/born-ml/recurrent/internal/optim"
)

// Optimizer is the common interface of all update rules.
type Optimizer = optim.Optimizer

// Config holds the hyperparameters shared by all optimizers.
type Config = optim.Config

// Kind selects an update rule.
type Kind = optim.Kind

// Slot ties a parameter to its gradient and moment buffers.
type Slot = optim.Slot

// Supported optimizers.
const (
	KindAdam     = optim.KindAdam
	KindMomentum = optim.KindMomentum
)

// ErrUnknownOptimizer is returned for an unrecognized optimizer name.
var ErrUnknownOptimizer = optim.ErrUnknownOptimizer

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// Momentum represents gradient descent with momentum.
type Momentum = optim.Momentum

// New creates the optimizer selected by kind.
func New(kind Kind, cfg Config) (Optimizer, error) {
	return optim.New(kind, cfg)
}

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	opt := optim.NewAdam(optim.Config{
//	    LR:    0.001,
//	    Beta1: 0.9,
//	    Beta2: 0.999,
//	    Eps:   1e-8,
//	})
func NewAdam(cfg Config) *Adam {
	return optim.NewAdam(cfg)
}

// NewMomentum creates a momentum optimizer.
//
// Example:
//
//	opt := optim.NewMomentum(optim.Config{LR: 0.01, Momentum: 0.9})
func NewMomentum(cfg Config) *Momentum {
	return optim.NewMomentum(cfg)
}

// ParseKind maps "adam", "momentum", "sgd" or "gd" to a Kind.
func ParseKind(name string) (Kind, error) {
	return optim.ParseKind(name)
}

// Clip clamps every gradient component to [-limit, limit].
func Clip(grads []*nn.Parameter, limit float64) {
	optim.Clip(grads, limit)
}

// FitNorm rescales the gradients, taken as one vector, so their L2 norm
// does not exceed limit. It returns the norm before rescaling.
func FitNorm(grads []*nn.Parameter, limit float64) float64 {
	return optim.FitNorm(grads, limit)
}
