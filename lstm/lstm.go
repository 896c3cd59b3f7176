// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package lstm provides the stacked LSTM network.
//
// Layer 0 is output-facing and produces the softmax distribution, the last
// layer reads the one-hot input. Each layer owns its weights, its gradient
// accumulator and its optimizer moments.
//
// Example usage:
//
//	import "github.com/born-ml/recurrent/lstm"
//
//	stack, err := lstm.NewStack(lstm.StackConfig{
//	    Features: vocabSize,
//	    Neurons:  68,
//	    Layers:   3,
//	    Seed:     1,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inf := stack.NewInference()
//	probs := inf.Step(index)
package lstm

import (
	"github.com/born-ml/recurrent/internal/lstm"
)

// Stack is an ordered list of layers.
type Stack = lstm.Stack

// StackConfig describes the shape of a Stack.
type StackConfig = lstm.StackConfig

// Cell is one LSTM layer.
type Cell = lstm.Cell

// CellConfig configures a single layer.
type CellConfig = lstm.CellConfig

// Cache records the forward values of one layer at one timestep.
type Cache = lstm.Cache

// State is the hidden and cell state of one layer.
type State = lstm.State

// Inference carries recurrent state between single-step calls.
type Inference = lstm.Inference

// Configuration errors.
var (
	ErrNoLayers     = lstm.ErrNoLayers
	ErrInvalidWidth = lstm.ErrInvalidWidth
)

// NewStack validates cfg and allocates every layer.
func NewStack(cfg StackConfig) (*Stack, error) {
	return lstm.NewStack(cfg)
}

// Dims returns the input and output widths of layer p.
func Dims(p, layers, features, neurons int) (x, y int) {
	return lstm.Dims(p, layers, features, neurons)
}
