// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the building blocks the recurrent layers are made of.
//
// # Overview
//
// This package contains:
//   - Parameter: a named dense tensor backed by gonum
//   - Affine: y = W·x + b with gradient accumulation
//   - Activations: Identity, Sigmoid, Tanh
//   - Softmax with temperature and cross-entropy loss
//
// # Basic Usage
//
//	import "github.com/born-ml/recurrent/nn"
//
//	act, err := nn.ParseActivation("tanh")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	probs := make([]float64, len(logits))
//	nn.Softmax(probs, logits, 0.8)
//	loss := nn.CrossEntropy(probs, target)
package nn
