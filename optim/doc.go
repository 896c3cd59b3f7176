// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the weight-update rules of the recurrent trainer.
//
// # Overview
//
// This package contains:
//   - Momentum: gradient descent with momentum (plain descent at momentum 0)
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Clip and FitNorm: per-layer gradient post-processing
//
// Moment buffers belong to the layer that owns the parameters. An optimizer
// only holds hyperparameters and, for Adam, the timestep.
//
// # Basic Usage
//
//	opt, err := optim.New(optim.KindAdam, optim.Config{LR: 0.001})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, cell := range stack.Layers {
//	    optim.Clip(cell.Grads.Tensors(), 5)
//	}
//	opt.Step(slots)
package optim
