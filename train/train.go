// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train provides truncated backpropagation-through-time training of
// a stacked LSTM over one encoded text stream.
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/recurrent/lstm"
//	    "github.com/born-ml/recurrent/train"
//	)
//
//	cfg, err := train.LoadConfig("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stack, err := lstm.NewStack(cfg.StackConfig(v.Size()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trainer, err := train.NewTrainer(stack, cfg, stream)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	loss, err := trainer.Run(ctx, train.StepFunc(func(t *train.Trainer, r train.StepResult) error {
//	    fmt.Printf("iter %d loss %.4f\n", r.Iteration, r.Loss)
//	    return nil
//	}))
package train

import (
	"github.com/born-ml/recurrent/internal/lstm"
	"github.com/born-ml/recurrent/internal/train"
)

// Config holds every hyperparameter of a training run.
type Config = train.Config

// ConfigError reports an invalid configuration field.
type ConfigError = train.ConfigError

// Trainer runs windows over the stream.
type Trainer = train.Trainer

// StepResult describes one processed window.
type StepResult = train.StepResult

// Progress is the resumable position of a run.
type Progress = train.Progress

// Hook observes a run between windows.
type Hook = train.Hook

// StepFunc adapts a function to a Hook without an end callback.
type StepFunc = train.StepFunc

// EndReason tells hooks why a run ended.
type EndReason = train.EndReason

// End reasons.
const (
	Completed = train.Completed
	Canceled  = train.Canceled
)

// Sentinel errors.
var (
	ErrInvalidConfig = train.ErrInvalidConfig
	ErrClipConflict  = train.ErrClipConflict
	ErrEmptyStream   = train.ErrEmptyStream
	ErrIndexRange    = train.ErrIndexRange
)

// DefaultConfig returns the defaults of the reference character model.
func DefaultConfig() Config {
	return train.DefaultConfig()
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates it.
func LoadConfig(path string) (Config, error) {
	return train.LoadConfig(path)
}

// NewTrainer validates cfg and stream and allocates the run's buffers.
func NewTrainer(stack *lstm.Stack, cfg Config, stream []int) (*Trainer, error) {
	return train.NewTrainer(stack, cfg, stream)
}
