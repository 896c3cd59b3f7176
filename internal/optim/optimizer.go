// Package optim implements the weight-update rules of the recurrent trainer.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - Momentum: gradient descent with momentum
//   - Adam: Adaptive Moment Estimation
//   - Clip / FitNorm: gradient post-processing
//
// Optimizers are stateless apart from their hyperparameters and step
// counter: the moment buffers belong to the layer that owns the parameters
// and are handed in through Slot.
//
// Example usage:
//
//	opt, err := optim.New(optim.KindAdam, optim.Config{LR: 0.001})
//	if err != nil {
//	    return err
//	}
//	for window := range windows {
//	    // ... forward and backward sweep filling the gradients ...
//	    opt.Step(slots)
//	}
package optim

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/recurrent/internal/nn"
	"github.com/born-ml/recurrent/internal/parallel"
)

// ErrUnknownOptimizer is returned for an unrecognized optimizer selector.
var ErrUnknownOptimizer = errors.New("optim: unknown optimizer")

// Kind selects an update rule.
type Kind int

// Supported optimizers.
const (
	KindAdam Kind = iota
	KindMomentum
)

// String returns the optimizer name.
func (k Kind) String() string {
	switch k {
	case KindAdam:
		return "adam"
	case KindMomentum:
		return "momentum"
	default:
		return "unknown"
	}
}

// ParseKind maps a name to a Kind. "sgd" and "gd" select momentum descent.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "adam":
		return KindAdam, nil
	case "momentum", "sgd", "gd", "momentum-sgd":
		return KindMomentum, nil
	default:
		return 0, errors.Wrapf(ErrUnknownOptimizer, "%q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k != KindAdam && k != KindMomentum {
		return nil, errors.Wrapf(ErrUnknownOptimizer, "kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Slot ties one parameter tensor to its gradient and its moment buffers.
// All four tensors have the same shape.
type Slot struct {
	Param *nn.Parameter
	Grad  *nn.Parameter
	M     *nn.Parameter // momentum or first moment
	R     *nn.Parameter // second moment (Adam only)
}

// Optimizer is the base interface for all update rules.
type Optimizer interface {
	// Step applies one update to every slot. Adam counts one timestep per call.
	Step(slots []Slot)

	// LR returns the current learning rate.
	LR() float64

	// SetLR updates the learning rate, for decay schedules.
	SetLR(lr float64)

	// Kind identifies the update rule.
	Kind() Kind
}

// Config is the configuration shared by all optimizers.
type Config struct {
	LR       float64 // Learning rate (default: 0.001)
	Momentum float64 // Momentum decay for KindMomentum (default: 0, plain descent)
	Beta1    float64 // Adam first moment decay (default: 0.9)
	Beta2    float64 // Adam second moment decay (default: 0.999)
	Eps      float64 // Adam stability term (default: 1e-8)
	Lambda   float64 // L2 regularization strength, 0 disables it

	// Parallel splits the per-slot updates of one Step across goroutines.
	Parallel parallel.Config
}

// New creates the optimizer selected by kind.
func New(kind Kind, cfg Config) (Optimizer, error) {
	switch kind {
	case KindAdam:
		return NewAdam(cfg), nil
	case KindMomentum:
		return NewMomentum(cfg), nil
	default:
		return nil, errors.Wrapf(ErrUnknownOptimizer, "kind %d", int(kind))
	}
}

// regularize adds lambda*param to the gradient.
func regularize(s Slot, lambda float64) {
	if lambda == 0 {
		return
	}
	grad, param := s.Grad.Data(), s.Param.Data()
	for i := range grad {
		grad[i] += lambda * param[i]
	}
}
