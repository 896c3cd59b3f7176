package train

import (
	"context"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// EndReason tells hooks why a run stopped.
type EndReason int

// Reasons a run ends.
const (
	Completed EndReason = iota // iteration or epoch budget exhausted
	Canceled                   // context canceled between windows
)

// String returns the reason name.
func (r EndReason) String() string {
	if r == Canceled {
		return "canceled"
	}
	return "completed"
}

// Hook observes a run between windows. Hooks never see a window in progress.
type Hook interface {
	// OnStep is called after every window. A returned error stops the run.
	OnStep(t *Trainer, r StepResult) error

	// OnEnd is called once when the run stops.
	OnEnd(t *Trainer, reason EndReason) error
}

// StepFunc adapts a function to a Hook with no end action.
type StepFunc func(t *Trainer, r StepResult) error

// OnStep calls f.
func (f StepFunc) OnStep(t *Trainer, r StepResult) error { return f(t, r) }

// OnEnd does nothing.
func (f StepFunc) OnEnd(*Trainer, EndReason) error { return nil }

// Run steps the trainer until Done or until ctx is canceled. Cancellation is
// only observed between windows, so weights handed to hooks are always the
// result of a complete optimizer step.
//
// It returns the final smoothed loss. On cancellation the error wraps
// ctx.Err() after every OnEnd hook has run.
func (t *Trainer) Run(ctx context.Context, hooks ...Hook) (float64, error) {
	reason := Completed
	for !t.Done() {
		if ctx.Err() != nil {
			reason = Canceled
			klog.Infof("training canceled at iteration %d (epoch %d), loss %.5f", t.iteration, t.epoch, t.loss)
			break
		}
		r := t.Step()
		for _, h := range hooks {
			if err := h.OnStep(t, r); err != nil {
				return t.loss, errors.WithMessagef(err, "hook at iteration %d", r.Iteration)
			}
		}
	}

	for _, h := range hooks {
		if err := h.OnEnd(t, reason); err != nil {
			return t.loss, errors.WithMessage(err, "end hook")
		}
	}
	if reason == Canceled {
		return t.loss, errors.Wrap(ctx.Err(), "training interrupted")
	}
	return t.loss, nil
}
