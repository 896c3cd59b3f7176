package train

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	steps   []StepResult
	ends    []EndReason
	onStep  func(r StepResult) error
	endLoss float64
}

func (h *recorder) OnStep(_ *Trainer, r StepResult) error {
	h.steps = append(h.steps, r)
	if h.onStep != nil {
		return h.onStep(r)
	}
	return nil
}

func (h *recorder) OnEnd(t *Trainer, reason EndReason) error {
	h.ends = append(h.ends, reason)
	h.endLoss = t.Loss()
	return nil
}

func TestRun_Completes(t *testing.T) {
	cfg := smallConfig()
	cfg.Iterations = 7
	tr := newTrainer(t, cfg, encode("abcabcabc"), 3)

	h := &recorder{}
	var count int
	loss, err := tr.Run(context.Background(), h, StepFunc(func(*Trainer, StepResult) error {
		count++
		return nil
	}))
	require.NoError(t, err)

	assert.Len(t, h.steps, 7)
	assert.Equal(t, 7, count)
	assert.Equal(t, []EndReason{Completed}, h.ends)
	assert.Equal(t, tr.Loss(), loss)
	assert.Equal(t, loss, h.endLoss)
	assert.Equal(t, 7, tr.Iteration())
}

func TestRun_CancelBetweenWindows(t *testing.T) {
	cfg := smallConfig()
	tr := newTrainer(t, cfg, encode("abcabcabc"), 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := &recorder{onStep: func(r StepResult) error {
		if r.Iteration == 2 {
			cancel()
		}
		return nil
	}}
	_, err := tr.Run(ctx, h)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// The window in which cancellation happened still completes.
	assert.Len(t, h.steps, 3)
	assert.Equal(t, 3, tr.Iteration())
	assert.Equal(t, []EndReason{Canceled}, h.ends)
}

func TestRun_HookErrorStops(t *testing.T) {
	cfg := smallConfig()
	tr := newTrainer(t, cfg, encode("abcabcabc"), 3)

	boom := errors.New("boom")
	h := &recorder{onStep: func(r StepResult) error {
		if r.Iteration == 1 {
			return boom
		}
		return nil
	}}
	_, err := tr.Run(context.Background(), h)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, h.steps, 2)
	assert.Empty(t, h.ends)
}

func TestEndReason_String(t *testing.T) {
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "canceled", Canceled.String())
}
