package report

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/recurrent/internal/serialization"
	"github.com/born-ml/recurrent/internal/train"
	"github.com/born-ml/recurrent/internal/vocab"
)

// Checkpointer saves the model every Every iterations and once more when
// the run ends, including on cancellation. Since hooks only run between
// windows, every checkpoint holds weights from a complete optimizer step.
type Checkpointer struct {
	Path          string
	Every         int // 0 = only at the end
	Vocab         vocab.Vocab
	WithOptimizer bool
	Metadata      map[string]string
}

// OnStep implements train.Hook.
func (c *Checkpointer) OnStep(t *train.Trainer, r train.StepResult) error {
	if c.Every <= 0 || (r.Iteration+1)%c.Every != 0 {
		return nil
	}
	return c.Save(t)
}

// OnEnd implements train.Hook.
func (c *Checkpointer) OnEnd(t *train.Trainer, reason train.EndReason) error {
	if err := c.Save(t); err != nil {
		return err
	}
	klog.Infof("checkpoint written on %s", reason)
	return nil
}

// Save writes the current state of t.
func (c *Checkpointer) Save(t *train.Trainer) error {
	progress := t.Progress()
	m := &serialization.Model{
		Stack:    t.Stack(),
		Vocab:    c.Vocab,
		Config:   t.Config(),
		Progress: &progress,
		Metadata: c.Metadata,
	}
	if err := serialization.Save(c.Path, m, serialization.SaveOptions{WithOptimizer: c.WithOptimizer}); err != nil {
		return errors.WithMessage(err, "checkpoint")
	}
	if info, err := os.Stat(c.Path); err == nil {
		klog.V(1).Infof("saved %s (%s) at iteration %d", c.Path, humanize.Bytes(uint64(info.Size())), progress.Iteration) //nolint:gosec // G115: file sizes are non-negative.
	}
	return nil
}
