package report

import (
	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/born-ml/recurrent/internal/train"
)

// Printer logs a progress line every Every iterations.
type Printer struct {
	Every int

	// Sample, when set, is called on each report and its text is logged
	// below the progress line.
	Sample func(t *train.Trainer) (string, error)
}

// OnStep implements train.Hook.
func (p *Printer) OnStep(t *train.Trainer, r train.StepResult) error {
	if p.Every <= 0 || r.Iteration%p.Every != 0 {
		return nil
	}
	klog.Infof("iter %s  epoch %d  pos %s  loss %.5f  window %.5f  best %.5f@%s  lr %.3g",
		humanize.Comma(int64(r.Iteration)), r.Epoch, humanize.Comma(int64(r.Start)),
		r.Loss, r.WindowLoss, r.Best, humanize.Comma(int64(r.BestIteration)), r.LR)

	if p.Sample != nil {
		text, err := p.Sample(t)
		if err != nil {
			klog.Warningf("sampling failed: %+v", err)
			return nil
		}
		klog.Infof("sample: %q", text)
	}
	return nil
}

// OnEnd implements train.Hook.
func (p *Printer) OnEnd(t *train.Trainer, reason train.EndReason) error {
	best, at := t.Best()
	klog.Infof("training %s after %s iterations (%d epochs): loss %.5f, best %.5f at iteration %s",
		reason, humanize.Comma(int64(t.Iteration())), t.Epoch(), t.Loss(), best, humanize.Comma(int64(at)))
	return nil
}
