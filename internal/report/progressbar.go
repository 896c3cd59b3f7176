package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/born-ml/recurrent/internal/train"
)

// ProgressBar renders a terminal progress bar over the iteration budget,
// with the smoothed loss in its description.
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	every int
	last  int
}

// NewProgressBar creates a bar for total iterations starting at start,
// writing to w (os.Stderr when nil). The description is refreshed every
// `every` iterations.
func NewProgressBar(w io.Writer, start, total, every int) *ProgressBar {
	if w == nil {
		w = os.Stderr
	}
	if every <= 0 {
		every = 1
	}
	bar := progressbar.NewOptions64(int64(total),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Training"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("windows"),
		progressbar.OptionSetTheme(progressbar.ThemeUnicode),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	_ = bar.Set(start)
	return &ProgressBar{bar: bar, every: every, last: start}
}

// OnStep implements train.Hook.
func (p *ProgressBar) OnStep(_ *train.Trainer, r train.StepResult) error {
	if r.Iteration%p.every == 0 {
		p.bar.Describe(fmt.Sprintf("epoch %d loss %.4f", r.Epoch, r.Loss))
	}
	amount := r.Iteration + 1 - p.last
	p.last = r.Iteration + 1
	return p.bar.Add(amount)
}

// OnEnd implements train.Hook.
func (p *ProgressBar) OnEnd(*train.Trainer, train.EndReason) error {
	return p.bar.Exit()
}
