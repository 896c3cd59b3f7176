package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/born-ml/recurrent/internal/train"
)

// ProgressFile appends "iteration loss" lines every Every iterations, in a
// format gnuplot and similar tools read directly.
type ProgressFile struct {
	w     *bufio.Writer
	c     io.Closer
	every int
}

// NewProgressWriter writes progress lines to w.
func NewProgressWriter(w io.Writer, every int) *ProgressFile {
	if every <= 0 {
		every = 1
	}
	pf := &ProgressFile{w: bufio.NewWriter(w), every: every}
	if c, ok := w.(io.Closer); ok {
		pf.c = c
	}
	return pf
}

// OpenProgressFile opens path for appending.
func OpenProgressFile(path string, every int) (*ProgressFile, error) {
	//nolint:gosec // G304: path is provided by the operator.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening progress file %q", path)
	}
	return NewProgressWriter(f, every), nil
}

// OnStep implements train.Hook.
func (p *ProgressFile) OnStep(_ *train.Trainer, r train.StepResult) error {
	if r.Iteration%p.every != 0 {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "%d %f\n", r.Iteration, r.Loss)
	return errors.Wrap(err, "writing progress")
}

// OnEnd implements train.Hook. It flushes and closes the underlying file.
func (p *ProgressFile) OnEnd(*train.Trainer, train.EndReason) error {
	if err := p.w.Flush(); err != nil {
		return errors.Wrap(err, "flushing progress")
	}
	if p.c != nil {
		return errors.Wrap(p.c.Close(), "closing progress file")
	}
	return nil
}
