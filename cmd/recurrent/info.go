package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/born-ml/recurrent/model"
)

func runInfo(args []string) error {
	fs := newFlagSet("info")
	load := fs.String("load", "", "saved model (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *load == "" {
		fs.Usage()
		return errors.New("-load is required")
	}

	st, err := os.Stat(*load)
	if err != nil {
		return errors.Wrap(err, "stat model")
	}
	m, err := model.Load(*load)
	if err != nil {
		return err
	}

	fmt.Printf("file:        %s (%s)\n", *load, humanize.Bytes(uint64(st.Size()))) //nolint:gosec // G115: file sizes are non-negative.
	fmt.Printf("parameters:  %s\n", humanize.Comma(int64(m.Stack.NumParams())))
	fmt.Printf("features:    %d\n", m.Stack.Features)
	for p, c := range m.Stack.Layers {
		fmt.Printf("layer %d:     X=%d N=%d Y=%d\n", p, c.X(), c.N(), c.Y())
	}
	if m.Vocab != nil {
		fmt.Printf("vocabulary:  %s, %d symbols\n", m.Vocab.Kind(), m.Vocab.Size())
	}
	fmt.Printf("optimizer:   %s, lr %g\n", m.Config.Optimizer, m.Config.LearningRate)
	if p := m.Progress; p != nil {
		fmt.Printf("progress:    iteration %s, epoch %d, position %s\n",
			humanize.Comma(int64(p.Iteration)), p.Epoch, humanize.Comma(int64(p.Position)))
		fmt.Printf("loss:        %.5f (best %.5f at iteration %s)\n",
			p.Loss, p.Best, humanize.Comma(int64(p.BestIteration)))
	}

	keys := make([]string, 0, len(m.Metadata))
	for k := range m.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("meta %s: %s\n", k, m.Metadata[k])
	}
	return nil
}
