package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/recurrent/generate"
	"github.com/born-ml/recurrent/model"
)

func runSample(args []string) error {
	fs := newFlagSet("sample")
	load := fs.String("load", "", "saved model (required)")
	prompt := fs.String("prompt", "", "text fed to the network before sampling")
	n := fs.Int("n", 256, "number of symbols to generate")
	temperature := fs.Float64("temperature", 1.0, "sampling temperature, 0 = greedy")
	topK := fs.Int("topk", 0, "sample from the K most likely symbols, 0 = all")
	topP := fs.Float64("topp", 1.0, "nucleus sampling threshold")
	penalty := fs.Float64("repeat-penalty", 1.0, "penalty for recently emitted symbols")
	seed := fs.Int64("seed", -1, "sampling seed, -1 = random")
	stop := fs.String("stop", "", "comma separated strings that end generation")
	echo := fs.Bool("echo", true, "print the prompt before the generated text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *load == "" {
		fs.Usage()
		return errors.New("-load is required")
	}

	m, err := model.Load(*load)
	if err != nil {
		return err
	}
	if m.Vocab == nil {
		return errors.Errorf("%s has no vocabulary", *load)
	}
	gen, err := generate.NewGenerator(m.Stack, m.Vocab)
	if err != nil {
		return err
	}

	cfg := generate.DefaultConfig()
	cfg.MaxTokens = *n
	cfg.Sampling.Temperature = *temperature
	cfg.Sampling.TopK = *topK
	cfg.Sampling.TopP = *topP
	cfg.Sampling.RepeatPenalty = *penalty
	cfg.Sampling.Seed = *seed
	if *stop != "" {
		cfg.StopStrings = strings.Split(*stop, ",")
	}

	if *echo {
		fmt.Print(*prompt)
	}
	err = gen.Stream(*prompt, cfg, func(r generate.Result) bool {
		fmt.Print(r.Token)
		return true
	})
	fmt.Println()
	return err
}
