package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/recurrent/generate"
	"github.com/born-ml/recurrent/internal/report"
	"github.com/born-ml/recurrent/lstm"
	"github.com/born-ml/recurrent/model"
	"github.com/born-ml/recurrent/nn"
	"github.com/born-ml/recurrent/optim"
	"github.com/born-ml/recurrent/train"
	"github.com/born-ml/recurrent/vocab"
)

type trainFlags struct {
	data, config, load, save, json string
	vocab, encoding                string

	every, checkpointEvery int
	progress               string
	progressEvery          int
	bar                    bool
	sampleLen              int
	sampleTemperature      float64

	// overrides, applied only when set on the command line
	layers, neurons, mb, iterations, epochs, workers int
	lr                                               float64
	optimizer, activation                            string
	seed                                             uint64
	stateful                                         bool
}

func runTrain(args []string) error {
	var f trainFlags
	fs := newFlagSet("train")
	fs.StringVar(&f.data, "data", "", "training text file (required)")
	fs.StringVar(&f.config, "config", "", "YAML configuration file")
	fs.StringVar(&f.load, "load", "", "resume from a saved model")
	fs.StringVar(&f.save, "save", "model.rnn", "model file written on checkpoints and on exit")
	fs.StringVar(&f.json, "json", "", "also export the trained weights as JSON to this file")
	fs.StringVar(&f.vocab, "vocab", "chars", "vocabulary kind for a new model: chars or tiktoken")
	fs.StringVar(&f.encoding, "encoding", vocab.DefaultEncoding, "tiktoken encoding")
	fs.IntVar(&f.every, "every", 100, "report every N iterations")
	fs.IntVar(&f.checkpointEvery, "checkpoint-every", 1000, "save the model every N iterations, 0 = only on exit")
	fs.StringVar(&f.progress, "progress", "", "append 'iteration loss' lines to this file")
	fs.IntVar(&f.progressEvery, "progress-every", 10, "write a progress line every N iterations")
	fs.BoolVar(&f.bar, "bar", false, "show a progress bar")
	fs.IntVar(&f.sampleLen, "sample", 80, "symbols sampled with each report, 0 disables sampling")
	fs.Float64Var(&f.sampleTemperature, "sample-temperature", 0.8, "temperature of report samples")
	fs.IntVar(&f.layers, "layers", 0, "override: number of layers")
	fs.IntVar(&f.neurons, "neurons", 0, "override: neurons per layer")
	fs.IntVar(&f.mb, "mb", 0, "override: window length")
	fs.IntVar(&f.iterations, "iterations", 0, "override: iteration budget")
	fs.IntVar(&f.epochs, "epochs", 0, "override: epoch budget")
	fs.IntVar(&f.workers, "workers", 0, "override: goroutines for per-layer updates")
	fs.Float64Var(&f.lr, "lr", 0, "override: learning rate")
	fs.StringVar(&f.optimizer, "optimizer", "", "override: adam or momentum")
	fs.StringVar(&f.activation, "activation", "", "override: identity, sigmoid or tanh between layers")
	fs.Uint64Var(&f.seed, "seed", 0, "override: weight initialization seed")
	fs.BoolVar(&f.stateful, "stateful", false, "override: carry state between windows")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if f.data == "" {
		fs.Usage()
		return errors.New("-data is required")
	}

	//nolint:gosec // G304: path is provided by the operator.
	raw, err := os.ReadFile(f.data)
	if err != nil {
		return errors.Wrap(err, "reading training data")
	}
	corpus := string(raw)

	var (
		cfg      train.Config
		stack    *lstm.Stack
		v        vocab.Vocab
		progress *train.Progress
	)
	if f.load != "" {
		m, err := model.Load(f.load)
		if err != nil {
			return err
		}
		if m.Vocab == nil {
			return errors.Errorf("%s has no vocabulary and cannot be resumed", f.load)
		}
		cfg, stack, v, progress = m.Config, m.Stack, m.Vocab, m.Progress
	} else {
		cfg = train.DefaultConfig()
		if f.config != "" {
			if cfg, err = train.LoadConfig(f.config); err != nil {
				return err
			}
		}
	}

	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	if err := applyOverrides(&cfg, &f, set); err != nil {
		return err
	}
	if stack != nil && (set["layers"] || set["neurons"] || set["activation"] || set["seed"]) {
		klog.Warning("architecture overrides are ignored when resuming a saved model")
	}

	if v == nil {
		if v, err = vocab.New(f.vocab, f.encoding, corpus); err != nil {
			return err
		}
	}
	stream, err := v.Encode(corpus)
	if err != nil {
		return errors.WithMessage(err, "encoding training data")
	}
	if stack == nil {
		if stack, err = lstm.NewStack(cfg.StackConfig(v.Size())); err != nil {
			return err
		}
	}

	trainer, err := train.NewTrainer(stack, cfg, stream)
	if err != nil {
		return err
	}
	if progress != nil {
		if err := trainer.Resume(*progress); err != nil {
			return err
		}
	}
	klog.Infof("corpus %s (%s symbols, %d distinct), %d layers x %d neurons, %s parameters",
		humanize.Bytes(uint64(len(raw))), humanize.Comma(int64(len(stream))), v.Size(),
		cfg.Layers, cfg.Neurons, humanize.Comma(int64(stack.NumParams())))

	hooks := []train.Hook{&report.Printer{Every: f.every, Sample: sampler(v, f.sampleLen, f.sampleTemperature)}}
	if f.bar {
		hooks = append(hooks, report.NewProgressBar(os.Stderr, trainer.Iteration(), cfg.Iterations, f.every))
	}
	if f.progress != "" {
		pf, err := report.OpenProgressFile(f.progress, f.progressEvery)
		if err != nil {
			return err
		}
		hooks = append(hooks, pf)
	}
	hooks = append(hooks, &report.Checkpointer{
		Path:          f.save,
		Every:         f.checkpointEvery,
		Vocab:         v,
		WithOptimizer: true,
		Metadata:      map[string]string{"data": f.data, "vocab": v.Kind()},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loss, err := trainer.Run(ctx, hooks...)
	if err != nil {
		if ctx.Err() == nil {
			return err
		}
		klog.Infof("interrupted, model saved to %s", f.save)
	}
	klog.Infof("final loss %.5f", loss)

	if f.json != "" {
		if err := model.ExportJSONFile(f.json, stack); err != nil {
			return err
		}
		klog.Infof("weights exported to %s", f.json)
	}
	return nil
}

func applyOverrides(cfg *train.Config, f *trainFlags, set map[string]bool) error {
	if set["layers"] {
		cfg.Layers = f.layers
	}
	if set["neurons"] {
		cfg.Neurons = f.neurons
	}
	if set["mb"] {
		cfg.MiniBatchSize = f.mb
	}
	if set["iterations"] {
		cfg.Iterations = f.iterations
	}
	if set["epochs"] {
		cfg.Epochs = f.epochs
	}
	if set["workers"] {
		cfg.Workers = f.workers
	}
	if set["lr"] {
		cfg.LearningRate = f.lr
	}
	if set["seed"] {
		cfg.Seed = f.seed
	}
	if set["stateful"] {
		cfg.Stateful = f.stateful
	}
	if set["optimizer"] {
		kind, err := optim.ParseKind(f.optimizer)
		if err != nil {
			return err
		}
		cfg.Optimizer = kind
	}
	if set["activation"] {
		act, err := nn.ParseActivation(f.activation)
		if err != nil {
			return err
		}
		cfg.InterlayerActivation = act
	}
	return cfg.Validate()
}

// sampler returns the report callback that samples n symbols from the
// current weights, or nil when n is 0.
func sampler(v vocab.Vocab, n int, temperature float64) func(*train.Trainer) (string, error) {
	if n <= 0 {
		return nil
	}
	return func(t *train.Trainer) (string, error) {
		gen, err := generate.NewGenerator(t.Stack(), v)
		if err != nil {
			return "", err
		}
		cfg := generate.DefaultConfig()
		cfg.MaxTokens = n
		cfg.Sampling.Temperature = temperature
		return gen.Generate("", cfg)
	}
}
