package train

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/recurrent/internal/lstm"
	"github.com/born-ml/recurrent/internal/nn"
	"github.com/born-ml/recurrent/internal/optim"
	"github.com/born-ml/recurrent/internal/parallel"
)

// Config holds every hyperparameter of a training run.
type Config struct {
	// Architecture
	Layers               int           `yaml:"layers"`
	Neurons              int           `yaml:"neurons"`
	InterlayerActivation nn.Activation `yaml:"interlayer_activation"`
	Seed                 uint64        `yaml:"seed"`

	// Schedule
	MiniBatchSize int `yaml:"mini_batch_size"` // truncated BPTT window length
	Iterations    int `yaml:"iterations"`
	Epochs        int `yaml:"epochs"` // 0 = no epoch limit

	// Optimizer
	Optimizer                 optim.Kind `yaml:"optimizer"`
	LearningRate              float64    `yaml:"learning_rate"`
	LearningRateDecay         bool       `yaml:"learning_rate_decay_enabled"`
	LearningRateDecayConstant float64    `yaml:"learning_rate_decay_constant"`
	Momentum                  float64    `yaml:"momentum"`
	Beta1                     float64    `yaml:"beta1"`
	Beta2                     float64    `yaml:"beta2"`
	Epsilon                   float64    `yaml:"epsilon"`
	Regularize                bool       `yaml:"regularize"`
	Lambda                    float64    `yaml:"lambda"`

	// Loss tracking and output
	LossMovingAvgDecay float64 `yaml:"loss_moving_avg_decay"`
	SoftmaxTemperature float64 `yaml:"softmax_temperature"`

	// Gradient post-processing
	GradientClip      bool    `yaml:"gradient_clip_enabled"`
	GradientClipLimit float64 `yaml:"gradient_clip_limit"`
	GradientNormFit   bool    `yaml:"gradient_norm_fit_enabled"`

	// State carry between windows
	Stateful            bool `yaml:"stateful_carry_enabled"`
	StatefulOutputLayer bool `yaml:"stateful_output_layer"` // also carry layer 0

	// Goroutines for per-layer and per-tensor work, 0 or 1 runs inline.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the defaults of the reference character model.
func DefaultConfig() Config {
	return Config{
		Layers:                    3,
		Neurons:                   68,
		InterlayerActivation:      nn.Sigmoid,
		Seed:                      1,
		MiniBatchSize:             100,
		Iterations:                100_000_000,
		Epochs:                    0,
		Optimizer:                 optim.KindAdam,
		LearningRate:              0.001,
		LearningRateDecay:         false,
		LearningRateDecayConstant: 0.03,
		Momentum:                  0.0,
		Beta1:                     0.9,
		Beta2:                     0.999,
		Epsilon:                   1e-8,
		Regularize:                false,
		Lambda:                    0.05,
		LossMovingAvgDecay:        0.01,
		SoftmaxTemperature:        1.0,
		GradientClip:              true,
		GradientClipLimit:         5.0,
		GradientNormFit:           false,
		Stateful:                  false,
		Workers:                   1,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	//nolint:gosec // G304: path is provided by the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %q", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.WithMessagef(err, "config %q", path)
	}
	return cfg, nil
}

// Validate checks every field. It never allocates network buffers, so it is
// safe to call before anything else.
//
//nolint:gocyclo,cyclop // One branch per field.
func (c Config) Validate() error {
	switch {
	case c.Layers <= 0:
		return invalid("layers", "must be positive, got %d", c.Layers)
	case c.Neurons <= 0:
		return invalid("neurons", "must be positive, got %d", c.Neurons)
	case c.MiniBatchSize <= 0:
		return invalid("mini_batch_size", "must be positive, got %d", c.MiniBatchSize)
	case c.Iterations <= 0:
		return invalid("iterations", "must be positive, got %d", c.Iterations)
	case c.Epochs < 0:
		return invalid("epochs", "must not be negative, got %d", c.Epochs)
	case c.LearningRate <= 0:
		return invalid("learning_rate", "must be positive, got %v", c.LearningRate)
	case c.LearningRateDecay && c.LearningRateDecayConstant <= 0:
		return invalid("learning_rate_decay_constant", "must be positive when decay is enabled, got %v", c.LearningRateDecayConstant)
	case c.Momentum < 0 || c.Momentum >= 1:
		return invalid("momentum", "must be in [0, 1), got %v", c.Momentum)
	case c.Beta1 < 0 || c.Beta1 >= 1:
		return invalid("beta1", "must be in [0, 1), got %v", c.Beta1)
	case c.Beta2 < 0 || c.Beta2 >= 1:
		return invalid("beta2", "must be in [0, 1), got %v", c.Beta2)
	case c.Epsilon < 0:
		return invalid("epsilon", "must not be negative, got %v", c.Epsilon)
	case c.Regularize && c.Lambda < 0:
		return invalid("lambda", "must not be negative, got %v", c.Lambda)
	case c.LossMovingAvgDecay <= 0 || c.LossMovingAvgDecay > 1:
		return invalid("loss_moving_avg_decay", "must be in (0, 1], got %v", c.LossMovingAvgDecay)
	case c.SoftmaxTemperature <= 0:
		return invalid("softmax_temperature", "must be positive, got %v", c.SoftmaxTemperature)
	case c.GradientClip && c.GradientNormFit:
		return &ConfigError{Field: "gradient_norm_fit_enabled", Reason: "cannot be combined with gradient_clip_enabled", Err: ErrClipConflict}
	case (c.GradientClip || c.GradientNormFit) && c.GradientClipLimit <= 0:
		return invalid("gradient_clip_limit", "must be positive, got %v", c.GradientClipLimit)
	case c.Workers < 0:
		return invalid("workers", "must not be negative, got %d", c.Workers)
	case c.InterlayerActivation != nn.Identity && c.InterlayerActivation != nn.Sigmoid && c.InterlayerActivation != nn.Tanh:
		return invalid("interlayer_activation", "unsupported %v", c.InterlayerActivation)
	}
	if _, err := optim.New(c.Optimizer, c.OptimizerConfig()); err != nil {
		return &ConfigError{Field: "optimizer", Reason: err.Error(), Err: optim.ErrUnknownOptimizer}
	}
	return nil
}

// OptimizerConfig returns the optimizer hyperparameters.
func (c Config) OptimizerConfig() optim.Config {
	cfg := optim.Config{
		LR:       c.LearningRate,
		Momentum: c.Momentum,
		Beta1:    c.Beta1,
		Beta2:    c.Beta2,
		Eps:      c.Epsilon,
		Parallel: c.Parallel(),
	}
	if c.Regularize {
		cfg.Lambda = c.Lambda
	}
	return cfg
}

// Parallel returns the work split for per-layer and per-tensor updates.
func (c Config) Parallel() parallel.Config {
	return parallel.Config{Workers: c.Workers, MinChunk: 1}
}

// StackConfig returns the stack shape for a vocabulary of the given size.
func (c Config) StackConfig(features int) lstm.StackConfig {
	return lstm.StackConfig{
		Features:    features,
		Neurons:     c.Neurons,
		Layers:      c.Layers,
		Temperature: c.SoftmaxTemperature,
		Interlayer:  c.InterlayerActivation,
		Seed:        c.Seed,
	}
}

// Carries reports whether layer p starts a window from the state the
// previous window ended in. The output-facing layer is reset every window
// unless StatefulOutputLayer is set.
func (c Config) Carries(p int) bool {
	return c.Stateful && (p > 0 || c.StatefulOutputLayer)
}
