package train

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/recurrent/internal/nn"
	"github.com/born-ml/recurrent/internal/optim"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.GradientClip)
	assert.False(t, cfg.GradientNormFit)
	assert.False(t, cfg.Stateful)
	assert.Equal(t, optim.KindAdam, cfg.Optimizer)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero layers", func(c *Config) { c.Layers = 0 }, "layers"},
		{"negative neurons", func(c *Config) { c.Neurons = -1 }, "neurons"},
		{"zero window", func(c *Config) { c.MiniBatchSize = 0 }, "mini_batch_size"},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }, "iterations"},
		{"negative epochs", func(c *Config) { c.Epochs = -1 }, "epochs"},
		{"zero learning rate", func(c *Config) { c.LearningRate = 0 }, "learning_rate"},
		{"decay without constant", func(c *Config) { c.LearningRateDecay = true; c.LearningRateDecayConstant = 0 }, "learning_rate_decay_constant"},
		{"momentum of one", func(c *Config) { c.Momentum = 1 }, "momentum"},
		{"beta1 of one", func(c *Config) { c.Beta1 = 1 }, "beta1"},
		{"negative beta2", func(c *Config) { c.Beta2 = -0.1 }, "beta2"},
		{"negative epsilon", func(c *Config) { c.Epsilon = -1 }, "epsilon"},
		{"negative lambda", func(c *Config) { c.Regularize = true; c.Lambda = -1 }, "lambda"},
		{"zero loss decay", func(c *Config) { c.LossMovingAvgDecay = 0 }, "loss_moving_avg_decay"},
		{"zero temperature", func(c *Config) { c.SoftmaxTemperature = 0 }, "softmax_temperature"},
		{"zero clip limit", func(c *Config) { c.GradientClipLimit = 0 }, "gradient_clip_limit"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "workers"},
		{"unknown activation", func(c *Config) { c.InterlayerActivation = nn.Activation(42) }, "interlayer_activation"},
		{"unknown optimizer", func(c *Config) { c.Optimizer = optim.Kind(42) }, "optimizer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestConfig_ClipConflict(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientClip = true
	cfg.GradientNormFit = true

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrClipConflict)

	cfg.GradientClip = false
	assert.NoError(t, cfg.Validate())
}

func TestConfig_ErrorsWrapSentinel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layers = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
layers: 2
neurons: 32
interlayer_activation: tanh
optimizer: momentum
momentum: 0.9
learning_rate: 0.05
gradient_clip_enabled: false
gradient_norm_fit_enabled: true
stateful_carry_enabled: true
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Layers)
	assert.Equal(t, 32, cfg.Neurons)
	assert.Equal(t, nn.Tanh, cfg.InterlayerActivation)
	assert.Equal(t, optim.KindMomentum, cfg.Optimizer)
	assert.InDelta(t, 0.9, cfg.Momentum, 1e-12)
	assert.True(t, cfg.GradientNormFit)
	assert.True(t, cfg.Stateful)

	// Unset fields keep their defaults.
	assert.Equal(t, DefaultConfig().MiniBatchSize, cfg.MiniBatchSize)
	assert.Equal(t, DefaultConfig().GradientClipLimit, cfg.GradientClipLimit)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("optimizer: rmsprop\n"), 0o600))
	_, err = LoadConfig(bad)
	assert.ErrorIs(t, err, optim.ErrUnknownOptimizer)

	conflict := filepath.Join(dir, "conflict.yaml")
	require.NoError(t, os.WriteFile(conflict, []byte("gradient_norm_fit_enabled: true\n"), 0o600))
	_, err = LoadConfig(conflict)
	assert.ErrorIs(t, err, ErrClipConflict)
}

func TestConfig_Carries(t *testing.T) {
	tests := []struct {
		name     string
		stateful bool
		output   bool
		want     []bool // per layer 0..2
	}{
		{"stateless", false, false, []bool{false, false, false}},
		{"stateful", true, false, []bool{false, true, true}},
		{"stateful with output layer", true, true, []bool{true, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Stateful = tt.stateful
			cfg.StatefulOutputLayer = tt.output
			for p, want := range tt.want {
				assert.Equal(t, want, cfg.Carries(p), "layer %d", p)
			}
		})
	}
}
