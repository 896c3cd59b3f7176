// Package train implements truncated backpropagation-through-time training
// of a stacked LSTM over a single index stream.
//
// One call to Trainer.Step processes one window:
//
//	WindowStart -> ForwardSweep -> LossAccumulate -> BackwardSweep ->
//	GradientPostprocess -> OptimizerStep -> WindowAdvance
//
// Reporting and checkpointing run between windows through Hooks (see Run).
package train

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/recurrent/internal/lstm"
	"github.com/born-ml/recurrent/internal/nn"
	"github.com/born-ml/recurrent/internal/optim"
	"github.com/born-ml/recurrent/internal/parallel"
	"github.com/born-ml/recurrent/internal/vecops"
)

// StepResult describes one processed window.
type StepResult struct {
	Iteration     int     // index of the window, starting at 0
	Epoch         int     // epoch the window belongs to
	Start         int     // first stream position of the window
	Length        int     // number of timesteps (short for a trailing window)
	WindowLoss    float64 // mean cross-entropy over the window
	Loss          float64 // exponential moving average of WindowLoss
	Best          float64 // lowest smoothed loss so far
	BestIteration int     // iteration at which Best was reached
	LR            float64 // learning rate used for this window
}

// Trainer owns the cache ledger, the gradient carriers and the optimizer of
// one training run over a Stack.
type Trainer struct {
	cfg    Config
	stack  *lstm.Stack
	stream []int
	opt    optim.Optimizer
	slots  []optim.Slot

	caches  [][]*lstm.Cache   // [layer][MiniBatchSize+1]
	next    []*lstm.NextCache // [layer]
	carried []lstm.State      // [layer], final state of the previous window
	input   []float64         // one-hot scratch

	lr0           float64
	iteration     int
	epoch         int
	pos           int
	loss          float64
	best          float64
	bestIteration int
	last          StepResult
}

// NewTrainer validates cfg and the stream and allocates every buffer the
// run needs. Nothing is allocated if validation fails.
func NewTrainer(stack *lstm.Stack, cfg Config, stream []int) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := stack.Validate(); err != nil {
		return nil, err
	}
	if len(stream) == 0 {
		return nil, ErrEmptyStream
	}
	for i, idx := range stream {
		if idx < 0 || idx >= stack.Features {
			return nil, errors.Wrapf(ErrIndexRange, "position %d holds %d, vocabulary has %d symbols", i, idx, stack.Features)
		}
	}
	opt, err := optim.New(cfg.Optimizer, cfg.OptimizerConfig())
	if err != nil {
		return nil, err
	}

	layers := len(stack.Layers)
	t := &Trainer{
		cfg:     cfg,
		stack:   stack,
		stream:  stream,
		opt:     opt,
		caches:  make([][]*lstm.Cache, layers),
		next:    make([]*lstm.NextCache, layers),
		carried: make([]lstm.State, layers),
		input:   make([]float64, stack.Features),
		lr0:     cfg.LearningRate,
		loss:    -1,
	}
	for p, cell := range stack.Layers {
		t.caches[p] = make([]*lstm.Cache, cfg.MiniBatchSize+1)
		for q := range t.caches[p] {
			t.caches[p][q] = cell.NewCache()
		}
		t.next[p] = cell.NewNextCache()
		t.carried[p] = lstm.NewState(cell.N())

		params, grads := cell.Params.Tensors(), cell.Grads.Tensors()
		ms, rs := cell.M.Tensors(), cell.R.Tensors()
		for k := range params {
			t.slots = append(t.slots, optim.Slot{Param: params[k], Grad: grads[k], M: ms[k], R: rs[k]})
		}
	}

	if cfg.Stateful && layers == 1 && !cfg.StatefulOutputLayer {
		klog.Warning("stateful carry is enabled but the only layer is output-facing; its state is reset every window")
	}
	klog.V(1).Infof("trainer: %d layers, %d parameters, window %d, stream %d, optimizer %s",
		layers, stack.NumParams(), cfg.MiniBatchSize, len(stream), cfg.Optimizer)
	return t, nil
}

// target returns the index following stream position pos, wrapping around.
func (t *Trainer) target(pos int) int {
	return t.stream[(pos+1)%len(t.stream)]
}

// Step processes one window and advances to the next one.
func (t *Trainer) Step() StepResult {
	layers := t.stack.Layers
	start := t.pos
	mb := t.cfg.MiniBatchSize

	// WindowStart
	for p := range layers {
		if t.cfg.Carries(p) {
			t.caches[p][0].SetState(t.carried[p])
		} else {
			t.caches[p][0].ResetState()
		}
	}
	length := mb
	if start+mb >= len(t.stream) {
		length = len(t.stream) - start
	}

	// ForwardSweep
	var sum float64
	for q := range length {
		pos := start + q
		vecops.OneHot(t.input, t.stream[pos])
		in := t.input
		for p := len(layers) - 1; p >= 0; p-- {
			prev, cur := t.caches[p][q], t.caches[p][q+1]
			layers[p].Forward(prev.H, prev.C, in, cur)
			in = cur.Probs
		}
		sum += nn.CrossEntropy(t.caches[0][q+1].Probs, t.target(pos))
	}

	// LossAccumulate
	windowLoss := sum / float64(length)
	first := t.loss < 0
	if first {
		t.loss = windowLoss
	}
	decay := t.cfg.LossMovingAvgDecay
	t.loss = windowLoss*decay + (1-decay)*t.loss
	if first || t.loss < t.best {
		t.best = t.loss
		t.bestIteration = t.iteration
	}

	if t.cfg.Stateful {
		for p := range layers {
			t.carried[p].CopyFrom(t.caches[p][length])
		}
	}

	// BackwardSweep
	for p, cell := range layers {
		cell.ZeroGradients()
		t.next[p].Zero()
	}
	for q := length; q > 0; q-- {
		pos := start + q - 1
		layers[0].Backward(t.caches[0][q], t.target(pos), nil, t.next[0])
		for p := 1; p < len(layers); p++ {
			layers[p].Backward(t.caches[p][q], -1, t.next[p-1].DYPass, t.next[p])
		}
	}

	// GradientPostprocess
	parallel.For(len(layers), t.cfg.Parallel(), func(p int) {
		grads := layers[p].Grads.Tensors()
		switch {
		case t.cfg.GradientClip:
			optim.Clip(grads, t.cfg.GradientClipLimit)
		case t.cfg.GradientNormFit:
			optim.FitNorm(grads, t.cfg.GradientClipLimit)
		}
	})

	// OptimizerStep
	lr := t.opt.LR()
	t.opt.Step(t.slots)

	result := StepResult{
		Iteration:     t.iteration,
		Epoch:         t.epoch,
		Start:         start,
		Length:        length,
		WindowLoss:    windowLoss,
		Loss:          t.loss,
		Best:          t.best,
		BestIteration: t.bestIteration,
		LR:            lr,
	}

	// WindowAdvance
	if start+mb >= len(t.stream) {
		t.epoch++
		klog.V(1).Infof("epoch %d finished at iteration %d, loss %.5f", t.epoch, t.iteration, t.loss)
	}
	t.pos = (start + mb) % len(t.stream)
	if t.pos < mb {
		t.pos = 0
	}
	if t.cfg.LearningRateDecay {
		decayed := t.lr0 / (1.0 + float64(t.iteration)/t.cfg.LearningRateDecayConstant)
		t.opt.SetLR(decayed)
		klog.V(2).Infof("learning rate decayed to %g", decayed)
	}
	t.iteration++
	t.last = result
	return result
}

// Done reports whether the iteration or epoch budget is exhausted.
func (t *Trainer) Done() bool {
	if t.iteration >= t.cfg.Iterations {
		return true
	}
	return t.cfg.Epochs > 0 && t.epoch >= t.cfg.Epochs
}

// Stack returns the network being trained.
func (t *Trainer) Stack() *lstm.Stack {
	return t.stack
}

// Config returns the training configuration.
func (t *Trainer) Config() Config {
	return t.cfg
}

// Optimizer returns the update rule.
func (t *Trainer) Optimizer() optim.Optimizer {
	return t.opt
}

// Iteration returns the number of windows processed.
func (t *Trainer) Iteration() int {
	return t.iteration
}

// Epoch returns the number of completed passes over the stream.
func (t *Trainer) Epoch() int {
	return t.epoch
}

// Position returns the stream position the next window starts at.
func (t *Trainer) Position() int {
	return t.pos
}

// Loss returns the smoothed loss, or -1 before the first window.
func (t *Trainer) Loss() float64 {
	return t.loss
}

// Best returns the lowest smoothed loss and the iteration it was reached at.
func (t *Trainer) Best() (float64, int) {
	return t.best, t.bestIteration
}

// Last returns the result of the most recent Step.
func (t *Trainer) Last() StepResult {
	return t.last
}

// CacheSlot exposes the cache ledger entry of a layer. Slot 0 holds the
// state the last window started from.
func (t *Trainer) CacheSlot(layer, slot int) *lstm.Cache {
	return t.caches[layer][slot]
}

// Stream returns the training index stream.
func (t *Trainer) Stream() []int {
	return t.stream
}

// Progress is the resumable position of a run.
type Progress struct {
	Iteration     int     `json:"iteration"`
	Epoch         int     `json:"epoch"`
	Position      int     `json:"position"`
	Loss          float64 `json:"loss"`
	Best          float64 `json:"best"`
	BestIteration int     `json:"best_iteration"`
	LR            float64 `json:"learning_rate"`
	Timestep      int     `json:"timestep,omitempty"` // Adam step count
}

// timestepper is implemented by optimizers with a step counter.
type timestepper interface {
	Timestep() int
	SetTimestep(t int)
}

// Progress returns the current position of the run.
func (t *Trainer) Progress() Progress {
	p := Progress{
		Iteration:     t.iteration,
		Epoch:         t.epoch,
		Position:      t.pos,
		Loss:          t.loss,
		Best:          t.best,
		BestIteration: t.bestIteration,
		LR:            t.opt.LR(),
	}
	if ts, ok := t.opt.(timestepper); ok {
		p.Timestep = ts.Timestep()
	}
	return p
}

// Resume continues a run from a saved Progress. Carried state is not part
// of Progress, so the first resumed window starts from zero state.
func (t *Trainer) Resume(p Progress) error {
	if p.Position < 0 || p.Position >= len(t.stream) {
		return errors.Wrapf(ErrIndexRange, "resume position %d outside stream of %d", p.Position, len(t.stream))
	}
	if p.Iteration < 0 || p.Epoch < 0 {
		return errors.Errorf("train: cannot resume from iteration %d epoch %d", p.Iteration, p.Epoch)
	}
	t.iteration = p.Iteration
	t.epoch = p.Epoch
	t.pos = p.Position
	t.loss = p.Loss
	t.best = p.Best
	t.bestIteration = p.BestIteration
	if p.LR > 0 {
		t.opt.SetLR(p.LR)
	}
	if ts, ok := t.opt.(timestepper); ok {
		ts.SetTimestep(p.Timestep)
	}
	for _, st := range t.carried {
		st.Reset()
	}
	klog.Infof("resuming at iteration %d, epoch %d, position %d, loss %.5f", p.Iteration, p.Epoch, p.Position, p.Loss)
	return nil
}
