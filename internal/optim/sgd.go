package optim

import "github.com/born-ml/recurrent/internal/parallel"

// Momentum implements gradient descent with momentum.
//
// Update rule, per component:
//
//	momentum = momentum * decay - lr * grad
//	param += momentum
//
// With decay 0 this is plain gradient descent.
type Momentum struct {
	lr     float64
	decay  float64
	lambda float64
	par    parallel.Config
}

// NewMomentum creates a momentum optimizer. A zero LR defaults to 0.001.
func NewMomentum(cfg Config) *Momentum {
	if cfg.LR == 0 {
		cfg.LR = 0.001
	}
	return &Momentum{
		lr:     cfg.LR,
		decay:  cfg.Momentum,
		lambda: cfg.Lambda,
		par:    cfg.Parallel,
	}
}

// Step performs a single update over every slot.
func (o *Momentum) Step(slots []Slot) {
	parallel.For(len(slots), o.par, func(k int) {
		s := slots[k]
		regularize(s, o.lambda)
		param, grad, m := s.Param.Data(), s.Grad.Data(), s.M.Data()
		for i := range param {
			m[i] = m[i]*o.decay - o.lr*grad[i]
			param[i] += m[i]
		}
	})
}

// LR returns the current learning rate.
func (o *Momentum) LR() float64 {
	return o.lr
}

// SetLR updates the learning rate.
func (o *Momentum) SetLR(lr float64) {
	o.lr = lr
}

// Kind returns KindMomentum.
func (o *Momentum) Kind() Kind {
	return KindMomentum
}
