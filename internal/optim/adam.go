package optim

import (
	"math"

	"github.com/born-ml/recurrent/internal/parallel"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule, per component, at timestep t (1-indexed):
//
//	m = beta1 * m + (1-beta1) * grad
//	r = beta2 * r + (1-beta2) * grad²
//	m_hat = m / (1 - beta1^t)
//	r_hat = r / (1 - beta2^t)
//	param -= lr * m_hat / (sqrt(r_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	lambda float64
	t      int // Timestep for bias correction
	par    parallel.Config
}

// NewAdam creates a new Adam optimizer. Zero fields take their defaults:
// LR 0.001, Beta1 0.9, Beta2 0.999, Eps 1e-8.
func NewAdam(cfg Config) *Adam {
	if cfg.LR == 0 {
		cfg.LR = 0.001
	}
	if cfg.Beta1 == 0 {
		cfg.Beta1 = 0.9
	}
	if cfg.Beta2 == 0 {
		cfg.Beta2 = 0.999
	}
	if cfg.Eps == 0 {
		cfg.Eps = 1e-8
	}
	return &Adam{
		lr:     cfg.LR,
		beta1:  cfg.Beta1,
		beta2:  cfg.Beta2,
		eps:    cfg.Eps,
		lambda: cfg.Lambda,
		par:    cfg.Parallel,
	}
}

// Step performs a single Adam update over every slot.
func (a *Adam) Step(slots []Slot) {
	a.t++
	biasCorrection1 := 1.0 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1.0 - math.Pow(a.beta2, float64(a.t))

	parallel.For(len(slots), a.par, func(i int) {
		regularize(slots[i], a.lambda)
		a.update(slots[i], biasCorrection1, biasCorrection2)
	})
}

func (a *Adam) update(s Slot, biasCorrection1, biasCorrection2 float64) {
	param, grad := s.Param.Data(), s.Grad.Data()
	m, r := s.M.Data(), s.R.Data()

	for i := range param {
		g := grad[i]
		m[i] = a.beta1*m[i] + (1.0-a.beta1)*g
		r[i] = a.beta2*r[i] + (1.0-a.beta2)*g*g

		mHat := m[i] / biasCorrection1
		rHat := r[i] / biasCorrection2
		param[i] -= a.lr * mHat / (math.Sqrt(rHat) + a.eps)
	}
}

// LR returns the current learning rate.
func (a *Adam) LR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// Kind returns KindAdam.
func (a *Adam) Kind() Kind {
	return KindAdam
}

// Timestep returns the number of steps taken.
func (a *Adam) Timestep() int {
	return a.t
}

// SetTimestep restores the step counter, e.g. when resuming from a checkpoint.
func (a *Adam) SetTimestep(t int) {
	a.t = t
}
