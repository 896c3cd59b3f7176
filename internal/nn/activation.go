package nn

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Activation is the closed set of elementwise nonlinearities used by the
// recurrent kernels.
type Activation int

// Supported activations.
const (
	Identity Activation = iota
	Sigmoid
	Tanh
)

// String returns the activation name.
func (a Activation) String() string {
	switch a {
	case Identity:
		return "identity"
	case Sigmoid:
		return "sigmoid"
	case Tanh:
		return "tanh"
	default:
		return fmt.Sprintf("Activation(%d)", int(a))
	}
}

// ParseActivation maps a name to an Activation.
func ParseActivation(name string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "identity", "none", "":
		return Identity, nil
	case "sigmoid":
		return Sigmoid, nil
	case "tanh":
		return Tanh, nil
	default:
		return Identity, errors.Errorf("unknown activation %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Activation) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Activation) UnmarshalText(text []byte) error {
	parsed, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Forward applies the activation elementwise: dst[i] = f(src[i]).
//
// dst and src may be the same slice.
func (a Activation) Forward(dst, src []float64) {
	switch a {
	case Identity:
		copy(dst, src)
	case Sigmoid:
		for i, v := range src {
			dst[i] = 1.0 / (1.0 + math.Exp(-v))
		}
	case Tanh:
		for i, v := range src {
			dst[i] = math.Tanh(v)
		}
	default:
		panic(fmt.Sprintf("Activation.Forward: unsupported %v", a))
	}
}

// Backward computes dst[i] = f'(x[i]) * dy[i], where y = f(x) is the forward
// output. Derivatives are expressed in terms of y, so the pre-activation never
// has to be kept.
//
// dst may alias dy.
func (a Activation) Backward(dst, dy, y []float64) {
	switch a {
	case Identity:
		copy(dst, dy)
	case Sigmoid:
		for i := range dst {
			dst[i] = (1.0 - y[i]) * y[i] * dy[i]
		}
	case Tanh:
		for i := range dst {
			dst[i] = (1.0 - y[i]*y[i]) * dy[i]
		}
	default:
		panic(fmt.Sprintf("Activation.Backward: unsupported %v", a))
	}
}

// Softmax computes P[k] = exp(x[k]/T) / Σ exp(x[j]/T).
//
// The maximum is subtracted before exponentiation; this does not change the
// result. dst and src may be the same slice.
func Softmax(dst, src []float64, temperature float64) {
	if temperature <= 0 {
		panic(fmt.Sprintf("Softmax: temperature must be positive, got %v", temperature))
	}
	maxVal := math.Inf(-1)
	for _, v := range src {
		if v > maxVal {
			maxVal = v
		}
	}
	var sum float64
	for i, v := range src {
		dst[i] = math.Exp((v - maxVal) / temperature)
		sum += dst[i]
	}
	for i := range dst {
		dst[i] /= sum
	}
}
