package optim

import (
	"math"

	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/tensor"
)

// AdaGrad adapts each coordinate's learning rate by the accumulated square
// of its past gradients:
//
//	accum += grad^2
//	param -= lr * grad / (sqrt(accum) + eps)
//
// Coordinates with consistently large gradients get smaller effective steps.
type AdaGrad[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	lr     float32
	eps    float32
	accum  map[*nn.Parameter[B]][]float32
}

// AdaGradConfig configures an AdaGrad optimizer.
type AdaGradConfig struct {
	LR  float32 // learning rate, default 0.01
	Eps float32 // numerical stability term, default 1e-10
}

// NewAdaGrad creates an AdaGrad optimizer over the given parameters.
func NewAdaGrad[B tensor.Backend](params []*nn.Parameter[B], config AdaGradConfig) *AdaGrad[B] {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Eps == 0 {
		config.Eps = 1e-10
	}
	return &AdaGrad[B]{
		params: params,
		lr:     config.LR,
		eps:    config.Eps,
		accum:  make(map[*nn.Parameter[B]][]float32),
	}
}

func (a *AdaGrad[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range a.params {
		grad := gradientFor(param, grads)
		if grad == nil {
			continue
		}
		data := param.Tensor().Data()

		accum, ok := a.accum[param]
		if !ok {
			accum = make([]float32, len(data))
			a.accum[param] = accum
		}
		for i := range data {
			accum[i] += grad[i] * grad[i]
			data[i] -= a.lr * grad[i] / (float32(math.Sqrt(float64(accum[i]))) + a.eps)
		}
	}
}

func (a *AdaGrad[B]) ZeroGrad() { zeroGrads(a.params) }

func (a *AdaGrad[B]) GetLR() float32 { return a.lr }
