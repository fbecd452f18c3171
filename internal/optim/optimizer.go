// Package optim implements gradient-based optimizers.
//
// Optimizers consume the gradient map produced by the autodiff backend and
// update parameters in place:
//
//	backend.Tape().StartRecording()
//	loss := criterion.Forward(model.Forward(input), target)
//	backend.Tape().StopRecording()
//
//	grads := backend.Backward(loss.Raw())
//	optimizer.Step(grads)
//	optimizer.ZeroGrad()
//	backend.Tape().Clear()
//
// Updates are applied directly to the parameters' float32 storage, outside
// the tape, so an optimizer step can never end up in the recorded graph.
package optim

import (
	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/tensor"
)

// Optimizer is the interface all optimization algorithms implement.
type Optimizer interface {
	// Step applies one update to every parameter that has a gradient in the
	// map. Parameters absent from the map are skipped: they did not
	// participate in the recorded forward pass.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears the gradients stored on the parameters.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// gradientFor looks up a parameter's gradient by tensor identity.
func gradientFor[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) []float32 {
	grad, ok := grads[param.Tensor().Raw()]
	if !ok {
		return nil
	}
	return grad.AsFloat32()
}

// zeroGrads clears the gradients of all parameters.
func zeroGrads[B tensor.Backend](params []*nn.Parameter[B]) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
