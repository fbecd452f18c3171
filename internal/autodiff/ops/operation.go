// Package ops defines the differentiable operations recorded on the gradient
// tape. Each operation captures its inputs and output during the forward
// pass and computes input gradients from the output gradient during the
// backward pass.
package ops

import "github.com/primer-ml/primer/internal/tensor"

// Operation is one node of the recorded computation.
//
// Backward returns one gradient per input, aligned with Inputs(); a nil entry
// means no gradient flows to that input (e.g. integer indices).
type Operation interface {
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor
	Inputs() []*tensor.RawTensor
	Output() *tensor.RawTensor
}
