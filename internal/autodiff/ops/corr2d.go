package ops

import "github.com/primer-ml/primer/internal/tensor"

// Corr2DOp records y = corr2d(x, k), the single-channel sliding-window
// cross-correlation.
type Corr2DOp struct {
	x, k, out *tensor.RawTensor
}

func NewCorr2DOp(x, k, out *tensor.RawTensor) *Corr2DOp {
	return &Corr2DOp{x: x, k: k, out: out}
}

func (op *Corr2DOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x, op.k} }
func (op *Corr2DOp) Output() *tensor.RawTensor   { return op.out }

// Backward: dL/dx is the full correlation of the output gradient with the
// kernel, and dL/dk = corr2d(x, dL/dy). Both are delegated to the backend,
// which shares the forward kernel's addressing.
func (op *Corr2DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradX := backend.Corr2DInputBackward(op.x, op.k, outputGrad)
	gradK := backend.Corr2DKernelBackward(op.x, op.k, outputGrad)
	return []*tensor.RawTensor{gradX, gradK}
}
