package ops

import "github.com/primer-ml/primer/internal/tensor"

// SoftmaxOp records y = softmax(x) along one dimension.
type SoftmaxOp struct {
	x, out *tensor.RawTensor
	dim    int
}

func NewSoftmaxOp(x, out *tensor.RawTensor, dim int) *SoftmaxOp {
	return &SoftmaxOp{x: x, out: out, dim: dim}
}

func (op *SoftmaxOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *SoftmaxOp) Output() *tensor.RawTensor   { return op.out }

// Backward uses the Jacobian-vector identity
// dL/dx = (dL/dy - sum(dL/dy * y, dim)) * y, which avoids materializing the
// softmax Jacobian.
func (op *SoftmaxOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	dot := backend.SumDim(backend.Mul(outputGrad, op.out), op.dim, true)
	gradX := backend.Mul(backend.Sub(outputGrad, dot), op.out)
	return []*tensor.RawTensor{gradX}
}
