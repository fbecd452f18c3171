package ops

import "github.com/primer-ml/primer/internal/tensor"

// SumOp records y = sum(x) over all elements.
type SumOp struct {
	x, out *tensor.RawTensor
}

func NewSumOp(x, out *tensor.RawTensor) *SumOp { return &SumOp{x: x, out: out} }

func (op *SumOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *SumOp) Output() *tensor.RawTensor   { return op.out }

// Backward broadcasts the scalar gradient over the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{expand(outputGrad, op.x.Shape(), backend)}
}

// MeanOp records y = mean(x) over all elements.
type MeanOp struct {
	x, out *tensor.RawTensor
}

func NewMeanOp(x, out *tensor.RawTensor) *MeanOp { return &MeanOp{x: x, out: out} }

func (op *MeanOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *MeanOp) Output() *tensor.RawTensor   { return op.out }

func (op *MeanOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	scaled := backend.DivScalar(outputGrad, float64(op.x.NumElements()))
	return []*tensor.RawTensor{expand(scaled, op.x.Shape(), backend)}
}

// SumDimOp records y = sum(x, dim).
type SumDimOp struct {
	x, out  *tensor.RawTensor
	dim     int
	keepDim bool
}

func NewSumDimOp(x, out *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{x: x, out: out, dim: dim, keepDim: keepDim}
}

func (op *SumDimOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *SumDimOp) Output() *tensor.RawTensor   { return op.out }

func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{expandDim(outputGrad, op.x.Shape(), op.dim, op.keepDim, backend)}
}

// MeanDimOp records y = mean(x, dim).
type MeanDimOp struct {
	x, out  *tensor.RawTensor
	dim     int
	keepDim bool
}

func NewMeanDimOp(x, out *tensor.RawTensor, dim int, keepDim bool) *MeanDimOp {
	return &MeanDimOp{x: x, out: out, dim: dim, keepDim: keepDim}
}

func (op *MeanDimOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *MeanDimOp) Output() *tensor.RawTensor   { return op.out }

func (op *MeanDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	scaled := backend.DivScalar(outputGrad, float64(op.x.Shape()[op.dim]))
	return []*tensor.RawTensor{expandDim(scaled, op.x.Shape(), op.dim, op.keepDim, backend)}
}

// expandDim broadcasts a dim-reduced gradient back over the input shape,
// restoring the reduced dimension as size 1 first if keepDim dropped it.
func expandDim(grad *tensor.RawTensor, inputShape tensor.Shape, dim int, keepDim bool, backend tensor.Backend) *tensor.RawTensor {
	if !keepDim {
		kept := inputShape.Clone()
		kept[dim] = 1
		grad = backend.Reshape(grad, kept)
	}
	return expand(grad, inputShape, backend)
}
