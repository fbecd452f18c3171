package ops

import "github.com/primer-ml/primer/internal/tensor"

// ReshapeOp records y = reshape(x, newShape).
type ReshapeOp struct {
	x, out *tensor.RawTensor
}

func NewReshapeOp(x, out *tensor.RawTensor) *ReshapeOp { return &ReshapeOp{x: x, out: out} }

func (op *ReshapeOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *ReshapeOp) Output() *tensor.RawTensor   { return op.out }

// Backward reshapes the gradient back to the input's shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.x.Shape().Clone())}
}

// TransposeOp records y = transpose(x, axes).
type TransposeOp struct {
	x, out *tensor.RawTensor
	axes   []int
}

func NewTransposeOp(x, out *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{x: x, out: out, axes: axes}
}

func (op *TransposeOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *TransposeOp) Output() *tensor.RawTensor   { return op.out }

// Backward applies the inverse permutation to the gradient.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	axes := op.axes
	if len(axes) == 0 {
		// A full reversal is its own inverse.
		return []*tensor.RawTensor{backend.Transpose(outputGrad)}
	}
	inverse := make([]int, len(axes))
	for i, a := range axes {
		inverse[a] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverse...)}
}

// CatOp records y = cat(tensors, dim).
type CatOp struct {
	inputs []*tensor.RawTensor
	out    *tensor.RawTensor
	dim    int
}

func NewCatOp(inputs []*tensor.RawTensor, out *tensor.RawTensor, dim int) *CatOp {
	return &CatOp{inputs: inputs, out: out, dim: dim}
}

func (op *CatOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *CatOp) Output() *tensor.RawTensor   { return op.out }

// Backward splits the gradient back into one block per input along dim.
func (op *CatOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	outShape := op.out.Shape()
	rank := len(outShape)

	outer := 1
	for d := 0; d < op.dim; d++ {
		outer *= outShape[d]
	}
	inner := 1
	for d := op.dim + 1; d < rank; d++ {
		inner *= outShape[d]
	}

	elemSize := op.out.DType().Size()
	src := outputGrad.Data()
	rowSize := outShape[op.dim] * inner * elemSize

	grads := make([]*tensor.RawTensor, len(op.inputs))
	offset := 0
	for i, in := range op.inputs {
		g := zerosLike(in)
		dst := g.Data()
		blockSize := in.Shape()[op.dim] * inner * elemSize
		for o := 0; o < outer; o++ {
			copy(dst[o*blockSize:(o+1)*blockSize], src[o*rowSize+offset:])
		}
		offset += blockSize
		grads[i] = g
	}
	return grads
}
