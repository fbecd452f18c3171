package cpu

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// Reshape returns a view of t under a new shape; the element count must
// match. The buffer is shared.
func (c *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	if newShape.NumElements() != t.NumElements() {
		panic(fmt.Sprintf("reshape: cannot view %v as %v", t.Shape(), newShape))
	}
	return t.WithShape(newShape)
}

// Transpose permutes the axes of t. With no axes it reverses them; for a
// matrix that is the ordinary transpose. The result is freshly allocated in
// row-major order.
func (c *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	rank := len(shape)

	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		panic(fmt.Sprintf("transpose: %d axes for rank-%d tensor", len(axes), rank))
	}
	seen := make([]bool, rank)
	for _, a := range axes {
		if a < 0 || a >= rank || seen[a] {
			panic(fmt.Sprintf("transpose: invalid axes %v for rank %d", axes, rank))
		}
		seen[a] = true
	}

	newShape := make(tensor.Shape, rank)
	for i, a := range axes {
		newShape[i] = shape[a]
	}

	out := tensor.MustNewRaw(newShape, t.DType(), c.device)
	elemSize := t.DType().Size()
	src, dst := t.Data(), out.Data()

	oldStrides := shape.ComputeStrides()
	coord := make([]int, rank)
	for i := 0; i < out.NumElements(); i++ {
		srcIdx := 0
		for d, a := range axes {
			srcIdx += coord[d] * oldStrides[a]
		}
		copy(dst[i*elemSize:(i+1)*elemSize], src[srcIdx*elemSize:(srcIdx+1)*elemSize])
		increment(coord, newShape)
	}

	return out
}

// Cat concatenates tensors along a dimension. All operands must share dtype
// and every dimension except dim.
func (c *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: empty tensor list")
	}

	first := tensors[0]
	rank := len(first.Shape())
	if dim < 0 || dim >= rank {
		panic(fmt.Sprintf("cat: dimension %d out of range for rank %d", dim, rank))
	}

	outShape := first.Shape().Clone()
	for _, t := range tensors[1:] {
		s := t.Shape()
		if len(s) != rank || t.DType() != first.DType() {
			panic("cat: operands must share rank and dtype")
		}
		for d := 0; d < rank; d++ {
			if d != dim && s[d] != outShape[d] {
				panic(fmt.Sprintf("cat: shape mismatch at dim %d: %v vs %v", d, first.Shape(), s))
			}
		}
		outShape[dim] += s[dim]
	}

	out := tensor.MustNewRaw(outShape, first.DType(), c.device)
	elemSize := first.DType().Size()

	// Copy block-wise: each operand contributes contiguous runs of
	// inner = product(dims after dim) elements, repeated outer times.
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= outShape[d]
	}
	inner := 1
	for d := dim + 1; d < rank; d++ {
		inner *= outShape[d]
	}

	dst := out.Data()
	rowSize := outShape[dim] * inner * elemSize
	offset := 0
	for _, t := range tensors {
		src := t.Data()
		blockSize := t.Shape()[dim] * inner * elemSize
		for o := 0; o < outer; o++ {
			copy(dst[o*rowSize+offset:], src[o*blockSize:(o+1)*blockSize])
		}
		offset += blockSize
	}

	return out
}
