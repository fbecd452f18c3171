package ops

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// MaxPool2DOp records y = maxpool2d(input, kernelSize, stride). The flat
// index of each window's maximum is recomputed from the input at record time
// so the backward pass can scatter gradients without re-scanning windows.
type MaxPool2DOp struct {
	input, out         *tensor.RawTensor
	kernelSize, stride int
	maxIndices         []int
}

func NewMaxPool2DOp(input, out *tensor.RawTensor, kernelSize, stride int) *MaxPool2DOp {
	return &MaxPool2DOp{
		input:      input,
		out:        out,
		kernelSize: kernelSize,
		stride:     stride,
		maxIndices: computeMaxIndices(input, out, kernelSize, stride),
	}
}

func (op *MaxPool2DOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }
func (op *MaxPool2DOp) Output() *tensor.RawTensor   { return op.out }

func (op *MaxPool2DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradInput := backend.MaxPool2DBackward(op.input, outputGrad, op.maxIndices, op.kernelSize, op.stride)
	return []*tensor.RawTensor{gradInput}
}

func computeMaxIndices(input, out *tensor.RawTensor, kernelSize, stride int) []int {
	switch input.DType() {
	case tensor.Float32:
		return maxIndicesKernel[float32](input, out, kernelSize, stride)
	case tensor.Float64:
		return maxIndicesKernel[float64](input, out, kernelSize, stride)
	default:
		panic(fmt.Sprintf("maxpool2d: unsupported dtype %s", input.DType()))
	}
}

func maxIndicesKernel[T tensor.Float](input, out *tensor.RawTensor, kernelSize, stride int) []int {
	is, os := input.Shape(), out.Shape()
	n, ch, h, w := is[0], is[1], is[2], is[3]
	hOut, wOut := os[2], os[3]

	inData := floats[T](input)
	indices := make([]int, out.NumElements())
	o := 0
	for b := 0; b < n; b++ {
		for c := 0; c < ch; c++ {
			plane := (b*ch + c) * h * w
			for oh := 0; oh < hOut; oh++ {
				for ow := 0; ow < wOut; ow++ {
					best := plane + (oh*stride)*w + ow*stride
					for p := 0; p < kernelSize; p++ {
						for q := 0; q < kernelSize; q++ {
							idx := plane + (oh*stride+p)*w + (ow*stride + q)
							if inData[idx] > inData[best] {
								best = idx
							}
						}
					}
					indices[o] = best
					o++
				}
			}
		}
	}
	return indices
}
