package cpu

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// MaxPool2D reduces each pooling window to its maximum value.
//
// Input shape: [N, C, H, W], output shape: [N, C, H_out, W_out] with
// H_out = (H-kernelSize)/stride + 1 and likewise for W_out.
func (c *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	n, ch, h, w, hOut, wOut := maxPoolDims(input, kernelSize, stride)

	out := tensor.MustNewRaw(tensor.Shape{n, ch, hOut, wOut}, input.DType(), c.device)

	switch input.DType() {
	case tensor.Float32:
		maxPoolKernel[float32](out, input, n, ch, h, w, hOut, wOut, kernelSize, stride)
	case tensor.Float64:
		maxPoolKernel[float64](out, input, n, ch, h, w, hOut, wOut, kernelSize, stride)
	default:
		panic(fmt.Sprintf("maxpool2d: unsupported dtype %s", input.DType()))
	}

	return out
}

func maxPoolDims(input *tensor.RawTensor, kernelSize, stride int) (n, ch, h, w, hOut, wOut int) {
	is := input.Shape()
	if len(is) != 4 {
		panic(fmt.Sprintf("maxpool2d: input must be 4D [N,C,H,W], got %v", is))
	}
	if kernelSize <= 0 || stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %d or stride %d", kernelSize, stride))
	}

	n, ch, h, w = is[0], is[1], is[2], is[3]
	hOut = (h-kernelSize)/stride + 1
	wOut = (w-kernelSize)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("maxpool2d: output would be empty: h_out=%d, w_out=%d", hOut, wOut))
	}
	return
}

func maxPoolKernel[T tensor.Float](out, input *tensor.RawTensor, n, ch, h, w, hOut, wOut, kernelSize, stride int) {
	inData, outData := floats[T](input), floats[T](out)

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
					outData[o] = inData[best]
					o++
				}
			}
		}
	}
}

// MaxPool2DBackward routes the output gradient back to the positions that
// held each window's maximum; all other positions get zero.
func (c *CPUBackend) MaxPool2DBackward(input, grad *tensor.RawTensor, maxIndices []int, kernelSize, stride int) *tensor.RawTensor {
	dx := tensor.MustNewRaw(input.Shape().Clone(), input.DType(), c.device)

	switch input.DType() {
	case tensor.Float32:
		scatterGrad[float32](dx, grad, maxIndices)
	case tensor.Float64:
		scatterGrad[float64](dx, grad, maxIndices)
	default:
		panic(fmt.Sprintf("maxpool2d backward: unsupported dtype %s", input.DType()))
	}

	return dx
}

func scatterGrad[T tensor.Float](dx, grad *tensor.RawTensor, indices []int) {
	dxData, gradData := floats[T](dx), floats[T](grad)
	for o, idx := range indices {
		dxData[idx] += gradData[o]
	}
}
