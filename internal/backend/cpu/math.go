package cpu

import (
	"fmt"
	"math"

	"github.com/primer-ml/primer/internal/tensor"
)

// Exp applies e^x element-wise.
func (c *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("exp", x, math.Exp)
}

// Log applies the natural logarithm element-wise.
func (c *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("log", x, math.Log)
}

// Sqrt applies the square root element-wise.
func (c *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("sqrt", x, math.Sqrt)
}

// Tanh applies the hyperbolic tangent element-wise.
func (c *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("tanh", x, math.Tanh)
}

// Sigmoid applies 1/(1+e^-x) element-wise.
func (c *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("sigmoid", x, func(v float64) float64 {
		return 1 / (1 + math.Exp(-v))
	})
}

// ReLU applies max(0, x) element-wise.
func (c *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("relu", x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

func (c *CPUBackend) unary(name string, x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	out := tensor.MustNewRaw(x.Shape().Clone(), x.DType(), c.device)

	switch x.DType() {
	case tensor.Float32:
		unaryKernel[float32](out, x, f)
	case tensor.Float64:
		unaryKernel[float64](out, x, f)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return out
}

func unaryKernel[T tensor.Float](out, x *tensor.RawTensor, f func(float64) float64) {
	xData, outData := floats[T](x), floats[T](out)
	for i := range outData {
		outData[i] = T(f(float64(xData[i])))
	}
}

// Softmax normalizes along dim with the usual max-subtraction for numerical
// stability.
func (c *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("softmax: dimension %d out of range for shape %v", dim, shape))
	}

	out := tensor.MustNewRaw(shape.Clone(), x.DType(), c.device)

	switch x.DType() {
	case tensor.Float32:
		softmaxKernel[float32](out, x, dim)
	case tensor.Float64:
		softmaxKernel[float64](out, x, dim)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s", x.DType()))
	}

	return out
}

func softmaxKernel[T tensor.Float](out, x *tensor.RawTensor, dim int) {
	xData, outData := floats[T](x), floats[T](out)
	shape := x.Shape()

	n := shape[dim]
	inner := 1
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	outer := x.NumElements() / (n * inner)

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*n*inner + in

			maxVal := xData[base]
			for i := 1; i < n; i++ {
				if v := xData[base+i*inner]; v > maxVal {
					maxVal = v
				}
			}

			var sum T
			for i := 0; i < n; i++ {
				e := T(math.Exp(float64(xData[base+i*inner] - maxVal)))
				outData[base+i*inner] = e
				sum += e
			}
			for i := 0; i < n; i++ {
				outData[base+i*inner] /= sum
			}
		}
	}
}
