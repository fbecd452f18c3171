package cpu

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// Sum reduces all elements to a single-element tensor of shape [1].
func (c *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return c.reduceAll("sum", x, false)
}

// Mean reduces all elements to their mean as a single-element tensor.
func (c *CPUBackend) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	return c.reduceAll("mean", x, true)
}

func (c *CPUBackend) reduceAll(name string, x *tensor.RawTensor, mean bool) *tensor.RawTensor {
	out := tensor.MustNewRaw(tensor.Shape{1}, x.DType(), c.device)

	switch x.DType() {
	case tensor.Float32:
		reduceAllKernel[float32](out, x, mean)
	case tensor.Float64:
		reduceAllKernel[float64](out, x, mean)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return out
}

func reduceAllKernel[T tensor.Float](out, x *tensor.RawTensor, mean bool) {
	xData := floats[T](x)
	var sum T
	for _, v := range xData {
		sum += v
	}
	if mean {
		sum /= T(len(xData))
	}
	floats[T](out)[0] = sum
}

// SumDim sums along one dimension. With keepDim the reduced dimension stays
// as size 1; otherwise it is removed (a full reduction of a 1D tensor yields
// shape [1]).
func (c *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return c.reduceDim("sumdim", x, dim, keepDim, false)
}

// MeanDim averages along one dimension.
func (c *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return c.reduceDim("meandim", x, dim, keepDim, true)
}

func (c *CPUBackend) reduceDim(name string, x *tensor.RawTensor, dim int, keepDim, mean bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("%s: dimension %d out of range for shape %v", name, dim, shape))
	}

	out := tensor.MustNewRaw(reducedShape(shape, dim, keepDim), x.DType(), c.device)

	switch x.DType() {
	case tensor.Float32:
		reduceDimKernel[float32](out, x, dim, mean)
	case tensor.Float64:
		reduceDimKernel[float64](out, x, dim, mean)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return out
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for d, size := range shape {
		if d != dim {
			out = append(out, size)
		}
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}

func reduceDimKernel[T tensor.Float](out, x *tensor.RawTensor, dim int, mean bool) {
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
			var sum T
			base := o*n*inner + in
			for i := 0; i < n; i++ {
				sum += xData[base+i*inner]
			}
			if mean {
				sum /= T(n)
			}
			outData[o*inner+in] = sum
		}
	}
}
