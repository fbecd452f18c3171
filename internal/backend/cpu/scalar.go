package cpu

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// AddScalar adds a scalar to every element.
func (c *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return c.scalarOp("addscalar", x, scalar, opAdd)
}

// SubScalar subtracts a scalar from every element.
func (c *CPUBackend) SubScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return c.scalarOp("subscalar", x, scalar, opSub)
}

// MulScalar multiplies every element by a scalar.
func (c *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return c.scalarOp("mulscalar", x, scalar, opMul)
}

// DivScalar divides every element by a scalar.
func (c *CPUBackend) DivScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return c.scalarOp("divscalar", x, scalar, opDiv)
}

func (c *CPUBackend) scalarOp(name string, x *tensor.RawTensor, scalar float64, op binOp) *tensor.RawTensor {
	out := tensor.MustNewRaw(x.Shape().Clone(), x.DType(), c.device)

	switch x.DType() {
	case tensor.Float32:
		scalarKernel[float32](out, x, scalar, op)
	case tensor.Float64:
		scalarKernel[float64](out, x, scalar, op)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return out
}

func scalarKernel[T tensor.Float](out, x *tensor.RawTensor, scalar float64, op binOp) {
	xData, outData := floats[T](x), floats[T](out)
	s := T(scalar)
	for i := range outData {
		outData[i] = apply(op, xData[i], s)
	}
}
