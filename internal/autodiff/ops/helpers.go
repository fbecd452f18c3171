package ops

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// reduceBroadcast sums grad down to targetShape, undoing any broadcasting the
// forward pass performed. Extra leading dimensions are summed away; size-1
// dimensions that were stretched are summed with keepDim.
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(targetShape) {
		return grad
	}

	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	for d, size := range targetShape {
		if size == 1 && result.Shape()[d] != 1 {
			result = backend.SumDim(result, d, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		// Same element count, different rank bookkeeping (e.g. [1] vs []).
		result = backend.Reshape(result, targetShape.Clone())
	}
	return result
}

// floats returns the typed view of a float tensor's buffer.
func floats[T tensor.Float](r *tensor.RawTensor) []T {
	var dummy T
	if _, ok := any(dummy).(float32); ok {
		return any(r.AsFloat32()).([]T)
	}
	return any(r.AsFloat64()).([]T)
}

// zerosLike allocates a zero tensor with x's shape and dtype.
func zerosLike(x *tensor.RawTensor) *tensor.RawTensor {
	return tensor.MustNewRaw(x.Shape().Clone(), x.DType(), x.Device())
}

// OnesLike allocates a tensor of ones with x's shape and dtype. The tape uses
// it to seed the backward pass.
func OnesLike(x *tensor.RawTensor) *tensor.RawTensor {
	out := zerosLike(x)
	switch x.DType() {
	case tensor.Float32:
		data := out.AsFloat32()
		for i := range data {
			data[i] = 1
		}
	case tensor.Float64:
		data := out.AsFloat64()
		for i := range data {
			data[i] = 1
		}
	default:
		panic(fmt.Sprintf("oneslike: unsupported dtype %s", x.DType()))
	}
	return out
}

// expand broadcasts grad (a reduced shape) back over the input shape by
// adding it to a zero tensor; the backend's broadcasting does the stretching.
func expand(grad *tensor.RawTensor, inputShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	zero := tensor.MustNewRaw(inputShape.Clone(), grad.DType(), grad.Device())
	return backend.Add(zero, grad)
}
