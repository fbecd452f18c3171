package cpu

import (
	"github.com/primer-ml/primer/internal/tensor"
)

// floats returns the typed view of a float tensor's buffer.
func floats[T tensor.Float](r *tensor.RawTensor) []T {
	var dummy T
	if _, ok := any(dummy).(float32); ok {
		return any(r.AsFloat32()).([]T)
	}
	return any(r.AsFloat64()).([]T)
}

func apply[T tensor.Float](op binOp, x, y T) T {
	switch op {
	case opAdd:
		return x + y
	case opSub:
		return x - y
	case opMul:
		return x * y
	case opDiv:
		return x / y
	default:
		panic("unknown binary op")
	}
}

// binaryKernel computes out = a (op) b, broadcasting as needed.
func binaryKernel[T tensor.Float](a, b, out *tensor.RawTensor, op binOp) {
	aData, bData, outData := floats[T](a), floats[T](b), floats[T](out)

	if a.Shape().Equal(b.Shape()) {
		for i := range outData {
			outData[i] = apply(op, aData[i], bData[i])
		}
		return
	}

	// Broadcast path: walk the output index space and map each coordinate
	// back into a and b, treating size-1 dimensions as index 0.
	outShape := out.Shape()
	aIdx := newBroadcastIndexer(a.Shape(), outShape)
	bIdx := newBroadcastIndexer(b.Shape(), outShape)

	coord := make([]int, len(outShape))
	for i := range outData {
		outData[i] = apply(op, aData[aIdx.at(coord)], bData[bIdx.at(coord)])
		increment(coord, outShape)
	}
}

// broadcastIndexer maps output coordinates to flat offsets in a (possibly
// smaller) operand shape.
type broadcastIndexer struct {
	strides []int // stride per output dimension, 0 where the operand broadcasts
}

func newBroadcastIndexer(operand, out tensor.Shape) *broadcastIndexer {
	opStrides := operand.ComputeStrides()
	strides := make([]int, len(out))

	offset := len(out) - len(operand)
	for i := range out {
		if i < offset {
			continue // missing leading dimension: broadcast
		}
		if operand[i-offset] == 1 && out[i] != 1 {
			continue // size-1 dimension: broadcast
		}
		strides[i] = opStrides[i-offset]
	}
	return &broadcastIndexer{strides: strides}
}

func (bi *broadcastIndexer) at(coord []int) int {
	offset := 0
	for i, c := range coord {
		offset += c * bi.strides[i]
	}
	return offset
}

// increment advances a multi-dimensional coordinate in row-major order.
func increment(coord []int, shape tensor.Shape) {
	for i := len(coord) - 1; i >= 0; i-- {
		coord[i]++
		if coord[i] < shape[i] {
			return
		}
		coord[i] = 0
	}
}
