package cpu

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// Embedding looks up rows of weight by int64 indices.
//
// weight: [V, D] float, indices: any int64 shape [...].
// Result: [..., D], each index replaced by its weight row.
func (c *CPUBackend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	ws := weight.Shape()
	if len(ws) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D [V,D], got %v", ws))
	}
	if indices.DType() != tensor.Int64 {
		panic(fmt.Sprintf("embedding: indices must be int64, got %s", indices.DType()))
	}

	vocab, dim := ws[0], ws[1]
	outShape := append(indices.Shape().Clone(), dim)
	out := tensor.MustNewRaw(outShape, weight.DType(), c.device)

	switch weight.DType() {
	case tensor.Float32:
		embeddingKernel[float32](out, weight, indices, vocab, dim)
	case tensor.Float64:
		embeddingKernel[float64](out, weight, indices, vocab, dim)
	default:
		panic(fmt.Sprintf("embedding: unsupported dtype %s", weight.DType()))
	}

	return out
}

func embeddingKernel[T tensor.Float](out, weight, indices *tensor.RawTensor, vocab, dim int) {
	wData, outData := floats[T](weight), floats[T](out)
	idx := indices.AsInt64()

	for i, id := range idx {
		if id < 0 || int(id) >= vocab {
			panic(fmt.Sprintf("embedding: index %d out of range [0,%d)", id, vocab))
		}
		copy(outData[i*dim:(i+1)*dim], wData[int(id)*dim:(int(id)+1)*dim])
	}
}
