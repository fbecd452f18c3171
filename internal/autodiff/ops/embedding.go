package ops

import "github.com/primer-ml/primer/internal/tensor"

// EmbeddingOp records y = weight[indices]. Indices are integers and receive
// no gradient; the weight gradient scatter-adds each output row back to the
// row it was read from.
type EmbeddingOp struct {
	weight, indices, out *tensor.RawTensor
}

func NewEmbeddingOp(weight, indices, out *tensor.RawTensor) *EmbeddingOp {
	return &EmbeddingOp{weight: weight, indices: indices, out: out}
}

func (op *EmbeddingOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.weight, op.indices}
}
func (op *EmbeddingOp) Output() *tensor.RawTensor { return op.out }

func (op *EmbeddingOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradWeight := zerosLike(op.weight)

	switch op.weight.DType() {
	case tensor.Float32:
		embeddingScatter[float32](gradWeight, outputGrad, op.indices)
	case tensor.Float64:
		embeddingScatter[float64](gradWeight, outputGrad, op.indices)
	default:
		panic("embedding backward: unsupported dtype " + op.weight.DType().String())
	}

	return []*tensor.RawTensor{gradWeight, nil}
}

func embeddingScatter[T tensor.Float](gradWeight, outputGrad, indices *tensor.RawTensor) {
	gw, og := floats[T](gradWeight), floats[T](outputGrad)
	idx := indices.AsInt64()
	dim := gradWeight.Shape()[1]

	for i, id := range idx {
		row := gw[int(id)*dim : (int(id)+1)*dim]
		for j, v := range og[i*dim : (i+1)*dim] {
			row[j] += v
		}
	}
}
