package cpu

import (
	"fmt"
	"math"

	"github.com/primer-ml/primer/internal/tensor"
)

// CrossEntropy computes mean softmax cross-entropy.
//
// logits: [N, C] float, targets: [N] int64 class indices.
// Result: single-element tensor holding -1/N Σ_i log softmax(logits_i)[t_i].
// Log-softmax is computed directly from shifted logits rather than through
// softmax-then-log, to avoid log(0) for confident wrong predictions.
func (c *CPUBackend) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	ls, ts := logits.Shape(), targets.Shape()
	if len(ls) != 2 {
		panic(fmt.Sprintf("crossentropy: logits must be 2D [N,C], got %v", ls))
	}
	if len(ts) != 1 || ts[0] != ls[0] {
		panic(fmt.Sprintf("crossentropy: targets must be [N]=%d, got %v", ls[0], ts))
	}
	if targets.DType() != tensor.Int64 {
		panic(fmt.Sprintf("crossentropy: targets must be int64, got %s", targets.DType()))
	}

	out := tensor.MustNewRaw(tensor.Shape{1}, logits.DType(), c.device)

	switch logits.DType() {
	case tensor.Float32:
		crossEntropyKernel[float32](out, logits, targets)
	case tensor.Float64:
		crossEntropyKernel[float64](out, logits, targets)
	default:
		panic(fmt.Sprintf("crossentropy: unsupported dtype %s", logits.DType()))
	}

	return out
}

func crossEntropyKernel[T tensor.Float](out, logits, targets *tensor.RawTensor) {
	logitData := floats[T](logits)
	targetData := targets.AsInt64()
	n, classes := logits.Shape()[0], logits.Shape()[1]

	var total float64
	for i := 0; i < n; i++ {
		row := logitData[i*classes : (i+1)*classes]
		t := int(targetData[i])
		if t < 0 || t >= classes {
			panic(fmt.Sprintf("crossentropy: target %d out of range [0,%d)", t, classes))
		}

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(float64(v - maxVal))
		}
		// log softmax(row)[t] = row[t] - max - log Σ exp(row - max)
		total -= float64(row[t]-maxVal) - math.Log(sumExp)
	}

	floats[T](out)[0] = T(total / float64(n))
}
