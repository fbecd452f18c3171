package ops

import "github.com/primer-ml/primer/internal/tensor"

// CrossEntropyOp records loss = cross_entropy(logits, targets). Targets are
// class indices and receive no gradient.
type CrossEntropyOp struct {
	logits, targets, out *tensor.RawTensor
}

func NewCrossEntropyOp(logits, targets, out *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{logits: logits, targets: targets, out: out}
}

func (op *CrossEntropyOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logits, op.targets}
}
func (op *CrossEntropyOp) Output() *tensor.RawTensor { return op.out }

// Backward uses the closed form dL/dlogits = (softmax(logits) - onehot) / N,
// scaled by the incoming gradient (a single element, normally 1).
func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	n := op.logits.Shape()[0]

	probs := backend.Softmax(op.logits, 1)
	grad := backend.DivScalar(probs, float64(n))

	switch op.logits.DType() {
	case tensor.Float32:
		subtractOneHot[float32](grad, op.targets, outputGrad, n)
	case tensor.Float64:
		subtractOneHot[float64](grad, op.targets, outputGrad, n)
	default:
		panic("crossentropy backward: unsupported dtype " + op.logits.DType().String())
	}

	return []*tensor.RawTensor{grad, nil}
}

func subtractOneHot[T tensor.Float](grad, targets, outputGrad *tensor.RawTensor, n int) {
	gData := floats[T](grad)
	tData := targets.AsInt64()
	classes := grad.Shape()[1]
	scale := floats[T](outputGrad)[0]

	for i := 0; i < n; i++ {
		gData[i*classes+int(tData[i])] -= 1 / T(n)
	}
	if scale != 1 {
		for i := range gData {
			gData[i] *= scale
		}
	}
}
