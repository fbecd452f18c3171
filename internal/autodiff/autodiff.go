package autodiff

import (
	"github.com/primer-ml/primer/internal/autodiff/ops"
	"github.com/primer-ml/primer/internal/tensor"
)

// Backend decorates an inner compute backend with gradient taping. Every
// forward computation is delegated to the inner backend unchanged; when the
// tape is recording, the operation is also appended so Backward can replay
// it in reverse.
type Backend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New wraps inner in an autodiff backend with a fresh tape.
func New[B tensor.Backend](inner B) *Backend[B] {
	return &Backend[B]{inner: inner, tape: NewGradientTape()}
}

// Inner returns the wrapped backend.
func (b *Backend[B]) Inner() B { return b.inner }

// Tape returns the gradient tape.
func (b *Backend[B]) Tape() *GradientTape { return b.tape }

// Backward differentiates output through the recorded tape, using the inner
// backend for the gradient arithmetic.
func (b *Backend[B]) Backward(output *tensor.RawTensor) map[*tensor.RawTensor]*tensor.RawTensor {
	return b.tape.Backward(output, b.inner)
}

func (b *Backend[B]) record(op ops.Operation) {
	if b.tape.IsRecording() {
		b.tape.Record(op)
	}
}

func (b *Backend[B]) Name() string          { return "Autodiff(" + b.inner.Name() + ")" }
func (b *Backend[B]) Device() tensor.Device { return b.inner.Device() }

func (b *Backend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Add(x, y)
	b.record(ops.NewAddOp(x, y, out))
	return out
}

func (b *Backend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Sub(x, y)
	b.record(ops.NewSubOp(x, y, out))
	return out
}

func (b *Backend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Mul(x, y)
	b.record(ops.NewMulOp(x, y, out))
	return out
}

func (b *Backend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Div(x, y)
	b.record(ops.NewDivOp(x, y, out))
	return out
}

func (b *Backend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.MatMul(x, y)
	b.record(ops.NewMatMulOp(x, y, out))
	return out
}

func (b *Backend[B]) Corr2D(x, k *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Corr2D(x, k)
	b.record(ops.NewCorr2DOp(x, k, out))
	return out
}

// Corr2DInputBackward is pure gradient arithmetic and is never taped; taping
// it would differentiate the backward pass itself.
func (b *Backend[B]) Corr2DInputBackward(x, k, grad *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Corr2DInputBackward(x, k, grad)
}

func (b *Backend[B]) Corr2DKernelBackward(x, k, grad *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Corr2DKernelBackward(x, k, grad)
}

func (b *Backend[B]) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	out := b.inner.Conv2D(input, kernel, stride, padding)
	b.record(ops.NewConv2DOp(input, kernel, out, stride, padding))
	return out
}

func (b *Backend[B]) Conv2DInputBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	return b.inner.Conv2DInputBackward(input, kernel, grad, stride, padding)
}

func (b *Backend[B]) Conv2DKernelBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	return b.inner.Conv2DKernelBackward(input, kernel, grad, stride, padding)
}

func (b *Backend[B]) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	out := b.inner.MaxPool2D(input, kernelSize, stride)
	b.record(ops.NewMaxPool2DOp(input, out, kernelSize, stride))
	return out
}

func (b *Backend[B]) MaxPool2DBackward(input, grad *tensor.RawTensor, maxIndices []int, kernelSize, stride int) *tensor.RawTensor {
	return b.inner.MaxPool2DBackward(input, grad, maxIndices, kernelSize, stride)
}

func (b *Backend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	out := b.inner.Reshape(t, newShape)
	b.record(ops.NewReshapeOp(t, out))
	return out
}

func (b *Backend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	out := b.inner.Transpose(t, axes...)
	b.record(ops.NewTransposeOp(t, out, axes))
	return out
}

func (b *Backend[B]) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	out := b.inner.Cat(tensors, dim)
	b.record(ops.NewCatOp(tensors, out, dim))
	return out
}

func (b *Backend[B]) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Embedding(weight, indices)
	b.record(ops.NewEmbeddingOp(weight, indices, out))
	return out
}

func (b *Backend[B]) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	out := b.inner.AddScalar(x, scalar)
	b.record(ops.NewAddScalarOp(x, out, scalar))
	return out
}

func (b *Backend[B]) SubScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	out := b.inner.SubScalar(x, scalar)
	b.record(ops.NewSubScalarOp(x, out, scalar))
	return out
}

func (b *Backend[B]) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	out := b.inner.MulScalar(x, scalar)
	b.record(ops.NewMulScalarOp(x, out, scalar))
	return out
}

func (b *Backend[B]) DivScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	out := b.inner.DivScalar(x, scalar)
	b.record(ops.NewDivScalarOp(x, out, scalar))
	return out
}

func (b *Backend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Exp(x)
	b.record(ops.NewExpOp(x, out))
	return out
}

func (b *Backend[B]) Log(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Log(x)
	b.record(ops.NewLogOp(x, out))
	return out
}

func (b *Backend[B]) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Sqrt(x)
	b.record(ops.NewSqrtOp(x, out))
	return out
}

func (b *Backend[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Tanh(x)
	b.record(ops.NewTanhOp(x, out))
	return out
}

func (b *Backend[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Sigmoid(x)
	b.record(ops.NewSigmoidOp(x, out))
	return out
}

func (b *Backend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.ReLU(x)
	b.record(ops.NewReLUOp(x, out))
	return out
}

func (b *Backend[B]) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	out := b.inner.Softmax(x, dim)
	b.record(ops.NewSoftmaxOp(x, out, dim))
	return out
}

func (b *Backend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Sum(x)
	b.record(ops.NewSumOp(x, out))
	return out
}

func (b *Backend[B]) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Mean(x)
	b.record(ops.NewMeanOp(x, out))
	return out
}

func (b *Backend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	out := b.inner.SumDim(x, dim, keepDim)
	b.record(ops.NewSumDimOp(x, out, dim, keepDim))
	return out
}

func (b *Backend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	out := b.inner.MeanDim(x, dim, keepDim)
	b.record(ops.NewMeanDimOp(x, out, dim, keepDim))
	return out
}

func (b *Backend[B]) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.CrossEntropy(logits, targets)
	b.record(ops.NewCrossEntropyOp(logits, targets, out))
	return out
}
