package ops

import "github.com/primer-ml/primer/internal/tensor"

// ExpOp records y = exp(x).
type ExpOp struct {
	x, out *tensor.RawTensor
}

func NewExpOp(x, out *tensor.RawTensor) *ExpOp { return &ExpOp{x: x, out: out} }

func (op *ExpOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *ExpOp) Output() *tensor.RawTensor   { return op.out }

// Backward: d exp(x)/dx = exp(x), which is the saved output.
func (op *ExpOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, op.out)}
}

// LogOp records y = ln(x).
type LogOp struct {
	x, out *tensor.RawTensor
}

func NewLogOp(x, out *tensor.RawTensor) *LogOp { return &LogOp{x: x, out: out} }

func (op *LogOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *LogOp) Output() *tensor.RawTensor   { return op.out }

func (op *LogOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Div(outputGrad, op.x)}
}

// SqrtOp records y = sqrt(x).
type SqrtOp struct {
	x, out *tensor.RawTensor
}

func NewSqrtOp(x, out *tensor.RawTensor) *SqrtOp { return &SqrtOp{x: x, out: out} }

func (op *SqrtOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *SqrtOp) Output() *tensor.RawTensor   { return op.out }

// Backward: d sqrt(x)/dx = 1 / (2 sqrt(x)).
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MulScalar(backend.Div(outputGrad, op.out), 0.5)}
}

// TanhOp records y = tanh(x).
type TanhOp struct {
	x, out *tensor.RawTensor
}

func NewTanhOp(x, out *tensor.RawTensor) *TanhOp { return &TanhOp{x: x, out: out} }

func (op *TanhOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *TanhOp) Output() *tensor.RawTensor   { return op.out }

// Backward: d tanh(x)/dx = 1 - tanh(x)^2.
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	sq := backend.Mul(op.out, op.out)
	return []*tensor.RawTensor{backend.Mul(outputGrad, backend.AddScalar(backend.MulScalar(sq, -1), 1))}
}

// SigmoidOp records y = sigmoid(x).
type SigmoidOp struct {
	x, out *tensor.RawTensor
}

func NewSigmoidOp(x, out *tensor.RawTensor) *SigmoidOp { return &SigmoidOp{x: x, out: out} }

func (op *SigmoidOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *SigmoidOp) Output() *tensor.RawTensor   { return op.out }

// Backward: d sigmoid(x)/dx = sigmoid(x)(1 - sigmoid(x)).
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	oneMinus := backend.AddScalar(backend.MulScalar(op.out, -1), 1)
	return []*tensor.RawTensor{backend.Mul(outputGrad, backend.Mul(op.out, oneMinus))}
}

// ReLUOp records y = max(x, 0).
type ReLUOp struct {
	x, out *tensor.RawTensor
}

func NewReLUOp(x, out *tensor.RawTensor) *ReLUOp { return &ReLUOp{x: x, out: out} }

func (op *ReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *ReLUOp) Output() *tensor.RawTensor   { return op.out }

// Backward passes the gradient where the input was positive and zero
// elsewhere. The subgradient at exactly zero is taken as zero.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, positiveMask(op.x))}
}

func positiveMask(x *tensor.RawTensor) *tensor.RawTensor {
	mask := zerosLike(x)
	switch x.DType() {
	case tensor.Float32:
		positiveMaskKernel[float32](mask, x)
	case tensor.Float64:
		positiveMaskKernel[float64](mask, x)
	default:
		panic("relu backward: unsupported dtype " + x.DType().String())
	}
	return mask
}

func positiveMaskKernel[T tensor.Float](mask, x *tensor.RawTensor) {
	xData, maskData := floats[T](x), floats[T](mask)
	for i, v := range xData {
		if v > 0 {
			maskData[i] = 1
		}
	}
}
