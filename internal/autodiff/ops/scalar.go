package ops

import "github.com/primer-ml/primer/internal/tensor"

// scalarKind selects the arithmetic a scalar op performed.
type scalarKind int

const (
	scalarAdd scalarKind = iota
	scalarSub
	scalarMul
	scalarDiv
)

// ScalarOp records y = x (op) c for a scalar constant c. The constant gets
// no gradient.
type ScalarOp struct {
	x, out *tensor.RawTensor
	scalar float64
	kind   scalarKind
}

func NewAddScalarOp(x, out *tensor.RawTensor, scalar float64) *ScalarOp {
	return &ScalarOp{x: x, out: out, scalar: scalar, kind: scalarAdd}
}

func NewSubScalarOp(x, out *tensor.RawTensor, scalar float64) *ScalarOp {
	return &ScalarOp{x: x, out: out, scalar: scalar, kind: scalarSub}
}

func NewMulScalarOp(x, out *tensor.RawTensor, scalar float64) *ScalarOp {
	return &ScalarOp{x: x, out: out, scalar: scalar, kind: scalarMul}
}

func NewDivScalarOp(x, out *tensor.RawTensor, scalar float64) *ScalarOp {
	return &ScalarOp{x: x, out: out, scalar: scalar, kind: scalarDiv}
}

func (op *ScalarOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *ScalarOp) Output() *tensor.RawTensor   { return op.out }

func (op *ScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	switch op.kind {
	case scalarAdd, scalarSub:
		return []*tensor.RawTensor{outputGrad}
	case scalarMul:
		return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
	case scalarDiv:
		return []*tensor.RawTensor{backend.DivScalar(outputGrad, op.scalar)}
	default:
		panic("unknown scalar op")
	}
}
