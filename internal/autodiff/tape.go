// Package autodiff provides reverse-mode automatic differentiation as a
// backend decorator. Wrapping any compute backend in an autodiff backend
// records every operation on a gradient tape during the forward pass; walking
// the tape in reverse then yields the gradient of a scalar output with
// respect to every tensor that contributed to it.
package autodiff

import (
	"github.com/primer-ml/primer/internal/autodiff/ops"
	"github.com/primer-ml/primer/internal/tensor"
)

// GradientTape records the operations of a forward pass in execution order.
//
// A tape is not safe for concurrent use.
type GradientTape struct {
	operations []ops.Operation
	recording  bool
}

// NewGradientTape returns an empty, non-recording tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{}
}

// StartRecording makes subsequent operations append to the tape.
func (t *GradientTape) StartRecording() { t.recording = true }

// StopRecording suspends taping; recorded operations are kept.
func (t *GradientTape) StopRecording() { t.recording = false }

// IsRecording reports whether operations are currently being taped.
func (t *GradientTape) IsRecording() bool { return t.recording }

// Record appends one operation. Callers check IsRecording first.
func (t *GradientTape) Record(op ops.Operation) {
	t.operations = append(t.operations, op)
}

// Clear drops all recorded operations. Call it between training steps so the
// tape does not replay stale graphs.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOperations reports the number of recorded operations.
func (t *GradientTape) NumOperations() int { return len(t.operations) }

// Backward runs reverse-mode differentiation from output, which is seeded
// with a gradient of ones. It returns the gradient of output with respect to
// every tensor reached by the reverse walk, keyed by tensor identity.
//
// Operations whose output never received a gradient are skipped: they did not
// contribute to output. Gradients flowing into the same tensor from several
// paths are accumulated by addition.
func (t *GradientTape) Backward(output *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	grads[output] = ops.OnesLike(output)

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		outGrad, ok := grads[op.Output()]
		if !ok {
			continue
		}

		inputGrads := op.Backward(outGrad, backend)
		for j, input := range op.Inputs() {
			g := inputGrads[j]
			if g == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = backend.Add(existing, g)
			} else {
				grads[input] = g
			}
		}
	}

	return grads
}
