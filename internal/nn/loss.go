package nn

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// MSELoss computes the mean squared error between predictions and targets.
// It is built from taped element-wise operations, so gradients follow from
// the autodiff backend without a dedicated backward rule.
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates a mean squared error criterion.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] { return &MSELoss[B]{} }

// Forward returns mean((pred - target)^2) as a single-element tensor.
func (l *MSELoss[B]) Forward(pred, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !pred.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("MSELoss.Forward: shape mismatch %v vs %v", pred.Shape(), target.Shape()))
	}
	diff := pred.Sub(target)
	return diff.Mul(diff).Mean()
}

// CrossEntropyLoss computes mean softmax cross-entropy of logits against
// integer class labels.
type CrossEntropyLoss[B tensor.Backend] struct{}

// NewCrossEntropyLoss creates a cross-entropy criterion.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] { return &CrossEntropyLoss[B]{} }

// Forward returns the mean cross-entropy of logits [N, C] against targets
// [N] as a single-element tensor.
func (l *CrossEntropyLoss[B]) Forward(logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int64, B]) *tensor.Tensor[float32, B] {
	raw := logits.Backend().CrossEntropy(logits.Raw(), targets.Raw())
	return tensor.New[float32, B](raw, logits.Backend())
}
