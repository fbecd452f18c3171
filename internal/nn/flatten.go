package nn

import "github.com/primer-ml/primer/internal/tensor"

// Flatten collapses all dimensions after the batch dimension:
// [N, d1, d2, ...] -> [N, d1*d2*...].
type Flatten[B tensor.Backend] struct{}

// NewFlatten creates a flatten layer.
func NewFlatten[B tensor.Backend]() *Flatten[B] { return &Flatten[B]{} }

func (f *Flatten[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) <= 2 {
		return input
	}
	return input.Reshape(shape[0], input.NumElements()/shape[0])
}

func (f *Flatten[B]) Parameters() []*Parameter[B] { return nil }
