package nn

import "github.com/primer-ml/primer/internal/tensor"

// Centered subtracts the mean of its input from every element, so the output
// always sums to zero. It is the canonical minimal custom layer: no
// parameters, one line of math.
type Centered[B tensor.Backend] struct{}

// NewCentered creates a centering layer.
func NewCentered[B tensor.Backend]() *Centered[B] { return &Centered[B]{} }

func (c *Centered[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Sub(input.Mean())
}

func (c *Centered[B]) Parameters() []*Parameter[B] { return nil }
