package nn

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// LayerNorm normalizes each input row over its last dimension to zero mean
// and unit variance, then applies a learnable affine transform:
// y = (x - mean) / sqrt(var + eps) * gamma + beta.
//
// Built entirely from taped element-wise operations, so it needs no
// dedicated backward rule.
type LayerNorm[B tensor.Backend] struct {
	dim     int
	eps     float64
	gamma   *Parameter[B] // [dim]
	beta    *Parameter[B] // [dim]
	backend B
}

// NewLayerNorm creates a layer normalization over the last dimension of
// size dim, with eps 1e-5.
func NewLayerNorm[B tensor.Backend](dim int, backend B) *LayerNorm[B] {
	return &LayerNorm[B]{
		dim:     dim,
		eps:     1e-5,
		gamma:   NewParameter("gamma", Ones(tensor.Shape{dim}, backend)),
		beta:    NewParameter("beta", Zeros(tensor.Shape{dim}, backend)),
		backend: backend,
	}
}

func (l *LayerNorm[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	last := len(shape) - 1
	if shape[last] != l.dim {
		panic(fmt.Sprintf("LayerNorm.Forward: expected last dimension %d, got %v", l.dim, shape))
	}

	mean := input.MeanDim(last, true)
	centered := input.Sub(mean)
	variance := centered.Mul(centered).MeanDim(last, true)
	norm := centered.Div(variance.AddScalar(l.eps).Sqrt())

	return norm.Mul(l.gamma.Tensor()).Add(l.beta.Tensor())
}

func (l *LayerNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.gamma, l.beta}
}
