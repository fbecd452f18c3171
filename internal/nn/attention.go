package nn

import (
	"math"

	"github.com/primer-ml/primer/internal/tensor"
)

// ScaledDotProductAttention computes attention(Q, K, V) =
// softmax(Q K^T / sqrt(d)) V for 2D queries, keys and values of shape
// [seq, d].
func ScaledDotProductAttention[B tensor.Backend](q, k, v *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	d := float64(q.Shape()[1])
	scores := q.MatMul(k.Transpose()).DivScalar(math.Sqrt(d))
	return scores.Softmax(1).MatMul(v)
}

// SelfAttention is single-head self-attention over a token sequence.
//
// Input shape: [seq, dim]. Queries, keys and values are linear projections
// of the same input; the attended values pass through a final output
// projection.
type SelfAttention[B tensor.Backend] struct {
	dim                    int
	query, key, value, out *Linear[B]
}

// NewSelfAttention creates a single-head self-attention layer.
func NewSelfAttention[B tensor.Backend](dim int, backend B) *SelfAttention[B] {
	return &SelfAttention[B]{
		dim:   dim,
		query: NewLinearNoBias(dim, dim, backend),
		key:   NewLinearNoBias(dim, dim, backend),
		value: NewLinearNoBias(dim, dim, backend),
		out:   NewLinear(dim, dim, backend),
	}
}

func (a *SelfAttention[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	q := a.query.Forward(input)
	k := a.key.Forward(input)
	v := a.value.Forward(input)
	return a.out.Forward(ScaledDotProductAttention(q, k, v))
}

func (a *SelfAttention[B]) Parameters() []*Parameter[B] {
	params := append(a.query.Parameters(), a.key.Parameters()...)
	params = append(params, a.value.Parameters()...)
	return append(params, a.out.Parameters()...)
}
