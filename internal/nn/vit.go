package nn

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// PatchEmbedding splits an image into non-overlapping square patches and
// projects each to an embedding vector, implemented as a convolution whose
// kernel size and stride both equal the patch size.
//
// Input shape: [N, C, H, W], output shape: [N, numPatches, embedDim].
type PatchEmbedding[B tensor.Backend] struct {
	patchSize int
	proj      *Conv2D[B]
}

// NewPatchEmbedding creates a patch embedding layer.
func NewPatchEmbedding[B tensor.Backend](inChannels, embedDim, patchSize int, backend B) *PatchEmbedding[B] {
	return &PatchEmbedding[B]{
		patchSize: patchSize,
		proj:      NewConv2D(inChannels, embedDim, patchSize, patchSize, 0, backend),
	}
}

func (p *PatchEmbedding[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("PatchEmbedding.Forward: expected 4D input [N,C,H,W], got %v", shape))
	}
	if shape[2]%p.patchSize != 0 || shape[3]%p.patchSize != 0 {
		panic(fmt.Sprintf("PatchEmbedding.Forward: image %dx%d not divisible by patch size %d",
			shape[2], shape[3], p.patchSize))
	}

	// [N, D, H/p, W/p] -> [N, D, S] -> [N, S, D]
	out := p.proj.Forward(input)
	os := out.Shape()
	return out.Reshape(os[0], os[1], os[2]*os[3]).Transpose(0, 2, 1)
}

func (p *PatchEmbedding[B]) Parameters() []*Parameter[B] { return p.proj.Parameters() }

// TransformerBlock is one pre-norm transformer encoder block over a token
// sequence of shape [seq, dim]: self-attention and a two-layer MLP, each
// behind layer normalization with a residual connection.
type TransformerBlock[B tensor.Backend] struct {
	norm1     *LayerNorm[B]
	attention *SelfAttention[B]
	norm2     *LayerNorm[B]
	mlp       *Sequential[B]
}

// NewTransformerBlock creates an encoder block with an mlpDim-wide hidden
// MLP layer.
func NewTransformerBlock[B tensor.Backend](dim, mlpDim int, backend B) *TransformerBlock[B] {
	return &TransformerBlock[B]{
		norm1:     NewLayerNorm(dim, backend),
		attention: NewSelfAttention(dim, backend),
		norm2:     NewLayerNorm(dim, backend),
		mlp: NewSequential[B](
			NewLinear(dim, mlpDim, backend),
			NewReLU[B](),
			NewLinear(mlpDim, dim, backend),
		),
	}
}

func (t *TransformerBlock[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x := input.Add(t.attention.Forward(t.norm1.Forward(input)))
	return x.Add(t.mlp.Forward(t.norm2.Forward(x)))
}

func (t *TransformerBlock[B]) Parameters() []*Parameter[B] {
	params := append(t.norm1.Parameters(), t.attention.Parameters()...)
	params = append(params, t.norm2.Parameters()...)
	return append(params, t.mlp.Parameters()...)
}
