package nn

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// Corr2D is the minimal learnable convolution: one 2D kernel slid over one
// 2D input with unit stride and no padding, plus a scalar bias.
//
// Input shape: [H, W], output shape: [H-kh+1, W-kw+1]. The layer exists to
// show that a convolution's kernel is just a trainable parameter; real
// networks use Conv2D, its batched multi-channel sibling.
type Corr2D[B tensor.Backend] struct {
	kernelH, kernelW int
	weight           *Parameter[B] // [kernelH, kernelW]
	bias             *Parameter[B] // [1]
	backend          B
}

// NewCorr2D creates a single-kernel correlation layer with a randomly
// initialized kernel and zero bias.
func NewCorr2D[B tensor.Backend](kernelH, kernelW int, backend B) *Corr2D[B] {
	return &Corr2D[B]{
		kernelH: kernelH,
		kernelW: kernelW,
		weight:  NewParameter("weight", Randn(tensor.Shape{kernelH, kernelW}, backend)),
		bias:    NewParameter("bias", Zeros(tensor.Shape{1}, backend)),
		backend: backend,
	}
}

func (c *Corr2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out, err := tensor.Corr2D(input, c.weight.Tensor())
	if err != nil {
		panic(fmt.Sprintf("Corr2D.Forward: %v", err))
	}
	return out.Add(c.bias.Tensor())
}

func (c *Corr2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{c.weight, c.bias}
}

// Weight returns the kernel parameter.
func (c *Corr2D[B]) Weight() *Parameter[B] { return c.weight }

// Bias returns the scalar bias parameter.
func (c *Corr2D[B]) Bias() *Parameter[B] { return c.bias }

// StateDict exports the layer's parameters.
func (c *Corr2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": c.weight.Tensor().Raw(),
		"bias":   c.bias.Tensor().Raw(),
	}
}

// LoadStateDict restores the layer's parameters from an exported state.
func (c *Corr2D[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	if err := loadParam(state, "weight", c.weight, tensor.Shape{c.kernelH, c.kernelW}); err != nil {
		return err
	}
	return loadParam(state, "bias", c.bias, tensor.Shape{1})
}
