package nn

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// Conv2D is a batched multi-channel convolutional layer (cross-correlation,
// as in every deep learning framework).
//
// Input shape: [N, inChannels, H, W], output shape:
// [N, outChannels, H_out, W_out] with
// H_out = (H + 2*padding - kernelSize)/stride + 1.
type Conv2D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int
	weight      *Parameter[B] // [outChannels, inChannels, kernelSize, kernelSize]
	bias        *Parameter[B] // [outChannels]
	backend     B
}

// NewConv2D creates a convolutional layer with square kernels, Kaiming
// weight initialization and zero bias.
func NewConv2D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, backend B) *Conv2D[B] {
	fanIn := inChannels * kernelSize * kernelSize
	weightShape := tensor.Shape{outChannels, inChannels, kernelSize, kernelSize}

	return &Conv2D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		padding:     padding,
		weight:      NewParameter("weight", Kaiming(fanIn, weightShape, backend)),
		bias:        NewParameter("bias", Zeros(tensor.Shape{outChannels}, backend)),
		backend:     backend,
	}
}

func (c *Conv2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("Conv2D.Forward: expected 4D input [N,C,H,W], got %v", shape))
	}
	if shape[1] != c.inChannels {
		panic(fmt.Sprintf("Conv2D.Forward: expected %d input channels, got %d", c.inChannels, shape[1]))
	}

	raw := c.backend.Conv2D(input.Raw(), c.weight.Tensor().Raw(), c.stride, c.padding)
	out := tensor.New[float32, B](raw, c.backend)

	// Broadcast the per-channel bias over [N, C_out, H_out, W_out].
	return out.Add(c.bias.Tensor().Reshape(1, c.outChannels, 1, 1))
}

func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{c.weight, c.bias}
}

// Weight returns the kernel parameter.
func (c *Conv2D[B]) Weight() *Parameter[B] { return c.weight }

// Bias returns the bias parameter.
func (c *Conv2D[B]) Bias() *Parameter[B] { return c.bias }

// StateDict exports the layer's parameters.
func (c *Conv2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": c.weight.Tensor().Raw(),
		"bias":   c.bias.Tensor().Raw(),
	}
}

// LoadStateDict restores the layer's parameters from an exported state.
func (c *Conv2D[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	weightShape := tensor.Shape{c.outChannels, c.inChannels, c.kernelSize, c.kernelSize}
	if err := loadParam(state, "weight", c.weight, weightShape); err != nil {
		return err
	}
	return loadParam(state, "bias", c.bias, tensor.Shape{c.outChannels})
}
