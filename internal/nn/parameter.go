package nn

import "github.com/primer-ml/primer/internal/tensor"

// Parameter is a trainable tensor together with its current gradient.
// Optimizers match gradients to parameters through the underlying RawTensor
// identity, so a parameter's storage must stay stable across steps.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
	grad   *tensor.Tensor[float32, B]
}

// NewParameter wraps an initialized tensor as a trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t}
}

// Name returns the parameter's name, e.g. "weight".
func (p *Parameter[B]) Name() string { return p.name }

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] { return p.tensor }

// Grad returns the gradient from the last backward pass, or nil if none has
// been computed.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] { return p.grad }

// SetGrad stores the gradient for the next optimizer step.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) { p.grad = grad }

// ZeroGrad discards the stored gradient.
func (p *Parameter[B]) ZeroGrad() { p.grad = nil }
