// Package nn implements neural network building blocks.
//
// The package follows a small set of conventions:
//   - Module is the composition interface: Forward plus Parameters.
//   - Layers hold their weights as Parameter values so optimizers can find
//     them, and panic on inputs whose shape cannot be processed.
//   - All layers compute in float32, the working precision of the library.
//
// Modules compose into networks with Sequential:
//
//	model := nn.NewSequential[*cpu.CPUBackend](
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[*cpu.CPUBackend](),
//	    nn.NewLinear(128, 10, backend),
//	)
package nn

import "github.com/primer-ml/primer/internal/tensor"

// Module is the interface every network component implements.
type Module[B tensor.Backend] interface {
	// Forward computes the module's output for one input tensor. The
	// expected input shape is documented per layer.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns the module's trainable parameters, including those
	// of nested modules. Parameter-free modules return an empty slice.
	Parameters() []*Parameter[B]
}

// StateModule is implemented by modules whose parameters can be exported to
// and restored from a flat name-to-tensor map.
type StateModule[B tensor.Backend] interface {
	Module[B]
	StateDict() map[string]*tensor.RawTensor
	LoadStateDict(state map[string]*tensor.RawTensor) error
}
