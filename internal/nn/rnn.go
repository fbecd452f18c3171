package nn

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// RNNCell is one step of a vanilla recurrent network:
// h' = tanh(x @ Wxh^T + h @ Whh^T + b).
type RNNCell[B tensor.Backend] struct {
	inputSize  int
	hiddenSize int
	weightIH   *Parameter[B] // [hiddenSize, inputSize]
	weightHH   *Parameter[B] // [hiddenSize, hiddenSize]
	bias       *Parameter[B] // [hiddenSize]
	backend    B
}

// NewRNNCell creates a tanh recurrent cell.
func NewRNNCell[B tensor.Backend](inputSize, hiddenSize int, backend B) *RNNCell[B] {
	return &RNNCell[B]{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		weightIH:   NewParameter("weight_ih", Xavier(inputSize, hiddenSize, tensor.Shape{hiddenSize, inputSize}, backend)),
		weightHH:   NewParameter("weight_hh", Xavier(hiddenSize, hiddenSize, tensor.Shape{hiddenSize, hiddenSize}, backend)),
		bias:       NewParameter("bias", Zeros(tensor.Shape{hiddenSize}, backend)),
		backend:    backend,
	}
}

// Step advances the hidden state by one input.
//
// input: [batch, inputSize], hidden: [batch, hiddenSize].
func (c *RNNCell[B]) Step(input, hidden *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if input.Shape()[1] != c.inputSize {
		panic(fmt.Sprintf("RNNCell.Step: expected %d input features, got %d", c.inputSize, input.Shape()[1]))
	}

	ih := input.MatMul(c.weightIH.Tensor().Transpose())
	hh := hidden.MatMul(c.weightHH.Tensor().Transpose())
	return ih.Add(hh).Add(c.bias.Tensor().Reshape(1, c.hiddenSize)).Tanh()
}

// InitHidden returns a zero hidden state for a batch.
func (c *RNNCell[B]) InitHidden(batch int) *tensor.Tensor[float32, B] {
	return Zeros(tensor.Shape{batch, c.hiddenSize}, c.backend)
}

// HiddenSize returns the cell's hidden dimension.
func (c *RNNCell[B]) HiddenSize() int { return c.hiddenSize }

func (c *RNNCell[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{c.weightIH, c.weightHH, c.bias}
}

// RNN unrolls an RNNCell over a sequence of per-step inputs.
type RNN[B tensor.Backend] struct {
	cell *RNNCell[B]
}

// NewRNN creates a single-layer recurrent network.
func NewRNN[B tensor.Backend](inputSize, hiddenSize int, backend B) *RNN[B] {
	return &RNN[B]{cell: NewRNNCell(inputSize, hiddenSize, backend)}
}

// ForwardSequence runs the cell over steps, each of shape [batch, inputSize].
// It returns the hidden state after every step and the final hidden state
// (identical to the last element of the outputs).
func (r *RNN[B]) ForwardSequence(steps []*tensor.Tensor[float32, B]) ([]*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	if len(steps) == 0 {
		panic("RNN.ForwardSequence: empty sequence")
	}

	hidden := r.cell.InitHidden(steps[0].Shape()[0])
	outputs := make([]*tensor.Tensor[float32, B], len(steps))
	for t, x := range steps {
		hidden = r.cell.Step(x, hidden)
		outputs[t] = hidden
	}
	return outputs, hidden
}

// Cell returns the underlying recurrent cell.
func (r *RNN[B]) Cell() *RNNCell[B] { return r.cell }

func (r *RNN[B]) Parameters() []*Parameter[B] { return r.cell.Parameters() }

// BiRNN runs one RNN forward and one backward over the same sequence and
// concatenates their per-step hidden states, so each output position sees
// both past and future context.
type BiRNN[B tensor.Backend] struct {
	forward  *RNN[B]
	backward *RNN[B]
}

// NewBiRNN creates a bidirectional recurrent network. Each direction gets
// its own hiddenSize-dimensional state; outputs have 2*hiddenSize features.
func NewBiRNN[B tensor.Backend](inputSize, hiddenSize int, backend B) *BiRNN[B] {
	return &BiRNN[B]{
		forward:  NewRNN(inputSize, hiddenSize, backend),
		backward: NewRNN(inputSize, hiddenSize, backend),
	}
}

// ForwardSequence returns per-step outputs of shape [batch, 2*hiddenSize].
func (b *BiRNN[B]) ForwardSequence(steps []*tensor.Tensor[float32, B]) []*tensor.Tensor[float32, B] {
	fwdOut, _ := b.forward.ForwardSequence(steps)

	reversed := make([]*tensor.Tensor[float32, B], len(steps))
	for i, x := range steps {
		reversed[len(steps)-1-i] = x
	}
	bwdOut, _ := b.backward.ForwardSequence(reversed)

	outputs := make([]*tensor.Tensor[float32, B], len(steps))
	for t := range steps {
		outputs[t] = tensor.Cat([]*tensor.Tensor[float32, B]{fwdOut[t], bwdOut[len(steps)-1-t]}, 1)
	}
	return outputs
}

func (b *BiRNN[B]) Parameters() []*Parameter[B] {
	return append(b.forward.Parameters(), b.backward.Parameters()...)
}
