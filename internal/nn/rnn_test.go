package nn_test

import (
	"testing"

	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/tensor"
)

func sequence(backend Backend, steps, batch, features int) []*tensor.Tensor[float32, Backend] {
	seq := make([]*tensor.Tensor[float32, Backend], steps)
	for t := range seq {
		seq[t] = tensor.Randn[float32](tensor.Shape{batch, features}, backend)
	}
	return seq
}

func TestRNNCellStep(t *testing.T) {
	backend := newBackend()
	cell := nn.NewRNNCell(3, 5, backend)

	hidden := cell.InitHidden(2)
	if !hidden.Shape().Equal(tensor.Shape{2, 5}) {
		t.Fatalf("hidden shape: %v", hidden.Shape())
	}

	next := cell.Step(tensor.Randn[float32](tensor.Shape{2, 3}, backend), hidden)
	if !next.Shape().Equal(tensor.Shape{2, 5}) {
		t.Fatalf("next hidden shape: %v", next.Shape())
	}
	// tanh bounds the state to (-1, 1)
	for _, v := range next.Data() {
		if v <= -1 || v >= 1 {
			t.Fatalf("hidden value %v outside (-1, 1)", v)
		}
	}
}

func TestRNNForwardSequence(t *testing.T) {
	backend := newBackend()
	rnn := nn.NewRNN(3, 4, backend)

	outputs, final := rnn.ForwardSequence(sequence(backend, 6, 2, 3))
	if len(outputs) != 6 {
		t.Fatalf("got %d outputs, want 6", len(outputs))
	}
	for i, out := range outputs {
		if !out.Shape().Equal(tensor.Shape{2, 4}) {
			t.Fatalf("output %d shape: %v", i, out.Shape())
		}
	}
	if final != outputs[5] {
		t.Error("final hidden state should be the last output")
	}
	if n := len(rnn.Parameters()); n != 3 {
		t.Errorf("Parameters() returned %d, want 3", n)
	}
}

func TestBiRNNOutputsConcatenateDirections(t *testing.T) {
	backend := newBackend()
	birnn := nn.NewBiRNN(3, 4, backend)

	outputs := birnn.ForwardSequence(sequence(backend, 5, 2, 3))
	if len(outputs) != 5 {
		t.Fatalf("got %d outputs, want 5", len(outputs))
	}
	for i, out := range outputs {
		if !out.Shape().Equal(tensor.Shape{2, 8}) {
			t.Fatalf("output %d shape: %v, want [2 8]", i, out.Shape())
		}
	}
	if n := len(birnn.Parameters()); n != 6 {
		t.Errorf("Parameters() returned %d, want 6", n)
	}
}
