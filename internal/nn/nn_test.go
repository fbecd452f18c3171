package nn_test

import (
	"math"
	"testing"

	"github.com/primer-ml/primer/internal/autodiff"
	"github.com/primer-ml/primer/internal/backend/cpu"
	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/tensor"
)

type Backend = *autodiff.Backend[*cpu.CPUBackend]

func newBackend() Backend {
	return autodiff.New(cpu.New())
}

func approx(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) < float64(eps)
}

func TestParameter(t *testing.T) {
	backend := newBackend()

	data, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	param := nn.NewParameter("weight", data)

	if param.Name() != "weight" {
		t.Errorf("Name() = %s, want weight", param.Name())
	}
	if param.Tensor() != data {
		t.Error("Tensor() should return the wrapped tensor")
	}
	if param.Grad() != nil {
		t.Error("new parameter should have no gradient")
	}

	grad, _ := tensor.FromSlice([]float32{0.1, 0.2, 0.3}, tensor.Shape{3}, backend)
	param.SetGrad(grad)
	if param.Grad() != grad {
		t.Error("SetGrad should store the gradient")
	}
	param.ZeroGrad()
	if param.Grad() != nil {
		t.Error("ZeroGrad should clear the gradient")
	}
}

func TestLinearForward(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(3, 2, backend)

	// Fix the weights so the output is predictable.
	copy(layer.Weight().Tensor().Data(), []float32{1, 0, 0, 0, 1, 0})
	copy(layer.Bias().Tensor().Data(), []float32{10, 20})

	input, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	out := layer.Forward(input)

	if !out.Shape().Equal(tensor.Shape{1, 2}) {
		t.Fatalf("output shape: %v", out.Shape())
	}
	if out.At(0, 0) != 11 || out.At(0, 1) != 22 {
		t.Errorf("output = %v, want [11 22]", out.Data())
	}
}

func TestLinearPanicsOnBadInput(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(3, 2, backend)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for wrong feature count")
		}
	}()
	layer.Forward(tensor.Zeros[float32](tensor.Shape{1, 4}, backend))
}

func TestLinearStateDictRoundTrip(t *testing.T) {
	backend := newBackend()
	src := nn.NewLinear(4, 3, backend)
	dst := nn.NewLinear(4, 3, backend)

	if err := dst.LoadStateDict(src.StateDict()); err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}
	for i, v := range src.Weight().Tensor().Data() {
		if dst.Weight().Tensor().Data()[i] != v {
			t.Fatal("weights not restored")
		}
	}
}

func TestSequentialComposes(t *testing.T) {
	backend := newBackend()
	model := nn.NewSequential[Backend](
		nn.NewLinear(4, 8, backend),
		nn.NewReLU[Backend](),
		nn.NewLinear(8, 2, backend),
	)

	out := model.Forward(tensor.Randn[float32](tensor.Shape{5, 4}, backend))
	if !out.Shape().Equal(tensor.Shape{5, 2}) {
		t.Fatalf("output shape: %v", out.Shape())
	}

	// 2 linears x (weight + bias)
	if n := len(model.Parameters()); n != 4 {
		t.Errorf("Parameters() returned %d, want 4", n)
	}
}

func TestCenteredOutputSumsToZero(t *testing.T) {
	backend := newBackend()
	layer := nn.NewCentered[Backend]()

	input, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5}, tensor.Shape{5}, backend)
	out := layer.Forward(input)

	var sum float32
	for _, v := range out.Data() {
		sum += v
	}
	if !approx(sum, 0, 1e-5) {
		t.Errorf("output sums to %v, want 0", sum)
	}
	if len(layer.Parameters()) != 0 {
		t.Error("Centered should have no parameters")
	}
}

func TestActivations(t *testing.T) {
	backend := newBackend()
	input, _ := tensor.FromSlice([]float32{-1, 0, 2}, tensor.Shape{3}, backend)

	relu := nn.NewReLU[Backend]().Forward(input)
	if relu.At(0) != 0 || relu.At(2) != 2 {
		t.Errorf("relu = %v", relu.Data())
	}

	sig := nn.NewSigmoid[Backend]().Forward(input)
	if !approx(sig.At(1), 0.5, 1e-6) {
		t.Errorf("sigmoid(0) = %v", sig.At(1))
	}

	tanh := nn.NewTanh[Backend]().Forward(input)
	if !approx(tanh.At(1), 0, 1e-6) {
		t.Errorf("tanh(0) = %v", tanh.At(1))
	}
}

func TestFlatten(t *testing.T) {
	backend := newBackend()
	input := tensor.Randn[float32](tensor.Shape{2, 3, 4, 5}, backend)

	out := nn.NewFlatten[Backend]().Forward(input)
	if !out.Shape().Equal(tensor.Shape{2, 60}) {
		t.Fatalf("output shape: %v", out.Shape())
	}
}

func TestMaxPoolLayer(t *testing.T) {
	backend := newBackend()
	input, _ := tensor.FromSlice([]float32{
		1, 2, 5, 6,
		3, 4, 7, 8,
		9, 10, 13, 14,
		11, 12, 15, 16,
	}, tensor.Shape{1, 1, 4, 4}, backend)

	out := nn.NewMaxPool2D[Backend](2, 0).Forward(input)
	if !out.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("output shape: %v", out.Shape())
	}
	want := []float32{4, 8, 12, 16}
	for i, v := range out.Data() {
		if v != want[i] {
			t.Errorf("element %d: got %v, want %v", i, v, want[i])
		}
	}
}

func TestConv2DForwardShape(t *testing.T) {
	backend := newBackend()
	layer := nn.NewConv2D(3, 8, 3, 1, 1, backend)

	out := layer.Forward(tensor.Randn[float32](tensor.Shape{2, 3, 16, 16}, backend))
	if !out.Shape().Equal(tensor.Shape{2, 8, 16, 16}) {
		t.Fatalf("output shape: %v", out.Shape())
	}
	if n := len(layer.Parameters()); n != 2 {
		t.Errorf("Parameters() returned %d, want 2", n)
	}
}

func TestEmbeddingLookupShape(t *testing.T) {
	backend := newBackend()
	emb := nn.NewEmbedding(10, 4, backend)

	indices, _ := tensor.FromSlice([]int64{1, 3, 3, 7}, tensor.Shape{4}, backend)
	out := emb.Lookup(indices)
	if !out.Shape().Equal(tensor.Shape{4, 4}) {
		t.Fatalf("output shape: %v", out.Shape())
	}
}
