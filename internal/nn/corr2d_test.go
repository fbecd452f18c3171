package nn_test

import (
	"testing"

	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/optim"
	"github.com/primer-ml/primer/internal/tensor"
)

func TestCorr2DForward(t *testing.T) {
	backend := newBackend()
	layer := nn.NewCorr2D(2, 2, backend)

	copy(layer.Weight().Tensor().Data(), []float32{0, 1, 2, 3})
	copy(layer.Bias().Tensor().Data(), []float32{1})

	input, _ := tensor.FromSlice([]float32{0, 1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{3, 3}, backend)
	out := layer.Forward(input)

	want := []float32{20, 26, 38, 44} // corr2d result plus bias 1
	for i, v := range out.Data() {
		if v != want[i] {
			t.Errorf("element %d: got %v, want %v", i, v, want[i])
		}
	}
}

func TestCorr2DPanicsWhenKernelTooLarge(t *testing.T) {
	backend := newBackend()
	layer := nn.NewCorr2D(3, 3, backend)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for kernel larger than input")
		}
	}()
	layer.Forward(tensor.Zeros[float32](tensor.Shape{2, 2}, backend))
}

// TestCorr2DLearnsEdgeDetector trains the layer to recover the horizontal
// difference kernel [1, -1] from input/output pairs alone.
func TestCorr2DLearnsEdgeDetector(t *testing.T) {
	backend := newBackend()

	// Input: 6x8 of ones with a zero band in columns 2..5.
	x := tensor.Ones[float32](tensor.Shape{6, 8}, backend)
	for i := 0; i < 6; i++ {
		for j := 2; j < 6; j++ {
			x.Set(0, i, j)
		}
	}
	target, err := tensor.Corr2D(x, mustGrid(t, backend, []float32{1, -1}, tensor.Shape{1, 2}))
	if err != nil {
		t.Fatalf("building target: %v", err)
	}

	layer := nn.NewCorr2D(1, 2, backend)
	criterion := nn.NewMSELoss[Backend]()
	opt := optim.NewSGD(layer.Parameters(), optim.SGDConfig{LR: 0.03})

	var loss float32
	for epoch := 0; epoch < 200; epoch++ {
		backend.Tape().Clear()
		backend.Tape().StartRecording()
		pred := layer.Forward(x)
		lossTensor := criterion.Forward(pred, target)
		backend.Tape().StopRecording()

		grads := backend.Backward(lossTensor.Raw())
		opt.Step(grads)
		opt.ZeroGrad()
		loss = lossTensor.Item()
	}

	if loss > 1e-3 {
		t.Fatalf("loss after training = %v, want < 1e-3", loss)
	}

	kernel := layer.Weight().Tensor().Data()
	if !approx(kernel[0], 1, 0.1) || !approx(kernel[1], -1, 0.1) {
		t.Errorf("learned kernel = %v, want approximately [1 -1]", kernel)
	}
}

func mustGrid(t *testing.T, backend Backend, data []float32, shape tensor.Shape) *tensor.Tensor[float32, Backend] {
	t.Helper()
	g, err := tensor.FromSlice(data, shape, backend)
	if err != nil {
		t.Fatal(err)
	}
	return g
}
