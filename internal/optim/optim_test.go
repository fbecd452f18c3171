package optim_test

import (
	"math"
	"testing"

	"github.com/primer-ml/primer/internal/autodiff"
	"github.com/primer-ml/primer/internal/backend/cpu"
	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/optim"
	"github.com/primer-ml/primer/internal/tensor"
)

type Backend = *autodiff.Backend[*cpu.CPUBackend]

func newBackend() Backend {
	return autodiff.New(cpu.New())
}

func param(backend Backend, values []float32) *nn.Parameter[Backend] {
	t, _ := tensor.FromSlice(values, tensor.Shape{len(values)}, backend)
	return nn.NewParameter("weight", t)
}

func gradMap(backend Backend, p *nn.Parameter[Backend], values []float32) map[*tensor.RawTensor]*tensor.RawTensor {
	g, _ := tensor.FromSlice(values, tensor.Shape{len(values)}, backend)
	return map[*tensor.RawTensor]*tensor.RawTensor{p.Tensor().Raw(): g.Raw()}
}

func TestSGDStep(t *testing.T) {
	backend := newBackend()
	p := param(backend, []float32{1, 2, 3})
	opt := optim.NewSGD([]*nn.Parameter[Backend]{p}, optim.SGDConfig{LR: 0.1})

	opt.Step(gradMap(backend, p, []float32{1, 1, -1}))

	want := []float32{0.9, 1.9, 3.1}
	for i, v := range p.Tensor().Data() {
		if math.Abs(float64(v-want[i])) > 1e-6 {
			t.Errorf("element %d: got %v, want %v", i, v, want[i])
		}
	}
}

func TestSGDMomentumAccumulates(t *testing.T) {
	backend := newBackend()
	p := param(backend, []float32{0})
	opt := optim.NewSGD([]*nn.Parameter[Backend]{p}, optim.SGDConfig{LR: 1, Momentum: 0.5})

	// First step: velocity = 1, param = -1.
	opt.Step(gradMap(backend, p, []float32{1}))
	// Second step: velocity = 0.5 + 1 = 1.5, param = -2.5.
	opt.Step(gradMap(backend, p, []float32{1}))

	if v := p.Tensor().Data()[0]; math.Abs(float64(v+2.5)) > 1e-6 {
		t.Errorf("param = %v, want -2.5", v)
	}
}

func TestSGDSkipsParamsWithoutGradient(t *testing.T) {
	backend := newBackend()
	p := param(backend, []float32{1})
	opt := optim.NewSGD([]*nn.Parameter[Backend]{p}, optim.SGDConfig{LR: 0.1})

	opt.Step(map[*tensor.RawTensor]*tensor.RawTensor{})

	if v := p.Tensor().Data()[0]; v != 1 {
		t.Errorf("param changed without gradient: %v", v)
	}
}

func TestAdaGradShrinksStepSize(t *testing.T) {
	backend := newBackend()
	p := param(backend, []float32{0})
	opt := optim.NewAdaGrad([]*nn.Parameter[Backend]{p}, optim.AdaGradConfig{LR: 1})

	opt.Step(gradMap(backend, p, []float32{2}))
	first := float64(-p.Tensor().Data()[0]) // approx 1: 2/sqrt(4)

	before := p.Tensor().Data()[0]
	opt.Step(gradMap(backend, p, []float32{2}))
	second := float64(before - p.Tensor().Data()[0])

	if math.Abs(first-1) > 1e-4 {
		t.Errorf("first step = %v, want ~1", first)
	}
	if second >= first {
		t.Errorf("second step %v should be smaller than first %v", second, first)
	}
}

func TestAdamFirstStepApproachesLR(t *testing.T) {
	backend := newBackend()
	p := param(backend, []float32{0})
	opt := optim.NewAdam([]*nn.Parameter[Backend]{p}, optim.AdamConfig{LR: 0.001})

	opt.Step(gradMap(backend, p, []float32{10}))

	// Bias correction makes the first update approximately lr regardless of
	// gradient magnitude.
	if v := float64(-p.Tensor().Data()[0]); math.Abs(v-0.001) > 1e-4 {
		t.Errorf("first step = %v, want ~0.001", v)
	}
}

func TestOptimizerInterfaces(t *testing.T) {
	backend := newBackend()
	p := param(backend, []float32{1})
	params := []*nn.Parameter[Backend]{p}

	var opts = []optim.Optimizer{
		optim.NewSGD(params, optim.SGDConfig{}),
		optim.NewAdaGrad(params, optim.AdaGradConfig{}),
		optim.NewAdam(params, optim.AdamConfig{}),
	}
	for _, o := range opts {
		if o.GetLR() == 0 {
			t.Errorf("%T: default learning rate not applied", o)
		}
		o.ZeroGrad()
	}
}

func TestTrainLinearRegression(t *testing.T) {
	backend := newBackend()

	// y = 2x - 1 with a single-feature linear model.
	model := nn.NewLinear(1, 1, backend)
	criterion := nn.NewMSELoss[Backend]()
	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.05})

	xs := []float32{-2, -1, 0, 1, 2, 3}
	ys := make([]float32, len(xs))
	for i, x := range xs {
		ys[i] = 2*x - 1
	}
	input, _ := tensor.FromSlice(xs, tensor.Shape{len(xs), 1}, backend)
	target, _ := tensor.FromSlice(ys, tensor.Shape{len(ys), 1}, backend)

	var loss float32
	for epoch := 0; epoch < 300; epoch++ {
		backend.Tape().Clear()
		backend.Tape().StartRecording()
		lossTensor := criterion.Forward(model.Forward(input), target)
		backend.Tape().StopRecording()

		opt.Step(backend.Backward(lossTensor.Raw()))
		opt.ZeroGrad()
		loss = lossTensor.Item()
	}

	if loss > 1e-3 {
		t.Fatalf("loss after training = %v", loss)
	}
	w := model.Weight().Tensor().Data()[0]
	b := model.Bias().Tensor().Data()[0]
	if math.Abs(float64(w-2)) > 0.05 || math.Abs(float64(b+1)) > 0.05 {
		t.Errorf("learned w=%v b=%v, want w=2 b=-1", w, b)
	}
}
