package cpu_test

import (
	"math"
	"testing"

	"github.com/primer-ml/primer/internal/backend/cpu"
	"github.com/primer-ml/primer/internal/tensor"
)

func raw(t *testing.T, b *cpu.CPUBackend, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float32, b.Device())
	if err != nil {
		t.Fatalf("NewRaw(%v): %v", shape, err)
	}
	copy(r.AsFloat32(), data)
	return r
}

func assertRaw(t *testing.T, got *tensor.RawTensor, wantShape tensor.Shape, want []float32) {
	t.Helper()
	if !got.Shape().Equal(wantShape) {
		t.Fatalf("shape: got %v, want %v", got.Shape(), wantShape)
	}
	data := got.AsFloat32()
	for i := range want {
		if math.Abs(float64(data[i]-want[i])) > 1e-5 {
			t.Errorf("element %d: got %v, want %v", i, data[i], want[i])
		}
	}
}

func TestBinaryOps(t *testing.T) {
	b := cpu.New()
	x := raw(t, b, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := raw(t, b, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	assertRaw(t, b.Add(x, y), tensor.Shape{2, 2}, []float32{6, 8, 10, 12})
	assertRaw(t, b.Sub(x, y), tensor.Shape{2, 2}, []float32{-4, -4, -4, -4})
	assertRaw(t, b.Mul(x, y), tensor.Shape{2, 2}, []float32{5, 12, 21, 32})
	assertRaw(t, b.Div(y, x), tensor.Shape{2, 2}, []float32{5, 3, 7.0 / 3, 2})
}

func TestBroadcastAdd(t *testing.T) {
	b := cpu.New()
	x := raw(t, b, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := raw(t, b, []float32{10, 20, 30}, tensor.Shape{3})

	assertRaw(t, b.Add(x, bias), tensor.Shape{2, 3}, []float32{11, 22, 33, 14, 25, 36})
}

func TestBroadcastBothOperands(t *testing.T) {
	b := cpu.New()
	col := raw(t, b, []float32{1, 2}, tensor.Shape{2, 1})
	row := raw(t, b, []float32{10, 20, 30}, tensor.Shape{1, 3})

	assertRaw(t, b.Mul(col, row), tensor.Shape{2, 3}, []float32{10, 20, 30, 20, 40, 60})
}

func TestMatMul(t *testing.T) {
	b := cpu.New()
	x := raw(t, b, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := raw(t, b, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	assertRaw(t, b.MatMul(x, y), tensor.Shape{2, 2}, []float32{58, 64, 139, 154})
}

func TestConv2DMatchesCorr2DForSingleChannel(t *testing.T) {
	b := cpu.New()
	x := raw(t, b, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{3, 3})
	k := raw(t, b, []float32{0, 1, 2, 3}, tensor.Shape{2, 2})

	flat := b.Corr2D(x, k)

	batched := b.Conv2D(x.WithShape(tensor.Shape{1, 1, 3, 3}), k.WithShape(tensor.Shape{1, 1, 2, 2}), 1, 0)
	if !batched.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("conv2d shape: %v", batched.Shape())
	}

	fd, bd := flat.AsFloat32(), batched.AsFloat32()
	for i := range fd {
		if fd[i] != bd[i] {
			t.Fatalf("conv2d and corr2d disagree at %d: %v vs %v", i, bd[i], fd[i])
		}
	}
}

func TestConv2DStrideAndPadding(t *testing.T) {
	b := cpu.New()
	x := raw(t, b, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, tensor.Shape{1, 1, 4, 4})
	k := raw(t, b, []float32{1, 0, 0, 1}, tensor.Shape{1, 1, 2, 2})

	// stride 2, no padding: windows at (0,0),(0,2),(2,0),(2,2)
	out := b.Conv2D(x, k, 2, 0)
	assertRaw(t, out, tensor.Shape{1, 1, 2, 2}, []float32{7, 11, 23, 27})

	// padding 1 grows the output back to 5x5 with stride 1
	padded := b.Conv2D(x, k, 1, 1)
	if !padded.Shape().Equal(tensor.Shape{1, 1, 5, 5}) {
		t.Fatalf("padded shape: %v", padded.Shape())
	}
	// Top-left window sees only x[0][0] through the second kernel tap.
	if got := padded.AsFloat32()[0]; got != 1 {
		t.Errorf("padded[0][0]: got %v, want 1", got)
	}
}

func TestMaxPool2D(t *testing.T) {
	b := cpu.New()
	x := raw(t, b, []float32{
		1, 3, 2, 4,
		5, 7, 6, 8,
		9, 11, 10, 12,
		13, 15, 14, 16,
	}, tensor.Shape{1, 1, 4, 4})

	out := b.MaxPool2D(x, 2, 2)
	assertRaw(t, out, tensor.Shape{1, 1, 2, 2}, []float32{7, 8, 15, 16})
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	b := cpu.New()
	x := raw(t, b, []float32{1, 2, 3, 1000, 1001, 1002}, tensor.Shape{2, 3})

	out := b.Softmax(x, 1).AsFloat32()
	for r := 0; r < 2; r++ {
		var sum float32
		for c := 0; c < 3; c++ {
			sum += out[r*3+c]
		}
		if math.Abs(float64(sum-1)) > 1e-5 {
			t.Errorf("row %d sums to %v", r, sum)
		}
	}
	// Large logits must not overflow thanks to max subtraction.
	for i, v := range out {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("element %d is %v", i, v)
		}
	}
}

func TestReductions(t *testing.T) {
	b := cpu.New()
	x := raw(t, b, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	assertRaw(t, b.Sum(x), tensor.Shape{1}, []float32{21})
	assertRaw(t, b.Mean(x), tensor.Shape{1}, []float32{3.5})
	assertRaw(t, b.SumDim(x, 0, false), tensor.Shape{3}, []float32{5, 7, 9})
	assertRaw(t, b.SumDim(x, 1, true), tensor.Shape{2, 1}, []float32{6, 15})
	assertRaw(t, b.MeanDim(x, 1, false), tensor.Shape{2}, []float32{2, 5})
}

func TestTransposeAxes(t *testing.T) {
	b := cpu.New()
	x := raw(t, b, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	assertRaw(t, b.Transpose(x), tensor.Shape{3, 2}, []float32{1, 4, 2, 5, 3, 6})

	y := raw(t, b, []float32{0, 1, 2, 3, 4, 5, 6, 7}, tensor.Shape{2, 2, 2})
	assertRaw(t, b.Transpose(y, 1, 0, 2), tensor.Shape{2, 2, 2}, []float32{0, 1, 4, 5, 2, 3, 6, 7})
}

func TestCat(t *testing.T) {
	b := cpu.New()
	x := raw(t, b, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := raw(t, b, []float32{5, 6}, tensor.Shape{1, 2})
	z := raw(t, b, []float32{7, 8, 9, 10}, tensor.Shape{2, 2})

	assertRaw(t, b.Cat([]*tensor.RawTensor{x, y}, 0), tensor.Shape{3, 2}, []float32{1, 2, 3, 4, 5, 6})
	assertRaw(t, b.Cat([]*tensor.RawTensor{x, z}, 1), tensor.Shape{2, 4}, []float32{1, 2, 7, 8, 3, 4, 9, 10})
}

func TestCrossEntropy(t *testing.T) {
	b := cpu.New()
	// Uniform logits: loss is exactly ln(C).
	logits := raw(t, b, []float32{0, 0, 0, 0, 0, 0}, tensor.Shape{2, 3})
	targets, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int64, b.Device())
	if err != nil {
		t.Fatal(err)
	}
	copy(targets.AsInt64(), []int64{0, 2})

	loss := b.CrossEntropy(logits, targets).AsFloat32()[0]
	if math.Abs(float64(loss)-math.Log(3)) > 1e-5 {
		t.Errorf("loss = %v, want ln(3) = %v", loss, math.Log(3))
	}
}

func TestEmbeddingLookup(t *testing.T) {
	b := cpu.New()
	weight := raw(t, b, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})
	indices, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int64, b.Device())
	if err != nil {
		t.Fatal(err)
	}
	copy(indices.AsInt64(), []int64{2, 0})

	assertRaw(t, b.Embedding(weight, indices), tensor.Shape{2, 2}, []float32{5, 6, 1, 2})
}

func TestScalarOps(t *testing.T) {
	b := cpu.New()
	x := raw(t, b, []float32{1, 2, 3}, tensor.Shape{3})

	assertRaw(t, b.AddScalar(x, 1), tensor.Shape{3}, []float32{2, 3, 4})
	assertRaw(t, b.MulScalar(x, -2), tensor.Shape{3}, []float32{-2, -4, -6})
	assertRaw(t, b.DivScalar(x, 2), tensor.Shape{3}, []float32{0.5, 1, 1.5})
}

func TestUnaryOps(t *testing.T) {
	b := cpu.New()
	x := raw(t, b, []float32{-1, 0, 1}, tensor.Shape{3})

	assertRaw(t, b.ReLU(x), tensor.Shape{3}, []float32{0, 0, 1})

	tanh := b.Tanh(x).AsFloat32()
	if math.Abs(float64(tanh[2])-math.Tanh(1)) > 1e-5 {
		t.Errorf("tanh(1) = %v", tanh[2])
	}

	sig := b.Sigmoid(x).AsFloat32()
	if math.Abs(float64(sig[1])-0.5) > 1e-6 {
		t.Errorf("sigmoid(0) = %v", sig[1])
	}
}
