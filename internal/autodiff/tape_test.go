package autodiff_test

import (
	"math"
	"testing"

	"github.com/primer-ml/primer/internal/autodiff"
	"github.com/primer-ml/primer/internal/backend/cpu"
	"github.com/primer-ml/primer/internal/tensor"
)

func newBackend() *autodiff.Backend[*cpu.CPUBackend] {
	return autodiff.New(cpu.New())
}

func raw(t *testing.T, b tensor.Backend, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float32, b.Device())
	if err != nil {
		t.Fatalf("NewRaw(%v): %v", shape, err)
	}
	copy(r.AsFloat32(), data)
	return r
}

func assertFloats(t *testing.T, got *tensor.RawTensor, want []float32) {
	t.Helper()
	if got == nil {
		t.Fatal("gradient is nil")
	}
	data := got.AsFloat32()
	if len(data) != len(want) {
		t.Fatalf("got %d elements, want %d", len(data), len(want))
	}
	for i := range want {
		if math.Abs(float64(data[i]-want[i])) > 1e-5 {
			t.Errorf("element %d: got %v, want %v", i, data[i], want[i])
		}
	}
}

func TestAddBackward(t *testing.T) {
	b := newBackend()
	x := raw(t, b, []float32{1, 2, 3}, tensor.Shape{3})
	y := raw(t, b, []float32{4, 5, 6}, tensor.Shape{3})

	b.Tape().StartRecording()
	z := b.Add(x, y)
	b.Tape().StopRecording()

	grads := b.Backward(z)
	assertFloats(t, grads[x], []float32{1, 1, 1})
	assertFloats(t, grads[y], []float32{1, 1, 1})
}

func TestMulBackward(t *testing.T) {
	b := newBackend()
	x := raw(t, b, []float32{1, 2, 3}, tensor.Shape{3})
	y := raw(t, b, []float32{4, 5, 6}, tensor.Shape{3})

	b.Tape().StartRecording()
	z := b.Mul(x, y)
	b.Tape().StopRecording()

	grads := b.Backward(z)
	assertFloats(t, grads[x], []float32{4, 5, 6})
	assertFloats(t, grads[y], []float32{1, 2, 3})
}

func TestSquareAccumulatesBothPaths(t *testing.T) {
	b := newBackend()
	x := raw(t, b, []float32{2, 3}, tensor.Shape{2})

	b.Tape().StartRecording()
	z := b.Mul(x, x)
	b.Tape().StopRecording()

	// d(x*x)/dx = 2x: gradients from both operand slots accumulate.
	grads := b.Backward(z)
	assertFloats(t, grads[x], []float32{4, 6})
}

func TestBroadcastAddBackward(t *testing.T) {
	b := newBackend()
	x := raw(t, b, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := raw(t, b, []float32{10, 20, 30}, tensor.Shape{3})

	b.Tape().StartRecording()
	z := b.Add(x, bias)
	b.Tape().StopRecording()

	grads := b.Backward(z)
	assertFloats(t, grads[x], []float32{1, 1, 1, 1, 1, 1})
	// The bias gradient sums over the broadcast batch dimension.
	assertFloats(t, grads[bias], []float32{2, 2, 2})
}

func TestMatMulBackward(t *testing.T) {
	b := newBackend()
	a := raw(t, b, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	w := raw(t, b, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	b.Tape().StartRecording()
	z := b.MatMul(a, w)
	b.Tape().StopRecording()

	grads := b.Backward(z)
	// dL/da = ones @ w^T, dL/dw = a^T @ ones.
	assertFloats(t, grads[a], []float32{11, 15, 11, 15})
	assertFloats(t, grads[w], []float32{4, 4, 6, 6})
}

func TestCorr2DBackward(t *testing.T) {
	b := newBackend()
	x := raw(t, b, []float32{1, 1, 1, 1, 1, 1, 1, 1, 1}, tensor.Shape{3, 3})
	k := raw(t, b, []float32{1, 1, 1, 1}, tensor.Shape{2, 2})

	b.Tape().StartRecording()
	y := b.Corr2D(x, k)
	b.Tape().StopRecording()

	grads := b.Backward(y)
	// Each kernel element sees all four windows of ones.
	assertFloats(t, grads[k], []float32{4, 4, 4, 4})
	// Each input cell receives one unit per window that covers it.
	assertFloats(t, grads[x], []float32{1, 2, 1, 2, 4, 2, 1, 2, 1})
}

func TestReLUBackward(t *testing.T) {
	b := newBackend()
	x := raw(t, b, []float32{-2, -1, 0, 1, 2}, tensor.Shape{5})

	b.Tape().StartRecording()
	y := b.ReLU(x)
	b.Tape().StopRecording()

	grads := b.Backward(y)
	assertFloats(t, grads[x], []float32{0, 0, 0, 1, 1})
}

func TestMeanBackward(t *testing.T) {
	b := newBackend()
	x := raw(t, b, []float32{1, 2, 3, 4}, tensor.Shape{4})

	b.Tape().StartRecording()
	y := b.Mean(x)
	b.Tape().StopRecording()

	grads := b.Backward(y)
	assertFloats(t, grads[x], []float32{0.25, 0.25, 0.25, 0.25})
}

func TestCrossEntropyBackward(t *testing.T) {
	b := newBackend()
	logits := raw(t, b, []float32{2, 0, 0, 2}, tensor.Shape{2, 2})
	targets, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int64, b.Device())
	if err != nil {
		t.Fatal(err)
	}
	copy(targets.AsInt64(), []int64{0, 1})

	b.Tape().StartRecording()
	loss := b.CrossEntropy(logits, targets)
	b.Tape().StopRecording()

	grads := b.Backward(loss)
	if grads[targets] != nil {
		t.Error("integer targets must not receive a gradient")
	}

	// dL/dlogits = (softmax - onehot) / N, with p = sigmoid(2) per row.
	p := float32(1 / (1 + math.Exp(-2)))
	want := []float32{(p - 1) / 2, (1 - p) / 2, (1 - p) / 2, (p - 1) / 2}
	assertFloats(t, grads[logits], want)
}

func TestNotRecordingSkipsTape(t *testing.T) {
	b := newBackend()
	x := raw(t, b, []float32{1, 2}, tensor.Shape{2})
	y := raw(t, b, []float32{3, 4}, tensor.Shape{2})

	z := b.Add(x, y)

	if n := b.Tape().NumOperations(); n != 0 {
		t.Fatalf("tape recorded %d operations while stopped", n)
	}
	grads := b.Backward(z)
	if grads[x] != nil {
		t.Error("no gradient should flow without a recorded tape")
	}
}

func TestTapeClear(t *testing.T) {
	b := newBackend()
	x := raw(t, b, []float32{1, 2}, tensor.Shape{2})

	b.Tape().StartRecording()
	b.Add(x, x)
	b.Tape().StopRecording()
	b.Tape().Clear()

	if n := b.Tape().NumOperations(); n != 0 {
		t.Fatalf("tape holds %d operations after Clear", n)
	}
}

func TestChainedOpsBackward(t *testing.T) {
	b := newBackend()
	x := raw(t, b, []float32{1, 2, 3}, tensor.Shape{3})

	b.Tape().StartRecording()
	y := b.MulScalar(x, 3) // 3x
	z := b.Sum(y)          // Σ 3x
	b.Tape().StopRecording()

	grads := b.Backward(z)
	assertFloats(t, grads[x], []float32{3, 3, 3})
}
