package nn_test

import (
	"math"
	"testing"

	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/tensor"
)

func TestMSELoss(t *testing.T) {
	backend := newBackend()
	criterion := nn.NewMSELoss[Backend]()

	pred, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	target, _ := tensor.FromSlice([]float32{1, 4, 6}, tensor.Shape{3}, backend)

	loss := criterion.Forward(pred, target)
	// (0 + 4 + 9) / 3
	if !approx(loss.Item(), 13.0/3, 1e-5) {
		t.Errorf("loss = %v, want %v", loss.Item(), 13.0/3)
	}
}

func TestMSELossZeroForPerfectPrediction(t *testing.T) {
	backend := newBackend()
	criterion := nn.NewMSELoss[Backend]()

	pred, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	target, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)

	if loss := criterion.Forward(pred, target).Item(); loss != 0 {
		t.Errorf("loss = %v, want 0", loss)
	}
}

func TestCrossEntropyLoss(t *testing.T) {
	backend := newBackend()
	criterion := nn.NewCrossEntropyLoss[Backend]()

	logits, _ := tensor.FromSlice([]float32{0, 0, 0, 0}, tensor.Shape{2, 2}, backend)
	targets, _ := tensor.FromSlice([]int64{0, 1}, tensor.Shape{2}, backend)

	loss := criterion.Forward(logits, targets)
	if !approx(loss.Item(), float32(math.Log(2)), 1e-5) {
		t.Errorf("loss = %v, want ln(2)", loss.Item())
	}
}

func TestSelfAttentionShape(t *testing.T) {
	backend := newBackend()
	attn := nn.NewSelfAttention(8, backend)

	out := attn.Forward(tensor.Randn[float32](tensor.Shape{5, 8}, backend))
	if !out.Shape().Equal(tensor.Shape{5, 8}) {
		t.Fatalf("output shape: %v", out.Shape())
	}
	// 3 bias-free projections + output projection with bias
	if n := len(attn.Parameters()); n != 5 {
		t.Errorf("Parameters() returned %d, want 5", n)
	}
}

func TestPatchEmbeddingShape(t *testing.T) {
	backend := newBackend()
	patch := nn.NewPatchEmbedding(3, 16, 4, backend)

	out := patch.Forward(tensor.Randn[float32](tensor.Shape{2, 3, 8, 8}, backend))
	// 8x8 image, patch 4 -> 4 patches per image
	if !out.Shape().Equal(tensor.Shape{2, 4, 16}) {
		t.Fatalf("output shape: %v, want [2 4 16]", out.Shape())
	}
}

func TestTransformerBlockShape(t *testing.T) {
	backend := newBackend()
	block := nn.NewTransformerBlock(8, 16, backend)

	out := block.Forward(tensor.Randn[float32](tensor.Shape{4, 8}, backend))
	if !out.Shape().Equal(tensor.Shape{4, 8}) {
		t.Fatalf("output shape: %v", out.Shape())
	}
}
