package train_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primer-ml/primer/data"
	"github.com/primer-ml/primer/internal/autodiff"
	"github.com/primer-ml/primer/internal/backend/cpu"
	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/optim"
	"github.com/primer-ml/primer/internal/tensor"
	"github.com/primer-ml/primer/pkg/log"
	"github.com/primer-ml/primer/train"
)

type Backend = *autodiff.Backend[*cpu.CPUBackend]

func TestAccumulator(t *testing.T) {
	acc := train.NewAccumulator(2)
	acc.Add(1.5, 1)
	acc.Add(2.5, 1)

	assert.Equal(t, 4.0, acc.Get(0))
	assert.Equal(t, 2.0, acc.Get(1))

	acc.Reset()
	assert.Equal(t, 0.0, acc.Get(0))
}

func TestAccuracy(t *testing.T) {
	b := cpu.New()
	logits, err := tensor.NewRaw(tensor.Shape{3, 2}, tensor.Float32, b.Device())
	require.NoError(t, err)
	copy(logits.AsFloat32(), []float32{
		0.9, 0.1, // -> 0
		0.2, 0.8, // -> 1
		0.6, 0.4, // -> 0
	})
	targets, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int64, b.Device())
	require.NoError(t, err)
	copy(targets.AsInt64(), []int64{0, 1, 1})

	assert.InDelta(t, 2.0/3.0, train.Accuracy(logits, targets), 1e-9)
}

func TestTrainerFitsLinearModel(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, y := data.SyntheticLinear([]float32{2, -3.4}, 4.2, 256, 0.01, backend)
	loader := data.NewLoader(x, y, 32, true, backend)

	model := nn.NewLinear(2, 1, backend)
	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.05})
	trainer := train.NewTrainer(backend, model, opt, log.Nop())

	loss := trainer.Fit(loader, 20)

	require.Len(t, trainer.History, 20)
	assert.Less(t, loss, 0.01, "final loss")
	assert.Less(t, trainer.History[19], trainer.History[0], "loss should decrease")

	w := model.Weight().Tensor().Data()
	assert.InDelta(t, 2.0, w[0], 0.1)
	assert.InDelta(t, -3.4, w[1], 0.1)
	assert.InDelta(t, 4.2, model.Bias().Tensor().Data()[0], 0.1)
}

func TestPlotHistoryWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "curves.png")

	err := train.PlotHistory("training", file, map[string][]float64{
		"loss": {1.0, 0.5, 0.25, 0.12},
	})
	require.NoError(t, err)

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
