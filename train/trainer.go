// Copyright 2026 Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package train

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/primer-ml/primer/internal/autodiff"
	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/optim"
	"github.com/primer-ml/primer/internal/tensor"

	"github.com/primer-ml/primer/data"
)

// Trainer drives the standard epoch loop: forward, loss, backward, step,
// logging one structured event per epoch.
type Trainer[B tensor.Backend] struct {
	backend   *autodiff.Backend[B]
	model     nn.Module[*autodiff.Backend[B]]
	criterion *nn.MSELoss[*autodiff.Backend[B]]
	optimizer optim.Optimizer
	logger    zerolog.Logger

	// History holds the mean training loss per epoch, in order.
	History []float64
}

// NewTrainer creates a trainer. The logger may be log.Nop() to silence it.
func NewTrainer[B tensor.Backend](
	backend *autodiff.Backend[B],
	model nn.Module[*autodiff.Backend[B]],
	optimizer optim.Optimizer,
	logger zerolog.Logger,
) *Trainer[B] {
	return &Trainer[B]{
		backend:   backend,
		model:     model,
		criterion: nn.NewMSELoss[*autodiff.Backend[B]](),
		optimizer: optimizer,
		logger:    logger,
	}
}

// Fit trains for the given number of epochs over the loader's batches and
// returns the final epoch's mean loss.
func (t *Trainer[B]) Fit(loader *data.Loader[*autodiff.Backend[B]], epochs int) float64 {
	var epochLoss float64
	for epoch := 1; epoch <= epochs; epoch++ {
		start := time.Now()
		metrics := NewAccumulator(2) // loss sum, batch count

		for _, batch := range loader.Batches() {
			metrics.Add(t.step(batch), 1)
		}

		epochLoss = metrics.Get(0) / metrics.Get(1)
		t.History = append(t.History, epochLoss)

		t.logger.Info().
			Int("epoch", epoch).
			Float64("loss", epochLoss).
			Float32("lr", t.optimizer.GetLR()).
			Dur("elapsed", time.Since(start)).
			Msg("epoch complete")
	}
	return epochLoss
}

// step runs one mini-batch update and returns its loss.
func (t *Trainer[B]) step(batch data.Batch[*autodiff.Backend[B]]) float64 {
	tape := t.backend.Tape()
	tape.Clear()
	tape.StartRecording()
	loss := t.criterion.Forward(t.model.Forward(batch.X), batch.Y)
	tape.StopRecording()

	t.optimizer.Step(t.backend.Backward(loss.Raw()))
	t.optimizer.ZeroGrad()
	return float64(loss.Item())
}
