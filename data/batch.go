// Copyright 2026 Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data

import (
	"math/rand"

	"github.com/primer-ml/primer/internal/tensor"
)

// Batch is one mini-batch of features and targets.
type Batch[B tensor.Backend] struct {
	X *tensor.Tensor[float32, B]
	Y *tensor.Tensor[float32, B]
}

// Loader iterates a dataset in mini-batches, reshuffling sample order on
// every epoch.
type Loader[B tensor.Backend] struct {
	x, y      *tensor.Tensor[float32, B]
	batchSize int
	shuffle   bool
	backend   B
}

// NewLoader creates a loader over features x [n, d] and targets y [n, k].
func NewLoader[B tensor.Backend](x, y *tensor.Tensor[float32, B], batchSize int, shuffle bool, backend B) *Loader[B] {
	if x.Shape()[0] != y.Shape()[0] {
		panic("data: features and targets disagree on sample count")
	}
	return &Loader[B]{x: x, y: y, batchSize: batchSize, shuffle: shuffle, backend: backend}
}

// NumBatches reports how many batches one epoch yields. A trailing partial
// batch counts.
func (l *Loader[B]) NumBatches() int {
	n := l.x.Shape()[0]
	return (n + l.batchSize - 1) / l.batchSize
}

// Batches materializes one epoch of mini-batches.
func (l *Loader[B]) Batches() []Batch[B] {
	n := l.x.Shape()[0]
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if l.shuffle {
		//nolint:gosec // math/rand for batch shuffling, not security
		rand.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	xDim := l.x.NumElements() / n
	yDim := l.y.NumElements() / n
	xData, yData := l.x.Data(), l.y.Data()

	batches := make([]Batch[B], 0, l.NumBatches())
	for start := 0; start < n; start += l.batchSize {
		end := min(start+l.batchSize, n)
		size := end - start

		bx := tensor.Zeros[float32](batchShape(l.x.Shape(), size), l.backend)
		by := tensor.Zeros[float32](batchShape(l.y.Shape(), size), l.backend)
		bxData, byData := bx.Data(), by.Data()
		for i, idx := range order[start:end] {
			copy(bxData[i*xDim:(i+1)*xDim], xData[idx*xDim:(idx+1)*xDim])
			copy(byData[i*yDim:(i+1)*yDim], yData[idx*yDim:(idx+1)*yDim])
		}
		batches = append(batches, Batch[B]{X: bx, Y: by})
	}
	return batches
}

func batchShape(full tensor.Shape, size int) tensor.Shape {
	shape := full.Clone()
	shape[0] = size
	return shape
}
