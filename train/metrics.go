// Copyright 2026 Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train provides the training loop utilities used by the examples:
// metric accumulation, an epoch-driven trainer with structured logging, and
// training-curve plotting.
package train

import "github.com/primer-ml/primer/internal/tensor"

// Accumulator sums n named metrics over an epoch.
type Accumulator struct {
	sums []float64
}

// NewAccumulator creates an accumulator for n metrics.
func NewAccumulator(n int) *Accumulator {
	return &Accumulator{sums: make([]float64, n)}
}

// Add accumulates one value per metric.
func (a *Accumulator) Add(values ...float64) {
	for i, v := range values {
		a.sums[i] += v
	}
}

// Get returns the accumulated sum of metric i.
func (a *Accumulator) Get(i int) float64 { return a.sums[i] }

// Reset zeroes all sums.
func (a *Accumulator) Reset() {
	for i := range a.sums {
		a.sums[i] = 0
	}
}

// Accuracy counts how many rows of logits [N, C] have their maximum at the
// labeled class, returning the fraction correct.
func Accuracy(logits *tensor.RawTensor, targets *tensor.RawTensor) float64 {
	shape := logits.Shape()
	n, classes := shape[0], shape[1]
	data := logits.AsFloat32()
	labels := targets.AsInt64()

	correct := 0
	for i := 0; i < n; i++ {
		row := data[i*classes : (i+1)*classes]
		best := 0
		for c := 1; c < classes; c++ {
			if row[c] > row[best] {
				best = c
			}
		}
		if int64(best) == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(n)
}
