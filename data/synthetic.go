// Copyright 2026 Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides the small datasets the book's examples train on:
// synthetic regression problems, a mini-batch iterator, and tokenized text
// sequences for language modeling.
package data

import (
	"math/rand"

	"github.com/primer-ml/primer/internal/tensor"
)

// SyntheticLinear generates n noisy samples of y = x @ w + b with x drawn
// from N(0, 1) and noise N(0, noiseStd).
//
// Returns features of shape [n, len(w)] and targets of shape [n, 1].
func SyntheticLinear[B tensor.Backend](w []float32, b float32, n int, noiseStd float64, backend B) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	d := len(w)
	x := tensor.Randn[float32](tensor.Shape{n, d}, backend)
	y := tensor.Zeros[float32](tensor.Shape{n, 1}, backend)

	xData, yData := x.Data(), y.Data()
	for i := 0; i < n; i++ {
		var v float32
		for j := 0; j < d; j++ {
			v += xData[i*d+j] * w[j]
		}
		//nolint:gosec // math/rand for data synthesis, not security
		yData[i] = v + b + float32(rand.NormFloat64()*noiseStd)
	}
	return x, y
}
