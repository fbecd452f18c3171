// Copyright 2026 Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// Wrapping a backend in autodiff.New records every tensor operation on a
// gradient tape while recording is on; Backward then walks the tape in
// reverse to produce the gradient of a loss with respect to every tensor
// that contributed to it.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//
//	backend.Tape().StartRecording()
//	loss := criterion.Forward(model.Forward(input), target)
//	backend.Tape().StopRecording()
//
//	grads := backend.Backward(loss.Raw())
package autodiff

import (
	"github.com/primer-ml/primer/internal/autodiff"
	"github.com/primer-ml/primer/internal/tensor"
)

// Backend decorates an inner backend with gradient taping.
type Backend[B tensor.Backend] = autodiff.Backend[B]

// New wraps a backend with a fresh gradient tape.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records forward operations for reverse-mode differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates an empty, non-recording tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}
