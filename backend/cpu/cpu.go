// Copyright 2026 Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure-Go reference backend.
//
// All operations are written as straightforward loops so they can be read
// alongside their mathematical definitions. Wrap the backend with
// autodiff.New to train models on it.
package cpu

import (
	internalcpu "github.com/primer-ml/primer/internal/backend/cpu"
	"github.com/primer-ml/primer/tensor"
)

// Backend is the CPU compute backend.
type Backend = internalcpu.CPUBackend

var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func New() *Backend {
	return internalcpu.New()
}
