// Copyright 2026 Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor is the public tensor API of Primer.
//
// It re-exports the core types for type-safe tensor computation:
//   - Tensor[T, B]: a generic tensor bound to a compute backend
//   - RawTensor: untyped storage plus shape metadata
//   - Backend: the compute interface backends implement
//   - Shape, DataType, Device
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor

import (
	"github.com/primer-ml/primer/internal/tensor"
)

// DType is the constraint for tensor element types: float32, float64,
// int64, bool.
type DType = tensor.DType

// Float is the constraint for floating-point element types.
type Float = tensor.Float

// DataType identifies a tensor's runtime element type.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int64   DataType = tensor.Int64
	Bool    DataType = tensor.Bool
)

// Device identifies where tensor data lives.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	WebGPU Device = tensor.WebGPU
)

// Shape holds a tensor's dimensions, e.g. Shape{2, 3} for a 2x3 matrix.
type Shape = tensor.Shape

// Backend is the compute interface. See the cpu package for the reference
// implementation and the autodiff package for the differentiating decorator.
type Backend = tensor.Backend

// Tensor is a generic tensor with element type T on backend B.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// RawTensor is the untyped storage underlying every Tensor.
type RawTensor = tensor.RawTensor

// BroadcastShapes applies NumPy-style broadcasting rules to two shapes.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Randn creates a tensor sampled from the standard normal distribution.
func Randn[T Float, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Randn[T, B](shape, b)
}

// Rand creates a tensor sampled uniformly from [0, 1).
func Rand[T Float, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Rand[T, B](shape, b)
}

// Arange creates a 1D tensor with values start, start+1, ..., end-1.
func Arange[T Float, B Backend](start, end T, b B) *Tensor[T, B] {
	return tensor.Arange[T, B](start, end, b)
}

// Eye creates an n-by-n identity matrix.
func Eye[T Float, B Backend](n int, b B) *Tensor[T, B] {
	return tensor.Eye[T, B](n, b)
}

// FromSlice creates a tensor by copying a Go slice.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// New wraps a RawTensor in a typed Tensor. Low-level; prefer the creation
// functions.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// NewRaw allocates zeroed raw storage. Low-level.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Cat concatenates tensors along a dimension.
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	return tensor.Cat(tensors, dim)
}

// Corr2D computes the 2D cross-correlation of a grid with a kernel: for x of
// shape (H, W) and k of shape (kh, kw) the result has shape
// (H-kh+1, W-kw+1), each element the elementwise product of k with the
// window of x at that offset, summed.
//
// It returns a ShapeError (see pkg/errors) when either operand is not 2D or
// the kernel does not fit inside the input at least once.
//
// Example:
//
//	x, _ := tensor.FromSlice([]float32{0, 1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{3, 3}, backend)
//	k, _ := tensor.FromSlice([]float32{0, 1, 2, 3}, tensor.Shape{2, 2}, backend)
//	y, err := tensor.Corr2D(x, k) // [[19, 25], [37, 43]]
func Corr2D[T Float, B Backend](x, k *Tensor[T, B]) (*Tensor[T, B], error) {
	return tensor.Corr2D(x, k)
}
