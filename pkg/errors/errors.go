// Package errors provides the structured error types shared across the
// library. Errors carry stack traces via cockroachdb/errors and marshal
// themselves as structured zerolog fields.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ShapeError reports an operation whose operand shapes make the operation
// undefined, e.g. a cross-correlation kernel that does not fit inside the
// input even once.
type ShapeError struct {
	Op          string // operation name, e.g. "corr2d"
	InputShape  []int
	KernelShape []int
	Message     string
}

func (e *ShapeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("primer: %s: invalid shapes input=%v kernel=%v: %s", e.Op, e.InputShape, e.KernelShape, e.Message)
	}
	return fmt.Sprintf("primer: %s: invalid shapes input=%v kernel=%v", e.Op, e.InputShape, e.KernelShape)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ShapeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Ints("input_shape", e.InputShape).
		Ints("kernel_shape", e.KernelShape).
		Str("type", "ShapeError")
}

// NewShapeError creates a ShapeError with a captured stack trace.
func NewShapeError(op string, inputShape, kernelShape []int, format string, args ...any) error {
	err := &ShapeError{
		Op:          op,
		InputShape:  append([]int(nil), inputShape...),
		KernelShape: append([]int(nil), kernelShape...),
		Message:     fmt.Sprintf(format, args...),
	}
	return errors.WithStack(err)
}

// DimensionError reports an input whose dimension differs from what a model
// or operation expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("primer: %s: dimension mismatch on axis %d: expected %d, got %d", e.Op, e.Axis, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a captured stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// NotFittedError reports Predict being called on an estimator before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("primer: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a captured stack trace.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// IsShapeError reports whether err is (or wraps) a ShapeError.
func IsShapeError(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}

// IsNotFittedError reports whether err is (or wraps) a NotFittedError.
func IsNotFittedError(err error) bool {
	var ne *NotFittedError
	return errors.As(err, &ne)
}

// Wrap annotates err with a message, preserving the original error for
// errors.Is / errors.As checks.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// Newf creates a plain error with a stack trace.
func Newf(format string, args ...any) error {
	return errors.Newf(format, args...)
}
