// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package host provides the buffer containers and callable adapters accepted
// by arrayops operations.
//
// Example:
//
//	arr := host.MustFixedArray('d', 1.5, 2.5, 3.5)
//	nd := host.MustNDArray('i', 1, 2, 3)
//	view := host.MustMemoryView(arr).ToReadOnly()
//
//	double := host.Unary(func(v host.Value) host.Value { return v.(float64) * 2 })
package host

import (
	"github.com/born-ml/arrayops/internal/host"
)

// Type aliases for public API

// Value is a dynamic host value.
type Value = host.Value

// Callable is caller-supplied logic. An error returned by Call is passed back
// to the caller of the operation unchanged.
type Callable = host.Callable

// Func adapts an ordinary function to Callable.
type Func = host.Func

// List is a plain sequence. It is not a buffer container.
type List = host.List

// FixedArray is a growable, contiguous typed array.
type FixedArray = host.FixedArray

// NDArray is an n-dimensional typed array with a writeable flag.
// Operations accept 1-dimensional arrays only.
type NDArray = host.NDArray

// MemoryView is a view over a FixedArray or NDArray.
type MemoryView = host.MemoryView

// Exporter is implemented by values that can expose their memory.
type Exporter = host.Exporter

// Export is a live buffer export. It must be released.
type Export = host.Export

// Buffer export errors.
var (
	ErrExportConflict = host.ErrExportConflict
	ErrBufferExported = host.ErrBufferExported
	ErrReadOnly       = host.ErrReadOnly
	ErrReleased       = host.ErrReleased
	ErrBadTag         = host.ErrBadTag
)

// NewFixedArray creates an array of element tag holding values.
// Tags: b B h H i I l L q Q f d u.
func NewFixedArray(tag byte, values ...Value) (*FixedArray, error) {
	return host.NewFixedArray(tag, values...)
}

// NewFixedArrayLen creates a zeroed array of n elements.
func NewFixedArrayLen(tag byte, n int) (*FixedArray, error) {
	return host.NewFixedArrayLen(tag, n)
}

// MustFixedArray is like NewFixedArray but panics on error.
func MustFixedArray(tag byte, values ...Value) *FixedArray {
	return host.MustFixedArray(tag, values...)
}

// NewNDArray creates a 1-dimensional array of dtype holding values.
// Dtypes: ? b B h H i I l L q Q f d.
func NewNDArray(dtype byte, values ...Value) (*NDArray, error) {
	return host.NewNDArray(dtype, values...)
}

// MustNDArray is like NewNDArray but panics on error.
func MustNDArray(dtype byte, values ...Value) *NDArray {
	return host.MustNDArray(dtype, values...)
}

// NewMemoryView creates a writable view over obj, unless obj is read-only.
func NewMemoryView(obj Value) (*MemoryView, error) {
	return host.NewMemoryView(obj)
}

// MustMemoryView is like NewMemoryView but panics on error.
func MustMemoryView(obj Value) *MemoryView {
	return host.MustMemoryView(obj)
}

// Unary adapts a one-argument function that cannot fail.
func Unary(f func(Value) Value) Callable {
	return host.Unary(f)
}

// Binary adapts a two-argument function that cannot fail.
func Binary(f func(a, b Value) Value) Callable {
	return host.Binary(f)
}
