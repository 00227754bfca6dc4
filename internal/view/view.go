// Package view acquires zero-copy, element-typed views over host buffer exports.
package view

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/born-ml/arrayops/internal/host"
	"github.com/born-ml/arrayops/internal/typecode"
)

// ErrUnavailable is returned when the host cannot currently produce a view.
var ErrUnavailable = errors.New("buffer unavailable")

// Mode selects read-only or mutable access.
type Mode int

// View modes.
const (
	ReadOnly Mode = iota
	Mutable
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	if m == Mutable {
		return "mutable"
	}
	return "read-only"
}

// TypedView is a borrowed window of T elements over host memory.
// The host container owns the memory and must outlive the view.
type TypedView[T typecode.Element] struct {
	data []T
	exp  *host.Export
	mode Mode
}

// Read acquires a read-only view. Many read-only views may be live at once.
func Read[T typecode.Element](src host.Exporter) (*TypedView[T], error) {
	return acquire[T](src, ReadOnly)
}

// Write acquires a mutable view. It excludes every other view of the same memory.
func Write[T typecode.Element](src host.Exporter) (*TypedView[T], error) {
	return acquire[T](src, Mutable)
}

func acquire[T typecode.Element](src host.Exporter, mode Mode) (*TypedView[T], error) {
	exp, err := src.Export(mode == Mutable)
	if err != nil {
		return nil, fmt.Errorf("%w: %s view: %w", ErrUnavailable, mode, err)
	}

	want := typecode.Of[T]()
	got, err := typecode.ParseString(exp.Format)
	if err != nil || got != want || exp.ItemSize != want.Size() {
		exp.Release()
		panic(fmt.Sprintf("view: buffer format %q does not hold %s elements", exp.Format, want))
	}

	var data []T
	if exp.Len > 0 {
		//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by Export.Len
		data = unsafe.Slice((*T)(unsafe.Pointer(&exp.Data[0])), exp.Len)
	}
	return &TypedView[T]{data: data, exp: exp, mode: mode}, nil
}

// Len returns the number of elements.
func (v *TypedView[T]) Len() int {
	return len(v.data)
}

// Mode returns the access mode.
func (v *TypedView[T]) Mode() Mode {
	return v.mode
}

// At returns element i.
func (v *TypedView[T]) At(i int) T {
	return v.data[i]
}

// Set stores x at element i. Panics on a read-only view.
func (v *TypedView[T]) Set(i int, x T) {
	if v.mode != Mutable {
		panic("view: Set on read-only view")
	}
	v.data[i] = x
}

// Elements returns the underlying elements without copying.
// Callers holding a read-only view must not write through the slice.
func (v *TypedView[T]) Elements() []T {
	return v.data
}

// Copy returns an independently owned copy of the elements.
func (v *TypedView[T]) Copy() []T {
	return append([]T(nil), v.data...)
}

// Release returns the view to the host. The view must not be used afterwards.
func (v *TypedView[T]) Release() {
	v.data = nil
	v.exp.Release()
}
