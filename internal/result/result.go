// Package result allocates new host containers for operations that materialize
// their output instead of mutating the source.
package result

import (
	"errors"
	"fmt"

	"github.com/born-ml/arrayops/internal/classify"
	"github.com/born-ml/arrayops/internal/convert"
	"github.com/born-ml/arrayops/internal/host"
	"github.com/born-ml/arrayops/internal/typecode"
	"github.com/born-ml/arrayops/internal/view"
)

// ErrElementConversion is returned when a produced value does not fit the target type.
var ErrElementConversion = errors.New("element conversion error")

// BuildEmpty allocates an empty container of the given kind and element type.
func BuildEmpty(tc typecode.TypeCode, kind classify.InputType) (host.Value, error) {
	return allocate(tc.Char(), kind, 0)
}

// BuildFromValues converts values to T and stores them in a new container of kind.
func BuildFromValues[T typecode.Element](kind classify.InputType, values []host.Value) (host.Value, error) {
	native := make([]T, len(values))
	for i, v := range values {
		x, err := convert.ToNative[T](v)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrElementConversion, i, err)
		}
		native[i] = x
	}
	return BuildFromNative(kind, native)
}

// BuildFromNative copies values into a new container of kind.
func BuildFromNative[T typecode.Element](kind classify.InputType, values []T) (host.Value, error) {
	obj, err := allocate(typecode.Of[T]().Char(), kind, len(values))
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return obj, nil
	}

	out, err := view.Write[T](obj)
	if err != nil {
		return nil, err
	}
	copy(out.Elements(), values)
	out.Release()
	return obj, nil
}

// allocate creates a zero-filled container independent of any source.
// MemoryView results are views over a fresh FixedArray.
func allocate(tag byte, kind classify.InputType, n int) (host.Exporter, error) {
	switch kind {
	case classify.FixedArray:
		return host.NewFixedArrayLen(tag, n)
	case classify.NDArray:
		return host.NewNDArrayLen(tag, n)
	case classify.MemoryView:
		arr, err := host.NewFixedArrayLen(tag, n)
		if err != nil {
			return nil, err
		}
		return host.NewMemoryView(arr)
	default:
		return nil, fmt.Errorf("result: unknown container kind %d", int(kind))
	}
}
