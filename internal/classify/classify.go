// Package classify decides which host container kind a value is, checks that it can
// expose the buffer capability an operation needs, and extracts its element type.
package classify

import (
	"errors"
	"fmt"

	"github.com/born-ml/arrayops/internal/host"
	"github.com/born-ml/arrayops/internal/typecode"
)

// Classification errors.
var (
	ErrUnrecognized = errors.New("unrecognized container")
	ErrIncapable    = errors.New("container cannot expose the required buffer")
)

// InputType identifies one of the supported host container kinds.
type InputType int

// Supported container kinds.
const (
	FixedArray InputType = iota
	NDArray
	MemoryView
)

// String returns the host-facing name of the container kind.
func (k InputType) String() string {
	switch k {
	case FixedArray:
		return "array.array"
	case NDArray:
		return "numpy.ndarray"
	case MemoryView:
		return "memoryview"
	default:
		return "unknown"
	}
}

// Source is the capability set the engine needs from a container.
type Source interface {
	Kind() InputType
	Tag() string
	Len() int
	host.Exporter
}

// Classify determines the container kind of v by exact type, never by capability.
// A nil container pointer is not a container.
func Classify(v host.Value) (InputType, error) {
	switch c := v.(type) {
	case *host.FixedArray:
		if c != nil {
			return FixedArray, nil
		}
	case *host.NDArray:
		if c != nil {
			return NDArray, nil
		}
	case *host.MemoryView:
		if c != nil {
			return MemoryView, nil
		}
	}
	return 0, fmt.Errorf("%w: Expected array.array, numpy.ndarray, or memoryview, got %s",
		ErrUnrecognized, typeName(v))
}

// typeName names v for error messages, reporting nil container pointers as NoneType.
func typeName(v host.Value) string {
	switch c := v.(type) {
	case *host.FixedArray:
		if c == nil {
			return "NoneType"
		}
	case *host.NDArray:
		if c == nil {
			return "NoneType"
		}
	case *host.MemoryView:
		if c == nil {
			return "NoneType"
		}
	}
	return host.TypeName(v)
}

// Validate checks that v, already classified as kind, can expose a buffer, and a
// writable one when mutable is set. It inspects flags only and never exports.
func Validate(v host.Value, kind InputType, mutable bool) error {
	switch kind {
	case FixedArray:
		if a, ok := v.(*host.FixedArray); !ok || a == nil {
			return kindMismatch(v, kind)
		}
		return nil
	case NDArray:
		a, ok := v.(*host.NDArray)
		if !ok || a == nil {
			return kindMismatch(v, kind)
		}
		if a.Ndim() != 1 {
			return fmt.Errorf("%w: numpy.ndarray must be 1-dimensional, got %d dimensions", ErrIncapable, a.Ndim())
		}
		if mutable && !a.Writeable() {
			return fmt.Errorf("%w: numpy.ndarray is read-only", ErrIncapable)
		}
		return nil
	case MemoryView:
		m, ok := v.(*host.MemoryView)
		if !ok || m == nil {
			return kindMismatch(v, kind)
		}
		if m.Released() {
			return fmt.Errorf("%w: %v", ErrIncapable, host.ErrReleased)
		}
		if m.Ndim() != 1 {
			return fmt.Errorf("%w: memoryview must be 1-dimensional, got %d dimensions", ErrIncapable, m.Ndim())
		}
		if mutable && m.Readonly() {
			return fmt.Errorf("%w: memoryview is read-only", ErrIncapable)
		}
		return nil
	default:
		return kindMismatch(v, kind)
	}
}

func kindMismatch(v host.Value, kind InputType) error {
	return fmt.Errorf("%w: %s is not %s", ErrUnrecognized, typeName(v), kind)
}

// ExtractTypeCode reads the declared element tag of v and parses it.
func ExtractTypeCode(v host.Value, kind InputType) (typecode.TypeCode, error) {
	src, err := adapt(v, kind)
	if err != nil {
		return 0, err
	}
	return typecode.ParseString(src.Tag())
}

// Adapt classifies v and wraps it in its Source adapter.
func Adapt(v host.Value) (Source, error) {
	kind, err := Classify(v)
	if err != nil {
		return nil, err
	}
	return adapt(v, kind)
}

func adapt(v host.Value, kind InputType) (Source, error) {
	switch kind {
	case FixedArray:
		if a, ok := v.(*host.FixedArray); ok && a != nil {
			return fixedArraySource{a}, nil
		}
	case NDArray:
		if a, ok := v.(*host.NDArray); ok && a != nil {
			return ndarraySource{a}, nil
		}
	case MemoryView:
		if m, ok := v.(*host.MemoryView); ok && m != nil {
			return memoryViewSource{m}, nil
		}
	}
	return nil, kindMismatch(v, kind)
}

// Len returns the element count of v.
func Len(v host.Value, kind InputType) (int, error) {
	src, err := adapt(v, kind)
	if err != nil {
		return 0, err
	}
	return src.Len(), nil
}
