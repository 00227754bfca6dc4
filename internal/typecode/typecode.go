// Package typecode provides the closed set of numeric element types the engine
// operates on and their single-character host tags.
package typecode

import (
	"errors"
	"fmt"
)

// Element is a constraint for supported buffer element types.
// It uses Go generics to bind algorithms to a concrete element type at compile time.
type Element interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Integer is the integral subset of Element.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// TypeCode represents runtime type information for buffer elements.
type TypeCode int

// Supported element types.
const (
	Int8 TypeCode = iota
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
)

// Supported is the tag alphabet in the order it is reported to callers.
const Supported = "b, B, h, H, i, I, l, L, f, d"

// ErrUnsupported is returned (wrapped in *TagError) for tags outside the alphabet.
var ErrUnsupported = errors.New("unsupported typecode")

// TagError reports a host element tag that has no TypeCode.
type TagError struct {
	Tag string
}

// Error implements the error interface.
func (e *TagError) Error() string {
	return fmt.Sprintf("Unsupported typecode: '%s'. Supported: %s", e.Tag, Supported)
}

// Unwrap returns ErrUnsupported.
func (e *TagError) Unwrap() error {
	return ErrUnsupported
}

// All returns every TypeCode in declaration order.
func All() []TypeCode {
	return []TypeCode{Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64, Float32, Float64}
}

// Parse maps a host element tag to its TypeCode.
func Parse(tag byte) (TypeCode, error) {
	switch tag {
	case 'b':
		return Int8, nil
	case 'h':
		return Int16, nil
	case 'i':
		return Int32, nil
	case 'l':
		return Int64, nil
	case 'B':
		return UInt8, nil
	case 'H':
		return UInt16, nil
	case 'I':
		return UInt32, nil
	case 'L':
		return UInt64, nil
	case 'f':
		return Float32, nil
	case 'd':
		return Float64, nil
	default:
		return 0, &TagError{Tag: string(rune(tag))}
	}
}

// ParseString parses a tag given as a string. Only single-character tags are valid.
func ParseString(tag string) (TypeCode, error) {
	if len(tag) != 1 {
		return 0, &TagError{Tag: tag}
	}
	return Parse(tag[0])
}

// Char returns the host tag of the type code. It is the inverse of Parse.
func (tc TypeCode) Char() byte {
	switch tc {
	case Int8:
		return 'b'
	case Int16:
		return 'h'
	case Int32:
		return 'i'
	case Int64:
		return 'l'
	case UInt8:
		return 'B'
	case UInt16:
		return 'H'
	case UInt32:
		return 'I'
	case UInt64:
		return 'L'
	case Float32:
		return 'f'
	case Float64:
		return 'd'
	default:
		panic(fmt.Sprintf("typecode: unknown type code %d", int(tc)))
	}
}

// Size returns the byte size of one element.
func (tc TypeCode) Size() int {
	switch tc {
	case Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Int64, UInt64, Float64:
		return 8
	default:
		panic("unknown type code")
	}
}

// IsFloat reports whether elements are floating point.
func (tc TypeCode) IsFloat() bool {
	return tc == Float32 || tc == Float64
}

// String returns a human-readable name for the type code.
func (tc TypeCode) String() string {
	switch tc {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case UInt8:
		return "uint8"
	case UInt16:
		return "uint16"
	case UInt32:
		return "uint32"
	case UInt64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// Of infers the TypeCode of the type parameter T.
func Of[T Element]() TypeCode {
	var zero T
	switch any(zero).(type) {
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return UInt8
	case uint16:
		return UInt16
	case uint32:
		return UInt32
	case uint64:
		return UInt64
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic(fmt.Sprintf("typecode: unsupported element type %T", zero))
	}
}
