package host

import (
	"errors"
	"fmt"
	"math"
)

// Value is a dynamic host value.
type Value = any

// Scalar conversion errors.
var (
	ErrNotInteger = errors.New("integer argument expected")
	ErrNotNumber  = errors.New("must be real number")
	ErrOverflow   = errors.New("integer out of range")
)

// Callable is an opaque unit of host logic. An error returned by Call is the
// callee's own failure and must be propagated as is.
type Callable interface {
	Call(args ...Value) (Value, error)
}

// Func adapts an ordinary function to the Callable interface.
type Func func(args ...Value) (Value, error)

// Call implements Callable.
func (f Func) Call(args ...Value) (Value, error) {
	return f(args...)
}

// Unary adapts a one-argument function that cannot fail.
func Unary(f func(Value) Value) Callable {
	return Func(func(args ...Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		return f(args[0]), nil
	})
}

// Binary adapts a two-argument function that cannot fail.
func Binary(f func(a, b Value) Value) Callable {
	return Func(func(args ...Value) (Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected 2 arguments, got %d", len(args))
		}
		return f(args[0], args[1]), nil
	})
}

// List is a plain indexable host sequence. It does not export a buffer.
type List []Value

// Int returns the canonical host integer for i.
func Int(i int64) Value {
	return i
}

// Uint returns the canonical host integer for u.
func Uint(u uint64) Value {
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return u
}

// Float returns the canonical host float for f.
func Float(f float64) Value {
	return f
}

// TypeName returns the host-facing type name of v.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "int"
	case float32, float64:
		return "float"
	case string:
		return "str"
	case List:
		return "list"
	case *FixedArray:
		return "array.array"
	case *NDArray:
		return "numpy.ndarray"
	case *MemoryView:
		return "memoryview"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// IsInteger reports whether v is a host integer. Booleans count as integers.
func IsInteger(v Value) bool {
	switch v.(type) {
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

// Int64Of extracts v as an int64.
func Int64Of(v Value) (int64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return uintToInt64(uint64(x))
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return uintToInt64(x)
	default:
		return 0, fmt.Errorf("%w, got %s", ErrNotInteger, TypeName(v))
	}
}

func uintToInt64(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d", ErrOverflow, u)
	}
	return int64(u), nil
}

// Uint64Of extracts v as a uint64. Negative integers overflow.
func Uint64Of(v Value) (uint64, error) {
	switch x := v.(type) {
	case uint:
		return uint64(x), nil
	case uint64:
		return x, nil
	}
	i, err := Int64Of(v)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrOverflow, i)
	}
	return uint64(i), nil
}

// Float64Of extracts v as a float64. Integers are converted.
func Float64Of(v Value) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}
	if !IsInteger(v) {
		return 0, fmt.Errorf("%w, not %s", ErrNotNumber, TypeName(v))
	}
	i, err := Int64Of(v)
	if err != nil {
		return 0, err
	}
	return float64(i), nil
}
