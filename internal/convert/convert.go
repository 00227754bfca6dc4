// Package convert marshals values between the host and native element types.
package convert

import (
	"errors"
	"fmt"

	"github.com/born-ml/arrayops/internal/host"
	"github.com/born-ml/arrayops/internal/typecode"
)

// Conversion errors.
var (
	ErrConversion = errors.New("cannot convert value")
	ErrNotBool    = errors.New("expected bool")
)

// Error describes a failed host-to-native conversion.
type Error struct {
	Value  host.Value
	Target typecode.TypeCode
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("cannot convert %s value %v to %s: %v",
		host.TypeName(e.Value), e.Value, e.Target, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches ErrConversion.
func (e *Error) Is(target error) bool {
	return target == ErrConversion
}

// ToNative converts a host value to T.
// Integers must fit T exactly; floats are accepted only for floating-point T.
func ToNative[T typecode.Element](v host.Value) (T, error) {
	tc := typecode.Of[T]()
	switch tc {
	case typecode.Float32, typecode.Float64:
		f, err := host.Float64Of(v)
		if err != nil {
			return 0, &Error{Value: v, Target: tc, Err: err}
		}
		return T(f), nil
	case typecode.Int8, typecode.Int16, typecode.Int32, typecode.Int64:
		i, err := host.Int64Of(v)
		if err != nil {
			return 0, &Error{Value: v, Target: tc, Err: err}
		}
		if int64(T(i)) != i {
			return 0, &Error{Value: v, Target: tc, Err: host.ErrOverflow}
		}
		return T(i), nil
	default:
		u, err := host.Uint64Of(v)
		if err != nil {
			return 0, &Error{Value: v, Target: tc, Err: err}
		}
		if uint64(T(u)) != u {
			return 0, &Error{Value: v, Target: tc, Err: host.ErrOverflow}
		}
		return T(u), nil
	}
}

// FromNative converts x to its canonical host value.
func FromNative[T typecode.Element](x T) host.Value {
	switch typecode.Of[T]() {
	case typecode.Float32, typecode.Float64:
		return host.Float(float64(x))
	case typecode.Int8, typecode.Int16, typecode.Int32, typecode.Int64:
		return host.Int(int64(x))
	default:
		return host.Uint(uint64(x))
	}
}

// Bool extracts a predicate result. Only host booleans are accepted.
func Bool(v host.Value) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w, got %s", ErrNotBool, host.TypeName(v))
	}
	return b, nil
}
