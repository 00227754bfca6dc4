package engine

import (
	"errors"
	"fmt"

	"github.com/born-ml/arrayops/internal/classify"
	"github.com/born-ml/arrayops/internal/convert"
	"github.com/born-ml/arrayops/internal/result"
	"github.com/born-ml/arrayops/internal/typecode"
	"github.com/born-ml/arrayops/internal/view"
)

// Error kinds. Every failure returned by the engine matches exactly one of these
// through errors.Is, except errors raised by caller-supplied callables, which are
// returned unchanged.
var (
	ErrUnsupportedTypeCode        = typecode.ErrUnsupported
	ErrUnrecognizedContainer      = classify.ErrUnrecognized
	ErrIncapableBuffer            = classify.ErrIncapable
	ErrBufferUnavailable          = view.ErrUnavailable
	ErrElementConversion          = result.ErrElementConversion
	ErrPredicateNotBool           = convert.ErrNotBool
	ErrCallableReturnTypeMismatch = errors.New("callable return type mismatch")
	ErrEmptyReduceNoInitial       = errors.New("reduce() of empty array with no initial value")
	ErrMissingCallable            = errors.New("callable is required")
	ErrUnknownOperation           = errors.New("unknown operation")
)

// OpError records the operation that failed and why.
type OpError struct {
	Op  string // Operation name, e.g. "sum"
	Err error  // Classified cause
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the classified cause.
func (e *OpError) Unwrap() error {
	return e.Err
}

// callbackError marks a failure raised inside a caller-supplied callable.
type callbackError struct {
	err error
}

func (e callbackError) Error() string {
	return e.err.Error()
}

// fail wraps err for the caller. Callback failures pass through untouched.
func fail(op string, err error) error {
	var cbErr callbackError
	if errors.As(err, &cbErr) {
		return cbErr.err
	}
	return &OpError{Op: op, Err: err}
}
