// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package arrayops

import "github.com/born-ml/arrayops/internal/engine"

// Error kinds. Test with errors.Is.
var (
	ErrUnsupportedTypeCode        = engine.ErrUnsupportedTypeCode
	ErrUnrecognizedContainer      = engine.ErrUnrecognizedContainer
	ErrIncapableBuffer            = engine.ErrIncapableBuffer
	ErrBufferUnavailable          = engine.ErrBufferUnavailable
	ErrElementConversion          = engine.ErrElementConversion
	ErrCallableReturnTypeMismatch = engine.ErrCallableReturnTypeMismatch
	ErrPredicateNotBool           = engine.ErrPredicateNotBool
	ErrEmptyReduceNoInitial       = engine.ErrEmptyReduceNoInitial
	ErrMissingCallable            = engine.ErrMissingCallable
	ErrUnknownOperation           = engine.ErrUnknownOperation
)

// OpError records the failed operation and the classified cause.
type OpError = engine.OpError
