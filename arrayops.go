// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package arrayops

import (
	"log/slog"

	"github.com/born-ml/arrayops/internal/engine"
	"github.com/born-ml/arrayops/internal/host"
	"github.com/born-ml/arrayops/internal/parallel"
	"github.com/born-ml/arrayops/internal/typecode"
)

// Type aliases for public API

// Value is a dynamic host value: int64, uint64, float64, bool, a container or
// any other Go value.
type Value = host.Value

// Callable is caller-supplied logic invoked by Map, MapInPlace, Filter and Reduce.
type Callable = host.Callable

// TypeCode identifies a supported element type.
type TypeCode = typecode.TypeCode

// Type code constants.
const (
	Int8    TypeCode = typecode.Int8
	Int16   TypeCode = typecode.Int16
	Int32   TypeCode = typecode.Int32
	Int64   TypeCode = typecode.Int64
	UInt8   TypeCode = typecode.UInt8
	UInt16  TypeCode = typecode.UInt16
	UInt32  TypeCode = typecode.UInt32
	UInt64  TypeCode = typecode.UInt64
	Float32 TypeCode = typecode.Float32
	Float64 TypeCode = typecode.Float64
)

// ParseTypeCode resolves a single-character tag such as 'i' or 'd'.
func ParseTypeCode(tag byte) (TypeCode, error) {
	return typecode.Parse(tag)
}

// Engine executes operations with a fixed configuration.
// It is safe for concurrent use on distinct containers.
type Engine = engine.Engine

// Option configures an Engine.
type Option = engine.Option

// ParallelConfig controls the partitioned sum.
type ParallelConfig = parallel.Config

// New creates an Engine.
//
// Example:
//
//	e := arrayops.New(arrayops.WithLogger(slog.Default()))
//	total, err := e.Sum(arr)
func New(opts ...Option) *Engine {
	return engine.New(opts...)
}

// WithLogger sets the logger receiving dispatch records at debug level.
func WithLogger(l *slog.Logger) Option {
	return engine.WithLogger(l)
}

// WithParallelSum enables the partitioned sum for buffers of at least
// 2*cfg.MinChunkSize elements. Float results may differ from the sequential
// sum by rounding.
func WithParallelSum(cfg ParallelConfig) Option {
	return engine.WithParallelSum(cfg)
}

// DefaultParallelConfig returns worker settings sized to the machine.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// Operations lists the operation names accepted by Engine.Do.
func Operations() []string {
	return engine.Operations()
}

var std = engine.New()

// Sum returns the sum of all elements of target: int64 (or uint64 above
// math.MaxInt64) for integer element types, float64 for float types.
// The sum of an empty container is zero.
func Sum(target Value) (Value, error) {
	return std.Sum(target)
}

// Scale multiplies every element of target in place by factor. The factor is
// converted to the element type first, so an integer array scaled by 2.5 is
// scaled by 2.
func Scale(target Value, factor float64) error {
	return std.Scale(target, factor)
}

// Map returns a new container of the same kind and element type with fn
// applied to every element.
func Map(target Value, fn Callable) (Value, error) {
	return std.Map(target, fn)
}

// MapInPlace replaces every element of target with fn applied to it.
func MapInPlace(target Value, fn Callable) error {
	return std.MapInPlace(target, fn)
}

// Filter returns a new container of the same kind and element type holding
// the elements for which pred returns true, in their original order.
func Filter(target Value, pred Callable) (Value, error) {
	return std.Filter(target, pred)
}

// ReduceOption configures Reduce.
type ReduceOption func(*reduceConfig)

type reduceConfig struct {
	initial    Value
	hasInitial bool
}

// Initial seeds the fold with v. A nil v is a valid seed.
func Initial(v Value) ReduceOption {
	return func(c *reduceConfig) {
		c.initial = v
		c.hasInitial = true
	}
}

// Reduce left-folds fn over the elements of target. Without Initial the first
// element seeds the fold, and an empty container fails with
// ErrEmptyReduceNoInitial.
//
// Example:
//
//	product, err := arrayops.Reduce(arr, mul, arrayops.Initial(int64(1)))
func Reduce(target Value, fn Callable, opts ...ReduceOption) (Value, error) {
	var cfg reduceConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return std.Reduce(target, fn, cfg.initial, cfg.hasInitial)
}
