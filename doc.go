// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package arrayops provides fast elementwise and reduction operations over
// typed numeric buffers.
//
// # Overview
//
// Operations accept any of three buffer container kinds:
//   - host.FixedArray: a growable array of one element type (array.array analogue)
//   - host.NDArray: a 1-dimensional n-d array (numpy.ndarray analogue)
//   - host.MemoryView: a view over either of the above
//
// Each call resolves the container's element type once and runs a
// specialized implementation for it. Supported element types:
//
//	b int8    B uint8
//	h int16   H uint16
//	i int32   I uint32
//	l int64   L uint64
//	f float32 d float64
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/arrayops"
//	    "github.com/born-ml/arrayops/host"
//	)
//
//	func main() {
//	    arr := host.MustFixedArray('i', 1, 2, 3, 4, 5)
//
//	    total, _ := arrayops.Sum(arr)  // int64(15)
//	    _ = arrayops.Scale(arr, 2.0)   // [2 4 6 8 10]
//
//	    even, _ := arrayops.Filter(arr, host.Unary(func(v host.Value) host.Value {
//	        return v.(int64)%4 == 0
//	    }))
//	}
//
// # Callbacks
//
// Map, Filter and Reduce hold no buffer view while a callback runs, so a
// callback may read or mutate the container it is iterating. MapInPlace keeps
// the container exclusively borrowed for the whole pass; a callback touching
// the same container fails with ErrBufferUnavailable.
//
// Errors returned by a callback are passed back to the caller unchanged.
//
// # Errors
//
// Every other failure matches exactly one of the Err* kinds via errors.Is and
// carries the operation name in an *OpError.
package arrayops
