package engine

import (
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/tphakala/simd/f32"

	"github.com/born-ml/arrayops/internal/typecode"
)

// kernels holds the slice primitives for one element type.
// Float types delegate to SIMD implementations; integers use plain loops.
type kernels[T typecode.Element] struct {
	// scale multiplies xs[i] by f in place.
	scale func(xs []T, f T)

	// sum returns the sum of xs. Float implementations may reassociate.
	sum func(xs []T) T
}

var (
	kernels32 = kernels[float32]{
		scale: func(xs []float32, f float32) { f32.Scale(xs, xs, f) },
		sum:   f32.Sum,
	}
	kernels64 = kernels[float64]{
		scale: vecmath.ScaleBlockInPlace,
		sum:   vecmath.Sum,
	}
)

// kernelsFor returns the primitives for T.
func kernelsFor[T typecode.Element]() kernels[T] {
	var zero T
	switch any(zero).(type) {
	case float32:
		if k, ok := any(kernels32).(kernels[T]); ok {
			return k
		}
	case float64:
		if k, ok := any(kernels64).(kernels[T]); ok {
			return k
		}
	}
	return kernels[T]{scale: scaleLoop[T], sum: sumLoop[T]}
}

func scaleLoop[T typecode.Element](xs []T, f T) {
	for i := range xs {
		xs[i] *= f
	}
}

func sumLoop[T typecode.Element](xs []T) T {
	var acc T
	for _, x := range xs {
		acc += x
	}
	return acc
}
