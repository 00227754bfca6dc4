package engine

import (
	"fmt"
	"math"

	"github.com/born-ml/arrayops/internal/convert"
	"github.com/born-ml/arrayops/internal/host"
	"github.com/born-ml/arrayops/internal/parallel"
	"github.com/born-ml/arrayops/internal/result"
	"github.com/born-ml/arrayops/internal/typecode"
	"github.com/born-ml/arrayops/internal/view"
)

// ops implements every operation once for element type T.
type ops[T typecode.Element] struct{}

// sum folds left to right from the additive identity. Integer sums wrap.
func (ops[T]) sum(c *call) (host.Value, error) {
	return withRead(c.src, func(v *view.TypedView[T]) (host.Value, error) {
		var acc T
		for _, x := range v.Elements() {
			acc += x
		}
		return convert.FromNative(acc), nil
	})
}

// sumPartitioned copies the buffer into an owned slice, sums disjoint ranges on
// workers and combines the partials in range order.
func (ops[T]) sumPartitioned(c *call, cfg parallel.Config) (host.Value, error) {
	owned, err := withRead(c.src, func(v *view.TypedView[T]) ([]T, error) {
		return v.Copy(), nil
	})
	if err != nil {
		return nil, err
	}

	k := kernelsFor[T]()
	ranges := parallel.Split(len(owned), cfg)
	partials := make([]T, len(ranges))
	parallel.ForRanges(ranges, func(idx int, r parallel.Range) {
		partials[idx] = k.sum(owned[r.Start:r.End])
	}, cfg)

	var acc T
	for _, p := range partials {
		acc += p
	}
	return convert.FromNative(acc), nil
}

// scale multiplies every element by factor cast to T.
func (ops[T]) scale(c *call, factor float64) error {
	f := castFactor[T](factor)
	k := kernelsFor[T]()
	return withWrite(c.src, func(v *view.TypedView[T]) error {
		k.scale(v.Elements(), f)
		return nil
	})
}

// mapValues calls fn on each element and builds a new container from the results.
// No view is held while fn runs.
func (ops[T]) mapValues(c *call, fn host.Callable) (host.Value, error) {
	out := make([]host.Value, 0, c.n)
	cur := newCursor[T](c.src, c.n)
	for {
		x, ok, err := cur.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		r, err := fn.Call(convert.FromNative(x))
		if err != nil {
			return nil, callbackError{err}
		}
		out = append(out, r)
	}
	return result.BuildFromValues[T](c.kind, out)
}

// mapInPlace replaces each element with fn(element). The mutable view stays held
// for the whole pass, so fn must not touch the same container.
func (ops[T]) mapInPlace(c *call, fn host.Callable) error {
	return withWrite(c.src, func(v *view.TypedView[T]) error {
		xs := v.Elements()
		for i, x := range xs {
			r, err := fn.Call(convert.FromNative(x))
			if err != nil {
				return callbackError{err}
			}
			y, err := convert.ToNative[T](r)
			if err != nil {
				return fmt.Errorf("%w: element %d: %w", ErrCallableReturnTypeMismatch, i, err)
			}
			xs[i] = y
		}
		return nil
	})
}

// filter keeps, in order, the elements for which pred returns true.
// No view is held while pred runs.
func (ops[T]) filter(c *call, pred host.Callable) (host.Value, error) {
	var kept []T
	cur := newCursor[T](c.src, c.n)
	for {
		x, ok, err := cur.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		r, err := pred.Call(convert.FromNative(x))
		if err != nil {
			return nil, callbackError{err}
		}
		keep, err := convert.Bool(r)
		if err != nil {
			return nil, err
		}
		if keep {
			kept = append(kept, x)
		}
	}
	return result.BuildFromNative(c.kind, kept)
}

// reduce is a left fold seeded by initial, or by the first element when absent.
// No view is held while fn runs.
func (ops[T]) reduce(c *call, fn host.Callable, initial host.Value, hasInitial bool) (host.Value, error) {
	cur := newCursor[T](c.src, c.n)
	acc := initial
	if !hasInitial {
		first, ok, err := cur.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrEmptyReduceNoInitial
		}
		acc = convert.FromNative(first)
	}

	for {
		x, ok, err := cur.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return acc, nil
		}
		acc, err = fn.Call(acc, convert.FromNative(x))
		if err != nil {
			return nil, callbackError{err}
		}
	}
}

// castFactor narrows a float64 factor to T. Integer targets truncate toward zero
// and wrap modulo 2^bits; NaN and infinities become 0.
func castFactor[T typecode.Element](f float64) T {
	if typecode.Of[T]().IsFloat() {
		return T(f)
	}
	t := math.Trunc(f)
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	u := uint64(math.Mod(math.Abs(t), 0x1p64))
	if t < 0 {
		u = -u
	}
	return T(u)
}
