package engine

import (
	"fmt"

	"github.com/born-ml/arrayops/internal/classify"
	"github.com/born-ml/arrayops/internal/host"
	"github.com/born-ml/arrayops/internal/parallel"
	"github.com/born-ml/arrayops/internal/typecode"
	"github.com/born-ml/arrayops/internal/view"
)

// call is one validated operation target.
type call struct {
	src  classify.Source
	kind classify.InputType
	tc   typecode.TypeCode
	n    int
}

// kernel is the element-type-erased face of the generic algorithms in ops[T].
type kernel interface {
	sum(c *call) (host.Value, error)
	sumPartitioned(c *call, cfg parallel.Config) (host.Value, error)
	scale(c *call, factor float64) error
	mapValues(c *call, fn host.Callable) (host.Value, error)
	mapInPlace(c *call, fn host.Callable) error
	filter(c *call, pred host.Callable) (host.Value, error)
	reduce(c *call, fn host.Callable, initial host.Value, hasInitial bool) (host.Value, error)
}

// kernelFor resolves a runtime type code into the matching instantiation.
// Every TypeCode has a case; adding one requires extending this switch.
func kernelFor(tc typecode.TypeCode) kernel {
	switch tc {
	case typecode.Int8:
		return ops[int8]{}
	case typecode.Int16:
		return ops[int16]{}
	case typecode.Int32:
		return ops[int32]{}
	case typecode.Int64:
		return ops[int64]{}
	case typecode.UInt8:
		return ops[uint8]{}
	case typecode.UInt16:
		return ops[uint16]{}
	case typecode.UInt32:
		return ops[uint32]{}
	case typecode.UInt64:
		return ops[uint64]{}
	case typecode.Float32:
		return ops[float32]{}
	case typecode.Float64:
		return ops[float64]{}
	}
	panic(fmt.Sprintf("dispatch: unhandled type code %s", tc))
}

// withRead runs fn over a read-only view of src and releases it afterwards.
func withRead[T typecode.Element, R any](src host.Exporter, fn func(v *view.TypedView[T]) (R, error)) (R, error) {
	v, err := view.Read[T](src)
	if err != nil {
		var zero R
		return zero, err
	}
	defer v.Release()
	return fn(v)
}

// withWrite runs fn over a mutable view of src and releases it afterwards.
func withWrite[T typecode.Element](src host.Exporter, fn func(v *view.TypedView[T]) error) error {
	v, err := view.Write[T](src)
	if err != nil {
		return err
	}
	defer v.Release()
	return fn(v)
}

// cursor reads elements one at a time, holding a read-only view only for the
// duration of each read. Callbacks run between reads see an unlocked container.
type cursor[T typecode.Element] struct {
	src host.Exporter
	i   int
	n   int
}

func newCursor[T typecode.Element](src host.Exporter, n int) *cursor[T] {
	return &cursor[T]{src: src, n: n}
}

// next returns the next element, or ok == false when the iteration is done.
// Iteration stops early if the container shrank below the next index.
func (c *cursor[T]) next() (x T, ok bool, err error) {
	if c.i >= c.n {
		return x, false, nil
	}
	v, err := view.Read[T](c.src)
	if err != nil {
		return x, false, err
	}
	defer v.Release()

	if c.i >= v.Len() {
		return x, false, nil
	}
	x = v.At(c.i)
	c.i++
	return x, true, nil
}
