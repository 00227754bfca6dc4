package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/arrayops/internal/host"
	"github.com/born-ml/arrayops/internal/parallel"
	"github.com/born-ml/arrayops/internal/typecode"
)

// containers builds the same values in all three container kinds.
func containers(t *testing.T, tag byte, values ...host.Value) map[string]host.Value {
	t.Helper()
	arr, err := host.NewFixedArray(tag, values...)
	require.NoError(t, err)
	nd, err := host.NewNDArray(tag, values...)
	require.NoError(t, err)
	viewed, err := host.NewFixedArray(tag, values...)
	require.NoError(t, err)
	return map[string]host.Value{
		"array":      arr,
		"ndarray":    nd,
		"memoryview": host.MustMemoryView(viewed),
	}
}

func valuesOf(t *testing.T, v host.Value) []host.Value {
	t.Helper()
	switch c := v.(type) {
	case *host.FixedArray:
		return c.Values()
	case *host.NDArray:
		return c.Values()
	case *host.MemoryView:
		values, err := c.Values()
		require.NoError(t, err)
		return values
	default:
		t.Fatalf("not a container: %T", v)
		return nil
	}
}

func TestSum(t *testing.T) {
	e := New()

	for name, c := range containers(t, 'i', 1, 2, 3, 4, 5) {
		t.Run(name, func(t *testing.T) {
			got, err := e.Sum(c)
			require.NoError(t, err)
			assert.Equal(t, int64(15), got)
		})
	}

	got, err := e.Sum(host.MustFixedArray('d', 1.5, 2.5, 3.5))
	require.NoError(t, err)
	assert.Equal(t, 7.5, got)
}

func TestSumAllTypes(t *testing.T) {
	e := New()
	tests := []struct {
		tag    byte
		values []host.Value
		want   host.Value
	}{
		{'b', []host.Value{-1, 0, 1}, int64(0)},
		{'B', []host.Value{1, 2, 3}, int64(6)},
		{'h', []host.Value{-100, 0, 100}, int64(0)},
		{'H', []host.Value{100, 200}, int64(300)},
		{'i', []host.Value{1, 2, 3}, int64(6)},
		{'I', []host.Value{1, 2, 3}, int64(6)},
		{'l', []host.Value{1000, 2000}, int64(3000)},
		{'L', []host.Value{1000, 2000}, int64(3000)},
		{'f', []host.Value{1.5, 2.5}, 4.0},
		{'d', []host.Value{1.5, 2.5}, 4.0},
	}

	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			got, err := e.Sum(host.MustFixedArray(tt.tag, tt.values...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSumEmptyIsZero(t *testing.T) {
	e := New()
	for _, tc := range typecode.All() {
		got, err := e.Sum(host.MustFixedArray(tc.Char()))
		require.NoError(t, err)
		if tc.IsFloat() {
			assert.Equal(t, 0.0, got, "typecode %c", tc.Char())
		} else {
			assert.Equal(t, int64(0), got, "typecode %c", tc.Char())
		}
	}
}

func TestSumWraps(t *testing.T) {
	got, err := New().Sum(host.MustFixedArray('b', 100, 100))
	require.NoError(t, err)
	assert.Equal(t, int64(-56), got)
}

func TestSumLarge(t *testing.T) {
	values := make([]host.Value, 10000)
	for i := range values {
		values[i] = i
	}
	got, err := New().Sum(host.MustFixedArray('i', values...))
	require.NoError(t, err)
	assert.Equal(t, int64(9999*10000/2), got)
}

func TestSumPartitioned(t *testing.T) {
	par := parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}
	e := New(WithParallelSum(par))

	values := make([]host.Value, 1000)
	for i := range values {
		values[i] = i % 1000
	}
	got, err := e.Sum(host.MustFixedArray('l', values...))
	require.NoError(t, err)
	assert.Equal(t, int64(999*1000/2), got)

	floats := make([]host.Value, 256)
	for i := range floats {
		floats[i] = 0.5
	}
	for _, tag := range []byte{'f', 'd'} {
		got, err = e.Sum(host.MustFixedArray(tag, floats...))
		require.NoError(t, err)
		assert.Equal(t, 128.0, got)
	}

	arr := host.MustFixedArray('i', values...)
	_, err = e.Sum(arr)
	require.NoError(t, err)
	assert.False(t, arr.Exported(), "partitioned sum must release its view before workers run")
}

func TestScale(t *testing.T) {
	e := New()

	for name, c := range containers(t, 'i', 1, 2, 3, 4, 5) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, e.Scale(c, 2.0))
			assert.Equal(t, []host.Value{int64(2), int64(4), int64(6), int64(8), int64(10)}, valuesOf(t, c))
		})
	}

	d := host.MustFixedArray('d', 1.0, 2.0, 3.0)
	require.NoError(t, e.Scale(d, 2.5))
	assert.Equal(t, []host.Value{2.5, 5.0, 7.5}, d.Values())

	f := host.MustNDArray('f', 1.0, 2.0)
	require.NoError(t, e.Scale(f, 1.5))
	assert.Equal(t, []host.Value{1.5, 3.0}, f.Values())
}

func TestScaleTruncatesFactorForIntegers(t *testing.T) {
	e := New()

	a := host.MustFixedArray('i', 1, 2, 3)
	require.NoError(t, e.Scale(a, 2.5))
	assert.Equal(t, []host.Value{int64(2), int64(4), int64(6)}, a.Values())

	neg := host.MustFixedArray('i', 1, 2, 3)
	require.NoError(t, e.Scale(neg, -1.0))
	assert.Equal(t, []host.Value{int64(-1), int64(-2), int64(-3)}, neg.Values())

	zero := host.MustFixedArray('h', 5, 6)
	require.NoError(t, e.Scale(zero, 0.0))
	assert.Equal(t, []host.Value{int64(0), int64(0)}, zero.Values())
}

func TestScaleWraps(t *testing.T) {
	e := New()

	u := host.MustFixedArray('B', 1, 2)
	require.NoError(t, e.Scale(u, -1.0))
	assert.Equal(t, []host.Value{int64(255), int64(254)}, u.Values())

	b := host.MustFixedArray('b', 1)
	require.NoError(t, e.Scale(b, 300.0))
	assert.Equal(t, []host.Value{int64(44)}, b.Values())
}

func TestCastFactor(t *testing.T) {
	assert.Equal(t, int32(2), castFactor[int32](2.9))
	assert.Equal(t, int32(-2), castFactor[int32](-2.9))
	assert.Equal(t, uint8(255), castFactor[uint8](-1))
	assert.Equal(t, int16(0), castFactor[int16](math.NaN()))
	assert.Equal(t, int64(0), castFactor[int64](math.Inf(1)))
	assert.Equal(t, uint64(1<<63), castFactor[uint64](0x1p63))
	assert.Equal(t, float32(2.5), castFactor[float32](2.5))
}

func TestScaleEmpty(t *testing.T) {
	a := host.MustFixedArray('i')
	require.NoError(t, New().Scale(a, 5.0))
	assert.Equal(t, 0, a.Len())
}

func TestScaleRejectsReadOnly(t *testing.T) {
	e := New()

	nd := host.MustNDArray('i', 1, 2)
	nd.SetWriteable(false)
	err := e.Scale(nd, 2)
	assert.ErrorIs(t, err, ErrIncapableBuffer)

	mv := host.MustMemoryView(host.MustFixedArray('i', 1)).ToReadOnly()
	assert.ErrorIs(t, e.Scale(mv, 2), ErrIncapableBuffer)

	// Reading is still allowed.
	got, err := e.Sum(nd)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
}

func TestMap(t *testing.T) {
	e := New()
	double := host.Unary(func(v host.Value) host.Value { return v.(int64) * 2 })

	for name, c := range containers(t, 'i', 1, 2, 3) {
		t.Run(name, func(t *testing.T) {
			out, err := e.Map(c, double)
			require.NoError(t, err)
			assert.IsType(t, c, out, "result keeps the container kind")
			assert.Equal(t, []host.Value{int64(2), int64(4), int64(6)}, valuesOf(t, out))
			assert.Equal(t, []host.Value{int64(1), int64(2), int64(3)}, valuesOf(t, c), "source is untouched")
		})
	}
}

func TestMapPreservesTypeCode(t *testing.T) {
	e := New()
	identity := host.Unary(func(v host.Value) host.Value { return v })

	for _, tc := range typecode.All() {
		src := host.MustFixedArray(tc.Char(), 1, 2)
		out, err := e.Map(src, identity)
		require.NoError(t, err)
		arr := out.(*host.FixedArray)
		assert.Equal(t, tc.Char(), arr.Tag())
		assert.Equal(t, src.Len(), arr.Len())
	}
}

func TestMapEmpty(t *testing.T) {
	e := New()
	calls := 0
	fn := host.Unary(func(v host.Value) host.Value { calls++; return v })

	for name, c := range containers(t, 'd') {
		t.Run(name, func(t *testing.T) {
			out, err := e.Map(c, fn)
			require.NoError(t, err)
			assert.IsType(t, c, out)
			assert.Empty(t, valuesOf(t, out))
		})
	}
	assert.Zero(t, calls)
}

func TestMapConversionError(t *testing.T) {
	e := New()
	toFloat := host.Unary(func(v host.Value) host.Value { return 0.5 })

	_, err := e.Map(host.MustFixedArray('i', 1), toFloat)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrElementConversion)

	tooBig := host.Unary(func(v host.Value) host.Value { return int64(1000) })
	_, err = e.Map(host.MustFixedArray('B', 1), tooBig)
	assert.ErrorIs(t, err, ErrElementConversion)
}

func TestMapInPlace(t *testing.T) {
	e := New()
	square := host.Unary(func(v host.Value) host.Value { x := v.(int64); return x * x })

	for name, c := range containers(t, 'h', 1, 2, 3) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, e.MapInPlace(c, square))
			assert.Equal(t, []host.Value{int64(1), int64(4), int64(9)}, valuesOf(t, c))
		})
	}
}

func TestMapInPlaceReturnTypeMismatch(t *testing.T) {
	e := New()
	a := host.MustFixedArray('i', 1, 2)
	err := e.MapInPlace(a, host.Unary(func(v host.Value) host.Value { return "nope" }))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCallableReturnTypeMismatch)
	assert.False(t, a.Exported())
}

func TestMapInPlaceEmptyIsNoop(t *testing.T) {
	calls := 0
	err := New().MapInPlace(host.MustFixedArray('f'), host.Unary(func(v host.Value) host.Value {
		calls++
		return v
	}))
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestFilter(t *testing.T) {
	e := New()
	even := host.Unary(func(v host.Value) host.Value { return v.(int64)%2 == 0 })

	for name, c := range containers(t, 'l', 1, 2, 3, 4, 5, 6) {
		t.Run(name, func(t *testing.T) {
			out, err := e.Filter(c, even)
			require.NoError(t, err)
			assert.IsType(t, c, out)
			assert.Equal(t, []host.Value{int64(2), int64(4), int64(6)}, valuesOf(t, out))
		})
	}
}

func TestFilterIsOrderedSubset(t *testing.T) {
	src := host.MustFixedArray('d', 5.0, -1.0, 3.0, -2.0, 4.0)
	positive := host.Unary(func(v host.Value) host.Value { return v.(float64) > 0 })

	out, err := New().Filter(src, positive)
	require.NoError(t, err)
	got := out.(*host.FixedArray)
	assert.Equal(t, []host.Value{5.0, 3.0, 4.0}, got.Values())
	assert.LessOrEqual(t, got.Len(), src.Len())

	none, err := New().Filter(src, host.Unary(func(host.Value) host.Value { return false }))
	require.NoError(t, err)
	assert.Equal(t, 0, none.(*host.FixedArray).Len())
}

func TestFilterRequiresBool(t *testing.T) {
	_, err := New().Filter(host.MustFixedArray('i', 1), host.Unary(func(v host.Value) host.Value { return v }))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPredicateNotBool)
}

func TestFilterEmpty(t *testing.T) {
	out, err := New().Filter(host.MustNDArray('H'), host.Unary(func(host.Value) host.Value { return true }))
	require.NoError(t, err)
	nd := out.(*host.NDArray)
	assert.Equal(t, byte('H'), nd.Dtype())
	assert.Equal(t, 0, nd.Len())
}

func TestReduce(t *testing.T) {
	e := New()
	add := host.Binary(func(a, b host.Value) host.Value { return a.(int64) + b.(int64) })

	for name, c := range containers(t, 'i', 1, 2, 3, 4) {
		t.Run(name, func(t *testing.T) {
			got, err := e.Reduce(c, add, nil, false)
			require.NoError(t, err)
			assert.Equal(t, int64(10), got)

			got, err = e.Reduce(c, add, int64(100), true)
			require.NoError(t, err)
			assert.Equal(t, int64(110), got)
		})
	}
}

func TestReduceIsLeftFold(t *testing.T) {
	var trace [][2]host.Value
	fn := host.Binary(func(acc, x host.Value) host.Value {
		trace = append(trace, [2]host.Value{acc, x})
		return acc.(int64)*10 + x.(int64)
	})

	got, err := New().Reduce(host.MustFixedArray('B', 1, 2, 3), fn, nil, false)
	require.NoError(t, err)
	assert.Equal(t, int64(123), got)
	assert.Equal(t, [][2]host.Value{{int64(1), int64(2)}, {int64(12), int64(3)}}, trace)
}

func TestReduceSeedLaw(t *testing.T) {
	e := New()
	calls := 0
	fn := host.Binary(func(a, b host.Value) host.Value { calls++; return a })

	got, err := e.Reduce(host.MustFixedArray('i'), fn, "seed", true)
	require.NoError(t, err)
	assert.Equal(t, "seed", got)

	_, err = e.Reduce(host.MustFixedArray('i'), fn, nil, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyReduceNoInitial)
	assert.Contains(t, err.Error(), "reduce() of empty array with no initial value")

	got, err = e.Reduce(host.MustFixedArray('d', 4.5), fn, nil, false)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got)

	assert.Zero(t, calls)
}

func TestCallbackErrorsPropagateUnchanged(t *testing.T) {
	e := New()
	boom := errors.New("boom")
	calls := 0
	failing := host.Func(func(args ...host.Value) (host.Value, error) {
		calls++
		if calls == 2 {
			return nil, boom
		}
		return args[0], nil
	})
	reset := func() { calls = 0 }

	arr := host.MustFixedArray('i', 1, 2, 3)

	reset()
	_, err := e.Map(arr, failing)
	assert.Same(t, boom, err)
	assert.Equal(t, 2, calls, "iteration stops at the failing call")

	reset()
	assert.Same(t, boom, e.MapInPlace(arr, failing))
	assert.False(t, arr.Exported())

	reset()
	_, err = e.Filter(arr, host.Func(func(args ...host.Value) (host.Value, error) {
		calls++
		if calls == 2 {
			return nil, boom
		}
		return true, nil
	}))
	assert.Same(t, boom, err)

	reset()
	_, err = e.Reduce(arr, failing, int64(0), true)
	assert.Same(t, boom, err)
}

func TestRejectsUnrecognizedContainers(t *testing.T) {
	e := New()
	fn := host.Unary(func(v host.Value) host.Value { return v })

	for _, v := range []host.Value{host.List{1, 2, 3}, []int32{1, 2, 3}, 42, nil} {
		_, err := e.Sum(v)
		assert.ErrorIs(t, err, ErrUnrecognizedContainer)

		assert.ErrorIs(t, e.Scale(v, 2), ErrUnrecognizedContainer)

		_, err = e.Map(v, fn)
		assert.ErrorIs(t, err, ErrUnrecognizedContainer)

		assert.ErrorIs(t, e.MapInPlace(v, fn), ErrUnrecognizedContainer)

		_, err = e.Filter(v, fn)
		assert.ErrorIs(t, err, ErrUnrecognizedContainer)

		_, err = e.Reduce(v, fn, nil, false)
		assert.ErrorIs(t, err, ErrUnrecognizedContainer)
	}

	_, err := e.Sum(host.List{1})
	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "sum", opErr.Op)
	assert.Contains(t, err.Error(), "Expected array.array, numpy.ndarray, or memoryview, got list")
}

func TestRejectsUnsupportedTypeCode(t *testing.T) {
	e := New()
	fn := host.Unary(func(v host.Value) host.Value { return v })
	targets := []host.Value{
		host.MustFixedArray('u', "a", "b", "c"),
		host.MustNDArray('?', true, false),
		host.MustMemoryView(host.MustFixedArray('q', 1)),
	}

	for _, c := range targets {
		_, err := e.Sum(c)
		assert.ErrorIs(t, err, ErrUnsupportedTypeCode)
		assert.Contains(t, err.Error(), "Unsupported typecode")

		assert.ErrorIs(t, e.Scale(c, 2), ErrUnsupportedTypeCode)

		_, err = e.Map(c, fn)
		assert.ErrorIs(t, err, ErrUnsupportedTypeCode)

		_, err = e.Filter(c, fn)
		assert.ErrorIs(t, err, ErrUnsupportedTypeCode)

		_, err = e.Reduce(c, fn, nil, false)
		assert.ErrorIs(t, err, ErrUnsupportedTypeCode)
	}
}

func TestRejectsMultiDimensional(t *testing.T) {
	nd, err := host.MustNDArray('i', 1, 2, 3, 4).Reshape(2, 2)
	require.NoError(t, err)

	_, err = New().Sum(nd)
	assert.ErrorIs(t, err, ErrIncapableBuffer)
}

func TestMissingCallable(t *testing.T) {
	e := New()
	arr := host.MustFixedArray('i', 1)

	_, err := e.Map(arr, nil)
	assert.ErrorIs(t, err, ErrMissingCallable)
	assert.ErrorIs(t, e.MapInPlace(arr, nil), ErrMissingCallable)
	_, err = e.Filter(arr, nil)
	assert.ErrorIs(t, err, ErrMissingCallable)
	_, err = e.Reduce(arr, nil, nil, false)
	assert.ErrorIs(t, err, ErrMissingCallable)
}

func TestBufferUnavailable(t *testing.T) {
	arr := host.MustFixedArray('i', 1, 2)
	exp, err := arr.Export(false)
	require.NoError(t, err)
	defer exp.Release()

	err = New().Scale(arr, 2)
	assert.ErrorIs(t, err, ErrBufferUnavailable)

	got, err := New().Sum(arr)
	require.NoError(t, err, "read views coexist with other read exports")
	assert.Equal(t, int64(3), got)
}

func TestDo(t *testing.T) {
	e := New()
	arr := host.MustFixedArray('i', 1, 2, 3)

	got, err := e.Do("sum", Request{Target: arr})
	require.NoError(t, err)
	assert.Equal(t, int64(6), got)

	_, err = e.Do("scale", Request{Target: arr, Factor: 3})
	require.NoError(t, err)

	got, err = e.Do("reduce", Request{
		Target:     arr,
		Fn:         host.Binary(func(a, b host.Value) host.Value { return a.(int64) + b.(int64) }),
		Initial:    int64(1),
		HasInitial: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(19), got)

	_, err = e.Do("median", Request{Target: arr})
	assert.ErrorIs(t, err, ErrUnknownOperation)

	assert.Len(t, Operations(), 6)
}

func TestDispatchLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(WithLogger(logger)).Sum(host.MustNDArray('f', 1.0))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "msg=dispatch")
	assert.Contains(t, buf.String(), "op=sum")
	assert.Contains(t, buf.String(), "container=numpy.ndarray")
	assert.Contains(t, buf.String(), "typecode=f")
}

func TestKernelForIsExhaustive(t *testing.T) {
	for _, tc := range typecode.All() {
		assert.NotPanics(t, func() { kernelFor(tc) }, "typecode %s", tc)
	}
	assert.Panics(t, func() { kernelFor(typecode.TypeCode(42)) })
}

func TestMapCallbackMayMutateSameContainer(t *testing.T) {
	e := New()
	arr := host.MustFixedArray('i', 1, 2, 3)

	var scaleErr error
	out, err := e.Map(arr, host.Unary(func(v host.Value) host.Value {
		if scaleErr == nil {
			scaleErr = e.Scale(arr, 1)
		}
		return v
	}))
	require.NoError(t, err)
	require.NoError(t, scaleErr, "no view is held while the callback runs")
	assert.Equal(t, []host.Value{int64(1), int64(2), int64(3)}, out.(*host.FixedArray).Values())
}

func TestMapSeesMutationsBetweenElements(t *testing.T) {
	e := New()
	arr := host.MustFixedArray('l', 1, 2, 3)

	first := true
	out, err := e.Map(arr, host.Unary(func(v host.Value) host.Value {
		if first {
			first = false
			require.NoError(t, e.Scale(arr, 10))
		}
		return v
	}))
	require.NoError(t, err)
	assert.Equal(t, []host.Value{int64(1), int64(20), int64(30)}, out.(*host.FixedArray).Values())
}

func TestMapInPlaceCallbackCannotReadSameContainer(t *testing.T) {
	e := New()
	arr := host.MustFixedArray('i', 1, 2, 3)

	var sumErr error
	err := e.MapInPlace(arr, host.Unary(func(v host.Value) host.Value {
		_, sumErr = e.Sum(arr)
		return v
	}))
	require.NoError(t, err)
	require.Error(t, sumErr)
	assert.ErrorIs(t, sumErr, ErrBufferUnavailable)
	assert.False(t, arr.Exported())

	got, err := e.Sum(arr)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got)
}

func TestFilterCallbackMayAppend(t *testing.T) {
	e := New()
	arr := host.MustFixedArray('i', 1, 2)

	out, err := e.Filter(arr, host.Unary(func(v host.Value) host.Value {
		require.NoError(t, arr.Append(99))
		return true
	}))
	require.NoError(t, err)
	assert.Equal(t, []host.Value{int64(1), int64(2)}, out.(*host.FixedArray).Values(),
		"iteration is bounded by the length at entry")
	assert.Equal(t, 4, arr.Len())
}

func TestNestedMemoryView(t *testing.T) {
	inner := host.MustMemoryView(host.MustFixedArray('d', 1.0, 2.0))
	outer := host.MustMemoryView(inner)

	got, err := New().Sum(outer)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
}

func TestRejectsNilContainerPointer(t *testing.T) {
	var arr *host.FixedArray

	assert.NotPanics(t, func() {
		_, err := New().Sum(arr)
		assert.ErrorIs(t, err, ErrUnrecognizedContainer)
	})
	assert.NotPanics(t, func() {
		assert.ErrorIs(t, New().Scale(arr, 2), ErrUnrecognizedContainer)
	})
}
