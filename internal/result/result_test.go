package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/arrayops/internal/classify"
	"github.com/born-ml/arrayops/internal/host"
	"github.com/born-ml/arrayops/internal/typecode"
)

func TestBuildEmpty(t *testing.T) {
	for _, tc := range typecode.All() {
		for _, kind := range []classify.InputType{classify.FixedArray, classify.NDArray, classify.MemoryView} {
			obj, err := BuildEmpty(tc, kind)
			require.NoError(t, err)

			gotKind, err := classify.Classify(obj)
			require.NoError(t, err)
			assert.Equal(t, kind, gotKind)

			gotTC, err := classify.ExtractTypeCode(obj, kind)
			require.NoError(t, err)
			assert.Equal(t, tc, gotTC)

			n, err := classify.Len(obj, kind)
			require.NoError(t, err)
			assert.Zero(t, n)
		}
	}
}

func TestBuildFromValues(t *testing.T) {
	obj, err := BuildFromValues[int32](classify.FixedArray, []host.Value{int64(1), int64(-2), 3})
	require.NoError(t, err)

	arr, ok := obj.(*host.FixedArray)
	require.True(t, ok)
	assert.Equal(t, byte('i'), arr.Tag())
	assert.Equal(t, []host.Value{int64(1), int64(-2), int64(3)}, arr.Values())
}

func TestBuildFromValuesNDArray(t *testing.T) {
	obj, err := BuildFromValues[float64](classify.NDArray, []host.Value{1.5, int64(2)})
	require.NoError(t, err)

	nd, ok := obj.(*host.NDArray)
	require.True(t, ok)
	assert.Equal(t, byte('d'), nd.Dtype())
	assert.Equal(t, []int{2}, nd.Shape())
	assert.Equal(t, []host.Value{1.5, 2.0}, nd.Values())
}

func TestBuildFromValuesMemoryView(t *testing.T) {
	obj, err := BuildFromValues[uint8](classify.MemoryView, []host.Value{int64(7)})
	require.NoError(t, err)

	mv, ok := obj.(*host.MemoryView)
	require.True(t, ok)
	assert.Equal(t, "B", mv.Format())
	values, err := mv.Values()
	require.NoError(t, err)
	assert.Equal(t, []host.Value{int64(7)}, values)
}

func TestBuildFromValuesConversionError(t *testing.T) {
	_, err := BuildFromValues[uint8](classify.FixedArray, []host.Value{int64(1), int64(256)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrElementConversion)
	assert.ErrorIs(t, err, host.ErrOverflow)
	assert.Contains(t, err.Error(), "element 1")

	_, err = BuildFromValues[int16](classify.NDArray, []host.Value{"x"})
	assert.ErrorIs(t, err, ErrElementConversion)
}

func TestBuildFromNativeIsIndependent(t *testing.T) {
	src := []int64{1, 2, 3}
	obj, err := BuildFromNative(classify.FixedArray, src)
	require.NoError(t, err)
	src[0] = 100

	arr := obj.(*host.FixedArray)
	assert.Equal(t, int64(1), arr.At(0))
	assert.False(t, arr.Exported(), "build must release its view")
}
