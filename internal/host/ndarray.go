package host

import (
	"fmt"
	"strings"
)

const ndarrayTags = "?bBhHiIlLqQfd"

// NDArray is an n-dimensional host array with a dtype and a writeable flag.
// Memory is always C-contiguous.
type NDArray struct {
	dtype     byte
	size      int
	shape     []int
	buf       *storage
	writeable bool
}

// NewNDArray creates a 1-D array with the given dtype char and values.
func NewNDArray(dtype byte, values ...Value) (*NDArray, error) {
	if strings.IndexByte(ndarrayTags, dtype) < 0 {
		return nil, fmt.Errorf("%w: data type '%c' not understood", ErrBadTag, dtype)
	}
	buf, err := packAll(dtype, values)
	if err != nil {
		return nil, err
	}
	size, _ := ItemSize(dtype)
	return &NDArray{
		dtype:     dtype,
		size:      size,
		shape:     []int{len(values)},
		buf:       buf,
		writeable: true,
	}, nil
}

// NewNDArrayLen creates a zero-filled 1-D array of n elements.
func NewNDArrayLen(dtype byte, n int) (*NDArray, error) {
	a, err := NewNDArray(dtype)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("negative dimensions are not allowed")
	}
	a.buf = newStorage(n * a.size)
	a.shape = []int{n}
	return a, nil
}

// MustNDArray is like NewNDArray but panics on error.
func MustNDArray(dtype byte, values ...Value) *NDArray {
	a, err := NewNDArray(dtype, values...)
	if err != nil {
		panic(err)
	}
	return a
}

// Reshape returns a new array sharing memory with a.
func (a *NDArray) Reshape(shape ...int) (*NDArray, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("negative dimension %d in shape %v", d, shape)
		}
		n *= d
	}
	if n != a.Size() {
		return nil, fmt.Errorf("cannot reshape array of size %d into shape %v", a.Size(), shape)
	}
	return &NDArray{
		dtype:     a.dtype,
		size:      a.size,
		shape:     append([]int(nil), shape...),
		buf:       a.buf,
		writeable: a.writeable,
	}, nil
}

// Dtype returns the dtype char.
func (a *NDArray) Dtype() byte {
	return a.dtype
}

// Shape returns the array dimensions.
func (a *NDArray) Shape() []int {
	return a.shape
}

// Ndim returns the number of dimensions.
func (a *NDArray) Ndim() int {
	return len(a.shape)
}

// Size returns the total number of elements.
func (a *NDArray) Size() int {
	n := 1
	for _, d := range a.shape {
		n *= d
	}
	return n
}

// Len returns the length of the first dimension.
func (a *NDArray) Len() int {
	if len(a.shape) == 0 {
		return 0
	}
	return a.shape[0]
}

// Writeable reports whether the array may be modified.
func (a *NDArray) Writeable() bool {
	return a.writeable
}

// SetWriteable sets the writeable flag.
func (a *NDArray) SetWriteable(w bool) {
	a.writeable = w
}

// Export implements Exporter.
func (a *NDArray) Export(writable bool) (*Export, error) {
	if writable && !a.writeable {
		return nil, ErrReadOnly
	}
	data, err := a.buf.export(writable)
	if err != nil {
		return nil, err
	}
	n := a.Size()
	return &Export{
		Data:     data[:n*a.size],
		Format:   string(a.dtype),
		ItemSize: a.size,
		Len:      n,
		Writable: writable,
		owner:    a.buf,
	}, nil
}

// Values returns a copy of all elements in C order.
func (a *NDArray) Values() []Value {
	return unpackAll(a.dtype, a.buf.bytes(), a.Size())
}

func (a *NDArray) String() string {
	return fmt.Sprintf("ndarray(%v, dtype='%c', shape=%v)", a.Values(), a.dtype, a.shape)
}
