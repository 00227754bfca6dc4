package host

import (
	"fmt"
	"strings"
)

const fixedArrayTags = "bBuhHiIlLqQfd"

// FixedArray is a typed, contiguous, resizable host array.
type FixedArray struct {
	tag  byte
	size int
	n    int
	buf  *storage
}

// NewFixedArray creates an array with element tag and initial values.
func NewFixedArray(tag byte, values ...Value) (*FixedArray, error) {
	if strings.IndexByte(fixedArrayTags, tag) < 0 {
		return nil, fmt.Errorf("%w: '%c' (must be one of %s)", ErrBadTag, tag, fixedArrayTags)
	}
	buf, err := packAll(tag, values)
	if err != nil {
		return nil, err
	}
	size, _ := ItemSize(tag)
	return &FixedArray{tag: tag, size: size, n: len(values), buf: buf}, nil
}

// NewFixedArrayLen creates a zero-filled array of n elements.
func NewFixedArrayLen(tag byte, n int) (*FixedArray, error) {
	a, err := NewFixedArray(tag)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("negative length %d", n)
	}
	a.buf = newStorage(n * a.size)
	a.n = n
	return a, nil
}

// MustFixedArray is like NewFixedArray but panics on error.
func MustFixedArray(tag byte, values ...Value) *FixedArray {
	a, err := NewFixedArray(tag, values...)
	if err != nil {
		panic(err)
	}
	return a
}

// Tag returns the element tag.
func (a *FixedArray) Tag() byte {
	return a.tag
}

// Len returns the number of elements.
func (a *FixedArray) Len() int {
	return a.n
}

// Export implements Exporter. FixedArray memory is always writable.
func (a *FixedArray) Export(writable bool) (*Export, error) {
	data, err := a.buf.export(writable)
	if err != nil {
		return nil, err
	}
	return &Export{
		Data:     data[:a.n*a.size],
		Format:   string(a.tag),
		ItemSize: a.size,
		Len:      a.n,
		Writable: writable,
		owner:    a.buf,
	}, nil
}

// Exported reports whether the array has live exports.
func (a *FixedArray) Exported() bool {
	return a.buf.exported()
}

// Append adds values to the end of the array.
func (a *FixedArray) Append(values ...Value) error {
	if err := a.buf.grow(len(values) * a.size); err != nil {
		return err
	}
	data := a.buf.bytes()
	for i, v := range values {
		off := (a.n + i) * a.size
		if err := pack(a.tag, data[off:off+a.size], v); err != nil {
			return err
		}
	}
	a.n += len(values)
	return nil
}

// At returns element i.
func (a *FixedArray) At(i int) Value {
	if i < 0 || i >= a.n {
		panic(fmt.Sprintf("array index %d out of range [0, %d)", i, a.n))
	}
	data := a.buf.bytes()
	return unpack(a.tag, data[i*a.size:(i+1)*a.size])
}

// Values returns a copy of all elements as host values.
func (a *FixedArray) Values() []Value {
	return unpackAll(a.tag, a.buf.bytes(), a.n)
}

func (a *FixedArray) String() string {
	return fmt.Sprintf("array('%c', %v)", a.tag, a.Values())
}
