package host

import "fmt"

// MemoryView is a view over another exporter's memory.
type MemoryView struct {
	obj      Exporter
	format   string
	readonly bool
	released bool
}

// NewMemoryView creates a view over a FixedArray, NDArray or another MemoryView.
func NewMemoryView(obj Value) (*MemoryView, error) {
	switch o := obj.(type) {
	case *FixedArray:
		return &MemoryView{obj: o, format: string(o.tag)}, nil
	case *NDArray:
		return &MemoryView{
			obj:      o,
			format:   string(o.dtype),
			readonly: !o.writeable,
		}, nil
	case *MemoryView:
		if o.released {
			return nil, ErrReleased
		}
		return &MemoryView{
			obj:      o.obj,
			format:   o.format,
			readonly: o.readonly,
		}, nil
	default:
		return nil, fmt.Errorf("memoryview: a bytes-like object is required, not '%s'", TypeName(obj))
	}
}

// MustMemoryView is like NewMemoryView but panics on error.
func MustMemoryView(obj Value) *MemoryView {
	m, err := NewMemoryView(obj)
	if err != nil {
		panic(err)
	}
	return m
}

// ToReadOnly returns a read-only view of the same memory.
func (m *MemoryView) ToReadOnly() *MemoryView {
	return &MemoryView{
		obj:      m.obj,
		format:   m.format,
		readonly: true,
		released: m.released,
	}
}

// Format returns the element format string.
func (m *MemoryView) Format() string {
	return m.format
}

// Readonly reports whether the view forbids writes.
func (m *MemoryView) Readonly() bool {
	return m.readonly
}

// Ndim returns the number of dimensions.
func (m *MemoryView) Ndim() int {
	switch o := m.obj.(type) {
	case *NDArray:
		return o.Ndim()
	case *MemoryView:
		return o.Ndim()
	default:
		return 1
	}
}

// Len returns the length of the first dimension.
func (m *MemoryView) Len() int {
	switch o := m.obj.(type) {
	case *FixedArray:
		return o.Len()
	case *NDArray:
		return o.Len()
	case *MemoryView:
		return o.Len()
	default:
		return 0
	}
}

// Release detaches the view. Later exports fail with ErrReleased.
func (m *MemoryView) Release() {
	m.released = true
}

// Released reports whether Release was called.
func (m *MemoryView) Released() bool {
	return m.released
}

// Object returns the exporter the view was created over.
func (m *MemoryView) Object() Exporter {
	return m.obj
}

// Export implements Exporter.
func (m *MemoryView) Export(writable bool) (*Export, error) {
	if m.released {
		return nil, ErrReleased
	}
	if writable && m.readonly {
		return nil, ErrReadOnly
	}
	return m.obj.Export(writable)
}

// Values returns a copy of all elements.
func (m *MemoryView) Values() ([]Value, error) {
	exp, err := m.Export(false)
	if err != nil {
		return nil, err
	}
	defer exp.Release()
	return unpackAll(exp.Format[0], exp.Data, exp.Len), nil
}
