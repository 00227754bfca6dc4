package host

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"unsafe"
)

// Export errors.
var (
	ErrExportConflict = errors.New("buffer is exported in an incompatible mode")
	ErrBufferExported = errors.New("cannot resize a buffer that is exporting views")
	ErrReadOnly       = errors.New("buffer is not writable")
	ErrReleased       = errors.New("operation forbidden on released memoryview object")
	ErrBadTag         = errors.New("bad typecode")
)

// Exporter is implemented by host values that can expose their memory.
type Exporter interface {
	// Export exposes the backing memory. A writable export is exclusive.
	// The caller must Release the export when done.
	Export(writable bool) (*Export, error)
}

// Export is a live view of host memory handed out by an Exporter.
type Export struct {
	Data     []byte // Backing bytes, len == Len*ItemSize
	Format   string // Element tag
	ItemSize int    // Bytes per element
	Len      int    // Number of elements
	Writable bool   // Whether writes through Data are allowed

	owner    *storage
	released bool
}

// Release returns the export to its owner. Calling Release twice is a no-op.
func (e *Export) Release() {
	if e.released {
		return
	}
	e.released = true
	e.owner.release(e.Writable)
	e.Data = nil
}

// storage is the export-accounted backing memory shared by a container and its views.
type storage struct {
	mu      sync.Mutex
	data    []byte
	readers int  // Live read-only exports
	writer  bool // A writable export is live
}

// newStorage allocates zeroed storage aligned for any supported element type.
func newStorage(nbytes int) *storage {
	return &storage{data: alignedBytes(nbytes)}
}

func alignedBytes(nbytes int) []byte {
	if nbytes == 0 {
		return nil
	}
	words := make([]uint64, (nbytes+7)/8)
	//nolint:gosec // unsafe.Slice over uint64 words keeps 8-byte alignment for typed views
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), nbytes)
}

func (s *storage) export(writable bool) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writer || (writable && s.readers > 0) {
		return nil, ErrExportConflict
	}
	if writable {
		s.writer = true
	} else {
		s.readers++
	}
	return s.data, nil
}

func (s *storage) release(writable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if writable {
		s.writer = false
	} else if s.readers > 0 {
		s.readers--
	}
}

// exported reports whether any export is live.
func (s *storage) exported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer || s.readers > 0
}

// grow appends extra zeroed bytes. Fails while exports are live.
func (s *storage) grow(extra int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writer || s.readers > 0 {
		return ErrBufferExported
	}
	data := alignedBytes(len(s.data) + extra)
	copy(data, s.data)
	s.data = data
	return nil
}

func (s *storage) bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// ItemSize returns the element size for a host tag.
func ItemSize(tag byte) (int, bool) {
	switch tag {
	case 'b', 'B', '?':
		return 1, true
	case 'h', 'H':
		return 2, true
	case 'i', 'I', 'f', 'u':
		return 4, true
	case 'l', 'L', 'q', 'Q', 'd':
		return 8, true
	default:
		return 0, false
	}
}

// pack stores v at dst according to tag, with host-side range checks.
func pack(tag byte, dst []byte, v Value) error {
	ne := binary.NativeEndian
	switch tag {
	case 'b', 'h', 'i', 'l', 'q':
		i, err := Int64Of(v)
		if err != nil {
			return err
		}
		size, _ := ItemSize(tag)
		bits := uint(size * 8)
		if bits < 64 && (i < -(1<<(bits-1)) || i > (1<<(bits-1))-1) {
			return fmt.Errorf("%w: %d does not fit '%c'", ErrOverflow, i, tag)
		}
		switch size {
		case 1:
			dst[0] = byte(int8(i))
		case 2:
			ne.PutUint16(dst, uint16(int16(i)))
		case 4:
			ne.PutUint32(dst, uint32(int32(i)))
		default:
			ne.PutUint64(dst, uint64(i))
		}
	case 'B', 'H', 'I', 'L', 'Q':
		u, err := Uint64Of(v)
		if err != nil {
			return err
		}
		size, _ := ItemSize(tag)
		bits := uint(size * 8)
		if bits < 64 && u > (1<<bits)-1 {
			return fmt.Errorf("%w: %d does not fit '%c'", ErrOverflow, u, tag)
		}
		switch size {
		case 1:
			dst[0] = byte(u)
		case 2:
			ne.PutUint16(dst, uint16(u))
		case 4:
			ne.PutUint32(dst, uint32(u))
		default:
			ne.PutUint64(dst, u)
		}
	case 'f':
		f, err := Float64Of(v)
		if err != nil {
			return err
		}
		ne.PutUint32(dst, math.Float32bits(float32(f)))
	case 'd':
		f, err := Float64Of(v)
		if err != nil {
			return err
		}
		ne.PutUint64(dst, math.Float64bits(f))
	case '?':
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %s", TypeName(v))
		}
		dst[0] = 0
		if b {
			dst[0] = 1
		}
	case 'u':
		s, ok := v.(string)
		r := []rune(s)
		if !ok || len(r) != 1 {
			return fmt.Errorf("array item must be a unicode character, not %s", TypeName(v))
		}
		ne.PutUint32(dst, uint32(r[0]))
	default:
		return fmt.Errorf("%w: '%c'", ErrBadTag, tag)
	}
	return nil
}

// unpack reads the element at src according to tag.
func unpack(tag byte, src []byte) Value {
	ne := binary.NativeEndian
	switch tag {
	case 'b':
		return int64(int8(src[0]))
	case 'h':
		return int64(int16(ne.Uint16(src)))
	case 'i':
		return int64(int32(ne.Uint32(src)))
	case 'l', 'q':
		return int64(ne.Uint64(src))
	case 'B':
		return int64(src[0])
	case 'H':
		return int64(ne.Uint16(src))
	case 'I':
		return int64(ne.Uint32(src))
	case 'L', 'Q':
		return Uint(ne.Uint64(src))
	case 'f':
		return float64(math.Float32frombits(ne.Uint32(src)))
	case 'd':
		return math.Float64frombits(ne.Uint64(src))
	case '?':
		return src[0] != 0
	case 'u':
		return string(rune(ne.Uint32(src)))
	default:
		return nil
	}
}

// packAll encodes values into freshly allocated storage.
func packAll(tag byte, values []Value) (*storage, error) {
	size, ok := ItemSize(tag)
	if !ok {
		return nil, fmt.Errorf("%w: '%c'", ErrBadTag, tag)
	}
	s := newStorage(len(values) * size)
	for i, v := range values {
		if err := pack(tag, s.data[i*size:(i+1)*size], v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// unpackAll decodes n elements of tag from data.
func unpackAll(tag byte, data []byte, n int) []Value {
	size, _ := ItemSize(tag)
	out := make([]Value, n)
	for i := range out {
		out[i] = unpack(tag, data[i*size:(i+1)*size])
	}
	return out
}
