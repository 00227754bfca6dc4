// Package host models the environment that owns the buffers the engine operates on.
//
// The engine never allocates or resizes host memory on its own. It only sees host
// values through three container kinds and a buffer-export protocol:
//
//   - FixedArray: a typed, resizable, contiguous array (array.array style)
//   - NDArray: an n-dimensional array with a dtype and a writeable flag
//   - MemoryView: a view over another exporter, possibly read-only or released
//
// Host scalars are plain Go values. Integers are canonically int64 (uint64 only for
// values above math.MaxInt64), floats are float64 and booleans are bool.
//
// Exports are accounted per backing storage: a writable export excludes every other
// export, and any live export excludes writable ones and blocks resizing.
package host
