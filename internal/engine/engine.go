// Package engine runs elementwise and reduction operations over host buffers.
//
// Each operation classifies its target, validates the buffer capability it needs,
// parses the element type, and dispatches once into a generic implementation
// instantiated for that element type.
package engine

import (
	"log/slog"

	"github.com/born-ml/arrayops/internal/classify"
	"github.com/born-ml/arrayops/internal/host"
	"github.com/born-ml/arrayops/internal/result"
)

// Request is the per-call input of an operation.
type Request struct {
	Target     host.Value    // Container to operate on
	Fn         host.Callable // Callback for map, map_inplace, filter and reduce
	Initial    host.Value    // Reduce seed, used when HasInitial is set
	HasInitial bool
	Factor     float64 // Scale factor
}

// Engine executes operations. It keeps no per-call state and is safe for
// concurrent use on distinct containers.
type Engine struct {
	cfg Config
	log *slog.Logger
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{cfg: cfg, log: cfg.Logger}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// prepare classifies, validates and resolves the element type of target.
func (e *Engine) prepare(op string, target host.Value, mutable bool) (*call, kernel, error) {
	kind, err := classify.Classify(target)
	if err != nil {
		return nil, nil, err
	}
	if err := classify.Validate(target, kind, mutable); err != nil {
		return nil, nil, err
	}
	tc, err := classify.ExtractTypeCode(target, kind)
	if err != nil {
		return nil, nil, err
	}
	src, err := classify.Adapt(target)
	if err != nil {
		return nil, nil, err
	}

	c := &call{src: src, kind: kind, tc: tc, n: src.Len()}
	e.log.Debug("dispatch",
		"op", op,
		"container", kind.String(),
		"typecode", string(tc.Char()),
		"len", c.n,
	)
	return c, kernelFor(tc), nil
}

// Sum returns the sum of all elements, or the type's zero for an empty container.
func (e *Engine) Sum(target host.Value) (host.Value, error) {
	c, k, err := e.prepare("sum", target, false)
	if err != nil {
		return nil, fail("sum", err)
	}

	var out host.Value
	if par := e.cfg.ParallelSum; par.Enabled && c.n >= 2*par.MinChunkSize {
		e.log.Debug("partitioned sum", "len", c.n, "workers", par.NumWorkers)
		out, err = k.sumPartitioned(c, par)
	} else {
		out, err = k.sum(c)
	}
	if err != nil {
		return nil, fail("sum", err)
	}
	return out, nil
}

// Scale multiplies every element in place by factor cast to the element type.
func (e *Engine) Scale(target host.Value, factor float64) error {
	c, k, err := e.prepare("scale", target, true)
	if err != nil {
		return fail("scale", err)
	}
	if err := k.scale(c, factor); err != nil {
		return fail("scale", err)
	}
	return nil
}

// Map returns a new container of the same kind and element type holding fn(e)
// for every element e.
func (e *Engine) Map(target host.Value, fn host.Callable) (host.Value, error) {
	c, k, err := e.prepare("map", target, false)
	if err != nil {
		return nil, fail("map", err)
	}
	if fn == nil {
		return nil, fail("map", ErrMissingCallable)
	}
	if c.n == 0 {
		return e.empty("map", c)
	}
	out, err := k.mapValues(c, fn)
	if err != nil {
		return nil, fail("map", err)
	}
	return out, nil
}

// MapInPlace replaces every element e with fn(e).
func (e *Engine) MapInPlace(target host.Value, fn host.Callable) error {
	c, k, err := e.prepare("map_inplace", target, true)
	if err != nil {
		return fail("map_inplace", err)
	}
	if fn == nil {
		return fail("map_inplace", ErrMissingCallable)
	}
	if c.n == 0 {
		return nil
	}
	if err := k.mapInPlace(c, fn); err != nil {
		return fail("map_inplace", err)
	}
	return nil
}

// Filter returns a new container holding, in order, the elements for which
// pred returns true.
func (e *Engine) Filter(target host.Value, pred host.Callable) (host.Value, error) {
	c, k, err := e.prepare("filter", target, false)
	if err != nil {
		return nil, fail("filter", err)
	}
	if pred == nil {
		return nil, fail("filter", ErrMissingCallable)
	}
	if c.n == 0 {
		return e.empty("filter", c)
	}
	out, err := k.filter(c, pred)
	if err != nil {
		return nil, fail("filter", err)
	}
	return out, nil
}

// Reduce left-folds fn over the elements. Without an initial value the first
// element seeds the fold.
func (e *Engine) Reduce(target host.Value, fn host.Callable, initial host.Value, hasInitial bool) (host.Value, error) {
	c, k, err := e.prepare("reduce", target, false)
	if err != nil {
		return nil, fail("reduce", err)
	}
	if fn == nil {
		return nil, fail("reduce", ErrMissingCallable)
	}
	if c.n == 0 {
		if hasInitial {
			return initial, nil
		}
		return nil, fail("reduce", ErrEmptyReduceNoInitial)
	}
	out, err := k.reduce(c, fn, initial, hasInitial)
	if err != nil {
		return nil, fail("reduce", err)
	}
	return out, nil
}

// Do runs the operation named op with the fields of req it needs.
// Operations without a result return a nil value.
func (e *Engine) Do(op string, req Request) (host.Value, error) {
	switch op {
	case "sum":
		return e.Sum(req.Target)
	case "scale":
		return nil, e.Scale(req.Target, req.Factor)
	case "map":
		return e.Map(req.Target, req.Fn)
	case "map_inplace":
		return nil, e.MapInPlace(req.Target, req.Fn)
	case "filter":
		return e.Filter(req.Target, req.Fn)
	case "reduce":
		return e.Reduce(req.Target, req.Fn, req.Initial, req.HasInitial)
	default:
		return nil, &OpError{Op: op, Err: ErrUnknownOperation}
	}
}

// empty builds the empty result of an allocating operation without acquiring a view.
func (e *Engine) empty(op string, c *call) (host.Value, error) {
	out, err := result.BuildEmpty(c.tc, c.kind)
	if err != nil {
		return nil, fail(op, err)
	}
	return out, nil
}

// Operations returns the names accepted by Do.
func Operations() []string {
	return []string{"sum", "scale", "map", "map_inplace", "filter", "reduce"}
}
