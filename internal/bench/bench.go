package bench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/born-ml/arrayops/internal/classify"
	"github.com/born-ml/arrayops/internal/engine"
	"github.com/born-ml/arrayops/internal/host"
	"github.com/born-ml/arrayops/internal/parallel"
)

// Runner executes plans.
type Runner struct {
	log   *slog.Logger
	newID func() string
	now   func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for progress records.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithIDGenerator overrides the run ID source. Defaults to UUIDv7.
func WithIDGenerator(gen func() string) Option {
	return func(r *Runner) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// WithClock overrides the time source used for timing.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run times every operation of plan at every size.
// It stops at the first failing operation or when ctx is done.
func (r *Runner) Run(ctx context.Context, plan *Plan) (*Report, error) {
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	kind, err := plan.kind()
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     r.newID(),
		Plan:      plan.Name,
		TypeCode:  plan.TypeCode,
		Container: plan.Container,
		StartedAt: r.now().UTC(),
	}
	log := r.log.With("run_id", report.RunID)

	opts := []engine.Option{engine.WithLogger(r.log)}
	if plan.Parallel {
		opts = append(opts, engine.WithParallelSum(parallel.DefaultConfig()))
	}
	e := engine.New(opts...)

	log.Info("bench starting", "plan", plan.Name, "sizes", plan.Sizes, "operations", plan.Operations)
	for _, size := range plan.Sizes {
		target, err := buildTarget(kind, plan.TypeCode[0], size)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s of %d elements: %w", plan.Container, size, err)
		}
		for _, op := range plan.Operations {
			req := requestFor(op, target, plan.Factor)
			stats, err := r.measure(ctx, plan.Warmup, plan.Iterations, func() error {
				_, err := e.Do(op, req)
				return err
			})
			if err != nil {
				return nil, fmt.Errorf("%s at size %d: %w", op, size, err)
			}
			log.Debug("operation timed", "op", op, "size", size, "min", stats.Min)
			report.Results = append(report.Results, Result{Op: op, Size: size, Stats: stats})
		}
	}
	log.Info("bench finished", "results", len(report.Results))
	return report, nil
}

// measure runs fn warmup times untimed, then iterations times timed.
func (r *Runner) measure(ctx context.Context, warmup, iterations int, fn func() error) (Stats, error) {
	for range warmup {
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
		if err := fn(); err != nil {
			return Stats{}, err
		}
	}

	stats := Stats{Iterations: iterations, Min: time.Duration(math.MaxInt64)}
	var total time.Duration
	for range iterations {
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
		start := r.now()
		if err := fn(); err != nil {
			return Stats{}, err
		}
		d := r.now().Sub(start)
		total += d
		stats.Min = min(stats.Min, d)
		stats.Max = max(stats.Max, d)
	}
	stats.Mean = total / time.Duration(iterations)
	return stats, nil
}

// buildTarget creates a container of kind holding n generated elements.
func buildTarget(kind classify.InputType, tag byte, n int) (host.Value, error) {
	mod := 1000
	if size, _ := host.ItemSize(tag); size == 1 {
		mod = 100
	}
	values := make([]host.Value, n)
	for i := range values {
		values[i] = int64(i % mod)
	}

	switch kind {
	case classify.NDArray:
		return host.NewNDArray(tag, values...)
	case classify.MemoryView:
		arr, err := host.NewFixedArray(tag, values...)
		if err != nil {
			return nil, err
		}
		return host.NewMemoryView(arr)
	default:
		return host.NewFixedArray(tag, values...)
	}
}

// requestFor returns the arguments used to time op.
func requestFor(op string, target host.Value, factor float64) engine.Request {
	req := engine.Request{Target: target, Factor: factor}
	switch op {
	case "map", "map_inplace":
		req.Fn = identity
	case "filter":
		req.Fn = nonZero
	case "reduce":
		req.Fn = add
		req.Initial = int64(0)
		req.HasInitial = true
	}
	return req
}

var (
	identity = host.Unary(func(v host.Value) host.Value { return v })

	nonZero = host.Unary(func(v host.Value) host.Value {
		switch x := v.(type) {
		case float64:
			return x != 0
		case uint64:
			return x != 0
		default:
			return x != int64(0)
		}
	})

	add = host.Func(func(args ...host.Value) (host.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("add: expected 2 arguments, got %d", len(args))
		}
		if host.IsInteger(args[0]) && host.IsInteger(args[1]) {
			x, err := host.Int64Of(args[0])
			if err != nil {
				return nil, err
			}
			y, err := host.Int64Of(args[1])
			if err != nil {
				return nil, err
			}
			return x + y, nil
		}
		a, err := host.Float64Of(args[0])
		if err != nil {
			return nil, err
		}
		b, err := host.Float64Of(args[1])
		if err != nil {
			return nil, err
		}
		return a + b, nil
	})
)
