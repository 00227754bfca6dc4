package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/born-ml/arrayops/internal/host"
)

// Built-in callbacks selectable with --fn.
var (
	mapFuncs = map[string]host.Callable{
		"identity": host.Unary(func(v host.Value) host.Value { return v }),
		"double":   unary(func(x int64) int64 { return x * 2 }, func(x float64) float64 { return x * 2 }),
		"square":   unary(func(x int64) int64 { return x * x }, func(x float64) float64 { return x * x }),
		"negate":   unary(func(x int64) int64 { return -x }, func(x float64) float64 { return -x }),
		"inc":      unary(func(x int64) int64 { return x + 1 }, func(x float64) float64 { return x + 1 }),
	}

	filterFuncs = map[string]host.Callable{
		"even":     unary(func(x int64) bool { return x%2 == 0 }, func(x float64) bool { return int64(x)%2 == 0 && x == float64(int64(x)) }),
		"odd":      unary(func(x int64) bool { return x%2 != 0 }, func(x float64) bool { return int64(x)%2 != 0 && x == float64(int64(x)) }),
		"positive": unary(func(x int64) bool { return x > 0 }, func(x float64) bool { return x > 0 }),
		"negative": unary(func(x int64) bool { return x < 0 }, func(x float64) bool { return x < 0 }),
		"nonzero":  unary(func(x int64) bool { return x != 0 }, func(x float64) bool { return x != 0 }),
	}

	reduceFuncs = map[string]host.Callable{
		"add": binary(func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }),
		"mul": binary(func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }),
		"max": binary(func(a, b int64) int64 { return max(a, b) }, func(a, b float64) float64 { return max(a, b) }),
		"min": binary(func(a, b int64) int64 { return min(a, b) }, func(a, b float64) float64 { return min(a, b) }),
	}
)

// funcsFor returns the built-in callbacks usable with op.
func funcsFor(op string) map[string]host.Callable {
	switch op {
	case "map", "map_inplace":
		return mapFuncs
	case "filter":
		return filterFuncs
	case "reduce":
		return reduceFuncs
	default:
		return nil
	}
}

// lookupFunc resolves the --fn name for op.
func lookupFunc(op, name string) (host.Callable, error) {
	funcs := funcsFor(op)
	if funcs == nil {
		return nil, nil
	}
	if name == "" {
		return nil, fmt.Errorf("%s requires --fn (one of %v)", op, funcNames(funcs))
	}
	fn, ok := funcs[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q for %s: must be one of %v", name, op, funcNames(funcs))
	}
	return fn, nil
}

func funcNames(funcs map[string]host.Callable) []string {
	return slices.Sorted(maps.Keys(funcs))
}

// unary applies fi to integer arguments and ff to everything else numeric.
func unary[RI, RF any](fi func(int64) RI, ff func(float64) RF) host.Callable {
	return host.Func(func(args ...host.Value) (host.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		if host.IsInteger(args[0]) {
			x, err := host.Int64Of(args[0])
			if err != nil {
				return nil, err
			}
			return fi(x), nil
		}
		x, err := host.Float64Of(args[0])
		if err != nil {
			return nil, err
		}
		return ff(x), nil
	})
}

func binary(fi func(a, b int64) int64, ff func(a, b float64) float64) host.Callable {
	return host.Func(func(args ...host.Value) (host.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected 2 arguments, got %d", len(args))
		}
		if host.IsInteger(args[0]) && host.IsInteger(args[1]) {
			a, err := host.Int64Of(args[0])
			if err != nil {
				return nil, err
			}
			b, err := host.Int64Of(args[1])
			if err != nil {
				return nil, err
			}
			return fi(a, b), nil
		}
		a, err := host.Float64Of(args[0])
		if err != nil {
			return nil, err
		}
		b, err := host.Float64Of(args[1])
		if err != nil {
			return nil, err
		}
		return ff(a, b), nil
	})
}
