package cli

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/arrayops/internal/engine"
	"github.com/born-ml/arrayops/internal/host"
	"github.com/born-ml/arrayops/internal/typecode"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	TypeCode  string
	Container string
	Factor    float64
	Fn        string
	Initial   string
}

// EvalResult is the payload of a successful eval.
type EvalResult struct {
	Op        string       `json:"op"`
	TypeCode  string       `json:"typecode"`
	Container string       `json:"container"`
	Result    host.Value   `json:"result,omitempty"`
	Values    []host.Value `json:"values,omitempty"`
}

// String renders the result for text output.
func (r EvalResult) String() string {
	if r.Values != nil {
		return formatValues(r.Values)
	}
	return fmt.Sprint(r.Result)
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <operation> [values...]",
		Short: "Run one operation over literal values",
		Long: `Run one operation over a buffer built from literal values.

Operations: sum, scale, map, map_inplace, filter, reduce.
map, map_inplace, filter and reduce take a built-in function via --fn:
  map, map_inplace: identity, double, square, negate, inc
  filter:           even, odd, positive, negative, nonzero
  reduce:           add, mul, max, min

Example:
  arrayops eval sum 1 2 3 4 5
  arrayops eval scale --typecode d --factor 2.5 1 2 3
  arrayops eval filter --fn even --container ndarray -- 1 2 3 4
  arrayops eval reduce --fn mul --initial 1 2 3 4`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.TypeCode, "typecode", "t", "i", "element type (b, B, h, H, i, I, l, L, f, d)")
	cmd.Flags().StringVarP(&opts.Container, "container", "c", "array", "container kind (array|ndarray|memoryview)")
	cmd.Flags().Float64Var(&opts.Factor, "factor", 1, "scale factor")
	cmd.Flags().StringVar(&opts.Fn, "fn", "", "built-in function for map, map_inplace, filter and reduce")
	cmd.Flags().StringVar(&opts.Initial, "initial", "", "initial value for reduce")

	return cmd
}

func runEval(opts *EvalOptions, op string, literals []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	log := loggerOf(opts.RootOptions)

	if !slices.Contains(engine.Operations(), op) {
		return invalidArgument(formatter, fmt.Errorf("unknown operation %q: must be one of %v", op, engine.Operations()))
	}
	tc, err := typecode.ParseString(opts.TypeCode)
	if err != nil {
		return invalidArgument(formatter, err)
	}
	values, err := parseValues(tc, literals)
	if err != nil {
		return invalidArgument(formatter, err)
	}
	fn, err := lookupFunc(op, opts.Fn)
	if err != nil {
		return invalidArgument(formatter, err)
	}
	target, err := newContainer(opts.Container, tc.Char(), values)
	if err != nil {
		return invalidArgument(formatter, err)
	}

	req := engine.Request{Target: target, Fn: fn, Factor: opts.Factor}
	if opts.Initial != "" {
		initial, err := parseValue(tc, opts.Initial)
		if err != nil {
			return invalidArgument(formatter, fmt.Errorf("--initial: %w", err))
		}
		req.Initial, req.HasInitial = initial, true
	}

	formatter.VerboseLog("%s over %s of %d %s elements", op, opts.Container, len(values), tc)
	out, err := engine.New(engine.WithLogger(log)).Do(op, req)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, op+" failed", err)
	}

	res := EvalResult{Op: op, TypeCode: opts.TypeCode, Container: opts.Container}
	switch op {
	case "scale", "map_inplace":
		res.Values, err = valuesOf(target)
	case "map", "filter":
		res.Values, err = valuesOf(out)
	default:
		res.Result = out
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read result", err)
	}
	return formatter.Success(res)
}

func invalidArgument(f *OutputFormatter, err error) error {
	_ = f.Error(ErrCodeInvalidArgument, err.Error(), nil)
	return WrapExitError(ExitCommandError, "invalid argument", err)
}

// parseValues converts command-line literals to host numbers for tc.
func parseValues(tc typecode.TypeCode, literals []string) ([]host.Value, error) {
	values := make([]host.Value, len(literals))
	for i, s := range literals {
		v, err := parseValue(tc, s)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

func parseValue(tc typecode.TypeCode, s string) (host.Value, error) {
	if tc.IsFloat() {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q", s)
		}
		return f, nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return host.Uint(u), nil
}

func newContainer(kind string, tag byte, values []host.Value) (host.Value, error) {
	switch kind {
	case "array":
		return host.NewFixedArray(tag, values...)
	case "ndarray":
		return host.NewNDArray(tag, values...)
	case "memoryview":
		arr, err := host.NewFixedArray(tag, values...)
		if err != nil {
			return nil, err
		}
		return host.NewMemoryView(arr)
	default:
		return nil, fmt.Errorf("unknown container %q: must be one of array, ndarray, memoryview", kind)
	}
}

func valuesOf(v host.Value) ([]host.Value, error) {
	switch c := v.(type) {
	case *host.FixedArray:
		return c.Values(), nil
	case *host.NDArray:
		return c.Values(), nil
	case *host.MemoryView:
		return c.Values()
	default:
		return nil, errors.New("result is not a container")
	}
}

func formatValues(values []host.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
