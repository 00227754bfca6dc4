package cli

import (
	"github.com/spf13/cobra"

	"github.com/born-ml/arrayops/internal/bench"
)

// BenchOptions holds flags for the bench command.
type BenchOptions struct {
	*RootOptions
	Plan       string
	TypeCode   string
	Container  string
	Sizes      []int
	Operations []string
	Iterations int
	Warmup     int
	Parallel   bool

	// IDGenerator overrides the run ID source (for testing).
	IDGenerator func() string
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BenchOptions{RootOptions: rootOpts}
	def := bench.DefaultPlan()

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark operations",
		Long: `Benchmark operations over generated buffers.

Each operation runs --warmup untimed calls, then --iterations timed calls.
The minimum time is the headline figure. A YAML plan given with --plan
replaces the other flags.

Example:
  arrayops bench --sizes 1000,1000000 --operations sum,scale
  arrayops bench --plan ./plans/float64.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Plan, "plan", "", "path to a YAML benchmark plan")
	cmd.Flags().StringVarP(&opts.TypeCode, "typecode", "t", def.TypeCode, "element type")
	cmd.Flags().StringVarP(&opts.Container, "container", "c", def.Container, "container kind (array|ndarray|memoryview)")
	cmd.Flags().IntSliceVar(&opts.Sizes, "sizes", def.Sizes, "buffer sizes")
	cmd.Flags().StringSliceVar(&opts.Operations, "operations", def.Operations, "operations to time")
	cmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", def.Iterations, "timed calls per operation")
	cmd.Flags().IntVar(&opts.Warmup, "warmup", def.Warmup, "untimed calls before timing")
	cmd.Flags().BoolVar(&opts.Parallel, "parallel", false, "enable the partitioned sum")

	return cmd
}

func runBench(opts *BenchOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	plan, err := opts.plan()
	if err != nil {
		_ = formatter.Error(ErrCodePlan, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid benchmark plan", err)
	}
	formatter.VerboseLog("Running plan %s: sizes %v, operations %v", plan.Name, plan.Sizes, plan.Operations)

	runner := bench.NewRunner(
		bench.WithLogger(loggerOf(opts.RootOptions)),
		bench.WithIDGenerator(opts.IDGenerator),
	)
	report, err := runner.Run(cmd.Context(), plan)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "benchmark failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}
	return report.WriteText(formatter.Writer)
}

// plan loads --plan or builds a plan from the flags.
func (o *BenchOptions) plan() (*bench.Plan, error) {
	if o.Plan != "" {
		return bench.LoadPlan(o.Plan)
	}
	plan := bench.DefaultPlan()
	plan.Name = "cli"
	plan.TypeCode = o.TypeCode
	plan.Container = o.Container
	plan.Sizes = o.Sizes
	plan.Operations = o.Operations
	plan.Iterations = o.Iterations
	plan.Warmup = o.Warmup
	plan.Parallel = o.Parallel
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}
