package bench

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/arrayops/internal/classify"
	"github.com/born-ml/arrayops/internal/engine"
	"github.com/born-ml/arrayops/internal/typecode"
)

// Plan describes one benchmark run.
type Plan struct {
	// Name labels the run in reports.
	Name string `yaml:"name"`

	// TypeCode is the element tag of the benchmarked buffers, e.g. "i".
	TypeCode string `yaml:"typecode"`

	// Container is the buffer kind: "array", "ndarray" or "memoryview".
	Container string `yaml:"container,omitempty"`

	// Sizes lists the element counts to benchmark.
	Sizes []int `yaml:"sizes"`

	// Operations lists the operations to time. Empty means all.
	Operations []string `yaml:"operations,omitempty"`

	// Iterations is the number of timed runs per operation and size.
	Iterations int `yaml:"iterations"`

	// Warmup is the number of untimed runs before timing starts.
	Warmup int `yaml:"warmup"`

	// Factor is the scale factor. Defaults to 2.
	Factor float64 `yaml:"factor,omitempty"`

	// Parallel enables the partitioned sum.
	Parallel bool `yaml:"parallel,omitempty"`
}

// Container kinds accepted in plans.
const (
	ContainerArray      = "array"
	ContainerNDArray    = "ndarray"
	ContainerMemoryView = "memoryview"
)

// DefaultPlan returns the standard run: one million int32 elements,
// 100 iterations after 10 warmup runs, every operation.
func DefaultPlan() *Plan {
	return &Plan{
		Name:       "default",
		TypeCode:   "i",
		Container:  ContainerArray,
		Sizes:      []int{1_000_000},
		Operations: engine.Operations(),
		Iterations: 100,
		Warmup:     10,
		Factor:     2,
	}
}

// LoadPlan reads a YAML plan file. Unknown fields are rejected.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes and validates a YAML plan, filling defaults.
func ParsePlan(data []byte) (*Plan, error) {
	var plan Plan
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	plan.applyDefaults()
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	return &plan, nil
}

func (p *Plan) applyDefaults() {
	if p.Container == "" {
		p.Container = ContainerArray
	}
	if len(p.Operations) == 0 {
		p.Operations = engine.Operations()
	}
	if p.Factor == 0 {
		p.Factor = 2
	}
}

// Validate checks that the plan can be run.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := typecode.ParseString(p.TypeCode); err != nil {
		return err
	}
	if _, err := p.kind(); err != nil {
		return err
	}
	if len(p.Sizes) == 0 {
		return fmt.Errorf("sizes list is required and must be non-empty")
	}
	for i, n := range p.Sizes {
		if n < 0 {
			return fmt.Errorf("sizes[%d]: must not be negative, got %d", i, n)
		}
	}
	if p.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", p.Iterations)
	}
	if p.Warmup < 0 {
		return fmt.Errorf("warmup must not be negative, got %d", p.Warmup)
	}
	known := engine.Operations()
	for i, op := range p.Operations {
		if !slices.Contains(known, op) {
			return fmt.Errorf("operations[%d]: unknown operation %q", i, op)
		}
	}
	return nil
}

func (p *Plan) kind() (classify.InputType, error) {
	switch p.Container {
	case ContainerArray:
		return classify.FixedArray, nil
	case ContainerNDArray:
		return classify.NDArray, nil
	case ContainerMemoryView:
		return classify.MemoryView, nil
	default:
		return 0, fmt.Errorf("unknown container %q: must be one of %s, %s, %s",
			p.Container, ContainerArray, ContainerNDArray, ContainerMemoryView)
	}
}
