package engine

import (
	"io"
	"log/slog"

	"github.com/born-ml/arrayops/internal/parallel"
)

// Config controls engine behavior.
type Config struct {
	// Logger receives debug records for dispatch decisions. Defaults to a discarding logger.
	Logger *slog.Logger

	// ParallelSum enables the partitioned sum for large buffers.
	// Disabled by default: sum is then a strict left-to-right fold.
	ParallelSum parallel.Config
}

// DefaultConfig returns a sequential engine configuration with logging discarded.
func DefaultConfig() Config {
	par := parallel.DefaultConfig()
	par.Enabled = false
	return Config{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		ParallelSum: par,
	}
}

// Option configures an Engine.
type Option func(*Config)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithParallelSum enables the partitioned sum with the given worker settings.
// Float partial sums are combined in partition order, so results can differ from
// the sequential fold by rounding.
func WithParallelSum(cfg parallel.Config) Option {
	return func(c *Config) {
		c.ParallelSum = cfg
	}
}
