// Package bench times arrayops operations over generated buffers.
//
// A run follows the methodology of the project's benchmark scripts: for each
// operation and buffer size, a number of untimed warmup calls, then a fixed
// number of timed calls. The minimum time is the headline figure; mean and
// maximum are reported alongside it.
//
// Plans come from DefaultPlan or from YAML files:
//
//	name: int32-1m
//	typecode: i
//	container: ndarray
//	sizes: [1000, 1000000]
//	operations: [sum, scale]
//	iterations: 100
//	warmup: 10
//
// Buffers hold i % 1000 (i % 100 for 1-byte types) so integer sums stay small.
package bench
