// Package distance compares two time-aligned position series.
package distance

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/star/scenario/internal/metrics"
	"github.com/star/scenario/internal/validate"
)

// Result is the closest approach found at the sampled indices.
type Result struct {
	MinDistance     float64 // same unit as the inputs
	MinDistanceTime float64 // seconds
	Index           int
}

// Pointwise returns |a[i] - b[i]| for every i. a and b must have equal length.
func Pointwise(a, b []r3.Vec) ([]float64, error) {
	const op = "distance.Pointwise"
	if len(a) != len(b) {
		return nil, fail(op, validate.Mismatch(op, "seriesB", -1, len(a), len(b)))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = r3.Norm(r3.Sub(a[i], b[i]))
	}
	return out, nil
}

// Analyze returns the minimum pointwise distance and the time it occurs. Ties go to
// the earliest index. No interpolation is done between samples.
func Analyze(a, b []r3.Vec, times []float64) (Result, error) {
	const op = "distance.Analyze"
	if len(a) == 0 {
		e := validate.Mismatch(op, "seriesA", -1, ">= 1", 0)
		e.Msg = "empty series"
		return Result{}, fail(op, e)
	}
	if len(times) != len(a) {
		return Result{}, fail(op, validate.Mismatch(op, "times", -1, len(a), len(times)))
	}

	d, err := Pointwise(a, b)
	if err != nil {
		return Result{}, err
	}

	i := floats.MinIdx(d)
	return Result{MinDistance: d[i], MinDistanceTime: times[i], Index: i}, nil
}

func fail(op string, err *validate.Error) error {
	metrics.IncValidationFailure(op)
	return err
}
