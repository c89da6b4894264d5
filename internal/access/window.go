// Package access turns a recorded boolean availability series into contiguous
// access windows.
package access

import (
	"math"

	"github.com/star/scenario/internal/metrics"
	"github.com/star/scenario/internal/validate"
)

// Sample is one recorded availability flag.
type Sample struct {
	T         float64 // seconds since scenario start
	HasAccess bool
}

// Window is a maximal run of true samples. End is the time of the first false sample
// after the run. Open marks a window still true at the end of the series: End is then
// the last sample time, not an observed loss of access.
type Window struct {
	Start float64
	End   float64
	Open  bool
}

// Duration returns End - Start in seconds.
func (w Window) Duration() float64 {
	return w.End - w.Start
}

// Extract scans samples once and returns their access windows in start order.
// An empty or never-true series yields no windows and no error. Times must not
// decrease or be NaN, and a repeated timestamp must repeat the same flag.
func Extract(samples []Sample) ([]Window, error) {
	const op = "access.Extract"

	var (
		windows     []Window
		inWindow    bool
		windowStart float64
	)
	for i, s := range samples {
		if math.IsNaN(s.T) {
			e := validate.Mismatch(op, "t", i, "number", s.T)
			e.Msg = "time is NaN"
			return nil, fail(op, e)
		}
		if i > 0 {
			prev := samples[i-1]
			switch {
			case !(s.T >= prev.T):
				return nil, fail(op, validate.NotIncreasing(op, "t", i, prev.T, s.T))
			case s.T == prev.T && s.HasAccess != prev.HasAccess:
				e := validate.Mismatch(op, "hasAccess", i, prev.HasAccess, s.HasAccess)
				e.Msg = "conflicting flags at identical timestamp"
				return nil, fail(op, e)
			}
		}

		switch {
		case s.HasAccess && !inWindow:
			windowStart = s.T
			inWindow = true
		case !s.HasAccess && inWindow:
			windows = append(windows, Window{Start: windowStart, End: s.T})
			inWindow = false
		}
	}

	if inWindow {
		windows = append(windows, Window{Start: windowStart, End: samples[len(samples)-1].T, Open: true})
	}

	metrics.AddAccessWindows(len(windows))
	return windows, nil
}

// FromSeries zips parallel recorder outputs into samples.
func FromSeries(times []float64, flags []bool) ([]Sample, error) {
	const op = "access.FromSeries"
	if len(times) != len(flags) {
		return nil, fail(op, validate.Mismatch(op, "flags", -1, len(times), len(flags)))
	}
	out := make([]Sample, len(times))
	for i := range times {
		out[i] = Sample{T: times[i], HasAccess: flags[i]}
	}
	return out, nil
}

// Reconstruct samples windows back onto times: true inside [Start, End), and also at
// End for an open window.
func Reconstruct(times []float64, windows []Window) []bool {
	out := make([]bool, len(times))
	for i, t := range times {
		for _, w := range windows {
			if t >= w.Start && (t < w.End || (w.Open && t == w.End)) {
				out[i] = true
				break
			}
		}
	}
	return out
}

func fail(op string, err *validate.Error) error {
	metrics.IncValidationFailure(op)
	return err
}
