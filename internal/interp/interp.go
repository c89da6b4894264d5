// Package interp answers state queries against a trajectory store by linear
// interpolation between bracketing samples, clamping outside the recorded range.
package interp

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/star/scenario/internal/trajectory"
)

// Edge identifies which boundary policy answered a query.
type Edge int

const (
	Inside Edge = iota
	Low         // query at or before the first sample
	High        // query at or after the last sample
)

func (e Edge) String() string {
	switch e {
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return "inside"
	}
}

// Interpolator reads a shared, immutable store. It holds no mutable state, so one
// value may serve any number of callers.
type Interpolator struct {
	store *trajectory.Store
}

// New returns an Interpolator over store.
func New(store *trajectory.Store) *Interpolator {
	return &Interpolator{store: store}
}

// Store returns the underlying store.
func (p *Interpolator) Store() *trajectory.Store {
	return p.store
}

// Edge reports which policy At applies for t.
func (p *Interpolator) Edge(t float64) Edge {
	switch {
	case !(t > p.store.FirstTime()):
		// NaN fails every comparison and lands here too.
		return Low
	case t >= p.store.LastTime():
		return High
	default:
		return Inside
	}
}

// At returns position and velocity at time t.
// Stored sample times return the sample verbatim; no value is ever extrapolated.
func (p *Interpolator) At(t float64) (pos, vel r3.Vec) {
	s := p.store
	switch p.Edge(t) {
	case Low:
		return s.PositionAt(0), s.VelocityAt(0)
	case High:
		last := s.Len() - 1
		return s.PositionAt(last), s.VelocityAt(last)
	}

	i := p.bracket(t)
	t0, t1 := s.TimeAt(i), s.TimeAt(i+1)
	w := (t - t0) / (t1 - t0)
	if w == 0 {
		return s.PositionAt(i), s.VelocityAt(i)
	}
	return lerp(s.PositionAt(i), s.PositionAt(i+1), w), lerp(s.VelocityAt(i), s.VelocityAt(i+1), w)
}

// bracket returns i with TimeAt(i) <= t < TimeAt(i+1). first < t < last must hold.
func (p *Interpolator) bracket(t float64) int {
	s := p.store
	// First index whose time is strictly after t; always in [1, Len-1].
	j := sort.Search(s.Len(), func(k int) bool { return s.TimeAt(k) > t })
	return j - 1
}

func lerp(a, b r3.Vec, w float64) r3.Vec {
	return r3.Add(a, r3.Scale(w, r3.Sub(b, a)))
}
