// Package trajectory holds a validated, immutable replay history of one body.
package trajectory

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/star/scenario/internal/metrics"
	"github.com/star/scenario/internal/validate"
)

// Sample is one time-tagged state of the replayed body.
type Sample struct {
	T        float64 // seconds since scenario start
	Position r3.Vec  // meters
	Velocity r3.Vec  // m/s
}

// Store is an ordered sequence of samples with strictly increasing times.
// Immutable after construction; safe for concurrent reads.
type Store struct {
	times      []float64
	positions  []r3.Vec
	velocities []r3.Vec
}

// NewStore validates and copies the given columns.
// It fails when the lengths differ, when fewer than two samples are given, or when
// times does not strictly increase.
func NewStore(times []float64, positions, velocities []r3.Vec) (*Store, error) {
	const op = "trajectory.NewStore"

	if len(positions) != len(times) {
		return nil, fail(op, validate.Mismatch(op, "positions", -1, len(times), len(positions)))
	}
	if len(velocities) != len(times) {
		return nil, fail(op, validate.Mismatch(op, "velocities", -1, len(times), len(velocities)))
	}
	if len(times) < 2 {
		e := validate.Mismatch(op, "samples", -1, ">= 2", len(times))
		e.Msg = "too few samples"
		return nil, fail(op, e)
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return nil, fail(op, validate.NotIncreasing(op, "t", i, times[i-1], times[i]))
		}
	}

	s := &Store{
		times:      append([]float64(nil), times...),
		positions:  append([]r3.Vec(nil), positions...),
		velocities: append([]r3.Vec(nil), velocities...),
	}
	metrics.SetTrajectorySamples(len(s.times))
	return s, nil
}

// FromSamples builds a Store from row-oriented samples.
func FromSamples(samples []Sample) (*Store, error) {
	times := make([]float64, len(samples))
	pos := make([]r3.Vec, len(samples))
	vel := make([]r3.Vec, len(samples))
	for i, s := range samples {
		times[i] = s.T
		pos[i] = s.Position
		vel[i] = s.Velocity
	}
	return NewStore(times, pos, vel)
}

func fail(op string, err *validate.Error) error {
	metrics.IncValidationFailure(op)
	return err
}

// Len returns the number of samples.
func (s *Store) Len() int { return len(s.times) }

// TimeAt returns the time of sample i.
func (s *Store) TimeAt(i int) float64 { return s.times[i] }

// PositionAt returns the position of sample i.
func (s *Store) PositionAt(i int) r3.Vec { return s.positions[i] }

// VelocityAt returns the velocity of sample i.
func (s *Store) VelocityAt(i int) r3.Vec { return s.velocities[i] }

// Sample returns sample i as a row.
func (s *Store) Sample(i int) Sample {
	return Sample{T: s.times[i], Position: s.positions[i], Velocity: s.velocities[i]}
}

// FirstTime returns the earliest sample time.
func (s *Store) FirstTime() float64 { return s.times[0] }

// LastTime returns the latest sample time.
func (s *Store) LastTime() float64 { return s.times[len(s.times)-1] }

// Times returns a copy of the time column.
func (s *Store) Times() []float64 {
	return append([]float64(nil), s.times...)
}
