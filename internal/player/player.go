// Package player replays a recorded trajectory into an engine state sink, one write
// per simulation tick.
package player

import (
	"log/slog"
	"math"

	"github.com/star/scenario/internal/interp"
	"github.com/star/scenario/internal/metrics"
)

// NanosPerSecond is the engine clock scale: one tick is one nanosecond.
const NanosPerSecond = 1e9

// Seconds converts an engine tick count to seconds. Whole-second ticks convert exactly.
func Seconds(nanos uint64) float64 {
	return float64(nanos) / NanosPerSecond
}

// Nanos converts seconds to the nearest engine tick count. Negative input yields 0.
func Nanos(sec float64) uint64 {
	if !(sec > 0) {
		return 0
	}
	return uint64(math.Round(sec * NanosPerSecond))
}

// DefaultPriority runs the player ahead of every model registered at the engine's
// default priorities, so its write is visible to same-tick consumers.
const DefaultPriority = 99

// Player writes interpolated state into its sink on every UpdateState call.
// It keeps no per-tick state: the same tick always produces the same write.
type Player struct {
	tag      string
	interp   *interp.Interpolator
	sink     Sink
	priority int
	logger   *slog.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithPriority sets the registration priority. Higher runs earlier in a tick.
func WithPriority(p int) Option {
	return func(pl *Player) { pl.priority = p }
}

// WithTag sets the model tag used in logs.
func WithTag(tag string) Option {
	return func(pl *Player) { pl.tag = tag }
}

// New creates a player that replays ip into sink.
func New(ip *interp.Interpolator, sink Sink, logger *slog.Logger, opts ...Option) *Player {
	p := &Player{
		tag:      "trajectory_player",
		interp:   ip,
		sink:     sink,
		priority: DefaultPriority,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}

	s := ip.Store()
	logger.Info("trajectory player initialized",
		"tag", p.tag,
		"priority", p.priority,
		"samples", s.Len(),
		"first_time", s.FirstTime(),
		"last_time", s.LastTime(),
	)
	return p
}

// Tag returns the player's model tag.
func (p *Player) Tag() string { return p.tag }

// Priority returns the registration priority.
func (p *Player) Priority() int { return p.priority }

// UpdateState converts the tick to seconds and writes the interpolated state.
func (p *Player) UpdateState(currentNanos uint64) {
	t := Seconds(currentNanos)

	if edge := p.interp.Edge(t); edge != interp.Inside {
		metrics.IncClamp(edge.String())
	}
	pos, vel := p.interp.At(t)

	p.sink.Write(SCStates{Position: pos, Velocity: vel})
	metrics.IncPlayerTicks()
}
