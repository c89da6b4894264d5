package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/star/scenario/internal/player"
)

// Body publishes a hub's state into its output message each tick, the way an engine
// spacecraft with dynamics disabled does.
type Body struct {
	Tag string
	Hub *player.Hub
	Out *player.Message
}

// NewBody returns a body with a fresh hub and output message.
func NewBody(tag string, initPos, initVel r3.Vec) *Body {
	return &Body{
		Tag: tag,
		Hub: &player.Hub{Position: initPos, Velocity: initVel},
		Out: &player.Message{},
	}
}

// UpdateState copies the hub into the output message.
func (b *Body) UpdateState(uint64) {
	b.Out.Write(player.SCStates{Position: b.Hub.Position, Velocity: b.Hub.Velocity})
}

// Recorder samples a state message every interval nanoseconds.
// An interval of zero samples every tick.
type Recorder struct {
	in       *player.Message
	interval uint64
	next     uint64
	started  bool

	times  []float64
	states []player.SCStates
}

// NewRecorder creates a recorder reading from in.
func NewRecorder(in *player.Message, interval uint64) *Recorder {
	return &Recorder{in: in, interval: interval}
}

// UpdateState records the message when the sampling time is due.
func (r *Recorder) UpdateState(currentNanos uint64) {
	if r.started && currentNanos < r.next {
		return
	}
	r.started = true
	r.next = currentNanos + r.interval

	s, _ := r.in.Read()
	r.times = append(r.times, player.Seconds(currentNanos))
	r.states = append(r.states, s)
}

// Len returns the number of recorded samples.
func (r *Recorder) Len() int { return len(r.times) }

// Times returns the recorded sample times in seconds.
func (r *Recorder) Times() []float64 {
	return append([]float64(nil), r.times...)
}

// Positions returns the recorded positions.
func (r *Recorder) Positions() []r3.Vec {
	out := make([]r3.Vec, len(r.states))
	for i, s := range r.states {
		out[i] = s.Position
	}
	return out
}

// States returns the recorded state blocks.
func (r *Recorder) States() []player.SCStates {
	return append([]player.SCStates(nil), r.states...)
}

// WriteCSV writes one "t,x,y,z,vx,vy,vz" row per recorded sample.
func (r *Recorder) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	rec := make([]string, 7)
	for i, s := range r.states {
		rec[0] = formatFloat(r.times[i])
		rec[1] = formatFloat(s.Position.X)
		rec[2] = formatFloat(s.Position.Y)
		rec[3] = formatFloat(s.Position.Z)
		rec[4] = formatFloat(s.Velocity.X)
		rec[5] = formatFloat(s.Velocity.Y)
		rec[6] = formatFloat(s.Velocity.Z)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing recorder row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
