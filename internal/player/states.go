package player

import "gonum.org/v1/gonum/spatial/r3"

// SCStates is the body state block the engine reads from a state message.
// Attitude is an MRP set; the zero value is the identity attitude.
type SCStates struct {
	Position    r3.Vec     // r_BN_N, meters
	Velocity    r3.Vec     // v_BN_N, m/s
	Attitude    [3]float64 // sigma_BN
	AngularRate [3]float64 // omega_BN_B, rad/s
}

// Sink receives one state write per player tick.
type Sink interface {
	Write(SCStates)
}

// Message is a single-slot state message. The last write wins; Read returns it along
// with the number of writes so far so consumers can tell a stale slot from a fresh one.
type Message struct {
	payload SCStates
	writes  uint64
}

// Write replaces the payload.
func (m *Message) Write(s SCStates) {
	m.payload = s
	m.writes++
}

// Read returns the current payload and the write count.
func (m *Message) Read() (SCStates, uint64) {
	return m.payload, m.writes
}

// Hub is the mutable state block of a body whose dynamics the engine would
// otherwise integrate.
type Hub struct {
	Position r3.Vec // r_CN_N
	Velocity r3.Vec // v_CN_N
}

// HubSink overwrites a Hub's position and velocity directly. Attitude fields of the
// write are dropped since a Hub carries none.
type HubSink struct {
	Hub *Hub
}

// Write copies position and velocity into the hub.
func (h HubSink) Write(s SCStates) {
	h.Hub.Position = s.Position
	h.Hub.Velocity = s.Velocity
}
