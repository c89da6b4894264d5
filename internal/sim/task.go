// Package sim is a minimal fixed-rate stepping harness with the engine's model
// contract: models run once per tick in descending priority order.
//
// It stands in for the external engine so a replay scenario can be driven end to end
// without it; it integrates nothing.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/star/scenario/internal/metrics"
)

// DefaultPriority is the priority the engine assigns when none is given.
const DefaultPriority = -1

// Model is anything the task invokes once per tick with the current clock in
// nanoseconds.
type Model interface {
	UpdateState(currentNanos uint64)
}

type entry struct {
	model    Model
	priority int
}

// Task runs its models at a fixed rate.
type Task struct {
	name    string
	rate    uint64
	models  []entry
	logger  *slog.Logger
	current uint64
}

// NewTask creates a task stepping every rate nanoseconds.
func NewTask(name string, rate uint64, logger *slog.Logger) (*Task, error) {
	if rate == 0 {
		return nil, fmt.Errorf("task %q: rate must be positive", name)
	}
	return &Task{name: name, rate: rate, logger: logger}, nil
}

// AddModel registers m at priority. Higher priorities run first within a tick;
// equal priorities keep registration order.
func (t *Task) AddModel(m Model, priority int) {
	t.models = append(t.models, entry{model: m, priority: priority})
	sort.SliceStable(t.models, func(i, j int) bool {
		return t.models[i].priority > t.models[j].priority
	})
}

// Rate returns the tick interval in nanoseconds.
func (t *Task) Rate() uint64 { return t.rate }

// CurrentNanos returns the clock of the last executed tick.
func (t *Task) CurrentNanos() uint64 { return t.current }

// Run executes ticks at 0, rate, 2*rate, ... up to and including stop.
// It checks ctx between ticks and returns the number of ticks executed.
func (t *Task) Run(ctx context.Context, stop uint64) (int, error) {
	start := time.Now()
	t.logger.Info("simulation starting",
		"task", t.name,
		"models", len(t.models),
		"rate_seconds", float64(t.rate)/1e9,
		"stop_seconds", float64(stop)/1e9,
	)

	var ticks int
	for now := uint64(0); now <= stop; now += t.rate {
		select {
		case <-ctx.Done():
			return ticks, ctx.Err()
		default:
		}

		t.current = now
		for _, e := range t.models {
			e.model.UpdateState(now)
		}
		ticks++

		if stop-now < t.rate {
			break // next step would pass stop, or overflow
		}
	}

	duration := time.Since(start)
	metrics.ObserveRunDuration(duration)
	t.logger.Info("simulation complete",
		"task", t.name,
		"ticks", ticks,
		"duration_ms", duration.Milliseconds(),
	)
	return ticks, nil
}
