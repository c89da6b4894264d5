// Package epoch maps scenario-relative seconds onto a calendar anchor for reporting.
package epoch

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// SpiceLayout is the anchor layout used by the engine's SPICE interface,
// e.g. "2026 January 04 15:00:00.0".
const SpiceLayout = "2006 January 02 15:04:05.999999999"

var layouts = []string{
	SpiceLayout,
	"2006 January 02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// Anchor is the UTC calendar time of scenario time zero.
type Anchor struct {
	t time.Time
}

// Parse reads an anchor in SpiceLayout or RFC 3339. Times without a zone are UTC.
func Parse(s string) (Anchor, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Anchor{t: t.UTC()}, nil
		}
	}
	return Anchor{}, fmt.Errorf("unrecognized epoch %q", s)
}

// New anchors at t.
func New(t time.Time) Anchor {
	return Anchor{t: t.UTC()}
}

// Time returns the anchor itself.
func (a Anchor) Time() time.Time { return a.t }

// At returns the calendar time sec seconds after the anchor, rounded to the
// nanosecond.
func (a Anchor) At(sec float64) time.Time {
	return a.t.Add(time.Duration(math.Round(sec * float64(time.Second))))
}

// String formats the anchor in SpiceLayout.
func (a Anchor) String() string {
	return a.t.Format(SpiceLayout)
}
