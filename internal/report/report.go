// Package report renders access windows and closest-approach results for people.
//
// Every renderer builds its full output in memory and writes it in one call, so a
// failure never leaves half a report behind.
package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/star/scenario/internal/access"
	"github.com/star/scenario/internal/distance"
	"github.com/star/scenario/internal/epoch"
)

// TimeLayout is the calendar format used for window bounds. Fractional seconds are
// printed to the microsecond and omitted when zero.
const TimeLayout = "2006-01-02 15:04:05.999999 UTC"

// WindowLine formats window k (1-based) against anchor.
func WindowLine(k int, w access.Window, anchor epoch.Anchor) string {
	return fmt.Sprintf("Window %d: %s → %s (%.1f min)",
		k,
		anchor.At(w.Start).Format(TimeLayout),
		anchor.At(w.End).Format(TimeLayout),
		w.Duration()/60,
	)
}

// Windows writes a titled list of windows. An empty list is reported as such.
func Windows(w io.Writer, title string, windows []access.Window, anchor epoch.Anchor) error {
	var buf bytes.Buffer
	if title != "" {
		fmt.Fprintf(&buf, "%s\n", title)
	}
	if len(windows) == 0 {
		buf.WriteString("no access windows\n")
	}
	for i, win := range windows {
		buf.WriteString(WindowLine(i+1, win, anchor))
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// DistanceLine formats a closest approach. Distances are meters, times seconds.
func DistanceLine(r distance.Result) string {
	return fmt.Sprintf("minDistance: %.2f km, minWindowTime: %.2f h", r.MinDistance/1000, r.MinDistanceTime/3600)
}

// Distance writes the closest-approach report.
func Distance(w io.Writer, r distance.Result) error {
	_, err := io.WriteString(w, DistanceLine(r)+"\n")
	return err
}
