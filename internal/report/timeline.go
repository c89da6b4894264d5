package report

import (
	"bytes"
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/star/scenario/internal/access"
)

// Timeline renders access as a post-step line (hours since start vs. 0/1) and
// returns the encoded image. format is an image extension such as "png" or "svg".
func Timeline(title string, samples []access.Sample, format string) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("timeline: no samples")
	}

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.T / 3600
		if s.HasAccess {
			pts[i].Y = 1
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time since start [hours]"
	p.Y.Label.Text = "Access (1 = Yes)"
	p.Y.Min = -0.1
	p.Y.Max = 1.1
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("timeline line: %w", err)
	}
	line.StepStyle = plotter.PostStep
	line.Width = vg.Points(1)
	p.Add(line)

	wt, err := p.WriterTo(8*vg.Inch, 3*vg.Inch, format)
	if err != nil {
		return nil, fmt.Errorf("timeline encoder: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("timeline render: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveTimeline renders a PNG timeline and writes it to path.
func SaveTimeline(path, title string, samples []access.Sample) error {
	img, err := Timeline(title, samples, "png")
	if err != nil {
		return err
	}
	return os.WriteFile(path, img, 0644)
}
