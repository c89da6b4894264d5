package trajectory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/star/scenario/internal/validate"
)

// Table layout: col 0 is time, cols 1-6 and 7-12 are the states of two reference
// bodies (unused here), cols 13-18 are x y z vx vy vz of the replayed body.
const (
	timeColumn = 0
	bodyColumn = 13
	MinColumns = 19
)

// LoadTable opens path and reads it with ReadTable.
func LoadTable(path string, logger *slog.Logger) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trajectory table: %w", err)
	}
	defer f.Close()

	s, err := ReadTable(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ReadTable parses a header-less CSV trajectory table from r.
// Every row must carry at least MinColumns numeric fields and the time column must
// strictly increase.
func ReadTable(r io.Reader, logger *slog.Logger) (*Store, error) {
	const op = "trajectory.ReadTable"

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // column count is checked per row below
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var samples []Sample
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading trajectory table: %w", err)
		}
		if len(rec) < MinColumns {
			e := validate.Mismatch(op, "columns", row, fmt.Sprintf(">= %d", MinColumns), len(rec))
			e.Msg = "too few columns"
			return nil, fail(op, e)
		}

		var vals [7]float64
		for k, col := range []int{timeColumn, bodyColumn, bodyColumn + 1, bodyColumn + 2, bodyColumn + 3, bodyColumn + 4, bodyColumn + 5} {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
			if err != nil {
				e := validate.Mismatch(op, "col"+strconv.Itoa(col), row, "number", strconv.Quote(rec[col]))
				e.Msg = "bad field"
				return nil, fail(op, e)
			}
			vals[k] = v
		}

		samples = append(samples, Sample{
			T:        vals[0],
			Position: r3.Vec{X: vals[1], Y: vals[2], Z: vals[3]},
			Velocity: r3.Vec{X: vals[4], Y: vals[5], Z: vals[6]},
		})
	}

	s, err := FromSamples(samples)
	if err != nil {
		return nil, err
	}

	logger.Info("trajectory loaded",
		"samples", s.Len(),
		"first_time", s.FirstTime(),
		"last_time", s.LastTime(),
	)
	return s, nil
}
