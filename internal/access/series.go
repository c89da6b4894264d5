package access

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/star/scenario/internal/validate"
)

// LoadSeries opens path and reads it with ReadSeries.
func LoadSeries(path string, logger *slog.Logger) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening access series: %w", err)
	}
	defer f.Close()

	samples, err := ReadSeries(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return samples, nil
}

// ReadSeries parses a header-less "time,flag" CSV. Flags accept anything
// strconv.ParseBool does (0/1, true/false) plus a numeric value, where non-zero
// means access.
func ReadSeries(r io.Reader, logger *slog.Logger) ([]Sample, error) {
	const op = "access.ReadSeries"

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var samples []Sample
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading access series: %w", err)
		}
		if len(rec) < 2 {
			e := validate.Mismatch(op, "columns", row, ">= 2", len(rec))
			e.Msg = "too few columns"
			return nil, fail(op, e)
		}

		t, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			e := validate.Mismatch(op, "time", row, "number", strconv.Quote(rec[0]))
			e.Msg = "bad field"
			return nil, fail(op, e)
		}
		flag, err := parseFlag(rec[1])
		if err != nil {
			e := validate.Mismatch(op, "flag", row, "boolean", strconv.Quote(rec[1]))
			e.Msg = "bad field"
			return nil, fail(op, e)
		}
		samples = append(samples, Sample{T: t, HasAccess: flag})
	}

	logger.Info("access series loaded", "samples", len(samples))
	return samples, nil
}

func parseFlag(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if b, err := strconv.ParseBool(s); err == nil {
		return b, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}
