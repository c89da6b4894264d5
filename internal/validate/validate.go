// Package validate defines the input validation error shared by the scenario packages.
//
// Every setup-time check (table shape, time monotonicity, sequence lengths) reports a
// *Error. Callers match it with errors.Is(err, ErrInvalid) or errors.As.
package validate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is matched by every *Error.
var ErrInvalid = errors.New("invalid input")

// Error describes a rejected input with enough context to fix it without re-running.
type Error struct {
	Op       string // operation that rejected the input, e.g. "trajectory.NewStore"
	Field    string // offending field or column, if any
	Index    int    // first offending index or row, -1 when not applicable
	Expected string
	Actual   string
	Msg      string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s", e.Field)
		if e.Index >= 0 {
			fmt.Fprintf(&b, ", index %d", e.Index)
		}
		b.WriteString(")")
	} else if e.Index >= 0 {
		fmt.Fprintf(&b, " (index %d)", e.Index)
	}
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, ": expected %s, got %s", e.Expected, e.Actual)
	}
	return b.String()
}

// Is reports whether target is ErrInvalid.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// New returns an *Error with no index.
func New(op, msg string) *Error {
	return &Error{Op: op, Index: -1, Msg: msg}
}

// Mismatch returns an *Error for an expected/actual disagreement.
func Mismatch(op, field string, index int, expected, actual any) *Error {
	return &Error{
		Op:       op,
		Field:    field,
		Index:    index,
		Expected: fmt.Sprint(expected),
		Actual:   fmt.Sprint(actual),
		Msg:      "mismatch",
	}
}

// NotIncreasing returns an *Error for a time column that fails to strictly increase
// between index i-1 and i.
func NotIncreasing(op, field string, i int, prev, cur float64) *Error {
	return &Error{
		Op:       op,
		Field:    field,
		Index:    i,
		Expected: fmt.Sprintf("> %g", prev),
		Actual:   fmt.Sprintf("%g", cur),
		Msg:      "time not strictly increasing",
	}
}
