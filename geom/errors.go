package geom

import (
	"errors"
	"fmt"
)

// ErrEmptyPath is returned when path data parses to no drawable commands.
var ErrEmptyPath = errors.New("empty path")

// GeometryError reports a failure to build geometry from external input.
type GeometryError struct {
	Op    string // operation, e.g. "parse svg path"
	Input string // offending input, truncated
	Err   error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geom: %s %q: %v", e.Op, e.Input, e.Err)
}

func (e *GeometryError) Unwrap() error { return e.Err }

// truncate shortens s for error messages.
func truncate(s string) string {
	const max = 48
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
