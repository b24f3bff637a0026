package geom

import (
	"fmt"
	"strings"

	"cogentcore.org/core/paint/ppath"
)

// ParseSVGPath parses SVG path data. Malformed data, or data that draws
// nothing, returns a *GeometryError; it never panics.
func ParseSVGPath(d string) (ppath.Path, error) {
	d = strings.TrimSpace(d)
	p, err := parseRecover(d)
	if err == nil && p.Empty() {
		err = ErrEmptyPath
	}
	if err != nil {
		return nil, &GeometryError{Op: "parse svg path", Input: truncate(d), Err: err}
	}
	return p, nil
}

func parseRecover(d string) (p ppath.Path, err error) {
	if d == "" {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return ppath.ParseSVGPath(d)
}
