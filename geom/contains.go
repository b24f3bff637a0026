package geom

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/core/paint/ppath"
)

// Winding returns the winding number of p around (x, y). Every subpath is
// treated as closed, as it is when filled.
func Winding(p ppath.Path, x, y float32) int {
	w := 0
	var start, prev math32.Vector2
	open := false
	edge := func(a, b math32.Vector2) {
		if a.Y <= y {
			if b.Y > y && cross(a, b, x, y) > 0 {
				w++
			}
		} else if b.Y <= y && cross(a, b, x, y) < 0 {
			w--
		}
	}
	for s := Flatten(p).Scanner(); s.Scan(); {
		end := s.End()
		switch s.Cmd() {
		case ppath.MoveTo:
			if open {
				edge(prev, start)
			}
			start = end
			open = true
		case ppath.Close:
			edge(prev, end)
			open = false
		default:
			edge(prev, end)
			open = true
		}
		prev = end
	}
	if open {
		edge(prev, start)
	}
	return w
}

// cross is positive when (x, y) lies to the left of the edge a->b.
func cross(a, b math32.Vector2, x, y float32) float32 {
	return (b.X-a.X)*(y-a.Y) - (x-a.X)*(b.Y-a.Y)
}

// Contains reports whether (x, y) is filled by p under the fill rule.
func Contains(p ppath.Path, rule ppath.FillRules, x, y float32) bool {
	if len(p) == 0 {
		return false
	}
	b := Bounds(p)
	if x < b.Min.X || x > b.Max.X || y < b.Min.Y || y > b.Max.Y {
		return false
	}
	return rule.Fills(Winding(p, x, y))
}

// SignedArea returns the shoelace area of the flattened path. It is positive
// for contours that ppath considers counter-clockwise.
func SignedArea(p ppath.Path) float32 {
	var area float32
	var start, prev math32.Vector2
	open := false
	for s := Flatten(p).Scanner(); s.Scan(); {
		end := s.End()
		switch s.Cmd() {
		case ppath.MoveTo:
			if open {
				area += prev.Cross(start)
			}
			start = end
			open = true
		default:
			area += prev.Cross(end)
			open = s.Cmd() != ppath.Close
		}
		prev = end
	}
	if open {
		area += prev.Cross(start)
	}
	return area / 2
}
