package geom

import (
	"math"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/paint/ppath"
	"cogentcore.org/core/paint/ppath/intersect"
)

// Tolerance is the maximum deviation used when flattening curves.
var Tolerance float32 = 0.05

// Verb identifies a path command.
type Verb uint8

const (
	VerbMove Verb = iota
	VerbLine
	VerbQuad
	VerbCubic
	VerbArc
	VerbClose
)

func (v Verb) String() string {
	switch v {
	case VerbMove:
		return "M"
	case VerbLine:
		return "L"
	case VerbQuad:
		return "Q"
	case VerbCubic:
		return "C"
	case VerbArc:
		return "A"
	case VerbClose:
		return "z"
	}
	return "?"
}

// Verbs returns the command sequence of p.
func Verbs(p ppath.Path) []Verb {
	var out []Verb
	for s := p.Scanner(); s.Scan(); {
		out = append(out, Verb(s.Cmd()))
	}
	return out
}

// CountVerb returns how many times v occurs in p.
func CountVerb(p ppath.Path, v Verb) int {
	n := 0
	for s := p.Scanner(); s.Scan(); {
		if Verb(s.Cmd()) == v {
			n++
		}
	}
	return n
}

// HasCurves reports whether p contains any quadratic, cubic, or arc command.
func HasCurves(p ppath.Path) bool {
	for s := p.Scanner(); s.Scan(); {
		switch s.Cmd() {
		case ppath.QuadTo, ppath.CubeTo, ppath.ArcTo:
			return true
		}
	}
	return false
}

// Flatten replaces every curve in p by line segments within Tolerance.
func Flatten(p ppath.Path) ppath.Path {
	if !HasCurves(p) {
		return p
	}
	return intersect.Flatten(p, Tolerance)
}

// Bounds returns the axis-aligned bounds of p. Curves are flattened first, so
// the result is exact for polygons and within Tolerance otherwise. An empty
// path yields an empty box.
func Bounds(p ppath.Path) math32.Box2 {
	b := math32.B2Empty()
	if len(p) == 0 {
		return b
	}
	for s := Flatten(p).Scanner(); s.Scan(); {
		b.ExpandByPoint(s.End())
	}
	return b
}

// Transform applies m to p, returning a new path.
func Transform(p ppath.Path, m math32.Matrix2) ppath.Path {
	if len(p) == 0 {
		return p
	}
	return p.Clone().Transform(m)
}

// Rect returns a closed rectangle path.
func Rect(x, y, w, h float32) ppath.Path {
	p := ppath.Path{}
	p.Rectangle(x, y, w, h)
	return p
}

// CornerRadii holds per-corner radii, clockwise from the top-left.
type CornerRadii struct {
	TopLeft, TopRight, BottomRight, BottomLeft float32
}

// Uniform returns radii with every corner set to r.
func Uniform(r float32) CornerRadii {
	return CornerRadii{r, r, r, r}
}

// IsZero reports whether every corner is square.
func (c CornerRadii) IsZero() bool {
	return c.TopLeft <= 0 && c.TopRight <= 0 && c.BottomRight <= 0 && c.BottomLeft <= 0
}

// IsUniform reports whether all four corners share one radius.
func (c CornerRadii) IsUniform() bool {
	return c.TopLeft == c.TopRight && c.TopRight == c.BottomRight && c.BottomRight == c.BottomLeft
}

// clamped limits every radius to half of the smaller side.
func (c CornerRadii) clamped(w, h float32) CornerRadii {
	limit := math32.Min(w, h) / 2
	cl := func(r float32) float32 {
		return math32.Clamp(r, 0, limit)
	}
	return CornerRadii{cl(c.TopLeft), cl(c.TopRight), cl(c.BottomRight), cl(c.BottomLeft)}
}

// RoundedRect returns a rectangle with independent corner radii. Square
// corners are emitted as plain line joins, so zero radii produce the same
// commands as Rect.
func RoundedRect(x, y, w, h float32, radii CornerRadii) ppath.Path {
	if radii.IsZero() {
		return Rect(x, y, w, h)
	}
	if w <= 0 || h <= 0 {
		return ppath.Path{}
	}
	r := radii.clamped(w, h)
	p := ppath.Path{}
	p.MoveTo(x+r.TopLeft, y)
	p.LineTo(x+w-r.TopRight, y)
	if r.TopRight > 0 {
		p.ArcTo(r.TopRight, r.TopRight, 0, false, true, x+w, y+r.TopRight)
	}
	p.LineTo(x+w, y+h-r.BottomRight)
	if r.BottomRight > 0 {
		p.ArcTo(r.BottomRight, r.BottomRight, 0, false, true, x+w-r.BottomRight, y+h)
	}
	p.LineTo(x+r.BottomLeft, y+h)
	if r.BottomLeft > 0 {
		p.ArcTo(r.BottomLeft, r.BottomLeft, 0, false, true, x, y+h-r.BottomLeft)
	}
	p.LineTo(x, y+r.TopLeft)
	if r.TopLeft > 0 {
		p.ArcTo(r.TopLeft, r.TopLeft, 0, false, true, x+r.TopLeft, y)
	}
	p.Close()
	return p
}

// Ellipse returns the ellipse inscribed in the rect (x, y, w, h).
func Ellipse(x, y, w, h float32) ppath.Path {
	p := ppath.Path{}
	if w <= 0 || h <= 0 {
		return p
	}
	p.Ellipse(x+w/2, y+h/2, w/2, h/2)
	return p
}

// Line returns an open two-point path.
func Line(x0, y0, x1, y1 float32) ppath.Path {
	p := ppath.Path{}
	p.Line(x0, y0, x1, y1)
	return p
}

// Polygon returns a closed polygon through points. It panics if fewer than
// three points are given.
func Polygon(points []math32.Vector2) ppath.Path {
	if len(points) < 3 {
		panic("geom: polygon needs at least 3 points")
	}
	p := ppath.Path{}
	p.Polygon(points...)
	return p
}

// RegularPolygon returns an n-sided polygon inscribed in the rect (0, 0, w, h),
// with its first vertex at the top center.
func RegularPolygon(n int, w, h float32) ppath.Path {
	if n < 3 {
		panic("geom: regular polygon needs at least 3 sides")
	}
	pts := make([]math32.Vector2, n)
	for i := range pts {
		pts[i] = ellipsePoint(w, h, 1, i, n)
	}
	return Polygon(pts)
}

// Star returns an n-pointed star inscribed in the rect (0, 0, w, h). inner is
// the inner radius as a fraction of the outer radius.
func Star(n int, w, h, inner float32) ppath.Path {
	if n < 3 {
		panic("geom: star needs at least 3 points")
	}
	pts := make([]math32.Vector2, 2*n)
	for i := range pts {
		scale := float32(1)
		if i%2 == 1 {
			scale = inner
		}
		pts[i] = ellipsePoint(w, h, scale, i, 2*n)
	}
	return Polygon(pts)
}

// ellipsePoint returns the i-th of n points evenly spaced on the ellipse
// inscribed in (0, 0, w, h), scaled toward its center, starting at the top.
func ellipsePoint(w, h, scale float32, i, n int) math32.Vector2 {
	theta := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	sin, cos := math.Sincos(theta)
	return math32.Vec2(
		w/2+float32(cos)*w/2*scale,
		h/2+float32(sin)*h/2*scale,
	)
}
