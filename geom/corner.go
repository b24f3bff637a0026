package geom

import (
	"math"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/paint/ppath"
)

// CornerRadiusPath rounds every vertex of the polygonal subpaths of p with a
// single radius r. Closed subpaths have all corners rounded, open polylines
// only their interior vertices. Subpaths that already contain curves are
// copied unchanged. r <= 0 returns p itself.
func CornerRadiusPath(p ppath.Path, r float32) ppath.Path {
	if r <= 0 || len(p) == 0 {
		return p
	}
	out := ppath.Path{}
	for _, sub := range p.Split() {
		pts, closed, ok := polylinePoints(sub)
		if !ok {
			out = out.Append(sub)
			continue
		}
		out = out.Append(roundPolyline(pts, closed, r))
	}
	return out
}

// polylinePoints extracts the vertices of a line-only subpath. A closing
// vertex repeated at the end is dropped.
func polylinePoints(sub ppath.Path) (pts []math32.Vector2, closed, ok bool) {
	for s := sub.Scanner(); s.Scan(); {
		switch s.Cmd() {
		case ppath.MoveTo, ppath.LineTo:
			pts = append(pts, s.End())
		case ppath.Close:
			closed = true
		default:
			return nil, false, false
		}
	}
	if closed && len(pts) > 1 && ppath.EqualPoint(pts[0], pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	return pts, closed, len(pts) >= 3
}

// roundPolyline builds the rounded outline of pts.
func roundPolyline(pts []math32.Vector2, closed bool, r float32) ppath.Path {
	n := len(pts)
	out := ppath.Path{}
	corners := make([]fillet, n)
	for i := range pts {
		if !closed && (i == 0 || i == n-1) {
			corners[i] = fillet{a: pts[i], b: pts[i]}
			continue
		}
		prev := pts[(i-1+n)%n]
		next := pts[(i+1)%n]
		corners[i] = roundCorner(prev, pts[i], next, r)
	}

	first := corners[0]
	if closed && first.round {
		out.MoveTo(first.b.X, first.b.Y)
	} else {
		out.MoveTo(first.a.X, first.a.Y)
	}
	emit := func(c fillet) {
		out.LineTo(c.a.X, c.a.Y)
		if c.round {
			out.CubeTo(c.c1.X, c.c1.Y, c.c2.X, c.c2.Y, c.b.X, c.b.Y)
		}
	}
	for i := 1; i < n; i++ {
		emit(corners[i])
	}
	if closed {
		if first.round {
			emit(first)
		}
		out.Close()
	}
	return out
}

// fillet is one rounded vertex: the edge tangent points a and b, joined by a
// cubic with handles c1 and c2 when round is set.
type fillet struct {
	a, c1, c2, b math32.Vector2
	round        bool
}

// roundCorner computes the circular fillet at v between the edges to prev
// and next.
func roundCorner(prev, v, next math32.Vector2, r float32) (c fillet) {
	c.a, c.b = v, v
	in := prev.Sub(v)
	out := next.Sub(v)
	lin, lout := in.Length(), out.Length()
	if lin < ppath.Epsilon || lout < ppath.Epsilon {
		return c
	}
	din := in.DivScalar(lin)
	dout := out.DivScalar(lout)
	cos := float64(din.Dot(dout))
	cos = math.Max(-1, math.Min(1, cos))
	theta := math.Acos(cos) // interior angle
	if theta < 1e-4 || math.Pi-theta < 1e-4 {
		return c
	}
	half := math.Tan(theta / 2)
	d := float64(r) / half
	d = math.Min(d, float64(lin)/2)
	d = math.Min(d, float64(lout)/2)
	radius := d * half
	turn := math.Pi - theta
	k := float32(4.0 / 3.0 * math.Tan(turn/4) * radius)

	c.a = v.Add(din.MulScalar(float32(d)))
	c.b = v.Add(dout.MulScalar(float32(d)))
	c.c1 = c.a.Sub(din.MulScalar(k))
	c.c2 = c.b.Sub(dout.MulScalar(k))
	c.round = true
	return c
}
