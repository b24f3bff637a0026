package geom

import (
	"math"
	"sort"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/paint/ppath"
)

// stopEpsilon is the distance under which two width stops are merged.
const stopEpsilon = 1e-6

// WidthStop sets the half-width R at the normalized arc-length position U.
type WidthStop struct {
	U, R float64
}

// WidthProfile is a variable stroke width: half-widths at arc-length stops,
// or Base everywhere when there are no stops.
type WidthProfile struct {
	Base  float64
	Stops []WidthStop
}

// Normalized returns a copy with stops sorted by U and near-duplicates
// collapsed. When two stops are within 1e-6 of each other, the later one in
// the original order wins.
func (wp WidthProfile) Normalized() WidthProfile {
	stops := make([]WidthStop, len(wp.Stops))
	copy(stops, wp.Stops)
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].U < stops[j].U })
	out := stops[:0]
	for _, s := range stops {
		if n := len(out); n > 0 && math.Abs(s.U-out[n-1].U) < stopEpsilon {
			out[n-1] = s
			continue
		}
		out = append(out, s)
	}
	return WidthProfile{Base: wp.Base, Stops: out}
}

// MaxWidth returns the largest half-width the profile can produce.
func (wp WidthProfile) MaxWidth() float32 {
	if len(wp.Stops) == 0 {
		return float32(math.Max(wp.Base, 0))
	}
	m := 0.0
	for _, s := range wp.Stops {
		m = math.Max(m, s.R)
	}
	return float32(m)
}

// WidthSampler evaluates a normalized profile.
type WidthSampler struct {
	base  float64
	stops []WidthStop
}

// NewWidthSampler normalizes wp and returns a sampler for it.
func NewWidthSampler(wp WidthProfile) *WidthSampler {
	n := wp.Normalized()
	return &WidthSampler{base: n.Base, stops: n.Stops}
}

// Sample returns the half-width at u. Between stops it follows a Catmull-Rom
// spline through the four nearest stops, clamped to the range of the two
// stops that bracket u. Outside the stop range it holds the end values.
func (s *WidthSampler) Sample(u float64) float64 {
	n := len(s.stops)
	switch {
	case n == 0:
		return math.Max(s.base, 0)
	case n == 1 || u <= s.stops[0].U:
		return math.Max(s.stops[0].R, 0)
	case u >= s.stops[n-1].U:
		return math.Max(s.stops[n-1].R, 0)
	}
	i := sort.Search(n, func(i int) bool { return s.stops[i].U > u }) - 1
	i = max(0, min(i, n-2))
	s1, s2 := s.stops[i], s.stops[i+1]
	r0 := s.stops[max(i-1, 0)].R
	r3 := s.stops[min(i+2, n-1)].R
	span := s2.U - s1.U
	t := 0.0
	if span > 0 {
		t = (u - s1.U) / span
	}
	v := catmullRom(r0, s1.R, s2.R, r3, t)
	lo, hi := math.Min(s1.R, s2.R), math.Max(s1.R, s2.R)
	v = math.Max(lo, math.Min(hi, v))
	return math.Max(v, 0)
}

func catmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// Cubic is a cubic Bézier segment: start, two control points, end.
type Cubic [4]math32.Vector2

// LineCubic returns the straight segment a->b as a cubic with its handles at
// the thirds, so it is traversed at constant speed.
func LineCubic(a, b math32.Vector2) Cubic {
	d := b.Sub(a)
	return Cubic{a, a.Add(d.MulScalar(1.0 / 3.0)), a.Add(d.MulScalar(2.0 / 3.0)), b}
}

func (c Cubic) point(t float32) math32.Vector2 {
	mt := 1 - t
	mt2, t2 := mt*mt, t*t
	return c[0].MulScalar(mt2 * mt).
		Add(c[1].MulScalar(3 * mt2 * t)).
		Add(c[2].MulScalar(3 * mt * t2)).
		Add(c[3].MulScalar(t2 * t))
}

// derivative returns the tangent at t. Where a handle sits on its endpoint
// the derivative vanishes, so the secant around t is used instead.
func (c Cubic) derivative(t float32) math32.Vector2 {
	mt := 1 - t
	d := c[1].Sub(c[0]).MulScalar(3 * mt * mt).
		Add(c[2].Sub(c[1]).MulScalar(6 * mt * t)).
		Add(c[3].Sub(c[2]).MulScalar(3 * t * t))
	if d.Length() > 1e-6 {
		return d
	}
	return c.point(math32.Min(t+1e-3, 1)).Sub(c.point(math32.Max(t-1e-3, 0)))
}

// Cubics converts every drawing command of p to cubic segments. Lines become
// LineCubic segments and quadratics are degree-elevated.
func Cubics(p ppath.Path) []Cubic {
	var out []Cubic
	p = p.ReplaceArcs()
	for s := p.Scanner(); s.Scan(); {
		a, b := s.Start(), s.End()
		switch s.Cmd() {
		case ppath.LineTo:
			out = append(out, LineCubic(a, b))
		case ppath.Close:
			if !ppath.EqualPoint(a, b) {
				out = append(out, LineCubic(a, b))
			}
		case ppath.QuadTo:
			cp := s.CP1()
			c1 := a.Add(cp.Sub(a).MulScalar(2.0 / 3.0))
			c2 := b.Add(cp.Sub(b).MulScalar(2.0 / 3.0))
			out = append(out, Cubic{a, c1, c2, b})
		case ppath.CubeTo:
			out = append(out, Cubic{a, s.CP1(), s.CP2(), b})
		}
	}
	return out
}

// VarWidthOutline returns the filled outline of a variable-width stroke
// along p. See VarWidthOutlineCubics.
func VarWidthOutline(p ppath.Path, wp WidthProfile, samples int) ppath.Path {
	return VarWidthOutlineCubics(Cubics(p), wp, samples)
}

// VarWidthOutlineCubics strokes each segment with the half-width the profile
// gives at the segment's share of the whole run: segment i of n maps its own
// arc-length position u to (i+u)/n. Each segment contributes one closed
// outline.
func VarWidthOutlineCubics(segs []Cubic, wp WidthProfile, samples int) ppath.Path {
	out := ppath.Path{}
	if len(segs) == 0 {
		return out
	}
	samples = max(samples, 1)
	sampler := NewWidthSampler(wp)
	total := float64(len(segs))
	for i, seg := range segs {
		width := func(u float32) float32 {
			return float32(sampler.Sample((float64(i) + float64(u)) / total))
		}
		out = out.Append(varWidthSegment(seg, width, samples))
	}
	return out
}

// varWidthSegment samples seg at even arc-length steps, offsets each sample
// along the normal by the width, and joins both sides with Catmull-Rom
// curves into one closed outline.
func varWidthSegment(seg Cubic, width func(float32) float32, samples int) ppath.Path {
	ts, us := arcLUT(seg, samples*3)
	left := make([]math32.Vector2, 0, samples+1)
	right := make([]math32.Vector2, 0, samples+1)
	for i := 0; i <= samples; i++ {
		u := float32(i) / float32(samples)
		t := uToT(ts, us, u)
		pt := seg.point(t)
		d := seg.derivative(t)
		l := math32.Max(d.Length(), 1e-6)
		n := math32.Vec2(-d.Y/l, d.X/l)
		w := width(u)
		left = append(left, pt.Add(n.MulScalar(w)))
		right = append(right, pt.Sub(n.MulScalar(w)))
	}
	for i, j := 0, len(right)-1; i < j; i, j = i+1, j-1 {
		right[i], right[j] = right[j], right[i]
	}
	p := ppath.Path{}
	catmullSegments(&p, left, false)
	catmullSegments(&p, right, true)
	p.Close()
	return p
}

// arcLUT tabulates parameter t against normalized arc length u.
func arcLUT(seg Cubic, steps int) (ts, us []float32) {
	n := max(steps, 2)
	ts = make([]float32, 0, n+1)
	us = make([]float32, 0, n+1)
	var s float32
	prev := seg.point(0)
	ts = append(ts, 0)
	us = append(us, 0)
	for i := 1; i <= n; i++ {
		t := float32(i) / float32(n)
		p := seg.point(t)
		s += p.Sub(prev).Length()
		ts = append(ts, t)
		us = append(us, s)
		prev = p
	}
	if s > 0 {
		for i := range us {
			us[i] /= s
		}
	}
	return ts, us
}

// uToT inverts the arc-length table with a binary search and linear
// interpolation between entries.
func uToT(ts, us []float32, u float32) float32 {
	x := math32.Clamp(u, 0, 1)
	lo, hi := 0, len(us)-1
	if x <= us[0] {
		return ts[0]
	}
	if x >= us[hi] {
		return ts[hi]
	}
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if us[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	u0, u1 := us[lo], us[hi]
	w := float32(0)
	if u1 > u0 {
		w = (x - u0) / (u1 - u0)
	}
	return ts[lo] + (ts[hi]-ts[lo])*w
}

// catmullSegments appends a Catmull-Rom curve through pts as cubics. Handles
// are clamped to half the shorter neighboring chord, then into the box of the
// segment's endpoints, so each cubic stays inside that box and the curve
// never passes the samples' extremes.
func catmullSegments(p *ppath.Path, pts []math32.Vector2, cont bool) {
	if len(pts) == 0 {
		return
	}
	if cont {
		p.LineTo(pts[0].X, pts[0].Y)
	} else {
		p.MoveTo(pts[0].X, pts[0].Y)
	}
	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[max(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[min(i+2, len(pts)-1)]

		c1 := p1.Add(p2.Sub(p0).DivScalar(6))
		c2 := p2.Sub(p3.Sub(p1).DivScalar(6))

		prevLen := math32.Max(p1.Sub(p0).Length(), 1e-6)
		nextLen := math32.Max(p2.Sub(p1).Length(), 1e-6)
		maxH := 0.5 * math32.Min(prevLen, nextLen)

		c1 = clampToBox(clampHandle(p1, c1, maxH), p1, p2)
		c2 = clampToBox(clampHandle(p2, c2, maxH), p1, p2)
		p.CubeTo(c1.X, c1.Y, c2.X, c2.Y, p2.X, p2.Y)
	}
}

func clampHandle(anchor, ctrl math32.Vector2, maxH float32) math32.Vector2 {
	v := ctrl.Sub(anchor)
	d := v.Length()
	if d <= maxH {
		return ctrl
	}
	return anchor.Add(v.MulScalar(maxH / d))
}

func clampToBox(c, a, b math32.Vector2) math32.Vector2 {
	return math32.Vec2(
		math32.Clamp(c.X, math32.Min(a.X, b.X), math32.Max(a.X, b.X)),
		math32.Clamp(c.Y, math32.Min(a.Y, b.Y), math32.Max(a.Y, b.Y)),
	)
}
