package birch

import (
	"fmt"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/paint/ppath"

	"github.com/phanxgames/birch/geom"
)

// FillRule selects how overlapping contours are filled.
type FillRule uint8

const (
	FillNonZero FillRule = iota
	FillEvenOdd
)

// Rule returns the equivalent ppath fill rule.
func (r FillRule) Rule() ppath.FillRules {
	if r == FillEvenOdd {
		return ppath.EvenOdd
	}
	return ppath.NonZero
}

// VectorSegment joins vertex A to vertex B. When both tangents are non-zero
// the segment is a cubic with control points A+TangentA and B+TangentB;
// otherwise it is straight.
type VectorSegment struct {
	A, B               int
	TangentA, TangentB Vec2
}

// IsCurve reports whether the segment is drawn as a cubic.
func (s VectorSegment) IsCurve() bool {
	return s.TangentA != (Vec2{}) && s.TangentB != (Vec2{})
}

// VectorRegion is an independently filled area of a network. Each loop is a
// chain of segment indices that must close on itself. Nil Fills inherit the
// node fills.
type VectorRegion struct {
	Loops    [][]int
	FillRule FillRule
	Fills    []Paint
}

// VectorNetwork is the vertex/segment/region graph of an arbitrary vector
// shape.
type VectorNetwork struct {
	Vertices []Vec2
	Segments []VectorSegment
	Regions  []VectorRegion
}

// Validate checks that every segment indexes into Vertices and every region
// loop closes.
func (vn *VectorNetwork) Validate() error {
	for i, s := range vn.Segments {
		if !vn.hasVertex(s.A) || !vn.hasVertex(s.B) {
			return fmt.Errorf("birch: vector network segment %d: vertex out of range (%d, %d) of %d", i, s.A, s.B, len(vn.Vertices))
		}
	}
	for ri, r := range vn.Regions {
		for li, loop := range r.Loops {
			if err := vn.validateLoop(loop); err != nil {
				return fmt.Errorf("birch: vector network region %d loop %d: %w", ri, li, err)
			}
		}
	}
	return nil
}

func (vn *VectorNetwork) hasVertex(i int) bool { return i >= 0 && i < len(vn.Vertices) }

func (vn *VectorNetwork) validateLoop(loop []int) error {
	if len(loop) == 0 {
		return fmt.Errorf("empty loop")
	}
	for _, si := range loop {
		if si < 0 || si >= len(vn.Segments) {
			return fmt.Errorf("segment %d out of range", si)
		}
	}
	for k := 1; k < len(loop); k++ {
		prev, cur := vn.Segments[loop[k-1]], vn.Segments[loop[k]]
		if prev.B != cur.A {
			return fmt.Errorf("segment %d does not continue from segment %d", loop[k], loop[k-1])
		}
	}
	first, last := vn.Segments[loop[0]], vn.Segments[loop[len(loop)-1]]
	if last.B != first.A {
		return fmt.Errorf("loop is not closed")
	}
	return nil
}

func (vn *VectorNetwork) vertex(i int) math32.Vector2 {
	if !vn.hasVertex(i) {
		panic(fmt.Sprintf("birch: vector network vertex %d out of range", i))
	}
	v := vn.Vertices[i]
	return math32.Vec2(float32(v.X), float32(v.Y))
}

// ToPath converts the segments, in insertion order, to a path. A segment
// that does not start where the previous one ended begins a new subpath,
// and a subpath that returns to its starting vertex is closed. It panics on
// an out-of-range vertex; call Validate first for untrusted networks.
func (vn *VectorNetwork) ToPath() ppath.Path {
	idx := make([]int, len(vn.Segments))
	for i := range idx {
		idx[i] = i
	}
	return vn.chainPath(idx)
}

// chainPath emits the given segments as connected chains.
func (vn *VectorNetwork) chainPath(segs []int) ppath.Path {
	p := ppath.Path{}
	start, at := -1, -1
	closeChain := func() {
		if start >= 0 && at == start {
			p.Close()
		}
	}
	for _, si := range segs {
		s := vn.Segments[si]
		if s.A != at {
			closeChain()
			p.MoveTo(vn.vertex(s.A).X, vn.vertex(s.A).Y)
			start = s.A
		}
		a, b := vn.vertex(s.A), vn.vertex(s.B)
		if s.IsCurve() {
			c1 := a.Add(math32.Vec2(float32(s.TangentA.X), float32(s.TangentA.Y)))
			c2 := b.Add(math32.Vec2(float32(s.TangentB.X), float32(s.TangentB.Y)))
			p.CubeTo(c1.X, c1.Y, c2.X, c2.Y, b.X, b.Y)
		} else {
			p.LineTo(b.X, b.Y)
		}
		at = s.B
		if at == start {
			closeChain()
			start, at = -1, -1
		}
	}
	closeChain()
	return p
}

// RegionPath is the closed outline of one region.
type RegionPath struct {
	Path     ppath.Path
	FillRule ppath.FillRules
	Fills    []Paint
}

// RegionPaths returns one path per region, with each loop as a closed
// subpath. A network without regions yields its whole path filled
// non-zero with nil fills.
func (vn *VectorNetwork) RegionPaths() []RegionPath {
	if len(vn.Regions) == 0 {
		return []RegionPath{{Path: vn.ToPath(), FillRule: ppath.NonZero}}
	}
	out := make([]RegionPath, 0, len(vn.Regions))
	for _, r := range vn.Regions {
		p := ppath.Path{}
		for _, loop := range r.Loops {
			p = p.Append(vn.chainPath(loop))
		}
		out = append(out, RegionPath{Path: p, FillRule: r.FillRule.Rule(), Fills: r.Fills})
	}
	return out
}

// Bounds returns the tight local bounds of the network path.
func (vn *VectorNetwork) Bounds() (Rect, bool) {
	return boxRect(geom.Bounds(vn.ToPath()))
}

// NewPolylineNetwork returns a network of straight segments through pts,
// closed back to the first point when closed is set, with a single
// non-zero region for closed networks.
func NewPolylineNetwork(closed bool, pts ...Vec2) *VectorNetwork {
	vn := &VectorNetwork{Vertices: append([]Vec2(nil), pts...)}
	for i := 0; i+1 < len(pts); i++ {
		vn.Segments = append(vn.Segments, VectorSegment{A: i, B: i + 1})
	}
	if closed && len(pts) > 2 {
		vn.Segments = append(vn.Segments, VectorSegment{A: len(pts) - 1, B: 0})
		loop := make([]int, len(vn.Segments))
		for i := range loop {
			loop[i] = i
		}
		vn.Regions = []VectorRegion{{Loops: [][]int{loop}}}
	}
	return vn
}

// boxRect converts a math32 box to a Rect, reporting false for an empty box.
func boxRect(b math32.Box2) (Rect, bool) {
	if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y {
		return Rect{}, false
	}
	return RectFromPoints(float64(b.Min.X), float64(b.Min.Y), float64(b.Max.X), float64(b.Max.Y)), true
}
