package birch

import (
	"slices"

	"cogentcore.org/core/paint/ppath"

	"github.com/phanxgames/birch/geom"
)

// HitTester answers point and rect queries against a LayerList. Candidates
// come from the spatial index and are confirmed against the layer's shape,
// stroke outline and ancestor clips.
//
// A HitTester is not safe for concurrent use.
type HitTester struct {
	layers *LayerList
}

// NewHitTester returns a hit tester over layers.
func NewHitTester(layers *LayerList) *HitTester {
	return &HitTester{layers: layers}
}

// HitFirst returns the topmost node whose painted area contains the world
// point (x, y).
func (h *HitTester) HitFirst(x, y float64) (NodeID, bool) {
	c := h.layers.index.QueryPoint(x, y)
	for i := len(c) - 1; i >= 0; i-- {
		l := h.layers.layers[c[i]]
		if layerContains(l, x, y) {
			return l.Base().ID, true
		}
	}
	return 0, false
}

// Hits returns every node containing the world point, topmost first.
func (h *HitTester) Hits(x, y float64) []NodeID {
	c := h.layers.index.QueryPoint(x, y)
	var out []NodeID
	for i := len(c) - 1; i >= 0; i-- {
		l := h.layers.layers[c[i]]
		if layerContains(l, x, y) {
			out = append(out, l.Base().ID)
		}
	}
	return out
}

// Intersects returns every node whose shape bounds overlap r, in ascending
// z order (bottom to top).
func (h *HitTester) Intersects(r Rect) []NodeID {
	var out []NodeID
	for _, i := range h.layers.index.Query(r) {
		b := h.layers.layers[i].Base()
		if b.ShapeBounds.Intersects(r) {
			out = append(out, b.ID)
		}
	}
	return out
}

// Contains reports whether the painted area of node id contains the world
// point. Nodes without a layer, such as groups, contain nothing.
func (h *HitTester) Contains(id NodeID, x, y float64) bool {
	l, ok := h.layers.ByID(id)
	return ok && layerContains(l, x, y)
}

// --- bounds-only variants ---

// HitFirstFast is HitFirst using only shape bounds.
func (h *HitTester) HitFirstFast(x, y float64) (NodeID, bool) {
	c := h.layers.index.QueryPoint(x, y)
	for i := len(c) - 1; i >= 0; i-- {
		b := h.layers.layers[c[i]].Base()
		if b.ShapeBounds.Contains(x, y) {
			return b.ID, true
		}
	}
	return 0, false
}

// HitsFast is Hits using only shape bounds.
func (h *HitTester) HitsFast(x, y float64) []NodeID {
	c := h.layers.index.QueryPoint(x, y)
	out := make([]NodeID, 0, len(c))
	for _, i := range slices.Backward(c) {
		b := h.layers.layers[i].Base()
		if b.ShapeBounds.Contains(x, y) {
			out = append(out, b.ID)
		}
	}
	return out
}

// ContainsFast is Contains using only shape bounds.
func (h *HitTester) ContainsFast(id NodeID, x, y float64) bool {
	l, ok := h.layers.ByID(id)
	return ok && l.Base().ShapeBounds.Contains(x, y)
}

// HitFirstScreen maps a screen point through the inverse of view and calls
// HitFirst.
func (h *HitTester) HitFirstScreen(view Transform, sx, sy float64) (NodeID, bool) {
	inv, ok := view.Inverse()
	if !ok {
		return 0, false
	}
	return h.HitFirst(inv.Apply(sx, sy))
}

// layerContains runs the exact test for a world point.
func layerContains(l Layer, x, y float64) bool {
	b := l.Base()
	if !b.ShapeBounds.Contains(x, y) || !b.insideClips(x, y) {
		return false
	}
	inv, ok := b.Transform.Inverse()
	if !ok {
		return false
	}
	lx, ly := inv.Apply(x, y)
	if v, ok := l.(*VectorLayer); ok {
		for _, r := range v.Regions {
			if len(r.Path) > 0 && geom.Contains(r.Path, r.FillRule, float32(lx), float32(ly)) {
				return true
			}
		}
	} else if s, _ := layerShape(l); s != nil && s.Contains(lx, ly) {
		return true
	}
	_, outline := layerShape(l)
	return len(outline) > 0 && geom.Contains(outline, ppath.NonZero, float32(lx), float32(ly))
}
