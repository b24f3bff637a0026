package birch

// FrameRegion is a part of the visible area not covered by a cached tile,
// with the indices of the layers that intersect it in ascending z order.
type FrameRegion struct {
	Rect   Rect
	Layers []int
}

// FramePlan describes what one frame paints: cached tiles first, then the
// regions between them layer by layer.
type FramePlan struct {
	// Visible is the world rect the camera shows.
	Visible Rect
	// View is the camera's world-to-screen transform.
	View Transform
	// Zoom is the camera zoom the plan was made for.
	Zoom float64
	// Tiles are the cached tiles covering part of Visible.
	Tiles []*Tile
	// Requires lists tiles that would cover the rest of Visible at the
	// quantized zoom. Empty when tiles are not used at this zoom.
	Requires []TileKey
	// Regions are the uncovered parts of Visible.
	Regions []FrameRegion
	// RepaintAll is set when no tile covers anything and every region must
	// be painted from pictures.
	RepaintAll bool
}

// LayerCount returns the number of layer paints the plan needs, counting a
// layer once per region it appears in.
func (p *FramePlan) LayerCount() int {
	n := 0
	for _, r := range p.Regions {
		n += len(r.Layers)
	}
	return n
}

// planRegions splits visible into the rects not covered by covered and
// lists the layers of ll intersecting each.
func planRegions(ll *LayerList, visible Rect, covered []Rect) []FrameRegion {
	rest := rectDifference(visible, covered)
	regions := make([]FrameRegion, 0, len(rest))
	for _, r := range rest {
		idx := ll.LayersInRect(r)
		if len(idx) == 0 {
			continue
		}
		regions = append(regions, FrameRegion{Rect: r, Layers: idx})
	}
	return regions
}

// rectDifference returns base minus every rect in cut as a set of
// non-overlapping rects. Slivers thinner than rectEpsilon are dropped.
func rectDifference(base Rect, cut []Rect) []Rect {
	if base.IsEmpty() {
		return nil
	}
	out := []Rect{base}
	for _, c := range cut {
		if c.IsEmpty() {
			continue
		}
		next := out[:0:0]
		for _, r := range out {
			next = subtractRect(next, r, c)
		}
		out = next
		if len(out) == 0 {
			break
		}
	}
	return out
}

const rectEpsilon = 1e-9

// subtractRect appends r minus c to dst: up to four bands, top and bottom
// spanning r's width, left and right spanning the overlap's height.
func subtractRect(dst []Rect, r, c Rect) []Rect {
	in, ok := r.Intersection(c)
	if !ok || in.Width <= rectEpsilon || in.Height <= rectEpsilon {
		return append(dst, r)
	}
	add := func(x0, y0, x1, y1 float64) {
		if x1-x0 > rectEpsilon && y1-y0 > rectEpsilon {
			dst = append(dst, Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0})
		}
	}
	add(r.X, r.Y, r.Right(), in.Y)
	add(r.X, in.Bottom(), r.Right(), r.Bottom())
	add(r.X, in.Y, in.X, in.Bottom())
	add(in.Right(), in.Y, r.Right(), in.Bottom())
	return dst
}

// pictureGroups splits ascending layer indices into runs that share a
// picture key, preserving order.
func pictureGroups(keys []NodeID, layers []int) [][]int {
	var out [][]int
	for i, l := range layers {
		if i > 0 && keys[l] == keys[layers[i-1]] {
			out[len(out)-1] = append(out[len(out)-1], l)
			continue
		}
		out = append(out, []int{l})
	}
	return out
}
