package birch

// GeometryEntry is the derived geometry of one node.
type GeometryEntry struct {
	Parent NodeID // zero for roots
	Depth  int

	Transform      Transform // local
	WorldTransform Transform

	// LocalBounds are the tight bounds in the node's own space.
	LocalBounds Rect
	// WorldBounds are the tight bounds in scene space. For a sized
	// container this is its own box; groups, boolean operations and
	// auto-sized containers use the union of their children.
	WorldBounds Rect
	// RenderBounds are WorldBounds grown by the stroke outset and effect
	// padding. Groups report the union of their children's render bounds.
	RenderBounds Rect
	// SubtreeBounds is the union of WorldBounds and every descendant.
	SubtreeBounds Rect
}

// GeometryCache maps every node reachable from a scene's roots to its world
// transform and bounds. It is built in one pass and never patched; build a
// new one when the scene changes.
//
// A GeometryCache is not safe for concurrent use.
type GeometryCache struct {
	entries    map[NodeID]*GeometryEntry
	shapes     map[NodeID]*Shape
	errs       map[NodeID]error
	fonts      TextMeasurer
	generation uint64
	maxDepth   int
}

// NewGeometryCache builds the geometry of scene. fonts sizes text spans and
// may be nil.
func NewGeometryCache(scene *Scene, fonts TextMeasurer) *GeometryCache {
	gc := &GeometryCache{
		entries:    make(map[NodeID]*GeometryEntry, scene.Nodes.Len()),
		shapes:     make(map[NodeID]*Shape, scene.Nodes.Len()),
		errs:       make(map[NodeID]error),
		fonts:      fonts,
		generation: scene.Generation(),
	}
	b := geometryBuilder{nodes: scene.Nodes, fonts: fonts, gc: gc}
	for _, r := range scene.Roots {
		b.build(r, 0, Identity, 0)
	}
	return gc
}

type geometryBuilder struct {
	nodes *NodeRepository
	fonts TextMeasurer
	gc    *GeometryCache
}

// build records id and returns its subtree world bounds and whether any
// bounds exist.
func (b *geometryBuilder) build(id, parent NodeID, parentWorld Transform, depth int) (Rect, bool) {
	n, ok := b.nodes.Get(id)
	if !ok {
		return Rect{}, false
	}
	if _, dup := b.gc.entries[id]; dup {
		return Rect{}, false
	}
	c := n.Common()
	local := c.LocalTransform()
	world := parentWorld.Compose(local)
	e := &GeometryEntry{
		Parent:         parent,
		Depth:          depth,
		Transform:      local,
		WorldTransform: world,
	}
	b.gc.entries[id] = e
	if depth > b.gc.maxDepth {
		b.gc.maxDepth = depth
	}

	shape, err := BuildShape(b.nodes, id, b.fonts)
	if err != nil {
		b.gc.errs[id] = err
	}
	b.gc.shapes[id] = &shape

	var (
		childWorld  []Rect
		childRender []Rect
	)
	for _, ch := range b.nodes.Children(id) {
		if sb, ok := b.build(ch, id, world, depth+1); ok {
			childWorld = append(childWorld, sb)
			childRender = append(childRender, b.gc.entries[ch].RenderBounds)
		}
	}
	outset := 0.0
	if c.hasStroke() {
		outset = c.Stroke.Outset()
	}

	switch n := n.(type) {
	case *GroupNode:
		wb, ok := unionRects(childWorld...)
		if !ok {
			x, y := world.Translation()
			wb = Rect{X: x, Y: y}
		}
		e.WorldBounds = wb
		e.LocalBounds = inverseRect(world, wb)
		e.RenderBounds = wb
		if rb, ok := unionRects(childRender...); ok {
			e.RenderBounds = rb
		}
		e.SubtreeBounds = wb
	case *BooleanOperationNode:
		wb, ok := unionRects(childWorld...)
		if !ok {
			x, y := world.Translation()
			wb = Rect{X: x, Y: y}
		}
		e.WorldBounds = wb
		e.LocalBounds = inverseRect(world, wb)
		e.RenderBounds = renderBounds(world, e.LocalBounds, wb, outset, c.Effects)
		e.SubtreeBounds = wb
	case *ContainerNode:
		own := world.TransformRect(shape.Bounds)
		sub := own
		for _, r := range childWorld {
			sub = sub.Union(r)
		}
		e.LocalBounds = shape.Bounds
		e.WorldBounds = own
		if n.Size == (Size{}) && len(childWorld) > 0 {
			e.WorldBounds, _ = unionRects(childWorld...)
			e.LocalBounds = inverseRect(world, e.WorldBounds)
		}
		e.RenderBounds = renderBounds(world, e.LocalBounds, e.WorldBounds, outset, c.Effects)
		e.SubtreeBounds = sub
	default:
		e.LocalBounds = shape.Bounds
		e.WorldBounds = world.TransformRect(shape.Bounds)
		e.RenderBounds = renderBounds(world, e.LocalBounds, e.WorldBounds, outset, c.Effects)
		e.SubtreeBounds = e.WorldBounds
		for _, r := range childWorld {
			e.SubtreeBounds = e.SubtreeBounds.Union(r)
		}
	}
	return e.SubtreeBounds, true
}

// strokeBounds returns worldBounds grown by a stroke outset given in local
// units, so the outset scales with the node.
func strokeBounds(world Transform, local, worldBounds Rect, outset float64) Rect {
	if outset <= 0 || world.Scale() == 0 {
		return worldBounds
	}
	return worldBounds.Union(world.TransformRect(local.Inflate(outset)))
}

// renderBounds adds effect padding to the stroke bounds. Effect lengths are
// local units applied unrotated, as the painter does.
func renderBounds(world Transform, local, worldBounds Rect, outset float64, fx Effects) Rect {
	return fx.ExpandScaled(strokeBounds(world, local, worldBounds, outset), world.Scale())
}

func inverseRect(world Transform, r Rect) Rect {
	inv, ok := world.Inverse()
	if !ok {
		return Rect{}
	}
	return inv.TransformRect(r)
}

// Generation returns the scene generation the cache was built from.
func (gc *GeometryCache) Generation() uint64 { return gc.generation }

// Len returns the number of cached nodes.
func (gc *GeometryCache) Len() int { return len(gc.entries) }

// MaxDepth returns the deepest tree level seen while building.
func (gc *GeometryCache) MaxDepth() int { return gc.maxDepth }

// Has reports whether id has an entry.
func (gc *GeometryCache) Has(id NodeID) bool {
	_, ok := gc.entries[id]
	return ok
}

// Entry returns a copy of the entry for id.
func (gc *GeometryCache) Entry(id NodeID) (GeometryEntry, bool) {
	e, ok := gc.entries[id]
	if !ok {
		return GeometryEntry{}, false
	}
	return *e, true
}

// WorldTransform returns the world transform of id.
func (gc *GeometryCache) WorldTransform(id NodeID) (Transform, bool) {
	e, ok := gc.entries[id]
	if !ok {
		return Transform{}, false
	}
	return e.WorldTransform, true
}

// Transform returns the local transform of id.
func (gc *GeometryCache) Transform(id NodeID) (Transform, bool) {
	e, ok := gc.entries[id]
	if !ok {
		return Transform{}, false
	}
	return e.Transform, true
}

// LocalBounds returns the bounds of id in its own space.
func (gc *GeometryCache) LocalBounds(id NodeID) (Rect, bool) {
	e, ok := gc.entries[id]
	if !ok {
		return Rect{}, false
	}
	return e.LocalBounds, true
}

// WorldBounds returns the world bounds of id.
func (gc *GeometryCache) WorldBounds(id NodeID) (Rect, bool) {
	e, ok := gc.entries[id]
	if !ok {
		return Rect{}, false
	}
	return e.WorldBounds, true
}

// RenderBounds returns the world render bounds of id.
func (gc *GeometryCache) RenderBounds(id NodeID) (Rect, bool) {
	e, ok := gc.entries[id]
	if !ok {
		return Rect{}, false
	}
	return e.RenderBounds, true
}

// SubtreeBounds returns the union of the world bounds of id and all its
// descendants.
func (gc *GeometryCache) SubtreeBounds(id NodeID) (Rect, bool) {
	e, ok := gc.entries[id]
	if !ok {
		return Rect{}, false
	}
	return e.SubtreeBounds, true
}

// Parent returns the parent recorded for id.
func (gc *GeometryCache) Parent(id NodeID) (NodeID, bool) {
	e, ok := gc.entries[id]
	if !ok || e.Parent == 0 {
		return 0, false
	}
	return e.Parent, true
}

// Shape returns the local shape built for id.
func (gc *GeometryCache) Shape(id NodeID) (*Shape, bool) {
	s, ok := gc.shapes[id]
	return s, ok
}

// Err returns the error recorded while building the shape of id, if any.
func (gc *GeometryCache) Err(id NodeID) error { return gc.errs[id] }

// Errors returns every shape error keyed by node.
func (gc *GeometryCache) Errors() map[NodeID]error { return gc.errs }

// Filter returns a cache holding only the entries for which keep returns
// true.
func (gc *GeometryCache) Filter(keep func(NodeID, GeometryEntry) bool) *GeometryCache {
	out := &GeometryCache{
		entries:    make(map[NodeID]*GeometryEntry),
		shapes:     make(map[NodeID]*Shape),
		errs:       make(map[NodeID]error),
		fonts:      gc.fonts,
		generation: gc.generation,
	}
	for id, e := range gc.entries {
		if !keep(id, *e) {
			continue
		}
		cp := *e
		out.entries[id] = &cp
		if s, ok := gc.shapes[id]; ok {
			out.shapes[id] = s
		}
		if err, ok := gc.errs[id]; ok {
			out.errs[id] = err
		}
		if e.Depth > out.maxDepth {
			out.maxDepth = e.Depth
		}
	}
	return out
}
