package birch

import (
	"cogentcore.org/core/paint/ppath"
)

// Layer is one paint-ordered drawable unit. The set of layer kinds is
// closed: *ShapeLayer, *VectorLayer, *TextLayer and *ImageLayer.
type Layer interface {
	Base() *LayerBase
	isLayer()
}

// Clip is an ancestor clip region: Path in the space given by Transform.
type Clip struct {
	Transform Transform
	Path      ppath.Path
}

// Contains reports whether the world point lies inside the clip.
func (c Clip) Contains(x, y float64) bool {
	inv, ok := c.Transform.Inverse()
	if !ok {
		return false
	}
	lx, ly := inv.Apply(x, y)
	s := Shape{Path: c.Path}
	return s.Contains(lx, ly)
}

// LayerBase holds what every layer carries.
type LayerBase struct {
	ID NodeID
	// Z is the node's pre-order position in the tree walk.
	Z int
	// Transform maps layer space to world space.
	Transform Transform
	// Opacity includes the opacity of every ancestor.
	Opacity   float64
	BlendMode BlendMode
	Effects   Effects
	// Bounds is the world render bounds, the layer's envelope.
	Bounds Rect
	// ShapeBounds is the world bounds grown by the stroke outset, without
	// effect padding.
	ShapeBounds Rect
	// Clips are the clip regions of clipping ancestors, outermost first.
	Clips []Clip
}

// Base implements Layer.
func (b *LayerBase) Base() *LayerBase { return b }

func (b *LayerBase) isLayer() {}

// insideClips reports whether the world point is inside every clip.
func (b *LayerBase) insideClips(x, y float64) bool {
	for _, c := range b.Clips {
		if !c.Contains(x, y) {
			return false
		}
	}
	return true
}

// ShapeLayer fills and strokes a Shape. Rect-family nodes, ellipses,
// polygons, lines, paths, boolean operations and error placeholders become
// shape layers.
type ShapeLayer struct {
	LayerBase
	Shape         *Shape
	Fills         []Paint
	Strokes       []Paint
	StrokeOutline ppath.Path
}

// VectorLayer draws the regions of a vector network, each with its own fill
// rule and fills, and strokes the whole network.
type VectorLayer struct {
	LayerBase
	Shape         *Shape
	Regions       []RegionPath
	Strokes       []Paint
	StrokeOutline ppath.Path
}

// TextLayer draws laid-out text inside Size.
type TextLayer struct {
	LayerBase
	Shape  *Shape
	Text   string
	Layout TextLayout
	Size   Size
	Fills  []Paint
}

// ImageLayer draws an image resource fitted into a box, clipped to Shape.
type ImageLayer struct {
	LayerBase
	Shape         *Shape
	Src           string
	Fit           BoxFit
	Size          Size
	Fills         []Paint
	Strokes       []Paint
	StrokeOutline ppath.Path
}

// layerShape returns the fill shape and stroke outline of any layer.
func layerShape(l Layer) (*Shape, ppath.Path) {
	switch l := l.(type) {
	case *ShapeLayer:
		return l.Shape, l.StrokeOutline
	case *VectorLayer:
		return l.Shape, l.StrokeOutline
	case *TextLayer:
		return l.Shape, nil
	case *ImageLayer:
		return l.Shape, l.StrokeOutline
	}
	return nil, nil
}

// errorFill paints ErrorNodes that carry no fills of their own.
var errorFill = []Paint{Solid(Color{R: 1, G: 0.3, B: 0.3, A: 1}.WithAlpha(0.5))}

// LayerList is the scene flattened into layers in ascending z order, with a
// SpatialIndex over their envelopes. It is rebuilt, never patched.
//
// A LayerList is not safe for concurrent use.
type LayerList struct {
	layers     []Layer
	byID       map[NodeID]int
	index      SpatialIndex
	generation uint64
}

// NewLayerList flattens scene using the bounds in geo. Hidden nodes and
// their subtrees produce no layers. Groups produce none either; a clipping
// container produces one only when it paints, and constrains its
// descendants either way. The operands of a boolean operation are folded
// into its layer.
func NewLayerList(scene *Scene, geo *GeometryCache) *LayerList {
	ll := &LayerList{
		byID:       make(map[NodeID]int),
		generation: geo.Generation(),
	}
	b := layerBuilder{scene: scene, geo: geo, ll: ll}
	for _, r := range scene.Roots {
		b.visit(r, 1, nil)
	}
	for i, l := range ll.layers {
		ll.byID[l.Base().ID] = i
		ll.index.Insert(l.Base().Bounds, i)
	}
	return ll
}

type layerBuilder struct {
	scene *Scene
	geo   *GeometryCache
	ll    *LayerList
	z     int
}

func (b *layerBuilder) visit(id NodeID, opacity float64, clips []Clip) {
	n, ok := b.scene.Nodes.Get(id)
	if !ok || !n.Common().Visible {
		return
	}
	e, ok := b.geo.entries[id]
	if !ok {
		return
	}
	z := b.z
	b.z++
	c := n.Common()
	opacity *= c.Opacity
	shape := b.geo.shapes[id]

	base := LayerBase{
		ID:        id,
		Z:         z,
		Transform: e.WorldTransform,
		Opacity:   opacity,
		BlendMode: c.BlendMode,
		Effects:   c.Effects,
		Bounds:    e.RenderBounds,
		Clips:     clips,
	}
	base.ShapeBounds = e.WorldBounds
	var stroke ppath.Path
	if c.hasStroke() && shape != nil {
		stroke = shape.StrokeOutline(c.Stroke)
		base.ShapeBounds = strokeBounds(e.WorldTransform, e.LocalBounds, e.WorldBounds, c.Stroke.Outset())
	}

	switch n := n.(type) {
	case *GroupNode:
		// No layer of its own.
	case *ContainerNode:
		if !n.Clip || c.paints() {
			b.add(&ShapeLayer{LayerBase: base, Shape: shape, Fills: c.Fills, Strokes: c.Strokes, StrokeOutline: stroke})
		}
		if n.Clip {
			clips = append(clips[:len(clips):len(clips)], Clip{Transform: e.WorldTransform, Path: shape.Path})
		}
	case *BooleanOperationNode:
		b.add(&ShapeLayer{LayerBase: base, Shape: shape, Fills: c.Fills, Strokes: c.Strokes, StrokeOutline: stroke})
		return
	case *ErrorNode:
		fills := c.Fills
		if len(fills) == 0 {
			fills = errorFill
		}
		b.add(&ShapeLayer{LayerBase: base, Shape: shape, Fills: fills, Strokes: c.Strokes, StrokeOutline: stroke})
	case *VectorNode:
		var regions []RegionPath
		if n.Network != nil {
			regions = n.Network.RegionPaths()
			for i := range regions {
				if regions[i].Fills == nil {
					regions[i].Fills = c.Fills
				}
				if n.CornerRadius > 0 {
					regions[i].Path = rounded(regions[i].Path, n.CornerRadius)
				}
			}
		}
		b.add(&VectorLayer{LayerBase: base, Shape: shape, Regions: regions, Strokes: c.Strokes, StrokeOutline: stroke})
	case *TextSpanNode:
		sz, layout := textSize(n, b.geo.fonts)
		b.add(&TextLayer{LayerBase: base, Shape: shape, Text: n.Text, Layout: layout, Size: sz, Fills: c.Fills})
	case *ImageNode:
		b.add(&ImageLayer{
			LayerBase: base, Shape: shape, Src: n.Src, Fit: n.Fit, Size: n.Size,
			Fills: c.Fills, Strokes: c.Strokes, StrokeOutline: stroke,
		})
	default:
		b.add(&ShapeLayer{LayerBase: base, Shape: shape, Fills: c.Fills, Strokes: c.Strokes, StrokeOutline: stroke})
	}

	for _, ch := range b.scene.Nodes.Children(id) {
		b.visit(ch, opacity, clips)
	}
}

func (b *layerBuilder) add(l Layer) {
	b.ll.layers = append(b.ll.layers, l)
}

// Generation returns the scene generation the list was built from.
func (ll *LayerList) Generation() uint64 { return ll.generation }

// Len returns the number of layers.
func (ll *LayerList) Len() int { return len(ll.layers) }

// At returns layer i. Layer indices are in ascending z order.
func (ll *LayerList) At(i int) Layer { return ll.layers[i] }

// Layers returns every layer in paint order. The slice must not be
// modified.
func (ll *LayerList) Layers() []Layer { return ll.layers }

// IndexOf returns the layer index of node id.
func (ll *LayerList) IndexOf(id NodeID) (int, bool) {
	i, ok := ll.byID[id]
	return i, ok
}

// ByID returns the layer of node id.
func (ll *LayerList) ByID(id NodeID) (Layer, bool) {
	i, ok := ll.byID[id]
	if !ok {
		return nil, false
	}
	return ll.layers[i], true
}

// Index returns the spatial index over layer envelopes.
func (ll *LayerList) Index() *SpatialIndex { return &ll.index }

// LayersInRect returns the indices of every layer whose envelope intersects
// r, in ascending z order.
func (ll *LayerList) LayersInRect(r Rect) []int {
	return ll.index.Query(r)
}
