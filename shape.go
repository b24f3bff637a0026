package birch

import (
	"fmt"
	"math"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/paint/ppath"

	"github.com/phanxgames/birch/geom"
)

// Shape is the local geometry of a node: the outline its fills cover and its
// strokes follow.
type Shape struct {
	Path     ppath.Path
	FillRule ppath.FillRules
	// Bounds are the tight local bounds; empty shapes have a zero rect.
	Bounds Rect

	// Operands are set for boolean operation shapes. Path is then every
	// operand outline in the boolean node's space.
	Op       BooleanOp
	Operands []Operand
}

// Operand is one input of a boolean operation, placed by Transform in the
// boolean node's local space.
type Operand struct {
	Transform Transform
	Shape     Shape
}

// IsBoolean reports whether the shape combines operands.
func (s *Shape) IsBoolean() bool { return len(s.Operands) > 0 }

// IsEmpty reports whether the shape has nothing to fill.
func (s *Shape) IsEmpty() bool { return len(s.Path) == 0 && len(s.Operands) == 0 }

// Contains reports whether the local point lies in the filled area.
func (s *Shape) Contains(x, y float64) bool {
	if s.IsBoolean() {
		return s.booleanContains(x, y)
	}
	if len(s.Path) == 0 {
		return false
	}
	return geom.Contains(s.Path, s.FillRule, float32(x), float32(y))
}

func (s *Shape) booleanContains(x, y float64) bool {
	count := 0
	for i := range s.Operands {
		op := &s.Operands[i]
		inv, ok := op.Transform.Inverse()
		if !ok {
			continue
		}
		lx, ly := inv.Apply(x, y)
		in := op.Shape.Contains(lx, ly)
		switch s.Op {
		case BooleanDifference:
			if i == 0 && !in {
				return false
			}
			if i > 0 && in {
				return false
			}
		case BooleanIntersection:
			if !in {
				return false
			}
		}
		if in {
			count++
		}
	}
	switch s.Op {
	case BooleanUnion:
		return count > 0
	case BooleanXor:
		return count%2 == 1
	default:
		return count > 0
	}
}

// StrokeOutline returns the fillable outline of the shape stroked with st,
// or an empty path when st has no width.
func (s *Shape) StrokeOutline(st StrokeStyle) ppath.Path {
	if len(s.Path) == 0 {
		return ppath.Path{}
	}
	return geom.StrokePath(s.Path, st.Options())
}

// rectShape is the shape of a box (0, 0, w, h) with optional corner radii.
func rectShape(sz Size, radii geom.CornerRadii) Shape {
	return Shape{
		Path:   geom.RoundedRect(0, 0, float32(sz.Width), float32(sz.Height), radii),
		Bounds: Rect{Width: sz.Width, Height: sz.Height},
	}
}

// pathShape wraps a path with its own tight bounds.
func pathShape(p ppath.Path, rule ppath.FillRules) Shape {
	b, _ := boxRect(geom.Bounds(p))
	return Shape{Path: p, FillRule: rule, Bounds: b}
}

func rounded(p ppath.Path, r float64) ppath.Path {
	if r <= 0 {
		return p
	}
	return geom.CornerRadiusPath(p, float32(r))
}

// BuildShape returns the local shape of the node id. Boolean operations pull
// their operands from the node's visible children. A node whose path data
// fails to parse yields an empty shape and the parse error.
func BuildShape(nodes *NodeRepository, id NodeID, fonts TextMeasurer) (Shape, error) {
	n, ok := nodes.Get(id)
	if !ok {
		return Shape{}, fmt.Errorf("birch: build shape %d: %w", id, ErrNodeNotFound)
	}
	switch n := n.(type) {
	case *ContainerNode:
		return rectShape(n.Size, n.CornerRadius), nil
	case *RectangleNode:
		return rectShape(n.Size, n.CornerRadius), nil
	case *ImageNode:
		return rectShape(n.Size, n.CornerRadius), nil
	case *ErrorNode:
		return rectShape(n.Size, geom.CornerRadii{}), nil
	case *EllipseNode:
		return Shape{
			Path:   geom.Ellipse(0, 0, float32(n.Size.Width), float32(n.Size.Height)),
			Bounds: Rect{Width: n.Size.Width, Height: n.Size.Height},
		}, nil
	case *PolygonNode:
		if len(n.Points) < 3 {
			panic("birch: polygon needs at least 3 points")
		}
		pts := make([]math32.Vector2, len(n.Points))
		for i, p := range n.Points {
			pts[i] = math32.Vec2(float32(p.X), float32(p.Y))
		}
		return pathShape(rounded(geom.Polygon(pts), n.CornerRadius), ppath.NonZero), nil
	case *RegularPolygonNode:
		p := geom.RegularPolygon(n.PointCount, float32(n.Size.Width), float32(n.Size.Height))
		s := pathShape(rounded(p, n.CornerRadius), ppath.NonZero)
		s.Bounds = Rect{Width: n.Size.Width, Height: n.Size.Height}
		return s, nil
	case *StarNode:
		p := geom.Star(n.PointCount, float32(n.Size.Width), float32(n.Size.Height), float32(n.InnerRadius))
		s := pathShape(rounded(p, n.CornerRadius), ppath.NonZero)
		s.Bounds = Rect{Width: n.Size.Width, Height: n.Size.Height}
		return s, nil
	case *LineNode:
		return Shape{
			Path:   geom.Line(0, 0, float32(n.Length), 0),
			Bounds: Rect{Width: math.Max(n.Length, 0)},
		}, nil
	case *TextSpanNode:
		sz, _ := textSize(n, fonts)
		return rectShape(sz, geom.CornerRadii{}), nil
	case *VectorNode:
		if n.Network == nil {
			return Shape{}, nil
		}
		return pathShape(rounded(n.Network.ToPath(), n.CornerRadius), ppath.NonZero), nil
	case *PathNode:
		p, err := geom.ParseSVGPath(n.Data)
		if err != nil {
			return Shape{}, err
		}
		return pathShape(p, ppath.NonZero), nil
	case *GroupNode:
		return Shape{}, nil
	case *BooleanOperationNode:
		return booleanShape(nodes, id, n, fonts)
	}
	panic(fmt.Sprintf("birch: unknown node type %T", n))
}

func booleanShape(nodes *NodeRepository, id NodeID, n *BooleanOperationNode, fonts TextMeasurer) (Shape, error) {
	s := Shape{Op: n.Op, FillRule: ppath.NonZero}
	var bounds []Rect
	for _, c := range nodes.Children(id) {
		cn, ok := nodes.Get(c)
		if !ok || !cn.Common().Visible {
			continue
		}
		cs, err := BuildShape(nodes, c, fonts)
		if err != nil {
			return Shape{}, err
		}
		if cs.IsEmpty() {
			continue
		}
		t := cn.Common().LocalTransform()
		ob := t.TransformRect(cs.Bounds)
		bounds = append(bounds, ob)
		path := geom.Transform(cs.Path, t.Matrix2())
		if n.CornerRadius > 0 && !cs.IsBoolean() {
			// Plain operands are rounded in the boolean node's space.
			path = rounded(path, n.CornerRadius)
			cs = Shape{Path: path, FillRule: cs.FillRule, Bounds: ob}
			t = Identity
		}
		s.Operands = append(s.Operands, Operand{Transform: t, Shape: cs})
		s.Path = s.Path.Append(path)
	}
	s.Bounds, _ = unionRects(bounds...)
	return s, nil
}

// textSize returns the box of a text span: the explicit width or the
// measured width, the explicit height or the laid-out height, each at least 1.
func textSize(n *TextSpanNode, fonts TextMeasurer) (Size, TextLayout) {
	var wrap float64
	if n.Width != nil {
		wrap = *n.Width
	}
	l := LayoutText(fonts, n.Text, n.Style, wrap)
	sz := Size{Width: l.Width, Height: l.Height}
	if n.Width != nil {
		sz.Width = *n.Width
	}
	if n.Height != nil {
		sz.Height = *n.Height
	}
	sz.Width = math.Max(sz.Width, 1)
	sz.Height = math.Max(sz.Height, 1)
	return sz, l
}
