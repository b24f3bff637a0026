package birch

import (
	"github.com/phanxgames/birch/geom"
)

// NodeID identifies a node within a NodeRepository. Zero is never assigned.
type NodeID uint32

// Node is a drawable scene element. The set of node kinds is closed; every
// switch over Node in this package handles each of them:
//
//	*ContainerNode, *RectangleNode, *EllipseNode, *PolygonNode,
//	*RegularPolygonNode, *StarNode, *LineNode, *TextSpanNode, *VectorNode,
//	*PathNode, *ImageNode, *GroupNode, *BooleanOperationNode, *ErrorNode
type Node interface {
	// Common returns the fields shared by every node kind.
	Common() *NodeCommon
	isNode()
}

// NodeCommon holds the properties every node carries.
type NodeCommon struct {
	// ID is assigned by NodeRepository.Insert.
	ID   NodeID
	Name string

	// Transform is the local transform relative to the parent. The zero
	// matrix is treated as the identity.
	Transform Transform

	Opacity   float64
	BlendMode BlendMode
	Visible   bool

	Fills   []Paint
	Strokes []Paint
	Stroke  StrokeStyle
	Effects Effects
}

// Common implements Node.
func (c *NodeCommon) Common() *NodeCommon { return c }

func (c *NodeCommon) isNode() {}

// LocalTransform returns Transform, substituting the identity for the zero
// matrix.
func (c *NodeCommon) LocalTransform() Transform {
	if c.Transform == (Transform{}) {
		return Identity
	}
	return c.Transform
}

// SetPosition replaces the translation of the local transform.
func (c *NodeCommon) SetPosition(x, y float64) {
	t := c.LocalTransform()
	t[4], t[5] = x, y
	c.Transform = t
}

// hasStroke reports whether the node paints a visible stroke.
func (c *NodeCommon) hasStroke() bool {
	if !visiblePaints(c.Strokes) {
		return false
	}
	return c.Stroke.Width > 0 || c.Stroke.WidthProfile != nil
}

// paints reports whether the node produces any pixels of its own.
func (c *NodeCommon) paints() bool {
	return visiblePaints(c.Fills) || c.hasStroke() || !c.Effects.IsEmpty()
}

// newCommon sets the default field values shared by all constructors.
func newCommon(name string) NodeCommon {
	return NodeCommon{
		Name:      name,
		Transform: Identity,
		Opacity:   1,
		Visible:   true,
		Stroke:    DefaultStrokeStyle(),
	}
}

// ContainerNode is a box that holds children. With Clip set its children
// are clipped to its rounded rect. A zero Size makes it auto-sized: its
// bounds become the union of its children.
type ContainerNode struct {
	NodeCommon
	Size         Size
	CornerRadius geom.CornerRadii
	Clip         bool
}

// RectangleNode is a rectangle with independent corner radii.
type RectangleNode struct {
	NodeCommon
	Size         Size
	CornerRadius geom.CornerRadii
}

// EllipseNode is the ellipse inscribed in its size.
type EllipseNode struct {
	NodeCommon
	Size Size
}

// PolygonNode is a closed polygon through Points (at least three).
type PolygonNode struct {
	NodeCommon
	Points       []Vec2
	CornerRadius float64
}

// RegularPolygonNode is a regular polygon inscribed in its size.
type RegularPolygonNode struct {
	NodeCommon
	Size         Size
	PointCount   int
	CornerRadius float64
}

// StarNode is a star inscribed in its size. InnerRadius is the ratio of the
// inner to the outer radius.
type StarNode struct {
	NodeCommon
	Size         Size
	PointCount   int
	InnerRadius  float64
	CornerRadius float64
}

// LineNode is a horizontal line of Length from the local origin.
type LineNode struct {
	NodeCommon
	Length float64
}

// TextSpanNode is a run of text. Width and Height, when set, override the
// measured size; a set Width also wraps the text.
type TextSpanNode struct {
	NodeCommon
	Text   string
	Style  TextStyle
	Width  *float64
	Height *float64
}

// VectorNode draws a VectorNetwork.
type VectorNode struct {
	NodeCommon
	Network      *VectorNetwork
	CornerRadius float64
}

// PathNode draws SVG path data.
type PathNode struct {
	NodeCommon
	Data string
}

// ImageNode draws an image from the ImageRepository in a box.
type ImageNode struct {
	NodeCommon
	Size         Size
	Src          string
	Fit          BoxFit
	CornerRadius geom.CornerRadii
}

// GroupNode groups children without a box of its own.
type GroupNode struct {
	NodeCommon
}

// BooleanOp combines the shapes of a BooleanOperationNode's children.
type BooleanOp uint8

const (
	BooleanUnion BooleanOp = iota
	BooleanIntersection
	BooleanDifference
	BooleanXor
)

func (op BooleanOp) String() string {
	switch op {
	case BooleanUnion:
		return "union"
	case BooleanIntersection:
		return "intersection"
	case BooleanDifference:
		return "difference"
	case BooleanXor:
		return "xor"
	}
	return "unknown"
}

// BooleanOperationNode paints the boolean combination of its children's
// shapes with its own fills and strokes. The children are operands and are
// not painted on their own.
type BooleanOperationNode struct {
	NodeCommon
	Op           BooleanOp
	CornerRadius float64
}

// ErrorNode stands in for content that failed to load.
type ErrorNode struct {
	NodeCommon
	Size    Size
	Message string
}

// --- Constructors ---

// NewContainer creates a container of the given size. Pass zero for an
// auto-sized container.
func NewContainer(name string, w, h float64) *ContainerNode {
	return &ContainerNode{NodeCommon: newCommon(name), Size: Size{w, h}}
}

// NewRectangle creates a rectangle of the given size.
func NewRectangle(name string, w, h float64) *RectangleNode {
	return &RectangleNode{NodeCommon: newCommon(name), Size: Size{w, h}}
}

// NewEllipse creates an ellipse of the given size.
func NewEllipse(name string, w, h float64) *EllipseNode {
	return &EllipseNode{NodeCommon: newCommon(name), Size: Size{w, h}}
}

// NewPolygon creates a polygon through points. It panics if fewer than three
// points are given.
func NewPolygon(name string, points ...Vec2) *PolygonNode {
	if len(points) < 3 {
		panic("birch: polygon needs at least 3 points")
	}
	return &PolygonNode{NodeCommon: newCommon(name), Points: points}
}

// NewRegularPolygon creates an n-sided regular polygon.
func NewRegularPolygon(name string, w, h float64, n int) *RegularPolygonNode {
	if n < 3 {
		panic("birch: regular polygon needs at least 3 sides")
	}
	return &RegularPolygonNode{NodeCommon: newCommon(name), Size: Size{w, h}, PointCount: n}
}

// NewStar creates an n-pointed star with the given inner radius ratio.
func NewStar(name string, w, h float64, n int, inner float64) *StarNode {
	if n < 3 {
		panic("birch: star needs at least 3 points")
	}
	return &StarNode{NodeCommon: newCommon(name), Size: Size{w, h}, PointCount: n, InnerRadius: inner}
}

// NewLine creates a horizontal line.
func NewLine(name string, length float64) *LineNode {
	return &LineNode{NodeCommon: newCommon(name), Length: length}
}

// NewTextSpan creates a text span with the given style.
func NewTextSpan(name, text string, style TextStyle) *TextSpanNode {
	n := &TextSpanNode{NodeCommon: newCommon(name), Text: text, Style: style}
	n.Fills = []Paint{Solid(ColorBlack)}
	return n
}

// NewVector creates a vector node drawing network.
func NewVector(name string, network *VectorNetwork) *VectorNode {
	return &VectorNode{NodeCommon: newCommon(name), Network: network}
}

// NewPath creates a node drawing SVG path data.
func NewPath(name, data string) *PathNode {
	return &PathNode{NodeCommon: newCommon(name), Data: data}
}

// NewImage creates an image node showing src.
func NewImage(name, src string, w, h float64) *ImageNode {
	return &ImageNode{NodeCommon: newCommon(name), Src: src, Size: Size{w, h}}
}

// NewGroup creates an empty group.
func NewGroup(name string) *GroupNode {
	return &GroupNode{NodeCommon: newCommon(name)}
}

// NewBooleanOperation creates a boolean operation node.
func NewBooleanOperation(name string, op BooleanOp) *BooleanOperationNode {
	return &BooleanOperationNode{NodeCommon: newCommon(name), Op: op}
}

// NewErrorNode creates a placeholder for failed content.
func NewErrorNode(name, message string, w, h float64) *ErrorNode {
	return &ErrorNode{NodeCommon: newCommon(name), Size: Size{w, h}, Message: message}
}

// isParentKind reports whether n may hold children.
func isParentKind(n Node) bool {
	switch n.(type) {
	case *ContainerNode, *GroupNode, *BooleanOperationNode:
		return true
	}
	return false
}
