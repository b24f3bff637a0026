package birch

import (
	"math"

	"cogentcore.org/core/math32"
)

// Transform is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Transform [6]float64

// Identity is the identity transform.
var Identity = Transform{1, 0, 0, 1, 0, 0}

// Translate returns a pure translation.
func Translate(x, y float64) Transform {
	return Transform{1, 0, 0, 1, x, y}
}

// Scale returns a pure scale about the origin.
func Scale(sx, sy float64) Transform {
	return Transform{sx, 0, 0, sy, 0, 0}
}

// NewTransform returns a translation by (x, y) followed by a rotation
// (radians) about the local origin.
func NewTransform(x, y, rotation float64) Transform {
	sin, cos := math.Sincos(rotation)
	return Transform{cos, sin, -sin, cos, x, y}
}

// Compose returns t * child: child is applied first, then t.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		t[0]*child[0] + t[2]*child[1],
		t[1]*child[0] + t[3]*child[1],
		t[0]*child[2] + t[2]*child[3],
		t[1]*child[2] + t[3]*child[3],
		t[0]*child[4] + t[2]*child[5] + t[4],
		t[1]*child[4] + t[3]*child[5] + t[5],
	}
}

// Inverse returns the inverse matrix. ok is false (and the identity is
// returned) when the matrix is singular.
func (t Transform) Inverse() (Transform, bool) {
	det := t[0]*t[3] - t[2]*t[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity, false
	}
	invDet := 1.0 / det
	a := t[3] * invDet
	b := -t[1] * invDet
	c := -t[2] * invDet
	d := t[0] * invDet
	return Transform{
		a, b, c, d,
		-(a*t[4] + c*t[5]),
		-(b*t[4] + d*t[5]),
	}, true
}

// Apply transforms the point (x, y).
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t[0]*x + t[2]*y + t[4], t[1]*x + t[3]*y + t[5]
}

// Translation returns the (tx, ty) component.
func (t Transform) Translation() (float64, float64) {
	return t[4], t[5]
}

// Rotation returns the rotation angle of the matrix in radians.
func (t Transform) Rotation() float64 {
	return math.Atan2(t[1], t[0])
}

// Scale returns the uniform scale factor of t, the square root of the
// absolute determinant.
func (t Transform) Scale() float64 {
	return math.Sqrt(math.Abs(t[0]*t[3] - t[1]*t[2]))
}

// IsIdentity reports whether t is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == Identity
}

// TransformRect returns the axis-aligned bounds of r after transformation.
func (t Transform) TransformRect(r Rect) Rect {
	x0, y0 := t.Apply(r.X, r.Y)
	x1, y1 := t.Apply(r.Right(), r.Y)
	x2, y2 := t.Apply(r.Right(), r.Bottom())
	x3, y3 := t.Apply(r.X, r.Bottom())

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Matrix2 converts t to the float32 matrix used by the path package.
func (t Transform) Matrix2() math32.Matrix2 {
	return math32.Matrix2{
		XX: float32(t[0]), YX: float32(t[1]),
		XY: float32(t[2]), YY: float32(t[3]),
		X0: float32(t[4]), Y0: float32(t[5]),
	}
}

// LocalTransform describes a transform by its components. Matrix composes
// them in the order:
//
//	Translate(-PivotX, -PivotY) -> Scale -> Skew -> Rotate -> Translate(X, Y)
type LocalTransform struct {
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
	SkewX, SkewY   float64
	PivotX, PivotY float64
}

// Matrix returns the affine matrix for the components. A zero scale is
// treated as 1 so the zero value is the identity.
func (lt LocalTransform) Matrix() Transform {
	sx, sy := lt.ScaleX, lt.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}

	sin, cos := math.Sincos(lt.Rotation)

	var tanSkewX, tanSkewY float64
	if lt.SkewX != 0 {
		tanSkewX = math.Tan(lt.SkewX)
	}
	if lt.SkewY != 0 {
		tanSkewY = math.Tan(lt.SkewY)
	}

	a := sx
	b := tanSkewY * sx
	c := tanSkewX * sy
	d := sy

	preTx := -lt.PivotX*sx - tanSkewX*lt.PivotY*sy
	preTy := -tanSkewY*lt.PivotX*sx - lt.PivotY*sy

	ra := cos*a - sin*b
	rb := sin*a + cos*b
	rc := cos*c - sin*d
	rd := sin*c + cos*d
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	return Transform{ra, rb, rc, rd, rtx + lt.X, rty + lt.Y}
}
