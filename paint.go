package birch

import (
	"cogentcore.org/core/paint/ppath"

	"github.com/phanxgames/birch/geom"
)

// Paint is a fill or stroke source. It is a closed set: SolidPaint,
// LinearGradientPaint, RadialGradientPaint, and ImagePaint.
type Paint interface {
	// PaintOpacity returns the paint's own opacity multiplier.
	PaintOpacity() float64
	isPaint()
}

// SolidPaint fills with a single color.
type SolidPaint struct {
	Color   Color
	Opacity float64
}

// Solid returns a fully opaque SolidPaint.
func Solid(c Color) SolidPaint {
	return SolidPaint{Color: c, Opacity: 1}
}

// GradientStop places a color at an offset in [0, 1].
type GradientStop struct {
	Offset float64
	Color  Color
}

// LinearGradientPaint interpolates along the x axis of the unit square,
// mapped onto the painted shape's box. Transform maps gradient space into
// that unit square.
type LinearGradientPaint struct {
	Transform Transform
	Stops     []GradientStop
	Opacity   float64
}

// RadialGradientPaint interpolates outward from the center of the unit
// square (radius 0.5), mapped onto the painted shape's box.
type RadialGradientPaint struct {
	Transform Transform
	Stops     []GradientStop
	Opacity   float64
}

// BoxFit controls how an image paint is scaled into the shape's box.
type BoxFit uint8

const (
	BoxFitCover   BoxFit = iota // scale to fill, cropping overflow
	BoxFitContain               // scale to fit inside, letterboxing
	BoxFitFill                  // stretch to the box
	BoxFitNone                  // natural size at the box origin
)

// ImagePaint fills with an image from the ImageRepository, looked up by Src.
type ImagePaint struct {
	Src       string
	Fit       BoxFit
	Transform Transform
	Opacity   float64
}

func (p SolidPaint) PaintOpacity() float64          { return p.Opacity }
func (p LinearGradientPaint) PaintOpacity() float64 { return p.Opacity }
func (p RadialGradientPaint) PaintOpacity() float64 { return p.Opacity }
func (p ImagePaint) PaintOpacity() float64          { return p.Opacity }

func (SolidPaint) isPaint()          {}
func (LinearGradientPaint) isPaint() {}
func (RadialGradientPaint) isPaint() {}
func (ImagePaint) isPaint()          {}

// visiblePaints reports whether any paint in ps can produce pixels.
func visiblePaints(ps []Paint) bool {
	for _, p := range ps {
		if p != nil && p.PaintOpacity() > 0 {
			return true
		}
	}
	return false
}

// StrokeStyle describes the geometry of a node's strokes.
type StrokeStyle struct {
	Width      float64
	Align      geom.StrokeAlign
	Cap        ppath.Caps
	Join       ppath.Joins
	MiterLimit float64
	DashArray  []float64
	DashOffset float64
	// WidthProfile switches the stroke to variable width.
	WidthProfile *geom.WidthProfile
}

// DefaultStrokeStyle is a 1px centered stroke with butt caps and miter joins.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{
		Width:      1,
		Align:      geom.StrokeAlignCenter,
		Cap:        ppath.CapButt,
		Join:       ppath.JoinMiter,
		MiterLimit: geom.DefaultMiterLimit,
	}
}

// Options converts the style to the geometry package's stroke options.
func (s StrokeStyle) Options() geom.StrokeOptions {
	var dash []float32
	if len(s.DashArray) > 0 {
		dash = make([]float32, len(s.DashArray))
		for i, d := range s.DashArray {
			dash[i] = float32(d)
		}
	}
	return geom.StrokeOptions{
		Width:      float32(s.Width),
		Align:      s.Align,
		Cap:        s.Cap,
		Join:       s.Join,
		MiterLimit: float32(s.MiterLimit),
		Dash:       dash,
		DashOffset: float32(s.DashOffset),
		Profile:    s.WidthProfile,
	}
}

// Outset returns how far the stroke reaches past the outline.
func (s StrokeStyle) Outset() float64 {
	return float64(s.Options().Outset())
}

// GaussianBlur is a blur with the given radius (standard deviation).
type GaussianBlur struct {
	Radius float64
}

// Shadow is a drop shadow, or an inner shadow when Inner is set.
type Shadow struct {
	Inner  bool
	DX, DY float64
	Blur   float64
	Spread float64
	Color  Color
}

// Noise overlays grain on the painted shape.
type Noise struct {
	Opacity    float64
	Monochrome bool
}

// Effects are the per-node visual effects.
type Effects struct {
	Blur         *GaussianBlur // layer blur
	BackdropBlur *GaussianBlur
	Shadows      []Shadow
	Noises       []Noise
}

// IsEmpty reports whether no effect is set.
func (e Effects) IsEmpty() bool {
	return e.Blur == nil && e.BackdropBlur == nil && len(e.Shadows) == 0 && len(e.Noises) == 0
}

// Expand grows r to cover everything the effects can paint. A layer blur
// inflates by three times its radius. A drop shadow adds its own rect: r
// inflated by the spread, offset, and inflated by three times the blur.
// Backdrop blur, inner shadows, and noise stay inside r.
func (e Effects) Expand(r Rect) Rect { return e.ExpandScaled(r, 1) }

// ExpandScaled is Expand with every effect length multiplied by k.
func (e Effects) ExpandScaled(r Rect, k float64) Rect {
	if e.Blur != nil {
		r = r.Inflate(3 * e.Blur.Radius * k)
	}
	base := r
	for _, s := range e.Shadows {
		if s.Inner {
			continue
		}
		shadow := base
		if s.Spread != 0 {
			shadow = shadow.Inflate(s.Spread * k)
		}
		shadow = shadow.Offset(s.DX*k, s.DY*k).Inflate(3 * s.Blur * k)
		r = r.Union(shadow)
	}
	return r
}
