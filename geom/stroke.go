package geom

import (
	"cogentcore.org/core/paint/ppath"
	"cogentcore.org/core/paint/ppath/intersect"
	"cogentcore.org/core/paint/ppath/stroke"
)

// StrokeAlign places a stroke relative to the outline it follows. The zero
// value is centered.
type StrokeAlign uint8

const (
	StrokeAlignCenter StrokeAlign = iota
	StrokeAlignInside
	StrokeAlignOutside
)

func (a StrokeAlign) String() string {
	switch a {
	case StrokeAlignInside:
		return "inside"
	case StrokeAlignCenter:
		return "center"
	case StrokeAlignOutside:
		return "outside"
	}
	return "unknown"
}

// DefaultMiterLimit matches the SVG default.
const DefaultMiterLimit = 4

// varWidthSamples is the number of outline samples per segment for
// variable-width strokes.
const varWidthSamples = 20

// StrokeOptions describes how a path is stroked.
type StrokeOptions struct {
	Width      float32
	Align      StrokeAlign
	Cap        ppath.Caps
	Join       ppath.Joins
	MiterLimit float32
	// Dash alternates dash and gap lengths. Empty means solid.
	Dash       []float32
	DashOffset float32
	// Profile, when set, replaces the uniform width with a variable one.
	// Alignment and dashes do not apply to variable-width strokes.
	Profile *WidthProfile
}

// Outset returns how far the stroke reaches beyond the outline it follows:
// 0 for inside, half the width for center, and the full width for outside.
func (o StrokeOptions) Outset() float32 {
	if o.Profile != nil {
		return o.Profile.MaxWidth()
	}
	switch o.Align {
	case StrokeAlignInside:
		return 0
	case StrokeAlignOutside:
		return o.Width
	default:
		return o.Width / 2
	}
}

func (o StrokeOptions) capper() stroke.Capper {
	return stroke.CapFromStyle(o.Cap)
}

func (o StrokeOptions) joiner() stroke.Joiner {
	switch o.Join {
	case ppath.JoinMiter, ppath.JoinMiterClip:
		limit := o.MiterLimit
		if limit <= 0 {
			limit = DefaultMiterLimit
		}
		var gap stroke.Joiner = stroke.BevelJoin
		if o.Join == ppath.JoinMiterClip {
			gap = nil
		}
		return stroke.MiterJoiner{GapJoiner: gap, Limit: limit}
	}
	return stroke.JoinFromStyle(o.Join)
}

// StrokePath returns the fillable outline of p stroked with o. Center
// strokes straddle the path. Inside and outside strokes on closed subpaths
// follow a copy of the subpath offset by half the width toward the interior
// or exterior; open subpaths have no interior, so every alignment strokes
// them centered. Dashes are cut from the line the stroke follows, which keeps
// the perpendicular thickness of every dash equal to the solid stroke.
func StrokePath(p ppath.Path, o StrokeOptions) ppath.Path {
	if len(p) == 0 {
		return ppath.Path{}
	}
	if o.Profile != nil {
		return VarWidthOutline(p, *o.Profile, varWidthSamples)
	}
	if o.Width <= 0 {
		return ppath.Path{}
	}
	out := ppath.Path{}
	for _, sub := range p.Split() {
		line := alignedCenterLine(sub, o.Align, o.Width)
		if len(o.Dash) > 0 {
			line = stroke.Dash(line, o.DashOffset, o.Dash...)
		}
		if len(line) == 0 {
			continue
		}
		out = out.Append(stroke.Stroke(line, o.Width, o.capper(), o.joiner(), Tolerance))
	}
	return out
}

// alignedCenterLine returns the line a centered stroke must follow to land
// on the requested side of sub.
func alignedCenterLine(sub ppath.Path, align StrokeAlign, w float32) ppath.Path {
	if align == StrokeAlignCenter || !sub.Closed() {
		return sub
	}
	d := w / 2
	if align == StrokeAlignInside {
		d = -d
	}
	if !intersect.CCW(sub) {
		d = -d
	}
	return stroke.Offset(sub, d, Tolerance)
}
