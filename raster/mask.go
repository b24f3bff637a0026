package raster

import (
	"image"
	"image/color"
	"math"

	"cogentcore.org/core/paint/ppath"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/phanxgames/birch"
	"github.com/phanxgames/birch/geom"
)

// Coverage masks are *image.Alpha values whose Rect is the device area
// being painted, so every mask of one layer shares its pixel layout.

// rasterize fills path under m into a coverage mask over area, non-zero.
func rasterize(z *vector.Rasterizer, path ppath.Path, m birch.Transform, area image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(area)
	if area.Empty() || len(path) == 0 {
		return mask
	}
	dev := geom.Flatten(geom.Transform(path, m.Matrix2()))
	z.Reset(area.Dx(), area.Dy())
	z.DrawOp = draw.Over
	ox, oy := float32(area.Min.X), float32(area.Min.Y)
	open := false
	for s := dev.Scanner(); s.Scan(); {
		e := s.End()
		switch s.Cmd() {
		case ppath.MoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(e.X-ox, e.Y-oy)
			open = true
		case ppath.Close:
			z.ClosePath()
			open = false
		default:
			z.LineTo(e.X-ox, e.Y-oy)
			open = true
		}
	}
	if open {
		z.ClosePath()
	}
	z.Draw(mask, area, image.Opaque, image.Point{})
	return mask
}

// pathMask is rasterize honoring rule. Even-odd fills combine subpaths
// with xor, which is exact for subpaths that do not cross themselves.
func pathMask(z *vector.Rasterizer, path ppath.Path, rule ppath.FillRules, m birch.Transform, area image.Rectangle) *image.Alpha {
	if rule != ppath.EvenOdd {
		return rasterize(z, path, m, area)
	}
	subs := path.Split()
	if len(subs) <= 1 {
		return rasterize(z, path, m, area)
	}
	out := rasterize(z, subs[0], m, area)
	for _, s := range subs[1:] {
		combine(out, rasterize(z, s, m, area), birch.BooleanXor)
	}
	return out
}

// shapeMask rasterizes a shape, combining boolean operands.
func shapeMask(z *vector.Rasterizer, s *birch.Shape, m birch.Transform, area image.Rectangle) *image.Alpha {
	if !s.IsBoolean() {
		return pathMask(z, s.Path, s.FillRule, m, area)
	}
	var out *image.Alpha
	for i := range s.Operands {
		op := &s.Operands[i]
		c := shapeMask(z, &op.Shape, m.Compose(op.Transform), area)
		if out == nil {
			out = c
			continue
		}
		combine(out, c, s.Op)
	}
	if out == nil {
		out = image.NewAlpha(area)
	}
	return out
}

// combine merges b into a with the boolean op. Both masks cover the same
// area.
func combine(a, b *image.Alpha, op birch.BooleanOp) {
	for i, bv := range b.Pix {
		x, y := uint32(a.Pix[i]), uint32(bv)
		var v uint32
		switch op {
		case birch.BooleanIntersection:
			v = x * y / 255
		case birch.BooleanDifference:
			v = x * (255 - y) / 255
		case birch.BooleanXor:
			v = x + y - 2*x*y/255
		default:
			v = x + y - x*y/255
		}
		a.Pix[i] = uint8(v)
	}
}

// multiply scales a by b in place. A nil b leaves a unchanged.
func multiply(a, b *image.Alpha) {
	if b == nil {
		return
	}
	for i, bv := range b.Pix {
		a.Pix[i] = uint8(uint32(a.Pix[i]) * uint32(bv) / 255)
	}
}

// scaled returns a copy of m with every value multiplied by k.
func scaled(m *image.Alpha, k float64) *image.Alpha {
	out := image.NewAlpha(m.Rect)
	if k >= 1 {
		copy(out.Pix, m.Pix)
		return out
	}
	f := uint32(math.Round(math.Max(k, 0) * 255))
	for i, v := range m.Pix {
		out.Pix[i] = uint8(uint32(v) * f / 255)
	}
	return out
}

// alphaOf returns the alpha channel of img.
func alphaOf(img *image.RGBA) *image.Alpha {
	out := image.NewAlpha(img.Rect)
	for i := range out.Pix {
		out.Pix[i] = img.Pix[4*i+3]
	}
	return out
}

// inverted returns 255 - m.
func inverted(m *image.Alpha) *image.Alpha {
	out := image.NewAlpha(m.Rect)
	for i, v := range m.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}

// solidMask returns a mask over area filled with v.
func solidMask(area image.Rectangle, v uint8) *image.Alpha {
	out := image.NewAlpha(area)
	for i := range out.Pix {
		out.Pix[i] = v
	}
	return out
}

// premul converts a straight-alpha color with an extra opacity factor to a
// premultiplied color.RGBA.
func premul(c birch.Color, opacity float64) color.RGBA {
	a := clamp01(c.A * opacity)
	return color.RGBA{
		R: uint8(math.Round(clamp01(c.R) * a * 255)),
		G: uint8(math.Round(clamp01(c.G) * a * 255)),
		B: uint8(math.Round(clamp01(c.B) * a * 255)),
		A: uint8(math.Round(a * 255)),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
