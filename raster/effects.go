package raster

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/noise"
	"golang.org/x/image/draw"

	"github.com/phanxgames/birch"
)

// blendFunc returns the bild blend for mode, or nil for source-over.
func blendFunc(mode birch.BlendMode) func(bg, fg image.Image) *image.RGBA {
	switch mode {
	case birch.BlendMultiply:
		return blend.Multiply
	case birch.BlendScreen:
		return blend.Screen
	case birch.BlendOverlay:
		return blend.Overlay
	case birch.BlendDarken:
		return blend.Darken
	case birch.BlendLighten:
		return blend.Lighten
	case birch.BlendColorDodge:
		return blend.ColorDodge
	case birch.BlendColorBurn:
		return blend.ColorBurn
	case birch.BlendHardLight:
		// Hard light is overlay with the layers swapped.
		return func(bg, fg image.Image) *image.RGBA { return blend.Overlay(fg, bg) }
	case birch.BlendSoftLight:
		return blend.SoftLight
	case birch.BlendDifference:
		return blend.Difference
	case birch.BlendExclusion:
		return blend.Exclusion
	}
	return nil
}

// applyEffects runs shadows, noise and layer blur over a painted layer
// canvas. scale converts effect lengths to device pixels. The returned
// image covers the same area and may be canvas itself.
func (p *Painter) applyEffects(canvas *image.RGBA, fx birch.Effects, scale float64) *image.RGBA {
	if fx.IsEmpty() {
		return canvas
	}
	area := canvas.Rect
	shape := alphaOf(canvas)

	for _, s := range fx.Shadows {
		if s.Inner {
			p.innerShadow(canvas, shape, s, scale)
		}
	}
	for _, n := range fx.Noises {
		if n.Opacity <= 0 {
			continue
		}
		grain := rebase(noise.Generate(area.Dx(), area.Dy(), &noise.Options{
			NoiseFn:    noise.Gaussian,
			Monochrome: n.Monochrome,
		}), area.Min)
		draw.DrawMask(canvas, area, grain, area.Min, scaled(shape, n.Opacity), area.Min, draw.Over)
	}

	var drops []birch.Shadow
	for _, s := range fx.Shadows {
		if !s.Inner {
			drops = append(drops, s)
		}
	}
	if len(drops) > 0 {
		out := image.NewRGBA(area)
		for _, s := range drops {
			sh := shadowImage(shape, s, scale, false)
			draw.Draw(out, area, sh, area.Min, draw.Over)
		}
		draw.Draw(out, area, canvas, area.Min, draw.Over)
		canvas = out
	}

	if fx.Blur != nil && fx.Blur.Radius > 0 {
		canvas = rebase(blur.Gaussian(rebase(canvas, image.Point{}), fx.Blur.Radius*scale), area.Min)
	}
	return canvas
}

// shadowImage builds a colored, offset, spread and blurred copy of the
// coverage in shape. An inverted shadow starts from the uncovered area.
func shadowImage(shape *image.Alpha, s birch.Shadow, scale float64, invert bool) *image.RGBA {
	area := shape.Rect
	src := shape
	if invert {
		src = inverted(shape)
	}
	dx := int(math.Round(s.DX * scale))
	dy := int(math.Round(s.DY * scale))

	c := premul(s.Color, 1)
	out := image.NewRGBA(area)
	// Offset: pixel (x, y) takes the coverage at (x-dx, y-dy).
	shifted := image.NewAlpha(area)
	if invert {
		for i := range shifted.Pix {
			shifted.Pix[i] = 255
		}
	}
	draw.Draw(shifted, area.Add(image.Pt(dx, dy)), src, area.Min, draw.Src)
	for i, a := range shifted.Pix {
		o := 4 * i
		out.Pix[o] = uint8(uint32(c.R) * uint32(a) / 255)
		out.Pix[o+1] = uint8(uint32(c.G) * uint32(a) / 255)
		out.Pix[o+2] = uint8(uint32(c.B) * uint32(a) / 255)
		out.Pix[o+3] = uint8(uint32(c.A) * uint32(a) / 255)
	}

	img := rebase(out, image.Point{})
	if spread := s.Spread * scale; spread > 0.5 {
		img = effect.Dilate(img, spread)
	} else if spread < -0.5 {
		img = effect.Erode(img, -spread)
	}
	if r := s.Blur * scale; r > 0 {
		img = blur.Gaussian(img, r)
	}
	return rebase(img, area.Min)
}

// innerShadow paints an inner shadow onto canvas inside shape.
func (p *Painter) innerShadow(canvas *image.RGBA, shape *image.Alpha, s birch.Shadow, scale float64) {
	area := canvas.Rect
	sh := shadowImage(shape, s, scale, true)
	draw.DrawMask(canvas, area, sh, area.Min, shape, area.Min, draw.Over)
}

// backdropBlur blurs what is already painted under l's shape.
func (p *Painter) backdropBlur(l birch.Layer, m birch.Transform, area image.Rectangle, clip *image.Alpha, radius float64) {
	if radius <= 0 {
		return
	}
	cov := p.layerMask(l, m, area)
	multiply(cov, clip)
	backdrop := p.pool.Acquire(area)
	defer p.pool.Release(backdrop)
	draw.Draw(backdrop, area, p.dst, area.Min, draw.Src)
	blurred := rebase(blur.Gaussian(rebase(backdrop, image.Point{}), radius), area.Min)
	draw.DrawMask(p.dst, area, blurred, area.Min, cov, area.Min, draw.Over)
}
