package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/phanxgames/birch"
)

// aff converts a birch transform to the x/image/draw matrix layout.
func aff(t birch.Transform) f64.Aff3 {
	return f64.Aff3{t[0], t[2], t[4], t[1], t[3], t[5]}
}

// deviceScale is the average linear scale of t.
func deviceScale(t birch.Transform) float64 {
	return t.Scale()
}

// orIdentity treats the zero transform as the identity, so paints built
// as struct literals work without one.
func orIdentity(t birch.Transform) birch.Transform {
	if t == (birch.Transform{}) {
		return birch.Identity
	}
	return t
}

// boxTransform maps the unit square onto box.
func boxTransform(box birch.Rect) birch.Transform {
	return birch.Translate(box.X, box.Y).Compose(birch.Scale(box.Width, box.Height))
}

// gradientImage is an unbounded image whose color at a device pixel is the
// gradient evaluated in unit-square space.
type gradientImage struct {
	inv     birch.Transform // device to gradient space
	stops   []birch.GradientStop
	radial  bool
	opacity float64
}

func newGradient(m birch.Transform, box birch.Rect, paint birch.Paint) (*gradientImage, bool) {
	var (
		t       birch.Transform
		stops   []birch.GradientStop
		radial  bool
		opacity float64
	)
	switch p := paint.(type) {
	case birch.LinearGradientPaint:
		t, stops, opacity = p.Transform, p.Stops, p.Opacity
	case birch.RadialGradientPaint:
		t, stops, opacity, radial = p.Transform, p.Stops, p.Opacity, true
	default:
		return nil, false
	}
	if len(stops) == 0 {
		return nil, false
	}
	inv, ok := m.Compose(boxTransform(box)).Compose(orIdentity(t)).Inverse()
	if !ok {
		return nil, false
	}
	return &gradientImage{inv: inv, stops: stops, radial: radial, opacity: opacity}, true
}

func (g *gradientImage) ColorModel() color.Model { return color.RGBAModel }

func (g *gradientImage) Bounds() image.Rectangle {
	return image.Rect(-1e9, -1e9, 1e9, 1e9)
}

func (g *gradientImage) At(x, y int) color.Color {
	u, v := g.inv.Apply(float64(x)+0.5, float64(y)+0.5)
	t := u
	if g.radial {
		t = math.Hypot(u-0.5, v-0.5) / 0.5
	}
	return premul(sampleStops(g.stops, t), g.opacity)
}

// sampleStops interpolates the stop colors at t, clamping outside the
// first and last offsets.
func sampleStops(stops []birch.GradientStop, t float64) birch.Color {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		f := (t - a.Offset) / span
		return birch.Color{
			R: a.Color.R + (b.Color.R-a.Color.R)*f,
			G: a.Color.G + (b.Color.G-a.Color.G)*f,
			B: a.Color.B + (b.Color.B-a.Color.B)*f,
			A: a.Color.A + (b.Color.A-a.Color.A)*f,
		}
	}
	return stops[len(stops)-1].Color
}

// fitRect places an iw by ih image in box according to fit.
func fitRect(fit birch.BoxFit, box birch.Rect, iw, ih float64) birch.Rect {
	if iw <= 0 || ih <= 0 {
		return box
	}
	switch fit {
	case birch.BoxFitFill:
		return box
	case birch.BoxFitNone:
		return birch.Rect{X: box.X, Y: box.Y, Width: iw, Height: ih}
	}
	s := math.Max(box.Width/iw, box.Height/ih)
	if fit == birch.BoxFitContain {
		s = math.Min(box.Width/iw, box.Height/ih)
	}
	w, h := iw*s, ih*s
	return birch.Rect{X: box.X + (box.Width-w)/2, Y: box.Y + (box.Height-h)/2, Width: w, Height: h}
}

// fill paints one paint through cov onto dst. box is the local rect the
// paint is mapped onto and m maps local space to device space.
func (p *Painter) fill(dst *image.RGBA, cov *image.Alpha, paint birch.Paint, m birch.Transform, box birch.Rect) {
	area := cov.Rect
	switch pt := paint.(type) {
	case birch.SolidPaint:
		c := premul(pt.Color, pt.Opacity)
		if c.A == 0 {
			return
		}
		draw.DrawMask(dst, area, image.NewUniform(c), image.Point{}, cov, area.Min, draw.Over)
	case birch.LinearGradientPaint, birch.RadialGradientPaint:
		g, ok := newGradient(m, box, paint)
		if !ok || g.opacity <= 0 {
			return
		}
		draw.DrawMask(dst, area, g, area.Min, cov, area.Min, draw.Over)
	case birch.ImagePaint:
		if pt.Opacity <= 0 {
			return
		}
		p.drawImageFit(dst, cov, pt.Src, pt.Fit, orIdentity(pt.Transform), pt.Opacity, m, box)
	}
}

// drawImageFit draws the image stored under src fitted into box, through
// cov. It reports whether the image was found.
func (p *Painter) drawImageFit(dst *image.RGBA, cov *image.Alpha, src string, fit birch.BoxFit, t birch.Transform, opacity float64, m birch.Transform, box birch.Rect) bool {
	if p.images == nil {
		return false
	}
	mm, ok := p.images.Get(src)
	if !ok || mm.Width == 0 || mm.Height == 0 {
		return false
	}
	r := fitRect(fit, box, float64(mm.Width), float64(mm.Height))
	s := deviceScale(m)
	lvl := mm.BestForSize(r.Width*s, r.Height*s)
	lb := lvl.Image.Bounds()

	// level pixels -> fitted rect -> paint transform -> device
	toLocal := birch.Translate(r.X, r.Y).Compose(birch.Scale(r.Width/float64(lb.Dx()), r.Height/float64(lb.Dy())))
	toLocal = toLocal.Compose(birch.Translate(-float64(lb.Min.X), -float64(lb.Min.Y)))
	toDevice := m.Compose(t).Compose(toLocal)

	tmp := p.pool.Acquire(cov.Rect)
	defer p.pool.Release(tmp)
	draw.BiLinear.Transform(tmp, aff(toDevice), lvl.Image, lb, draw.Over, nil)
	mask := cov
	if opacity < 1 {
		mask = scaled(cov, opacity)
	}
	draw.DrawMask(dst, cov.Rect, tmp, cov.Rect.Min, mask, cov.Rect.Min, draw.Over)
	return true
}
