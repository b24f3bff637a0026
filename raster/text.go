package raster

import (
	"image"
	"math"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/phanxgames/birch"
)

// textMask draws the laid-out glyphs of l at the face's native size and
// resamples them into a device coverage mask.
func (p *Painter) textMask(l *birch.TextLayer, m birch.Transform, area image.Rectangle) *image.Alpha {
	out := image.NewAlpha(area)
	lay := l.Layout
	face := lay.Face.Face
	if face == nil || len(lay.Lines) == 0 {
		return out
	}
	scale := lay.Face.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(math.Max(lay.Width, l.Size.Width)/scale)) + 1
	h := int(math.Ceil(math.Max(lay.Height, l.Size.Height)/scale)) + 1
	native := image.NewAlpha(image.Rect(0, 0, w, h))

	d := font.Drawer{Dst: native, Src: image.Opaque, Face: face}
	spacing := fixed.Int26_6(math.Round(lay.LetterSpacing * 64))
	for _, ln := range lay.Lines {
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6(math.Round(ln.X / scale * 64)),
			Y: fixed.Int26_6(math.Round(ln.Baseline / scale * 64)),
		}
		drawSpaced(&d, ln.Text, spacing)
	}

	toDevice := m.Compose(birch.Scale(scale, scale))
	draw.BiLinear.Transform(out, aff(toDevice), native, native.Bounds(), draw.Over, nil)
	return out
}

// drawSpaced draws s with kerning plus a fixed extra advance per glyph.
func drawSpaced(d *font.Drawer, s string, spacing fixed.Int26_6) {
	if spacing == 0 {
		d.DrawString(s)
		return
	}
	prev := rune(-1)
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if prev >= 0 {
			d.Dot.X += d.Face.Kern(prev, r)
		}
		d.DrawString(string(r))
		d.Dot.X += spacing
		prev = r
	}
}
