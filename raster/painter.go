package raster

import (
	"image"
	"math"

	"cogentcore.org/core/paint/ppath"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/phanxgames/birch"
)

// Painter is a software birch.Painter drawing into an *image.RGBA. Images
// referenced by layers and paints are looked up in the repository given to
// NewPainter; missing images paint a placeholder.
//
// A Painter is not safe for concurrent use.
type Painter struct {
	dst    *image.RGBA
	images *birch.ImageRepository
	view   birch.Transform
	clip   image.Rectangle
	clips  []image.Rectangle
	ras    vector.Rasterizer
	pool   *Pool
}

// NewPainter returns a painter targeting dst with the identity view.
// images may be nil.
func NewPainter(dst *image.RGBA, images *birch.ImageRepository) *Painter {
	return &Painter{
		dst:    dst,
		images: images,
		view:   birch.Identity,
		clip:   dst.Bounds(),
		pool:   &Pool{},
	}
}

// SetPool shares a buffer pool between painters.
func (p *Painter) SetPool(pool *Pool) { p.pool = pool }

// Target returns the image being painted.
func (p *Painter) Target() *image.RGBA { return p.dst }

// Reset retargets the painter, clearing the view and clip stack.
func (p *Painter) Reset(dst *image.RGBA) {
	p.dst = dst
	p.view = birch.Identity
	p.clip = dst.Bounds()
	p.clips = p.clips[:0]
}

// Clear implements birch.Painter.
func (p *Painter) Clear(c birch.Color) {
	draw.Draw(p.dst, p.dst.Bounds(), image.NewUniform(premul(c, 1)), image.Point{}, draw.Src)
}

// SetView implements birch.Painter.
func (p *Painter) SetView(view birch.Transform) { p.view = view }

// PushClip implements birch.Painter. The clip is the device bounding box of
// r, so it is exact only for views without rotation.
func (p *Painter) PushClip(r birch.Rect) {
	p.clips = append(p.clips, p.clip)
	p.clip = p.clip.Intersect(p.deviceRect(r))
}

// PopClip implements birch.Painter.
func (p *Painter) PopClip() {
	if n := len(p.clips); n > 0 {
		p.clip = p.clips[n-1]
		p.clips = p.clips[:n-1]
	}
}

// deviceRect returns the pixel rect covering world rect r under the view.
func (p *Painter) deviceRect(r birch.Rect) image.Rectangle {
	d := p.view.TransformRect(r)
	return image.Rect(
		int(math.Floor(d.X)), int(math.Floor(d.Y)),
		int(math.Ceil(d.Right())), int(math.Ceil(d.Bottom())),
	)
}

// DrawImage implements birch.Painter.
func (p *Painter) DrawImage(img image.Image, dst birch.Rect) {
	b := img.Bounds()
	if b.Empty() || p.clip.Empty() {
		return
	}
	m := p.view.Compose(birch.Translate(dst.X, dst.Y)).
		Compose(birch.Scale(dst.Width/float64(b.Dx()), dst.Height/float64(b.Dy()))).
		Compose(birch.Translate(-float64(b.Min.X), -float64(b.Min.Y)))
	target := p.dst.SubImage(p.clip).(*image.RGBA)
	draw.ApproxBiLinear.Transform(target, aff(m), img, b, draw.Over, nil)
}

// PaintLayer implements birch.Painter.
func (p *Painter) PaintLayer(l birch.Layer) {
	base := l.Base()
	area := p.clip.Intersect(p.deviceRect(base.Bounds))
	if area.Empty() || base.Opacity <= 0 {
		return
	}
	m := p.view.Compose(base.Transform)
	clip := p.clipMask(base, area)

	blend := base.BlendMode
	direct := clip == nil && base.Opacity >= 1 && base.Effects.IsEmpty() &&
		(blend == birch.BlendNormal || blend == birch.BlendPassThrough)
	if direct {
		p.paintContent(p.dst, l, m, area)
		return
	}

	canvas := p.pool.Acquire(area)
	defer p.pool.Release(canvas)
	if base.Effects.BackdropBlur != nil {
		p.backdropBlur(l, m, area, clip, base.Effects.BackdropBlur.Radius*deviceScale(m))
	}
	p.paintContent(canvas, l, m, area)
	canvas = p.applyEffects(canvas, base.Effects, deviceScale(m))
	p.composite(canvas, blend, base.Opacity, clip)
}

// clipMask rasterizes the layer's ancestor clips, or returns nil when it
// has none.
func (p *Painter) clipMask(base *birch.LayerBase, area image.Rectangle) *image.Alpha {
	var out *image.Alpha
	for _, c := range base.Clips {
		mask := rasterize(&p.ras, c.Path, p.view.Compose(c.Transform), area)
		if out == nil {
			out = mask
			continue
		}
		multiply(out, mask)
	}
	return out
}

// layerMask returns the fill coverage of l's shape.
func (p *Painter) layerMask(l birch.Layer, m birch.Transform, area image.Rectangle) *image.Alpha {
	switch l := l.(type) {
	case *birch.ShapeLayer:
		return shapeMask(&p.ras, l.Shape, m, area)
	case *birch.VectorLayer:
		return shapeMask(&p.ras, l.Shape, m, area)
	case *birch.TextLayer:
		return p.textMask(l, m, area)
	case *birch.ImageLayer:
		return shapeMask(&p.ras, l.Shape, m, area)
	}
	return image.NewAlpha(area)
}

// paintContent draws the fills and strokes of l onto dst within area.
func (p *Painter) paintContent(dst *image.RGBA, l birch.Layer, m birch.Transform, area image.Rectangle) {
	switch l := l.(type) {
	case *birch.ShapeLayer:
		if len(l.Fills) > 0 && !l.Shape.IsEmpty() {
			cov := shapeMask(&p.ras, l.Shape, m, area)
			for _, f := range l.Fills {
				p.fill(dst, cov, f, m, l.Shape.Bounds)
			}
		}
		p.stroke(dst, l.StrokeOutline, l.Strokes, m, area, l.Shape.Bounds)
	case *birch.VectorLayer:
		for _, r := range l.Regions {
			if len(r.Fills) == 0 {
				continue
			}
			cov := pathMask(&p.ras, r.Path, r.FillRule, m, area)
			for _, f := range r.Fills {
				p.fill(dst, cov, f, m, l.Shape.Bounds)
			}
		}
		p.stroke(dst, l.StrokeOutline, l.Strokes, m, area, l.Shape.Bounds)
	case *birch.TextLayer:
		cov := p.textMask(l, m, area)
		box := birch.Rect{Width: l.Size.Width, Height: l.Size.Height}
		for _, f := range l.Fills {
			p.fill(dst, cov, f, m, box)
		}
	case *birch.ImageLayer:
		box := birch.Rect{Width: l.Size.Width, Height: l.Size.Height}
		cov := shapeMask(&p.ras, l.Shape, m, area)
		if !p.drawImageFit(dst, cov, l.Src, l.Fit, birch.Identity, 1, m, box) {
			p.fill(dst, cov, placeholderFill, m, box)
		}
		for _, f := range l.Fills {
			p.fill(dst, cov, f, m, box)
		}
		p.stroke(dst, l.StrokeOutline, l.Strokes, m, area, box)
	}
}

// placeholderFill stands in for images that are not loaded yet.
var placeholderFill = birch.Solid(birch.Color{R: 0.85, G: 0.85, B: 0.85, A: 1})

func (p *Painter) stroke(dst *image.RGBA, outline ppath.Path, paints []birch.Paint, m birch.Transform, area image.Rectangle, box birch.Rect) {
	if len(outline) == 0 || len(paints) == 0 {
		return
	}
	cov := rasterize(&p.ras, outline, m, area)
	for _, s := range paints {
		p.fill(dst, cov, s, m, box)
	}
}

// composite draws a finished layer canvas onto the target.
func (p *Painter) composite(canvas *image.RGBA, blend birch.BlendMode, opacity float64, clip *image.Alpha) {
	area := canvas.Rect
	var mask *image.Alpha
	switch {
	case clip != nil && opacity < 1:
		mask = scaled(clip, opacity)
	case clip != nil:
		mask = clip
	case opacity < 1:
		mask = solidMask(area, uint8(math.Round(clamp01(opacity)*255)))
	}

	fn := blendFunc(blend)
	if fn == nil {
		if mask == nil {
			draw.Draw(p.dst, area, canvas, area.Min, draw.Over)
			return
		}
		draw.DrawMask(p.dst, area, canvas, area.Min, mask, area.Min, draw.Over)
		return
	}

	backdrop := p.pool.Acquire(area)
	defer p.pool.Release(backdrop)
	draw.Draw(backdrop, area, p.dst, area.Min, draw.Src)
	blended := rebase(fn(rebase(backdrop, image.Point{}), rebase(canvas, image.Point{})), area.Min)

	cover := alphaOf(canvas)
	multiply(cover, mask)
	draw.DrawMask(p.dst, area, blended, area.Min, cover, area.Min, draw.Over)
}

// rebase returns img re-addressed so its bounds start at min. The pixels
// are shared.
func rebase(img *image.RGBA, min image.Point) *image.RGBA {
	out := *img
	out.Rect = image.Rectangle{Min: min, Max: min.Add(img.Rect.Size())}
	return &out
}
