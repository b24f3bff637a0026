package raster

import (
	"fmt"
	"image"

	"github.com/phanxgames/birch"
)

// Canvas renders frames of a birch.Renderer into an RGBA image, filling the
// renderer's tile cache on the way when it has one.
type Canvas struct {
	renderer *birch.Renderer
	img      *image.RGBA
	painter  *Painter
	tiles    *TileRasterizer

	// TilesPerFrame bounds how many missing tiles one Render rasterizes;
	// 0 renders all of them.
	TilesPerFrame int
}

// NewCanvas returns a w by h canvas drawing r.
func NewCanvas(r *birch.Renderer, w, h int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	pool := &Pool{}
	p := NewPainter(img, r.Images())
	p.SetPool(pool)
	tr := NewTileRasterizer(r.Images())
	tr.pool = pool
	return &Canvas{renderer: r, img: img, painter: p, tiles: tr, TilesPerFrame: 4}
}

// Image returns the last rendered frame.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Resize reallocates the frame when the size changed.
func (c *Canvas) Resize(w, h int) {
	if b := c.img.Bounds(); b.Dx() == w && b.Dy() == h {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.painter.Reset(c.img)
}

// Render rebuilds derived state if needed, rasterizes missing tiles and
// draws the frame for cam.
func (c *Canvas) Render(cam *birch.Camera) (birch.DrawStats, error) {
	r := c.renderer
	r.Rebuild()
	plan := r.Plan(cam)
	if len(plan.Requires) > 0 {
		n, err := r.RenderTiles(c.tiles, plan, c.TilesPerFrame)
		if err != nil {
			return birch.DrawStats{}, fmt.Errorf("raster: render frame: %w", err)
		}
		if n > 0 {
			plan = r.Plan(cam)
		}
	}
	c.painter.Reset(c.img)
	return r.Draw(c.painter, plan), nil
}
