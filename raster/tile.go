package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/phanxgames/birch"
)

// MaxTilePixels bounds the edge of a rasterized tile.
const MaxTilePixels = 8192

// TileRasterizer implements birch.TileRasterizer with a software Painter.
type TileRasterizer struct {
	images  *birch.ImageRepository
	pool    *Pool
	painter *Painter
}

// NewTileRasterizer returns a rasterizer resolving image paints in images.
func NewTileRasterizer(images *birch.ImageRepository) *TileRasterizer {
	return &TileRasterizer{images: images, pool: &Pool{}}
}

// RasterizeTile paints layers over background into a new image of rect
// scaled by zoom.
func (tr *TileRasterizer) RasterizeTile(rect birch.Rect, zoom float64, background birch.Color, layers []birch.Layer) (image.Image, error) {
	w := int(math.Ceil(rect.Width * zoom))
	h := int(math.Ceil(rect.Height * zoom))
	if w <= 0 || h <= 0 || w > MaxTilePixels || h > MaxTilePixels {
		return nil, fmt.Errorf("raster: tile %gx%g at zoom %g is %dx%d pixels", rect.Width, rect.Height, zoom, w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if tr.painter == nil {
		tr.painter = NewPainter(img, tr.images)
		tr.painter.SetPool(tr.pool)
	} else {
		tr.painter.Reset(img)
	}
	p := tr.painter
	p.SetView(birch.Scale(zoom, zoom).Compose(birch.Translate(-rect.X, -rect.Y)))
	p.Clear(background)
	for _, l := range layers {
		p.PaintLayer(l)
	}
	return img, nil
}
