package birch

import "image"

// Painter turns layers into pixels. The renderer decides what to paint, in
// what order, and what can be replayed from cache; a Painter only draws.
// See package raster for a software implementation.
type Painter interface {
	// Clear fills the whole target with c, ignoring view and clips.
	Clear(c Color)
	// SetView sets the world-to-target transform for later calls.
	SetView(view Transform)
	// PushClip intersects the clip with a world rect until the matching
	// PopClip.
	PushClip(r Rect)
	PopClip()
	// DrawImage draws img stretched over the world rect dst.
	DrawImage(img image.Image, dst Rect)
	// PaintLayer draws one layer, honoring its clips, opacity, blend mode
	// and effects.
	PaintLayer(l Layer)
}
