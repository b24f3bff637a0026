// Package raster paints birch scenes in software.
//
// [Painter] implements birch.Painter on an *image.RGBA. Paths are filled
// with golang.org/x/image/vector into coverage masks, which then carry
// solid, gradient and image paints onto the target. Layer effects (blur,
// drop and inner shadows, noise) and non-normal blend modes come from
// github.com/anthonynsimon/bild and run on an offscreen canvas borrowed
// from a [Pool].
//
// [TileRasterizer] feeds a renderer's tile cache, and [Canvas] ties a
// renderer, a camera and a frame image together:
//
//	c := raster.NewCanvas(renderer, 800, 600)
//	if _, err := c.Render(cam); err != nil {
//		return err
//	}
//	raster.WritePNG("frame.png", c.Image())
package raster
