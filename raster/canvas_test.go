package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/birch"
)

// twoSquares returns a scene with a red square at the origin and a blue
// one at (100, 0), each 50x50.
func twoSquares() *birch.Scene {
	s := birch.NewScene("canvas", nil)
	a := birch.NewRectangle("red", 50, 50)
	a.Fills = []birch.Paint{birch.Solid(red)}
	s.Insert(0, a)
	b := birch.NewRectangle("blue", 50, 50)
	b.SetPosition(100, 0)
	b.Fills = []birch.Paint{birch.Solid(birch.Color{B: 1, A: 1})}
	s.Insert(0, b)
	return s
}

func worldCamera(w, h float64) *birch.Camera {
	cam := birch.NewCamera(birch.Rect{Width: w, Height: h})
	cam.X, cam.Y = w/2, h/2
	return cam
}

func TestCanvasRenderPictures(t *testing.T) {
	r := birch.NewRenderer(birch.RendererOptions{})
	r.LoadScene(twoSquares())
	c := NewCanvas(r, 200, 100)

	st, err := c.Render(worldCamera(200, 100))
	require.NoError(t, err)
	assert.Equal(t, 2, st.PicturesRecorded)
	assert.Equal(t, 0, st.TilesUsed)

	img := c.Image()
	assertColor(t, img, 25, 25, opaqueR, 0)
	assertColor(t, img, 125, 25, color.RGBA{0, 0, 255, 255}, 0)
	assertColor(t, img, 75, 25, white, 0)
	assertColor(t, img, 25, 75, white, 0)

	st, err = c.Render(worldCamera(200, 100))
	require.NoError(t, err)
	assert.Zero(t, st.PicturesRecorded)
	assertColor(t, c.Image(), 25, 25, opaqueR, 0)
}

func TestCanvasRenderTiles(t *testing.T) {
	strat := birch.DefaultTileCacheStrategy()
	strat.Size = 256
	r := birch.NewRenderer(birch.RendererOptions{Tiles: &strat})
	r.LoadScene(twoSquares())
	c := NewCanvas(r, 200, 100)

	st, err := c.Render(worldCamera(200, 100))
	require.NoError(t, err)
	assert.Equal(t, 1, st.TilesUsed)
	assert.Zero(t, st.Regions)
	assert.Equal(t, 1, r.Tiles().Len())

	img := c.Image()
	assertColor(t, img, 25, 25, opaqueR, 1)
	assertColor(t, img, 125, 25, color.RGBA{0, 0, 255, 255}, 1)
	assertColor(t, img, 75, 25, white, 1)
}

func TestCanvasTilesPerFrame(t *testing.T) {
	strat := birch.DefaultTileCacheStrategy()
	strat.Size = 64
	r := birch.NewRenderer(birch.RendererOptions{Tiles: &strat})
	r.LoadScene(twoSquares())
	c := NewCanvas(r, 200, 100)
	c.TilesPerFrame = 1

	_, err := c.Render(worldCamera(200, 100))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Tiles().Len())
	// Uncovered parts still come from pictures.
	assertColor(t, c.Image(), 125, 25, color.RGBA{0, 0, 255, 255}, 0)

	_, err = c.Render(worldCamera(200, 100))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Tiles().Len())
}

func TestCanvasResize(t *testing.T) {
	r := birch.NewRenderer(birch.RendererOptions{})
	c := NewCanvas(r, 10, 10)
	first := c.Image()
	c.Resize(10, 10)
	assert.Same(t, first, c.Image())
	c.Resize(30, 20)
	assert.Equal(t, image.Rect(0, 0, 30, 20), c.Image().Bounds())
}

func TestCanvasEmptyRenderer(t *testing.T) {
	r := birch.NewRenderer(birch.RendererOptions{})
	c := NewCanvas(r, 10, 10)
	st, err := c.Render(worldCamera(10, 10))
	require.NoError(t, err)
	assert.Zero(t, st.PicturesUsed)
	assertColor(t, c.Image(), 5, 5, white, 0)
}
