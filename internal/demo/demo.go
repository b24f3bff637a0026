// Package demo builds the sample board shown by birchview and birchrender.
package demo

import (
	"fmt"
	"math"

	"github.com/phanxgames/birch"
	"github.com/phanxgames/birch/geom"
)

const (
	CardWidth  = 240
	CardHeight = 160
	cardGap    = 40
)

var palette = []birch.Color{
	birch.RGB(66, 135, 245),
	birch.RGB(236, 94, 94),
	birch.RGB(250, 190, 60),
	birch.RGB(80, 190, 120),
	birch.RGB(160, 100, 220),
}

// Board returns a scene with cols by rows cards. Every card holds one of
// each node kind so the board exercises every layer, paint and effect.
func Board(cols, rows int) *birch.Scene {
	s := birch.NewScene("board", nil)
	s.Background = birch.RGB(235, 236, 240)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			x := float64(c * (CardWidth + cardGap))
			y := float64(r * (CardHeight + cardGap))
			addCard(s, i, x, y)
		}
	}
	return s
}

// Size returns the world size of a cols by rows board.
func Size(cols, rows int) birch.Size {
	return birch.Size{
		Width:  float64(cols*(CardWidth+cardGap) - cardGap),
		Height: float64(rows*(CardHeight+cardGap) - cardGap),
	}
}

func addCard(s *birch.Scene, i int, x, y float64) {
	accent := palette[i%len(palette)]

	card := birch.NewContainer(fmt.Sprintf("card %d", i), CardWidth, CardHeight)
	card.SetPosition(x, y)
	card.CornerRadius = geom.Uniform(12)
	card.Clip = true
	card.Fills = []birch.Paint{birch.Solid(birch.ColorWhite)}
	card.Effects.Shadows = []birch.Shadow{{DY: 4, Blur: 6, Color: birch.ColorBlack.WithAlpha(0.25)}}
	id, _ := s.Insert(0, card)

	header := birch.NewRectangle("header", CardWidth, 36)
	header.Fills = []birch.Paint{birch.LinearGradientPaint{
		Stops:   []birch.GradientStop{{Offset: 0, Color: accent}, {Offset: 1, Color: accent.WithAlpha(0.4)}},
		Opacity: 1,
	}}
	s.Insert(id, header)

	title := birch.NewTextSpan("title", fmt.Sprintf("Card %d", i), birch.TextStyle{FontSize: 13})
	title.SetPosition(12, 11)
	title.Fills = []birch.Paint{birch.Solid(birch.ColorWhite)}
	s.Insert(id, title)

	star := birch.NewStar("star", 48, 48, 5, 0.45)
	star.SetPosition(16, 52)
	star.Fills = []birch.Paint{birch.Solid(accent)}
	star.CornerRadius = 2
	s.Insert(id, star)

	ring := birch.NewEllipse("ring", 44, 44)
	ring.SetPosition(80, 54)
	ring.Strokes = []birch.Paint{birch.Solid(accent)}
	ring.Stroke.Width = 6
	ring.Stroke.Align = geom.StrokeAlignInside
	s.Insert(id, ring)

	hex := birch.NewRegularPolygon("hexagon", 44, 44, 6)
	hex.Transform = birch.NewTransform(140, 54, math.Pi/12)
	hex.CornerRadius = 6
	hex.Fills = []birch.Paint{birch.RadialGradientPaint{
		Stops:   []birch.GradientStop{{Offset: 0, Color: birch.ColorWhite}, {Offset: 1, Color: accent}},
		Opacity: 1,
	}}
	s.Insert(id, hex)

	cut := birch.NewBooleanOperation("cutout", birch.BooleanDifference)
	cut.SetPosition(190, 54)
	cut.Fills = []birch.Paint{birch.Solid(birch.RGB(60, 60, 70))}
	cutID, _ := s.Insert(id, cut)
	s.Insert(cutID, birch.NewRectangle("plate", 36, 36))
	hole := birch.NewEllipse("hole", 18, 18)
	hole.SetPosition(9, 9)
	s.Insert(cutID, hole)

	tri := birch.NewVector("arrow", birch.NewPolylineNetwork(true,
		birch.Vec2{X: 0, Y: 0}, birch.Vec2{X: 40, Y: 16}, birch.Vec2{X: 0, Y: 32}))
	tri.SetPosition(16, 114)
	tri.CornerRadius = 3
	tri.Fills = []birch.Paint{birch.Solid(accent.WithAlpha(0.8))}
	tri.Effects.Noises = []birch.Noise{{Opacity: 0.2, Monochrome: true}}
	s.Insert(id, tri)

	wave := birch.NewPath("wave", "M0 16 C 15 0 30 32 45 16 S 75 0 90 16")
	wave.SetPosition(70, 108)
	wave.Strokes = []birch.Paint{birch.Solid(birch.RGB(40, 40, 48))}
	wave.Stroke.Width = 3
	wave.Stroke.WidthProfile = &geom.WidthProfile{Base: 1, Stops: []geom.WidthStop{{U: 0, R: 0.5}, {U: 0.5, R: 3}, {U: 1, R: 0.5}}}
	s.Insert(id, wave)

	dash := birch.NewLine("rule", 60)
	dash.SetPosition(170, 126)
	dash.Strokes = []birch.Paint{birch.Solid(accent)}
	dash.Stroke.Width = 2
	dash.Stroke.DashArray = []float64{6, 4}
	s.Insert(id, dash)

	photo := birch.NewImage("photo", "photo.png", 40, 28)
	photo.SetPosition(180, 90)
	photo.CornerRadius = geom.Uniform(4)
	s.Insert(id, photo)
}
