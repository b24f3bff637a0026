package birch

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFullChainLevels(t *testing.T) {
	tests := []struct{ w, h, want int }{
		{1, 1, 1},
		{2, 1, 2},
		{100, 50, 8},
		{256, 256, 9},
		{257, 10, 10},
	}
	for _, tt := range tests {
		if got := FullChainLevels(tt.w, tt.h); got != tt.want {
			t.Errorf("FullChainLevels(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestMipmapFullChain(t *testing.T) {
	for _, chained := range []bool{true, false} {
		mm := NewImageMipmaps(solidImage(100, 50, color.RGBA{200, 0, 0, 255}), MipmapConfig{Chained: chained})
		if len(mm.Levels) != 8 {
			t.Fatalf("chained=%v: levels = %d, want 8", chained, len(mm.Levels))
		}
		last := mm.Levels[len(mm.Levels)-1].Image.Bounds()
		if last.Dx() != 1 || last.Dy() != 1 {
			t.Errorf("chained=%v: last level = %v, want 1x1", chained, last)
		}
		for i := 1; i < len(mm.Levels); i++ {
			if mm.Levels[i].Scale >= mm.Levels[i-1].Scale {
				t.Fatalf("scales not descending: %v then %v", mm.Levels[i-1].Scale, mm.Levels[i].Scale)
			}
		}
		if got := mm.Levels[1].Image.Bounds(); got.Dx() != 50 || got.Dy() != 25 {
			t.Errorf("level 1 = %v, want 50x25", got)
		}
		r, _, _, a := mm.Levels[3].Image.At(0, 0).RGBA()
		if r>>8 < 199 || r>>8 > 201 || a>>8 < 254 {
			t.Errorf("chained=%v: resampled color = %d/%d, want 200/255", chained, r>>8, a>>8)
		}
	}
}

func TestMipmapSourceIsLevelZero(t *testing.T) {
	src := solidImage(8, 8, color.RGBA{A: 255})
	mm := NewImageMipmaps(src, DefaultMipmapConfig())
	if mm.Source() != image.Image(src) {
		t.Error("level 0 is not the source image")
	}
}

func TestMipmapBestForZoom(t *testing.T) {
	mm := NewImageMipmaps(solidImage(64, 64, color.RGBA{A: 255}), DefaultMipmapConfig())
	tests := []struct{ zoom, want float64 }{
		{0.3, 0.5},
		{0.5, 0.5},
		{2, 1},
		{1, 1},
		{0.0001, 1.0 / 64},
	}
	for _, tt := range tests {
		if got := mm.BestForZoom(tt.zoom).Scale; got != tt.want {
			t.Errorf("BestForZoom(%v) = %v, want %v", tt.zoom, got, tt.want)
		}
	}
	if got := mm.BestForSize(16, 8).Scale; got != 0.25 {
		t.Errorf("BestForSize(16, 8) = %v, want 0.25", got)
	}
}

func TestMipmapFixedScales(t *testing.T) {
	mm := NewImageMipmaps(solidImage(40, 40, color.RGBA{A: 255}), MipmapConfig{Scales: []float64{0.25, 1, 0.25, 0.5}})
	want := []float64{1, 0.5, 0.25}
	if len(mm.Levels) != len(want) {
		t.Fatalf("levels = %d, want %d", len(mm.Levels), len(want))
	}
	for i, l := range mm.Levels {
		if l.Scale != want[i] {
			t.Errorf("Levels[%d].Scale = %v, want %v", i, l.Scale, want[i])
		}
	}
	if got := mm.Levels[2].Image.Bounds().Dx(); got != 10 {
		t.Errorf("0.25 level width = %d, want 10", got)
	}
}

func TestMipmapPanicsOnBadScale(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic, got none")
		}
	}()
	NewImageMipmaps(solidImage(4, 4, color.RGBA{}), MipmapConfig{Scales: []float64{1, -0.5}})
}
