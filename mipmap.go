package birch

import (
	"image"
	"math"
	"slices"

	"golang.org/x/image/draw"
)

// MipmapConfig selects which levels an ImageMipmaps holds.
type MipmapConfig struct {
	// Scales lists fixed level scales. Empty means the full power-of-two
	// chain down to 1x1.
	Scales []float64
	// Chained resamples each level from the previous one instead of from
	// the source.
	Chained bool
	// Interpolator resamples levels; nil uses draw.BiLinear.
	Interpolator draw.Interpolator
}

// DefaultMipmapConfig returns a chained full chain.
func DefaultMipmapConfig() MipmapConfig {
	return MipmapConfig{Chained: true}
}

// MipLevel is one scaled copy of a source image.
type MipLevel struct {
	Scale float64
	Image image.Image
}

// ImageMipmaps is a descending chain of scaled copies of one image.
type ImageMipmaps struct {
	Width, Height int
	Levels        []MipLevel // descending scale
}

// FullChainLevels returns ceil(log2(max(w, h))) + 1, the level count of a
// full chain.
func FullChainLevels(w, h int) int {
	m := max(w, h)
	if m <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(m)))) + 1
}

// NewImageMipmaps builds the levels described by cfg. A level at scale 1
// is the source itself. It panics on a non-positive fixed scale.
func NewImageMipmaps(src image.Image, cfg MipmapConfig) *ImageMipmaps {
	b := src.Bounds()
	mm := &ImageMipmaps{Width: b.Dx(), Height: b.Dy()}

	scales := cfg.Scales
	if len(scales) == 0 {
		n := FullChainLevels(mm.Width, mm.Height)
		scales = make([]float64, n)
		for i := range scales {
			scales[i] = math.Ldexp(1, -i)
		}
	} else {
		scales = slices.Clone(scales)
		for _, s := range scales {
			if s <= 0 {
				panic("birch: mipmap scale must be positive")
			}
		}
		slices.Sort(scales)
		slices.Reverse(scales)
		scales = slices.Compact(scales)
	}
	interp := cfg.Interpolator
	if interp == nil {
		interp = draw.BiLinear
	}

	prev := src
	for _, s := range scales {
		if s == 1 {
			mm.Levels = append(mm.Levels, MipLevel{Scale: 1, Image: src})
			prev = src
			continue
		}
		from := src
		if cfg.Chained {
			from = prev
		}
		w := max(1, int(math.Floor(float64(mm.Width)*s)))
		h := max(1, int(math.Floor(float64(mm.Height)*s)))
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		interp.Scale(dst, dst.Bounds(), from, from.Bounds(), draw.Src, nil)
		mm.Levels = append(mm.Levels, MipLevel{Scale: s, Image: dst})
		prev = dst
	}
	return mm
}

// BestForZoom returns the smallest level whose scale still covers zoom, or
// the largest level when none does.
func (mm *ImageMipmaps) BestForZoom(zoom float64) MipLevel {
	if len(mm.Levels) == 0 {
		return MipLevel{}
	}
	best := mm.Levels[0]
	for _, l := range mm.Levels[1:] {
		if l.Scale < zoom {
			break
		}
		best = l
	}
	return best
}

// BestForSize returns the level to draw the image at w by h pixels.
func (mm *ImageMipmaps) BestForSize(w, h float64) MipLevel {
	if mm.Width == 0 || mm.Height == 0 {
		return mm.BestForZoom(1)
	}
	return mm.BestForZoom(math.Max(w/float64(mm.Width), h/float64(mm.Height)))
}

// Source returns the largest level's image.
func (mm *ImageMipmaps) Source() image.Image {
	if len(mm.Levels) == 0 {
		return nil
	}
	return mm.Levels[0].Image
}
