package raster

import (
	"image"
	"math"
)

// Pool recycles the pixel buffers of offscreen canvases, bucketed by
// power-of-two pixel count. After warmup, Acquire/Release are zero-alloc.
//
// A Pool is not safe for concurrent use.
type Pool struct {
	buckets map[int][][]uint8
}

// Acquire returns a cleared RGBA image covering r.
func (p *Pool) Acquire(r image.Rectangle) *image.RGBA {
	w, h := r.Dx(), r.Dy()
	n := 4 * w * h
	key := nextPowerOfTwo(w * h)

	var pix []uint8
	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			pix = stack[len(stack)-1][:n]
			p.buckets[key] = stack[:len(stack)-1]
			clear(pix)
		}
	}
	if pix == nil {
		pix = make([]uint8, n, 4*key)
	}
	return &image.RGBA{Pix: pix, Stride: 4 * w, Rect: r}
}

// Release returns an image's buffer to the pool. The image must not be
// used afterwards.
func (p *Pool) Release(img *image.RGBA) {
	if img == nil || cap(img.Pix) == 0 {
		return
	}
	key := cap(img.Pix) / 4
	if key != nextPowerOfTwo(key) {
		// Not a pool buffer.
		return
	}
	if p.buckets == nil {
		p.buckets = make(map[int][][]uint8)
	}
	p.buckets[key] = append(p.buckets[key], img.Pix[:0])
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
