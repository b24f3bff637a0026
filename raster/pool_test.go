package raster

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {5, 8}, {64, 64}, {65, 128}, {1000, 1024},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nextPowerOfTwo(tt.in), "nextPowerOfTwo(%d)", tt.in)
	}
}

func TestPoolAcquireCoversRect(t *testing.T) {
	var pool Pool
	r := image.Rect(10, 20, 110, 70)
	img := pool.Acquire(r)
	defer pool.Release(img)
	assert.Equal(t, r, img.Bounds())
	assert.Equal(t, 400, img.Stride)
	assert.Len(t, img.Pix, 4*100*50)
}

func TestPoolReleaseAndReacquire(t *testing.T) {
	var pool Pool
	img1 := pool.Acquire(image.Rect(0, 0, 64, 64))
	img1.Pix[0] = 255
	pool.Release(img1)

	img2 := pool.Acquire(image.Rect(5, 5, 69, 69))
	require.Len(t, img2.Pix, 4*64*64)
	assert.Same(t, &img1.Pix[:1][0], &img2.Pix[:1][0], "expected the released buffer back")
	assert.Zero(t, img2.Pix[0], "reacquired buffer not cleared")
}

func TestPoolDifferentSizes(t *testing.T) {
	var pool Pool
	a := pool.Acquire(image.Rect(0, 0, 32, 32))
	b := pool.Acquire(image.Rect(0, 0, 64, 64))
	assert.NotEqual(t, a.Bounds(), b.Bounds())
	pool.Release(a)
	pool.Release(b)
	assert.Len(t, pool.buckets, 2)
}

func TestPoolReleaseForeignImage(t *testing.T) {
	var pool Pool
	pool.Release(nil)
	pool.Release(image.NewRGBA(image.Rect(0, 0, 3, 3)))
	assert.Empty(t, pool.buckets)
}

func BenchmarkPoolAcquireRelease(b *testing.B) {
	var pool Pool
	r := image.Rect(0, 0, 256, 256)
	pool.Release(pool.Acquire(r))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Release(pool.Acquire(r))
	}
}
