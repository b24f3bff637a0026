package raster

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-pan", "after-pan"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeLabel(tt.in), "SanitizeLabel(%q)", tt.in)
	}
}

func TestUnpremultiply(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	copy(img.Pix, []uint8{128, 0, 0, 128, 10, 20, 30, 255})
	out := Unpremultiply(img)
	assert.Equal(t, []uint8{255, 0, 0, 128, 10, 20, 30, 255}, out.Pix)
}

func TestUnpremultiplySubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Pix[img.PixOffset(2, 2)+3] = 255
	sub := img.SubImage(image.Rect(2, 2, 4, 4)).(*image.RGBA)
	out := Unpremultiply(sub)
	assert.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	assert.Equal(t, uint8(255), out.Pix[3])
}

func TestWriteScreenshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	path, err := WriteScreenshot(dir, "after zoom", img)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_after_zoom.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), decoded.Bounds())
}

func TestWritePNGBadPath(t *testing.T) {
	err := WritePNG(filepath.Join(t.TempDir(), "missing", "x.png"), image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.Error(t, err)
}
