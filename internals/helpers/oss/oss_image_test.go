package helper

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestDecodeImage_SniffsPNG(t *testing.T) {
	img, err := decodeImage(pngBytes(t, 10, 8), "whatever.bin")
	require.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, 10, b.Dx())
	assert.Equal(t, 8, b.Dy())
}

func TestDecodeImage_RejectsGarbage(t *testing.T) {
	_, err := decodeImage([]byte("not an image at all"), "note.txt")
	assert.Error(t, err)
}

func TestDownscaleIfNeeded_KeepsAspectRatio(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4000, 2000))
	out := downscaleIfNeeded(src, 1600, 1600)
	b := out.Bounds()
	assert.Equal(t, 1600, b.Dx())
	assert.Equal(t, 800, b.Dy())
}

func TestDownscaleIfNeeded_NoopWhenSmall(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	out := downscaleIfNeeded(src, 1600, 1600)
	assert.Equal(t, src.Bounds(), out.Bounds())
}
