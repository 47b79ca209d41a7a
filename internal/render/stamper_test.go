package render

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func whitePage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func TestStampDrawsAtOffset(t *testing.T) {
	stamper, err := NewStamper()
	require.NoError(t, err)

	stamped := stamper.Stamp(whitePage(), "GP_00001")

	darkened := 0
	for y := stampOffsetY; y < stampOffsetY+stampFontSize*2; y++ {
		for x := stampOffsetX; x < 200; x++ {
			r, g, b, _ := stamped.At(x, y).RGBA()
			if r < 0xffff || g < 0xffff || b < 0xffff {
				darkened++
			}
		}
	}
	assert.Greater(t, darkened, 0, "stamp must darken pixels in the text region")
}

func TestStampLeavesSourceUntouched(t *testing.T) {
	stamper, err := NewStamper()
	require.NoError(t, err)

	src := whitePage()
	_ = stamper.Stamp(src, "GP_00001")

	assert.Equal(t, color.RGBA{255, 255, 255, 255}, src.RGBAAt(stampOffsetX+5, stampOffsetY+5))
}

func TestStampIsDeterministic(t *testing.T) {
	stamper, err := NewStamper()
	require.NoError(t, err)

	a := stamper.Stamp(whitePage(), "GP_00042").(*image.RGBA)
	b := stamper.Stamp(whitePage(), "GP_00042").(*image.RGBA)

	assert.Equal(t, a.Pix, b.Pix)
}

func TestWriteTIFFRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.tiff")
	require.NoError(t, WriteTIFF(path, whitePage()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := tiff.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), decoded.Bounds())
}
