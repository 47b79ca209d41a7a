package render

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	stampFontSize = 20
	stampOffsetX  = 20
	stampOffsetY  = 20
)

// Stamper draws Bates identifiers onto rendered pages at a fixed offset.
// Output is deterministic for a given input image and text.
type Stamper struct {
	face font.Face
}

// NewStamper parses the embedded monospace face used for stamping.
func NewStamper() (*Stamper, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stamp font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    stampFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create stamp font face: %w", err)
	}
	return &Stamper{face: face}, nil
}

// Stamp returns a copy of img with text drawn in black at the stamp offset.
func (s *Stamper) Stamp(img image.Image, text string) image.Image {
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: s.face,
		Dot: fixed.Point26_6{
			X: fixed.I(dst.Bounds().Min.X + stampOffsetX),
			Y: fixed.I(dst.Bounds().Min.Y+stampOffsetY) + s.face.Metrics().Ascent,
		},
	}
	d.DrawString(text)
	return dst
}
