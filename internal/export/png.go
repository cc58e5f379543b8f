package export

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	captionHeight = 36
	captionSize   = 16.0
)

var captionFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(gomono.TTF)
})

// PNG writes img on white. A non-empty caption is drawn in a footer strip
// below the board.
func PNG(w io.Writer, img image.Image, caption string) error {
	b := img.Bounds()
	height := b.Dy()
	if caption != "" {
		height += captionHeight
	}

	dc := gg.NewContext(b.Dx(), height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawImage(img, 0, 0)

	if caption != "" {
		f, err := captionFont()
		if err != nil {
			return fmt.Errorf("failed to parse font: %w", err)
		}
		face := truetype.NewFace(f, &truetype.Options{Size: captionSize, DPI: 72, Hinting: font.HintingFull})
		defer face.Close()
		dc.SetFontFace(face)

		dc.SetRGB255(240, 240, 240)
		dc.DrawRectangle(0, float64(b.Dy()), float64(b.Dx()), captionHeight)
		dc.Fill()
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(caption, float64(b.Dx())/2, float64(b.Dy())+captionHeight/2, 0.5, 0.5)
	}
	return dc.EncodePNG(w)
}

// PNGFile writes the PNG to path.
func PNGFile(path string, img image.Image, caption string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := PNG(f, img, caption); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
