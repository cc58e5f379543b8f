// Package export writes a rendered board out as a PNG or a printable PDF.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin  = 10.0
	titleHeight = 12.0
)

// PDF writes img on an A4 landscape page under title.
func PDF(w io.Writer, img image.Image, title string) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode board image: %w", err)
	}

	p := gofpdf.New("L", "mm", "A4", "")
	p.SetTitle(title, true)
	p.SetCreator("Decoding Den", true)
	p.AddPage()

	pageW, pageH := p.GetPageSize()
	top := pageMargin
	if title != "" {
		p.SetFont("Helvetica", "B", 16)
		p.SetXY(pageMargin, pageMargin)
		p.CellFormat(pageW-2*pageMargin, titleHeight, p.UnicodeTranslatorFromDescriptor("")(title), "", 0, "C", false, 0, "")
		top += titleHeight + 2
	}

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("board", opt, &buf)

	// fit inside the remaining area, keeping the aspect ratio
	b := img.Bounds()
	boxW, boxH := pageW-2*pageMargin, pageH-top-pageMargin
	drawW, drawH := boxW, boxW*float64(b.Dy())/float64(b.Dx())
	if drawH > boxH {
		drawW, drawH = boxH*float64(b.Dx())/float64(b.Dy()), boxH
	}
	x := (pageW - drawW) / 2
	p.ImageOptions("board", x, top, drawW, drawH, false, opt, 0, "")
	p.SetDrawColor(180, 180, 180)
	p.Rect(x, top, drawW, drawH, "D")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// PDFFile writes the PDF to path.
func PDFFile(path string, img image.Image, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := PDF(f, img, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
