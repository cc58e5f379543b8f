package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBoard() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	img.Set(10, 10, color.RGBA{R: 255, A: 255})
	return img
}

func TestPNG_NoCaption(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, testBoard(), ""))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), img.Bounds())

	r, g, b, a := img.At(50, 50).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, b, a}, "transparent ink is backed with white")
	r, g, _, _ = img.At(10, 10).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
}

func TestPNG_CaptionAddsFooter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, testBoard(), "sh: ship"))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100+captionHeight, img.Bounds().Dy())

	dark := 0
	for y := 100; y < img.Bounds().Dy(); y++ {
		for x := 0; x < 200; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r < 0x8000 {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "caption text is drawn")
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, testBoard(), "Monday's board"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("/Image")))
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, PNGFile(filepath.Join(dir, "b.png"), testBoard(), "x"))
	require.NoError(t, PDFFile(filepath.Join(dir, "b.pdf"), testBoard(), ""))

	for _, name := range []string{"b.png", "b.pdf"} {
		st, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, st.Size())
	}
	assert.Error(t, PDFFile(filepath.Join(dir, "missing", "b.pdf"), testBoard(), ""))
}
