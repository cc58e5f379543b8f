package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"DecodingDen/internal/state"
)

// Canvas is the whiteboard bitmap. Strokes are painted onto a transparent
// ink layer that is composited over white for display.
type Canvas struct {
	width, height int
	ink           *image.RGBA
	dc            *gg.Context
	scratch       *image.RGBA
	sdc           *gg.Context
}

func NewCanvas(width, height int) *Canvas {
	ink := image.NewRGBA(image.Rect(0, 0, width, height))
	scratch := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Canvas{
		width:   width,
		height:  height,
		ink:     ink,
		dc:      gg.NewContextForRGBA(ink),
		scratch: scratch,
		sdc:     gg.NewContextForRGBA(scratch),
	}
}

// Render draws strokes onto a fresh canvas.
func Render(strokes []state.Stroke, width, height int) *Canvas {
	c := NewCanvas(width, height)
	c.Replay(strokes)
	return c
}

func (c *Canvas) Size() (int, int) { return c.width, c.height }

func (c *Canvas) Mapper() Mapper { return Mapper{Width: c.width, Height: c.height} }

// Clear resets the canvas to blank.
func (c *Canvas) Clear() {
	draw.Draw(c.ink, c.ink.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Begin starts live painting of s and draws its first point.
func (c *Canvas) Begin(s state.Stroke) *Painter {
	p := newPainter(c, s)
	if len(s.Points) > 0 {
		p.paint(s.Points[0], s.Points[0])
	}
	return p
}

// Replay clears the canvas and redraws strokes in order. Each stroke gets
// fresh effect state, so the result matches live drawing.
func (c *Canvas) Replay(strokes []state.Stroke) {
	c.Clear()
	for _, s := range strokes {
		p := c.Begin(s)
		for i := 1; i < len(s.Points); i++ {
			p.Step(s.Points[i-1], s.Points[i])
		}
	}
}

// Image returns the ink composited over a white background.
func (c *Canvas) Image() *image.RGBA {
	b := c.ink.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.White, image.Point{}, draw.Src)
	draw.Draw(out, b, c.ink, b.Min, draw.Over)
	return out
}

// Ink returns a copy of the transparent ink layer.
func (c *Canvas) Ink() *image.RGBA {
	out := image.NewRGBA(c.ink.Bounds())
	copy(out.Pix, c.ink.Pix)
	return out
}

func (c *Canvas) InkAt(x, y int) color.RGBA {
	return c.ink.RGBAAt(x, y)
}

func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.Image())
}

// erase removes ink under the segment a-b (destination-out compositing).
func (c *Canvas) erase(a, b state.Point, width float64) {
	r := segmentRect(a, b, width/2+2).Intersect(c.ink.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.scratch, r, image.Transparent, image.Point{}, draw.Src)
	line(c.sdc, a, b, width, color.Black)
	destinationOut(c.ink, c.scratch, r)
}

// highlightLayer is the coverage of one highlighter stroke and the ink it
// was painted over. Coverage only ever grows, so overlapping segments of the
// same stroke never build up past HighlighterAlpha.
type highlightLayer struct {
	base *image.RGBA
	mask *image.Alpha
}

func newHighlightLayer(r image.Rectangle) *highlightLayer {
	return &highlightLayer{base: image.NewRGBA(r), mask: image.NewAlpha(r)}
}

// highlight adds the segment a-b to h and recomposites the pixels whose
// coverage grew over the ink under the stroke.
func (c *Canvas) highlight(h *highlightLayer, a, b state.Point, width float64, col colorful.Color) {
	r := segmentRect(a, b, width/2+2).Intersect(c.ink.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.scratch, r, image.Transparent, image.Point{}, draw.Src)
	line(c.sdc, a, b, width, color.Black)

	src := [3]float64{clamp01(col.R), clamp01(col.G), clamp01(col.B)}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cov := c.scratch.Pix[c.scratch.PixOffset(x, y)+3]
			mi := h.mask.PixOffset(x, y)
			old := h.mask.Pix[mi]
			if cov <= old {
				continue
			}
			i := c.ink.PixOffset(x, y)
			if old == 0 {
				copy(h.base.Pix[i:i+4], c.ink.Pix[i:i+4])
			}
			h.mask.Pix[mi] = cov

			sa := HighlighterAlpha * float64(cov) / 255
			for k := 0; k < 3; k++ {
				c.ink.Pix[i+k] = over(src[k]*sa, h.base.Pix[i+k], sa)
			}
			c.ink.Pix[i+3] = over(sa, h.base.Pix[i+3], sa)
		}
	}
}

// over is one premultiplied channel of src-over-dst.
func over(src float64, dst uint8, srcAlpha float64) uint8 {
	v := src*255 + float64(dst)*(1-srcAlpha)
	return uint8(math.Round(math.Min(v, 255)))
}

// destinationOut scales every channel of dst by the inverse of mask alpha.
func destinationOut(dst, mask *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			ma := mask.Pix[mask.PixOffset(x, y)+3]
			if ma == 0 {
				continue
			}
			keep := 255 - uint32(ma)
			i := dst.PixOffset(x, y)
			for k := 0; k < 4; k++ {
				dst.Pix[i+k] = uint8(uint32(dst.Pix[i+k]) * keep / 255)
			}
		}
	}
}

func segmentRect(a, b state.Point, pad float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(math.Min(a.X, b.X)-pad)),
		int(math.Floor(math.Min(a.Y, b.Y)-pad)),
		int(math.Ceil(math.Max(a.X, b.X)+pad)),
		int(math.Ceil(math.Max(a.Y, b.Y)+pad)),
	)
}

// line strokes a round-capped segment, or a filled dot when a == b.
func line(dc *gg.Context, a, b state.Point, width float64, col color.Color) {
	dc.SetColor(col)
	if a == b {
		dc.DrawCircle(a.X, a.Y, math.Max(width/2, 0.75))
		dc.Fill()
		return
	}
	dc.SetLineWidth(width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.DrawLine(a.X, a.Y, b.X, b.Y)
	dc.Stroke()
}
