package render

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"DecodingDen/internal/state"
)

const (
	EraserScale      = 2.0
	HighlighterScale = 3.0
	HighlighterAlpha = 0.15
	RainbowStep      = 12.0
)

var (
	white       = colorful.Color{R: 1, G: 1, B: 1}
	gold        = colorful.Color{R: 1, G: 0.84, B: 0}
	firePalette = []colorful.Color{
		{R: 0.9, G: 0.15, B: 0.05},
		{R: 1, G: 0.5, B: 0},
		{R: 1, G: 0.85, B: 0.1},
	}
)

// Painter holds the running effect state of one stroke: the point index and
// a random source seeded from the stroke, so replay repeats live drawing.
type Painter struct {
	c     *Canvas
	tool  state.Tool
	color colorful.Color
	rng   *rand.Rand
	index int
	hl    *highlightLayer
}

func newPainter(c *Canvas, s state.Stroke) *Painter {
	p := &Painter{
		c:     c,
		tool:  s.Tool,
		color: ParseColor(s.Tool.Color),
		rng:   rand.New(rand.NewSource(s.Seed)),
	}
	if s.Tool.Kind == state.Highlighter {
		p.hl = newHighlightLayer(c.ink.Bounds())
	}
	return p
}

// Step draws the segment from prev to cur.
func (p *Painter) Step(prev, cur state.Point) {
	p.index++
	p.paint(prev, cur)
}

func (p *Painter) paint(a, b state.Point) {
	size := float64(p.tool.Size)
	switch p.tool.Kind {
	case state.Eraser:
		p.c.erase(a, b, size*EraserScale)
	case state.Highlighter:
		p.c.highlight(p.hl, a, b, size*HighlighterScale, p.color)
	default:
		p.pen(a, b, size)
	}
}

func (p *Painter) pen(a, b state.Point, size float64) {
	dc := p.c.dc
	switch p.tool.Effect {
	case state.EffectRainbow:
		hue := math.Mod(float64(p.index)*RainbowStep, 360)
		col := colorful.Hsl(hue, 1, 0.5)
		line(dc, a, b, size+4, alpha(col, 0.25))
		line(dc, a, b, size, col)

	case state.EffectGlitter:
		line(dc, a, b, size, p.color)
		for i := 0; i < 3; i++ {
			angle := p.rng.Float64() * 2 * math.Pi
			dist := p.rng.Float64() * size * 2
			r := 0.5 + p.rng.Float64()*size*0.35
			col := []colorful.Color{gold, white, p.color}[p.rng.Intn(3)]
			dc.SetColor(alpha(col, 0.6+p.rng.Float64()*0.4))
			dc.DrawCircle(b.X+math.Cos(angle)*dist, b.Y+math.Sin(angle)*dist, r)
			dc.Fill()
		}

	case state.EffectGlow:
		for i, w := range []float64{3, 2, 1.4} {
			line(dc, a, b, size*w, alpha(p.color, []float64{0.12, 0.2, 0.35}[i]))
		}
		line(dc, a, b, size, p.color)
		line(dc, a, b, math.Max(1, size*0.35), alpha(white, 0.6))

	case state.EffectFire:
		line(dc, a, b, size, firePalette[1])
		for i := 0; i < 4; i++ {
			dx := (p.rng.Float64()*2 - 1) * size
			dy := -p.rng.Float64() * size * 1.5
			r := size * (0.2 + p.rng.Float64()*0.4)
			col := firePalette[p.rng.Intn(len(firePalette))]
			dc.SetColor(alpha(col, 0.5+p.rng.Float64()*0.4))
			dc.DrawCircle(b.X+dx, b.Y+dy, r)
			dc.Fill()
		}

	case state.EffectCrystal:
		line(dc, a, b, size, alpha(p.color.BlendRgb(white, 0.4), 0.8))
		if p.index%3 == 0 {
			r := size * (0.6 + p.rng.Float64()*0.6)
			dc.DrawRegularPolygon(4, b.X, b.Y, r, p.rng.Float64()*math.Pi)
			dc.SetColor(alpha(white, 0.7))
			dc.FillPreserve()
			dc.SetColor(p.color)
			dc.SetLineWidth(1)
			dc.Stroke()
		}

	case state.EffectBubble:
		if p.index%2 == 0 {
			r := size * (0.5 + p.rng.Float64())
			x := b.X + (p.rng.Float64()*2-1)*size*0.5
			y := b.Y + (p.rng.Float64()*2-1)*size*0.5
			dc.DrawCircle(x, y, r)
			dc.SetColor(alpha(p.color, 0.15))
			dc.FillPreserve()
			dc.SetColor(alpha(p.color, 0.8))
			dc.SetLineWidth(1.5)
			dc.Stroke()
		}

	case state.EffectNeon:
		line(dc, a, b, size*2.5, alpha(p.color, 0.25))
		line(dc, a, b, size*1.5, alpha(p.color, 0.5))
		line(dc, a, b, math.Max(1, size*0.4), white)

	default:
		line(dc, a, b, size, p.color)
	}
}

func alpha(c colorful.Color, a float64) color.Color {
	return color.NRGBA{
		R: uint8(math.Round(clamp01(c.R) * 255)),
		G: uint8(math.Round(clamp01(c.G) * 255)),
		B: uint8(math.Round(clamp01(c.B) * 255)),
		A: uint8(math.Round(clamp01(a) * 255)),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
