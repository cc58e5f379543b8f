package state

import (
	"encoding/json"
	"fmt"
	"time"
)

// ToolKind is the drawing instrument in use.
type ToolKind string

const (
	Pen         ToolKind = "pen"
	Highlighter ToolKind = "highlighter"
	Eraser      ToolKind = "eraser"
)

// Effect is a stylised treatment applied to pen strokes.
type Effect string

const (
	EffectNone    Effect = ""
	EffectRainbow Effect = "rainbow"
	EffectGlitter Effect = "glitter"
	EffectGlow    Effect = "glow"
	EffectFire    Effect = "fire"
	EffectCrystal Effect = "crystal"
	EffectBubble  Effect = "bubble"
	EffectNeon    Effect = "neon"
)

// Effects lists every selectable effect in toolbar order.
var Effects = []Effect{
	EffectRainbow, EffectGlitter, EffectGlow, EffectFire, EffectCrystal, EffectBubble, EffectNeon,
}

const (
	MinSize = 1
	MaxSize = 64
)

// Tool is an immutable description of how a stroke is drawn.
type Tool struct {
	Kind   ToolKind `json:"kind"`
	Color  string   `json:"color,omitempty"`
	Size   int      `json:"size"`
	Effect Effect   `json:"effect,omitempty"`
}

// Point is a position in canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one pointer-down to pointer-up gesture.
type Stroke struct {
	ID        string    `json:"id"`
	Tool      Tool      `json:"tool"`
	Points    []Point   `json:"points"`
	Seed      int64     `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a copy that shares no point storage with s.
func (s Stroke) Clone() Stroke {
	c := s
	c.Points = append([]Point(nil), s.Points...)
	return c
}

// Bounds is an axis aligned rectangle in canvas pixels.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Bounds returns the box covering every point, grown by pad on each side.
func (s Stroke) Bounds(pad float64) Bounds {
	if len(s.Points) == 0 {
		return Bounds{}
	}
	b := Bounds{MinX: s.Points[0].X, MinY: s.Points[0].Y, MaxX: s.Points[0].X, MaxY: s.Points[0].Y}
	for _, p := range s.Points[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	b.MinX -= pad
	b.MinY -= pad
	b.MaxX += pad
	b.MaxY += pad
	return b
}

// EncodeStrokes writes the board file format: a JSON array of strokes.
func EncodeStrokes(strokes []Stroke) ([]byte, error) {
	if strokes == nil {
		strokes = []Stroke{}
	}
	return json.MarshalIndent(strokes, "", "  ")
}

// DecodeStrokes parses a board file, rejecting strokes without points.
func DecodeStrokes(data []byte) ([]Stroke, error) {
	var strokes []Stroke
	if err := json.Unmarshal(data, &strokes); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	for i, s := range strokes {
		if len(s.Points) == 0 {
			return nil, fmt.Errorf("decode board: stroke %d has no points", i)
		}
		strokes[i].Tool = normalize(s.Tool)
	}
	return strokes, nil
}
