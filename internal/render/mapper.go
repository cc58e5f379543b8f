package render

import "DecodingDen/internal/state"

// Viewport is where the bitmap is displayed, in client units.
type Viewport struct {
	Left, Top     float64
	Width, Height float64
}

// Mapper converts client coordinates into bitmap pixels for a canvas that
// may be displayed at a different size than its bitmap.
type Mapper struct {
	Width, Height int
}

// Map returns ok=false when the viewport has no area, e.g. before layout.
func (m Mapper) Map(clientX, clientY float64, vp Viewport) (state.Point, bool) {
	if vp.Width <= 0 || vp.Height <= 0 || m.Width <= 0 || m.Height <= 0 {
		return state.Point{}, false
	}
	sx := float64(m.Width) / vp.Width
	sy := float64(m.Height) / vp.Height
	return state.Point{
		X: (clientX - vp.Left) * sx,
		Y: (clientY - vp.Top) * sy,
	}, true
}
