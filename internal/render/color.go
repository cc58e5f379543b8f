package render

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog/log"
)

// Palette is the named colour set offered by the toolbar.
var Palette = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#e53935",
	"orange": "#fb8c00",
	"yellow": "#fdd835",
	"green":  "#43a047",
	"blue":   "#1e88e5",
	"purple": "#8e24aa",
	"pink":   "#ec407a",
	"brown":  "#6d4c41",
	"gray":   "#757575",
}

// PaletteOrder is the swatch order shown to users.
var PaletteOrder = []string{"black", "red", "orange", "yellow", "green", "blue", "purple", "pink", "brown", "gray"}

// ParseColor accepts #rgb, #rrggbb or a palette name. Anything else is black.
func ParseColor(s string) colorful.Color {
	key := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := Palette[key]; ok {
		key = hex
	}
	if key == "" {
		return colorful.Color{}
	}
	c, err := colorful.Hex(key)
	if err != nil {
		log.Warn().Str("component", "render").Str("color", s).Msg("unknown colour, using black")
		return colorful.Color{}
	}
	return c
}
