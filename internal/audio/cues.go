package audio

import (
	"time"

	"DecodingDen/internal/state"
)

// Cue names a moment that gets a sound.
type Cue string

const (
	CueDrawStart   Cue = "draw-start"
	CueClear       Cue = "clear"
	CueSave        Cue = "save"
	CueToolSelect  Cue = "tool-select"
	CueEraserStart Cue = "eraser-start"
	CueEraserStop  Cue = "eraser-stop"
)

const ms = time.Millisecond

// Voices returns the sound for cue, shaped by the active tool.
func Voices(cue Cue, tool state.Tool) []Voice {
	switch cue {
	case CueDrawStart:
		return drawStart(tool)
	case CueClear:
		return []Voice{
			{Wave: Noise, Duration: 350 * ms, Gain: 0.25, Attack: 10 * ms, Release: 250 * ms},
			{Wave: Sine, StartHz: 660, EndHz: 220, Duration: 300 * ms, Gain: 0.3, Release: 120 * ms},
		}
	case CueSave:
		notes := []float64{523.25, 659.25, 783.99}
		voices := make([]Voice, 0, len(notes))
		for i, hz := range notes {
			voices = append(voices, Voice{
				Wave: Triangle, StartHz: hz, Delay: time.Duration(i) * 90 * ms,
				Duration: 160 * ms, Gain: 0.3, Attack: 5 * ms, Release: 80 * ms,
			})
		}
		return voices
	case CueToolSelect:
		hz := 880.0
		switch tool.Kind {
		case state.Highlighter:
			hz = 740
		case state.Eraser:
			hz = 440
		}
		return []Voice{{Wave: Sine, StartHz: hz, Duration: 60 * ms, Gain: 0.25, Attack: 2 * ms, Release: 40 * ms}}
	case CueEraserStart:
		return []Voice{{Wave: Noise, Duration: 120 * ms, Gain: 0.15, Attack: 20 * ms, Release: 60 * ms}}
	case CueEraserStop:
		return []Voice{{Wave: Noise, Duration: 60 * ms, Gain: 0.1, Release: 50 * ms}}
	}
	return nil
}

func drawStart(tool state.Tool) []Voice {
	if tool.Kind == state.Highlighter {
		return []Voice{{Wave: Sine, StartHz: 300, EndHz: 360, Duration: 90 * ms, Gain: 0.2, Attack: 10 * ms, Release: 50 * ms}}
	}
	base := Voice{Wave: Sine, StartHz: 520, EndHz: 600, Duration: 80 * ms, Gain: 0.25, Attack: 5 * ms, Release: 50 * ms}
	switch tool.Effect {
	case state.EffectRainbow:
		base.Wave, base.StartHz, base.EndHz = Triangle, 400, 900
	case state.EffectGlitter, state.EffectCrystal:
		return []Voice{
			{Wave: Sine, StartHz: 1568, Duration: 70 * ms, Gain: 0.15, Release: 50 * ms},
			{Wave: Sine, StartHz: 2093, Delay: 40 * ms, Duration: 90 * ms, Gain: 0.12, Release: 60 * ms},
		}
	case state.EffectFire:
		return []Voice{
			{Wave: Noise, Duration: 150 * ms, Gain: 0.2, Attack: 30 * ms, Release: 80 * ms},
			{Wave: Sawtooth, StartHz: 110, EndHz: 90, Duration: 150 * ms, Gain: 0.08, Release: 80 * ms},
		}
	case state.EffectBubble:
		base.StartHz, base.EndHz = 300, 1200
	case state.EffectGlow, state.EffectNeon:
		base.Wave, base.StartHz, base.EndHz = Square, 220, 220
		base.Gain = 0.08
	}
	return []Voice{base}
}
