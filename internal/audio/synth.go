package audio

import (
	"math"
	"math/rand"
	"time"
)

// Wave is an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
	Triangle
	Sawtooth
	Noise
)

// Voice is one scheduled oscillator or noise burst.
type Voice struct {
	Wave     Wave
	StartHz  float64
	EndHz    float64 // exponential sweep target; 0 keeps StartHz
	Delay    time.Duration
	Duration time.Duration
	Gain     float64
	Attack   time.Duration
	Release  time.Duration
}

// Render mixes voices into mono float32 samples in [-1, 1].
func Render(sampleRate int, voices []Voice) []float32 {
	var total time.Duration
	for _, v := range voices {
		if end := v.Delay + v.Duration; end > total {
			total = end
		}
	}
	n := int(total.Seconds() * float64(sampleRate))
	if n <= 0 {
		return nil
	}
	mix := make([]float64, n)
	for i, v := range voices {
		renderVoice(mix, sampleRate, v, int64(i+1))
	}
	out := make([]float32, n)
	for i, s := range mix {
		out[i] = float32(math.Max(-1, math.Min(1, s)))
	}
	return out
}

func renderVoice(mix []float64, sampleRate int, v Voice, seed int64) {
	start := int(v.Delay.Seconds() * float64(sampleRate))
	length := int(v.Duration.Seconds() * float64(sampleRate))
	if length <= 0 {
		return
	}
	noise := rand.New(rand.NewSource(seed))
	phase := 0.0
	dur := v.Duration.Seconds()
	for i := 0; i < length && start+i < len(mix); i++ {
		t := float64(i) / float64(sampleRate)
		freq := v.StartHz
		if v.EndHz > 0 && v.StartHz > 0 {
			freq = v.StartHz * math.Pow(v.EndHz/v.StartHz, t/dur)
		}
		phase += freq / float64(sampleRate)
		phase -= math.Floor(phase)

		var s float64
		switch v.Wave {
		case Square:
			if phase < 0.5 {
				s = 1
			} else {
				s = -1
			}
		case Triangle:
			s = 4*math.Abs(phase-0.5) - 1
		case Sawtooth:
			s = 2*phase - 1
		case Noise:
			s = noise.Float64()*2 - 1
		default:
			s = math.Sin(2 * math.Pi * phase)
		}
		mix[start+i] += s * v.Gain * envelope(t, dur, v.Attack.Seconds(), v.Release.Seconds())
	}
}

// envelope is a linear attack and release around a flat sustain.
func envelope(t, dur, attack, release float64) float64 {
	g := 1.0
	if attack > 0 && t < attack {
		g = t / attack
	}
	if release > 0 && t > dur-release {
		g = math.Min(g, math.Max(0, (dur-t)/release))
	}
	return g
}
