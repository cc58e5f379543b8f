package audio

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"DecodingDen/internal/state"
)

// Sink plays rendered samples. Play must not wait for playback to finish.
type Sink interface {
	Play(samples []float32) error
	Stop()
}

type job struct {
	cue    Cue
	voices []Voice
	gen    uint64
}

// Feedback turns cues into sounds on a background goroutine. Triggering is
// fire-and-forget: a full queue drops the sound, and a nil sink is silent.
type Feedback struct {
	sink       Sink
	sampleRate int
	log        zerolog.Logger

	enabled atomic.Bool
	gen     atomic.Uint64
	queue   chan job
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewFeedback(sink Sink, sampleRate int, log zerolog.Logger) *Feedback {
	f := &Feedback{
		sink:       sink,
		sampleRate: sampleRate,
		log:        log.With().Str("component", "audio").Logger(),
		queue:      make(chan job, 8),
		done:       make(chan struct{}),
	}
	f.enabled.Store(true)
	go f.run()
	return f
}

func (f *Feedback) SetEnabled(on bool) {
	f.enabled.Store(on)
	if !on {
		f.Stop()
	}
}

func (f *Feedback) Enabled() bool { return f.enabled.Load() }

// Trigger schedules the sound for cue and returns immediately.
func (f *Feedback) Trigger(cue Cue, tool state.Tool) {
	if f == nil || f.sink == nil || !f.enabled.Load() {
		return
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return
	}
	select {
	case f.queue <- job{cue: cue, voices: Voices(cue, tool), gen: f.gen.Load()}:
	default:
		f.log.Debug().Str("cue", string(cue)).Msg("sound queue full, dropping")
	}
}

// Stop cancels queued and playing sounds.
func (f *Feedback) Stop() {
	f.gen.Add(1)
	for drained := false; !drained; {
		select {
		case _, ok := <-f.queue:
			drained = !ok
		default:
			drained = true
		}
	}
	if f.sink != nil {
		f.sink.Stop()
	}
}

func (f *Feedback) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	close(f.queue)
	f.mu.Unlock()

	<-f.done
	if f.sink != nil {
		f.sink.Stop()
	}
}

func (f *Feedback) run() {
	defer close(f.done)
	for j := range f.queue {
		if j.gen != f.gen.Load() {
			continue
		}
		samples := Render(f.sampleRate, j.voices)
		if len(samples) == 0 {
			continue
		}
		if err := f.sink.Play(samples); err != nil {
			f.log.Debug().Err(err).Str("cue", string(j.cue)).Msg("playback failed")
		}
	}
}
