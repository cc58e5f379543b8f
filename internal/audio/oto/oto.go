// Package oto plays rendered cue samples on the default output device.
// It is kept apart from package audio so headless builds never link the
// platform audio libraries.
package oto

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	ebioto "github.com/ebitengine/oto/v3"
)

// Sink plays mono float32 samples on the default output device.
type Sink struct {
	ctx     *ebioto.Context
	mu      sync.Mutex
	players []*ebioto.Player
}

// NewSink opens the audio device. Callers treat an error as "no sound".
func NewSink(sampleRate int) (*Sink, error) {
	ctx, ready, err := ebioto.NewContext(&ebioto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       ebioto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready
	return &Sink{ctx: ctx}, nil
}

func (s *Sink) Play(samples []float32) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	p := s.ctx.NewPlayer(bytes.NewReader(encodeFloat32LE(samples)))
	p.Play()

	s.mu.Lock()
	defer s.mu.Unlock()
	live := s.players[:0]
	for _, old := range s.players {
		if old.IsPlaying() {
			live = append(live, old)
		} else {
			_ = old.Close()
		}
	}
	s.players = append(live, p)
	return nil
}

func (s *Sink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		p.Pause()
		_ = p.Close()
	}
	s.players = nil
}

func encodeFloat32LE(samples []float32) []byte {
	buf := make([]byte, 4*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
