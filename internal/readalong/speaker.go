package readalong

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

var ErrNoVoice = errors.New("readalong: no speech engine found")

// ExecSpeaker speaks through a command line synthesizer.
type ExecSpeaker struct {
	Path string
	Args func(word string) []string
}

func (e ExecSpeaker) Speak(ctx context.Context, word string) error {
	if e.Path == "" {
		return ErrNoVoice
	}
	cmd := exec.CommandContext(ctx, e.Path, e.Args(word)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("speak %q: %w: %s", word, err, out)
	}
	return nil
}

// TimedSpeaker is silent and waits roughly as long as speaking would take.
type TimedSpeaker struct {
	WordsPerMinute int
}

// Duration estimates the time to say word, scaled by its length.
func (t TimedSpeaker) Duration(word string) time.Duration {
	wpm := t.WordsPerMinute
	if wpm <= 0 {
		wpm = 150
	}
	base := time.Minute / time.Duration(wpm)
	n := utf8.RuneCountInString(word)
	if n <= 5 {
		return base
	}
	return base * time.Duration(n) / 5
}

func (t TimedSpeaker) Speak(ctx context.Context, word string) error {
	return sleep(ctx, t.Duration(word))
}

// DetectSpeaker picks the first installed synthesizer, or a TimedSpeaker
// when none is found.
func DetectSpeaker(wpm int, log zerolog.Logger) Speaker {
	rate := strconv.Itoa(wpm)
	engines := []struct {
		name string
		args func(string) []string
	}{
		{"espeak-ng", func(w string) []string { return []string{"-s", rate, w} }},
		{"espeak", func(w string) []string { return []string{"-s", rate, w} }},
		{"say", func(w string) []string { return []string{"-r", rate, w} }},
	}
	for _, e := range engines {
		if path, err := exec.LookPath(e.name); err == nil {
			log.Info().Str("engine", e.name).Msg("speech engine found")
			return ExecSpeaker{Path: path, Args: e.args}
		}
	}
	log.Warn().Msg("no speech engine found, read-along will highlight without sound")
	return TimedSpeaker{WordsPerMinute: wpm}
}
