package readalong

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State is the sequencer position in its lifecycle.
type State int

const (
	Idle State = iota
	Speaking
	Paused
	Complete
)

func (s State) String() string {
	switch s {
	case Speaking:
		return "speaking"
	case Paused:
		return "paused"
	case Complete:
		return "complete"
	}
	return "idle"
}

var ErrNothingToRead = errors.New("readalong: no words loaded")

// Speaker says one word and returns when the utterance ends or ctx is done.
type Speaker interface {
	Speak(ctx context.Context, word string) error
}

// Sequencer reads words one at a time, reporting the current word so the
// view can highlight it. Pause keeps the position; Stop resets it.
type Sequencer struct {
	speaker  Speaker
	fallback Speaker
	log      zerolog.Logger

	mu      sync.Mutex
	words   []Word
	state   State
	index   int
	gen     uint64
	cancel  context.CancelFunc
	done    chan struct{}
	onWord  func(int, Word)
	onState func(State)
}

// NewSequencer uses fallback, when speaker fails, to keep highlighting
// in time without sound.
func NewSequencer(speaker, fallback Speaker, log zerolog.Logger) *Sequencer {
	return &Sequencer{
		speaker:  speaker,
		fallback: fallback,
		log:      log.With().Str("component", "readalong").Logger(),
	}
}

// OnWord is called with the index of each word as it starts. It runs on the
// reading goroutine and must not call Pause or Stop synchronously.
func (s *Sequencer) OnWord(fn func(int, Word)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onWord = fn
}

func (s *Sequencer) OnState(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onState = fn
}

// Load stops any reading and replaces the words.
func (s *Sequencer) Load(words []Word) {
	s.Stop()
	s.mu.Lock()
	s.words = append([]Word(nil), words...)
	s.mu.Unlock()
}

func (s *Sequencer) Words() []Word {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Word(nil), s.words...)
}

// State returns the current state and word index.
func (s *Sequencer) State() (State, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.index
}

// Play starts from the first word, or resumes a paused reading at the word
// that was interrupted. Playing while already speaking does nothing.
func (s *Sequencer) Play() error {
	s.mu.Lock()
	if len(s.words) == 0 {
		s.mu.Unlock()
		return ErrNothingToRead
	}
	switch s.state {
	case Speaking:
		s.mu.Unlock()
		return nil
	case Idle, Complete:
		s.index = 0
	}
	s.gen++
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	gen, start, done := s.gen, s.index, s.done
	notify := s.setStateLocked(Speaking)
	s.mu.Unlock()

	notify()
	go s.run(ctx, gen, start, done)
	return nil
}

// Pause interrupts the current word. Play resumes from it.
func (s *Sequencer) Pause() {
	s.mu.Lock()
	if s.state != Speaking {
		s.mu.Unlock()
		return
	}
	done := s.interruptLocked()
	notify := s.setStateLocked(Paused)
	s.mu.Unlock()

	<-done
	notify()
}

// Stop cancels reading and resets to the first word.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	done := s.interruptLocked()
	s.index = 0
	notify := func() {}
	if s.state != Idle {
		notify = s.setStateLocked(Idle)
	}
	s.mu.Unlock()

	if done != nil {
		<-done
	}
	notify()
}

// Wait blocks until the active reading goroutine, if any, has exited.
func (s *Sequencer) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Sequencer) run(ctx context.Context, gen uint64, start int, done chan struct{}) {
	defer close(done)
	for i := start; ; i++ {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		if i >= len(s.words) {
			if s.cancel != nil {
				s.cancel()
				s.cancel = nil
			}
			notify := s.setStateLocked(Complete)
			s.mu.Unlock()
			notify()
			return
		}
		s.index = i
		w := s.words[i]
		onWord := s.onWord
		s.mu.Unlock()

		if onWord != nil {
			onWord(i, w)
		}
		if err := s.say(ctx, w); err != nil {
			return
		}
		if err := sleep(ctx, w.Pause); err != nil {
			return
		}
	}
}

// say returns an error only when ctx is cancelled; speech failures fall
// back to silent timing.
func (s *Sequencer) say(ctx context.Context, w Word) error {
	text := w.Speakable()
	if text == "" {
		return ctx.Err()
	}
	err := s.speaker.Speak(ctx, text)
	if err == nil || ctx.Err() != nil {
		return ctx.Err()
	}
	s.log.Debug().Err(err).Str("word", text).Msg("speech failed, highlighting only")
	if s.fallback == nil {
		return ctx.Err()
	}
	if ferr := s.fallback.Speak(ctx, text); ferr != nil && ctx.Err() == nil {
		s.log.Debug().Err(ferr).Msg("fallback speaker failed")
	}
	return ctx.Err()
}

func (s *Sequencer) interruptLocked() chan struct{} {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return s.done
}

func (s *Sequencer) setStateLocked(st State) func() {
	s.state = st
	fn := s.onState
	if fn == nil {
		return func() {}
	}
	return func() { fn(st) }
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
