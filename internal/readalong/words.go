package readalong

import (
	"strings"
	"time"
	"unicode"
)

const (
	PauseWord   = 80 * time.Millisecond
	PauseClause = 250 * time.Millisecond
	PauseSpeech = 600 * time.Millisecond
)

// Word is one token to speak and highlight, with the silence that follows it.
type Word struct {
	Text  string
	Pause time.Duration
}

// Speakable returns the word without surrounding punctuation.
func (w Word) Speakable() string {
	return strings.TrimFunc(w.Text, func(r rune) bool {
		return unicode.IsPunct(r) && r != '\''
	})
}

// Tokenize splits text on whitespace. Trailing punctuation sets the pause:
// clause marks get a short break, sentence ends a long one.
func Tokenize(text string) []Word {
	fields := strings.Fields(text)
	words := make([]Word, 0, len(fields))
	for _, f := range fields {
		words = append(words, Word{Text: f, Pause: pauseAfter(f)})
	}
	return words
}

func pauseAfter(token string) time.Duration {
	trimmed := strings.TrimRight(token, `"')]}”’`)
	if trimmed == "" {
		return PauseWord
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return PauseSpeech
	case ',', ';', ':':
		return PauseClause
	}
	return PauseWord
}
