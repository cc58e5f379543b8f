// Package phoneme fetches and checks the phoneme documents that drive the
// lesson views.
package phoneme

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("phoneme: invalid document")

// Document is one phoneme lesson. Everything except the phoneme itself is
// optional; missing parts render as placeholders.
type Document struct {
	Phoneme       string        `json:"phoneme" validate:"required"`
	Level         int           `json:"level,omitempty" validate:"omitempty,min=1,max=8"`
	Graphemes     []Grapheme    `json:"graphemes,omitempty" validate:"dive"`
	Articulation  *Articulation `json:"articulation,omitempty"`
	Teaching      *Teaching     `json:"teachingContent,omitempty"`
	WordLists     []WordList    `json:"wordLists,omitempty" validate:"dive"`
	PracticeTexts []Text        `json:"practiceTexts,omitempty" validate:"dive"`
	Stories       []Text        `json:"stories,omitempty" validate:"dive"`
}

type Grapheme struct {
	Spelling string   `json:"spelling" validate:"required"`
	Position string   `json:"position,omitempty" validate:"omitempty,oneof=initial medial final any"`
	Examples []string `json:"examples,omitempty"`
}

type Articulation struct {
	Description string   `json:"description,omitempty"`
	Mouth       string   `json:"mouth,omitempty"`
	Tongue      string   `json:"tongue,omitempty"`
	Voiced      bool     `json:"voiced"`
	Tips        []string `json:"tips,omitempty"`
}

type Teaching struct {
	Objectives []string `json:"objectives,omitempty"`
	Activities []string `json:"activities,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

type WordList struct {
	Title string   `json:"title" validate:"required"`
	Words []string `json:"words" validate:"min=1,dive,required"`
}

// Text is a practice passage or a story.
type Text struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode reads and validates a document. Once it returns, every view can
// rely on the document's shape.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &doc, nil
}

// Normalize turns user input such as " /SH/ " into the lookup key "sh".
func Normalize(query string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(query), "/"))
}
