package phoneme

import (
	"fmt"
	"strings"
)

// Placeholder stands in for any part of a lesson that has no content yet.
const Placeholder = "This content is being developed."

type Section struct {
	Title string
	Lines []string
	// Pending marks a section showing only the placeholder.
	Pending bool
}

// ReadAloud joins the section lines for the read-along view.
func (s Section) ReadAloud() string {
	return strings.Join(s.Lines, " ")
}

// Sections lays a document out in lesson order. Every section is always
// present so the page layout does not jump between phonemes.
func Sections(doc *Document) []Section {
	if doc == nil {
		doc = &Document{}
	}
	return []Section{
		graphemes(doc.Graphemes),
		articulation(doc.Articulation),
		teaching(doc.Teaching),
		wordLists(doc.WordLists),
		texts("Practice Texts", doc.PracticeTexts),
		texts("Stories", doc.Stories),
	}
}

func section(title string, lines []string) Section {
	if len(lines) == 0 {
		return Section{Title: title, Lines: []string{Placeholder}, Pending: true}
	}
	return Section{Title: title, Lines: lines}
}

func graphemes(gs []Grapheme) Section {
	var lines []string
	for _, g := range gs {
		line := g.Spelling
		if g.Position != "" && g.Position != "any" {
			line += " (" + g.Position + ")"
		}
		if len(g.Examples) > 0 {
			line += ": " + strings.Join(g.Examples, ", ")
		}
		lines = append(lines, line)
	}
	return section("Graphemes", lines)
}

func articulation(a *Articulation) Section {
	if a == nil {
		return section("Articulation", nil)
	}
	var lines []string
	for _, s := range []string{a.Description, a.Mouth, a.Tongue} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) > 0 {
		if a.Voiced {
			lines = append(lines, "Voiced: your throat buzzes.")
		} else {
			lines = append(lines, "Unvoiced: no buzz in your throat.")
		}
	}
	lines = append(lines, a.Tips...)
	return section("Articulation", lines)
}

func teaching(t *Teaching) Section {
	if t == nil {
		return section("Teaching", nil)
	}
	var lines []string
	for _, o := range t.Objectives {
		lines = append(lines, "Objective: "+o)
	}
	for _, a := range t.Activities {
		lines = append(lines, "Activity: "+a)
	}
	if t.Notes != "" {
		lines = append(lines, t.Notes)
	}
	return section("Teaching", lines)
}

func wordLists(ls []WordList) Section {
	var lines []string
	for _, l := range ls {
		lines = append(lines, fmt.Sprintf("%s: %s", l.Title, strings.Join(l.Words, ", ")))
	}
	return section("Word Lists", lines)
}

func texts(title string, ts []Text) Section {
	var lines []string
	for _, t := range ts {
		lines = append(lines, t.Title+". "+t.Body)
	}
	return section(title, lines)
}
