package state

// Replayer redraws a canvas from a blank surface.
type Replayer interface {
	Replay(strokes []Stroke)
}

// History is the committed stroke list plus the redo buffer.
// Replaying Committed in order from blank reproduces the canvas.
type History struct {
	committed []Stroke
	redo      []Stroke
	replayer  Replayer
}

func NewHistory(r Replayer) *History {
	return &History{replayer: r}
}

// Commit appends a sealed stroke. The redo buffer is discarded.
func (h *History) Commit(s Stroke) {
	h.committed = append(h.committed, s.Clone())
	h.redo = nil
}

// Undo moves the last committed stroke to the front of the redo buffer.
func (h *History) Undo() bool {
	if len(h.committed) == 0 {
		return false
	}
	last := h.committed[len(h.committed)-1]
	h.committed = h.committed[:len(h.committed)-1]
	h.redo = append([]Stroke{last}, h.redo...)
	h.replay()
	return true
}

// Redo moves the first redo stroke back to the end of the committed list.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	first := h.redo[0]
	h.redo = h.redo[1:]
	h.committed = append(h.committed, first)
	h.replay()
	return true
}

func (h *History) Clear() {
	h.committed = nil
	h.redo = nil
	h.replay()
}

// Reset replaces the history with strokes, as when a board file is opened.
func (h *History) Reset(strokes []Stroke) {
	h.committed = make([]Stroke, 0, len(strokes))
	for _, s := range strokes {
		h.committed = append(h.committed, s.Clone())
	}
	h.redo = nil
	h.replay()
}

func (h *History) CanUndo() bool { return len(h.committed) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

func (h *History) Committed() []Stroke  { return cloneAll(h.committed) }
func (h *History) RedoBuffer() []Stroke { return cloneAll(h.redo) }

func (h *History) replay() {
	if h.replayer != nil {
		h.replayer.Replay(cloneAll(h.committed))
	}
}

func cloneAll(in []Stroke) []Stroke {
	out := make([]Stroke, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
