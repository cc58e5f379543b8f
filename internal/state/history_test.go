package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReplayer struct {
	calls [][]Stroke
}

func (r *recordingReplayer) Replay(strokes []Stroke) {
	r.calls = append(r.calls, strokes)
}

func (r *recordingReplayer) last() []Stroke {
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func stroke(id string, tool Tool, pts ...Point) Stroke {
	return Stroke{ID: id, Tool: tool, Points: pts, CreatedAt: time.Unix(0, 0)}
}

func ids(strokes []Stroke) []string {
	out := make([]string, 0, len(strokes))
	for _, s := range strokes {
		out = append(out, s.ID)
	}
	return out
}

func TestHistory_UndoThenCommitDiscardsRedo(t *testing.T) {
	rep := &recordingReplayer{}
	h := NewHistory(rep)

	a := stroke("A", Tool{Kind: Pen, Color: "red", Size: 5}, Point{10, 10}, Point{20, 20}, Point{30, 30})
	b := stroke("B", Tool{Kind: Eraser, Size: 10}, Point{15, 15}, Point{25, 25})
	h.Commit(a)
	h.Commit(b)
	assert.Equal(t, []string{"A", "B"}, ids(h.Committed()))

	require.True(t, h.Undo())
	assert.Equal(t, []string{"A"}, ids(h.Committed()))
	assert.Equal(t, []string{"B"}, ids(h.RedoBuffer()))
	assert.Equal(t, []string{"A"}, ids(rep.last()))

	c := stroke("C", Tool{Kind: Pen, Color: "blue", Size: 3}, Point{1, 1})
	h.Commit(c)
	assert.Equal(t, []string{"A", "C"}, ids(h.Committed()))
	assert.Empty(t, h.RedoBuffer())
	assert.False(t, h.Redo())
}

func TestHistory_UndoMovesToFrontOfRedo(t *testing.T) {
	h := NewHistory(nil)
	for _, id := range []string{"1", "2", "3"} {
		h.Commit(stroke(id, Tool{Kind: Pen, Size: 1}, Point{}))
	}
	require.True(t, h.Undo())
	require.True(t, h.Undo())
	assert.Equal(t, []string{"2", "3"}, ids(h.RedoBuffer()))

	require.True(t, h.Redo())
	assert.Equal(t, []string{"1", "2"}, ids(h.Committed()))
	assert.Equal(t, []string{"3"}, ids(h.RedoBuffer()))
}

func TestHistory_EmptyUndoRedoAreNoops(t *testing.T) {
	rep := &recordingReplayer{}
	h := NewHistory(rep)

	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.False(t, h.Undo())
	assert.False(t, h.Redo())
	assert.Empty(t, rep.calls, "no replay for a no-op")
}

func TestHistory_Clear(t *testing.T) {
	rep := &recordingReplayer{}
	h := NewHistory(rep)
	for i := 0; i < 5; i++ {
		h.Commit(stroke(string(rune('a'+i)), Tool{Kind: Pen, Size: 2}, Point{X: float64(i)}))
	}
	h.Undo()

	h.Clear()
	assert.Empty(t, h.Committed())
	assert.Empty(t, h.RedoBuffer())
	assert.Empty(t, rep.last())
	assert.False(t, h.Undo())
}

func TestHistory_UndoAllRedoAllRestoresOrder(t *testing.T) {
	h := NewHistory(nil)
	want := []string{"a", "b", "c", "d"}
	for _, id := range want {
		h.Commit(stroke(id, Tool{Kind: Pen, Size: 2}, Point{}))
	}
	for range want {
		require.True(t, h.Undo())
	}
	for range want {
		require.True(t, h.Redo())
	}
	assert.Equal(t, want, ids(h.Committed()))
}

func TestHistory_CommittedIsACopy(t *testing.T) {
	h := NewHistory(nil)
	h.Commit(stroke("a", Tool{Kind: Pen, Size: 2}, Point{1, 1}))

	got := h.Committed()
	got[0].Points[0] = Point{99, 99}
	assert.Equal(t, Point{1, 1}, h.Committed()[0].Points[0])
}

func TestHistory_Reset(t *testing.T) {
	rep := &recordingReplayer{}
	h := NewHistory(rep)
	h.Commit(stroke("old", Tool{Kind: Pen, Size: 2}, Point{}))
	h.Undo()

	h.Reset([]Stroke{stroke("x", Tool{Kind: Pen, Size: 2}, Point{}), stroke("y", Tool{Kind: Pen, Size: 2}, Point{})})
	assert.Equal(t, []string{"x", "y"}, ids(h.Committed()))
	assert.Empty(t, h.RedoBuffer())
	assert.Equal(t, []string{"x", "y"}, ids(rep.last()))
}
