package board

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DecodingDen/internal/audio"
	"DecodingDen/internal/state"
)

type cueLog struct {
	mu    sync.Mutex
	cues  []audio.Cue
	stops int
}

func (c *cueLog) Trigger(cue audio.Cue, _ state.Tool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cues = append(c.cues, cue)
}

func (c *cueLog) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
}

func newTestBoard(t *testing.T, opts ...Option) (*Board, *cueLog) {
	t.Helper()
	cues := &cueLog{}
	opts = append([]Option{WithSounds(cues), WithSeed(1), WithClock(func() time.Time { return time.Unix(100, 0) })}, opts...)
	return New(200, 150, opts...), cues
}

func gesture(b *Board, pts ...state.Point) {
	b.PointerDown(pts[0])
	for _, p := range pts[1:] {
		b.PointerMove(p)
	}
	b.PointerUp()
}

func strokeIDs(strokes []state.Stroke) []string {
	out := make([]string, len(strokes))
	for i, s := range strokes {
		out[i] = s.ID
	}
	return out
}

func TestBoard_UndoCommitScenario(t *testing.T) {
	b, _ := newTestBoard(t)

	b.SetColor("red")
	b.SetSize(5)
	gesture(b, state.Point{X: 20, Y: 20}, state.Point{X: 60, Y: 40}, state.Point{X: 100, Y: 20})
	onlyA := b.Image()

	b.SelectKind(state.Eraser)
	b.SetSize(10)
	gesture(b, state.Point{X: 50, Y: 20}, state.Point{X: 70, Y: 45})

	strokes := b.Strokes()
	require.Len(t, strokes, 2)
	a, eraser := strokes[0], strokes[1]
	assert.Equal(t, state.Tool{Kind: state.Pen, Color: "red", Size: 5}, a.Tool)
	assert.Len(t, a.Points, 3)
	assert.Equal(t, state.Eraser, eraser.Tool.Kind)
	assert.NotEqual(t, onlyA.Pix, b.Image().Pix, "eraser changed the bitmap")

	require.True(t, b.Undo())
	assert.Equal(t, []string{a.ID}, strokeIDs(b.Strokes()))
	assert.Equal(t, onlyA.Pix, b.Image().Pix, "canvas shows only A")
	assert.True(t, b.CanRedo())

	b.SelectKind(state.Pen)
	gesture(b, state.Point{X: 10, Y: 100})
	assert.Len(t, b.Strokes(), 2)
	assert.False(t, b.CanRedo(), "new stroke discards the redo buffer")
	assert.False(t, b.Redo())
}

func TestBoard_ClearThenUndoIsNoop(t *testing.T) {
	b, cues := newTestBoard(t)
	for i := 0; i < 5; i++ {
		gesture(b, state.Point{X: float64(10 + i*20), Y: 10}, state.Point{X: float64(15 + i*20), Y: 60})
	}
	b.Clear()

	assert.Empty(t, b.Strokes())
	assert.False(t, b.CanUndo())
	assert.False(t, b.CanRedo())
	assert.False(t, b.Undo())
	for _, v := range b.Image().Pix {
		require.Equal(t, uint8(255), v)
	}
	assert.Contains(t, cues.cues, audio.CueClear)
	assert.Equal(t, 1, cues.stops)
}

func TestBoard_PointerLeaveSealsStroke(t *testing.T) {
	b, _ := newTestBoard(t)
	b.PointerDown(state.Point{X: 5, Y: 5})
	b.PointerMove(state.Point{X: 40, Y: 40})
	assert.True(t, b.Drawing())

	b.PointerLeave()
	assert.False(t, b.Drawing())
	require.Len(t, b.Strokes(), 1)
	assert.Len(t, b.Strokes()[0].Points, 2)

	b.PointerUp()
	assert.Len(t, b.Strokes(), 1, "a late pointer-up does not commit twice")
}

func TestBoard_MoveWithoutDownIsIgnored(t *testing.T) {
	b, _ := newTestBoard(t)
	b.PointerMove(state.Point{X: 1, Y: 1})
	b.PointerUp()
	assert.Empty(t, b.Strokes())
}

func TestBoard_TapLeavesMark(t *testing.T) {
	b, _ := newTestBoard(t)
	blank := b.Image()
	gesture(b, state.Point{X: 30, Y: 30})
	assert.NotEqual(t, blank.Pix, b.Image().Pix)
}

func TestBoard_UndoAllRedoAll(t *testing.T) {
	b, _ := newTestBoard(t)
	effects := append([]state.Effect{state.EffectNone}, state.Effects...)
	for i, e := range effects {
		b.SetEffect(e)
		y := float64(10 + i*15)
		gesture(b, state.Point{X: 10, Y: y}, state.Point{X: 80, Y: y + 5}, state.Point{X: 150, Y: y})
	}
	original := b.Image()

	for range effects {
		require.True(t, b.Undo())
	}
	for range effects {
		require.True(t, b.Redo())
	}
	assert.True(t, bytes.Equal(original.Pix, b.Image().Pix))
}

func TestBoard_SoundCues(t *testing.T) {
	b, cues := newTestBoard(t)
	gesture(b, state.Point{X: 1, Y: 1})
	b.SelectKind(state.Eraser)
	gesture(b, state.Point{X: 1, Y: 1})
	b.Saved()

	assert.Equal(t, []audio.Cue{
		audio.CueDrawStart,
		audio.CueToolSelect,
		audio.CueEraserStart,
		audio.CueEraserStop,
		audio.CueSave,
	}, cues.cues)
}

func TestBoard_OnChangeRevisions(t *testing.T) {
	b, _ := newTestBoard(t)
	var revs []uint64
	b.OnChange(func(s state.Snapshot) { revs = append(revs, s.Revision) })

	gesture(b, state.Point{X: 1, Y: 1})
	b.Undo()
	b.Undo()
	b.Redo()

	assert.Equal(t, []uint64{1, 2, 3}, revs, "no-op undo publishes nothing")
}

func TestBoard_MirrorLoadsSnapshot(t *testing.T) {
	host, _ := newTestBoard(t)
	gesture(host, state.Point{X: 10, Y: 10}, state.Point{X: 90, Y: 90})

	viewer, _ := newTestBoard(t)
	viewer.Mirror(host.Snapshot())
	assert.Equal(t, host.Image().Pix, viewer.Image().Pix)
	assert.False(t, viewer.CanRedo())
}

func TestBoard_ConcurrentSnapshotReads(t *testing.T) {
	b, _ := newTestBoard(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = b.Snapshot()
			_ = b.EncodePNG(&bytes.Buffer{})
		}
	}()
	for i := 0; i < 50; i++ {
		gesture(b, state.Point{X: float64(i), Y: 5}, state.Point{X: float64(i + 5), Y: 50})
	}
	<-done
	assert.Len(t, b.Strokes(), 50)
}

func TestBoard_RestoreIsSilent(t *testing.T) {
	b, cues := newTestBoard(t)
	b.Restore("blue", 200, state.EffectNeon)

	assert.Equal(t, state.Tool{Kind: state.Pen, Color: "blue", Size: state.MaxSize, Effect: state.EffectNeon}, b.Tool())
	assert.Empty(t, cues.cues)
}
