package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolState_EraserPreservesColourAndEffect(t *testing.T) {
	ts := NewToolState()
	ts.SetColor("#ff0000")
	ts.SetEffect(EffectGlitter)

	cur := ts.SelectKind(Eraser)
	assert.Equal(t, Eraser, cur.Kind)
	assert.Empty(t, cur.Color)
	assert.Equal(t, EffectNone, cur.Effect)

	stored := ts.Stored()
	assert.Equal(t, "#ff0000", stored.Color)
	assert.Equal(t, EffectGlitter, stored.Effect)

	back := ts.SelectKind(Pen)
	assert.Equal(t, "#ff0000", back.Color)
	assert.Equal(t, EffectGlitter, back.Effect)
}

func TestToolState_SetColorKeepsEffect(t *testing.T) {
	ts := NewToolState()
	ts.SetEffect(EffectNeon)
	cur := ts.SetColor("blue")
	assert.Equal(t, EffectNeon, cur.Effect)
	assert.Equal(t, "blue", cur.Color)
}

func TestToolState_AtomicUpdate(t *testing.T) {
	ts := NewToolState()
	kind := Highlighter
	color := "yellow"
	size := 500
	cur := ts.Update(ToolUpdate{Kind: &kind, Color: &color, Size: &size})

	assert.Equal(t, Tool{Kind: Highlighter, Color: "yellow", Size: MaxSize}, cur)
}

func TestToolState_HighlighterDropsEffect(t *testing.T) {
	ts := NewToolState()
	ts.SetEffect(EffectFire)
	cur := ts.SelectKind(Highlighter)
	assert.Equal(t, EffectNone, cur.Effect)
	assert.Equal(t, EffectFire, ts.Stored().Effect)
}

func TestRecorder_Lifecycle(t *testing.T) {
	var r Recorder
	assert.False(t, r.Recording())

	_, ok := r.Append(Point{1, 1})
	assert.False(t, ok, "append while idle is ignored")

	tool := Tool{Kind: Pen, Color: "red", Size: 4}
	s, dangling := r.Begin(tool, Point{1, 2}, 42, time.Unix(10, 0))
	assert.Nil(t, dangling)
	assert.True(t, r.Recording())
	assert.Equal(t, []Point{{1, 2}}, s.Points)
	assert.NotEmpty(t, s.ID)

	prev, ok := r.Append(Point{3, 4})
	require.True(t, ok)
	assert.Equal(t, Point{1, 2}, prev)

	sealed, ok := r.Seal()
	require.True(t, ok)
	assert.Equal(t, []Point{{1, 2}, {3, 4}}, sealed.Points)
	assert.Equal(t, int64(42), sealed.Seed)
	assert.Equal(t, tool, sealed.Tool)
	assert.False(t, r.Recording())

	_, ok = r.Seal()
	assert.False(t, ok, "sealing twice is a no-op")
}

func TestRecorder_BeginWhileRecordingSealsPrevious(t *testing.T) {
	var r Recorder
	r.Begin(Tool{Kind: Pen, Size: 1}, Point{0, 0}, 1, time.Now())
	r.Append(Point{1, 1})

	_, dangling := r.Begin(Tool{Kind: Pen, Size: 1}, Point{5, 5}, 2, time.Now())
	require.NotNil(t, dangling)
	assert.Len(t, dangling.Points, 2)
}

func TestStroke_Bounds(t *testing.T) {
	s := Stroke{Points: []Point{{10, 20}, {5, 40}, {30, 25}}}
	assert.Equal(t, Bounds{MinX: 3, MinY: 18, MaxX: 32, MaxY: 42}, s.Bounds(2))
}

func TestDecodeStrokes(t *testing.T) {
	in := []Stroke{{
		ID:     "a",
		Tool:   Tool{Kind: Eraser, Color: "red", Size: 9, Effect: EffectFire},
		Points: []Point{{1, 1}},
	}}
	data, err := EncodeStrokes(in)
	require.NoError(t, err)

	out, err := DecodeStrokes(data)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, Tool{Kind: Eraser, Size: 9}, out[0].Tool)

	_, err = DecodeStrokes([]byte(`[{"id":"x","tool":{"kind":"pen","size":2},"points":[]}]`))
	assert.Error(t, err)
}

func TestMirror_DropsStaleSnapshots(t *testing.T) {
	var m Mirror
	assert.True(t, m.Apply(Snapshot{Site: "host", Revision: 0}))
	assert.True(t, m.Apply(Snapshot{Site: "host", Revision: 3}))
	assert.False(t, m.Apply(Snapshot{Site: "host", Revision: 3}))
	assert.False(t, m.Apply(Snapshot{Site: "host", Revision: 2}))
	assert.True(t, m.Apply(Snapshot{Site: "other", Revision: 1}), "new host resets")
	assert.Equal(t, uint64(1), m.Revision())
}

func TestClock(t *testing.T) {
	c := NewClock()
	assert.NotEmpty(t, c.Site())
	assert.Equal(t, uint64(1), c.Tick())
	c.Observe(10)
	assert.Equal(t, uint64(11), c.Tick())
	c.Observe(4)
	assert.Equal(t, uint64(11), c.Now())
}
