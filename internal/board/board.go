// Package board is the whiteboard page: it ties pointer input, the selected
// tool, stroke history, the canvas bitmap and sound cues together.
package board

import (
	"image"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"DecodingDen/internal/audio"
	"DecodingDen/internal/render"
	"DecodingDen/internal/state"
)

// Sounds receives cue triggers. *audio.Feedback implements it.
type Sounds interface {
	Trigger(cue audio.Cue, tool state.Tool)
	Stop()
}

type silent struct{}

func (silent) Trigger(audio.Cue, state.Tool) {}
func (silent) Stop()                         {}

// Board owns the canvas. Pointer methods are called from the UI goroutine;
// readers such as the share server may call the snapshot methods from others.
type Board struct {
	mu       sync.RWMutex
	tools    *state.ToolState
	recorder state.Recorder
	history  *state.History
	canvas   *render.Canvas
	painter  *render.Painter
	clock    *state.Clock
	sounds   Sounds
	rng      *rand.Rand
	now      func() time.Time
	log      zerolog.Logger

	listenMu  sync.Mutex
	listeners []func(state.Snapshot)
}

type Option func(*Board)

func WithSounds(s Sounds) Option {
	return func(b *Board) {
		if s != nil {
			b.sounds = s
		}
	}
}

// WithSeed fixes the source of per-stroke effect seeds.
func WithSeed(seed int64) Option {
	return func(b *Board) { b.rng = rand.New(rand.NewSource(seed)) }
}

func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(b *Board) { b.log = l.With().Str("component", "board").Logger() }
}

func New(width, height int, opts ...Option) *Board {
	b := &Board{
		tools:  state.NewToolState(),
		canvas: render.NewCanvas(width, height),
		clock:  state.NewClock(),
		sounds: silent{},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
		log:    zerolog.Nop(),
	}
	b.history = state.NewHistory(b.canvas)
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Board) Size() (int, int) { return b.canvas.Size() }

func (b *Board) Mapper() render.Mapper { return b.canvas.Mapper() }

// PointerDown opens a stroke with the current tool and draws its first point.
func (b *Board) PointerDown(p state.Point) {
	b.mu.Lock()
	tool := b.tools.Current()
	s, dangling := b.recorder.Begin(tool, p, b.rng.Int63(), b.now())
	if dangling != nil {
		b.history.Commit(*dangling)
		b.log.Warn().Str("stroke", dangling.ID).Msg("sealed stroke left open by a lost pointer-up")
	}
	b.painter = b.canvas.Begin(s)
	b.mu.Unlock()

	if tool.Kind == state.Eraser {
		b.sounds.Trigger(audio.CueEraserStart, tool)
	} else {
		b.sounds.Trigger(audio.CueDrawStart, tool)
	}
	if dangling != nil {
		b.changed()
	}
}

// PointerMove extends the open stroke. Moves without a stroke are ignored.
func (b *Board) PointerMove(p state.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	prev, ok := b.recorder.Append(p)
	if !ok {
		return
	}
	b.painter.Step(prev, p)
}

// PointerUp seals the open stroke and commits it.
func (b *Board) PointerUp() {
	b.seal()
}

// PointerLeave seals the stroke the same way PointerUp does, so a gesture
// that leaves the canvas is never lost.
func (b *Board) PointerLeave() {
	b.seal()
}

func (b *Board) seal() {
	b.mu.Lock()
	s, ok := b.recorder.Seal()
	if !ok {
		b.mu.Unlock()
		return
	}
	b.history.Commit(s)
	b.painter = nil
	b.mu.Unlock()

	if s.Tool.Kind == state.Eraser {
		b.sounds.Trigger(audio.CueEraserStop, s.Tool)
	}
	b.log.Debug().Str("stroke", s.ID).Int("points", len(s.Points)).Str("tool", string(s.Tool.Kind)).Msg("stroke committed")
	b.changed()
}

func (b *Board) Drawing() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.recorder.Recording()
}

// Undo reports false when there is nothing to undo.
func (b *Board) Undo() bool {
	b.mu.Lock()
	b.sealLocked()
	ok := b.history.Undo()
	b.mu.Unlock()
	if ok {
		b.changed()
	}
	return ok
}

func (b *Board) Redo() bool {
	b.mu.Lock()
	b.sealLocked()
	ok := b.history.Redo()
	b.mu.Unlock()
	if ok {
		b.changed()
	}
	return ok
}

func (b *Board) CanUndo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.history.CanUndo()
}

func (b *Board) CanRedo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.history.CanRedo()
}

// Clear empties the history and blanks the canvas.
func (b *Board) Clear() {
	b.mu.Lock()
	b.recorder.Seal()
	b.painter = nil
	b.history.Clear()
	tool := b.tools.Current()
	b.mu.Unlock()

	b.sounds.Stop()
	b.sounds.Trigger(audio.CueClear, tool)
	b.changed()
}

// Load replaces the board with strokes, e.g. from a saved file.
func (b *Board) Load(strokes []state.Stroke) {
	b.mu.Lock()
	b.recorder.Seal()
	b.painter = nil
	b.history.Reset(strokes)
	b.mu.Unlock()
	b.changed()
}

// Mirror applies a snapshot received from a sharing host.
func (b *Board) Mirror(snap state.Snapshot) {
	b.clock.Observe(snap.Revision)
	b.Load(snap.Strokes)
}

// Saved plays the save cue once the caller has written the board somewhere.
func (b *Board) Saved() {
	b.sounds.Trigger(audio.CueSave, b.tools.Current())
}

func (b *Board) Strokes() []state.Stroke {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.history.Committed()
}

func (b *Board) Snapshot() state.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return state.Snapshot{Site: b.clock.Site(), Revision: b.clock.Now(), Strokes: b.history.Committed()}
}

// Image returns the visible bitmap, including any stroke in progress.
func (b *Board) Image() *image.RGBA {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.canvas.Image()
}

func (b *Board) EncodePNG(w io.Writer) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.canvas.EncodePNG(w)
}

// Tool returns the tool the next stroke will use.
func (b *Board) Tool() state.Tool { return b.tools.Current() }

// StoredTool includes the colour and effect remembered under the eraser.
func (b *Board) StoredTool() state.Tool { return b.tools.Stored() }

func (b *Board) SelectKind(k state.ToolKind) { b.toolChanged(b.tools.SelectKind(k)) }
func (b *Board) SetColor(c string)           { b.toolChanged(b.tools.SetColor(c)) }
func (b *Board) SetEffect(e state.Effect)    { b.toolChanged(b.tools.SetEffect(e)) }

// Restore sets the pen from saved preferences without a sound cue.
func (b *Board) Restore(color string, size int, effect state.Effect) {
	b.tools.Update(state.ToolUpdate{Color: &color, Size: &size, Effect: &effect})
}

// SetSize changes the brush width without a sound; it is driven by a slider.
func (b *Board) SetSize(s int) { b.tools.SetSize(s) }

func (b *Board) toolChanged(t state.Tool) {
	b.sounds.Trigger(audio.CueToolSelect, t)
}

// OnChange registers fn to receive a snapshot after every committed change.
func (b *Board) OnChange(fn func(state.Snapshot)) {
	b.listenMu.Lock()
	defer b.listenMu.Unlock()
	b.listeners = append(b.listeners, fn)
}

func (b *Board) sealLocked() {
	if s, ok := b.recorder.Seal(); ok {
		b.history.Commit(s)
		b.painter = nil
	}
}

func (b *Board) changed() {
	b.clock.Tick()
	snap := b.Snapshot()
	b.listenMu.Lock()
	listeners := append([]func(state.Snapshot){}, b.listeners...)
	b.listenMu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}
