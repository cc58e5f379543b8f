package state

import "sync"

// ToolUpdate replaces the non-nil fields of the tool state in one step.
type ToolUpdate struct {
	Kind   *ToolKind
	Color  *string
	Size   *int
	Effect *Effect
}

// ToolState holds the selected tool. Colour and effect are remembered while
// the eraser is active so switching back to the pen restores them.
type ToolState struct {
	mu     sync.RWMutex
	kind   ToolKind
	color  string
	size   int
	effect Effect
}

func NewToolState() *ToolState {
	return &ToolState{kind: Pen, color: "black", size: 5}
}

// Current returns the tool that a stroke started now would capture.
func (t *ToolState) Current() Tool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return normalize(Tool{Kind: t.kind, Color: t.color, Size: t.size, Effect: t.effect})
}

// Stored returns the raw selection including colour and effect hidden by the eraser.
func (t *ToolState) Stored() Tool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Tool{Kind: t.kind, Color: t.color, Size: t.size, Effect: t.effect}
}

func (t *ToolState) Update(u ToolUpdate) Tool {
	t.mu.Lock()
	if u.Kind != nil {
		t.kind = *u.Kind
	}
	if u.Color != nil {
		t.color = *u.Color
	}
	if u.Size != nil {
		t.size = clampSize(*u.Size)
	}
	if u.Effect != nil {
		t.effect = *u.Effect
	}
	t.mu.Unlock()
	return t.Current()
}

func (t *ToolState) SelectKind(k ToolKind) Tool { return t.Update(ToolUpdate{Kind: &k}) }

// SetColor changes the colour and keeps the current effect.
func (t *ToolState) SetColor(c string) Tool { return t.Update(ToolUpdate{Color: &c}) }

// SetEffect changes the effect and keeps the current colour.
func (t *ToolState) SetEffect(e Effect) Tool { return t.Update(ToolUpdate{Effect: &e}) }

func (t *ToolState) SetSize(s int) Tool { return t.Update(ToolUpdate{Size: &s}) }

func clampSize(s int) int {
	if s < MinSize {
		return MinSize
	}
	if s > MaxSize {
		return MaxSize
	}
	return s
}

// normalize strips fields that have no meaning for the tool kind.
func normalize(t Tool) Tool {
	t.Size = clampSize(t.Size)
	switch t.Kind {
	case Eraser:
		t.Color = ""
		t.Effect = EffectNone
	case Highlighter:
		t.Effect = EffectNone
	case Pen:
	default:
		t.Kind = Pen
	}
	return t
}
