package settings

import "sync"

// Preferences is the persistent key/value store settings live in.
// fyne.Preferences satisfies it.
type Preferences interface {
	BoolWithFallback(key string, fallback bool) bool
	SetBool(key string, value bool)
	IntWithFallback(key string, fallback int) int
	SetInt(key string, value int)
	StringWithFallback(key, fallback string) string
	SetString(key string, value string)
}

const (
	keyMascot = "mascot"
	keySound  = "soundEnabled"
	keyColor  = "tool.color"
	keySize   = "tool.size"
	keyEffect = "tool.effect"
)

// Mascots lists the selectable companion characters.
var Mascots = []string{"owl", "fox", "bear", "dragon"}

// Settings are user preferences shared by every view.
type Settings struct {
	Mascot       string
	SoundEnabled bool
	Color        string
	Size         int
	Effect       string
}

func Defaults() Settings {
	return Settings{Mascot: Mascots[0], SoundEnabled: true, Color: "black", Size: 5}
}

func Load(p Preferences) Settings {
	d := Defaults()
	return Settings{
		Mascot:       p.StringWithFallback(keyMascot, d.Mascot),
		SoundEnabled: p.BoolWithFallback(keySound, d.SoundEnabled),
		Color:        p.StringWithFallback(keyColor, d.Color),
		Size:         p.IntWithFallback(keySize, d.Size),
		Effect:       p.StringWithFallback(keyEffect, d.Effect),
	}
}

func (s Settings) Save(p Preferences) {
	p.SetString(keyMascot, s.Mascot)
	p.SetBool(keySound, s.SoundEnabled)
	p.SetString(keyColor, s.Color)
	p.SetInt(keySize, s.Size)
	p.SetString(keyEffect, s.Effect)
}

// Manager loads settings once and saves them whenever they change.
type Manager struct {
	mu        sync.Mutex
	prefs     Preferences
	current   Settings
	listeners []func(Settings)
}

func NewManager(p Preferences) *Manager {
	return &Manager{prefs: p, current: Load(p)}
}

func (m *Manager) Get() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Update applies fn, persists the result and notifies subscribers.
// Nothing is written when fn leaves the settings unchanged.
func (m *Manager) Update(fn func(*Settings)) Settings {
	m.mu.Lock()
	next := m.current
	fn(&next)
	if next == m.current {
		m.mu.Unlock()
		return next
	}
	m.current = next
	next.Save(m.prefs)
	listeners := append([]func(Settings){}, m.listeners...)
	m.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next
}

func (m *Manager) Subscribe(fn func(Settings)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}
