package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type memPrefs struct {
	values map[string]any
	writes int
}

func newMemPrefs() *memPrefs { return &memPrefs{values: map[string]any{}} }

func (m *memPrefs) BoolWithFallback(k string, fb bool) bool {
	if v, ok := m.values[k].(bool); ok {
		return v
	}
	return fb
}
func (m *memPrefs) SetBool(k string, v bool) { m.values[k] = v; m.writes++ }
func (m *memPrefs) IntWithFallback(k string, fb int) int {
	if v, ok := m.values[k].(int); ok {
		return v
	}
	return fb
}
func (m *memPrefs) SetInt(k string, v int) { m.values[k] = v; m.writes++ }
func (m *memPrefs) StringWithFallback(k, fb string) string {
	if v, ok := m.values[k].(string); ok {
		return v
	}
	return fb
}
func (m *memPrefs) SetString(k, v string) { m.values[k] = v; m.writes++ }

func TestLoad_Defaults(t *testing.T) {
	assert.Equal(t, Defaults(), Load(newMemPrefs()))
}

func TestManager_UpdatePersistsAndNotifies(t *testing.T) {
	prefs := newMemPrefs()
	m := NewManager(prefs)

	var seen []Settings
	m.Subscribe(func(s Settings) { seen = append(seen, s) })

	m.Update(func(s *Settings) { s.SoundEnabled = false; s.Mascot = "fox" })

	assert.False(t, m.Get().SoundEnabled)
	assert.Len(t, seen, 1)
	assert.Equal(t, "fox", seen[0].Mascot)

	reloaded := Load(prefs)
	assert.False(t, reloaded.SoundEnabled)
	assert.Equal(t, "fox", reloaded.Mascot)
}

func TestManager_NoopUpdateSkipsWrite(t *testing.T) {
	prefs := newMemPrefs()
	m := NewManager(prefs)
	calls := 0
	m.Subscribe(func(Settings) { calls++ })

	m.Update(func(s *Settings) {})
	assert.Zero(t, prefs.writes)
	assert.Zero(t, calls)
}
