package state

import "sync"

// Snapshot is the full committed stroke list of a board at one revision.
type Snapshot struct {
	Site     string   `json:"site"`
	Revision uint64   `json:"revision"`
	Strokes  []Stroke `json:"strokes"`
}

// Mirror tracks snapshots received from a host so that stale or duplicate
// broadcasts are ignored.
type Mirror struct {
	mu   sync.Mutex
	site string
	last uint64
	seen bool
}

// Apply reports whether snap is newer than anything applied so far.
// A snapshot from a different site resets the mirror.
func (m *Mirror) Apply(snap Snapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if snap.Site != m.site {
		m.site = snap.Site
		m.seen = false
	}
	if m.seen && snap.Revision <= m.last {
		return false
	}
	m.last = snap.Revision
	m.seen = true
	return true
}

// Revision returns the last applied revision.
func (m *Mirror) Revision() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
