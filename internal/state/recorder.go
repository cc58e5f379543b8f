package state

import (
	"time"

	"github.com/google/uuid"
)

// Recorder captures the points of the gesture in progress.
// It is Idle until Begin and returns to Idle on Seal.
type Recorder struct {
	open *Stroke
}

func (r *Recorder) Recording() bool { return r.open != nil }

// Begin opens a stroke with a snapshot of tool and its first point.
// A stroke still open from an earlier gesture is sealed and returned first.
func (r *Recorder) Begin(tool Tool, p Point, seed int64, now time.Time) (Stroke, *Stroke) {
	var dangling *Stroke
	if r.open != nil {
		s := r.open.Clone()
		dangling = &s
	}
	r.open = &Stroke{
		ID:        uuid.NewString(),
		Tool:      normalize(tool),
		Points:    []Point{p},
		Seed:      seed,
		CreatedAt: now,
	}
	return r.open.Clone(), dangling
}

// Append adds p to the open stroke and returns the previous point.
func (r *Recorder) Append(p Point) (prev Point, ok bool) {
	if r.open == nil {
		return Point{}, false
	}
	prev = r.open.Points[len(r.open.Points)-1]
	r.open.Points = append(r.open.Points, p)
	return prev, true
}

// Seal closes the open stroke. ok is false when nothing was recording.
func (r *Recorder) Seal() (Stroke, bool) {
	if r.open == nil {
		return Stroke{}, false
	}
	s := *r.open
	r.open = nil
	return s, true
}
