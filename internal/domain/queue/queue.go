// Package queue provides the play queue domain entity: an ordered list
// of tracks plus a pointer to the currently playing one.
package queue

import (
	"github.com/cockroachdb/errors"

	"github.com/andrewgepearce/pymus/internal/domain/track"
)

// ErrOutOfRange is returned when an index does not reference a queued
// track. It indicates a caller bug, not a user-facing condition.
var ErrOutOfRange = errors.New("queue index out of range")

const noCurrent = -1

// Queue is an ordered sequence of tracks with an optional current
// index. Duplicate paths are allowed. The current index is either
// absent or a valid index into the sequence; every mutating operation
// re-derives it so that it keeps referencing the same logical track.
type Queue struct {
	tracks  []track.Track
	current int
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{current: noCurrent}
}

// Append adds tracks to the end of the queue without changing the
// current index.
func (q *Queue) Append(ts ...track.Track) {
	q.tracks = append(q.tracks, ts...)
}

// AppendAndSelect appends a single track and points the current index
// at it. Returns the new index.
func (q *Queue) AppendAndSelect(t track.Track) int {
	q.tracks = append(q.tracks, t)
	q.current = len(q.tracks) - 1
	return q.current
}

// Replace swaps the entire queue contents for ts. The current index
// becomes 0, or absent when ts is empty.
func (q *Queue) Replace(ts []track.Track) {
	q.tracks = append([]track.Track(nil), ts...)
	if len(q.tracks) == 0 {
		q.current = noCurrent
		return
	}
	q.current = 0
}

// Remove deletes the track at index i. removedCurrent reports whether
// the removed track was the current one; the caller is then
// responsible for stopping playback.
func (q *Queue) Remove(i int) (removedCurrent bool, err error) {
	if i < 0 || i >= len(q.tracks) {
		return false, errors.Wrapf(ErrOutOfRange, "remove %d of %d", i, len(q.tracks))
	}

	switch {
	case i == q.current:
		q.current = noCurrent
		removedCurrent = true
	case q.current != noCurrent && i < q.current:
		q.current--
	}

	q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
	return removedCurrent, nil
}

// MoveUp swaps the track at index i with its predecessor. No-op at the
// top of the queue.
func (q *Queue) MoveUp(i int) error {
	if i < 0 || i >= len(q.tracks) {
		return errors.Wrapf(ErrOutOfRange, "move up %d of %d", i, len(q.tracks))
	}
	if i == 0 {
		return nil
	}
	q.swap(i-1, i)
	return nil
}

// MoveDown swaps the track at index i with its successor. No-op at the
// bottom of the queue.
func (q *Queue) MoveDown(i int) error {
	if i < 0 || i >= len(q.tracks) {
		return errors.Wrapf(ErrOutOfRange, "move down %d of %d", i, len(q.tracks))
	}
	if i == len(q.tracks)-1 {
		return nil
	}
	q.swap(i, i+1)
	return nil
}

func (q *Queue) swap(a, b int) {
	q.tracks[a], q.tracks[b] = q.tracks[b], q.tracks[a]
	switch q.current {
	case a:
		q.current = b
	case b:
		q.current = a
	}
}

// Clear empties the queue. The caller is responsible for stopping
// playback.
func (q *Queue) Clear() {
	q.tracks = nil
	q.current = noCurrent
}

// Advance moves the current index to the next track. On the last track
// (or with no current index) the index becomes absent and ok is false:
// the queue is exhausted.
func (q *Queue) Advance() (track.Track, bool) {
	if q.current == noCurrent || q.current+1 >= len(q.tracks) {
		q.current = noCurrent
		return track.Track{}, false
	}
	q.current++
	return q.tracks[q.current], true
}

// Previous moves the current index to the preceding track. At index 0
// the index stays put and the first track is returned again. With no
// current index ok is false.
func (q *Queue) Previous() (track.Track, bool) {
	if q.current == noCurrent {
		return track.Track{}, false
	}
	if q.current > 0 {
		q.current--
	}
	return q.tracks[q.current], true
}

// Select points the current index at i.
func (q *Queue) Select(i int) (track.Track, error) {
	if i < 0 || i >= len(q.tracks) {
		return track.Track{}, errors.Wrapf(ErrOutOfRange, "select %d of %d", i, len(q.tracks))
	}
	q.current = i
	return q.tracks[i], nil
}

// Current returns the current index, if any.
func (q *Queue) Current() (int, bool) {
	if q.current == noCurrent {
		return 0, false
	}
	return q.current, true
}

// CurrentTrack returns the current track, if any.
func (q *Queue) CurrentTrack() (track.Track, bool) {
	if q.current == noCurrent {
		return track.Track{}, false
	}
	return q.tracks[q.current], true
}

// Tracks returns a copy of the queued tracks.
func (q *Queue) Tracks() []track.Track {
	out := make([]track.Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty reports whether the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}
