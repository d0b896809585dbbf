package queue

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewgepearce/pymus/internal/domain/track"
)

func tracks(paths ...string) []track.Track {
	out := make([]track.Track, len(paths))
	for i, p := range paths {
		out[i] = track.New(p)
	}
	return out
}

func currentPath(t *testing.T, q *Queue) string {
	t.Helper()
	cur, ok := q.CurrentTrack()
	require.True(t, ok, "expected a current track")
	return cur.Path
}

func TestQueue_Append(t *testing.T) {
	q := New()
	q.Append(tracks("a", "b")...)

	assert.Equal(t, 2, q.Len())
	_, ok := q.Current()
	assert.False(t, ok, "append must not set the current index")

	q.AppendAndSelect(track.New("c"))
	q.Append(track.New("d"))

	idx, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, 2, idx, "append must not move the current index")
	assert.Equal(t, "c", currentPath(t, q))
}

func TestQueue_Replace(t *testing.T) {
	q := New()
	q.Append(tracks("a", "b")...)
	q.AppendAndSelect(track.New("c"))

	q.Replace(tracks("x", "y"))
	idx, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "x", currentPath(t, q))

	q.Replace(nil)
	assert.True(t, q.IsEmpty())
	_, ok = q.Current()
	assert.False(t, ok)
}

func TestQueue_Remove(t *testing.T) {
	tests := []struct {
		name           string
		remove         int
		wantCurrent    string // "" means absent
		wantRemovedCur bool
		wantPaths      []string
	}{
		{
			name:        "before current shifts the index down",
			remove:      0,
			wantCurrent: "b",
			wantPaths:   []string{"b", "c"},
		},
		{
			name:           "current clears the index",
			remove:         1,
			wantRemovedCur: true,
			wantPaths:      []string{"a", "c"},
		},
		{
			name:        "after current leaves the index alone",
			remove:      2,
			wantCurrent: "b",
			wantPaths:   []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New()
			q.Replace(tracks("a", "b", "c"))
			_, err := q.Select(1)
			require.NoError(t, err)

			removedCur, err := q.Remove(tt.remove)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemovedCur, removedCur)

			var paths []string
			for _, tr := range q.Tracks() {
				paths = append(paths, tr.Path)
			}
			assert.Equal(t, tt.wantPaths, paths)

			if tt.wantCurrent == "" {
				_, ok := q.Current()
				assert.False(t, ok)
			} else {
				assert.Equal(t, tt.wantCurrent, currentPath(t, q))
			}
		})
	}
}

func TestQueue_RemoveOutOfRange(t *testing.T) {
	q := New()
	q.Append(tracks("a")...)

	_, err := q.Remove(1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = q.Remove(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestQueue_Move(t *testing.T) {
	q := New()
	q.Replace(tracks("a", "b", "c"))
	_, err := q.Select(1)
	require.NoError(t, err)

	// Current track moves with the swap.
	require.NoError(t, q.MoveUp(1))
	idx, _ := q.Current()
	assert.Equal(t, 0, idx)
	assert.Equal(t, "b", currentPath(t, q))

	// Boundary no-ops.
	require.NoError(t, q.MoveUp(0))
	require.NoError(t, q.MoveDown(2))
	assert.Equal(t, "b", q.Tracks()[0].Path)
	assert.Equal(t, "c", q.Tracks()[2].Path)

	// Swapping a neighbor into the current slot tracks the current too.
	require.NoError(t, q.MoveDown(0))
	assert.Equal(t, "b", currentPath(t, q))
	idx, _ = q.Current()
	assert.Equal(t, 1, idx)

	assert.ErrorIs(t, q.MoveUp(5), ErrOutOfRange)
	assert.ErrorIs(t, q.MoveDown(-1), ErrOutOfRange)
}

func TestQueue_AdvanceExhaustsAtEnd(t *testing.T) {
	q := New()
	q.Replace(tracks("a", "b", "c"))
	_, err := q.Select(2)
	require.NoError(t, err)

	_, ok := q.Advance()
	assert.False(t, ok, "advancing past the last track exhausts the queue")
	_, ok = q.Current()
	assert.False(t, ok)

	// Repeated advance on an exhausted queue stays exhausted.
	_, ok = q.Advance()
	assert.False(t, ok)
}

func TestQueue_Advance(t *testing.T) {
	q := New()
	q.Replace(tracks("a", "b"))

	next, ok := q.Advance()
	require.True(t, ok)
	assert.Equal(t, "b", next.Path)
}

func TestQueue_PreviousAtZeroKeepsIndex(t *testing.T) {
	q := New()
	q.Replace(tracks("a", "b"))

	prev, ok := q.Previous()
	require.True(t, ok)
	assert.Equal(t, "a", prev.Path)
	idx, _ := q.Current()
	assert.Equal(t, 0, idx, "previous at index 0 must not move the index")
}

func TestQueue_PreviousWithoutCurrent(t *testing.T) {
	q := New()
	q.Append(tracks("a")...)

	_, ok := q.Previous()
	assert.False(t, ok)
}

func TestQueue_Clear(t *testing.T) {
	q := New()
	q.Replace(tracks("a", "b"))
	q.Clear()

	assert.True(t, q.IsEmpty())
	_, ok := q.Current()
	assert.False(t, ok)
}

func TestQueue_Select(t *testing.T) {
	q := New()
	q.Append(tracks("a", "b")...)

	sel, err := q.Select(1)
	require.NoError(t, err)
	assert.Equal(t, "b", sel.Path)

	_, err = q.Select(2)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

// TestQueue_CurrentTracksSameLogicalTrack drives randomized operation
// sequences against a reference model and checks that the current index
// keeps referencing the same logical track unless that track itself was
// removed or the queue emptied.
func TestQueue_CurrentTracksSameLogicalTrack(t *testing.T) {
	rng := rand.New(rand.NewSource(19))

	for run := 0; run < 100; run++ {
		q := New()
		var model []string // paths, mirroring q.tracks
		currentPath := ""  // "" means absent
		serial := 0

		newPath := func() string {
			serial++
			return fmt.Sprintf("track-%03d.mp3", serial)
		}

		for step := 0; step < 200; step++ {
			switch op := rng.Intn(6); op {
			case 0: // Append
				p := newPath()
				q.Append(track.New(p))
				model = append(model, p)
			case 1: // AppendAndSelect
				p := newPath()
				q.AppendAndSelect(track.New(p))
				model = append(model, p)
				currentPath = p
			case 2: // Remove
				if len(model) == 0 {
					continue
				}
				i := rng.Intn(len(model))
				removedCur, err := q.Remove(i)
				require.NoError(t, err)
				if model[i] == currentPath {
					require.True(t, removedCur)
					currentPath = ""
				}
				model = append(model[:i], model[i+1:]...)
			case 3: // MoveUp
				if len(model) == 0 {
					continue
				}
				i := rng.Intn(len(model))
				require.NoError(t, q.MoveUp(i))
				if i > 0 {
					model[i-1], model[i] = model[i], model[i-1]
				}
			case 4: // MoveDown
				if len(model) == 0 {
					continue
				}
				i := rng.Intn(len(model))
				require.NoError(t, q.MoveDown(i))
				if i < len(model)-1 {
					model[i], model[i+1] = model[i+1], model[i]
				}
			case 5: // Select
				if len(model) == 0 {
					continue
				}
				i := rng.Intn(len(model))
				_, err := q.Select(i)
				require.NoError(t, err)
				currentPath = model[i]
			}

			// The queue mirrors the model exactly.
			var got []string
			for _, tr := range q.Tracks() {
				got = append(got, tr.Path)
			}
			require.Equal(t, model, got, "run %d step %d", run, step)

			// The current index still points at the same logical track.
			idx, ok := q.Current()
			if currentPath == "" {
				require.False(t, ok, "run %d step %d: expected no current", run, step)
			} else {
				require.True(t, ok, "run %d step %d: expected a current", run, step)
				require.Equal(t, currentPath, model[idx], "run %d step %d", run, step)
			}
		}
	}
}
