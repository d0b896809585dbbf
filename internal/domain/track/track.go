// Package track provides the Track domain entity.
package track

import "path/filepath"

// Metadata holds display tags read from an audio file.
// Any field may be empty when the corresponding tag is missing.
type Metadata struct {
	Artist string
	Title  string
	Album  string
}

// Track represents an audio file eligible for queuing and playback.
// Immutable once created; two tracks are the same track iff their paths
// are equal.
type Track struct {
	Path string    // Path to the audio file
	Meta *Metadata // Cached display metadata (nil when not loaded or unavailable)
}

// New creates a Track for the given path.
func New(path string) Track {
	return Track{Path: path}
}

// Name returns the base filename of the track.
func (t Track) Name() string {
	return filepath.Base(t.Path)
}

// Display returns the human-readable label for the track:
// "Artist - Title" when both tags are known, the title alone when only
// the title is known, and the base filename otherwise.
func (t Track) Display() string {
	if t.Meta == nil {
		return t.Name()
	}
	switch {
	case t.Meta.Artist != "" && t.Meta.Title != "":
		return t.Meta.Artist + " - " + t.Meta.Title
	case t.Meta.Title != "":
		return t.Meta.Title
	default:
		return t.Name()
	}
}

// Equal reports whether both tracks reference the same file.
func (t Track) Equal(other Track) bool {
	return t.Path == other.Path
}
