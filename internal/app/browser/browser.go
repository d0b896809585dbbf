// Package browser provides filesystem navigation over the music
// library: current directory, sorted entries, selection cursor and an
// optional text filter.
package browser

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/andrewgepearce/pymus/internal/domain/track"
)

// Kind classifies a directory entry.
type Kind int

const (
	KindDir Kind = iota
	KindTrack
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindTrack:
		return "track"
	default:
		return "unknown"
	}
}

// Entry is a single node in the current directory listing. Entries are
// ephemeral and rebuilt whenever the active directory changes.
type Entry struct {
	Path string
	Name string
	Kind Kind
}

// Browser maintains the library cursor state.
type Browser struct {
	dir     string
	entries []Entry
	cursor  int
	filter  string
	exts    map[string]struct{}
}

// New creates a browser rooted at dir. Extensions decide which files
// are listed as tracks (e.g. ".mp3"); everything else is hidden.
func New(dir string, extensions []string) *Browser {
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}
	b := &Browser{dir: dir, exts: exts}
	b.reload()
	return b
}

// Dir returns the current directory.
func (b *Browser) Dir() string {
	return b.dir
}

// Filter returns the active filter pattern ("" when inactive).
func (b *Browser) Filter() string {
	return b.filter
}

// reload rebuilds the entry list for the current directory.
// Directories sort before tracks; both groups sort case-insensitively
// by name. Unreadable directories yield an empty list.
func (b *Browser) reload() {
	b.entries = listDir(b.dir, b.exts)
}

func listDir(dir string, exts map[string]struct{}) []Entry {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var dirs, files []Entry
	for _, de := range dirents {
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		if de.IsDir() {
			dirs = append(dirs, Entry{Path: path, Name: name, Kind: KindDir})
			continue
		}
		if _, ok := exts[strings.ToLower(filepath.Ext(name))]; ok {
			files = append(files, Entry{Path: path, Name: name, Kind: KindTrack})
		}
	}

	byName := func(es []Entry) {
		sort.SliceStable(es, func(i, j int) bool {
			return strings.ToLower(es[i].Name) < strings.ToLower(es[j].Name)
		})
	}
	byName(dirs)
	byName(files)

	return append(dirs, files...)
}

// Visible returns the entries matching the active filter: the
// subsequence of the current directory's entries whose name contains
// the pattern, case-insensitively.
func (b *Browser) Visible() []Entry {
	if b.filter == "" {
		return b.entries
	}
	pattern := strings.ToLower(b.filter)
	return lo.Filter(b.entries, func(e Entry, _ int) bool {
		return strings.Contains(strings.ToLower(e.Name), pattern)
	})
}

// Selected returns the entry under the cursor. ok is false when the
// visible list is empty.
func (b *Browser) Selected() (Entry, bool) {
	visible := b.Visible()
	if len(visible) == 0 {
		return Entry{}, false
	}
	return visible[b.cursor], true
}

// Cursor returns the cursor position within the visible list.
func (b *Browser) Cursor() int {
	return b.cursor
}

// Move shifts the cursor by delta, clamped to the visible list bounds.
// Page motion is Move(±pageSize).
func (b *Browser) Move(delta int) {
	b.cursor += delta
	b.clamp()
}

func (b *Browser) clamp() {
	n := len(b.Visible())
	if n == 0 {
		b.cursor = 0
		return
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	if b.cursor >= n {
		b.cursor = n - 1
	}
}

// Enter descends into the selected entry when it is a directory,
// resetting cursor and filter. When the selection is a track, the entry
// is returned as a play request and the browser state is unchanged.
func (b *Browser) Enter() (Entry, bool) {
	sel, ok := b.Selected()
	if !ok {
		return Entry{}, false
	}
	if sel.Kind == KindTrack {
		return sel, true
	}
	b.dir = sel.Path
	b.cursor = 0
	b.filter = ""
	b.reload()
	return Entry{}, false
}

// Up moves to the parent directory, resetting cursor and filter. No-op
// at the filesystem root.
func (b *Browser) Up() {
	parent := filepath.Dir(b.dir)
	if parent == b.dir {
		return
	}
	b.dir = parent
	b.cursor = 0
	b.filter = ""
	b.reload()
}

// SetFilter activates a filter pattern, clamping the cursor into the
// filtered list.
func (b *Browser) SetFilter(pattern string) {
	b.filter = pattern
	b.clamp()
}

// ClearFilter deactivates the filter.
func (b *Browser) ClearFilter() {
	b.filter = ""
	b.clamp()
}

// CollectTracks walks dir depth-first and returns every track found,
// descending into subdirectories (sorted case-insensitively) before
// collecting each level's own files. This ordering is the unit handed
// to the queue for "queue this folder".
func (b *Browser) CollectTracks(dir string) []track.Track {
	entries := listDir(dir, b.exts)

	var out []track.Track
	for _, e := range entries {
		if e.Kind == KindDir {
			out = append(out, b.CollectTracks(e.Path)...)
		}
	}
	for _, e := range entries {
		if e.Kind == KindTrack {
			out = append(out, track.New(e.Path))
		}
	}
	return out
}
