// Package tags reads display metadata from audio files.
package tags

import (
	"os"

	"github.com/dhowden/tag"
	zlog "github.com/rs/zerolog/log"

	"github.com/andrewgepearce/pymus/internal/domain/track"
)

// Read extracts metadata from the file at path. Missing or corrupt
// tags are not an error: the caller gets nil metadata and carries on.
func Read(path string) *track.Metadata {
	f, err := os.Open(path)
	if err != nil {
		zlog.Debug().Err(err).Str("path", path).Msg("tags: cannot open file")
		return nil
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		zlog.Debug().Err(err).Str("path", path).Msg("tags: no readable tags")
		return nil
	}

	return &track.Metadata{
		Artist: m.Artist(),
		Title:  m.Title(),
		Album:  m.Album(),
	}
}

// Cache memoizes metadata by path for the process lifetime. Files are
// assumed immutable during a session, so entries are never
// invalidated. The cache is confined to the UI event loop and needs no
// locking.
type Cache struct {
	entries map[string]*track.Metadata
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*track.Metadata)}
}

// Get returns the metadata for path, reading it on first use. A failed
// read is memoized as nil so the file is not retried every render.
func (c *Cache) Get(path string) *track.Metadata {
	if meta, ok := c.entries[path]; ok {
		return meta
	}
	meta := Read(path)
	c.entries[path] = meta
	return meta
}
