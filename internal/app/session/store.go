// Package session persists the play queue between runs.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/andrewgepearce/pymus/internal/domain/queue"
	"github.com/andrewgepearce/pymus/internal/domain/track"
)

// Session is the persisted queue snapshot: ordered track paths plus the
// current index (nil when no track is current). Unknown fields in the
// file are ignored for forward compatibility.
type Session struct {
	Paths   []string `json:"queue"`
	Current *int     `json:"current_index"`
}

// Store reads and writes the session file. Load happens once at
// startup and Save once at clean shutdown; the file is never touched
// mid-session.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted session. A missing or malformed file yields
// an empty session, never an error. Paths that no longer resolve to a
// regular file are dropped; the current index is shifted to keep
// tracking the same path, or cleared when that entry itself was
// dropped.
func (s *Store) Load() Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			zlog.Warn().Err(err).Str("path", s.path).Msg("session: unreadable file, starting empty")
		}
		return Session{}
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		zlog.Warn().Err(err).Str("path", s.path).Msg("session: malformed file, starting empty")
		return Session{}
	}

	return prune(sess)
}

// prune drops entries whose path no longer exists and re-derives the
// current index.
func prune(sess Session) Session {
	out := Session{}
	for i, p := range sess.Paths {
		if !isRegularFile(p) {
			zlog.Debug().Str("path", p).Msg("session: dropping vanished track")
			continue
		}
		if sess.Current != nil && *sess.Current == i {
			idx := len(out.Paths)
			out.Current = &idx
		}
		out.Paths = append(out.Paths, p)
	}
	return out
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Save atomically overwrites the session file: the record is written
// to a uniquely named temp file in the same directory and renamed over
// the target, so a crash mid-write cannot corrupt the next load.
func (s *Store) Save(sess Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode session")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create session directory")
	}

	tmp := s.path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write session file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "failed to replace session file")
	}
	return nil
}

// FromQueue snapshots a queue into a Session.
func FromQueue(q *queue.Queue) Session {
	sess := Session{}
	for _, t := range q.Tracks() {
		sess.Paths = append(sess.Paths, t.Path)
	}
	if idx, ok := q.Current(); ok {
		sess.Current = &idx
	}
	return sess
}

// Restore fills an empty queue from a Session.
func Restore(sess Session, q *queue.Queue) {
	for _, p := range sess.Paths {
		q.Append(track.New(p))
	}
	if sess.Current != nil {
		if _, err := q.Select(*sess.Current); err != nil {
			zlog.Warn().Int("index", *sess.Current).Msg("session: current index out of range")
		}
	}
}
