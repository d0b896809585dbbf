package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewgepearce/pymus/internal/app/browser"
	"github.com/andrewgepearce/pymus/internal/app/playback"
	"github.com/andrewgepearce/pymus/internal/domain/queue"
	"github.com/andrewgepearce/pymus/internal/domain/track"
	"github.com/andrewgepearce/pymus/internal/infra/config"
	"github.com/andrewgepearce/pymus/internal/infra/tags"
)

// stubEngine is a no-op playback.Engine for exercising the dispatcher.
type stubEngine struct {
	loaded []string
	ended  bool
}

func (e *stubEngine) Load(path string) error {
	e.loaded = append(e.loaded, path)
	e.ended = false
	return nil
}
func (e *stubEngine) Play()   {}
func (e *stubEngine) Pause()  {}
func (e *stubEngine) Resume() {}
func (e *stubEngine) Stop()   {}
func (e *stubEngine) Position() (time.Duration, time.Duration, bool) {
	return time.Second, time.Minute, e.ended
}
func (e *stubEngine) Close() error { return nil }

func newTestModel(t *testing.T, files ...string) (Model, *stubEngine, string) {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	cfg, err := config.Load(filepath.Join(root, "no-config.yaml"))
	require.NoError(t, err)
	cfg.Library.Root = root

	eng := &stubEngine{}
	q := queue.New()
	b := browser.New(root, cfg.Library.Extensions)
	ctrl := playback.NewController(eng, q)

	m := New(cfg, DefaultKeymap(), b, q, ctrl, tags.NewCache())
	m.width = 100
	m.height = 30
	return m, eng, root
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestModel_FocusToggle(t *testing.T) {
	m, _, _ := newTestModel(t, "a.mp3")
	assert.Equal(t, focusBrowser, m.focus)

	m = update(t, m, key("tab"))
	assert.Equal(t, focusQueue, m.focus)

	m = update(t, m, key("tab"))
	assert.Equal(t, focusBrowser, m.focus)
}

func TestModel_EnterOnTrackPlaysIt(t *testing.T) {
	m, eng, root := newTestModel(t, "a.mp3")

	m = update(t, m, key("enter"))

	assert.Equal(t, []string{filepath.Join(root, "a.mp3")}, eng.loaded)
	assert.Equal(t, playback.StatePlaying, m.ctrl.State())
	assert.Equal(t, 1, m.queue.Len())
}

func TestModel_AppendFolderKeepsCurrent(t *testing.T) {
	m, eng, _ := newTestModel(t, "album/x.mp3", "album/y.mp3")

	// Cursor starts on the "album" directory; append it.
	m = update(t, m, key("a"))

	assert.Equal(t, 2, m.queue.Len())
	_, ok := m.queue.Current()
	assert.False(t, ok, "append must not start playback")
	assert.Empty(t, eng.loaded)
	assert.Contains(t, m.message, "Queued 2 tracks")
}

func TestModel_PlayNowFolderReplacesQueue(t *testing.T) {
	m, eng, root := newTestModel(t, "album/x.mp3", "album/y.mp3", "z.mp3")

	// Seed the queue with something else first.
	m.queue.Append(track.New("/old.mp3"))

	m = update(t, m, key("s"))

	assert.Equal(t, 2, m.queue.Len(), "folder play-now replaces the queue")
	cur, ok := m.queue.CurrentTrack()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "album", "x.mp3"), cur.Path)
	assert.Equal(t, playback.StatePlaying, m.ctrl.State())
	require.NotEmpty(t, eng.loaded)
}

func TestModel_SearchModeFiltersBrowser(t *testing.T) {
	m, _, _ := newTestModel(t, "Alpha.mp3", "bravo.mp3")

	m = update(t, m, key("/"))
	assert.True(t, m.searching)

	m = update(t, m, key("al"))
	visible := m.browser.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Alpha.mp3", visible[0].Name)

	m = update(t, m, key("enter"))
	assert.False(t, m.searching)
	assert.Equal(t, "al", m.browser.Filter(), "accepted filter persists")
}

func TestModel_SearchEscCancels(t *testing.T) {
	m, _, _ := newTestModel(t, "Alpha.mp3", "bravo.mp3")

	m = update(t, m, key("/"), key("al"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.searching)
	assert.Equal(t, "", m.browser.Filter())
	assert.Len(t, m.browser.Visible(), 2)
}

func TestModel_RemoveCurrentStopsPlayback(t *testing.T) {
	m, _, _ := newTestModel(t, "a.mp3", "b.mp3")

	m = update(t, m, key("enter")) // play a.mp3
	require.Equal(t, playback.StatePlaying, m.ctrl.State())

	m = update(t, m, key("tab")) // focus queue, cursor 0 = current
	m = update(t, m, key("d"))

	assert.Equal(t, playback.StateStopped, m.ctrl.State())
	assert.Equal(t, 0, m.queue.Len())
}

func TestModel_TickAdvancesOnEnd(t *testing.T) {
	m, eng, root := newTestModel(t, "album/x.mp3", "album/y.mp3")

	m = update(t, m, key("s")) // play album
	require.Equal(t, 2, m.queue.Len())

	eng.ended = true
	m = update(t, m, tickMsg(time.Now()))

	cur, ok := m.queue.CurrentTrack()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "album", "y.mp3"), cur.Path)
	assert.Equal(t, playback.StatePlaying, m.ctrl.State())
}

func TestModel_QuitKey(t *testing.T) {
	m, _, _ := newTestModel(t, "a.mp3")

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ViewTooSmall(t *testing.T) {
	m, _, _ := newTestModel(t, "a.mp3")
	m = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 8})

	view := m.View()
	assert.Contains(t, view, "Terminal too small")
}

// writeTaggedTrack writes a file carrying an ID3v1 trailer so the tags
// cache can resolve real metadata for it.
func writeTaggedTrack(t *testing.T, dir, name, artist, title string) string {
	t.Helper()
	trailer := make([]byte, 128)
	copy(trailer, "TAG")
	copy(trailer[3:33], title)
	copy(trailer[33:63], artist)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, append(make([]byte, 256), trailer...), 0o644))
	return path
}

func TestModel_RestoredQueueShowsTags(t *testing.T) {
	m, _, _ := newTestModel(t)
	path := writeTaggedTrack(t, t.TempDir(), "01.mp3", "Neko Case", "Hold On")

	// A restored session carries bare paths, no metadata.
	m.queue.Append(track.New(path))
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Neko Case - Hold On")
	assert.NotContains(t, view, "01.mp3")
}

func TestModel_ViewRendersPanes(t *testing.T) {
	m, _, _ := newTestModel(t, "a.mp3")
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Library")
	assert.Contains(t, view, "Queue (0)")
	assert.Contains(t, view, "a.mp3")
	assert.Contains(t, view, "Now Playing: -")
}
