// Package ui implements the terminal front end: a dual-pane
// browser/queue view with a single event loop that also consumes the
// playback poll tick, so all state mutation happens on one goroutine.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/andrewgepearce/pymus/internal/app/browser"
	"github.com/andrewgepearce/pymus/internal/app/playback"
	"github.com/andrewgepearce/pymus/internal/domain/queue"
	"github.com/andrewgepearce/pymus/internal/domain/track"
	"github.com/andrewgepearce/pymus/internal/infra/config"
	"github.com/andrewgepearce/pymus/internal/infra/tags"
)

// Focus areas
type focusArea int

const (
	focusBrowser focusArea = iota
	focusQueue
)

// tickMsg carries the playback poll interval.
type tickMsg time.Time

// Model is the bubbletea application model.
type Model struct {
	cfg  *config.Config
	keys Keymap

	browser *browser.Browser
	queue   *queue.Queue
	ctrl    *playback.Controller
	tags    *tags.Cache

	focus       focusArea
	searching   bool
	input       textinput.Model
	queueCursor int

	width, height int
	status        playback.Status
	message       string
}

// New creates the application model.
func New(cfg *config.Config, keys Keymap, b *browser.Browser, q *queue.Queue, ctrl *playback.Controller, cache *tags.Cache) Model {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 64
	ti.Width = 24

	return Model{
		cfg:     cfg,
		keys:    keys,
		browser: b,
		queue:   q,
		ctrl:    ctrl,
		tags:    cache,
		input:   ti,
	}
}

// Queue exposes the final queue state so the caller can persist it
// after the program exits.
func (m Model) Queue() *queue.Queue {
	return m.queue
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.PollInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.status = m.ctrl.Tick()
		m.drainEvents()
		return m, m.tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	m.message = ""

	switch msg.String() {
	case m.keys.Quit:
		return m, tea.Quit
	case m.keys.FocusToggle:
		if m.focus == focusBrowser {
			m.focus = focusQueue
			m.clampQueueCursor()
		} else {
			m.focus = focusBrowser
		}
		return m, nil
	case m.keys.TogglePause, "space":
		m.ctrl.Toggle()
		m.drainEvents()
		return m, nil
	case m.keys.Next:
		m.ctrl.Next()
		m.drainEvents()
		return m, nil
	case m.keys.Prev:
		m.ctrl.Prev()
		m.drainEvents()
		return m, nil
	}

	if m.focus == focusBrowser {
		return m.handleBrowserKey(msg)
	}
	return m.handleQueueKey(msg)
}

// handleSearchKey intercepts character input into the filter until it
// is accepted or canceled.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.input.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.input.Blur()
		m.input.SetValue("")
		m.browser.ClearFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.browser.SetFilter(m.input.Value())
	return m, cmd
}

func (m Model) handleBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.browser.Move(-1)
	case "down", "j":
		m.browser.Move(1)
	case "pgup":
		m.browser.Move(-m.cfg.UI.PageSize)
	case "pgdown":
		m.browser.Move(m.cfg.UI.PageSize)
	case "home", "g":
		m.browser.Move(-m.browser.Cursor())
	case "end", "G":
		m.browser.Move(len(m.browser.Visible()))
	case "enter", "l":
		if entry, play := m.browser.Enter(); play {
			m.playNowEntry(entry)
		}
	case "backspace", m.keys.Up:
		m.browser.Up()
	case m.keys.Search:
		m.searching = true
		m.input.SetValue(m.browser.Filter())
		m.input.Focus()
	case m.keys.Append:
		m.appendSelected()
	case m.keys.PlayNow:
		m.playNowSelected()
	}
	return m, nil
}

func (m Model) handleQueueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.queueCursor--
	case "down", "j":
		m.queueCursor++
	case "pgup":
		m.queueCursor -= m.cfg.UI.PageSize
	case "pgdown":
		m.queueCursor += m.cfg.UI.PageSize
	case "home", "g":
		m.queueCursor = 0
	case "end", "G":
		m.queueCursor = m.queue.Len() - 1
	case "enter":
		if _, err := m.queue.Select(m.queueCursor); err == nil {
			m.ctrl.PlayCurrent()
			m.drainEvents()
		}
	case m.keys.Remove, "x":
		if removedCurrent, err := m.queue.Remove(m.queueCursor); err == nil && removedCurrent {
			m.ctrl.Stop()
			m.drainEvents()
		}
	case m.keys.MoveUp:
		if err := m.queue.MoveUp(m.queueCursor); err == nil && m.queueCursor > 0 {
			m.queueCursor--
		}
	case m.keys.MoveDown:
		if err := m.queue.MoveDown(m.queueCursor); err == nil && m.queueCursor < m.queue.Len()-1 {
			m.queueCursor++
		}
	case m.keys.Clear:
		m.queue.Clear()
		m.ctrl.Stop()
		m.drainEvents()
		m.message = "Queue cleared"
	}
	m.clampQueueCursor()
	return m, nil
}

func (m *Model) clampQueueCursor() {
	if m.queueCursor < 0 {
		m.queueCursor = 0
	}
	if n := m.queue.Len(); m.queueCursor >= n {
		m.queueCursor = n - 1
		if m.queueCursor < 0 {
			m.queueCursor = 0
		}
	}
}

// appendSelected queues the selected track, or a folder's recursive
// expansion, without touching the current index.
func (m *Model) appendSelected() {
	sel, ok := m.browser.Selected()
	if !ok {
		return
	}
	if sel.Kind == browser.KindDir {
		collected := m.browser.CollectTracks(sel.Path)
		if len(collected) == 0 {
			m.message = fmt.Sprintf("No tracks in %s/", sel.Name)
			return
		}
		m.queue.Append(m.withMeta(collected)...)
		m.message = fmt.Sprintf("Queued %d tracks from %s/", len(collected), sel.Name)
		return
	}
	m.queue.Append(m.trackWithMeta(track.New(sel.Path)))
	m.message = fmt.Sprintf("Queued %s", sel.Name)
}

// playNowSelected interrupts playback: a folder replaces the whole
// queue with its expansion, a single track is appended and played.
func (m *Model) playNowSelected() {
	sel, ok := m.browser.Selected()
	if !ok {
		return
	}
	if sel.Kind == browser.KindDir {
		collected := m.browser.CollectTracks(sel.Path)
		if len(collected) == 0 {
			m.message = fmt.Sprintf("No tracks in %s/", sel.Name)
			return
		}
		m.queue.Replace(m.withMeta(collected))
		m.ctrl.PlayCurrent()
		m.drainEvents()
		return
	}
	m.playNowEntry(sel)
}

func (m *Model) playNowEntry(entry browser.Entry) {
	m.queue.AppendAndSelect(m.trackWithMeta(track.New(entry.Path)))
	m.ctrl.PlayCurrent()
	m.drainEvents()
}

func (m *Model) trackWithMeta(t track.Track) track.Track {
	t.Meta = m.tags.Get(t.Path)
	return t
}

func (m *Model) withMeta(ts []track.Track) []track.Track {
	return lo.Map(ts, func(t track.Track, _ int) track.Track {
		return m.trackWithMeta(t)
	})
}

// drainEvents turns pending playback events into the status message.
func (m *Model) drainEvents() {
	for _, ev := range m.ctrl.TakeEvents() {
		switch ev.Type {
		case playback.EventTrackStarted:
			m.message = fmt.Sprintf("Playing %s", ev.Track.Display())
		case playback.EventTrackSkipped:
			m.message = fmt.Sprintf("Skipped %s (unplayable)", ev.Track.Name())
		case playback.EventQueueExhausted:
			m.message = "Queue finished"
		case playback.EventStateChanged:
			switch ev.State {
			case playback.StatePaused:
				m.message = "Paused"
			case playback.StateStopped:
				m.message = "Stopped"
			}
		}
	}
}
