package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/andrewgepearce/pymus/internal/app/browser"
	"github.com/andrewgepearce/pymus/internal/app/playback"
	"github.com/andrewgepearce/pymus/internal/domain/track"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	focusedPane   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205"))
	unfocusedPane = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	dirStyle      = lipgloss.NewStyle().Bold(true)
	currentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.width < m.cfg.UI.MinColumns || m.height < m.cfg.UI.MinRows {
		prompt := fmt.Sprintf("Terminal too small (%dx%d).\nResize to at least %dx%d.",
			m.width, m.height, m.cfg.UI.MinColumns, m.cfg.UI.MinRows)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, prompt)
	}

	// Header, two panes, now-playing bar, message line, help line.
	paneHeight := m.height - 6
	paneWidth := m.width/2 - 2

	header := titleStyle.Render(truncate("pymus  "+m.browser.Dir(), m.width-1))

	left := m.renderBrowser(paneWidth, paneHeight)
	right := m.renderQueue(paneWidth, paneHeight)
	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return strings.Join([]string{
		header,
		panes,
		m.renderNowPlaying(),
		messageStyle.Render(truncate(m.message, m.width-1)),
		dimStyle.Render(truncate(m.helpLine(), m.width-1)),
	}, "\n")
}

func (m Model) renderBrowser(width, height int) string {
	style := unfocusedPane
	if m.focus == focusBrowser {
		style = focusedPane
	}

	inner := width - 2
	lines := []string{titleStyle.Render(truncate("Library", inner))}
	if m.searching {
		lines = append(lines, m.input.View())
	} else if f := m.browser.Filter(); f != "" {
		lines = append(lines, dimStyle.Render(truncate("filter: "+f, inner)))
	} else {
		lines = append(lines, "")
	}

	listHeight := height - len(lines) - 2
	visible := m.browser.Visible()
	start := scrollOffset(m.browser.Cursor(), len(visible), listHeight)

	for i := start; i < len(visible) && i < start+listHeight; i++ {
		e := visible[i]
		name := e.Name
		if e.Kind == browser.KindDir {
			name += "/"
		}
		name = truncate(name, inner)
		switch {
		case i == m.browser.Cursor() && m.focus == focusBrowser:
			name = cursorStyle.Render(name)
		case e.Kind == browser.KindDir:
			name = dirStyle.Render(name)
		}
		lines = append(lines, name)
	}
	if len(visible) == 0 {
		lines = append(lines, dimStyle.Render("(empty)"))
	}

	return style.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderQueue(width, height int) string {
	style := unfocusedPane
	if m.focus == focusQueue {
		style = focusedPane
	}

	inner := width - 2
	title := fmt.Sprintf("Queue (%d)", m.queue.Len())
	lines := []string{titleStyle.Render(truncate(title, inner)), ""}

	listHeight := height - len(lines) - 2
	tracks := m.queue.Tracks()
	current, hasCurrent := m.queue.Current()
	start := scrollOffset(m.queueCursor, len(tracks), listHeight)

	for i := start; i < len(tracks) && i < start+listHeight; i++ {
		marker := "  "
		if hasCurrent && i == current {
			marker = "> "
		}
		line := truncate(marker+m.displayName(tracks[i]), inner)
		switch {
		case i == m.queueCursor && m.focus == focusQueue:
			line = cursorStyle.Render(line)
		case hasCurrent && i == current:
			line = currentStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(tracks) == 0 {
		lines = append(lines, dimStyle.Render("(empty)"))
	}

	return style.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderNowPlaying() string {
	cur, ok := m.queue.CurrentTrack()
	if !ok || m.status.State == playback.StateStopped {
		return dimStyle.Render("Now Playing: -")
	}

	label := fmt.Sprintf("[%s] %s", m.status.State, m.displayName(cur))
	timeInfo := fmt.Sprintf("%s / %s", formatDuration(m.status.Position), formatDuration(m.status.Length))

	barWidth := m.width - lipgloss.Width(label) - lipgloss.Width(timeInfo) - 6
	if barWidth < 10 {
		return truncate(label+"  "+timeInfo, m.width-1)
	}

	filled := 0
	if m.status.Length > 0 {
		filled = int(float64(barWidth) * float64(m.status.Position) / float64(m.status.Length))
		if filled > barWidth {
			filled = barWidth
		}
	}
	bar := "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"

	return label + " " + bar + " " + timeInfo
}

func (m Model) helpLine() string {
	common := "Tab switch pane | Space pause | n next | p prev | q quit"
	if m.focus == focusBrowser {
		return "Enter open/play | a queue | s play now | / filter | h up | " + common
	}
	return "Enter play | d remove | K/J reorder | c clear | " + common
}

// displayName resolves metadata through the tags cache for tracks that
// arrived without it, such as those restored from a saved session.
func (m Model) displayName(t track.Track) string {
	if t.Meta == nil {
		t.Meta = m.tags.Get(t.Path)
	}
	return t.Display()
}

// scrollOffset keeps the cursor visible inside a window of height h.
func scrollOffset(cursor, total, h int) int {
	if h <= 0 || total <= h {
		return 0
	}
	start := cursor - h/2
	if start < 0 {
		start = 0
	}
	if start > total-h {
		start = total - h
	}
	return start
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}
