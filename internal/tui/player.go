// Package tui provides the Bubble Tea replay player: it scrubs through a
// session's event log and shows the reconstructed document at the clock's
// current position.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nateprice/draftlog/internal/event"
	"github.com/nateprice/draftlog/internal/replay"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	playingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Bold(true)
	speedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// frameRate is the playback tick rate. The clock still measures real frame
// deltas from wall-clock time, so a slow terminal only lowers smoothness,
// not accuracy.
const frameRate = 30

// seekStep is how far the arrow keys jump.
const seekStep = 5 * time.Second

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the root Bubble Tea model for the replay player.
type Model struct {
	session  *event.WritingSession
	filename string
	clock    *replay.Clock
	viewport viewport.Model
	progress progress.Model

	lastTick time.Time
	width    int
	height   int
	ready    bool
}

// New creates a player for the given session and source filename.
func New(s *event.WritingSession, filename string) Model {
	duration := time.Duration(s.Duration()) * time.Millisecond
	return Model{
		session:  s,
		filename: filename,
		clock:    replay.NewClock(duration),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			wasPlaying := m.clock.Playing()
			m.clock.Toggle()
			if !wasPlaying && m.clock.Playing() {
				m.lastTick = time.Now()
				m.refresh()
				return m, tick()
			}
			return m, nil
		case "s":
			m.clock.CycleSpeed()
			return m, nil
		case "left", "h":
			m.clock.Seek(m.clock.Elapsed() - seekStep)
			m.refresh()
			return m, nil
		case "right", "l":
			m.clock.Seek(m.clock.Elapsed() + seekStep)
			m.refresh()
			return m, nil
		case "0", "home":
			m.clock.Seek(0)
			m.refresh()
			return m, nil
		case "$", "end", "G":
			m.clock.Seek(m.clock.Duration())
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tickMsg:
		if !m.clock.Playing() {
			return m, nil
		}
		now := time.Time(msg)
		// Measure the real frame delta; refresh rates are not constant.
		m.clock.Advance(now.Sub(m.lastTick))
		m.lastTick = now
		m.refresh()
		if m.clock.Playing() {
			return m, tick()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 4
		// title(1) + progress(1) + statusBar(1) = 3 fixed rows
		vpHeight := m.height - 3
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refresh()
		return m, nil
	}
	return m, nil
}

// refresh rebuilds the viewport content from the clock's current position.
func (m *Model) refresh() {
	text := replay.Reconstruct(m.session.Events, m.clock.ElapsedMS())
	m.viewport.SetContent(text + cursorStyle.Render("▏"))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  draftlog replay  " + m.filename)
	bar := "  " + m.progress.ViewAs(m.clock.Progress())

	state := pausedStyle.Render("⏸ paused")
	if m.clock.Playing() {
		state = playingStyle.Render("▶ playing")
	}
	position := timeStyle.Render(fmt.Sprintf("%s / %s",
		formatClock(m.clock.Elapsed()), formatClock(m.clock.Duration())))
	speed := speedStyle.Render(fmt.Sprintf("%dx", m.clock.Speed()))
	hint := hintStyle.Render("space play/pause  s speed  ←/→ seek  0/$ jump  q quit")

	left := fmt.Sprintf("%s  %s  %s", state, position, speed)
	pad := m.width - lipgloss.Width(left) - lipgloss.Width(hint) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		left + strings.Repeat(" ", pad) + hint,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), bar, statusBar)
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// Run starts the player for the given session.
func Run(s *event.WritingSession, filename string) error {
	p := tea.NewProgram(New(s, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
