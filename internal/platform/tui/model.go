package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/studious/internal/app"
	"github.com/vovakirdan/studious/internal/core"
)

// FooterHeight is the number of rows below the frame: status and help.
// Front ends subtract it from the terminal height to size the viewport.
const FooterHeight = 2

// Session is the running simulation the viewer is attached to.
type Session interface {
	Input() *core.InputQueue
	Done() <-chan struct{}
	Snapshot(fn func(*core.Screen))
	SceneName() string
}

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("14")).
			Padding(0, 1)
	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("11")).
			Padding(0, 1)
	fpsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// Model is the Bubble Tea model that displays a running session.
// It never advances the simulation itself: key presses are queued for the
// frame loop and frames are read from the renderer on each display tick.
type Model struct {
	session  Session
	hud      *HUD
	keys     KeyMap
	help     help.Model
	rate     int
	width    int
	height   int
	paused   bool
	quitting bool
}

// NewModel creates a viewer for the session. hud may be nil.
func NewModel(session Session, hud *HUD) Model {
	return Model{
		session: session,
		hud:     hud,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		rate:    DefaultDisplayRate,
	}
}

// Init starts the display tick.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.rate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.session.Input().RequestResize(msg.Width, core.Max(msg.Height-FooterHeight, 1))
		return m, nil

	case TickMsg:
		select {
		case <-m.session.Done():
			m.quitting = true
			return m, tea.Quit
		default:
		}
		return m, tickCmd(m.rate)
	}

	return m, nil
}

// handleKey queues game input. Quitting goes through the frame loop, so the
// viewer exits on the tick after the loop has stopped.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	input := m.keys.Input(msg)
	switch input {
	case core.InputNone:
		return m, nil
	case core.InputQuit:
		m.quitting = true
	case core.InputPause:
		m.paused = !m.paused
	}
	m.session.Input().Push(input)
	return m, nil
}

// View renders the latest frame followed by the status line and help.
func (m Model) View() string {
	var frame string
	m.session.Snapshot(func(s *core.Screen) {
		frame = RenderScreen(s)
	})

	var sb strings.Builder
	sb.WriteString(frame)
	sb.WriteRune('\n')
	sb.WriteString(m.statusLine())
	sb.WriteRune('\n')
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) statusLine() string {
	parts := []string{statusStyle.Render(m.session.SceneName())}
	if m.paused {
		parts = append(parts, pausedStyle.Render("PAUSED"))
	}
	if m.hud != nil {
		parts = append(parts, fpsStyle.Render(m.hud.String()))
	}
	if m.quitting {
		parts = append(parts, fpsStyle.Render("stopping..."))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Run drives a local interactive session: the Bubble Tea program reads keys
// and draws on its own goroutine while the frame loop runs on the caller's.
func Run(rt *app.Runtime, hud *HUD) error {
	p := tea.NewProgram(
		NewModel(rt, hud),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	uiErr := make(chan error, 1)
	go func() {
		_, err := p.Run()
		// The window is gone; stop the loop if it is still running
		rt.Shutdown()
		uiErr <- err
	}()

	loopErr := rt.Run()
	err := <-uiErr
	if loopErr != nil {
		return loopErr
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
