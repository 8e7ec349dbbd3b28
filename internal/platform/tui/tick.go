// Package tui provides the Bubble Tea front end of studious: it feeds key
// presses into a running session, shows its frames and serves sessions over
// SSH via Wish.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDisplayRate is how often the viewer redraws, in frames per second.
const DefaultDisplayRate = 30

// TickMsg is sent to trigger a display refresh.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(rate int) tea.Cmd {
	if rate <= 0 {
		rate = DefaultDisplayRate
	}
	interval := time.Second / time.Duration(rate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
