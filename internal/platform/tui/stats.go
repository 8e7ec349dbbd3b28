package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/studious/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14")).
			MarginTop(1)
	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

// RenderStats renders per-scene statistics and the recent runs as tables.
func RenderStats(scenes []storage.SceneStats, runs []storage.Run) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Scenes"))
	b.WriteRune('\n')
	if len(scenes) == 0 {
		b.WriteString(emptyStyle.Render("No runs recorded yet."))
		b.WriteRune('\n')
		return b.String()
	}

	sceneRows := make([]table.Row, len(scenes))
	for i, st := range scenes {
		sceneRows[i] = table.Row{
			st.Scene,
			fmt.Sprintf("%d", st.Runs),
			fmt.Sprintf("%d", st.TotalFrames),
			formatFPS(st.AvgFPS),
			formatFPS(st.BestFPS),
			formatDate(st),
		}
	}
	b.WriteString(staticTable([]table.Column{
		{Title: "Scene", Width: 16},
		{Title: "Runs", Width: 6},
		{Title: "Frames", Width: 10},
		{Title: "Avg FPS", Width: 10},
		{Title: "Best FPS", Width: 10},
		{Title: "Last run", Width: 18},
	}, sceneRows))
	b.WriteRune('\n')

	b.WriteString(titleStyle.Render("Recent runs"))
	b.WriteRune('\n')
	runRows := make([]table.Row, len(runs))
	for i, r := range runs {
		runRows[i] = table.Row{
			fmt.Sprintf("%d", r.ID),
			r.Scene,
			r.Mode,
			r.Profile,
			fmt.Sprintf("%d", r.Frames),
			formatFPS(r.AvgFPS),
			r.StopReason,
			fmt.Sprintf("%d", r.ExitCode),
		}
	}
	b.WriteString(staticTable([]table.Column{
		{Title: "ID", Width: 5},
		{Title: "Scene", Width: 16},
		{Title: "Mode", Width: 9},
		{Title: "Profile", Width: 8},
		{Title: "Frames", Width: 10},
		{Title: "Avg FPS", Width: 10},
		{Title: "Stop", Width: 13},
		{Title: "Exit", Width: 5},
	}, runRows))
	b.WriteRune('\n')
	return b.String()
}

// staticTable renders a non-interactive table sized to its rows.
func staticTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+2),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	// No row is selected in a static table
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return t.View()
}

func formatFPS(fps float64) string {
	if fps <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", fps)
}

func formatDate(st storage.SceneStats) string {
	if st.LastRun.IsZero() {
		return "-"
	}
	return st.LastRun.Format("2006-01-02 15:04")
}
