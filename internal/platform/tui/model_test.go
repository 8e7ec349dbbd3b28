package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/studious/internal/core"
	"github.com/vovakirdan/studious/internal/storage"
)

type fakeSession struct {
	input  *core.InputQueue
	done   chan struct{}
	screen *core.Screen
}

func newFakeSession() *fakeSession {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "hello", core.ColorDefault)
	return &fakeSession{
		input:  core.NewInputQueue(),
		done:   make(chan struct{}),
		screen: s,
	}
}

func (f *fakeSession) Input() *core.InputQueue        { return f.input }
func (f *fakeSession) Done() <-chan struct{}          { return f.done }
func (f *fakeSession) Snapshot(fn func(*core.Screen)) { fn(f.screen) }
func (f *fakeSession) SceneName() string              { return "test-scene" }

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyMapInput(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.GameInput
	}{
		{"q", runeKey('q'), core.InputQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.InputQuit},
		{"p", runeKey('p'), core.InputPause},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.InputPause},
		{"ctrl+s", tea.KeyMsg{Type: tea.KeyCtrlS}, core.InputScreenshot},
		{"w", runeKey('w'), core.InputUp},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, core.InputDown},
		{"a", runeKey('a'), core.InputLeft},
		{"right", tea.KeyMsg{Type: tea.KeyRight}, core.InputRight},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.InputJump},
		{"unbound", runeKey('z'), core.InputNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := keys.Input(tc.msg); got != tc.want {
				t.Errorf("Input(%q) = %v, expected %v", tc.msg.String(), got, tc.want)
			}
		})
	}
}

func TestModelQueuesInput(t *testing.T) {
	sess := newFakeSession()
	m := NewModel(sess, nil)

	next, _ := m.Update(runeKey('d'))
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	next, _ = next.Update(runeKey('z'))

	if sess.input.Pending(core.InputRight) != 1 || sess.input.Pending(core.InputJump) != 1 {
		t.Error("game keys should be queued for the frame loop")
	}

	next, cmd := next.Update(runeKey('q'))
	if cmd != nil {
		t.Error("quit should wait for the loop instead of quitting immediately")
	}
	if !sess.input.Poll(core.InputQuit) {
		t.Error("quit key should queue InputQuit")
	}
	if !strings.Contains(next.View(), "stopping") {
		t.Error("status should show the viewer is stopping")
	}
}

func TestModelHelpToggle(t *testing.T) {
	sess := newFakeSession()
	m := NewModel(sess, nil)

	next, _ := m.Update(runeKey('?'))
	if !next.(Model).help.ShowAll {
		t.Error("? should expand the help")
	}
	if sess.input.Pending(core.InputNone) != 0 {
		t.Error("help key should not reach the queue")
	}
}

func TestModelPauseStatus(t *testing.T) {
	sess := newFakeSession()
	next, _ := NewModel(sess, nil).Update(runeKey('p'))

	if !strings.Contains(next.View(), "PAUSED") {
		t.Error("status should show PAUSED after the pause key")
	}
	if sess.input.Pending(core.InputPause) != 1 {
		t.Error("pause should be queued")
	}
}

func TestModelResizeRequest(t *testing.T) {
	sess := newFakeSession()
	m := NewModel(sess, nil)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	w, h, ok := sess.input.TakeResize()
	if !ok || w != 100 || h != 30-FooterHeight {
		t.Errorf("TakeResize() = %d, %d, %v; expected 100, %d, true", w, h, ok, 30-FooterHeight)
	}
}

func TestModelQuitsWhenSessionDone(t *testing.T) {
	sess := newFakeSession()
	m := NewModel(sess, nil)

	_, cmd := m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick should schedule the next tick while running")
	}

	close(sess.done)
	_, cmd = m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick after the loop stopped should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.Quit once the session is done")
	}
}

func TestModelView(t *testing.T) {
	hud := NewHUD()
	hud.ReportFPS(59.5)
	m := NewModel(newFakeSession(), hud)

	view := m.View()
	for _, want := range []string{"hello", "test-scene", "FPS: 59.50"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestHUD(t *testing.T) {
	hud := NewHUD()
	if _, ok := hud.FPS(); ok || hud.String() != "FPS: --" {
		t.Error("HUD without reports should be empty")
	}

	hud.ReportFPS(1)
	hud.ReportFPS(0.5)
	fps, ok := hud.FPS()
	if !ok || fps != 0.5 || hud.Reports() != 2 {
		t.Errorf("FPS() = %v, %v after 2 reports", fps, ok)
	}
	if hud.String() != "FPS: 0.50" {
		t.Errorf("String() = %q", hud.String())
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawText(0, 0, "ab", core.ColorRed)
	s.Set(3, 1, 'x', core.ColorGray)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen() has %d lines, expected 2", len(lines))
	}
	// Styling may add escape codes, but the text survives in order
	if !strings.Contains(lines[0], "ab") || !strings.Contains(lines[1], "x") {
		t.Errorf("RenderScreen() = %q", out)
	}
}

func TestRenderStats(t *testing.T) {
	empty := RenderStats(nil, nil)
	if !strings.Contains(empty, "No runs recorded yet.") {
		t.Errorf("empty stats = %q", empty)
	}

	out := RenderStats(
		[]storage.SceneStats{{Scene: "demo-scene", Runs: 2, TotalFrames: 500, AvgFPS: 61.25, BestFPS: 70}},
		[]storage.Run{{ID: 7, Scene: "demo-scene", Mode: "headless", Profile: "core", Frames: 250, AvgFPS: 0, StopReason: "frame budget"}},
	)
	for _, want := range []string{"demo-scene", "61.25", "70.00", "headless", "frame budget"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderStats() missing %q:\n%s", want, out)
		}
	}
}
