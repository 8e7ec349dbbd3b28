package gfx

import (
	"errors"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/vovakirdan/studious/internal/core"
	"github.com/vovakirdan/studious/internal/scene"
)

func loadedController(t *testing.T, w, h int) *TerminalController {
	t.Helper()
	c := NewTerminalController(w, h, ShaderFS)
	if err := c.LoadAll(Programs(false)); err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	return c
}

func TestProgramsProfiles(t *testing.T) {
	for _, embedded := range []bool{false, true} {
		programs := Programs(embedded)
		if len(programs) != 6 {
			t.Fatalf("Programs(%v) has %d entries, expected 6", embedded, len(programs))
		}
		dir := "shaders/" + Profile(embedded) + "/"
		for _, p := range programs {
			if !strings.HasPrefix(p.VertexPath, dir) || !strings.HasSuffix(p.VertexPath, p.Name+".vert") {
				t.Errorf("%s vertex path %q", p.Name, p.VertexPath)
			}
			if !strings.HasPrefix(p.FragmentPath, dir) || !strings.HasSuffix(p.FragmentPath, p.Name+".frag") {
				t.Errorf("%s fragment path %q", p.Name, p.FragmentPath)
			}
		}
	}
}

func TestEmbeddedShadersLoad(t *testing.T) {
	for _, embedded := range []bool{false, true} {
		c := NewTerminalController(10, 5, ShaderFS)
		if err := c.LoadAll(Programs(embedded)); err != nil {
			t.Fatalf("LoadAll(embedded=%v) failed: %v", embedded, err)
		}
		if len(c.Programs()) != 6 {
			t.Errorf("Programs() = %v", c.Programs())
		}
		p, ok := c.Program(ProgramGame)
		if !ok {
			t.Fatal("gameObject should be loaded")
		}
		want := "330 core"
		if embedded {
			want = "300 es"
		}
		if p.Version != want {
			t.Errorf("Version = %q, expected %q", p.Version, want)
		}
	}
}

func TestLoadShadersErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"ok.vert":      {Data: []byte("#version 330 core\nvoid main() {}\n")},
		"ok.frag":      {Data: []byte("// comment\n#version 330 core\nvoid main() {}\n")},
		"bare.frag":    {Data: []byte("void main() {}\n")},
		"es.frag":      {Data: []byte("#version 300 es\nvoid main() {}\n")},
		"empty.frag":   {Data: []byte("#version\n")},
		"missing.note": {Data: []byte("")},
	}
	c := NewTerminalController(4, 4, fsys)

	if err := c.LoadShaders("ok", "ok.vert", "ok.frag"); err != nil {
		t.Fatalf("LoadShaders(ok) failed: %v", err)
	}

	tests := []struct {
		name, vert, frag string
	}{
		{"missing file", "ok.vert", "nope.frag"},
		{"no version", "ok.vert", "bare.frag"},
		{"empty version", "ok.vert", "empty.frag"},
		{"mismatched stages", "ok.vert", "es.frag"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := c.LoadShaders(tc.name, tc.vert, tc.frag); err == nil {
				t.Error("LoadShaders() should fail")
			}
		})
	}

	if got := c.Programs(); len(got) != 1 || got[0] != "ok" {
		t.Errorf("Programs() = %v, expected [ok]", got)
	}
}

func TestRenderPrograms(t *testing.T) {
	c := loadedController(t, 12, 6)

	sc := scene.New("t", 12, 6)
	sc.MustAdd(
		&scene.Object{Name: "floor", Program: ProgramTile, Position: core.V2(0, 5), W: 12, H: 1, Glyph: '='},
		&scene.Object{Name: "box", Program: ProgramCollider, Position: core.V2(0, 0), W: 3, H: 3},
		&scene.Object{Name: "ball", Program: ProgramSprite, Position: core.V2(5, 1), W: 1, H: 1, Sprite: scene.NewSprite(1, 'o', 'O')},
		&scene.Object{Name: "label", Program: ProgramText, Position: core.V2(4, 3), Text: "hi"},
		&scene.Object{Name: "plain", Position: core.V2(8, 1), W: 1, H: 1, Glyph: '@'},
	)
	cam, _ := sc.CreateCamera(scene.CameraSpec{Name: "main"})

	if err := c.Render(sc, cam); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	c.Snapshot(func(s *core.Screen) {
		if s.Row(5) != "============" {
			t.Errorf("tile row = %q", s.Row(5))
		}
		if s.Get(0, 0) != '┌' || s.Get(2, 2) != '┘' {
			t.Errorf("collider outline missing: %q", s.Row(0))
		}
		if s.Get(5, 1) != 'o' {
			t.Errorf("sprite glyph = %q", s.Get(5, 1))
		}
		if s.Get(4, 3) != 'h' || s.Get(5, 3) != 'i' {
			t.Errorf("text row = %q", s.Row(3))
		}
		if s.Get(8, 1) != '@' {
			t.Error("object without a program should draw as a game object")
		}
	})
	if c.Frames() != 1 {
		t.Errorf("Frames() = %d, expected 1", c.Frames())
	}
}

func TestRenderCameraAndUI(t *testing.T) {
	c := loadedController(t, 10, 4)

	sc := scene.New("t", 100, 4)
	sc.MustAdd(
		&scene.Object{Name: "far", Position: core.V2(52, 1), W: 1, H: 1, Glyph: 'X'},
		&scene.Object{Name: "hud", Program: ProgramUI, Position: core.V2(0, 0), Text: "HUD"},
	)
	cam, _ := sc.CreateCamera(scene.CameraSpec{Name: "main", Offset: core.V2(50, 0)})

	if err := c.Render(sc, cam); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	c.Snapshot(func(s *core.Screen) {
		if s.Get(2, 1) != 'X' {
			t.Errorf("world object should be shifted by the camera: %q", s.Row(1))
		}
		if !strings.HasPrefix(s.Row(0), "HUD") {
			t.Errorf("UI should ignore the camera: %q", s.Row(0))
		}
	})
}

func TestRenderErrors(t *testing.T) {
	c := NewTerminalController(5, 5, ShaderFS)
	sc := scene.New("t", 5, 5)
	sc.MustAdd(&scene.Object{Name: "o", Program: ProgramSprite, W: 1, H: 1})
	cam, _ := sc.CreateCamera(scene.CameraSpec{Name: "main"})

	if err := c.Render(sc, cam); !errors.Is(err, ErrProgramNotLoaded) {
		t.Errorf("Render() error = %v, expected ErrProgramNotLoaded", err)
	}
	if err := c.Render(nil, cam); err == nil {
		t.Error("Render(nil scene) should fail")
	}
	if err := c.Render(sc, nil); err == nil {
		t.Error("Render(nil camera) should fail")
	}
	if c.Frames() != 0 {
		t.Error("failed renders should not publish frames")
	}
}

func TestResizeAndScreenshot(t *testing.T) {
	c := loadedController(t, 4, 2)
	c.Resize(6, 3)
	if w, h := c.Size(); w != 6 || h != 3 {
		t.Errorf("Size() = %dx%d, expected 6x3", w, h)
	}

	sc := scene.New("t", 6, 3)
	sc.MustAdd(&scene.Object{Name: "t", Program: ProgramText, Text: "shot"})
	cam, _ := sc.CreateCamera(scene.CameraSpec{Name: "main"})
	if err := c.Render(sc, cam); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	dir := t.TempDir()
	path, err := c.SaveScreenshot(dir, "frame")
	if err != nil {
		t.Fatalf("SaveScreenshot() failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read screenshot: %v", err)
	}
	if !strings.HasPrefix(string(data), "shot  \n") {
		t.Errorf("screenshot content = %q", string(data))
	}
}
