package gfx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/studious/internal/core"
	"github.com/vovakirdan/studious/internal/scene"
)

// ErrProgramNotLoaded is returned when an object uses a program that was
// never loaded.
var ErrProgramNotLoaded = errors.New("gfx: program not loaded")

// Program is a loaded shader program.
type Program struct {
	Name     string
	Version  string // Argument of the #version directive, e.g. "330 core"
	Vertex   string
	Fragment string

	draw technique
}

// technique rasterizes one object into the screen rectangle r.
type technique func(s *core.Screen, obj *scene.Object, r core.Rect)

// TerminalController renders scenes into a double-buffered cell screen.
// Render runs on the loop goroutine; Snapshot may be called from any
// goroutine.
type TerminalController struct {
	shaders  fs.FS
	programs map[string]*Program
	order    []string

	back *core.Screen

	mu     sync.Mutex
	front  *core.Screen
	frames uint64
}

// NewTerminalController creates a renderer for a w x h viewport that loads
// shader sources from shaders.
func NewTerminalController(w, h int, shaders fs.FS) *TerminalController {
	return &TerminalController{
		shaders:  shaders,
		programs: make(map[string]*Program),
		back:     core.NewScreen(w, h),
		front:    core.NewScreen(w, h),
	}
}

// LoadShaders reads and registers a program. Both stages must declare a
// #version directive.
func (c *TerminalController) LoadShaders(name, vertexPath, fragmentPath string) error {
	vert, err := fs.ReadFile(c.shaders, vertexPath)
	if err != nil {
		return fmt.Errorf("gfx: load %s vertex shader: %w", name, err)
	}
	frag, err := fs.ReadFile(c.shaders, fragmentPath)
	if err != nil {
		return fmt.Errorf("gfx: load %s fragment shader: %w", name, err)
	}

	version, ok := shaderVersion(string(vert))
	if !ok {
		return fmt.Errorf("gfx: %s: missing #version directive", vertexPath)
	}
	fragVersion, ok := shaderVersion(string(frag))
	if !ok {
		return fmt.Errorf("gfx: %s: missing #version directive", fragmentPath)
	}
	if fragVersion != version {
		return fmt.Errorf("gfx: %s: stage versions differ (%q vs %q)", name, version, fragVersion)
	}

	if _, exists := c.programs[name]; !exists {
		c.order = append(c.order, name)
	}
	c.programs[name] = &Program{
		Name:     name,
		Version:  version,
		Vertex:   string(vert),
		Fragment: string(frag),
		draw:     techniqueFor(name),
	}
	return nil
}

// LoadAll loads every program in the list, stopping at the first failure.
func (c *TerminalController) LoadAll(programs []ProgramData) error {
	for _, p := range programs {
		if err := c.LoadShaders(p.Name, p.VertexPath, p.FragmentPath); err != nil {
			return err
		}
	}
	return nil
}

// Program returns a loaded program by name.
func (c *TerminalController) Program(name string) (*Program, bool) {
	p, ok := c.programs[name]
	return p, ok
}

// Programs returns the names of loaded programs in load order.
func (c *TerminalController) Programs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Size returns the viewport size in cells.
func (c *TerminalController) Size() (int, int) {
	return c.back.Width(), c.back.Height()
}

// Resize changes the viewport size.
func (c *TerminalController) Resize(w, h int) {
	c.back.Resize(w, h)

	c.mu.Lock()
	c.front.Resize(w, h)
	c.mu.Unlock()
}

// Render draws the scene as seen through cam and publishes the frame.
// World objects are drawn in scene order; UI objects are drawn last in
// screen coordinates.
func (c *TerminalController) Render(sc *scene.Scene, cam *scene.Camera) error {
	if sc == nil {
		return errors.New("gfx: no scene to render")
	}
	if cam == nil {
		return errors.New("gfx: no camera to render with")
	}

	c.back.Clear()
	w, h := c.Size()

	var ui []*scene.Object
	for _, obj := range sc.Objects() {
		prog, err := c.programFor(obj)
		if err != nil {
			return err
		}
		if prog.Name == ProgramUI {
			ui = append(ui, obj)
			continue
		}
		prog.draw(c.back, obj, cam.ToScreen(obj.Bounds(), w, h))
	}
	for _, obj := range ui {
		prog, _ := c.programFor(obj)
		prog.draw(c.back, obj, obj.Bounds())
	}

	c.mu.Lock()
	c.front.CopyFrom(c.back)
	c.frames++
	c.mu.Unlock()
	return nil
}

func (c *TerminalController) programFor(obj *scene.Object) (*Program, error) {
	name := obj.Program
	if name == "" {
		name = ProgramGame
	}
	prog, ok := c.programs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (object %q)", ErrProgramNotLoaded, name, obj.Name)
	}
	return prog, nil
}

// Snapshot calls fn with the last published frame. fn must not keep the
// screen after returning.
func (c *TerminalController) Snapshot(fn func(*core.Screen)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.front)
}

// Frames returns how many frames have been published.
func (c *TerminalController) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// SaveScreenshot writes the last published frame as plain text into dir
// and returns the file path.
func (c *TerminalController) SaveScreenshot(dir, prefix string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("gfx: create screenshot dir: %w", err)
	}

	var text string
	c.Snapshot(func(s *core.Screen) {
		text = s.String()
	})

	name := fmt.Sprintf("%s-%s.txt", prefix, time.Now().Format("20060102-150405.000"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("gfx: write screenshot: %w", err)
	}
	return path, nil
}

// shaderVersion extracts the #version argument from the first directive
// line of a shader source.
func shaderVersion(src string) (string, bool) {
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if !strings.HasPrefix(line, "#version") {
			return "", false
		}
		v := strings.TrimSpace(strings.TrimPrefix(line, "#version"))
		return v, v != ""
	}
	return "", false
}

func techniqueFor(name string) technique {
	switch name {
	case ProgramCollider:
		return drawCollider
	case ProgramText, ProgramUI:
		return drawText
	case ProgramTile:
		return drawTile
	default:
		return drawSolid
	}
}

func glyphOr(obj *scene.Object, fallback rune) rune {
	if obj.Sprite != nil {
		return obj.Sprite.Current(glyphOrZero(obj.Glyph, fallback))
	}
	return glyphOrZero(obj.Glyph, fallback)
}

func glyphOrZero(g, fallback rune) rune {
	if g == 0 {
		return fallback
	}
	return g
}

func drawSolid(s *core.Screen, obj *scene.Object, r core.Rect) {
	s.DrawRect(r, glyphOr(obj, '█'), obj.Color)
}

func drawTile(s *core.Screen, obj *scene.Object, r core.Rect) {
	s.DrawRect(r, glyphOr(obj, '▒'), obj.Color)
}

// drawCollider outlines boxes that are large enough and fills thin ones.
func drawCollider(s *core.Screen, obj *scene.Object, r core.Rect) {
	if r.W < 2 || r.H < 2 {
		s.DrawRect(r, glyphOr(obj, '#'), obj.Color)
		return
	}
	s.DrawBox(r, obj.Color)
}

func drawText(s *core.Screen, obj *scene.Object, r core.Rect) {
	s.DrawText(r.X, r.Y, obj.Text, obj.Color)
}
