// Package game implements the session driven by the frame loop: it owns the
// active scene and camera, turns queued input into motion and runs the
// physics, animation and graphics controllers once per tick.
package game

import (
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/studious/internal/core"
	"github.com/vovakirdan/studious/internal/registry"
	"github.com/vovakirdan/studious/internal/scene"
)

// Update failure codes.
const (
	CodeOK       = 0
	CodeNoScene  = 1
	CodeNoCamera = 2
	CodePhysics  = 3
	CodeRender   = 4
)

// PlayerTag marks the object steered by movement input.
const PlayerTag = "player"

// Graphics draws the scene each tick.
type Graphics interface {
	Render(sc *scene.Scene, cam *scene.Camera) error
	Resize(w, h int)
	SaveScreenshot(dir, prefix string) (string, error)
}

// Physics advances the scene by a fixed timestep.
type Physics interface {
	Step(sc *scene.Scene, dt float64) error
}

// Animation advances sprite animations by one tick.
type Animation interface {
	Step(sc *scene.Scene) int
}

// Controllers are the subsystems a GameInstance drives.
type Controllers struct {
	Graphics  Graphics
	Physics   Physics
	Animation Animation
}

// Config holds per-instance settings.
type Config struct {
	Runtime       core.RuntimeConfig
	ScreenshotDir string
	PlayerSpeed   float64 // Horizontal speed applied by Left/Right, units/s
	JumpSpeed     float64 // Upward speed applied by Jump, units/s
}

// DefaultConfig returns instance settings for the default runtime config.
func DefaultConfig() Config {
	return Config{
		Runtime:       core.DefaultConfig(),
		ScreenshotDir: "screenshots",
		PlayerSpeed:   24,
		JumpSpeed:     30,
	}
}

// horizontal speed damping per tick when no movement key is pending
const moveDamping = 0.85

// GameInstance is the engine.Session of a running game.
//
// PollInput, Shutdown and IsShutDown are safe for concurrent use. Everything
// else belongs to the loop goroutine.
type GameInstance struct {
	cfg    Config
	ctrls  Controllers
	input  *core.InputQueue
	logger *log.Logger

	shutdown atomic.Bool

	scene    *scene.Scene
	camera   *scene.Camera
	fitWorld bool // World size follows the viewport on resize
	paused   bool
	tick     uint64
}

// New creates an instance with no scene loaded.
func New(cfg Config, ctrls Controllers) *GameInstance {
	return &GameInstance{
		cfg:    cfg,
		ctrls:  ctrls,
		input:  core.NewInputQueue(),
		logger: log.New(io.Discard),
	}
}

// SetLogger sets the logger used for non-fatal events.
func (g *GameInstance) SetLogger(l *log.Logger) {
	if l != nil {
		g.logger = l
	}
}

// CreateGameScene builds a registered scene and makes it active. Any
// previous camera is dropped.
func (g *GameInstance) CreateGameScene(name string) error {
	sc, err := registry.Create(name, g.cfg.Runtime)
	if err != nil {
		return err
	}
	g.scene = sc
	g.camera = nil
	g.fitWorld = int(sc.Width) == g.cfg.Runtime.ScreenW && int(sc.Height) == g.cfg.Runtime.ScreenH
	g.logger.Debug("scene created", "scene", name, "objects", len(sc.Objects()))
	return nil
}

// CreateCamera adds a camera to the active scene and renders through it.
func (g *GameInstance) CreateCamera(spec scene.CameraSpec) (*scene.Camera, error) {
	if g.scene == nil {
		return nil, fmt.Errorf("game: cannot create camera %q without a scene", spec.Name)
	}
	cam, err := g.scene.CreateCamera(spec)
	if err != nil {
		return nil, err
	}
	g.camera = cam
	return cam, nil
}

// Input returns the queue input goroutines push into.
func (g *GameInstance) Input() *core.InputQueue {
	return g.input
}

// PollInput consumes one pending event of the given kind.
func (g *GameInstance) PollInput(kind core.GameInput) bool {
	return g.input.Poll(kind)
}

// Shutdown requests the loop to stop.
func (g *GameInstance) Shutdown() {
	g.shutdown.Store(true)
}

// IsShutDown reports whether shutdown was requested.
func (g *GameInstance) IsShutDown() bool {
	return g.shutdown.Load()
}

// Scene returns the active scene, or nil.
func (g *GameInstance) Scene() *scene.Scene {
	return g.scene
}

// Camera returns the active camera, or nil.
func (g *GameInstance) Camera() *scene.Camera {
	return g.camera
}

// Tick returns the number of successful updates.
func (g *GameInstance) Tick() uint64 {
	return g.tick
}

// Paused reports whether the simulation is frozen.
func (g *GameInstance) Paused() bool {
	return g.paused
}

// Update runs one simulation tick. It returns CodeOK or one of the failure
// codes, which stops the loop.
func (g *GameInstance) Update() int {
	if g.scene == nil {
		g.logger.Error("update without a scene")
		return CodeNoScene
	}
	if g.camera == nil {
		g.logger.Error("update without a camera", "scene", g.scene.Name)
		return CodeNoCamera
	}

	if w, h, ok := g.input.TakeResize(); ok {
		g.ctrls.Graphics.Resize(w, h)
		if g.fitWorld {
			g.scene.Resize(float64(w), float64(h))
		}
	}

	if g.input.Poll(core.InputPause) {
		g.paused = !g.paused
		g.logger.Info("pause toggled", "paused", g.paused)
	}
	if g.input.Poll(core.InputScreenshot) {
		if path, err := g.ctrls.Graphics.SaveScreenshot(g.cfg.ScreenshotDir, g.scene.Name); err != nil {
			g.logger.Warn("screenshot failed", "err", err)
		} else {
			g.logger.Info("screenshot saved", "path", path)
		}
	}

	if !g.paused {
		g.steer()

		if err := g.ctrls.Physics.Step(g.scene, g.cfg.Runtime.TickSeconds()); err != nil {
			g.logger.Error("physics step failed", "err", err, "tick", g.tick)
			return CodePhysics
		}
		g.ctrls.Animation.Step(g.scene)
	}

	if err := g.ctrls.Graphics.Render(g.scene, g.camera); err != nil {
		g.logger.Error("render failed", "err", err, "tick", g.tick)
		return CodeRender
	}

	g.tick++
	return CodeOK
}

// steer applies pending movement input to every player object. Dynamic
// players jump and fall; kinematic players also move vertically.
func (g *GameInstance) steer() {
	left := g.input.Poll(core.InputLeft)
	right := g.input.Poll(core.InputRight)
	up := g.input.Poll(core.InputUp)
	down := g.input.Poll(core.InputDown)
	jump := g.input.Poll(core.InputJump)

	for _, p := range g.scene.Tagged(PlayerTag) {
		switch {
		case left && !right:
			p.Velocity.X = -g.cfg.PlayerSpeed
		case right && !left:
			p.Velocity.X = g.cfg.PlayerSpeed
		default:
			p.Velocity.X = damp(p.Velocity.X)
		}

		if p.Dynamic {
			if jump || up {
				p.Velocity.Y = -g.cfg.JumpSpeed
			}
			continue
		}

		switch {
		case up && !down:
			p.Velocity.Y = -g.cfg.PlayerSpeed
		case down && !up:
			p.Velocity.Y = g.cfg.PlayerSpeed
		default:
			p.Velocity.Y = damp(p.Velocity.Y)
		}
	}
}

func damp(v float64) float64 {
	v *= moveDamping
	if math.Abs(v) < 0.5 {
		return 0
	}
	return v
}
