// Package app assembles a runnable session from configuration: the game
// instance and its controllers, the startup scene and camera, the shader
// programs, the run record and the frame loop.
package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/studious/internal/animation"
	"github.com/vovakirdan/studious/internal/config"
	"github.com/vovakirdan/studious/internal/core"
	"github.com/vovakirdan/studious/internal/engine"
	"github.com/vovakirdan/studious/internal/game"
	"github.com/vovakirdan/studious/internal/gfx"
	"github.com/vovakirdan/studious/internal/physics"
	"github.com/vovakirdan/studious/internal/scene"
	"github.com/vovakirdan/studious/internal/storage"

	// Register scenes
	_ "github.com/vovakirdan/studious/internal/scenes/demo"
	_ "github.com/vovakirdan/studious/internal/scenes/stress"
)

// Run modes recorded with each run.
const (
	ModeLocal    = "local"
	ModeHeadless = "headless"
	ModeSSH      = "ssh"
)

// Options configures Build.
type Options struct {
	Config config.StudiousConfig
	Mode   string

	// Viewport size; zero values use the configured window size
	Width, Height int

	Store    *storage.Store  // Run history; nil disables persistence
	Reporter engine.Reporter // Extra FPS sink (stdout, HUD); may be nil
	Clock    engine.Clock    // nil uses the monotonic clock
	Shaders  fs.FS           // nil uses graphics.shader_dir or the bundle
	Logger   *log.Logger
}

// Runtime is an assembled session ready to run.
type Runtime struct {
	cfg      config.StudiousConfig
	mode     string
	logger   *log.Logger
	instance *game.GameInstance
	graphics *gfx.TerminalController
	loop     *engine.Loop
	recorder *storage.Recorder
	store    *storage.Store
	runID    int64

	done    chan struct{}
	runOnce sync.Once
}

// Build creates the instance, loads the configured scene and every shader
// program of the profile, creates the camera, opens a run record and wires
// the frame loop.
func Build(opts Options) (*Runtime, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Mode == "" {
		opts.Mode = ModeLocal
	}

	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = cfg.Window.Width, cfg.Window.Height
	}
	rc := core.RuntimeConfig{
		ScreenW:  w,
		ScreenH:  h,
		TickRate: cfg.Physics.TickRate,
		Seed:     cfg.Scene.Seed,
	}

	shaders := opts.Shaders
	if shaders == nil {
		if cfg.Graphics.ShaderDir != "" {
			shaders = os.DirFS(config.ExpandHome(cfg.Graphics.ShaderDir))
		} else {
			shaders = gfx.ShaderFS
		}
	}

	graphics := gfx.NewTerminalController(w, h, shaders)
	instance := game.New(game.Config{
		Runtime:       rc,
		ScreenshotDir: cfg.Scene.ScreenshotDir,
		PlayerSpeed:   cfg.Physics.PlayerSpeed,
		JumpSpeed:     cfg.Physics.JumpSpeed,
	}, game.Controllers{
		Graphics: graphics,
		Physics: physics.New(physics.Config{
			GravityScale: cfg.Physics.GravityScale,
			MaxSpeed:     cfg.Physics.MaxSpeed,
		}),
		Animation: animation.New(),
	})
	instance.SetLogger(logger)

	if err := instance.CreateGameScene(cfg.Scene.Name); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	programs := gfx.Programs(cfg.Graphics.Embedded)
	if err := graphics.LoadAll(programs); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	logger.Debug("shaders loaded", "profile", gfx.Profile(cfg.Graphics.Embedded), "programs", len(programs))

	if _, err := instance.CreateCamera(scene.CameraSpec{Name: cfg.Scene.Camera}); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	rt := &Runtime{
		cfg:      cfg,
		mode:     opts.Mode,
		logger:   logger,
		instance: instance,
		graphics: graphics,
		recorder: storage.NewRecorder(),
		store:    opts.Store,
		done:     make(chan struct{}),
	}

	if rt.store != nil {
		id, err := rt.store.BeginRun(storage.RunInfo{
			Scene:   cfg.Scene.Name,
			Profile: gfx.Profile(cfg.Graphics.Embedded),
			Mode:    opts.Mode,
		})
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		rt.runID = id
	}

	clock := opts.Clock
	if clock == nil {
		clock = engine.NewMonotonicClock()
	}
	rt.loop = engine.NewLoop(instance, clock, engine.LoopConfig{
		ShowFPS:        cfg.Graphics.ShowFPS,
		SampleInterval: cfg.Graphics.FPSInterval,
		MaxFrames:      cfg.Loop.MaxFrames,
		TimeBudget:     cfg.Loop.TimeBudget,
	}, engine.MultiReporter{rt.recorder, opts.Reporter})
	rt.loop.SetLogger(logger)

	return rt, nil
}

// Run drives the frame loop on the calling goroutine until shutdown or
// failure, then stores the run record and closes Done. It may only be
// called once.
func (r *Runtime) Run() error {
	err := errors.New("app: runtime already ran")
	r.runOnce.Do(func() {
		defer close(r.done)
		r.logger.Info("run starting", "scene", r.cfg.Scene.Name, "mode", r.mode)

		err = r.loop.Run()
		r.finish(engine.ExitCode(err))
	})
	return err
}

func (r *Runtime) finish(exitCode int) {
	if r.store == nil {
		return
	}
	res := storage.RunResult{
		Frames:     r.loop.Frames(),
		ExitCode:   exitCode,
		StopReason: r.loop.StopReason().String(),
		Reports:    r.recorder.Reports(),
	}
	if err := r.store.FinishRun(r.runID, res); err != nil {
		r.logger.Warn("cannot store run", "run", r.runID, "err", err)
	}
}

// Done is closed once Run has returned.
func (r *Runtime) Done() <-chan struct{} {
	return r.done
}

// Shutdown asks the loop to stop. Safe for concurrent use.
func (r *Runtime) Shutdown() {
	r.instance.Shutdown()
}

// Input returns the queue the front end pushes input into.
func (r *Runtime) Input() *core.InputQueue {
	return r.instance.Input()
}

// Graphics returns the renderer, for display goroutines to Snapshot.
func (r *Runtime) Graphics() *gfx.TerminalController {
	return r.graphics
}

// Snapshot calls fn with the last rendered frame. Safe for concurrent use.
func (r *Runtime) Snapshot(fn func(*core.Screen)) {
	r.graphics.Snapshot(fn)
}

// SceneName returns the name of the running scene.
func (r *Runtime) SceneName() string {
	return r.cfg.Scene.Name
}

// Instance returns the game instance.
func (r *Runtime) Instance() *game.GameInstance {
	return r.instance
}

// Loop returns the frame loop.
func (r *Runtime) Loop() *engine.Loop {
	return r.loop
}

// Reports returns the FPS reports recorded so far.
func (r *Runtime) Reports() []float64 {
	return r.recorder.Reports()
}

// RunID returns the run record ID, or 0 without persistence.
func (r *Runtime) RunID() int64 {
	return r.runID
}
