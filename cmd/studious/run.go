package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/studious/internal/app"
	"github.com/vovakirdan/studious/internal/config"
	"github.com/vovakirdan/studious/internal/core"
	"github.com/vovakirdan/studious/internal/engine"
	"github.com/vovakirdan/studious/internal/platform/tui"
	"github.com/vovakirdan/studious/internal/registry"
)

var (
	flagHeadless bool
	flagFrames   int
	flagBudget   time.Duration
	flagScene    string
	flagEmbedded bool
	flagNoFPS    bool
	flagSeed     int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scene",
	Long: `Run the configured scene until it is quit or a budget runs out.

Interactive runs draw the scene in this terminal. Headless runs (--headless,
or when stdout is not a terminal) skip the display and print one
"FPS: <rate>" line per report interval.

Controls:
  Arrows/WASD  - Move the player
  Space        - Jump
  P/Esc        - Pause
  Ctrl+S       - Screenshot
  ?            - Help
  Q/Ctrl+C     - Quit

Examples:
  studious run
  studious run --scene stress-scene
  studious run --headless --frames 1000
  studious run --headless --budget 5s --embedded`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without a display")
	runCmd.Flags().IntVar(&flagFrames, "frames", 0, "Stop after this many frames (0 = unbounded)")
	runCmd.Flags().DurationVar(&flagBudget, "budget", 0, "Stop after this much run time (0 = unbounded)")
	runCmd.Flags().StringVar(&flagScene, "scene", "", "Scene to run (see 'studious scenes')")
	runCmd.Flags().BoolVar(&flagEmbedded, "embedded", false, "Use the ES shader profile")
	runCmd.Flags().BoolVar(&flagNoFPS, "no-fps", false, "Disable FPS reports")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed for scene setup")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !registry.Exists(cfg.Scene.Name) {
		return fmt.Errorf("unknown scene %q, run 'studious scenes' to see available scenes", cfg.Scene.Name)
	}

	interactive := !flagHeadless && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		return runInteractive(cfg)
	}
	return runHeadless(cfg)
}

// applyRunFlags overrides config keys with the flags that were set.
func applyRunFlags(cmd *cobra.Command, cfg *config.StudiousConfig) {
	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Loop.MaxFrames = flagFrames
	}
	if flags.Changed("budget") {
		cfg.Loop.TimeBudget = flagBudget
	}
	if flags.Changed("scene") {
		cfg.Scene.Name = flagScene
	}
	if flags.Changed("embedded") {
		cfg.Graphics.Embedded = flagEmbedded
	}
	if flags.Changed("seed") {
		cfg.Scene.Seed = flagSeed
	}
	if flagNoFPS {
		cfg.Graphics.ShowFPS = false
	}
}

func runHeadless(cfg config.StudiousConfig) error {
	logger, closer, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	rt, err := app.Build(app.Options{
		Config:   cfg,
		Mode:     app.ModeHeadless,
		Store:    store,
		Reporter: engine.NewWriterReporter(os.Stdout),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	// Signals become quit input so the run still ends through the loop
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case <-sigs:
			rt.Input().Push(core.InputQuit)
		case <-rt.Done():
		}
	}()

	return rt.Run()
}

func runInteractive(cfg config.StudiousConfig) error {
	logger, closer, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	width, height := cfg.Window.Width, cfg.Window.Height
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = core.Max(h-tui.FooterHeight, 1)
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	hud := tui.NewHUD()
	rt, err := app.Build(app.Options{
		Config:   cfg,
		Mode:     app.ModeLocal,
		Width:    width,
		Height:   height,
		Store:    store,
		Reporter: hud,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	return tui.Run(rt, hud)
}
