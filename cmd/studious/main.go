// studious is a terminal rendition of a small 2D game runtime: a frame loop
// with FPS diagnostics driving a scene of physics objects, sprites and text
// drawn through named shader programs.
//
// Usage:
//
//	studious run              - Run the demo scene in this terminal
//	studious run --headless   - Run without a display, printing FPS reports
//	studious serve            - Start SSH server, one session per connection
//	studious scenes           - List registered scenes
//	studious programs         - List shader programs of the active profile
//	studious stats            - Show run history and FPS statistics
//	studious config           - Print the effective configuration
//
// Global flags:
//
//	--config <path>  - Config file (default search: ~/.studious, ./config.yaml)
//	--db <path>      - Run history database (overrides storage.path)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/studious/internal/config"
	"github.com/vovakirdan/studious/internal/engine"
	"github.com/vovakirdan/studious/internal/storage"
)

var (
	// Global flags
	flagConfig string
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(engine.ExitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "studious",
	Short: "studious - a 2D game runtime that renders to your terminal",
	Long: `studious runs a small 2D game scene in the terminal: a fixed-tick
physics step, sprite animation and a renderer driven by named shader
programs, paced by a frame loop that reports its frame rate.

Available commands:
  run       - Run a scene interactively or headless
  serve     - Start SSH server for remote sessions
  scenes    - List registered scenes
  programs  - List shader programs
  stats     - Show run history
  config    - Print the effective configuration

Examples:
  studious run
  studious run --headless --frames 600
  studious run --scene stress-scene --embedded
  studious serve --ssh :2222
  studious stats`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database (overrides storage.path)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scenesCmd)
	rootCmd.AddCommand(programsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the configuration and applies the persistent flags.
// Callers apply their own overrides and then validate.
func loadConfig() (config.StudiousConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Storage.Enabled = true
		cfg.Storage.Path = flagDBPath
	}
	return cfg, nil
}

// newLogger creates the process logger. Interactive runs log to log.file so
// the output does not tear through the frame.
func newLogger(cfg config.StudiousConfig, interactive bool) (*log.Logger, io.Closer, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if interactive {
		if cfg.Log.File == "" {
			w = io.Discard
		} else {
			path := config.ExpandHome(cfg.Log.File)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
			}
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, nil, fmt.Errorf("cannot open log file: %w", err)
			}
			w, closer = f, f
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "studious",
		Level:           level,
	})
	return logger, closer, nil
}

// openStore opens the run history database when storage is enabled. A
// database that cannot be opened only disables persistence.
func openStore(cfg config.StudiousConfig, logger *log.Logger) *storage.Store {
	if !cfg.Storage.Enabled {
		return nil
	}
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("run history disabled", "path", cfg.Storage.Path, "error", err)
		return nil
	}
	return store
}
