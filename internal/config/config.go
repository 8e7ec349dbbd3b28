// Package config provides YAML-based runtime configuration loading for
// studious.
package config

import (
	"errors"
	"fmt"
	"time"
)

// StudiousConfig contains all runtime configuration.
type StudiousConfig struct {
	Window   WindowConfig   `yaml:"window"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Loop     LoopConfig     `yaml:"loop"`
	Scene    SceneConfig    `yaml:"scene"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// WindowConfig is the fallback viewport size.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// GraphicsConfig selects the shader profile and FPS diagnostics.
type GraphicsConfig struct {
	Embedded    bool    `yaml:"embedded"`     // Use the ES shader profile
	ShowFPS     bool    `yaml:"show_fps"`     // Emit periodic FPS reports
	FPSInterval float64 `yaml:"fps_interval"` // Seconds of frame time per report
	ShaderDir   string  `yaml:"shader_dir"`   // Load shaders from disk instead of the bundle
}

// PhysicsConfig tunes the simulation.
type PhysicsConfig struct {
	TickRate     int     `yaml:"tick_rate"` // Fixed simulation ticks per second
	GravityScale float64 `yaml:"gravity_scale"`
	MaxSpeed     float64 `yaml:"max_speed"`
	PlayerSpeed  float64 `yaml:"player_speed"`
	JumpSpeed    float64 `yaml:"jump_speed"`
}

// LoopConfig bounds headless runs.
type LoopConfig struct {
	MaxFrames  int           `yaml:"max_frames"`
	TimeBudget time.Duration `yaml:"time_budget"`
}

// SceneConfig picks the scene and camera created at startup.
type SceneConfig struct {
	Name          string `yaml:"name"`
	Camera        string `yaml:"camera"`
	Seed          int64  `yaml:"seed"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// StorageConfig controls the run history database.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file for interactive runs
}

// Validate checks values that would make the runtime misbehave.
func (c StudiousConfig) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Physics.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("physics.tick_rate must be positive, got %d", c.Physics.TickRate))
	}
	if c.Graphics.FPSInterval <= 0 {
		errs = append(errs, fmt.Errorf("graphics.fps_interval must be positive, got %v", c.Graphics.FPSInterval))
	}
	if c.Loop.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("loop.max_frames must not be negative, got %d", c.Loop.MaxFrames))
	}
	if c.Loop.TimeBudget < 0 {
		errs = append(errs, fmt.Errorf("loop.time_budget must not be negative, got %v", c.Loop.TimeBudget))
	}
	if c.Scene.Name == "" {
		errs = append(errs, errors.New("scene.name must not be empty"))
	}
	if c.Scene.Camera == "" {
		errs = append(errs, errors.New("scene.camera must not be empty"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
