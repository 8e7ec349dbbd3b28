package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/studious.yaml
var defaultYAML []byte

// DefaultConfig returns the default runtime configuration.
func DefaultConfig() StudiousConfig {
	return StudiousConfig{
		Window: WindowConfig{
			Width:  80,
			Height: 24,
		},
		Graphics: GraphicsConfig{
			Embedded:    false,
			ShowFPS:     true,
			FPSInterval: 1.0,
		},
		Physics: PhysicsConfig{
			TickRate:     60,
			GravityScale: 1.0,
			MaxSpeed:     120,
			PlayerSpeed:  24,
			JumpSpeed:    30,
		},
		Loop: LoopConfig{
			MaxFrames:  0,
			TimeBudget: time.Duration(0),
		},
		Scene: SceneConfig{
			Name:          "demo-scene",
			Camera:        "mainCamera",
			Seed:          1,
			ScreenshotDir: "screenshots",
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    "~/.studious/studious.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.studious/studious.log",
		},
	}
}
