package core

// RuntimeConfig is the per-session view of the configuration handed to scene
// builders and the game instance.
type RuntimeConfig struct {
	ScreenW  int   // Viewport width in cells
	ScreenH  int   // Viewport height in cells
	TickRate int   // Fixed simulation ticks per second used by physics
	Seed     int64 // RNG seed for scenes that scatter objects
}

// DefaultConfig returns a RuntimeConfig for a classic 80x24 terminal.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     1,
	}
}

// TickSeconds returns the fixed simulation step in seconds.
// A non-positive tick rate falls back to 60 Hz.
func (c RuntimeConfig) TickSeconds() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}
