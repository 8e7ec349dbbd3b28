package scene

// Sprite is a looping frame animation of glyphs.
type Sprite struct {
	Frames        []rune
	TicksPerFrame int // Ticks each frame stays on screen; values below 1 mean 1

	frame int
	tick  int
}

// NewSprite creates a sprite starting on its first frame.
func NewSprite(ticksPerFrame int, frames ...rune) *Sprite {
	return &Sprite{Frames: frames, TicksPerFrame: ticksPerFrame}
}

// Advance moves the animation forward by one tick.
func (s *Sprite) Advance() {
	if len(s.Frames) < 2 {
		return
	}
	per := s.TicksPerFrame
	if per < 1 {
		per = 1
	}
	s.tick++
	if s.tick >= per {
		s.tick = 0
		s.frame = (s.frame + 1) % len(s.Frames)
	}
}

// Current returns the glyph of the current frame, or fallback when the
// sprite has no frames.
func (s *Sprite) Current(fallback rune) rune {
	if len(s.Frames) == 0 {
		return fallback
	}
	return s.Frames[s.frame]
}

// Frame returns the index of the current frame.
func (s *Sprite) Frame() int {
	return s.frame
}
