// Package animation advances sprite animations once per simulation tick.
package animation

import "github.com/vovakirdan/studious/internal/scene"

// Controller steps every sprite in a scene.
type Controller struct {
	ticks  uint64
	frozen bool
}

// New creates an animation controller.
func New() *Controller {
	return &Controller{}
}

// SetFrozen stops or resumes animation.
func (c *Controller) SetFrozen(frozen bool) {
	c.frozen = frozen
}

// Frozen reports whether animation is stopped.
func (c *Controller) Frozen() bool {
	return c.frozen
}

// Ticks returns how many ticks have been applied.
func (c *Controller) Ticks() uint64 {
	return c.ticks
}

// Step advances every sprite by one tick and refreshes the glyph of its
// object. It returns the number of sprites advanced.
func (c *Controller) Step(sc *scene.Scene) int {
	if c.frozen {
		return 0
	}
	c.ticks++

	n := 0
	for _, obj := range sc.Objects() {
		if obj.Sprite == nil {
			continue
		}
		obj.Sprite.Advance()
		obj.Glyph = obj.Sprite.Current(obj.Glyph)
		n++
	}
	return n
}
