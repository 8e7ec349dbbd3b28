package scene

import (
	"math"

	"github.com/vovakirdan/studious/internal/core"
)

// CameraSpec describes a camera to create.
type CameraSpec struct {
	Name   string
	Target string    // Object to follow; empty for a fixed camera
	Offset core.Vec2 // World offset applied to the view origin
}

// Camera maps world coordinates to screen cells.
type Camera struct {
	Name   string
	Target *Object
	Offset core.Vec2
}

// Origin returns the world cell drawn at the screen's top-left corner.
// A fixed camera shows the world from Offset; a following camera keeps its
// target's centre in the middle of the screen.
func (c *Camera) Origin(screenW, screenH int) (int, int) {
	if c.Target == nil {
		return int(math.Floor(c.Offset.X)), int(math.Floor(c.Offset.Y))
	}

	cx := c.Target.Position.X + float64(c.Target.W)/2 + c.Offset.X
	cy := c.Target.Position.Y + float64(c.Target.H)/2 + c.Offset.Y
	return int(math.Floor(cx)) - screenW/2, int(math.Floor(cy)) - screenH/2
}

// ToScreen converts a world rectangle into screen space.
func (c *Camera) ToScreen(r core.Rect, screenW, screenH int) core.Rect {
	ox, oy := c.Origin(screenW, screenH)
	return r.Translate(-ox, -oy)
}
