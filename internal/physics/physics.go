// Package physics integrates scene objects with a fixed timestep: gravity,
// velocity, collisions against solid objects and the world bounds.
package physics

import (
	"fmt"
	"math"

	"github.com/vovakirdan/studious/internal/core"
	"github.com/vovakirdan/studious/internal/scene"
)

// Config tunes the integrator.
type Config struct {
	GravityScale float64 // Multiplier applied to the scene's gravity
	MaxSpeed     float64 // Speed cap in units/s; 0 disables the cap
}

// DefaultConfig returns the integrator settings used by the demo.
func DefaultConfig() Config {
	return Config{
		GravityScale: 1.0,
		MaxSpeed:     120,
	}
}

// Controller advances the physical state of a scene.
type Controller struct {
	cfg Config
}

// New creates a physics controller.
func New(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

// Step advances every moving object by dt seconds.
//
// Dynamic objects feel gravity; any object with a velocity is integrated.
// Dynamic colliders bounce off non-dynamic colliders and all moving objects
// are kept inside the scene bounds.
func (c *Controller) Step(sc *scene.Scene, dt float64) error {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("physics: invalid timestep %v", dt)
	}

	gravity := sc.Gravity * c.cfg.GravityScale
	objects := sc.Objects()

	for _, obj := range objects {
		if !obj.Dynamic && obj.Velocity == (core.Vec2{}) {
			continue
		}

		if obj.Dynamic {
			obj.Velocity.Y += gravity * dt
		}
		obj.Velocity = c.capSpeed(obj.Velocity)

		prev := obj.Bounds()
		obj.Position = obj.Position.Add(obj.Velocity.Scale(dt))

		if obj.Dynamic && obj.Collider {
			for _, other := range objects {
				if other == obj || !other.Collider || other.Dynamic {
					continue
				}
				resolve(obj, other, prev)
			}
		}

		keepInside(obj, sc.Width, sc.Height)

		if !obj.Position.IsFinite() || !obj.Velocity.IsFinite() {
			return fmt.Errorf("physics: object %q has non-finite state", obj.Name)
		}
	}
	return nil
}

func (c *Controller) capSpeed(v core.Vec2) core.Vec2 {
	if c.cfg.MaxSpeed <= 0 {
		return v
	}
	speed := math.Hypot(v.X, v.Y)
	if speed <= c.cfg.MaxSpeed || speed == 0 {
		return v
	}
	return v.Scale(c.cfg.MaxSpeed / speed)
}

// resolve pushes obj out of a solid object it moved into. The axis is chosen
// from the previous frame: if obj was already overlapping vertically, the hit
// came from the side.
func resolve(obj, solid *scene.Object, prev core.Rect) {
	box := obj.Bounds()
	wall := solid.Bounds()
	if !box.Intersects(wall) {
		return
	}

	verticalOverlapBefore := prev.Y < wall.Bottom() && wall.Y < prev.Bottom()
	if !verticalOverlapBefore {
		if prev.Y < wall.Y {
			obj.Position.Y = float64(wall.Y - obj.H)
		} else {
			obj.Position.Y = float64(wall.Bottom())
		}
		obj.Velocity.Y = -obj.Velocity.Y * obj.Bounce
		return
	}

	if prev.X < wall.X {
		obj.Position.X = float64(wall.X - obj.W)
	} else {
		obj.Position.X = float64(wall.Right())
	}
	obj.Velocity.X = -obj.Velocity.X * obj.Bounce
}

func keepInside(obj *scene.Object, width, height float64) {
	maxX := width - float64(obj.W)
	maxY := height - float64(obj.H)

	if obj.Position.X < 0 {
		obj.Position.X = 0
		obj.Velocity.X = -obj.Velocity.X * obj.Bounce
	} else if obj.Position.X > maxX {
		obj.Position.X = math.Max(0, maxX)
		obj.Velocity.X = -obj.Velocity.X * obj.Bounce
	}

	if obj.Position.Y < 0 {
		obj.Position.Y = 0
		obj.Velocity.Y = -obj.Velocity.Y * obj.Bounce
	} else if obj.Position.Y > maxY {
		obj.Position.Y = math.Max(0, maxY)
		obj.Velocity.Y = -obj.Velocity.Y * obj.Bounce
	}
}
