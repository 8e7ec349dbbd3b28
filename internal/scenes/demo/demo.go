// Package demo provides the default scene: a floor, a floating platform,
// bouncing balls and a player that can walk and jump.
package demo

import (
	"fmt"

	"github.com/vovakirdan/studious/internal/core"
	"github.com/vovakirdan/studious/internal/gfx"
	"github.com/vovakirdan/studious/internal/registry"
	"github.com/vovakirdan/studious/internal/scene"
)

// Name is the registry name of the scene.
const Name = "demo-scene"

// Smallest world the layout fits in.
const (
	minWidth  = 24
	minHeight = 12
)

const gravity = 40.0

func init() {
	registry.Register(Name, "floor, platform, bouncing balls and a steerable player", Build)
}

// Build lays the scene out for the configured viewport.
func Build(cfg core.RuntimeConfig) *scene.Scene {
	w := core.Max(cfg.ScreenW, minWidth)
	h := core.Max(cfg.ScreenH, minHeight)

	sc := scene.New(Name, float64(w), float64(h))
	sc.Gravity = gravity

	floorY := h - 3
	sc.MustAdd(
		&scene.Object{
			Name:     "floor",
			Program:  gfx.ProgramTile,
			Position: core.V2(0, float64(floorY)),
			W:        w,
			H:        1,
			Glyph:    '▀',
			Color:    core.ColorGreen,
			Collider: true,
		},
		&scene.Object{
			Name:     "platform",
			Program:  gfx.ProgramCollider,
			Position: core.V2(float64(w/2-6), float64(floorY-7)),
			W:        12,
			H:        3,
			Color:    core.ColorGray,
			Collider: true,
		},
		&scene.Object{
			Name:     "title",
			Program:  gfx.ProgramText,
			Position: core.V2(2, 1),
			Text:     "studious",
			Color:    core.ColorBrightCyan,
		},
	)

	balls := []struct {
		x, y   float64
		vx, vy float64
		color  core.Color
	}{
		{3, 2, 14, 0, core.ColorBrightRed},
		{float64(w) / 2, 1, -10, 4, core.ColorBrightYellow},
		{float64(w) - 5, 3, -18, -6, core.ColorBrightMagenta},
	}
	for i, b := range balls {
		sc.MustAdd(&scene.Object{
			Name:     fmt.Sprintf("ball-%d", i+1),
			Program:  gfx.ProgramSprite,
			Position: core.V2(b.x, b.y),
			Velocity: core.V2(b.vx, b.vy),
			W:        1,
			H:        1,
			Glyph:    'o',
			Color:    b.color,
			Dynamic:  true,
			Collider: true,
			Bounce:   0.9,
			Sprite:   scene.NewSprite(6, 'o', 'O', '0', 'O'),
			Tags:     []string{"ball"},
		})
	}

	sc.MustAdd(
		&scene.Object{
			Name:     "player",
			Program:  gfx.ProgramGame,
			Position: core.V2(4, float64(floorY-1)),
			W:        1,
			H:        1,
			Glyph:    '@',
			Color:    core.ColorBrightWhite,
			Dynamic:  true,
			Collider: true,
			Tags:     []string{"player"},
		},
		&scene.Object{
			Name:     "hint",
			Program:  gfx.ProgramUI,
			Position: core.V2(1, float64(h-1)),
			Text:     "←/→ move  space jump  p pause  ^s screenshot  q quit",
			Color:    core.ColorGray,
		},
	)
	return sc
}
