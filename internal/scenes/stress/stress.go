// Package stress provides a scene packed with free-flying particles, used to
// measure loop throughput.
package stress

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/studious/internal/core"
	"github.com/vovakirdan/studious/internal/gfx"
	"github.com/vovakirdan/studious/internal/registry"
	"github.com/vovakirdan/studious/internal/scene"
)

// Name is the registry name of the scene.
const Name = "stress-scene"

// MaxParticles caps the particle count for very large viewports.
const MaxParticles = 400

var palette = []core.Color{
	core.ColorRed, core.ColorGreen, core.ColorYellow, core.ColorBlue,
	core.ColorMagenta, core.ColorCyan, core.ColorOrange,
}

func init() {
	registry.Register(Name, "hundreds of seeded particles bouncing off the walls", Build)
}

// ParticleCount returns how many particles a w x h world holds.
func ParticleCount(w, h int) int {
	n := w * h / 8
	if n > MaxParticles {
		return MaxParticles
	}
	return core.Max(n, 1)
}

// Build scatters particles with the configured seed. The same seed always
// produces the same layout.
func Build(cfg core.RuntimeConfig) *scene.Scene {
	w := core.Max(cfg.ScreenW, 1)
	h := core.Max(cfg.ScreenH, 1)
	rng := rand.New(rand.NewSource(cfg.Seed))

	sc := scene.New(Name, float64(w), float64(h))
	count := ParticleCount(w, h)
	for i := 0; i < count; i++ {
		sc.MustAdd(&scene.Object{
			Name:     fmt.Sprintf("p%03d", i),
			Program:  gfx.ProgramGame,
			Position: core.V2(rng.Float64()*float64(w-1), rng.Float64()*float64(h-1)),
			Velocity: core.V2(rng.Float64()*40-20, rng.Float64()*20-10),
			W:        1,
			H:        1,
			Glyph:    '•',
			Color:    palette[rng.Intn(len(palette))],
			Dynamic:  true,
			Bounce:   1,
			Tags:     []string{"particle"},
		})
	}

	sc.MustAdd(&scene.Object{
		Name:    "counter",
		Program: gfx.ProgramUI,
		Text:    fmt.Sprintf(" %d particles ", count),
		Color:   core.ColorBrightWhite,
	})
	return sc
}
