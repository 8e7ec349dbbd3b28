package animation

import (
	"testing"

	"github.com/vovakirdan/studious/internal/scene"
)

func TestStepAdvancesSprites(t *testing.T) {
	sc := scene.New("t", 10, 10)
	spinner := &scene.Object{Name: "spin", Glyph: '-', Sprite: scene.NewSprite(1, '-', '\\', '|', '/')}
	plain := &scene.Object{Name: "plain", Glyph: '#'}
	sc.MustAdd(spinner, plain)

	c := New()
	var seen []rune
	for i := 0; i < 5; i++ {
		if n := c.Step(sc); n != 1 {
			t.Fatalf("Step() advanced %d sprites, expected 1", n)
		}
		seen = append(seen, spinner.Glyph)
	}

	if string(seen) != `\|/-\` {
		t.Errorf("glyphs = %q", string(seen))
	}
	if plain.Glyph != '#' {
		t.Error("objects without a sprite keep their glyph")
	}
	if c.Ticks() != 5 {
		t.Errorf("Ticks() = %d, expected 5", c.Ticks())
	}
}

func TestFrozen(t *testing.T) {
	sc := scene.New("t", 10, 10)
	obj := &scene.Object{Name: "o", Glyph: 'a', Sprite: scene.NewSprite(1, 'a', 'b')}
	sc.MustAdd(obj)

	c := New()
	c.SetFrozen(true)
	if !c.Frozen() {
		t.Fatal("Frozen() should be true")
	}
	if n := c.Step(sc); n != 0 || obj.Glyph != 'a' || c.Ticks() != 0 {
		t.Error("frozen controller should not animate")
	}

	c.SetFrozen(false)
	c.Step(sc)
	if obj.Glyph != 'b' {
		t.Errorf("Glyph = %q after resume, expected 'b'", obj.Glyph)
	}
}
