package scene

import (
	"testing"

	"github.com/vovakirdan/studious/internal/core"
)

func TestSceneAddFind(t *testing.T) {
	s := New("test", 80, 24)

	if err := s.AddObject(&Object{Name: "a"}); err != nil {
		t.Fatalf("AddObject(a) failed: %v", err)
	}
	if err := s.AddObject(&Object{Name: "a"}); err == nil {
		t.Error("AddObject should reject duplicate names")
	}
	if err := s.AddObject(&Object{}); err == nil {
		t.Error("AddObject should reject empty names")
	}

	obj, ok := s.Find("a")
	if !ok || obj.Name != "a" {
		t.Errorf("Find(a) = %v, %v", obj, ok)
	}
	if _, ok := s.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
	if len(s.Objects()) != 1 {
		t.Errorf("Objects() has %d entries, expected 1", len(s.Objects()))
	}
}

func TestSceneTagged(t *testing.T) {
	s := New("test", 10, 10)
	s.MustAdd(
		&Object{Name: "p", Tags: []string{"player"}},
		&Object{Name: "b1", Tags: []string{"ball"}},
		&Object{Name: "b2", Tags: []string{"ball", "bright"}},
	)

	balls := s.Tagged("ball")
	if len(balls) != 2 || balls[0].Name != "b1" || balls[1].Name != "b2" {
		t.Errorf("Tagged(ball) = %v", balls)
	}
	if len(s.Tagged("nothing")) != 0 {
		t.Error("Tagged(nothing) should be empty")
	}
}

func TestSceneMustAddPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustAdd should panic on duplicate names")
		}
	}()
	s := New("test", 10, 10)
	s.MustAdd(&Object{Name: "x"}, &Object{Name: "x"})
}

func TestSceneResizeClampsObjects(t *testing.T) {
	s := New("test", 80, 24)
	s.MustAdd(&Object{Name: "box", Position: core.V2(70, 20), W: 4, H: 2})

	s.Resize(40, 10)

	obj, _ := s.Find("box")
	if obj.Position != core.V2(36, 8) {
		t.Errorf("Position after resize = %v, expected {36 8}", obj.Position)
	}
}

func TestCreateCamera(t *testing.T) {
	s := New("test", 80, 24)
	s.MustAdd(&Object{Name: "player", Position: core.V2(40, 12), W: 2, H: 2})

	if _, err := s.CreateCamera(CameraSpec{}); err == nil {
		t.Error("unnamed camera should fail")
	}
	if _, err := s.CreateCamera(CameraSpec{Name: "c", Target: "ghost"}); err == nil {
		t.Error("camera with unknown target should fail")
	}

	cam, err := s.CreateCamera(CameraSpec{Name: "follow", Target: "player"})
	if err != nil {
		t.Fatalf("CreateCamera failed: %v", err)
	}
	if cam.Target == nil || cam.Target.Name != "player" {
		t.Error("camera should resolve its target")
	}
	if _, err := s.CreateCamera(CameraSpec{Name: "follow"}); err == nil {
		t.Error("duplicate camera name should fail")
	}
	if got, ok := s.Camera("follow"); !ok || got != cam {
		t.Error("Camera(follow) should return the created camera")
	}
}

func TestCameraOrigin(t *testing.T) {
	target := &Object{Name: "t", Position: core.V2(40, 12), W: 2, H: 2}

	tests := []struct {
		name         string
		cam          Camera
		wantX, wantY int
	}{
		{"fixed at zero", Camera{}, 0, 0},
		{"fixed with offset", Camera{Offset: core.V2(5.7, -2.2)}, 5, -3},
		// target centre (41, 13) minus half the 20x10 screen
		{"following", Camera{Target: target}, 31, 8},
		{"following with offset", Camera{Target: target, Offset: core.V2(2, 0)}, 33, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := tc.cam.Origin(20, 10)
			if x != tc.wantX || y != tc.wantY {
				t.Errorf("Origin() = (%d, %d), expected (%d, %d)", x, y, tc.wantX, tc.wantY)
			}
		})
	}
}

func TestCameraToScreen(t *testing.T) {
	cam := &Camera{Offset: core.V2(10, 5)}
	got := cam.ToScreen(core.NewRect(12, 6, 3, 1), 80, 24)
	if got != core.NewRect(2, 1, 3, 1) {
		t.Errorf("ToScreen() = %+v, expected {2 1 3 1}", got)
	}
}

func TestSpriteAdvance(t *testing.T) {
	sp := NewSprite(2, 'a', 'b', 'c')

	var seen []rune
	for i := 0; i < 7; i++ {
		seen = append(seen, sp.Current('?'))
		sp.Advance()
	}
	if string(seen) != "aabbcca" {
		t.Errorf("frames = %q, expected %q", string(seen), "aabbcca")
	}
}

func TestSpriteDegenerate(t *testing.T) {
	empty := NewSprite(1)
	empty.Advance()
	if empty.Current('x') != 'x' {
		t.Error("empty sprite should return fallback")
	}

	single := NewSprite(0, 'o')
	single.Advance()
	if single.Current('x') != 'o' || single.Frame() != 0 {
		t.Error("single-frame sprite should stay on frame 0")
	}

	fast := NewSprite(0, '1', '2')
	fast.Advance()
	if fast.Current('x') != '2' {
		t.Error("ticks per frame below 1 should advance every tick")
	}
}
