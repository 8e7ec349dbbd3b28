// Package scene holds the object graph a game instance simulates and draws:
// objects, sprites and cameras.
package scene

import (
	"fmt"

	"github.com/vovakirdan/studious/internal/core"
)

// Object is a single entity in a scene.
type Object struct {
	Name    string
	Program string // Shader program used to draw the object

	Position core.Vec2 // Top-left corner in world units
	Velocity core.Vec2 // World units per second
	W, H     int       // Size in cells

	Glyph rune
	Color core.Color
	Text  string // Content for text and UI programs

	Dynamic  bool    // Affected by gravity and integrated by physics
	Collider bool    // Takes part in collision tests
	Bounce   float64 // Restitution on impact, 0..1

	Sprite *Sprite
	Tags   []string
}

// Bounds returns the cell rectangle the object covers.
func (o *Object) Bounds() core.Rect {
	return core.RectAt(o.Position, o.W, o.H)
}

// HasTag reports whether the object carries the tag.
func (o *Object) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Scene is a named collection of objects living in a bounded world.
type Scene struct {
	Name    string
	Width   float64 // World extent; objects are kept inside [0, Width) x [0, Height)
	Height  float64
	Gravity float64 // Downward acceleration in units/s^2

	objects []*Object
	byName  map[string]*Object
	cameras map[string]*Camera
}

// New creates an empty scene of the given world size.
func New(name string, width, height float64) *Scene {
	return &Scene{
		Name:    name,
		Width:   width,
		Height:  height,
		byName:  make(map[string]*Object),
		cameras: make(map[string]*Camera),
	}
}

// AddObject appends an object to the scene. Names must be unique.
func (s *Scene) AddObject(obj *Object) error {
	if obj.Name == "" {
		return fmt.Errorf("scene: object in %q has no name", s.Name)
	}
	if _, exists := s.byName[obj.Name]; exists {
		return fmt.Errorf("scene: duplicate object %q in %q", obj.Name, s.Name)
	}
	s.objects = append(s.objects, obj)
	s.byName[obj.Name] = obj
	return nil
}

// MustAdd is AddObject for scene builders with static content.
func (s *Scene) MustAdd(objs ...*Object) {
	for _, obj := range objs {
		if err := s.AddObject(obj); err != nil {
			panic(err)
		}
	}
}

// Objects returns the objects in insertion (draw) order.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Find looks an object up by name.
func (s *Scene) Find(name string) (*Object, bool) {
	obj, ok := s.byName[name]
	return obj, ok
}

// Tagged returns all objects carrying the tag.
func (s *Scene) Tagged(tag string) []*Object {
	var out []*Object
	for _, obj := range s.objects {
		if obj.HasTag(tag) {
			out = append(out, obj)
		}
	}
	return out
}

// Resize changes the world extent and pulls objects back inside it.
func (s *Scene) Resize(width, height float64) {
	s.Width = width
	s.Height = height
	for _, obj := range s.objects {
		obj.Position.X = core.ClampF(obj.Position.X, 0, maxF(0, width-float64(obj.W)))
		obj.Position.Y = core.ClampF(obj.Position.Y, 0, maxF(0, height-float64(obj.H)))
	}
}

// CreateCamera adds a camera to the scene. A non-empty target must name an
// existing object.
func (s *Scene) CreateCamera(spec CameraSpec) (*Camera, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("scene: camera in %q has no name", s.Name)
	}
	if _, exists := s.cameras[spec.Name]; exists {
		return nil, fmt.Errorf("scene: duplicate camera %q in %q", spec.Name, s.Name)
	}

	cam := &Camera{Name: spec.Name, Offset: spec.Offset}
	if spec.Target != "" {
		target, ok := s.byName[spec.Target]
		if !ok {
			return nil, fmt.Errorf("scene: camera %q targets unknown object %q", spec.Name, spec.Target)
		}
		cam.Target = target
	}
	s.cameras[spec.Name] = cam
	return cam, nil
}

// Camera returns a camera by name.
func (s *Scene) Camera(name string) (*Camera, bool) {
	cam, ok := s.cameras[name]
	return cam, ok
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
