// Package registry provides a global registry of scene builders.
// Scenes register themselves in init() functions, so the runtime can create
// a scene by name without hardcoded dependencies on scene packages.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/studious/internal/core"
	"github.com/vovakirdan/studious/internal/scene"
)

// Builder constructs a fresh scene sized for the given runtime config.
type Builder func(cfg core.RuntimeConfig) *scene.Scene

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	Name        string
	Description string
}

type entry struct {
	build       Builder
	description string
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a scene builder to the registry.
// Typically called from a scene package's init() function.
// Panics if a scene with the same name is already registered.
func Register(name, description string, b Builder) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[name]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", name))
	}
	entries[name] = entry{build: b, description: description}
}

// List returns all registered scenes, sorted by name.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(entries))
	for name, e := range entries {
		result = append(result, SceneInfo{Name: name, Description: e.description})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Create builds a new scene by name.
// Returns an error if the name is not registered.
func Create(name string, cfg core.RuntimeConfig) (*scene.Scene, error) {
	mu.RLock()
	e, ok := entries[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown scene %q", name)
	}
	return e.build(cfg), nil
}

// Exists checks if a scene with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[name]
	return ok
}

// unregister removes a scene. Only used by tests.
func unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(entries, name)
}
