// Package gfx renders scenes into terminal cell buffers. Every scene object
// names a shader program; a program decides how the object is rasterized.
package gfx

import "embed"

// ShaderFS holds the bundled shader sources for both profiles.
//
//go:embed shaders
var ShaderFS embed.FS

// Program names understood by the renderer.
const (
	ProgramGame     = "gameObject"
	ProgramCollider = "colliderObject"
	ProgramText     = "textObject"
	ProgramSprite   = "spriteObject"
	ProgramUI       = "uiObject"
	ProgramTile     = "tileObject"
)

// Shader profiles.
const (
	ProfileCore = "core"
	ProfileES   = "es"
)

// ProgramData names a shader program and its source files.
type ProgramData struct {
	Name         string
	VertexPath   string
	FragmentPath string
}

var programNames = []string{
	ProgramGame,
	ProgramCollider,
	ProgramText,
	ProgramSprite,
	ProgramUI,
	ProgramTile,
}

// Profile returns the shader profile for the target: ES for embedded
// devices, desktop core otherwise.
func Profile(embedded bool) string {
	if embedded {
		return ProfileES
	}
	return ProfileCore
}

// Programs lists every program of the profile in load order.
func Programs(embedded bool) []ProgramData {
	profile := Profile(embedded)
	out := make([]ProgramData, 0, len(programNames))
	for _, name := range programNames {
		out = append(out, ProgramData{
			Name:         name,
			VertexPath:   "shaders/" + profile + "/" + name + ".vert",
			FragmentPath: "shaders/" + profile + "/" + name + ".frag",
		})
	}
	return out
}
