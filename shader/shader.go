package shader

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

// Uniform names the renderer pushes every frame or on resize.
const (
	UniformTime            = "u_time"
	UniformPointerPosition = "u_pointer_position"
	UniformScrollProgress  = "u_scroll_progress"
	UniformRatio           = "u_ratio"
	UniformAudioLevel      = "u_audio_level"

	// AttribPosition is the vertex attribute fed by the full-screen quad.
	AttribPosition = "a_position"
)

//go:embed neuro.vert
var neuroVertexSource string

//go:embed neuro.frag
var neuroFragmentSource string

// Sources is a vertex/fragment source pair.
type Sources struct {
	Vertex   string
	Fragment string
}

// Default returns the built-in neural network background.
func Default() Sources {
	return Sources{Vertex: neuroVertexSource, Fragment: neuroFragmentSource}
}

// Load reads shader sources from disk. An empty path keeps the built-in
// source for that stage.
func Load(vertexPath, fragmentPath string) (Sources, error) {
	src := Default()
	if vertexPath != "" {
		b, err := os.ReadFile(vertexPath)
		if err != nil {
			return Sources{}, fmt.Errorf("failed to read vertex shader: %w", err)
		}
		src.Vertex = string(b)
	}
	if fragmentPath != "" {
		b, err := os.ReadFile(fragmentPath)
		if err != nil {
			return Sources{}, fmt.Errorf("failed to read fragment shader: %w", err)
		}
		src.Fragment = string(b)
	}
	return src, nil
}

// Version returns the argument of the first #version directive, or "" when
// the source has none.
func Version(source string) string {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "#version"); ok {
			return strings.TrimSpace(rest)
		}
		return ""
	}
	return ""
}

// IsWebGL reports whether source is written for WebGL 2 (GLSL ES 3.00) and
// needs translation before a desktop driver will accept it.
func IsWebGL(source string) bool {
	return Version(source) == "300 es"
}

// ────────────────────────────────── Present ──────────────────────────────────
// The drawing surface is an offscreen texture; these programs copy it onto the
// window framebuffer, scaling when the surface was sized below the display.

const presentVertexSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const presentFragmentSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

const presentVertexSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const presentFragmentSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// PresentSources returns the blit program for the given context flavour.
func PresentSources(isGLES bool) Sources {
	if isGLES {
		return Sources{Vertex: presentVertexSourceGLES, Fragment: presentFragmentSourceGLES}
	}
	return Sources{Vertex: presentVertexSourceGL, Fragment: presentFragmentSourceGL}
}
