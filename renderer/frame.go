package renderer

import (
	"github.com/richinsley/goneuro/shader"
	"github.com/richinsley/goneuro/uniforms"
	"github.com/richinsley/goneuro/viewport"
)

// FrameUniforms are the per-frame values pushed to the background shader.
type FrameUniforms struct {
	Time           float32
	PointerX       float32
	PointerY       float32
	ScrollProgress float32
}

// ComputeFrame derives the frame uniforms from elapsed milliseconds, the
// smoothed pointer in client pixels and the current viewport.
func ComputeFrame(elapsedMillis, pointerX, pointerY float64, view viewport.Viewport) FrameUniforms {
	nx, ny := view.NormalizePointer(pointerX, pointerY)
	return FrameUniforms{
		Time:           float32(elapsedMillis),
		PointerX:       float32(nx),
		PointerY:       float32(ny),
		ScrollProgress: float32(view.ScrollProgress()),
	}
}

// FrameTime returns the timestamp in milliseconds of frame n at a fixed rate.
func FrameTime(n, fps int) float64 {
	return float64(n) * 1000 / float64(fps)
}

// pushRatio sets u_ratio for a drawing surface of the given size.
func pushRatio(t *uniforms.Table, s uniforms.Setter, width, height int) {
	t.Set1f(s, shader.UniformRatio, float32(viewport.AspectRatio(width, height)))
}

// pushFrame sets the per-frame uniforms. u_audio_level is only touched when
// a level source is attached.
func pushFrame(t *uniforms.Table, s uniforms.Setter, u FrameUniforms, audio LevelSource) {
	t.Set1f(s, shader.UniformTime, u.Time)
	t.Set2f(s, shader.UniformPointerPosition, u.PointerX, u.PointerY)
	t.Set1f(s, shader.UniformScrollProgress, u.ScrollProgress)
	if audio != nil {
		t.Set1f(s, shader.UniformAudioLevel, float32(audio.Level()))
	}
}
