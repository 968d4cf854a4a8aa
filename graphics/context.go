package graphics

import "github.com/richinsley/goneuro/viewport"

// Context defines the interface for an OpenGL context and the window or
// surface it draws to.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame presents the frame and hands control back to the host until
	// the next one.
	EndFrame()
	GetFramebufferSize() (int, int)
	// Viewport returns the logical size, pixel ratio and scroll offset.
	Viewport() viewport.Viewport
	// Time returns seconds since the context was created.
	Time() float64
	IsGLES() bool
}

// PointerSource is implemented by contexts that receive pointer input.
// The callback gets client-space coordinates in logical pixels.
type PointerSource interface {
	SetPointerCallback(func(x, y float64))
}
