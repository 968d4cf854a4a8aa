package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	options "github.com/richinsley/goneuro/options"
	"github.com/richinsley/goneuro/viewport"
)

// Context is a GLFW window acting as the host page: it reports its logical
// size and pixel ratio, accumulates wheel scrolling into a page-style offset
// and forwards pointer input.
type Context struct {
	window     *glfw.Window
	scrollY    float64
	scrollStep float64
	onPointer  func(x, y float64)
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

// New creates and initializes a new GLFW window and returns a Context object.
// A hidden window still owns a usable GL context and is used for offscreen
// recording where EGL is unavailable.
func New(opts *options.ShaderOptions, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	width, height := *opts.Width, *opts.Height
	var monitor *glfw.Monitor
	if visible && *opts.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		if mode := monitor.GetVideoMode(); mode != nil {
			width, height = mode.Width, mode.Height
		}
	}

	win, err := glfw.CreateWindow(width, height, "goneuro", monitor, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		scrollStep:   *opts.ScrollStep,
		keyCallbacks: make(map[glfw.Key]func()),
	}

	win.MakeContextCurrent()
	if *opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)
	win.SetScrollCallback(c.glfwScrollCallback)

	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

// SetPointerCallback implements graphics.PointerSource. Moves and clicks are
// both reported; there is no separate touch path because GLFW delivers touch
// as emulated cursor motion.
func (c *Context) SetPointerCallback(f func(x, y float64)) {
	c.onPointer = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}

	c.dispatchKey(key, action)
}

func (c *Context) dispatchKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press {
		return
	}
	if callback, ok := c.keyCallbacks[key]; ok {
		callback()
	}
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	c.reportPointer(xpos, ypos)
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	c.reportPointer(w.GetCursorPos())
}

func (c *Context) glfwScrollCallback(w *glfw.Window, xoff, yoff float64) {
	// Wheel down reports a negative offset and moves the page down.
	c.scrollY = ScrollBy(c.scrollY, -yoff*c.scrollStep)
}

func (c *Context) reportPointer(x, y float64) {
	if c.onPointer == nil {
		return
	}
	s := c.ClientScale()
	c.onPointer(x*s, y*s)
}

// ClientScale converts window coordinates to logical pixels. It is 1 where
// the platform already reports logical coordinates (macOS) and 1/scale where
// window coordinates are physical pixels.
func (c *Context) ClientScale() float64 {
	winWidth, _ := c.window.GetSize()
	if winWidth <= 0 {
		return 1
	}
	return c.Viewport().Width / float64(winWidth)
}

// ResetScroll jumps back to the top of the page.
func (c *Context) ResetScroll() {
	c.scrollY = 0
}

// ScrollBy applies a scroll delta to a page offset, which never goes above
// the top of the page.
func ScrollBy(offset, delta float64) float64 {
	offset += delta
	if offset < 0 {
		return 0
	}
	return offset
}

// Viewport implements graphics.Context. Logical size is the framebuffer size
// divided by the monitor content scale, matching CSS pixels in a browser.
func (c *Context) Viewport() viewport.Viewport {
	fbWidth, fbHeight := c.window.GetFramebufferSize()
	scaleX, _ := c.window.GetContentScale()
	return LogicalViewport(fbWidth, fbHeight, float64(scaleX), c.scrollY)
}

// LogicalViewport derives the host viewport from physical framebuffer size and
// content scale.
func LogicalViewport(fbWidth, fbHeight int, scale, scrollY float64) viewport.Viewport {
	if scale <= 0 {
		scale = 1
	}
	return viewport.Viewport{
		Width:      float64(fbWidth) / scale,
		Height:     float64(fbHeight) / scale,
		PixelRatio: scale,
		ScrollY:    scrollY,
	}
}

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// WindowPos returns the window's client-area origin in screen coordinates.
func (c *Context) WindowPos() (int, int) {
	return c.window.GetPos()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
