package renderer

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goneuro/graphics"
	"github.com/richinsley/goneuro/pointer"
	"github.com/richinsley/goneuro/shader"
	xlate "github.com/richinsley/goneuro/translator"
	"github.com/richinsley/goneuro/uniforms"
	"github.com/richinsley/goneuro/viewport"
)

// glLoader resolves GL entry points once per process. A failed load is
// remembered so later renderers fail the same way.
type glLoader struct {
	once sync.Once
	err  error
	load func() error
}

func (l *glLoader) Load() error {
	l.once.Do(func() {
		l.err = l.load()
	})
	return l.err
}

var glEntryPoints = &glLoader{load: gl.Init}

// positionLocation is the attribute slot of the quad in every program.
const positionLocation = 0

// Full-viewport quad as a triangle strip.
var quadVertices = []float32{
	-1.0, -1.0,
	1.0, -1.0,
	-1.0, 1.0,
	1.0, 1.0,
}

// LevelSource supplies a loudness value in [0,1] once per frame.
type LevelSource interface {
	Level() float64
}

// PointerPoller is a pointer source that has to be asked every frame instead
// of delivering events.
type PointerPoller interface {
	Poll() (x, y float64, ok bool)
}

// Options carries the optional inputs a Renderer reads every frame.
type Options struct {
	// Audio drives u_audio_level when set.
	Audio LevelSource
	// Poller replaces the context's own pointer events when set.
	Poller PointerPoller
}

// Renderer owns one shader program drawn over the whole viewport. All methods
// must be called on the thread the context is current on.
type Renderer struct {
	context graphics.Context

	program    uint32
	uniforms   *uniforms.Table
	setter     uniforms.Setter
	quadVAO    uint32
	quadVBO    uint32
	surface    *Surface
	present    uint32
	presentTex int32

	pointer   pointer.State
	view      viewport.Viewport
	resize    func(viewport.Viewport) error
	startTime float64

	audio  LevelSource
	poller PointerPoller
}

// New compiles src against ctx and prepares the quad and drawing surface.
// A nil context or failed GL initialisation yields ErrUnsupported; shader
// failures yield *ShaderError or *LinkError. In every error case nothing is
// left for the caller to render with.
func New(ctx context.Context, gctx graphics.Context, src shader.Sources, opts Options) (*Renderer, error) {
	if gctx == nil {
		return nil, ErrUnsupported
	}
	gctx.MakeCurrent()

	if err := glEntryPoints.Load(); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize OpenGL: %v", ErrUnsupported, err)
	}

	r := &Renderer{
		context: gctx,
		setter:  glSetter{},
		audio:   opts.Audio,
		poller:  opts.Poller,
	}
	r.resize = r.Resize

	translated, err := xlate.Translate(ctx, src, gctx.IsGLES())
	if err != nil {
		return nil, err
	}

	positionName := translated.Mapped(shader.AttribPosition)
	r.program, err = newProgram(translated.Vertex, translated.Fragment, map[string]uint32{positionName: positionLocation})
	if err != nil {
		return nil, err
	}

	gl.UseProgram(r.program)
	r.uniforms = uniforms.Discover(glProgram{id: r.program}, translated.Declared)
	log.Printf("Discovered %d active uniforms: %v", r.uniforms.Len(), r.uniforms.Names())
	if gl.GetAttribLocation(r.program, gl.Str(positionName+"\x00")) < 0 {
		log.Printf("Warning: vertex shader does not use %s", shader.AttribPosition)
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(positionLocation)
	gl.VertexAttribPointer(positionLocation, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	presentSrc := shader.PresentSources(gctx.IsGLES())
	r.present, err = newProgram(presentSrc.Vertex, presentSrc.Fragment, nil)
	if err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create present program: %w", err)
	}
	r.presentTex = gl.GetUniformLocation(r.present, gl.Str("u_texture\x00"))

	view := gctx.Viewport()
	w, h := view.BackingSize()
	r.surface, err = NewSurface(max(w, 1), max(h, 1))
	if err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create drawing surface: %w", err)
	}
	if err := r.Resize(view); err != nil {
		r.Shutdown()
		return nil, err
	}

	if r.poller == nil {
		if ps, ok := gctx.(graphics.PointerSource); ok {
			ps.SetPointerCallback(r.pointer.SetTarget)
		}
	}

	r.startTime = gctx.Time()
	return r, nil
}

// Resize sizes the drawing surface for view, pushes the new aspect ratio and
// sets the GL viewport to the surface.
func (r *Renderer) Resize(view viewport.Viewport) error {
	w, h := view.BackingSize()
	if w <= 0 || h <= 0 {
		// Minimised windows report a zero framebuffer; keep the old surface.
		r.view = view
		return nil
	}
	if sw, sh := r.surface.Size(); sw != w || sh != h {
		if err := r.surface.Resize(w, h); err != nil {
			return fmt.Errorf("failed to resize drawing surface: %w", err)
		}
	}
	r.view = view

	gl.UseProgram(r.program)
	pushRatio(r.uniforms, r.setter, w, h)
	gl.Viewport(0, 0, int32(w), int32(h))
	return nil
}

// RenderFrame advances the pointer, pushes the frame uniforms and draws the
// quad into the drawing surface.
func (r *Renderer) RenderFrame(elapsedMillis float64) {
	x, y := r.pointer.Step()
	u := ComputeFrame(elapsedMillis, x, y, r.view)

	gl.UseProgram(r.program)
	pushFrame(r.uniforms, r.setter, u, r.audio)

	r.surface.BindForWriting()
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	r.surface.UnbindForWriting()
}

// presentFrame scales the drawing surface onto the window framebuffer.
func (r *Renderer) presentFrame() {
	fbWidth, fbHeight := r.context.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.present)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.surface.textureID)
	gl.Uniform1i(r.presentTex, 0)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Step renders and presents one frame, then yields to the host until the
// next display refresh. It returns false once the window wants to close.
func (r *Renderer) Step() bool {
	if r.context.ShouldClose() {
		return false
	}

	r.syncView(r.context.Viewport())

	if r.poller != nil {
		if x, y, ok := r.poller.Poll(); ok {
			r.pointer.SetTarget(x, y)
		}
	}

	r.RenderFrame((r.context.Time() - r.startTime) * 1000)
	r.presentFrame()
	r.context.EndFrame()
	return true
}

// syncView picks up a new host viewport. Only size or capped pixel ratio
// changes reallocate the surface; a scroll-only change is just recorded.
func (r *Renderer) syncView(view viewport.Viewport) {
	if r.view.Resized(view) {
		if err := r.resize(view); err != nil {
			log.Printf("Resize failed: %v", err)
			return
		}
	}
	r.view = view
}

// Run drives Step until ctx is cancelled or the window closes.
func (r *Renderer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !r.Step() {
			return nil
		}
	}
}

// Shutdown releases every GL object the renderer created. The context
// itself belongs to the caller.
func (r *Renderer) Shutdown() {
	if r.surface != nil {
		r.surface.Destroy()
		r.surface = nil
	}
	gl.DeleteProgram(r.program)
	gl.DeleteProgram(r.present)
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteVertexArrays(1, &r.quadVAO)
}
