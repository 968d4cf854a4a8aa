package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goneuro/audio"
	"github.com/richinsley/goneuro/glfwcontext"
	"github.com/richinsley/goneuro/graphics"
	"github.com/richinsley/goneuro/headless"
	"github.com/richinsley/goneuro/options"
	"github.com/richinsley/goneuro/renderer"
	"github.com/richinsley/goneuro/shader"
	"github.com/richinsley/goneuro/viewport"
	"github.com/richinsley/goneuro/x11pointer"
)

func init() {
	runtime.LockOSThread()
}

// fixedViewport pins a hidden window to the recording geometry so the output
// size does not depend on the monitor the window would have opened on.
type fixedViewport struct {
	graphics.Context
	view viewport.Viewport
}

func (f fixedViewport) Viewport() viewport.Viewport {
	return f.view
}

func runWindow(ctx context.Context, opts *options.ShaderOptions, src shader.Sources) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return err
	}
	defer glfwcontext.TerminateGraphics()

	win, err := glfwcontext.New(opts, true)
	if err != nil {
		return err
	}
	defer win.Shutdown()
	win.RegisterKeyCallback(glfw.KeyHome, win.ResetScroll)

	var ropts renderer.Options
	if *opts.Pointer == options.PointerX11 {
		source, err := x11pointer.New(win)
		if err != nil {
			log.Printf("Global pointer unavailable, using window events: %v", err)
		} else {
			defer source.Close()
			ropts.Poller = source
		}
	}
	if *opts.Audio {
		analyzer := audio.Open(*opts.AudioSampleRate)
		defer analyzer.Close()
		ropts.Audio = analyzer
	}

	r, err := renderer.New(ctx, win, src, ropts)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	log.Println("Starting interactive render loop...")
	err = r.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runRecord(ctx context.Context, opts *options.ShaderOptions, src shader.Sources) error {
	view := viewport.Viewport{
		Width:      float64(*opts.Width),
		Height:     float64(*opts.Height),
		PixelRatio: *opts.PixelRatio,
	}

	var gctx graphics.Context
	if h, err := headless.NewHeadless(*opts.Width, *opts.Height, *opts.PixelRatio); err == nil {
		log.Println("Using EGL headless context")
		gctx = h
	} else {
		log.Printf("EGL unavailable (%v), falling back to a hidden window", err)
		if err := glfwcontext.InitGraphics(); err != nil {
			return err
		}
		defer glfwcontext.TerminateGraphics()
		win, err := glfwcontext.New(opts, false)
		if err != nil {
			return err
		}
		gctx = fixedViewport{Context: win, view: view}
	}
	defer gctx.Shutdown()

	var ropts renderer.Options
	if *opts.Audio {
		analyzer := audio.Open(*opts.AudioSampleRate)
		defer analyzer.Close()
		ropts.Audio = analyzer
	}

	r, err := renderer.New(ctx, gctx, src, ropts)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	return r.Record(ctx, opts)
}

func main() {
	opts, err := options.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if *opts.Help {
		return
	}

	src, err := shader.Load(*opts.VertexFile, *opts.FragmentFile)
	if err != nil {
		log.Fatalf("Failed to load shaders: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *opts.Mode {
	case options.ModeRecord:
		err = runRecord(ctx, opts, src)
	default:
		err = runWindow(ctx, opts, src)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}
