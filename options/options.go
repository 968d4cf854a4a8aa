package options

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	ModeWindow = "window"
	ModeRecord = "record"

	PointerGLFW = "glfw"
	PointerX11  = "x11"
)

type ShaderOptions struct {
	Help            *bool
	Mode            *string
	Width           *int
	Height          *int
	Fullscreen      *bool
	VSync           *bool
	VertexFile      *string  // GLSL vertex shader; the built-in one when empty
	FragmentFile    *string  // GLSL fragment shader; the built-in one when empty
	Pointer         *string  // where pointer input comes from: glfw or x11
	ScrollStep      *float64 // logical pixels scrolled per wheel notch
	Audio           *bool    // drive u_audio_level from the default microphone
	AudioSampleRate *int
	// Record mode
	Duration   *float64
	FPS        *int
	PixelRatio *float64 // device pixel ratio assumed when recording
	OutputFile *string
	Codec      *string
	FFMPEGPath *string
}

// NewFlagSet binds a fresh ShaderOptions to a flag set.
func NewFlagSet(name string) (*flag.FlagSet, *ShaderOptions) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	o := &ShaderOptions{
		Help:            fs.Bool("help", false, "Show help message"),
		Mode:            fs.String("mode", ModeWindow, "Run mode: window or record"),
		Width:           fs.Int("width", 1280, "Window or output width in logical pixels"),
		Height:          fs.Int("height", 720, "Window or output height in logical pixels"),
		Fullscreen:      fs.Bool("fullscreen", false, "Cover the primary monitor"),
		VSync:           fs.Bool("vsync", true, "Synchronise frames with the display refresh"),
		VertexFile:      fs.String("vert", "", "Vertex shader file (built-in neuro shader if empty)"),
		FragmentFile:    fs.String("frag", "", "Fragment shader file (built-in neuro shader if empty)"),
		Pointer:         fs.String("pointer", PointerGLFW, "Pointer source: glfw or x11 (global pointer, for wallpaper windows)"),
		ScrollStep:      fs.Float64("scroll-step", 100, "Logical pixels scrolled per mouse wheel notch"),
		Audio:           fs.Bool("audio", false, "Feed microphone level into u_audio_level"),
		AudioSampleRate: fs.Int("audio-rate", 44100, "Microphone sample rate"),
		Duration:        fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:             fs.Int("fps", 60, "Frames per second for recording"),
		PixelRatio:      fs.Float64("dpr", 1.0, "Device pixel ratio used when recording"),
		OutputFile:      fs.String("output", "output.mp4", "Output file name for recording"),
		Codec:           fs.String("codec", "h264", "Video codec for recording: h264 or hevc"),
		FFMPEGPath:      fs.String("ffmpeg", "", "Path to ffmpeg executable"),
	}
	return fs, o
}

// Parse parses command-line arguments (without the program name) and
// validates them. Usage output goes to out.
func Parse(args []string, out io.Writer) (*ShaderOptions, error) {
	fs, o := NewFlagSet("goneuro")
	fs.SetOutput(out)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *o.Help {
		fmt.Fprintln(out, "Neural network shader background")
		fs.PrintDefaults()
		return o, nil
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate reports the first invalid option.
func (o *ShaderOptions) Validate() error {
	switch *o.Mode {
	case ModeWindow, ModeRecord:
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", *o.Mode, ModeWindow, ModeRecord)
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	switch *o.Pointer {
	case PointerGLFW, PointerX11:
	default:
		return fmt.Errorf("unknown pointer source %q (want %s or %s)", *o.Pointer, PointerGLFW, PointerX11)
	}
	if *o.ScrollStep < 0 {
		return fmt.Errorf("scroll step must not be negative, got %v", *o.ScrollStep)
	}
	if *o.Audio && *o.AudioSampleRate <= 0 {
		return fmt.Errorf("invalid audio sample rate %d", *o.AudioSampleRate)
	}
	if *o.Mode == ModeRecord {
		if *o.Duration <= 0 {
			return fmt.Errorf("record duration must be positive, got %v", *o.Duration)
		}
		if *o.FPS <= 0 {
			return fmt.Errorf("record fps must be positive, got %d", *o.FPS)
		}
		if *o.PixelRatio <= 0 {
			return fmt.Errorf("device pixel ratio must be positive, got %v", *o.PixelRatio)
		}
		if strings.TrimSpace(*o.OutputFile) == "" {
			return fmt.Errorf("record mode needs an output file")
		}
		switch *o.Codec {
		case "h264", "hevc":
		default:
			return fmt.Errorf("unknown codec %q (want h264 or hevc)", *o.Codec)
		}
	}
	return nil
}

// TotalFrames is the number of frames a recording of Duration seconds at FPS
// contains.
func (o *ShaderOptions) TotalFrames() int {
	return int(*o.Duration * float64(*o.FPS))
}
