package options

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	o, err := Parse(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if *o.Mode != ModeWindow {
		t.Errorf("Mode = %q, want %q", *o.Mode, ModeWindow)
	}
	if *o.Width != 1280 || *o.Height != 720 {
		t.Errorf("size = %dx%d, want 1280x720", *o.Width, *o.Height)
	}
	if *o.Pointer != PointerGLFW {
		t.Errorf("Pointer = %q, want %q", *o.Pointer, PointerGLFW)
	}
	if !*o.VSync {
		t.Error("VSync should default to true")
	}
}

func TestParseRecord(t *testing.T) {
	args := []string{"-mode", "record", "-duration", "2.5", "-fps", "30", "-dpr", "3", "-output", "neuro.mp4", "-codec", "hevc"}
	o, err := Parse(args, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := o.TotalFrames(); got != 75 {
		t.Errorf("TotalFrames() = %d, want 75", got)
	}
	if *o.PixelRatio != 3 {
		t.Errorf("PixelRatio = %v, want 3", *o.PixelRatio)
	}
}

func TestParseHelp(t *testing.T) {
	var out bytes.Buffer
	o, err := Parse([]string{"-help"}, &out)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !*o.Help {
		t.Error("Help = false, want true")
	}
	if !strings.Contains(out.String(), "-frag") {
		t.Errorf("help output does not list flags: %q", out.String())
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"mode", []string{"-mode", "stream"}},
		{"width", []string{"-width", "0"}},
		{"pointer", []string{"-pointer", "wayland"}},
		{"scroll step", []string{"-scroll-step", "-1"}},
		{"audio rate", []string{"-audio", "-audio-rate", "0"}},
		{"duration", []string{"-mode", "record", "-duration", "0"}},
		{"fps", []string{"-mode", "record", "-fps", "0"}},
		{"dpr", []string{"-mode", "record", "-dpr", "0"}},
		{"output", []string{"-mode", "record", "-output", " "}},
		{"codec", []string{"-mode", "record", "-codec", "vp9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.args, &bytes.Buffer{}); err == nil {
				t.Errorf("Parse(%v) returned nil error", tt.args)
			}
		})
	}
}

func TestRecordOnlyChecksIgnoredInWindowMode(t *testing.T) {
	if _, err := Parse([]string{"-codec", "vp9", "-fps", "0"}, &bytes.Buffer{}); err != nil {
		t.Errorf("Parse() error = %v, want nil for record flags in window mode", err)
	}
}
