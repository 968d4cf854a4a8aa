package renderer

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"

	"github.com/richinsley/goneuro/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame is one read-back surface image on its way to the encoder.
type Frame struct {
	Pixels []byte
	PTS    int64
}

const frameQueueSize = 4

func inputArgs(width, height, fps int) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": fps,
	}
}

// outputArgs picks the encoder for the requested codec. Surface rows arrive
// bottom-up, so the output is flipped.
func outputArgs(opts *options.ShaderOptions, goos string) ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}

	hevc := *opts.Codec == "hevc"
	switch goos {
	case "darwin":
		if hevc {
			args["c:v"] = "hevc_videotoolbox"
		} else {
			args["c:v"] = "h264_videotoolbox"
		}
	default:
		if hevc {
			args["c:v"] = "libx265"
		} else {
			args["c:v"] = "libx264"
		}
	}

	if hevc && strings.HasSuffix(strings.ToLower(*opts.OutputFile), ".mp4") {
		args["tag:v"] = "hvc1"
	}
	return args
}

// runEncoder feeds frames into an ffmpeg process until frames is closed.
func runEncoder(opts *options.ShaderOptions, width, height int, frames <-chan *Frame, done chan<- error) {
	pipeReader, pipeWriter := io.Pipe()

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs(width, height, *opts.FPS)).
		Output(*opts.OutputFile, outputArgs(opts, runtime.GOOS)).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if *opts.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(*opts.FFMPEGPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// Unblock the writer if ffmpeg exits early.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	var writeErr error
	for frame := range frames {
		if writeErr != nil {
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			writeErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", frame.PTS, err)
			log.Print(writeErr)
		}
	}
	pipeWriter.Close()

	if err := <-errc; err != nil {
		done <- fmt.Errorf("ffmpeg failed: %w", err)
		return
	}
	done <- writeErr
}

// Record renders Duration seconds of frames at a fixed rate into the output
// file. The pointer stays at its initial position and the scroll offset at
// zero; frame n is rendered at n*1000/FPS milliseconds.
func (r *Renderer) Record(ctx context.Context, opts *options.ShaderOptions) error {
	r.surface.EnableReadback()
	width, height := r.surface.Size()
	total := opts.TotalFrames()
	log.Printf("Recording %d frames (%dx%d @ %d fps) to %s", total, width, height, *opts.FPS, *opts.OutputFile)

	frames := make(chan *Frame, frameQueueSize)
	encoderDone := make(chan error, 1)
	go runEncoder(opts, width, height, frames, encoderDone)

	var pts int64
	send := func(pixels []byte) {
		if pixels == nil {
			return
		}
		frames <- &Frame{Pixels: pixels, PTS: pts}
		pts++
	}

	var renderErr error
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			renderErr = err
			break
		}
		r.RenderFrame(FrameTime(i, *opts.FPS))
		pixels, err := r.surface.QueueRead()
		if err != nil {
			renderErr = err
			break
		}
		send(pixels)
		if (i+1)%(*opts.FPS) == 0 {
			log.Printf("Recorded %d/%d frames", i+1, total)
		}
	}

	if renderErr == nil {
		pending, err := r.surface.Drain()
		renderErr = err
		for _, pixels := range pending {
			send(pixels)
		}
	}
	close(frames)

	encErr := <-encoderDone
	if renderErr != nil {
		return renderErr
	}
	if encErr != nil {
		return encErr
	}
	log.Printf("Recording finished: %s", *opts.OutputFile)
	return nil
}
