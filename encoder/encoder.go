// Package encoder pipes rendered RGBA frames into an ffmpeg subprocess.
package encoder

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/richinsley/goshaderpreset/options"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

var ErrClosed = errors.New("encoder closed")

// Encoder feeds raw frames to ffmpeg through a pipe. WriteFrame and Close
// must be called from one goroutine.
type Encoder struct {
	width, height int
	pw            *io.PipeWriter
	errc          chan error
	frames        int
	closeOnce     sync.Once
	closeErr      error
	log           zerolog.Logger
}

// getArgs returns the rawvideo input arguments and the encoder arguments for
// the configured codec on goos.
func getArgs(opts *options.ShaderOptions, goos string) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"format":  "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"r":       opts.FPS,
	}

	outputArgs = ffmpeg.KwArgs{"pix_fmt": "yuv420p"}
	hevc := opts.Codec == "hevc"

	switch {
	case opts.HWAccel && goos == "linux":
		outputArgs["c:v"] = "h264_nvenc"
		if hevc {
			outputArgs["c:v"] = "hevc_nvenc"
		}
		outputArgs["preset"] = "p2"
	case opts.HWAccel && goos == "darwin":
		outputArgs["c:v"] = "h264_videotoolbox"
		if hevc {
			outputArgs["c:v"] = "hevc_videotoolbox"
		}
	case hevc:
		outputArgs["c:v"] = "libx265"
		outputArgs["preset"] = "slow"
	default:
		outputArgs["c:v"] = "libx264"
		outputArgs["preset"] = "slow"
		outputArgs["tune"] = "zerolatency"
	}

	if opts.BitRate != "" {
		outputArgs["b:v"] = opts.BitRate
	}
	if hevc && strings.EqualFold(filepath.Ext(opts.Output), ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	if opts.Mode == "stream" {
		outputArgs["f"] = "mpegts"
	}
	return
}

// New starts ffmpeg writing opts.Output.
func New(opts *options.ShaderOptions, logger zerolog.Logger) (*Encoder, error) {
	if opts.Output == "" {
		return nil, errors.New("no output file")
	}
	inputArgs, outputArgs := getArgs(opts, runtime.GOOS)
	log := logger.With().Str("component", "encoder").Str("output", opts.Output).Logger()
	log.Info().Interface("codec", outputArgs["c:v"]).Int("fps", opts.FPS).Msg("starting encoder")

	pr, pw := io.Pipe()
	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(opts.Output, outputArgs).
		OverWriteOutput().
		WithInput(pr)
	if opts.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(opts.FFMPEGPath)
	}
	if logger.GetLevel() > zerolog.DebugLevel {
		cmd = cmd.Silent(true)
	} else {
		cmd = cmd.ErrorToStdOut()
	}

	e := &Encoder{
		width:  opts.Width,
		height: opts.Height,
		pw:     pw,
		errc:   make(chan error, 1),
		log:    log,
	}
	go func() {
		err := cmd.Run()
		// a dead ffmpeg must fail pending writes
		pr.CloseWithError(fmt.Errorf("ffmpeg exited: %w", err))
		e.errc <- err
	}()
	return e, nil
}

// WriteFrame sends one frame. Frames must match the configured size.
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	if e.pw == nil {
		return ErrClosed
	}
	b := img.Bounds()
	if b.Dx() != e.width || b.Dy() != e.height {
		return fmt.Errorf("frame is %dx%d, encoder expects %dx%d", b.Dx(), b.Dy(), e.width, e.height)
	}
	row := b.Dx() * 4
	if img.Stride == row {
		if _, err := e.pw.Write(img.Pix[:row*b.Dy()]); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", e.frames, err)
		}
	} else {
		for y := 0; y < b.Dy(); y++ {
			off := img.PixOffset(b.Min.X, b.Min.Y+y)
			if _, err := e.pw.Write(img.Pix[off : off+row]); err != nil {
				return fmt.Errorf("failed to write frame %d: %w", e.frames, err)
			}
		}
	}
	e.frames++
	return nil
}

// Frames returns the number of frames written.
func (e *Encoder) Frames() int {
	return e.frames
}

// Close ends the input stream and waits for ffmpeg to finish the file.
func (e *Encoder) Close() error {
	e.closeOnce.Do(func() {
		e.pw.Close()
		e.pw = nil
		if err := <-e.errc; err != nil {
			e.closeErr = fmt.Errorf("ffmpeg failed: %w", err)
			return
		}
		e.log.Info().Int("frames", e.frames).Msg("encoder finished")
	})
	return e.closeErr
}
