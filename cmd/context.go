package main

import (
	"context"
	"fmt"
	"image"

	"github.com/richinsley/goshaderpreset/glfwcontext"
	"github.com/richinsley/goshaderpreset/graphics"
	"github.com/richinsley/goshaderpreset/headless"
	"github.com/richinsley/goshaderpreset/inputs"
	"github.com/richinsley/goshaderpreset/options"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// newOffscreenContext returns an EGL pbuffer context when GLES is requested
// and a hidden GLFW window otherwise. release tears it down.
func newOffscreenContext(opts *options.ShaderOptions, log zerolog.Logger) (ctx graphics.Context, release func(), err error) {
	if opts.GLES {
		h, err := headless.NewHeadless(opts.Width, opts.Height, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create headless context: %w", err)
		}
		return h, h.Shutdown, nil
	}

	if err := glfwcontext.InitGraphics(log); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	win, err := glfwcontext.New(opts.Width, opts.Height, "goshaderpreset", false)
	if err != nil {
		glfwcontext.TerminateGraphics(log)
		return nil, nil, fmt.Errorf("failed to create window: %w", err)
	}
	return win, func() {
		win.Shutdown()
		glfwcontext.TerminateGraphics(log)
	}, nil
}

// frameSource yields input frames on a channel. Run fills it until the input
// ends or ctx is done, then closes it.
type frameSource struct {
	frames chan *image.RGBA
	still  *image.RGBA
	video  *inputs.VideoSource
	fps    float64
}

// openSource opens opts.Input: a still image, a video, or color bars when
// no input is set.
func openSource(fs afero.Fs, opts *options.ShaderOptions, log zerolog.Logger) (*frameSource, error) {
	src := &frameSource{frames: make(chan *image.RGBA, 2)}
	switch {
	case opts.Input == "":
		src.still = inputs.ColorBars(opts.Width, opts.Height)
	case inputs.IsImagePath(opts.Input):
		img, err := inputs.LoadImage(fs, opts.Input)
		if err != nil {
			return nil, err
		}
		src.still = img
	default:
		video, err := inputs.NewVideoSource(opts.Input, opts.FFMPEGPath, log)
		if err != nil {
			return nil, err
		}
		video.Loop = opts.Loop
		src.video = video
		src.fps = video.Info.FrameRate
		log.Info().
			Str("input", opts.Input).
			Int("width", video.Info.Width).
			Int("height", video.Info.Height).
			Float64("fps", video.Info.FrameRate).
			Msg("video input")
	}
	return src, nil
}

func (s *frameSource) Run(ctx context.Context) error {
	defer close(s.frames)
	if s.video != nil {
		return s.video.Run(ctx, s.frames)
	}
	for {
		select {
		case s.frames <- s.still:
		case <-ctx.Done():
			return nil
		}
	}
}
