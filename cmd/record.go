package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/richinsley/goshaderpreset/encoder"
	"github.com/richinsley/goshaderpreset/options"
	"github.com/richinsley/goshaderpreset/player"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var recordCmd = &cobra.Command{
	Use:   "record <preset>",
	Short: "Encode a preset applied to an image or video with ffmpeg",
	Long: `Encode a preset applied to an image or video with ffmpeg.

Input frames are decoded, rendered through every pass and piped to ffmpeg
concurrently. A video input is recorded to its end unless --frames or
--duration stop it earlier; a still input needs one of them.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	addFrameFlags(recordCmd)
	f := recordCmd.Flags()
	f.StringP("output", "o", "out.mp4", "output file")
	f.Int("fps", 30, "output frame rate")
	f.Float64("duration", 0, "seconds to record")
	f.Int("frames", 0, "frames to record, overrides duration")
	f.String("codec", "h264", "video codec: h264 or hevc")
	f.String("bitrate", "25M", "target video bitrate")
	f.Bool("hwaccel", false, "use the platform hardware encoder")
	f.String("mode", "file", "file, or stream for an mpegts output")
}

// frameLimit returns how many frames to record, 0 meaning until the input
// ends.
func frameLimit(opts *options.ShaderOptions) int {
	if opts.Frames > 0 {
		return opts.Frames
	}
	if opts.Duration > 0 {
		return int(math.Ceil(opts.Duration * float64(opts.FPS)))
	}
	return 0
}

// lastFrame keeps the most recent frame written to it.
type lastFrame struct {
	img *image.RGBA
}

func (l *lastFrame) WriteFrame(img *image.RGBA) error {
	l.img = img
	return nil
}

func runRecord(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()
	src, err := openSource(fs, opts, logger)
	if err != nil {
		return err
	}
	limit := frameLimit(opts)
	if src.video == nil && limit == 0 {
		return errors.New("a still input needs --frames or --duration")
	}

	glctx, release, err := newOffscreenContext(opts, logger)
	if err != nil {
		return err
	}
	defer release()

	p, err := player.New(glctx, fs, logger)
	if err != nil {
		return err
	}
	defer p.Shutdown()

	p.Preset().SetSpeed(opts.Speed)
	if !p.Preset().SetShaderPreset(args[0]) {
		return fmt.Errorf("preset %s could not be applied", args[0])
	}

	enc, err := encoder.New(opts, logger)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	ctx, cancel := context.WithCancel(ctx)
	g.Go(func() error {
		return src.Run(ctx)
	})

	// rendering stays on this goroutine, which owns the GL context
	n, recErr := p.Record(ctx, src.frames, enc, opts.Width, opts.Height, limit)
	cancel()
	closeErr := enc.Close()
	srcErr := g.Wait()

	if err := errors.Join(recErr, closeErr, srcErr); err != nil {
		return err
	}
	logger.Info().Str("output", opts.Output).Int("frames", n).Msg("recording written")
	return nil
}
