package inputs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoInfo describes the first video stream of a file.
type VideoInfo struct {
	Width     int
	Height    int
	FrameRate float64
}

// ProbeVideo asks ffprobe for the video stream geometry of path.
func ProbeVideo(path string) (VideoInfo, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("failed to probe %s: %w", path, err)
	}
	return parseProbe(out)
}

func parseProbe(out string) (VideoInfo, error) {
	var probe struct {
		Streams []struct {
			CodecType    string `json:"codec_type"`
			Width        int    `json:"width"`
			Height       int    `json:"height"`
			AvgFrameRate string `json:"avg_frame_rate"`
			RFrameRate   string `json:"r_frame_rate"`
		} `json:"streams"`
	}
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return VideoInfo{}, fmt.Errorf("failed to parse probe output: %w", err)
	}
	for _, s := range probe.Streams {
		if s.CodecType != "video" || s.Width <= 0 || s.Height <= 0 {
			continue
		}
		rate := parseRate(s.AvgFrameRate)
		if rate == 0 {
			rate = parseRate(s.RFrameRate)
		}
		return VideoInfo{Width: s.Width, Height: s.Height, FrameRate: rate}, nil
	}
	return VideoInfo{}, errors.New("no video stream")
}

// parseRate converts ffprobe rationals like "30000/1001".
func parseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// VideoSource decodes a video file into RGBA frames with an ffmpeg
// subprocess.
type VideoSource struct {
	Path       string
	Info       VideoInfo
	FFmpegPath string
	Loop       bool
	log        zerolog.Logger
}

// NewVideoSource probes path and returns a source for it.
func NewVideoSource(path, ffmpegPath string, logger zerolog.Logger) (*VideoSource, error) {
	info, err := ProbeVideo(path)
	if err != nil {
		return nil, err
	}
	return &VideoSource{
		Path:       path,
		Info:       info,
		FFmpegPath: ffmpegPath,
		log:        logger.With().Str("component", "video").Str("path", path).Logger(),
	}, nil
}

// Run decodes frames into out until the file ends or ctx is done. With Loop
// set the file restarts at its end. out is not closed.
func (v *VideoSource) Run(ctx context.Context, out chan<- *image.RGBA) error {
	for {
		n, err := v.decodeOnce(ctx, out)
		if err != nil || !v.Loop || ctx.Err() != nil {
			return err
		}
		if n == 0 {
			return errors.New("video produced no frames")
		}
		v.log.Debug().Int("frames", n).Msg("looping video")
	}
}

func (v *VideoSource) decodeOnce(ctx context.Context, out chan<- *image.RGBA) (int, error) {
	pr, pw := io.Pipe()
	cmd := ffmpeg.Input(v.Path).
		Output("pipe:", ffmpeg.KwArgs{"format": "rawvideo", "pix_fmt": "rgba"}).
		WithOutput(pw).
		Silent(true)
	if v.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(v.FFmpegPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := cmd.Run()
		pw.CloseWithError(err)
		errc <- err
	}()

	n, readErr := ReadFrames(ctx, pr, v.Info.Width, v.Info.Height, out)
	// unblocks ffmpeg when the reader stopped early
	pr.CloseWithError(io.ErrClosedPipe)
	runErr := <-errc

	if ctx.Err() != nil {
		return n, nil
	}
	if readErr != nil {
		return n, readErr
	}
	if runErr != nil {
		return n, fmt.Errorf("ffmpeg decode failed: %w", runErr)
	}
	return n, nil
}

// ReadFrames splits a raw RGBA stream into width x height frames and sends
// them to out. It returns the number of frames sent. A trailing partial
// frame is dropped.
func ReadFrames(ctx context.Context, r io.Reader, width, height int, out chan<- *image.RGBA) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	n := 0
	for {
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		if _, err := io.ReadFull(r, img.Pix); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return n, nil
			}
			return n, err
		}
		select {
		case out <- img:
			n++
		case <-ctx.Done():
			return n, nil
		}
	}
}
