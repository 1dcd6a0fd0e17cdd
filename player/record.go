package player

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"
)

// numBuffers is the depth of the rendered-frame queue to the writer.
const numBuffers = 4

// FrameWriter consumes rendered frames, typically an encoder.
type FrameWriter interface {
	WriteFrame(*image.RGBA) error
}

// Record renders every frame received on frames into a width x height image
// and hands it to w on a separate goroutine. It stops when frames is closed,
// ctx is done, limit frames were written (limit <= 0 means no limit) or w
// fails. Record must run on the GL thread.
func (p *Player) Record(ctx context.Context, frames <-chan *image.RGBA, w FrameWriter, width, height, limit int) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	out := make(chan *image.RGBA, numBuffers)
	written := 0
	g.Go(func() error {
		for img := range out {
			if err := w.WriteFrame(img); err != nil {
				return err
			}
			written++
		}
		return nil
	})

	produced, renderErr := p.produce(gctx, frames, out, width, height, limit)
	close(out)
	if err := g.Wait(); err != nil {
		return written, err
	}
	if renderErr != nil {
		return written, fmt.Errorf("render failed on frame %d: %w", produced, renderErr)
	}
	p.log.Info().Int("frames", written).Float64("frame_count", p.preset.FrameCount()).Msg("recording finished")
	return written, nil
}

func (p *Player) produce(ctx context.Context, frames <-chan *image.RGBA, out chan<- *image.RGBA, width, height, limit int) (int, error) {
	n := 0
	for limit <= 0 || n < limit {
		var src *image.RGBA
		select {
		case <-ctx.Done():
			return n, nil
		case f, ok := <-frames:
			if !ok {
				return n, nil
			}
			src = f
		}

		if err := p.SetFrame(src); err != nil {
			return n, err
		}
		img, err := p.RenderImage(width, height)
		if err != nil {
			return n, err
		}

		select {
		case out <- img:
			n++
		case <-ctx.Done():
			return n, nil
		}
	}
	return n, nil
}
