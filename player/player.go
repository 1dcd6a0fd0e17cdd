// Package player drives a shader preset on a live GL context: it uploads
// source frames, runs the preset into a window or an offscreen texture and
// falls back to a plain copy when no preset applies.
package player

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderpreset/glrender"
	"github.com/richinsley/goshaderpreset/graphics"
	"github.com/richinsley/goshaderpreset/preset"
	"github.com/richinsley/goshaderpreset/renderer"
	"github.com/richinsley/goshaderpreset/shader"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

type Player struct {
	context graphics.Context
	rc      *glrender.RenderContext
	backend *glrender.Backend
	factory *preset.Factory
	preset  *renderer.ShaderPreset
	blitter *glrender.Blitter

	source *glrender.Texture
	target *glrender.Texture
	log    zerolog.Logger
}

// New makes ctx current on the calling thread and sets up the GL side.
// Every other method must run on that thread.
func New(ctx graphics.Context, fs afero.Fs, logger zerolog.Logger) (*Player, error) {
	ctx.MakeCurrent()
	if err := glrender.Init(); err != nil {
		return nil, err
	}

	log := logger.With().Str("component", "player").Logger()
	log.Info().
		Str("vendor", gl.GoStr(gl.GetString(gl.VENDOR))).
		Str("renderer", gl.GoStr(gl.GetString(gl.RENDERER))).
		Str("version", gl.GoStr(gl.GetString(gl.VERSION))).
		Bool("gles", ctx.IsGLES()).
		Msg("GL context ready")

	blitter, err := glrender.NewBlitter(ctx.IsGLES())
	if err != nil {
		return nil, err
	}

	p := &Player{
		context: ctx,
		rc:      glrender.NewRenderContext(),
		backend: glrender.NewBackend(fs, ctx.IsGLES(), logger),
		factory: preset.NewDefaultFactory(fs, logger),
		blitter: blitter,
		log:     log,
	}
	p.preset = renderer.New(p.rc, p.backend, p.factory, renderer.WithLogger(logger))
	return p, nil
}

// Preset exposes the orchestrator for path, speed and reload control.
func (p *Player) Preset() *renderer.ShaderPreset {
	return p.preset
}

func (p *Player) Factory() *preset.Factory {
	return p.factory
}

// SetFrame uploads img as the source of the next render. The source texture
// is recreated when the frame size changes.
func (p *Player) SetFrame(img *image.RGBA) error {
	size := img.Bounds().Size()
	if p.source == nil || p.source.Width() != size.X || p.source.Height() != size.Y {
		if p.source != nil {
			p.source.DestroyTextureObject()
		}
		p.source = glrender.NewTexture(size.X, size.Y, shader.FboScale{})
		if err := p.source.CreateTextureObject(); err != nil {
			p.source = nil
			return fmt.Errorf("failed to create source texture: %w", err)
		}
		p.preset.SetVideoSize(size.X, size.Y)
		p.log.Debug().Int("width", size.X).Int("height", size.Y).Msg("source size changed")
	}
	return p.source.Upload(img)
}

func (p *Player) sourceSize() shader.FloatSize {
	return shader.FloatSize{X: float32(p.source.Width()), Y: float32(p.source.Height())}
}

// Present draws the current frame into the default framebuffer of the given
// size, letterboxed. It reports whether the preset was applied.
func (p *Player) Present(width, height int) bool {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return p.draw(width, height, nil)
}

func (p *Player) draw(width, height int, target *glrender.Texture) bool {
	full := graphics.Rect{X2: float32(width), Y2: float32(height)}
	p.rc.SetViewPort(full)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if p.source == nil {
		return false
	}

	fullSize := shader.FloatSize{X: full.X2, Y: full.Y2}
	dest := shader.FitQuad(p.sourceSize(), fullSize)

	var rt renderer.Texture
	if target != nil {
		rt = target
	}
	if p.preset.RenderUpdate(dest, fullSize, p.source, rt) {
		return true
	}

	// raw frame into the letterbox rectangle
	if target != nil {
		if err := target.BindFBO(); err != nil {
			p.log.Warn().Err(err).Msg("cannot bind output framebuffer")
			return false
		}
		defer target.UnbindFBO()
	}
	box := dest[0]
	p.rc.SetViewPort(graphics.Rect{
		X1: box.X,
		Y1: fullSize.Y - dest[2].Y,
		X2: dest[2].X,
		Y2: fullSize.Y - box.Y,
	})
	p.blitter.Blit(p.source)
	p.rc.SetViewPort(full)
	return false
}

// RenderImage runs the current frame through the preset into an offscreen
// texture of the given size and reads it back.
func (p *Player) RenderImage(width, height int) (*image.RGBA, error) {
	if p.target == nil || p.target.Width() != width || p.target.Height() != height {
		if p.target != nil {
			p.target.DestroyTextureObject()
		}
		p.target = glrender.NewTexture(width, height, shader.FboScale{})
		if err := p.target.CreateTextureObject(); err != nil {
			p.target = nil
			return nil, fmt.Errorf("failed to create output texture: %w", err)
		}
	}
	if err := p.target.BindFBO(); err != nil {
		return nil, err
	}
	p.draw(width, height, p.target)
	p.target.UnbindFBO()
	return p.target.ReadRGBA()
}

// Shutdown releases GL objects. The context itself belongs to the caller.
func (p *Player) Shutdown() {
	p.preset.SetShaderPreset("")
	if p.source != nil {
		p.source.DestroyTextureObject()
	}
	if p.target != nil {
		p.target.DestroyTextureObject()
	}
	p.blitter.Destroy()
}
