// Package renderer runs shader presets: it turns a parsed pass list into
// backend shaders and intermediate render targets and walks the chain once
// per frame.
package renderer

import (
	"fmt"

	"github.com/richinsley/goshaderpreset/graphics"
	"github.com/richinsley/goshaderpreset/preset"
	"github.com/richinsley/goshaderpreset/shader"
	"github.com/rs/zerolog"
)

// Option configures a ShaderPreset.
type Option func(*ShaderPreset)

// WithLogger sets the logger used for load and build failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *ShaderPreset) {
		p.log = logger.With().Str("component", "shaderpreset").Logger()
	}
}

// ShaderPreset owns every shader and intermediate texture of the active
// preset. It must only be used from the render thread.
type ShaderPreset struct {
	ctx     graphics.RenderContext
	backend Backend
	factory *preset.Factory
	log     zerolog.Logger

	path   string
	passes []shader.Pass
	failed map[string]struct{}

	// needsParse is set when path changed and passes are stale.
	needsParse bool
	// needsBuild is set when GPU objects no longer match passes or sizes.
	needsBuild bool
	built      bool

	shaders  []Shader
	textures []Texture
	luts     map[string]Lut

	videoSize  shader.FloatSize
	viewport   graphics.Rect
	speed      float64
	frameCount float64

	incompleteLogged map[int]bool
}

// New returns a ShaderPreset with no preset active.
func New(ctx graphics.RenderContext, backend Backend, factory *preset.Factory, opts ...Option) *ShaderPreset {
	p := &ShaderPreset{
		ctx:              ctx,
		backend:          backend,
		factory:          factory,
		log:              zerolog.Nop(),
		failed:           make(map[string]struct{}),
		luts:             make(map[string]Lut),
		speed:            1.0,
		incompleteLogged: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReadPresetFile parses path into the pass list and makes it the active
// preset. A path that failed before fails again without being parsed until
// the path changes or Reload is called.
func (p *ShaderPreset) ReadPresetFile(path string) error {
	if _, bad := p.failed[path]; bad {
		return fmt.Errorf("%w: %s", ErrPresetFailed, path)
	}

	var pr preset.Preset
	if err := p.factory.LoadPreset(path, &pr); err != nil {
		p.path = path
		p.markFailed(err)
		return err
	}

	p.dispose()
	p.path = path
	p.passes = pr.Passes
	p.needsParse = false
	p.needsBuild = true
	return nil
}

// SetShaderPreset activates the preset at path and builds it right away.
// An empty path disables post-processing.
func (p *ShaderPreset) SetShaderPreset(path string) bool {
	if path != p.path {
		p.path = path
		p.needsParse = true
		p.failed = make(map[string]struct{})
	}
	return p.update()
}

// Reload parses the current preset again even if it failed before.
func (p *ShaderPreset) Reload() bool {
	if p.path == "" {
		return false
	}
	delete(p.failed, p.path)
	p.needsParse = true
	return p.update()
}

// Reset forgets failed paths and releases every GPU object. The preset is
// parsed again on the next update.
func (p *ShaderPreset) Reset() {
	p.dispose()
	p.failed = make(map[string]struct{})
	p.passes = nil
	p.needsParse = p.path != ""
}

// ShaderPreset returns the active preset path.
func (p *ShaderPreset) ShaderPreset() string {
	return p.path
}

// Passes returns the parsed pass list of the active preset.
func (p *ShaderPreset) Passes() []shader.Pass {
	return append([]shader.Pass(nil), p.passes...)
}

// SetVideoSize declares the resolution of the source frames.
func (p *ShaderPreset) SetVideoSize(width, height int) {
	size := shader.FloatSize{X: float32(width), Y: float32(height)}
	if size != p.videoSize {
		p.videoSize = size
		p.needsBuild = true
	}
}

// SetSpeed sets how far the frame counter advances per rendered frame.
// 0 pauses time based effects. A negative speed runs the counter back,
// stopping at 0.
func (p *ShaderPreset) SetSpeed(speed float64) {
	p.speed = speed
}

// FrameCount returns the current value of the frame counter.
func (p *ShaderPreset) FrameCount() float64 {
	return p.frameCount
}

// RenderUpdate runs every pass of the active preset, reading from source and
// writing the final pass into target. A nil target is the default
// framebuffer. dest holds the destination corners in window pixels within a
// surface of fullDestSize. It returns false when no preset could be applied,
// in which case the caller shows the source unprocessed.
func (p *ShaderPreset) RenderUpdate(dest shader.Quad, fullDestSize shader.FloatSize, source, target Texture) bool {
	if !p.update() {
		return false
	}

	if len(p.shaders) != len(p.textures)+1 {
		p.markFailed(fmt.Errorf("%w: %d shaders for %d intermediate textures",
			ErrPresetFailed, len(p.shaders), len(p.textures)))
		return false
	}

	frame := uint64(p.frameCount)
	for _, s := range p.shaders {
		s.PrepareParameters(dest, fullDestSize, source, p.textures, p.shaders, frame)
	}

	input := source
	last := len(p.shaders) - 1
	for i := 0; i < last; i++ {
		tex := p.textures[i]
		if p.bind(i, tex) {
			p.ctx.SetViewPort(graphics.Rect{X2: float32(tex.Width()), Y2: float32(tex.Height())})
			if err := p.shaders[i].Render(input, tex); err != nil {
				p.log.Debug().Err(err).Int("pass", i).Msg("pass render failed")
			}
			tex.UnbindFBO()
		}
		input = tex
	}

	p.ctx.SetViewPort(p.viewport)
	p.ctx.SetScissors(p.viewport)

	if target == nil || p.bind(last, target) {
		if err := p.shaders[last].Render(input, target); err != nil {
			p.log.Debug().Err(err).Int("pass", last).Msg("pass render failed")
		}
		if target != nil {
			target.UnbindFBO()
		}
	}

	p.frameCount = max(p.frameCount+p.speed, 0)
	return true
}

// bind makes tex the render target of pass idx. An incomplete framebuffer
// skips the pass for this frame and is reported once per pass.
func (p *ShaderPreset) bind(idx int, tex Texture) bool {
	err := tex.BindFBO()
	if err == nil {
		return true
	}
	if !p.incompleteLogged[idx] {
		p.incompleteLogged[idx] = true
		p.log.Warn().Err(err).Int("pass", idx).Msg("skipping pass")
	}
	return false
}

// update parses and builds whatever is stale. It reports whether the
// pipeline is ready to render.
func (p *ShaderPreset) update() bool {
	if p.path == "" {
		if p.built || len(p.passes) > 0 {
			p.dispose()
			p.passes = nil
		}
		p.needsParse = false
		return false
	}
	if _, bad := p.failed[p.path]; bad {
		return false
	}

	if p.needsParse {
		if err := p.ReadPresetFile(p.path); err != nil {
			return false
		}
	}

	if vp := p.ctx.GetViewPort(); vp != p.viewport {
		p.viewport = vp
		p.needsBuild = true
	}

	if p.needsBuild || !p.built {
		if err := p.build(); err != nil {
			p.markFailed(err)
			return false
		}
		p.needsBuild = false
	}
	return true
}

// build creates shaders, layouts, buffers, textures and samplers in that
// order. On error the caller disposes whatever was built.
func (p *ShaderPreset) build() error {
	p.dispose()
	if len(p.passes) == 0 {
		return fmt.Errorf("%w: preset has no passes", ErrPresetFailed)
	}

	for i, pass := range p.passes {
		s := p.backend.NewShader()
		err := s.Create(pass.Source, pass.SourcePath, ParametersFor(pass), p.lutsFor(pass), i, pass.FrameCountMod)
		if err != nil {
			s.Destroy()
			return fmt.Errorf("pass %d (%s): %w", i, pass.SourcePath, err)
		}
		p.shaders = append(p.shaders, s)
	}

	if err := p.backend.CreateLayouts(); err != nil {
		return fmt.Errorf("failed to create vertex layouts: %w", err)
	}
	if err := p.backend.CreateBuffers(); err != nil {
		return fmt.Errorf("failed to create constant buffers: %w", err)
	}
	if err := p.createTextures(); err != nil {
		return err
	}
	if err := p.backend.CreateSamplers(p.passes); err != nil {
		return fmt.Errorf("failed to create samplers: %w", err)
	}

	p.built = true
	p.log.Debug().
		Str("path", p.path).
		Int("passes", len(p.shaders)).
		Str("viewport", p.viewportSize().String()).
		Msg("shader preset built")
	return nil
}

func (p *ShaderPreset) viewportSize() shader.FloatSize {
	return shader.FloatSize{X: p.viewport.Width(), Y: p.viewport.Height()}
}

// createTextures sizes every shader and allocates the intermediate targets.
// The last pass always outputs at viewport size.
func (p *ShaderPreset) createTextures() error {
	viewport := p.viewportSize()
	prev := p.videoSize
	if prev.X <= 0 || prev.Y <= 0 {
		prev = viewport
	}
	prevTexture := prev
	maxSize := p.ctx.MaxTextureSize()

	last := len(p.passes) - 1
	for i, pass := range p.passes {
		if i == last {
			p.shaders[i].SetSizes(prev, prevTexture, viewport)
			p.shaders[i].UpdateMVP()
			break
		}

		w, h := texturePixels(ScaledSize(pass.Fbo, prev, viewport), maxSize)
		out := shader.FloatSize{X: float32(w), Y: float32(h)}
		p.shaders[i].SetSizes(prev, prevTexture, out)
		p.shaders[i].UpdateMVP()

		tex := p.backend.NewTexture(w, h, pass.Fbo)
		if err := tex.CreateTextureObject(); err != nil {
			tex.DestroyTextureObject()
			return fmt.Errorf("failed to create texture for pass %d (%dx%d): %w", i, w, h, err)
		}
		p.textures = append(p.textures, tex)

		prev = out
		prevTexture = out
	}
	return nil
}

// lutsFor returns the LUTs a pass samples, loading each identifier once per
// build. A LUT that fails to load is left out and the pass renders without it.
func (p *ShaderPreset) lutsFor(pass shader.Pass) []Lut {
	luts := make([]Lut, 0, len(pass.Luts))
	for _, desc := range pass.Luts {
		if lut, ok := p.luts[desc.ID]; ok {
			if lut != nil {
				luts = append(luts, lut)
			}
			continue
		}
		lut := p.backend.NewLut()
		if err := lut.Create(desc); err != nil {
			p.log.Warn().Err(err).Str("lut", desc.ID).Str("file", desc.Path).Msg("failed to load lookup texture")
			lut.Destroy()
			p.luts[desc.ID] = nil
			continue
		}
		p.luts[desc.ID] = lut
		luts = append(luts, lut)
	}
	return luts
}

func (p *ShaderPreset) markFailed(err error) {
	p.log.Error().Err(err).Str("path", p.path).Msg("failed to load shader preset")
	p.failed[p.path] = struct{}{}
	p.dispose()
}

// dispose releases every object created by build.
func (p *ShaderPreset) dispose() {
	for _, s := range p.shaders {
		s.Destroy()
	}
	for _, t := range p.textures {
		t.DestroyTextureObject()
	}
	for _, l := range p.luts {
		if l != nil {
			l.Destroy()
		}
	}
	p.backend.Release()
	p.shaders = nil
	p.textures = nil
	p.luts = make(map[string]Lut)
	p.incompleteLogged = make(map[int]bool)
	p.built = false
}
