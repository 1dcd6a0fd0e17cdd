package renderer

import (
	"errors"
	"fmt"

	"github.com/richinsley/goshaderpreset/graphics"
	"github.com/richinsley/goshaderpreset/shader"
	"github.com/stretchr/testify/mock"
)

type mockContext struct {
	mock.Mock
	viewport graphics.Rect
	maxSize  int
}

func newMockContext(w, h float32) *mockContext {
	c := &mockContext{viewport: graphics.Rect{X2: w, Y2: h}, maxSize: 4096}
	c.On("SetViewPort", mock.Anything).Return()
	c.On("SetScissors", mock.Anything).Return()
	return c
}

func (c *mockContext) GetViewPort() graphics.Rect  { return c.viewport }
func (c *mockContext) SetViewPort(r graphics.Rect) { c.Called(r) }
func (c *mockContext) SetScissors(r graphics.Rect) { c.Called(r) }
func (c *mockContext) MaxTextureSize() int         { return c.maxSize }

type fakeTexture struct {
	width, height int
	fbo           shader.FboScale
	created       bool
	destroyed     bool
	incomplete    bool
	binds         int
	color         [4]uint8
}

func (t *fakeTexture) CreateTextureObject() error {
	t.created = true
	return nil
}

func (t *fakeTexture) DestroyTextureObject() { t.destroyed = true }

func (t *fakeTexture) BindFBO() error {
	if t.incomplete {
		return ErrFramebufferIncomplete
	}
	t.binds++
	return nil
}

func (t *fakeTexture) UnbindFBO()  {}
func (t *fakeTexture) Width() int  { return t.width }
func (t *fakeTexture) Height() int { return t.height }

type fakeLut struct {
	desc    shader.Lut
	fail    bool
	tex     *fakeTexture
	destroy int
}

func (l *fakeLut) Create(desc shader.Lut) error {
	l.desc = desc
	if l.fail {
		return fmt.Errorf("decode %s: %w", desc.Path, errors.New("bad image"))
	}
	l.tex = &fakeTexture{width: 16, height: 16, created: true}
	return nil
}

func (l *fakeLut) ID() string       { return l.desc.ID }
func (l *fakeLut) Path() string     { return l.desc.Path }
func (l *fakeLut) Texture() Texture { return l.tex }
func (l *fakeLut) Destroy()         { l.destroy++ }

type fakeShader struct {
	fail bool

	created   bool
	sized     bool
	destroyed bool
	source    string
	params    map[string]float32
	luts      []Lut
	passIdx   int
	mod       uint

	inputSize, inputTextureSize, outputSize shader.FloatSize

	frames  []uint64
	renders int
}

func (s *fakeShader) Create(source, path string, params map[string]float32, luts []Lut, passIdx int, frameCountMod uint) error {
	if s.fail {
		return fmt.Errorf("compile %s: syntax error", path)
	}
	s.created = true
	s.source = source
	s.params = params
	s.luts = luts
	s.passIdx = passIdx
	s.mod = frameCountMod
	return nil
}

func (s *fakeShader) SetSizes(prev, prevTexture, next shader.FloatSize) {
	s.inputSize, s.inputTextureSize, s.outputSize = prev, prevTexture, next
	s.sized = false
}

func (s *fakeShader) PrepareParameters(dest shader.Quad, fullDestSize shader.FloatSize, source Texture, textures []Texture, shaders []Shader, frameCount uint64) {
	s.frames = append(s.frames, shader.FrameCountValue(frameCount, s.mod))
}

func (s *fakeShader) UpdateMVP() { s.sized = s.created }

// Render copies the source color into the target, like a passthrough pass.
func (s *fakeShader) Render(source, target Texture) error {
	if !s.created || !s.sized {
		return ErrNotCreated
	}
	s.renders++
	src, _ := source.(*fakeTexture)
	if dst, ok := target.(*fakeTexture); ok && src != nil {
		dst.color = src.color
	}
	return nil
}

func (s *fakeShader) Destroy()                            { s.destroyed = true }
func (s *fakeShader) InputSize() shader.FloatSize        { return s.inputSize }
func (s *fakeShader) InputTextureSize() shader.FloatSize { return s.inputTextureSize }
func (s *fakeShader) OutputSize() shader.FloatSize       { return s.outputSize }

type fakeBackend struct {
	shaders  []*fakeShader
	textures []*fakeTexture
	luts     []*fakeLut

	layouts  int
	buffers  int
	samplers int
	releases int

	failShader  int
	failLuts    map[string]bool
	failLayouts bool
	incomplete  bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{failShader: -1, failLuts: map[string]bool{}}
}

func (b *fakeBackend) NewShader() Shader {
	// failShader counts shaders across builds
	s := &fakeShader{fail: len(b.shaders) == b.failShader}
	b.shaders = append(b.shaders, s)
	return s
}

func (b *fakeBackend) NewTexture(width, height int, fbo shader.FboScale) Texture {
	t := &fakeTexture{width: width, height: height, fbo: fbo, incomplete: b.incomplete}
	b.textures = append(b.textures, t)
	return t
}

func (b *fakeBackend) NewLut() Lut {
	l := &fakeLut{}
	b.luts = append(b.luts, l)
	return &lutHook{fakeLut: l, backend: b}
}

func (b *fakeBackend) CreateLayouts() error {
	b.layouts++
	if b.failLayouts {
		return errors.New("no vertex array")
	}
	return nil
}

func (b *fakeBackend) CreateBuffers() error { b.buffers++; return nil }

func (b *fakeBackend) CreateSamplers(passes []shader.Pass) error { b.samplers++; return nil }

func (b *fakeBackend) Release() { b.releases++ }

// lutHook decides failure at Create time from the descriptor id.
type lutHook struct {
	*fakeLut
	backend *fakeBackend
}

func (h *lutHook) Create(desc shader.Lut) error {
	h.fail = h.backend.failLuts[desc.ID]
	return h.fakeLut.Create(desc)
}

func (b *fakeBackend) liveShaders() []*fakeShader {
	var live []*fakeShader
	for _, s := range b.shaders {
		if !s.destroyed {
			live = append(live, s)
		}
	}
	return live
}

func (b *fakeBackend) liveTextures() []*fakeTexture {
	var live []*fakeTexture
	for _, t := range b.textures {
		if !t.destroyed {
			live = append(live, t)
		}
	}
	return live
}
