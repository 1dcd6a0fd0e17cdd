package renderer

import (
	"errors"

	"github.com/richinsley/goshaderpreset/shader"
)

var (
	// ErrPresetFailed marks a preset path that could not be parsed or built.
	ErrPresetFailed = errors.New("shader preset failed")
	// ErrFramebufferIncomplete is returned by Texture.BindFBO when the
	// color attachment cannot be rendered to.
	ErrFramebufferIncomplete = errors.New("framebuffer incomplete")
	// ErrNotCreated is returned when a resource is used before it was created.
	ErrNotCreated = errors.New("resource not created")
)

// Texture is a GPU texture that can also act as a render target.
type Texture interface {
	CreateTextureObject() error
	DestroyTextureObject()
	BindFBO() error
	UnbindFBO()
	Width() int
	Height() int
}

// Lut is a static lookup texture loaded from an image file.
type Lut interface {
	Create(desc shader.Lut) error
	ID() string
	Path() string
	// Texture is owned by the Lut; callers only sample it.
	Texture() Texture
	Destroy()
}

// Shader is one compiled pass program.
//
// A Shader moves from uncreated to created (Create), then to sized
// (SetSizes and UpdateMVP). Only a sized shader can Render; any later
// SetSizes must again be followed by UpdateMVP.
type Shader interface {
	Create(source, path string, params map[string]float32, luts []Lut, passIdx int, frameCountMod uint) error
	SetSizes(prevSize, prevTextureSize, nextSize shader.FloatSize)
	PrepareParameters(dest shader.Quad, fullDestSize shader.FloatSize, source Texture, textures []Texture, shaders []Shader, frameCount uint64)
	UpdateMVP()
	Render(source, target Texture) error
	Destroy()

	InputSize() shader.FloatSize
	InputTextureSize() shader.FloatSize
	OutputSize() shader.FloatSize
}

// Backend creates the API specific objects of a preset. Exactly one backend
// is used per ShaderPreset.
type Backend interface {
	NewShader() Shader
	NewTexture(width, height int, fbo shader.FboScale) Texture
	NewLut() Lut

	// CreateLayouts builds vertex input state shared by all passes.
	CreateLayouts() error
	// CreateBuffers builds constant buffers shared by all passes.
	CreateBuffers() error
	// CreateSamplers builds the sampler state each pass reads its input with.
	CreateSamplers(passes []shader.Pass) error
	// Release frees what the Create* calls built. It may be called when
	// nothing was built.
	Release()
}
