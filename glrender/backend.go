// Package glrender is the OpenGL and OpenGL ES backend of the shader preset
// renderer. All calls must happen on the thread owning the GL context.
package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderpreset/renderer"
	"github.com/richinsley/goshaderpreset/shader"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const (
	attribVertexCoord = 0
	attribTexCoord    = 1

	// floats per vertex: position xy, texcoord uv
	vertexStride = 4
)

// Backend creates GL shaders, textures and LUTs and owns the state shared by
// every pass: the quad vertex array and one sampler per pass.
type Backend struct {
	fs     afero.Fs
	isGLES bool
	log    zerolog.Logger

	vao, vbo, ebo uint32
	samplers      []uint32
	mipmap        []bool
	aliases       []string
}

// NewBackend returns a backend reading LUT images through fs. isGLES selects
// the shading language version injected into sources without one.
func NewBackend(fs afero.Fs, isGLES bool, logger zerolog.Logger) *Backend {
	return &Backend{
		fs:     fs,
		isGLES: isGLES,
		log:    logger.With().Str("component", "glrender").Logger(),
	}
}

func (b *Backend) NewShader() renderer.Shader {
	return &Shader{backend: b, locations: make(map[string]int32)}
}

func (b *Backend) NewTexture(width, height int, fbo shader.FboScale) renderer.Texture {
	return NewTexture(width, height, fbo)
}

func (b *Backend) NewLut() renderer.Lut {
	return &Lut{fs: b.fs}
}

// CreateLayouts builds the quad every pass draws: a dynamic vertex buffer
// and a 4 index triangle strip.
func (b *Backend) CreateLayouts() error {
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.GenBuffers(1, &b.ebo)

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*vertexStride*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(attribVertexCoord)
	gl.VertexAttribPointer(attribVertexCoord, 2, gl.FLOAT, false, vertexStride*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(attribTexCoord)
	gl.VertexAttribPointer(attribTexCoord, 2, gl.FLOAT, false, vertexStride*4, gl.PtrOffset(2*4))

	indices := shader.QuadIndices
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices), gl.Ptr(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// CreateBuffers is a no-op: GL passes set uniforms directly.
func (b *Backend) CreateBuffers() error { return nil }

// CreateSamplers builds the sampler each pass reads its input with.
func (b *Backend) CreateSamplers(passes []shader.Pass) error {
	if len(passes) == 0 {
		return nil
	}
	b.samplers = make([]uint32, len(passes))
	b.mipmap = make([]bool, len(passes))
	b.aliases = make([]string, len(passes))
	gl.GenSamplers(int32(len(passes)), &b.samplers[0])
	for i, pass := range passes {
		wrap := getWrapMode(pass.Wrap)
		minFilter, magFilter := getFilterMode(pass.Filter, pass.Mipmap)
		gl.SamplerParameteri(b.samplers[i], gl.TEXTURE_WRAP_S, wrap)
		gl.SamplerParameteri(b.samplers[i], gl.TEXTURE_WRAP_T, wrap)
		gl.SamplerParameteri(b.samplers[i], gl.TEXTURE_MIN_FILTER, minFilter)
		gl.SamplerParameteri(b.samplers[i], gl.TEXTURE_MAG_FILTER, magFilter)
		b.mipmap[i] = pass.Mipmap
		b.aliases[i] = pass.Alias
	}
	return nil
}

func (b *Backend) Release() {
	if len(b.samplers) > 0 {
		gl.DeleteSamplers(int32(len(b.samplers)), &b.samplers[0])
	}
	b.samplers = nil
	b.mipmap = nil
	b.aliases = nil
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		gl.DeleteBuffers(1, &b.vbo)
		gl.DeleteBuffers(1, &b.ebo)
		b.vao, b.vbo, b.ebo = 0, 0, 0
	}
}

func (b *Backend) sampler(pass int) (uint32, bool) {
	if pass < 0 || pass >= len(b.samplers) {
		return 0, false
	}
	return b.samplers[pass], b.mipmap[pass]
}

func (b *Backend) alias(pass int) string {
	if pass < 0 || pass >= len(b.aliases) {
		return ""
	}
	return b.aliases[pass]
}

// drawQuad uploads the corners and draws them as a triangle strip.
func (b *Backend) drawQuad(vertices [4]shader.Point) {
	var data [4 * vertexStride]float32
	for i, v := range vertices {
		tc := shader.TexCoords[i]
		data[i*vertexStride+0] = v.X
		data[i*vertexStride+1] = v.Y
		data[i*vertexStride+2] = tc.X
		data[i*vertexStride+3] = tc.Y
	}

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, gl.Ptr(&data[0]))
	gl.DrawElements(gl.TRIANGLE_STRIP, int32(len(shader.QuadIndices)), gl.UNSIGNED_BYTE, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}
