package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderpreset/shader"
)

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// Blitter copies a texture over the whole bound framebuffer. It shows the
// unprocessed frame when no preset is active.
type Blitter struct {
	program    uint32
	textureLoc int32
	vao, vbo   uint32
}

func NewBlitter(isGLES bool) (*Blitter, error) {
	program, err := newProgram(shader.GenerateVertexShader(isGLES), shader.GetBlitFragmentShader(isGLES), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}
	b := &Blitter{
		program:    program,
		textureLoc: gl.GetUniformLocation(program, gl.Str("u_texture\x00")),
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return b, nil
}

// Blit draws tex into the current framebuffer and viewport.
func (b *Blitter) Blit(tex *Texture) {
	gl.UseProgram(b.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.TextureID())
	gl.Uniform1i(b.textureLoc, 0)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

func (b *Blitter) Destroy() {
	gl.DeleteProgram(b.program)
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
}
