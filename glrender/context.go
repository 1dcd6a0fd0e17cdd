package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderpreset/graphics"
)

// RenderContext reads and writes viewport state of the current GL context.
type RenderContext struct {
	maxTextureSize int
}

func NewRenderContext() *RenderContext {
	return &RenderContext{}
}

func (c *RenderContext) GetViewPort() graphics.Rect {
	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])
	return graphics.Rect{
		X1: float32(vp[0]),
		Y1: float32(vp[1]),
		X2: float32(vp[0] + vp[2]),
		Y2: float32(vp[1] + vp[3]),
	}
}

func (c *RenderContext) SetViewPort(r graphics.Rect) {
	gl.Viewport(int32(r.X1), int32(r.Y1), int32(r.Width()), int32(r.Height()))
}

func (c *RenderContext) SetScissors(r graphics.Rect) {
	gl.Scissor(int32(r.X1), int32(r.Y1), int32(r.Width()), int32(r.Height()))
}

func (c *RenderContext) MaxTextureSize() int {
	if c.maxTextureSize == 0 {
		var size int32
		gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &size)
		c.maxTextureSize = int(size)
	}
	return c.maxTextureSize
}
