package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderpreset/shader"
)

// getWrapMode converts a preset wrap type to the OpenGL constant.
func getWrapMode(wrap shader.WrapType) int32 {
	switch wrap {
	case shader.WrapEdge:
		return gl.CLAMP_TO_EDGE
	case shader.WrapRepeat:
		return gl.REPEAT
	case shader.WrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_BORDER
	}
}

// getFilterMode converts a preset filter to OpenGL min and mag filters.
func getFilterMode(filter shader.FilterType, mipmap bool) (minFilter, magFilter int32) {
	if filter == shader.FilterNearest {
		if mipmap {
			return gl.NEAREST_MIPMAP_NEAREST, gl.NEAREST
		}
		return gl.NEAREST, gl.NEAREST
	}
	if mipmap {
		return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	}
	return gl.LINEAR, gl.LINEAR
}

// getTextureFormat picks the storage of a pass render target.
func getTextureFormat(fbo shader.FboScale) (internalFormat int32, pixelType uint32) {
	switch {
	case fbo.FloatFramebuffer:
		return gl.RGBA32F, gl.FLOAT
	case fbo.SRGBFramebuffer:
		return gl.SRGB8_ALPHA8, gl.UNSIGNED_BYTE
	default:
		return gl.RGBA8, gl.UNSIGNED_BYTE
	}
}
