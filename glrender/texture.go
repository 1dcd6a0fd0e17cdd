package glrender

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderpreset/inputs"
	"github.com/richinsley/goshaderpreset/renderer"
	"github.com/richinsley/goshaderpreset/shader"
)

// Texture is a 2D texture that can be rendered to through its own
// framebuffer. Pass targets, sources, LUTs and CLI output all use it.
type Texture struct {
	width  int
	height int
	fbo    shader.FboScale

	textureID uint32
	fboID     uint32
}

// NewTexture describes a texture; no GL object exists until
// CreateTextureObject or Upload.
func NewTexture(width, height int, fbo shader.FboScale) *Texture {
	return &Texture{width: width, height: height, fbo: fbo}
}

// NewTextureFromImage uploads img as an 8-bit RGBA texture. Row 0 of the
// texture is the bottom of the image.
func NewTextureFromImage(img *image.RGBA) (*Texture, error) {
	size := img.Bounds().Size()
	t := NewTexture(size.X, size.Y, shader.FboScale{})
	if err := t.CreateTextureObject(); err != nil {
		return nil, err
	}
	if err := t.Upload(img); err != nil {
		t.DestroyTextureObject()
		return nil, err
	}
	return t, nil
}

func (t *Texture) CreateTextureObject() error {
	if t.width <= 0 || t.height <= 0 {
		return fmt.Errorf("invalid texture size %dx%d", t.width, t.height)
	}
	internalFormat, pixelType := getTextureFormat(t.fbo)

	for gl.GetError() != gl.NO_ERROR {
	}
	gl.GenTextures(1, &t.textureID)
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(t.width), int32(t.height), 0, gl.RGBA, pixelType, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteTextures(1, &t.textureID)
		t.textureID = 0
		return fmt.Errorf("failed to allocate %dx%d texture: gl error 0x%x", t.width, t.height, errCode)
	}
	return nil
}

func (t *Texture) DestroyTextureObject() {
	if t.fboID != 0 {
		gl.DeleteFramebuffers(1, &t.fboID)
		t.fboID = 0
	}
	if t.textureID != 0 {
		gl.DeleteTextures(1, &t.textureID)
		t.textureID = 0
	}
}

// BindFBO makes the texture the current render target, creating its
// framebuffer on first use.
func (t *Texture) BindFBO() error {
	if t.textureID == 0 {
		return renderer.ErrNotCreated
	}
	if t.fboID == 0 {
		gl.GenFramebuffers(1, &t.fboID)
		gl.BindFramebuffer(gl.FRAMEBUFFER, t.fboID)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.textureID, 0)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, t.fboID)
	}

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return fmt.Errorf("%w: status 0x%x", renderer.ErrFramebufferIncomplete, status)
	}
	if t.fbo.SRGBFramebuffer {
		gl.Enable(gl.FRAMEBUFFER_SRGB)
	}
	return nil
}

func (t *Texture) UnbindFBO() {
	if t.fbo.SRGBFramebuffer {
		gl.Disable(gl.FRAMEBUFFER_SRGB)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (t *Texture) Width() int  { return t.width }
func (t *Texture) Height() int { return t.height }

// TextureID returns the GL texture name.
func (t *Texture) TextureID() uint32 { return t.textureID }

func (t *Texture) size() shader.FloatSize {
	return shader.FloatSize{X: float32(t.width), Y: float32(t.height)}
}

// Upload replaces the texture content with img, flipped so that row 0 is
// the bottom of the picture. The size must match.
func (t *Texture) Upload(img *image.RGBA) error {
	if t.textureID == 0 {
		return renderer.ErrNotCreated
	}
	size := img.Bounds().Size()
	if size.X != t.width || size.Y != t.height {
		return fmt.Errorf("image is %dx%d, texture is %dx%d", size.X, size.Y, t.width, t.height)
	}
	flipped := inputs.VFlip(img)
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(t.width), int32(t.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(flipped.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// ReadRGBA reads the texture back as an image with the top row first.
func (t *Texture) ReadRGBA() (*image.RGBA, error) {
	if err := t.BindFBO(); err != nil {
		return nil, err
	}
	defer t.UnbindFBO()

	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.ReadPixels(0, 0, int32(t.width), int32(t.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	return inputs.VFlip(img), nil
}
