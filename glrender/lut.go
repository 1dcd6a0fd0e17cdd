package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderpreset/inputs"
	"github.com/richinsley/goshaderpreset/renderer"
	"github.com/richinsley/goshaderpreset/shader"
	"github.com/spf13/afero"
)

// Lut is a lookup texture decoded from an image file.
type Lut struct {
	fs      afero.Fs
	desc    shader.Lut
	texture *Texture
}

func (l *Lut) Create(desc shader.Lut) error {
	l.desc = desc
	img, err := inputs.LoadImage(l.fs, desc.Path)
	if err != nil {
		return err
	}

	tex, err := NewTextureFromImage(img)
	if err != nil {
		return err
	}

	wrap := getWrapMode(desc.Wrap)
	minFilter, magFilter := getFilterMode(desc.Filter, desc.Mipmap)
	gl.BindTexture(gl.TEXTURE_2D, tex.TextureID())
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
	if desc.Mipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	l.texture = tex
	return nil
}

func (l *Lut) ID() string   { return l.desc.ID }
func (l *Lut) Path() string { return l.desc.Path }

func (l *Lut) Texture() renderer.Texture {
	if l.texture == nil {
		return nil
	}
	return l.texture
}

func (l *Lut) Destroy() {
	if l.texture != nil {
		l.texture.DestroyTextureObject()
		l.texture = nil
	}
}
