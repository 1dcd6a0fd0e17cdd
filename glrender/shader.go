package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderpreset/renderer"
	"github.com/richinsley/goshaderpreset/shader"
	"github.com/richinsley/goshaderpreset/translator"
)

// maxTextureUnits bounds how many textures one pass binds.
const maxTextureUnits = 32

type glTexture interface {
	TextureID() uint32
}

// Shader is one linked pass program.
type Shader struct {
	backend *Backend

	program       uint32
	passIdx       int
	frameCountMod uint
	params        map[string]float32
	luts          []renderer.Lut
	names         map[string]string
	locations     map[string]int32
	sized         bool

	inputSize        shader.FloatSize
	inputTextureSize shader.FloatSize
	outputSize       shader.FloatSize
	mvp              [16]float32
	vertices         [4]shader.Point

	// set by PrepareParameters for the coming Render
	frameCount   uint64
	uniformSize  shader.FloatSize
	origin       renderer.Texture
	passTextures []renderer.Texture
	passShaders  []renderer.Shader
}

func (s *Shader) Create(source, path string, params map[string]float32, luts []renderer.Lut, passIdx int, frameCountMod uint) error {
	version := shader.DefaultVersion(s.backend.isGLES)
	vs := shader.StageSource(source, shader.StageVertex, version)
	fs := shader.StageSource(source, shader.StageFragment, version)

	s.names = nil
	if translator.NeedsTranslation(source, s.backend.isGLES) {
		vres, err := translator.Translate(shader.StageVertex, vs)
		if err != nil {
			return err
		}
		fres, err := translator.Translate(shader.StageFragment, fs)
		if err != nil {
			return err
		}
		vs, fs = vres.Code, fres.Code
		s.names = make(map[string]string, len(vres.Names)+len(fres.Names))
		for k, v := range vres.Names {
			s.names[k] = v
		}
		for k, v := range fres.Names {
			s.names[k] = v
		}
	}

	program, err := newProgram(vs, fs, map[string]uint32{
		s.mappedName("VertexCoord"): attribVertexCoord,
		s.mappedName("TexCoord"):    attribTexCoord,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	s.program = program
	s.passIdx = passIdx
	s.frameCountMod = frameCountMod
	s.params = params
	s.luts = luts
	s.locations = make(map[string]int32)
	s.sized = false
	s.backend.log.Debug().Str("shader", path).Int("pass", passIdx).Int("params", len(params)).Msg("pass compiled")
	return nil
}

func (s *Shader) mappedName(name string) string {
	if n, ok := s.names[name]; ok && n != "" {
		return n
	}
	return name
}

// location caches uniform lookups; -1 means the program does not use it.
func (s *Shader) location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.program, gl.Str(s.mappedName(name)+"\x00"))
	s.locations[name] = loc
	return loc
}

func (s *Shader) SetSizes(prevSize, prevTextureSize, nextSize shader.FloatSize) {
	s.inputSize = prevSize
	s.inputTextureSize = prevTextureSize
	s.outputSize = nextSize
	s.sized = false
}

func (s *Shader) UpdateMVP() {
	s.mvp = shader.OrthoMVP(s.outputSize)
	s.sized = s.program != 0
}

func (s *Shader) PrepareParameters(dest shader.Quad, fullDestSize shader.FloatSize, source renderer.Texture, textures []renderer.Texture, shaders []renderer.Shader, frameCount uint64) {
	s.origin = source
	s.passTextures = textures
	s.passShaders = shaders
	s.frameCount = frameCount

	if s.passIdx == len(shaders)-1 {
		s.vertices = shader.DestVertices(dest, fullDestSize)
		s.uniformSize = fullDestSize
		s.mvp = shader.OrthoMVP(fullDestSize)
		return
	}
	s.vertices = shader.PassVertices(s.outputSize)
	s.uniformSize = s.outputSize
	s.mvp = shader.OrthoMVP(s.outputSize)
}

func (s *Shader) Render(source, target renderer.Texture) error {
	if s.program == 0 || !s.sized {
		return renderer.ErrNotCreated
	}
	src, ok := source.(glTexture)
	if !ok || src.TextureID() == 0 {
		return fmt.Errorf("pass %d: source is not a GL texture", s.passIdx)
	}

	gl.UseProgram(s.program)
	unit := s.bindInput(src.TextureID())
	unit = s.setUniforms(unit)
	s.backend.drawQuad(s.vertices)

	for u := uint32(0); u < unit; u++ {
		gl.ActiveTexture(gl.TEXTURE0 + u)
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.BindSampler(u, 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.UseProgram(0)
	return nil
}

// bindInput binds the pass input to unit 0 with the pass sampler and
// returns the next free unit.
func (s *Shader) bindInput(id uint32) uint32 {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, id)
	if sampler, mipmap := s.backend.sampler(s.passIdx); sampler != 0 {
		if mipmap {
			gl.GenerateMipmap(gl.TEXTURE_2D)
		}
		gl.BindSampler(0, sampler)
	}
	if loc := s.location("Texture"); loc >= 0 {
		gl.Uniform1i(loc, 0)
	}
	return 1
}

func (s *Shader) setUniforms(unit uint32) uint32 {
	s.uniform1i("FrameDirection", 1)
	s.uniform1i("FrameCount", int32(shader.FrameCountValue(s.frameCount, s.frameCountMod)))
	s.uniform2f("InputSize", s.inputSize)
	s.uniform2f("TextureSize", s.inputTextureSize)
	s.uniform2f("OutputSize", s.uniformSize)
	if loc := s.location("MVPMatrix"); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &s.mvp[0])
	}

	if orig, ok := s.origin.(glTexture); ok {
		size := shader.FloatSize{X: float32(s.origin.Width()), Y: float32(s.origin.Height())}
		unit = s.bindSampler("OrigTexture", orig.TextureID(), unit)
		s.uniform2f("OrigInputSize", size)
		s.uniform2f("OrigTextureSize", size)
	}

	// earlier pass outputs: PassN counts from the first pass, PassPrevN
	// back from this one
	for k := 0; k < s.passIdx && k < len(s.passTextures); k++ {
		tex, ok := s.passTextures[k].(glTexture)
		if !ok {
			continue
		}
		size := shader.FloatSize{X: float32(s.passTextures[k].Width()), Y: float32(s.passTextures[k].Height())}
		var input shader.FloatSize
		if k < len(s.passShaders) {
			input = s.passShaders[k].InputSize()
		}
		prefixes := []string{fmt.Sprintf("Pass%d", k+1), fmt.Sprintf("PassPrev%d", s.passIdx-k)}
		if alias := s.backend.alias(k); alias != "" {
			prefixes = append(prefixes, alias)
		}
		for _, prefix := range prefixes {
			if s.location(prefix+"Texture") < 0 {
				continue
			}
			unit = s.bindSampler(prefix+"Texture", tex.TextureID(), unit)
			s.uniform2f(prefix+"TextureSize", size)
			s.uniform2f(prefix+"InputSize", input)
		}
	}

	for name, value := range s.params {
		if loc := s.location(name); loc >= 0 {
			gl.Uniform1f(loc, value)
		}
	}

	for _, lut := range s.luts {
		tex, ok := lut.Texture().(glTexture)
		if !ok {
			continue
		}
		unit = s.bindSampler(lut.ID(), tex.TextureID(), unit)
	}
	return unit
}

func (s *Shader) bindSampler(name string, id, unit uint32) uint32 {
	loc := s.location(name)
	if loc < 0 || unit >= maxTextureUnits {
		return unit
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.Uniform1i(loc, int32(unit))
	return unit + 1
}

func (s *Shader) uniform1i(name string, v int32) {
	if loc := s.location(name); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

func (s *Shader) uniform2f(name string, v shader.FloatSize) {
	if loc := s.location(name); loc >= 0 {
		gl.Uniform2f(loc, v.X, v.Y)
	}
}

func (s *Shader) Destroy() {
	if s.program != 0 {
		gl.DeleteProgram(s.program)
		s.program = 0
	}
	s.sized = false
	s.luts = nil
	s.passTextures = nil
	s.passShaders = nil
}

func (s *Shader) InputSize() shader.FloatSize        { return s.inputSize }
func (s *Shader) InputTextureSize() shader.FloatSize { return s.inputTextureSize }
func (s *Shader) OutputSize() shader.FloatSize       { return s.outputSize }
