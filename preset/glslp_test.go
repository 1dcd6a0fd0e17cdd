package preset

import (
	"testing"

	"github.com/richinsley/goshaderpreset/shader"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passthroughSource = `#version 330 core
#if defined(VERTEX)
in vec4 VertexCoord;
void main() { gl_Position = VertexCoord; }
#elif defined(FRAGMENT)
out vec4 FragColor;
void main() { FragColor = vec4(1.0); }
#endif
`

const paramSource = `#version 330 core
#pragma parameter STRENGTH "Strength" 0.5 0.0 1.0 0.05
#pragma parameter GAMMA "Gamma" 2.2 1.0 3.0
#ifdef PARAMETER_UNIFORM
uniform float STRENGTH;
uniform float GAMMA;
#endif
`

func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}
	return fs
}

func TestParsePragmaParameters(t *testing.T) {
	params := ParsePragmaParameters(paramSource + "#pragma parameter BAD \"Bad\" x 0 1\n")
	require.Len(t, params, 2)
	assert.Equal(t, shader.Parameter{
		ID: "STRENGTH", Description: "Strength",
		Current: 0.5, Initial: 0.5, Minimum: 0, Maximum: 1, Step: 0.05,
	}, params[0])
	assert.Equal(t, "GAMMA", params[1].ID)
	assert.Zero(t, params[1].Step)
}

func TestGLSLPLoadFull(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/presets/crt.glslp": `shaders = "3"
shader0 = shaders/a.glsl
filter_linear0 = false
wrap_mode0 = repeat
mipmap_input0 = true
scale_type0 = source
scale0 = 2.0
alias0 = FIRST
frame_count_mod0 = 10

shader1 = shaders/b.glsl
scale_type_x1 = absolute
scale_x1 = 640
scale_type_y1 = viewport
scale_y1 = 0.5
float_framebuffer1 = true

shader2 = "shaders/a.glsl" # trailing comment
srgb_framebuffer2 = true

textures = "MASK;NOISE"
MASK = tex/mask.png
MASK_linear = false
MASK_wrap_mode = mirrored_repeat
NOISE = /abs/noise.png
NOISE_mipmap = true

parameters = "STRENGTH;GAMMA"
STRENGTH = 0.8
GAMMA = 9.0
`,
		"/presets/shaders/a.glsl": paramSource,
		"/presets/shaders/b.glsl": passthroughSource,
	})

	var p Preset
	require.NoError(t, NewGLSLPLoader(fs).Load("/presets/crt.glslp", &p))
	require.Len(t, p.Passes, 3)

	p0 := p.Passes[0]
	assert.Equal(t, "/presets/shaders/a.glsl", p0.SourcePath)
	assert.Equal(t, paramSource, p0.Source)
	assert.Equal(t, shader.FilterNearest, p0.Filter)
	assert.Equal(t, shader.WrapRepeat, p0.Wrap)
	assert.True(t, p0.Mipmap)
	assert.Equal(t, "FIRST", p0.Alias)
	assert.Equal(t, uint(10), p0.FrameCountMod)
	assert.Equal(t, shader.FboScaleAxis{Type: shader.ScaleInput, Scale: 2}, p0.Fbo.X)
	assert.Equal(t, shader.FboScaleAxis{Type: shader.ScaleInput, Scale: 2}, p0.Fbo.Y)

	p1 := p.Passes[1]
	assert.Equal(t, shader.FilterLinear, p1.Filter)
	assert.Equal(t, shader.WrapBorder, p1.Wrap)
	assert.Equal(t, shader.FboScaleAxis{Type: shader.ScaleAbsolute, Abs: 640}, p1.Fbo.X)
	assert.Equal(t, shader.FboScaleAxis{Type: shader.ScaleViewport, Scale: 0.5}, p1.Fbo.Y)
	assert.True(t, p1.Fbo.FloatFramebuffer)

	p2 := p.Passes[2]
	assert.Equal(t, "/presets/shaders/a.glsl", p2.SourcePath)
	assert.True(t, p2.Fbo.SRGBFramebuffer)
	assert.Equal(t, shader.ScaleInput, p2.Fbo.X.Type)
	assert.Equal(t, float32(1), p2.Fbo.X.Scale)

	require.Len(t, p0.Luts, 2)
	assert.Equal(t, shader.Lut{ID: "MASK", Path: "/presets/tex/mask.png", Filter: shader.FilterNearest, Wrap: shader.WrapMirroredRepeat}, p0.Luts[0])
	assert.Equal(t, shader.Lut{ID: "NOISE", Path: "/abs/noise.png", Filter: shader.FilterLinear, Wrap: shader.WrapBorder, Mipmap: true}, p0.Luts[1])

	for _, pass := range p.Passes {
		require.Len(t, pass.Parameters, 2)
		assert.Equal(t, p0.Luts, pass.Luts)
	}
	strength := p1.Parameters[0]
	assert.Equal(t, "STRENGTH", strength.ID)
	assert.InDelta(t, 0.8, strength.Current, 1e-6)
	assert.InDelta(t, 0.5, strength.Initial, 1e-6)
	gamma := p1.Parameters[1]
	assert.InDelta(t, 3.0, gamma.Current, 1e-6, "override clamped to maximum")
}

func TestGLSLPReference(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/base/base.glslp":  "shaders = 1\nshader0 = pass.glsl\nscale_type0 = viewport\n",
		"/base/pass.glsl":   paramSource,
		"/user/tweak.glslp": "#reference \"../base/base.glslp\"\nparameters = STRENGTH\nSTRENGTH = 0.1\n",
	})

	var p Preset
	require.NoError(t, NewGLSLPLoader(fs).Load("/user/tweak.glslp", &p))
	require.Len(t, p.Passes, 1)
	assert.Equal(t, "/base/pass.glsl", p.Passes[0].SourcePath)
	assert.Equal(t, shader.ScaleViewport, p.Passes[0].Fbo.X.Type)
	assert.InDelta(t, 0.1, p.Passes[0].Parameters[0].Current, 1e-6)
}

func TestGLSLPOverridesOnlyListedParameters(t *testing.T) {
	const source = `#version 330 core
#pragma parameter scale0 "Scale" 0.5 0.0 4.0 0.5
#pragma parameter STRENGTH "Strength" 0.5 0.0 1.0 0.05
#pragma parameter GAMMA "Gamma" 2.2 1.0 3.0
`
	fs := writeFiles(t, map[string]string{
		"/p.glslp": `shaders = 1
shader0 = pass.glsl
scale0 = 2.0
parameters = "STRENGTH"
STRENGTH = 0.8
GAMMA = 1.5
`,
		"/pass.glsl": source,
	})

	var p Preset
	require.NoError(t, NewGLSLPLoader(fs).Load("/p.glslp", &p))
	params := p.Passes[0].Parameters
	require.Len(t, params, 3)
	assert.InDelta(t, 0.5, params[0].Current, 1e-6, "scale0 is a pass key, not a parameter")
	assert.InDelta(t, 0.8, params[1].Current, 1e-6)
	assert.InDelta(t, 2.2, params[2].Current, 1e-6, "GAMMA is not listed")
}

func TestGLSLPErrors(t *testing.T) {
	tests := map[string]map[string]string{
		"missing file":   {},
		"no shaders":     {"/p.glslp": "textures = \"\"\n"},
		"zero shaders":   {"/p.glslp": "shaders = 0\n"},
		"missing shader": {"/p.glslp": "shaders = 2\nshader0 = a.glsl\n", "/a.glsl": passthroughSource},
		"missing source": {"/p.glslp": "shaders = 1\nshader0 = gone.glsl\n"},
		"bad count":      {"/p.glslp": "shaders = many\n"},
		"bad line":       {"/p.glslp": "shaders 1\n"},
		"bad scale type": {"/p.glslp": "shaders = 1\nshader0 = a.glsl\nscale_type0 = huge\n", "/a.glsl": passthroughSource},
		"zero absolute":  {"/p.glslp": "shaders = 1\nshader0 = a.glsl\nscale_type0 = absolute\nscale0 = 0\n", "/a.glsl": passthroughSource},
		"lut no path":    {"/p.glslp": "shaders = 1\nshader0 = a.glsl\ntextures = LUT\n", "/a.glsl": passthroughSource},
		"self reference": {"/p.glslp": "#reference p.glslp\n"},
		"bad parameter":  {"/p.glslp": "shaders = 1\nshader0 = a.glsl\nparameters = X\nX = high\n", "/a.glsl": passthroughSource},
	}
	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			var p Preset
			assert.Error(t, NewGLSLPLoader(writeFiles(t, files)).Load("/p.glslp", &p))
		})
	}
}
