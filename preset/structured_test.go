package preset

import (
	"testing"

	"github.com/richinsley/goshaderpreset/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredYAML(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/p/look.preset.yaml": `passes:
  - shader: a.glsl
    filter: nearest
    wrap: edge
    frame_count_mod: 4
    alias: LOOK
    scale:
      type: source
      x: 2
      y: 2
  - shader: b.glsl
    scale:
      type_x: absolute
      x: 320
      type_y: viewport
      y: 1
textures:
  - id: MASK
    path: mask.png
    wrap: repeat
parameters:
  - id: STRENGTH
    value: 0.25
`,
		"/p/a.glsl": paramSource,
		"/p/b.glsl": passthroughSource,
	})

	var p Preset
	require.NoError(t, NewStructuredLoader(fs).Load("/p/look.preset.yaml", &p))
	require.Len(t, p.Passes, 2)

	p0 := p.Passes[0]
	assert.Equal(t, "/p/a.glsl", p0.SourcePath)
	assert.Equal(t, shader.FilterNearest, p0.Filter)
	assert.Equal(t, shader.WrapEdge, p0.Wrap)
	assert.Equal(t, uint(4), p0.FrameCountMod)
	assert.Equal(t, "LOOK", p0.Alias)
	assert.Equal(t, shader.FboScaleAxis{Type: shader.ScaleInput, Scale: 2}, p0.Fbo.X)

	p1 := p.Passes[1]
	assert.Equal(t, shader.FilterLinear, p1.Filter)
	assert.Equal(t, shader.FboScaleAxis{Type: shader.ScaleAbsolute, Abs: 320}, p1.Fbo.X)
	assert.Equal(t, shader.FboScaleAxis{Type: shader.ScaleViewport, Scale: 1}, p1.Fbo.Y)

	require.Len(t, p1.Luts, 1)
	assert.Equal(t, "/p/mask.png", p1.Luts[0].Path)
	assert.Equal(t, shader.WrapRepeat, p1.Luts[0].Wrap)

	require.Len(t, p1.Parameters, 2)
	assert.InDelta(t, 0.25, p1.Parameters[0].Current, 1e-6)
	assert.InDelta(t, 2.2, p1.Parameters[1].Current, 1e-6)
}

func TestStructuredJSON(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/p/one.preset.json": `{"passes": [{"shader": "a.glsl"}]}`,
		"/p/a.glsl":          passthroughSource,
	})
	var p Preset
	require.NoError(t, NewStructuredLoader(fs).Load("/p/one.preset.json", &p))
	require.Len(t, p.Passes, 1)
	assert.Equal(t, shader.ScaleInput, p.Passes[0].Fbo.X.Type)
	assert.Equal(t, float32(0), p.Passes[0].Fbo.X.Scale)
}

func TestStructuredErrors(t *testing.T) {
	tests := map[string]string{
		"no passes":      "passes: []\n",
		"bad scale type": "passes:\n  - shader: a.glsl\n    scale: {type: huge}\n",
		"zero absolute":  "passes:\n  - shader: a.glsl\n    scale: {type: absolute, x: 0, y: 4}\n",
		"texture no id":  "passes:\n  - shader: a.glsl\ntextures:\n  - path: x.png\n",
		"missing source": "passes:\n  - shader: gone.glsl\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			fs := writeFiles(t, map[string]string{"/p.shaderpreset": body, "/a.glsl": passthroughSource})
			var p Preset
			assert.Error(t, NewStructuredLoader(fs).Load("/p.shaderpreset", &p))
		})
	}
}
