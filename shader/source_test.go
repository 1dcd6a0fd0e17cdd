package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterNames(t *testing.T) {
	src := `#version 130
#pragma parameter SCANLINE_WEIGHT "Scanline Weight" 0.3 0.0 1.0 0.05
#pragma parameter MASK_DARK "Mask Dark" 0.5 0.0 1.0 0.05
// parameter foo
#pragma parameter SCANLINE_WEIGHT "again" 0.3 0.0 1.0 0.05
uniform float parameters;
`
	assert.Equal(t, []string{"SCANLINE_WEIGHT", "MASK_DARK", "foo"}, ParameterNames(src))
	assert.Empty(t, ParameterNames("void main() {}"))
}

func TestVersion(t *testing.T) {
	tests := []struct {
		src     string
		version string
		essl    bool
	}{
		{"#version 130\nvoid main(){}", "130", false},
		{"  #version 300 es\nprecision mediump float;", "300 es", true},
		{"// no version\nvoid main(){}", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.version, Version(tt.src))
		assert.Equal(t, tt.essl, IsESSL(tt.src))
	}
}

func TestStageSource(t *testing.T) {
	t.Run("after version", func(t *testing.T) {
		out := StageSource("#version 130\nvoid main(){}\n", StageFragment, "330 core")
		lines := strings.Split(out, "\n")
		require.GreaterOrEqual(t, len(lines), 3)
		assert.Equal(t, "#version 130", lines[0])
		assert.Equal(t, "#define FRAGMENT", lines[1])
		assert.Equal(t, "#define PARAMETER_UNIFORM", lines[2])
		assert.NotContains(t, out, "330 core")
	})

	t.Run("version without newline", func(t *testing.T) {
		out := StageSource("#version 130", StageVertex, "")
		assert.True(t, strings.HasPrefix(out, "#version 130\n#define VERTEX\n"))
	})

	t.Run("fallback version", func(t *testing.T) {
		out := StageSource("void main(){}\n", StageVertex, "330 core")
		assert.True(t, strings.HasPrefix(out, "#version 330 core\n#define VERTEX\n"))
	})

	t.Run("no version at all", func(t *testing.T) {
		out := StageSource("void main(){}\n", StageVertex, "")
		assert.True(t, strings.HasPrefix(out, "#define VERTEX\n"))
	})
}

func TestStockPassthroughCarriesBothStages(t *testing.T) {
	for _, gles := range []bool{false, true} {
		src := StockPassthrough(gles)
		assert.Contains(t, src, "defined(VERTEX)")
		assert.Contains(t, src, "defined(FRAGMENT)")
		assert.Equal(t, gles, IsESSL(src))
	}
}

func TestBlitShadersSampleUnflipped(t *testing.T) {
	for _, gles := range []bool{false, true} {
		src := GetBlitFragmentShader(gles)
		assert.Contains(t, src, "texture(u_texture, frag_uv)")
		assert.NotContains(t, src, "1.0 - frag_uv.y")
		assert.Equal(t, gles, IsESSL(src))
		assert.Equal(t, gles, IsESSL(GenerateVertexShader(gles)))
	}
}

func TestFrameCountValue(t *testing.T) {
	assert.Equal(t, uint64(5), FrameCountValue(25, 10))
	assert.Equal(t, uint64(25), FrameCountValue(25, 0))
	assert.Equal(t, uint64(0), FrameCountValue(30, 10))
}

func TestParseEnums(t *testing.T) {
	st, err := ParseScaleType("viewport")
	require.NoError(t, err)
	assert.Equal(t, ScaleViewport, st)

	st, err = ParseScaleType("")
	require.NoError(t, err)
	assert.Equal(t, ScaleInput, st)

	_, err = ParseScaleType("bogus")
	assert.Error(t, err)

	assert.Equal(t, WrapEdge, ParseWrapType("clamp_to_edge"))
	assert.Equal(t, WrapMirroredRepeat, ParseWrapType("mirrored_repeat"))
	assert.Equal(t, WrapBorder, ParseWrapType("whatever"))
}

func TestParameterClamp(t *testing.T) {
	p := Parameter{Current: 2, Minimum: 0, Maximum: 1}
	p.Clamp()
	assert.Equal(t, float32(1), p.Current)

	p = Parameter{Current: -1, Minimum: 0, Maximum: 1}
	p.Clamp()
	assert.Equal(t, float32(0), p.Current)
}
