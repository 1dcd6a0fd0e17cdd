package shader

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// Combined source in the libretro GLSL layout: one text, the stage picked
// by the VERTEX / FRAGMENT define.
const stockPassthroughGL = `#version 330 core
#if defined(VERTEX)
in vec4 VertexCoord;
in vec4 TexCoord;
out vec4 TEX0;
uniform mat4 MVPMatrix;
void main() {
    gl_Position = MVPMatrix * VertexCoord;
    TEX0 = TexCoord;
}
#elif defined(FRAGMENT)
in vec4 TEX0;
out vec4 FragColor;
uniform sampler2D Texture;
void main() {
    FragColor = texture(Texture, TEX0.xy);
}
#endif
`

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

const stockPassthroughGLES = `#version 300 es
#if defined(VERTEX)
in vec4 VertexCoord;
in vec4 TexCoord;
out vec4 TEX0;
uniform mat4 MVPMatrix;
void main() {
    gl_Position = MVPMatrix * VertexCoord;
    TEX0 = TexCoord;
}
#elif defined(FRAGMENT)
precision mediump float;
in vec4 TEX0;
out vec4 FragColor;
uniform sampler2D Texture;
void main() {
    FragColor = texture(Texture, TEX0.xy);
}
#endif
`

// GenerateVertexShader returns the full-screen vertex stage used by the blit
// program.
func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

// GetBlitFragmentShader returns the fragment stage that copies one texture to
// the bound framebuffer unchanged.
func GetBlitFragmentShader(isGLES bool) string {
	if isGLES {
		return blitFragmentShaderSourceGLES
	}
	return blitFragmentShaderSourceGL
}

// StockPassthrough returns a combined pass source that outputs its input
// unchanged.
func StockPassthrough(isGLES bool) string {
	if isGLES {
		return stockPassthroughGLES
	}
	return stockPassthroughGL
}

// DefaultVersion is the #version injected into pass sources that carry none.
func DefaultVersion(isGLES bool) string {
	if isGLES {
		return "300 es"
	}
	return "330 core"
}
