package graphics

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	IsGLES() bool
}

// Rect is an axis-aligned rectangle given by two corners.
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float32 { return r.X2 - r.X1 }

// Height returns the vertical extent of r.
func (r Rect) Height() float32 { return r.Y2 - r.Y1 }

// RenderContext is the viewport and capability state shared by everything
// that draws on the render thread. It is not safe for concurrent use.
type RenderContext interface {
	GetViewPort() Rect
	SetViewPort(Rect)
	SetScissors(Rect)
	// MaxTextureSize is the largest texture dimension the GPU accepts.
	MaxTextureSize() int
}
