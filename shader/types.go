package shader

import "fmt"

// FilterType selects how a texture is sampled.
type FilterType int

const (
	FilterNearest FilterType = iota
	FilterLinear
)

func (f FilterType) String() string {
	if f == FilterLinear {
		return "linear"
	}
	return "nearest"
}

// WrapType selects what happens when a texture is sampled outside [0,1].
type WrapType int

const (
	WrapBorder WrapType = iota
	WrapEdge
	WrapRepeat
	WrapMirroredRepeat
)

func (w WrapType) String() string {
	switch w {
	case WrapEdge:
		return "clamp_to_edge"
	case WrapRepeat:
		return "repeat"
	case WrapMirroredRepeat:
		return "mirrored_repeat"
	default:
		return "clamp_to_border"
	}
}

// ParseWrapType converts the preset spelling of a wrap mode. Unknown values
// fall back to WrapBorder, the libretro default.
func ParseWrapType(s string) WrapType {
	switch s {
	case "clamp_to_edge", "edge":
		return WrapEdge
	case "repeat":
		return WrapRepeat
	case "mirrored_repeat", "mirror":
		return WrapMirroredRepeat
	default:
		return WrapBorder
	}
}

// ScaleType is the rule one axis of a framebuffer uses to derive its size.
type ScaleType int

const (
	// ScaleInput scales relative to the previous pass output.
	ScaleInput ScaleType = iota
	// ScaleAbsolute uses a fixed pixel count.
	ScaleAbsolute
	// ScaleViewport scales relative to the final output viewport.
	ScaleViewport
)

func (s ScaleType) String() string {
	switch s {
	case ScaleAbsolute:
		return "absolute"
	case ScaleViewport:
		return "viewport"
	default:
		return "source"
	}
}

// ParseScaleType converts the preset spelling of a scale type.
func ParseScaleType(s string) (ScaleType, error) {
	switch s {
	case "source", "input", "":
		return ScaleInput, nil
	case "absolute":
		return ScaleAbsolute, nil
	case "viewport":
		return ScaleViewport, nil
	}
	return ScaleInput, fmt.Errorf("unknown scale type %q", s)
}

// FboScaleAxis describes one axis of a pass framebuffer.
type FboScaleAxis struct {
	Type  ScaleType
	Scale float32 // factor for ScaleInput and ScaleViewport, 0 means 1
	Abs   uint    // pixel count for ScaleAbsolute
}

// FboScale is the framebuffer-scale descriptor of a pass.
type FboScale struct {
	X                FboScaleAxis
	Y                FboScaleAxis
	FloatFramebuffer bool
	SRGBFramebuffer  bool
}

// Parameter is a named numeric knob exposed by a shader.
type Parameter struct {
	ID          string
	Description string
	Current     float32
	Minimum     float32
	Initial     float32
	Maximum     float32
	Step        float32
}

// Clamp forces Current into [Minimum, Maximum].
func (p *Parameter) Clamp() {
	if p.Maximum < p.Minimum {
		return
	}
	if p.Current < p.Minimum {
		p.Current = p.Minimum
	}
	if p.Current > p.Maximum {
		p.Current = p.Maximum
	}
}

// Lut describes a static lookup texture.
type Lut struct {
	ID     string
	Path   string
	Filter FilterType
	Wrap   WrapType
	Mipmap bool
}

// Pass is one stage of a preset. It is built by a preset loader and not
// modified afterwards.
type Pass struct {
	SourcePath    string
	Source        string // vertex and fragment code in one text
	Filter        FilterType
	Wrap          WrapType
	Mipmap        bool
	FrameCountMod uint
	Fbo           FboScale
	Luts          []Lut
	Parameters    []Parameter
	Alias         string
}

// FloatSize is a 2D size in pixels.
type FloatSize struct {
	X, Y float32
}

func (s FloatSize) String() string {
	return fmt.Sprintf("%gx%g", s.X, s.Y)
}

// Point is a 2D position in pixels.
type Point struct {
	X, Y float32
}

// Quad holds the destination corners in the order top-left, top-right,
// bottom-right, bottom-left.
type Quad [4]Point

// RectQuad returns the axis-aligned quad covering (x, y)-(x+w, y+h).
func RectQuad(x, y, w, h float32) Quad {
	return Quad{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}
