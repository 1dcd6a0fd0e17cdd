package renderer

import (
	"math"

	"github.com/richinsley/goshaderpreset/shader"
)

// ScaledSize resolves the output size of a pass from the output size of the
// previous pass and the final viewport. The axes are independent.
func ScaledSize(scale shader.FboScale, prev, viewport shader.FloatSize) shader.FloatSize {
	return shader.FloatSize{
		X: scaleAxis(scale.X, prev.X, viewport.X),
		Y: scaleAxis(scale.Y, prev.Y, viewport.Y),
	}
}

func scaleAxis(axis shader.FboScaleAxis, prev, viewport float32) float32 {
	factor := axis.Scale
	if factor == 0 {
		factor = 1
	}
	switch axis.Type {
	case shader.ScaleAbsolute:
		return float32(axis.Abs)
	case shader.ScaleViewport:
		return viewport * factor
	default:
		return prev * factor
	}
}

// texturePixels rounds a size to whole texels within [1, max].
func texturePixels(size shader.FloatSize, max int) (int, int) {
	clamp := func(v float32) int {
		n := int(math.Round(float64(v)))
		if n < 1 {
			n = 1
		}
		if max > 0 && n > max {
			n = max
		}
		return n
	}
	return clamp(size.X), clamp(size.Y)
}
