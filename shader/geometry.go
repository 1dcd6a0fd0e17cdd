package shader

// Vertex positions live in a centered, y-up pixel space; OrthoMVP maps that
// space onto clip space. Corners are ordered like Quad: top-left, top-right,
// bottom-right, bottom-left.

// QuadIndices draws a quad as a 4-vertex triangle strip.
var QuadIndices = [4]uint8{0, 1, 3, 2}

// TexCoords is the unit square with texture row 0 at the bottom.
var TexCoords = [4]Point{
	{X: 0, Y: 1},
	{X: 1, Y: 1},
	{X: 1, Y: 0},
	{X: 0, Y: 0},
}

// PassVertices returns a quad centered on the origin covering outputSize.
// Intermediate passes use it; their coordinates never reach the window.
func PassVertices(outputSize FloatSize) [4]Point {
	hw, hh := outputSize.X/2, outputSize.Y/2
	return [4]Point{
		{X: -hw, Y: hh},
		{X: hw, Y: hh},
		{X: hw, Y: -hh},
		{X: -hw, Y: -hh},
	}
}

// DestVertices maps destination corners given in window pixels (y down,
// origin top-left) into the centered space of a target of fullDestSize.
// Arbitrary corners are kept as-is, so rotated or letterboxed quads work.
func DestVertices(dest Quad, fullDestSize FloatSize) [4]Point {
	hw, hh := fullDestSize.X/2, fullDestSize.Y/2
	var v [4]Point
	for i, p := range dest {
		v[i] = Point{X: p.X - hw, Y: hh - p.Y}
	}
	return v
}

// OrthoMVP returns the column-major orthographic projection for a centered
// space of the given size. A degenerate size yields the identity.
func OrthoMVP(size FloatSize) [16]float32 {
	m := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, -1, 0,
		0, 0, 0, 1,
	}
	if size.X <= 0 || size.Y <= 0 {
		m[10] = 1
		return m
	}
	m[0] = 2 / size.X
	m[5] = 2 / size.Y
	return m
}

// FitQuad centers a content of size content inside bounds, keeping the
// aspect ratio. Empty sizes yield a quad covering bounds.
func FitQuad(content, bounds FloatSize) Quad {
	if content.X <= 0 || content.Y <= 0 || bounds.X <= 0 || bounds.Y <= 0 {
		return RectQuad(0, 0, bounds.X, bounds.Y)
	}
	scale := bounds.X / content.X
	if s := bounds.Y / content.Y; s < scale {
		scale = s
	}
	w, h := content.X*scale, content.Y*scale
	return RectQuad((bounds.X-w)/2, (bounds.Y-h)/2, w, h)
}
