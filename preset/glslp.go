package preset

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/richinsley/goshaderpreset/shader"
	"github.com/spf13/afero"
)

const maxReferenceDepth = 16

// GLSLPLoader reads libretro GLSL presets (.glslp).
type GLSLPLoader struct {
	fs afero.Fs
}

// NewGLSLPLoader returns a loader reading files through fs.
func NewGLSLPLoader(fs afero.Fs) *GLSLPLoader {
	return &GLSLPLoader{fs: fs}
}

// glslpConfig holds the key/value pairs of a preset with paths already
// resolved against the file that declared them.
type glslpConfig struct {
	values map[string]string
	// origin maps a key to the preset file that set it
	origin map[string]string
}

func (l *GLSLPLoader) Load(path string, out *Preset) error {
	conf := &glslpConfig{
		values: make(map[string]string),
		origin: make(map[string]string),
	}
	if err := l.readConfig(path, conf, 0); err != nil {
		return err
	}

	n, err := conf.getInt("shaders", -1)
	if err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("preset declares no shaders")
	}

	passes := make([]shader.Pass, n)
	for i := range passes {
		if err := conf.pass(i, &passes[i]); err != nil {
			return fmt.Errorf("pass %d: %w", i, err)
		}
	}

	luts, err := conf.luts()
	if err != nil {
		return err
	}

	overrides, err := conf.overrides()
	if err != nil {
		return err
	}

	if err := finalize(l.fs, passes, luts, overrides); err != nil {
		return err
	}
	out.Passes = passes
	return nil
}

// readConfig parses one preset file. "#reference" lines pull in another
// preset whose values the current file then overrides.
func (l *GLSLPLoader) readConfig(path string, conf *glslpConfig, depth int) error {
	if depth > maxReferenceDepth {
		return fmt.Errorf("preset references nested too deeply at %s", path)
	}
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read preset: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#reference") {
			ref := unquote(strings.TrimSpace(strings.TrimPrefix(line, "#reference")))
			if err := l.readConfig(resolvePath(path, ref), conf, depth+1); err != nil {
				return err
			}
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("%s:%d: expected key = value", path, lineNo)
		}
		key = strings.TrimSpace(key)
		conf.values[key] = unquote(stripComment(strings.TrimSpace(val)))
		conf.origin[key] = path
	}
	return scanner.Err()
}

func stripComment(val string) string {
	if strings.HasPrefix(val, `"`) {
		if end := strings.Index(val[1:], `"`); end >= 0 {
			return val[:end+2]
		}
		return val
	}
	if i := strings.Index(val, "#"); i >= 0 {
		return strings.TrimSpace(val[:i])
	}
	return val
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func (c *glslpConfig) path(key string) string {
	return resolvePath(c.origin[key], c.values[key])
}

func (c *glslpConfig) getInt(key string, def int) (int, error) {
	v, ok := c.values[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func (c *glslpConfig) getFloat(key string, def float32) (float32, error) {
	v, ok := c.values[key]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return float32(f), nil
}

func (c *glslpConfig) getBool(key string, def bool) bool {
	v, ok := c.values[key]
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return def
}

func (c *glslpConfig) pass(i int, p *shader.Pass) error {
	key := func(name string) string { return fmt.Sprintf("%s%d", name, i) }

	if _, ok := c.values[key("shader")]; !ok {
		return fmt.Errorf("missing %s", key("shader"))
	}
	p.SourcePath = c.path(key("shader"))
	p.Alias = c.values[key("alias")]
	p.Mipmap = c.getBool(key("mipmap_input"), false)
	p.Wrap = shader.ParseWrapType(c.values[key("wrap_mode")])
	p.Filter = shader.FilterLinear
	if !c.getBool(key("filter_linear"), true) {
		p.Filter = shader.FilterNearest
	}

	mod, err := c.getInt(key("frame_count_mod"), 0)
	if err != nil {
		return err
	}
	if mod < 0 {
		return fmt.Errorf("%s must not be negative", key("frame_count_mod"))
	}
	p.FrameCountMod = uint(mod)

	p.Fbo.FloatFramebuffer = c.getBool(key("float_framebuffer"), false)
	p.Fbo.SRGBFramebuffer = c.getBool(key("srgb_framebuffer"), false)

	typ := c.values[key("scale_type")]
	if p.Fbo.X, err = c.axis(i, "x", typ); err != nil {
		return err
	}
	if p.Fbo.Y, err = c.axis(i, "y", typ); err != nil {
		return err
	}
	return nil
}

// axis resolves scale_type_{x,y}N and scale_{x,y}N, falling back to the
// shared scale_typeN and scaleN keys.
func (c *glslpConfig) axis(i int, name, sharedType string) (shader.FboScaleAxis, error) {
	var axis shader.FboScaleAxis

	typ, ok := c.values[fmt.Sprintf("scale_type_%s%d", name, i)]
	if !ok {
		typ = sharedType
	}
	st, err := shader.ParseScaleType(typ)
	if err != nil {
		return axis, err
	}
	axis.Type = st

	scaleKey := fmt.Sprintf("scale_%s%d", name, i)
	if _, ok := c.values[scaleKey]; !ok {
		scaleKey = fmt.Sprintf("scale%d", i)
	}

	if st == shader.ScaleAbsolute {
		abs, err := c.getInt(scaleKey, 0)
		if err != nil {
			return axis, err
		}
		if abs <= 0 {
			return axis, fmt.Errorf("%s must be a positive pixel count", scaleKey)
		}
		axis.Abs = uint(abs)
		return axis, nil
	}

	axis.Scale, err = c.getFloat(scaleKey, 1)
	return axis, err
}

func (c *glslpConfig) luts() ([]shader.Lut, error) {
	list := c.values["textures"]
	if list == "" {
		return nil, nil
	}
	var luts []shader.Lut
	for _, id := range strings.Split(list, ";") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := c.values[id]; !ok {
			return nil, fmt.Errorf("texture %s has no path", id)
		}
		lut := shader.Lut{
			ID:     id,
			Path:   c.path(id),
			Wrap:   shader.ParseWrapType(c.values[id+"_wrap_mode"]),
			Mipmap: c.getBool(id+"_mipmap", false),
			Filter: shader.FilterLinear,
		}
		if !c.getBool(id+"_linear", true) {
			lut.Filter = shader.FilterNearest
		}
		luts = append(luts, lut)
	}
	return luts, nil
}

// overrides returns the values of the parameter ids listed in the
// "parameters" key. Other numeric keys are never treated as parameters.
func (c *glslpConfig) overrides() (map[string]float32, error) {
	overrides := make(map[string]float32)
	for _, id := range strings.Split(c.values["parameters"], ";") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := c.values[id]; !ok {
			continue
		}
		f, err := c.getFloat(id, 0)
		if err != nil {
			return nil, fmt.Errorf("parameter %w", err)
		}
		overrides[id] = f
	}
	return overrides, nil
}
