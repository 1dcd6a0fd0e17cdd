package preset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/richinsley/goshaderpreset/shader"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// StructuredExtensions are the file suffixes handled by the structured loader.
var StructuredExtensions = []string{
	".preset.yaml",
	".preset.yml",
	".preset.json",
	".preset.toml",
	".shaderpreset",
}

// StructuredLoader reads presets written as YAML, JSON or TOML documents:
//
//	passes:
//	  - shader: blur.glsl
//	    filter: linear
//	    scale: {type: source, x: 2, y: 2}
//	textures:
//	  - {id: MASK, path: mask.png, filter: nearest, wrap: repeat}
//	parameters:
//	  - {id: STRENGTH, value: 0.4}
type StructuredLoader struct {
	fs afero.Fs
}

// NewStructuredLoader returns a loader reading files through fs.
func NewStructuredLoader(fs afero.Fs) *StructuredLoader {
	return &StructuredLoader{fs: fs}
}

type structuredDoc struct {
	Passes     []structuredPass     `mapstructure:"passes"`
	Textures   []structuredTexture  `mapstructure:"textures"`
	Parameters []structuredOverride `mapstructure:"parameters"`
}

type structuredPass struct {
	Shader           string          `mapstructure:"shader"`
	Filter           string          `mapstructure:"filter"`
	Wrap             string          `mapstructure:"wrap"`
	Mipmap           bool            `mapstructure:"mipmap"`
	FrameCountMod    uint            `mapstructure:"frame_count_mod"`
	Alias            string          `mapstructure:"alias"`
	FloatFramebuffer bool            `mapstructure:"float_framebuffer"`
	SRGBFramebuffer  bool            `mapstructure:"srgb_framebuffer"`
	Scale            structuredScale `mapstructure:"scale"`
}

type structuredScale struct {
	Type  string  `mapstructure:"type"`
	TypeX string  `mapstructure:"type_x"`
	TypeY string  `mapstructure:"type_y"`
	X     float32 `mapstructure:"x"`
	Y     float32 `mapstructure:"y"`
}

type structuredTexture struct {
	ID     string `mapstructure:"id"`
	Path   string `mapstructure:"path"`
	Filter string `mapstructure:"filter"`
	Wrap   string `mapstructure:"wrap"`
	Mipmap bool   `mapstructure:"mipmap"`
}

type structuredOverride struct {
	ID    string  `mapstructure:"id"`
	Value float32 `mapstructure:"value"`
}

func (l *StructuredLoader) Load(path string, out *Preset) error {
	v := viper.New()
	v.SetFs(l.fs)
	v.SetConfigFile(path)
	switch ext := strings.TrimPrefix(filepath.Ext(path), "."); ext {
	case "yaml", "yml", "json", "toml":
		v.SetConfigType(ext)
	default:
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read preset: %w", err)
	}

	var doc structuredDoc
	if err := v.Unmarshal(&doc); err != nil {
		return fmt.Errorf("failed to decode preset: %w", err)
	}
	if len(doc.Passes) == 0 {
		return fmt.Errorf("preset declares no passes")
	}

	passes := make([]shader.Pass, len(doc.Passes))
	for i, sp := range doc.Passes {
		p, err := sp.toPass(path)
		if err != nil {
			return fmt.Errorf("pass %d: %w", i, err)
		}
		passes[i] = p
	}

	luts := make([]shader.Lut, 0, len(doc.Textures))
	for _, t := range doc.Textures {
		if t.ID == "" || t.Path == "" {
			return fmt.Errorf("texture entries need an id and a path")
		}
		luts = append(luts, shader.Lut{
			ID:     t.ID,
			Path:   resolvePath(path, t.Path),
			Filter: parseFilter(t.Filter),
			Wrap:   shader.ParseWrapType(t.Wrap),
			Mipmap: t.Mipmap,
		})
	}

	overrides := make(map[string]float32, len(doc.Parameters))
	for _, o := range doc.Parameters {
		overrides[o.ID] = o.Value
	}

	if err := finalize(l.fs, passes, luts, overrides); err != nil {
		return err
	}
	out.Passes = passes
	return nil
}

func parseFilter(s string) shader.FilterType {
	if strings.EqualFold(s, "nearest") {
		return shader.FilterNearest
	}
	return shader.FilterLinear
}

func (sp structuredPass) toPass(presetPath string) (shader.Pass, error) {
	p := shader.Pass{
		SourcePath:    resolvePath(presetPath, sp.Shader),
		Filter:        parseFilter(sp.Filter),
		Wrap:          shader.ParseWrapType(sp.Wrap),
		Mipmap:        sp.Mipmap,
		FrameCountMod: sp.FrameCountMod,
		Alias:         sp.Alias,
	}
	p.Fbo.FloatFramebuffer = sp.FloatFramebuffer
	p.Fbo.SRGBFramebuffer = sp.SRGBFramebuffer

	var err error
	if p.Fbo.X, err = structuredAxis(sp.Scale.TypeX, sp.Scale.Type, sp.Scale.X); err != nil {
		return p, err
	}
	if p.Fbo.Y, err = structuredAxis(sp.Scale.TypeY, sp.Scale.Type, sp.Scale.Y); err != nil {
		return p, err
	}
	return p, nil
}

func structuredAxis(typ, shared string, value float32) (shader.FboScaleAxis, error) {
	if typ == "" {
		typ = shared
	}
	st, err := shader.ParseScaleType(typ)
	if err != nil {
		return shader.FboScaleAxis{}, err
	}
	axis := shader.FboScaleAxis{Type: st, Scale: value}
	if st == shader.ScaleAbsolute {
		if value < 1 {
			return axis, fmt.Errorf("absolute scale needs a positive pixel count")
		}
		axis.Scale = 0
		axis.Abs = uint(value)
	}
	return axis, nil
}
