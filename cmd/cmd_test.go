package main

import (
	"image"
	"testing"

	"github.com/richinsley/goshaderpreset/options"
	"github.com/richinsley/goshaderpreset/preset"
	"github.com/richinsley/goshaderpreset/shader"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameLimit(t *testing.T) {
	assert.Equal(t, 0, frameLimit(&options.ShaderOptions{FPS: 30}))
	assert.Equal(t, 45, frameLimit(&options.ShaderOptions{FPS: 30, Duration: 1.5}))
	assert.Equal(t, 31, frameLimit(&options.ShaderOptions{FPS: 30, Duration: 1.01}))
	assert.Equal(t, 7, frameLimit(&options.ShaderOptions{FPS: 30, Duration: 10, Frames: 7}))
}

func TestLastFrame(t *testing.T) {
	var l lastFrame
	a := image.NewRGBA(image.Rect(0, 0, 1, 1))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, l.WriteFrame(a))
	require.NoError(t, l.WriteFrame(b))
	assert.Same(t, b, l.img)
}

func TestBindFlagsUsesOptionKeys(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("ffmpeg-path", "", "")
	flags.Int("width", 1280, "")
	require.NoError(t, flags.Parse([]string{"--ffmpeg-path=/usr/bin/ffmpeg", "--width=320"}))

	v := viper.New()
	require.NoError(t, bindFlags(v, flags))
	o, err := options.Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/ffmpeg", o.FFMPEGPath)
	assert.Equal(t, 320, o.Width)
	assert.Equal(t, 720, o.Height)
}

func TestDescribePreset(t *testing.T) {
	p := preset.Preset{
		Path: "/presets/crt.glslp",
		Passes: []shader.Pass{
			{
				SourcePath: "/presets/shaders/scanline.glsl",
				Filter:     shader.FilterLinear,
				Wrap:       shader.WrapEdge,
				Alias:      "SCAN",
				Fbo: shader.FboScale{
					X:                shader.FboScaleAxis{Type: shader.ScaleInput, Scale: 2},
					Y:                shader.FboScaleAxis{Type: shader.ScaleAbsolute, Abs: 480},
					FloatFramebuffer: true,
				},
				Luts:       []shader.Lut{{ID: "mask", Path: "/presets/mask.png"}},
				Parameters: []shader.Parameter{{ID: "STRENGTH", Description: "Scanline strength", Current: 0.5, Maximum: 1, Step: 0.05}},
			},
			{SourcePath: "/presets/shaders/final.glsl", FrameCountMod: 60},
		},
	}
	out := describePreset(p)
	for _, want := range []string{
		"/presets/crt.glslp: 2 passes",
		"scanline.glsl", "linear", "clamp_to_edge", "2x source", "480px", "SCAN", "float",
		"final.glsl", "viewport", "60",
		"mask", "/presets/mask.png",
		"STRENGTH", "Scanline strength", "0.05",
	} {
		assert.Contains(t, out, want)
	}
}

func TestAxisString(t *testing.T) {
	assert.Equal(t, "1x viewport", axisString(shader.FboScaleAxis{Type: shader.ScaleViewport}))
	assert.Equal(t, "0.5x source", axisString(shader.FboScaleAxis{Scale: 0.5}))
	assert.Equal(t, "64px", axisString(shader.FboScaleAxis{Type: shader.ScaleAbsolute, Abs: 64}))
}

func TestWriteStockPresetLoads(t *testing.T) {
	fs := afero.NewMemMapFs()
	path, err := writeStockPreset(fs, "/work/presets", false)
	require.NoError(t, err)
	assert.Equal(t, "/work/presets/stock.glslp", path)

	var p preset.Preset
	require.NoError(t, preset.NewDefaultFactory(fs, zerolog.Nop()).LoadPreset(path, &p))
	require.Len(t, p.Passes, 1)
	assert.Equal(t, "/work/presets/stock.glsl", p.Passes[0].SourcePath)
	assert.Equal(t, shader.FilterNearest, p.Passes[0].Filter)
	assert.Equal(t, shader.ScaleViewport, p.Passes[0].Fbo.X.Type)
	assert.Contains(t, p.Passes[0].Source, "defined(FRAGMENT)")

	_, err = writeStockPreset(fs, "/work/presets", false)
	assert.Error(t, err, "existing files are not overwritten")
}
