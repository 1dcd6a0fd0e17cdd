package inputs

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestLoadImageFormats(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	src.SetRGBA(1, 0, color.RGBA{G: 255, A: 255})
	src.SetRGBA(0, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetRGBA(1, 1, color.RGBA{B: 255, A: 255})

	fs := afero.NewMemMapFs()
	var pngBuf, bmpBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, src))
	require.NoError(t, bmp.Encode(&bmpBuf, src))
	require.NoError(t, afero.WriteFile(fs, "/lut.png", pngBuf.Bytes(), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/lut.bmp", bmpBuf.Bytes(), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/bad.png", []byte("not an image"), 0o644))

	for _, path := range []string{"/lut.png", "/lut.bmp"} {
		img, err := LoadImage(fs, path)
		require.NoError(t, err, path)
		assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
		assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 0), path)
		assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(1, 1), path)
	}

	_, err := LoadImage(fs, "/bad.png")
	assert.Error(t, err)
	_, err = LoadImage(fs, "/missing.png")
	assert.Error(t, err)
}

func TestToRGBAMovesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 11))
	src.SetRGBA(11, 10, color.RGBA{G: 200, A: 255})
	img := ToRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), img.Bounds())
	assert.Equal(t, color.RGBA{G: 200, A: 255}, img.RGBAAt(1, 0))
}

func TestVFlip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	for y := 0; y < 3; y++ {
		img.SetRGBA(0, y, color.RGBA{R: uint8(y), A: 255})
	}
	flipped := VFlip(img)
	for y := 0; y < 3; y++ {
		assert.Equal(t, uint8(2-y), flipped.RGBAAt(0, y).R)
	}
	assert.Equal(t, img.Pix, VFlip(flipped).Pix)
}

func TestSolid(t *testing.T) {
	img := Solid(3, 2, [4]uint8{1, 2, 3, 4})
	assert.Equal(t, color.RGBA{1, 2, 3, 4}, img.RGBAAt(2, 1))
}

func TestIsImagePath(t *testing.T) {
	assert.True(t, IsImagePath("/a/b/frame.PNG"))
	assert.True(t, IsImagePath("lut.webp"))
	assert.False(t, IsImagePath("clip.mp4"))
	assert.False(t, IsImagePath("noext"))
}

func TestColorBars(t *testing.T) {
	img := ColorBars(70, 2)
	assert.Equal(t, color.RGBA{191, 191, 191, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{191, 191, 0, 255}, img.RGBAAt(10, 1))
	assert.Equal(t, color.RGBA{0, 0, 191, 255}, img.RGBAAt(69, 1))
}

func TestReadFrames(t *testing.T) {
	frame := Solid(2, 2, [4]uint8{9, 8, 7, 255}).Pix
	stream := append(append(append([]byte{}, frame...), frame...), 1, 2, 3)

	out := make(chan *image.RGBA, 4)
	n, err := ReadFrames(context.Background(), bytes.NewReader(stream), 2, 2, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, out, 2)
	assert.Equal(t, frame, (<-out).Pix)

	_, err = ReadFrames(context.Background(), bytes.NewReader(stream), 0, 2, out)
	assert.Error(t, err)
}

func TestReadFramesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := make(chan *image.RGBA)
	n, err := ReadFrames(ctx, bytes.NewReader(make([]byte, 16)), 2, 2, out)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestParseProbe(t *testing.T) {
	info, err := parseProbe(`{"streams":[
		{"codec_type":"audio"},
		{"codec_type":"video","width":1280,"height":720,"avg_frame_rate":"30000/1001","r_frame_rate":"30/1"}
	]}`)
	require.NoError(t, err)
	assert.Equal(t, 1280, info.Width)
	assert.Equal(t, 720, info.Height)
	assert.InDelta(t, 29.97, info.FrameRate, 0.01)

	info, err = parseProbe(`{"streams":[{"codec_type":"video","width":64,"height":64,"avg_frame_rate":"0/0","r_frame_rate":"25/1"}]}`)
	require.NoError(t, err)
	assert.Equal(t, float64(25), info.FrameRate)

	_, err = parseProbe(`{"streams":[{"codec_type":"audio"}]}`)
	assert.Error(t, err)
	_, err = parseProbe(`not json`)
	assert.Error(t, err)
}
