// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagex

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/vision/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImage returns a w x h RGBA with r = x, g = y, b = 7.
func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(fn)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return fn
}

func TestExtToFormat(t *testing.T) {
	for ext, fm := range map[string]Formats{
		".png": PNG, "png": PNG, "JPG": JPEG, "jpeg": JPEG,
		".tif": TIFF, "bmp": BMP, "webp": WebP, "ppm": PPM,
	} {
		got, err := ExtToFormat(ext)
		require.NoError(t, err, ext)
		assert.Equal(t, fm, got, ext)
	}
	_, err := ExtToFormat("xyz")
	assert.Error(t, err)
	_, err = ExtToFormat("")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	fn := writePNG(t, testImage(8, 6))
	img, fm, err := Open(fn)
	require.NoError(t, err)
	assert.Equal(t, PNG, fm)
	assert.Equal(t, image.Pt(8, 6), img.Bounds().Size())

	_, _, err = Open(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestOpenBadContent(t *testing.T) {
	// a gif payload behind a .png name still decodes by content;
	// junk bytes fail with a sniffed content type when possible
	fn := filepath.Join(t.TempDir(), "fake.png")
	require.NoError(t, os.WriteFile(fn, []byte("not an image at all"), 0o644))
	_, _, err := Open(fn)
	assert.Error(t, err)
}

func TestAsRGBA(t *testing.T) {
	rgba := testImage(4, 4)
	assert.Same(t, rgba, AsRGBA(rgba))

	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	gray.SetGray(1, 2, color.Gray{Y: 100})
	conv := AsRGBA(gray)
	assert.Equal(t, uint8(100), conv.RGBAAt(1, 2).R)
}

func TestResize(t *testing.T) {
	img := testImage(8, 6)
	assert.Same(t, img, Resize(img, 6, 8).(*image.RGBA))

	rs := Resize(img, 3, 4)
	assert.Equal(t, image.Pt(4, 3), rs.Bounds().Size())
}

func TestToTensor(t *testing.T) {
	tsr := ToTensor(testImage(4, 2))
	assert.Equal(t, []int{3, 2, 4}, tsr.Shape().Sizes)

	// r plane holds x/255, g plane y/255, b plane 7/255
	assert.InDelta(t, 3.0/255, tsr.Float(0, 1, 3), 1e-6)
	assert.InDelta(t, 1.0/255, tsr.Float(1, 1, 3), 1e-6)
	assert.InDelta(t, 7.0/255, tsr.Float(2, 0, 0), 1e-6)
}

func TestToImageRoundTrip(t *testing.T) {
	img := testImage(5, 3)
	back, err := ToImage(ToTensor(img))
	require.NoError(t, err)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			want := img.RGBAAt(x, y)
			got := back.RGBAAt(x, y)
			assert.Equal(t, want.R, got.R)
			assert.Equal(t, want.G, got.G)
			assert.Equal(t, want.B, got.B)
		}
	}
}

func TestToImageBadShape(t *testing.T) {
	_, err := ToImage(tensor.NewFloat32(2, 2))
	assert.Error(t, err)
	_, err = ToImage(tensor.NewFloat32(4, 2, 2))
	assert.Error(t, err)
}

func TestCodecDecode(t *testing.T) {
	fn := writePNG(t, testImage(16, 16))
	tsr, err := Codec{}.Decode(fn, 8, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 8, 4}, tsr.Shape().Sizes)
}

func TestDecodePPMBinary(t *testing.T) {
	data := []byte("P6\n# a comment\n2 2\n255\n" +
		"\x01\x02\x03\x10\x20\x30\x40\x50\x60\xff\x00\x80")
	img, name, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "ppm", name)
	rgba := AsRGBA(img)
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0x10, 0x20, 0x30, 255}, rgba.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{0xff, 0x00, 0x80, 255}, rgba.RGBAAt(1, 1))
}

func TestDecodePPMAscii(t *testing.T) {
	data := []byte("P3\n2 1\n255\n255 0 0  0 255 0\n")
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	rgba := AsRGBA(img)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, rgba.RGBAAt(1, 0))
}

func TestDecodePPMMaxVal(t *testing.T) {
	// maxVal 100 scales samples to the 0-255 range
	data := []byte("P6 1 1 100\n\x64\x32\x00")
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	rgba := AsRGBA(img)
	px := rgba.RGBAAt(0, 0)
	assert.Equal(t, uint8(255), px.R)
	assert.Equal(t, uint8(127), px.G)
	assert.Equal(t, uint8(0), px.B)
}

func TestDecodePPMErrors(t *testing.T) {
	for _, data := range []string{
		"P6\n2 2\n255\n\x01\x02",   // short pixel data
		"P6\n0 2\n255\n",           // bad dimensions
		"P6\n2 2\n70000\n",         // 16-bit samples unsupported
		"P3\n2 1\n255\n255 junk 0", // bad ascii sample
	} {
		_, _, err := image.Decode(bytes.NewReader([]byte(data)))
		assert.Error(t, err, "%q", data)
	}
}

func TestPPMConfig(t *testing.T) {
	data := []byte("P6\n# wide\n640 480\n255\n")
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "ppm", name)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
}
