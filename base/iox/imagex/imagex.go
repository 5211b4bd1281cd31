// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package imagex provides image decoding, resizing, and
// conversion to and from pixel tensors, serving as the image
// codec for dataset loading. Images decode to RGBA and convert
// to float32 tensors in channel, height, width (chw) order with
// values scaled to [0, 1].
package imagex

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	// standard and extended decoders register on import
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"cogentcore.org/vision/tensor"
	"github.com/anthonynsimon/bild/transform"
	"github.com/chewxy/math32"
	"github.com/h2non/filetype"
)

// Formats are the supported image encoding / decoding formats.
type Formats int32

// The supported image encoding formats.
const (
	None Formats = iota
	PNG
	JPEG
	GIF
	TIFF
	BMP
	WebP
	PPM
)

// String returns the lowercase name of the format.
func (fm Formats) String() string {
	switch fm {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case GIF:
		return "gif"
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	case WebP:
		return "webp"
	case PPM:
		return "ppm"
	}
	return "none"
}

// ExtToFormat returns a Format based on a filename extension,
// which can start with a . or not.
func ExtToFormat(ext string) (Formats, error) {
	if len(ext) == 0 {
		return None, fmt.Errorf("imagex.ExtToFormat: ext is empty")
	}
	if ext[0] == '.' {
		ext = ext[1:]
	}
	ext = strings.ToLower(ext)
	switch ext {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	case "webp":
		return WebP, nil
	case "ppm":
		return PPM, nil
	}
	return None, fmt.Errorf("imagex.ExtToFormat: extension %q not recognized", ext)
}

// formatFromName maps the [image.Decode] format name.
func formatFromName(name string) Formats {
	fm, err := ExtToFormat(name)
	if err != nil {
		return None
	}
	return fm
}

// Open opens an image from the given filename.
// The format is inferred automatically, and is returned using
// the Formats enum. png, jpeg, gif, tiff, bmp, webp, and ppm
// are supported. On decode failure, the actual content type is
// sniffed to produce a more useful error.
func Open(filename string) (image.Image, Formats, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, None, err
	}
	img, fm, err := Decode(data)
	if err != nil {
		if kind, kerr := filetype.Match(data); kerr == nil && kind != filetype.Unknown {
			return nil, None, fmt.Errorf("imagex.Open: decoding %q (content type %s): %w",
				filename, kind.MIME.Value, err)
		}
		return nil, None, fmt.Errorf("imagex.Open: decoding %q: %w", filename, err)
	}
	return img, fm, nil
}

// Decode decodes an image from the given bytes, inferring the
// format from the content.
func Decode(data []byte) (image.Image, Formats, error) {
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, None, err
	}
	return img, formatFromName(name), nil
}

// AsRGBA returns the image as an *image.RGBA, re-drawing it
// into one if it is not already.
func AsRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// Resize returns the image scaled to the given height and width
// using bilinear interpolation, unless it already has exactly
// those dimensions.
func Resize(img image.Image, height, width int) image.Image {
	sz := img.Bounds().Size()
	if sz.X == width && sz.Y == height {
		return img
	}
	return transform.Resize(img, width, height, transform.Linear)
}

// ToTensor converts the image to a float32 tensor of shape
// (3, height, width) in fixed channel (r, g, b), height, width
// order, with values scaled to [0, 1]. The alpha channel is
// dropped.
func ToTensor(img image.Image) *tensor.Float32 {
	rgba := AsRGBA(img)
	sz := rgba.Bounds().Size()
	h, w := sz.Y, sz.X
	tsr := tensor.NewFloat32(3, h, w)
	plane := h * w
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			st := rgba.PixOffset(rgba.Bounds().Min.X+x, rgba.Bounds().Min.Y+y)
			pi := y*w + x
			tsr.Values[pi] = float32(rgba.Pix[st]) / 255
			tsr.Values[plane+pi] = float32(rgba.Pix[st+1]) / 255
			tsr.Values[2*plane+pi] = float32(rgba.Pix[st+2]) / 255
		}
	}
	return tsr
}

// ToImage converts a float32 tensor of shape (3, height, width)
// in channel, height, width order with values in [0, 1] back to
// an RGBA image, primarily for debugging and visualization.
func ToImage(tsr *tensor.Float32) (*image.RGBA, error) {
	if tsr.NumDims() != 3 || tsr.DimSize(0) != 3 {
		return nil, fmt.Errorf("imagex.ToImage: tensor shape %s is not (3, height, width)", tsr.Shape())
	}
	h, w := tsr.DimSize(1), tsr.DimSize(2)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	plane := h * w
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pi := y*w + x
			img.SetRGBA(x, y, color.RGBA{
				R: pixByte(tsr.Values[pi]),
				G: pixByte(tsr.Values[plane+pi]),
				B: pixByte(tsr.Values[2*plane+pi]),
				A: 255,
			})
		}
	}
	return img, nil
}

// pixByte converts a [0, 1] float32 pixel value to a byte,
// clamping out-of-range values.
func pixByte(v float32) uint8 {
	v = math32.Round(v * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Codec is the standard image codec for dataset loading:
// open, resize, convert to a (3, height, width) float32 tensor.
// It implements the dataset Codec interface.
type Codec struct{}

// Decode returns the decoded, resized pixel tensor for the image
// at the given path, at the given target dimensions.
func (cd Codec) Decode(path string, height, width int) (tensor.Values, error) {
	img, _, err := Open(path)
	if err != nil {
		return nil, err
	}
	return ToTensor(Resize(img, height, width)), nil
}
