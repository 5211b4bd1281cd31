// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagex

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// ppm decoding supports the netpbm P6 (binary) and P3 (ascii)
// pixmap formats with 8-bit samples, registered with the standard
// image package so that [image.Decode] handles .ppm files like
// any other format.

func init() {
	image.RegisterFormat("ppm", "P6", decodePPM, decodePPMConfig)
	image.RegisterFormat("ppm", "P3", decodePPM, decodePPMConfig)
}

// ppmHeader reads the magic, dimensions, and max sample value,
// skipping whitespace and # comments per the netpbm spec.
func ppmHeader(r *bufio.Reader) (magic string, width, height, maxVal int, err error) {
	magic, err = ppmToken(r)
	if err != nil {
		return
	}
	if magic != "P6" && magic != "P3" {
		err = fmt.Errorf("imagex: not a ppm pixmap: magic %q", magic)
		return
	}
	for _, v := range []*int{&width, &height, &maxVal} {
		var tok string
		tok, err = ppmToken(r)
		if err != nil {
			return
		}
		if _, err = fmt.Sscan(tok, v); err != nil {
			err = fmt.Errorf("imagex: bad ppm header token %q: %w", tok, err)
			return
		}
	}
	if width <= 0 || height <= 0 {
		err = fmt.Errorf("imagex: bad ppm dimensions %dx%d", width, height)
		return
	}
	if maxVal <= 0 || maxVal > 255 {
		err = fmt.Errorf("imagex: unsupported ppm max value %d", maxVal)
	}
	return
}

// ppmToken returns the next whitespace-delimited token,
// skipping # comments through end of line.
func ppmToken(r *bufio.Reader) (string, error) {
	tok := make([]byte, 0, 16)
	inComment := false
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		switch {
		case inComment:
			if b == '\n' {
				inComment = false
			}
		case b == '#':
			inComment = true
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}

func decodePPM(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	magic, w, h, maxVal, err := ppmHeader(br)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	n := w * h
	if magic == "P6" {
		pix := make([]byte, 3*n)
		if _, err := io.ReadFull(br, pix); err != nil {
			return nil, fmt.Errorf("imagex: short ppm pixel data: %w", err)
		}
		for i := 0; i < n; i++ {
			img.SetRGBA(i%w, i/w, color.RGBA{
				R: scalePPM(pix[3*i], maxVal),
				G: scalePPM(pix[3*i+1], maxVal),
				B: scalePPM(pix[3*i+2], maxVal),
				A: 255,
			})
		}
		return img, nil
	}
	for i := 0; i < n; i++ {
		var rgb [3]int
		for c := range rgb {
			tok, err := ppmToken(br)
			if err != nil {
				return nil, fmt.Errorf("imagex: short ppm pixel data: %w", err)
			}
			if _, err := fmt.Sscan(tok, &rgb[c]); err != nil {
				return nil, fmt.Errorf("imagex: bad ppm pixel %q: %w", tok, err)
			}
		}
		img.SetRGBA(i%w, i/w, color.RGBA{
			R: scalePPM(byte(rgb[0]), maxVal),
			G: scalePPM(byte(rgb[1]), maxVal),
			B: scalePPM(byte(rgb[2]), maxVal),
			A: 255,
		})
	}
	return img, nil
}

// scalePPM scales a sample to the 0-255 range for maxVal < 255.
func scalePPM(v byte, maxVal int) byte {
	if maxVal == 255 {
		return v
	}
	return byte(int(v) * 255 / maxVal)
}

func decodePPMConfig(r io.Reader) (image.Config, error) {
	br := bufio.NewReader(r)
	_, w, h, _, err := ppmHeader(br)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: w, Height: h}, nil
}
