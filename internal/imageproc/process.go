package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
)

// Flatten composites img onto an opaque white background.
func Flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// Resize scales img to exactly w x h pixels using Lanczos resampling.
// Callers keep the aspect ratio; the layout engine already did.
func Resize(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Quality maps a compression level (0-9) onto a JPEG quality, never below 10.
func Quality(level int) int {
	q := 100 - level*10
	if q < 10 {
		q = 10
	}
	if q > 100 {
		q = 100
	}
	return q
}

// Compress flattens img and encodes it as a JPEG at the quality matching
// the compression level.
func Compress(img image.Image, level int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Flatten(img), imaging.JPEG, imaging.JPEGQuality(Quality(level))); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePNG flattens img and encodes it losslessly.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Flatten(img), imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
