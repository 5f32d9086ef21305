package imageproc

import (
	"math"

	"github.com/piwi3910/PagePack/internal/model"
)

// Encoder renders a placed rectangle's payload at its placed size.
// A CompressionLevel of 0 produces lossless PNG; anything higher produces a
// JPEG whose quality drops by 10 per level.
type Encoder struct {
	CompressionLevel int
}

// Encode returns the image bytes and the fpdf image type ("PNG" or "JPG").
func (e Encoder) Encode(r model.Rectangle) ([]byte, string, error) {
	src, err := FromRectangle(r)
	if err != nil {
		return nil, "", err
	}

	w := int(math.Max(1, math.Round(r.Width)))
	h := int(math.Max(1, math.Round(r.Height)))
	img := Resize(src.Image, w, h)

	if e.CompressionLevel <= 0 {
		data, err := EncodePNG(img)
		return data, "PNG", err
	}
	data, err := Compress(img, e.CompressionLevel)
	return data, "JPG", err
}
