// Package imageproc loads, trims, resizes and encodes the images that the
// layout engine places on pages. The engine only sees their sizes; the
// decoded pixels travel with each rectangle as a *Source payload.
package imageproc

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/piwi3910/PagePack/internal/model"
)

// Source is a decoded, trimmed image together with the file it came from.
type Source struct {
	Path  string
	Image image.Image
}

// Size returns the pixel dimensions of the image.
func (s *Source) Size() (int, int) {
	b := s.Image.Bounds()
	return b.Dx(), b.Dy()
}

// SourcePath returns the file the image was loaded from.
func (s *Source) SourcePath() string {
	return s.Path
}

// ToRectangle wraps s into a layout rectangle carrying s as payload.
// An empty label falls back to the file name.
func ToRectangle(s *Source, label string) model.Rectangle {
	if label == "" {
		label = filepath.Base(s.Path)
	}
	w, h := s.Size()
	return model.NewRectangle(label, float64(w), float64(h), s)
}

// FromRectangle extracts the *Source payload of r.
func FromRectangle(r model.Rectangle) (*Source, error) {
	s, ok := r.Payload.(*Source)
	if !ok || s == nil || s.Image == nil {
		return nil, fmt.Errorf("rectangle %q has no image payload", r.Label)
	}
	return s, nil
}
