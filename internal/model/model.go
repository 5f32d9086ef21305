package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ErrInvalidGeometry is returned when a page cannot hold any rectangle
// inside its padded area.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// Rectangle is a sized item to be laid out on a page.
// Payload is an opaque handle owned by the caller (typically the decoded
// image); the layout engine only looks at Width and Height.
type Rectangle struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Width   float64 `json:"width"`  // px
	Height  float64 `json:"height"` // px
	Payload any     `json:"-"`
}

func NewRectangle(label string, w, h float64, payload any) Rectangle {
	return Rectangle{
		ID:      uuid.New().String()[:8],
		Label:   label,
		Width:   w,
		Height:  h,
		Payload: payload,
	}
}

// Area returns width * height.
func (r Rectangle) Area() float64 {
	return r.Width * r.Height
}

// ScaledToWidth returns a copy of r resized to the given width with its
// aspect ratio preserved. Both dimensions are whole units; height never
// drops below 1.
func (r Rectangle) ScaledToWidth(width float64) Rectangle {
	out := r
	out.Width = width
	out.Height = math.Max(1, math.Round(r.Height*width/r.Width))
	return out
}

// PageGeometry describes a page and the padding kept around its edges and
// between neighbouring rectangles.
type PageGeometry struct {
	Width   float64 `json:"width" toml:"width"`     // pt
	Height  float64 `json:"height" toml:"height"`   // pt
	Padding float64 `json:"padding" toml:"padding"` // pt
}

// Validate reports whether the geometry leaves room for content.
func (g PageGeometry) Validate() error {
	for _, v := range []float64{g.Width, g.Height, g.Padding} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: page %vx%v with padding %v must be finite",
				ErrInvalidGeometry, g.Width, g.Height, g.Padding)
		}
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: page size %.2fx%.2f must be positive", ErrInvalidGeometry, g.Width, g.Height)
	}
	if g.Padding < 0 {
		return fmt.Errorf("%w: padding %.2f must not be negative", ErrInvalidGeometry, g.Padding)
	}
	if g.Width <= 2*g.Padding || g.Height <= 2*g.Padding {
		return fmt.Errorf("%w: page %.2fx%.2f leaves no usable area with padding %.2f",
			ErrInvalidGeometry, g.Width, g.Height, g.Padding)
	}
	return nil
}

// UsableWidth returns the page width minus padding on both sides.
func (g PageGeometry) UsableWidth() float64 {
	return g.Width - 2*g.Padding
}

// UsableHeight returns the page height minus padding on top and bottom.
func (g PageGeometry) UsableHeight() float64 {
	return g.Height - 2*g.Padding
}

// Placement represents a rectangle positioned on a page.
// X and Y locate the lower-left corner; the origin is the bottom-left corner
// of the page and Y grows upward.
type Placement struct {
	Rect Rectangle `json:"rect"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// Right returns the x coordinate of the right edge.
func (p Placement) Right() float64 {
	return p.X + p.Rect.Width
}

// Top returns the y coordinate of the top edge.
func (p Placement) Top() float64 {
	return p.Y + p.Rect.Height
}

// PackResult is the outcome of packing a single page.
type PackResult struct {
	Placements []Placement `json:"placements"`
	Overflow   []Rectangle `json:"overflow"`
}

// PageResult represents one page with its placed rectangles.
type PageResult struct {
	Number     int          `json:"number"`
	Geometry   PageGeometry `json:"geometry"`
	Placements []Placement  `json:"placements"`
}

// UsedArea returns the total area covered by placed rectangles.
func (pr PageResult) UsedArea() float64 {
	var total float64
	for _, p := range pr.Placements {
		total += p.Rect.Area()
	}
	return total
}

// TotalArea returns the page area.
func (pr PageResult) TotalArea() float64 {
	return pr.Geometry.Width * pr.Geometry.Height
}

// Efficiency returns the usage percentage.
func (pr PageResult) Efficiency() float64 {
	ta := pr.TotalArea()
	if ta == 0 {
		return 0
	}
	return (pr.UsedArea() / ta) * 100.0
}

// LayoutResult holds the full multi-page layout.
type LayoutResult struct {
	Geometry PageGeometry `json:"geometry"`
	Pages    []PageResult `json:"pages"`
	Unplaced []Rectangle  `json:"unplaced"`
}

// PlacedCount returns the number of rectangles placed across all pages.
func (lr LayoutResult) PlacedCount() int {
	n := 0
	for _, p := range lr.Pages {
		n += len(p.Placements)
	}
	return n
}

// TotalEfficiency returns overall page usage percentage.
func (lr LayoutResult) TotalEfficiency() float64 {
	var usedArea, totalArea float64
	for _, p := range lr.Pages {
		usedArea += p.UsedArea()
		totalArea += p.TotalArea()
	}
	if totalArea == 0 {
		return 0
	}
	return (usedArea / totalArea) * 100.0
}
