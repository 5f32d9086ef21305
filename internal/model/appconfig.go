package model

import (
	"fmt"
	"sort"
	"strings"
)

// PageSize is a named page format in points (1 pt = 1/72 inch).
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

// Built-in page formats (portrait).
var PageSizes = []PageSize{
	{Name: "a3", Width: 841.8898, Height: 1190.5512},
	{Name: "a4", Width: 595.2756, Height: 841.8898},
	{Name: "a5", Width: 419.5276, Height: 595.2756},
	{Name: "legal", Width: 612, Height: 1008},
	{Name: "letter", Width: 612, Height: 792},
}

// PageSizeCustom selects Config.PageWidth/PageHeight instead of a preset.
const PageSizeCustom = "custom"

// GetPageSize returns a page format by case-insensitive name.
func GetPageSize(name string) (PageSize, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, ps := range PageSizes {
		if ps.Name == name {
			return ps, true
		}
	}
	return PageSize{}, false
}

// GetPageSizeNames returns the names of all built-in page formats.
func GetPageSizeNames() []string {
	names := make([]string, 0, len(PageSizes))
	for _, ps := range PageSizes {
		names = append(names, ps.Name)
	}
	sort.Strings(names)
	return names
}

// Config holds document-assembly preferences.
type Config struct {
	// Page layout
	PageSize   string  `toml:"page_size" json:"page_size"`     // preset name or "custom"
	Landscape  bool    `toml:"landscape" json:"landscape"`     // swap preset width and height
	PageWidth  float64 `toml:"page_width" json:"page_width"`   // pt, used with page_size = "custom"
	PageHeight float64 `toml:"page_height" json:"page_height"` // pt, used with page_size = "custom"
	Padding    float64 `toml:"padding" json:"padding"`         // pt, margin and minimum gap
	MaxPages   int     `toml:"max_pages" json:"max_pages"`     // 0 = unlimited

	// Image handling
	CompressionLevel int      `toml:"compression_level" json:"compression_level"` // 0-9, higher = smaller files
	Extensions       []string `toml:"extensions" json:"extensions"`               // accepted input file extensions

	// Document extras
	SummaryPage bool `toml:"summary_page" json:"summary_page"`
	PageNumbers bool `toml:"page_numbers" json:"page_numbers"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PageSize:         "a4",
		Landscape:        false,
		Padding:          10,
		MaxPages:         0,
		CompressionLevel: 5,
		Extensions:       []string{".png", ".jpg", ".jpeg"},
		SummaryPage:      false,
		PageNumbers:      false,
	}
}

// Geometry resolves the configured page format into a PageGeometry.
func (c Config) Geometry() (PageGeometry, error) {
	var w, h float64
	if strings.EqualFold(c.PageSize, PageSizeCustom) {
		w, h = c.PageWidth, c.PageHeight
	} else {
		ps, ok := GetPageSize(c.PageSize)
		if !ok {
			return PageGeometry{}, fmt.Errorf("unknown page size %q (want one of %s or %s)",
				c.PageSize, strings.Join(GetPageSizeNames(), ", "), PageSizeCustom)
		}
		w, h = ps.Width, ps.Height
	}
	if c.Landscape && w < h {
		w, h = h, w
	}
	g := PageGeometry{Width: w, Height: h, Padding: c.Padding}
	if err := g.Validate(); err != nil {
		return PageGeometry{}, err
	}
	return g, nil
}

// Validate checks every field that does not depend on the page format.
func (c Config) Validate() error {
	if c.CompressionLevel < 0 || c.CompressionLevel > 9 {
		return fmt.Errorf("compression level %d out of range 0-9", c.CompressionLevel)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max pages %d must not be negative", c.MaxPages)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("at least one input extension is required")
	}
	_, err := c.Geometry()
	return err
}
