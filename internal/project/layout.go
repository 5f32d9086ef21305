package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/PagePack/internal/model"
)

// LayoutVersion is written to every layout manifest.
const LayoutVersion = "1.0.0"

// LayoutManifest is the JSON record of a finished layout, written next to the
// PDF so the placement of every image can be inspected or diffed later.
type LayoutManifest struct {
	Version   string             `json:"version"`
	CreatedAt string             `json:"created_at"`
	Config    model.Config       `json:"config"`
	Geometry  model.PageGeometry `json:"geometry"`
	Pages     []ManifestPage     `json:"pages"`
	Unplaced  []ManifestItem     `json:"unplaced"`
}

// ManifestPage lists the items placed on one page.
type ManifestPage struct {
	Number     int            `json:"number"`
	Efficiency float64        `json:"efficiency"`
	Items      []ManifestItem `json:"items"`
}

// ManifestItem is one rectangle. X and Y are zero for unplaced items.
type ManifestItem struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Source string  `json:"source,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type sourcePather interface {
	SourcePath() string
}

// NewLayoutManifest converts a layout result into its manifest form.
func NewLayoutManifest(result model.LayoutResult, config model.Config) LayoutManifest {
	m := LayoutManifest{
		Version:   LayoutVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Geometry:  result.Geometry,
		Pages:     make([]ManifestPage, 0, len(result.Pages)),
		Unplaced:  make([]ManifestItem, 0, len(result.Unplaced)),
	}
	for _, page := range result.Pages {
		mp := ManifestPage{
			Number:     page.Number,
			Efficiency: page.Efficiency(),
			Items:      make([]ManifestItem, 0, len(page.Placements)),
		}
		for _, p := range page.Placements {
			item := manifestItem(p.Rect)
			item.X, item.Y = p.X, p.Y
			mp.Items = append(mp.Items, item)
		}
		m.Pages = append(m.Pages, mp)
	}
	for _, r := range result.Unplaced {
		m.Unplaced = append(m.Unplaced, manifestItem(r))
	}
	return m
}

func manifestItem(r model.Rectangle) ManifestItem {
	item := ManifestItem{ID: r.ID, Label: r.Label, Width: r.Width, Height: r.Height}
	if sp, ok := r.Payload.(sourcePather); ok {
		item.Source = sp.SourcePath()
	}
	return item
}

// PlacedCount returns the number of items across all pages.
func (m LayoutManifest) PlacedCount() int {
	n := 0
	for _, p := range m.Pages {
		n += len(p.Items)
	}
	return n
}

// SaveLayout writes the manifest for result to path as indented JSON.
func SaveLayout(path string, result model.LayoutResult, config model.Config) error {
	data, err := json.MarshalIndent(NewLayoutManifest(result, config), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create layout directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write layout file: %w", err)
	}
	return nil
}

// LoadLayout reads a manifest written by SaveLayout.
func LoadLayout(path string) (LayoutManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LayoutManifest{}, fmt.Errorf("failed to read layout file: %w", err)
	}
	var m LayoutManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return LayoutManifest{}, fmt.Errorf("failed to parse layout file: %w", err)
	}
	if m.Version == "" {
		return LayoutManifest{}, fmt.Errorf("invalid layout file: missing version field")
	}
	if m.Pages == nil {
		m.Pages = []ManifestPage{}
	}
	if m.Unplaced == nil {
		m.Unplaced = []ManifestItem{}
	}
	return m, nil
}
