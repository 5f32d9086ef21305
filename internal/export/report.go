package export

import (
	"fmt"
	"math"

	"github.com/piwi3910/PagePack/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	placementsSheet = "Placements"
	summarySheet    = "Summary"
)

// pixelSizer is implemented by payloads that know their original pixel size.
type pixelSizer interface {
	Size() (int, int)
}

// ExportReport writes an XLSX workbook describing the layout: one row per
// placed image on the "Placements" sheet, per-page coverage and unplaced
// images on the "Summary" sheet.
func ExportReport(path string, result model.LayoutResult) error {
	f, err := buildReport(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func buildReport(result model.LayoutResult) (*excelize.File, error) {
	if len(result.Pages) == 0 && len(result.Unplaced) == 0 {
		return nil, fmt.Errorf("nothing to report")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), placementsSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writePlacements(f, result); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write placements: %w", err)
	}
	if err := writeSummary(f, result); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}
	return f, nil
}

func writePlacements(f *excelize.File, result model.LayoutResult) error {
	header := []interface{}{"Page", "Label", "Source", "X (pt)", "Y (pt)", "Width (pt)", "Height (pt)", "Downscaled"}
	if err := setRow(f, placementsSheet, 1, header); err != nil {
		return err
	}

	row := 2
	for _, page := range result.Pages {
		for _, p := range page.Placements {
			values := []interface{}{
				page.Number,
				p.Rect.Label,
				sourceOf(p.Rect),
				p.X,
				p.Y,
				p.Rect.Width,
				p.Rect.Height,
				downscaled(p.Rect),
			}
			if err := setRow(f, placementsSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetPanes(placementsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummary(f *excelize.File, result model.LayoutResult) error {
	g := result.Geometry
	rows := [][]interface{}{
		{"Page width (pt)", g.Width},
		{"Page height (pt)", g.Height},
		{"Padding (pt)", g.Padding},
		{"Pages", len(result.Pages)},
		{"Images placed", result.PlacedCount()},
		{"Images not placed", len(result.Unplaced)},
		{"Overall coverage (%)", round1(result.TotalEfficiency())},
		{},
		{"Page", "Images", "Coverage (%)"},
	}
	for _, page := range result.Pages {
		rows = append(rows, []interface{}{page.Number, len(page.Placements), round1(page.Efficiency())})
	}
	if len(result.Unplaced) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"Not placed", "Width", "Height"})
		for _, r := range result.Unplaced {
			rows = append(rows, []interface{}{r.Label, r.Width, r.Height})
		}
	}

	for i, values := range rows {
		if err := setRow(f, summarySheet, i+1, values); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// downscaled reports "yes" when r was shrunk from its source pixel size.
func downscaled(r model.Rectangle) string {
	ps, ok := r.Payload.(pixelSizer)
	if !ok {
		return "no"
	}
	w, h := ps.Size()
	if float64(w) != r.Width || float64(h) != r.Height {
		return "yes"
	}
	return "no"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
