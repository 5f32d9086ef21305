// Package export provides functionality for exporting page layouts
// to various file formats.
package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PagePack/internal/model"
)

// ImageEncoder turns a placed rectangle into encoded image bytes at its
// placed size. imageType is an fpdf image type such as "PNG" or "JPG".
type ImageEncoder interface {
	Encode(r model.Rectangle) (data []byte, imageType string, err error)
}

// PDFOptions controls the optional extras of the exported document.
type PDFOptions struct {
	Title       string
	SummaryPage bool
	PageNumbers bool
}

// ExportPDF generates a PDF document with one page per layout page. Each
// image is drawn at its placement and size, in points.
func ExportPDF(path string, result model.LayoutResult, enc ImageEncoder, opts PDFOptions) error {
	pdf, err := renderPDF(result, enc, opts)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// RenderPDF renders the document into memory.
func RenderPDF(result model.LayoutResult, enc ImageEncoder, opts PDFOptions) ([]byte, error) {
	pdf, err := renderPDF(result, enc, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(result model.LayoutResult, enc ImageEncoder, opts PDFOptions) (*fpdf.Fpdf, error) {
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("no pages to export")
	}

	geom := result.Geometry
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: geom.Width, Ht: geom.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("PagePack", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}

	for _, page := range result.Pages {
		pdf.AddPage()
		if err := renderPage(pdf, page, enc); err != nil {
			return nil, err
		}
		if opts.PageNumbers {
			drawPageNumber(pdf, page, len(result.Pages))
		}
	}

	if opts.SummaryPage {
		pdf.AddPage()
		renderSummaryPage(pdf, result)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build PDF: %w", err)
	}
	return pdf, nil
}

// renderPage draws every placement of page. fpdf measures y from the top
// edge while placements are expressed from the bottom.
func renderPage(pdf *fpdf.Fpdf, page model.PageResult, enc ImageEncoder) error {
	for i, p := range page.Placements {
		data, imageType, err := enc.Encode(p.Rect)
		if err != nil {
			return fmt.Errorf("failed to encode %q on page %d: %w", p.Rect.Label, page.Number, err)
		}

		name := fmt.Sprintf("img_p%d_%d_%s", page.Number, i, p.Rect.ID)
		opts := fpdf.ImageOptions{ImageType: imageType}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("failed to register %q: %w", p.Rect.Label, err)
		}

		top := page.Geometry.Height - p.Y - p.Rect.Height
		pdf.ImageOptions(name, p.X, top, p.Rect.Width, p.Rect.Height, false, opts, 0, "")
	}
	return nil
}

// drawPageNumber centres "n / total" inside the bottom padding band.
func drawPageNumber(pdf *fpdf.Fpdf, page model.PageResult, total int) {
	g := page.Geometry
	if g.Padding < 6 {
		return
	}
	size := g.Padding * 0.6
	if size > 9 {
		size = 9
	}
	pdf.SetFont("Helvetica", "", size)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(0, g.Height-g.Padding)
	pdf.CellFormat(g.Width, g.Padding, fmt.Sprintf("%d / %d", page.Number, total), "", 0, "CM", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws overall statistics, a per-page table and any
// images that could not be placed.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.LayoutResult) {
	g := result.Geometry
	margin := g.Padding
	if margin < 20 {
		margin = 20
	}
	width := g.Width - 2*margin
	y := margin

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(margin, y)
	pdf.CellFormat(width, 20, "Layout Summary", "", 1, "L", false, 0, "")
	y += 26

	pdf.SetFont("Helvetica", "", 10)
	lines := []string{
		fmt.Sprintf("Page size: %.0f x %.0f pt, padding %.0f pt", g.Width, g.Height, g.Padding),
		fmt.Sprintf("Pages: %d", len(result.Pages)),
		fmt.Sprintf("Images placed: %d", result.PlacedCount()),
		fmt.Sprintf("Images not placed: %d", len(result.Unplaced)),
		fmt.Sprintf("Overall coverage: %.1f%%", result.TotalEfficiency()),
	}
	for _, l := range lines {
		pdf.SetXY(margin, y)
		pdf.CellFormat(width, 14, l, "", 1, "L", false, 0, "")
		y += 14
	}
	y += 10

	// Per-page table
	colW := []float64{width * 0.2, width * 0.4, width * 0.4}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetXY(margin, y)
	for i, h := range []string{"Page", "Images", "Coverage"} {
		pdf.CellFormat(colW[i], 14, h, "1", 0, "C", true, 0, "")
	}
	y += 14

	pdf.SetFont("Helvetica", "", 9)
	for _, page := range result.Pages {
		if y+12 > g.Height-margin {
			break
		}
		pdf.SetXY(margin, y)
		pdf.CellFormat(colW[0], 12, fmt.Sprintf("%d", page.Number), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 12, fmt.Sprintf("%d", len(page.Placements)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 12, fmt.Sprintf("%.1f%%", page.Efficiency()), "1", 0, "C", false, 0, "")
		y += 12
	}

	if len(result.Unplaced) == 0 {
		return
	}

	y += 12
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(200, 0, 0)
	pdf.SetXY(margin, y)
	pdf.CellFormat(width, 14, "Images too large for the page", "", 1, "L", false, 0, "")
	y += 16

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 9)
	for _, r := range result.Unplaced {
		if y+12 > g.Height-margin {
			break
		}
		pdf.SetXY(margin, y)
		pdf.CellFormat(width, 12, tr(fmt.Sprintf("%s (%.0f x %.0f)", r.Label, r.Width, r.Height)), "", 1, "L", false, 0, "")
		y += 12
	}
	pdf.SetTextColor(0, 0, 0)
}
