package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PagePack/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each image label's QR code.
type LabelInfo struct {
	Label  string  `json:"label"`
	Source string  `json:"source,omitempty"`
	Page   int     `json:"page"`
	X      float64 `json:"x_pt"`
	Y      float64 `json:"y_pt"`
	Width  float64 `json:"width_pt"`
	Height float64 `json:"height_pt"`
}

// sourcePather is implemented by payloads that know their file.
type sourcePather interface {
	SourcePath() string
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates an index sheet of QR-coded labels, one per placed
// image, telling where each image ended up in the document. Labels are laid
// out on a standard label sheet (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, result model.LayoutResult) error {
	// Collect all placed images across all pages
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no images placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	// Core fonts are cp1252; file names are UTF-8
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		// Add new page when needed
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, tr, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Label, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, idx int, info LabelInfo) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	// Generate QR code PNG bytes
	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Register QR image with a unique name
	imgName := fmt.Sprintf("qr_%d_%d", info.Page, idx)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// Place QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text area (left side of label)
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Image label (bold, larger), truncated if too long
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, tr, info.Label, textW), "", 1, "L", false, 0, "")

	// Placed size
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f pt", info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	// Page and position info
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pageInfo := fmt.Sprintf("Page %d @ (%.0f, %.0f)", info.Page, info.X, info.Y)
	pdf.CellFormat(textW, 3, pageInfo, "", 1, "L", false, 0, "")

	// Source file name
	if info.Source != "" {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.CellFormat(textW, 3, truncate(pdf, tr, filepath.Base(info.Source), textW), "", 0, "L", false, 0, "")
	}

	// Reset text color
	pdf.SetTextColor(0, 0, 0)
	return pdf.Error()
}

// truncate encodes s with tr and, if it is wider than width, drops whole
// runes from the end and appends an ellipsis until it fits.
func truncate(pdf *fpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if out := tr(s); pdf.GetStringWidth(out) <= width {
		return out
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(tr(string(runes))+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return tr(string(runes)) + "..."
}

// CollectLabelInfos extracts label information from a layout for use in
// testing or alternative export formats.
func CollectLabelInfos(result model.LayoutResult) []LabelInfo {
	var labels []LabelInfo
	for _, page := range result.Pages {
		for _, p := range page.Placements {
			labels = append(labels, LabelInfo{
				Label:  p.Rect.Label,
				Source: sourceOf(p.Rect),
				Page:   page.Number,
				X:      p.X,
				Y:      p.Y,
				Width:  p.Rect.Width,
				Height: p.Rect.Height,
			})
		}
	}
	return labels
}

func sourceOf(r model.Rectangle) string {
	if sp, ok := r.Payload.(sourcePather); ok {
		return sp.SourcePath()
	}
	return ""
}
