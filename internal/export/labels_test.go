package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PagePack/internal/model"
)

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestResult())

	if len(labels) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(labels))
	}

	first := labels[0]
	if first.Label != "Sunset" || first.Page != 1 {
		t.Errorf("unexpected first label %+v", first)
	}
	if first.Source != "/img/sunset.png" {
		t.Errorf("expected source path, got %q", first.Source)
	}
	if first.X != 10 || first.Y != 80 || first.Width != 100 || first.Height != 60 {
		t.Errorf("unexpected geometry %+v", first)
	}

	if labels[2].Page != 2 {
		t.Errorf("expected third label on page 2, got %d", labels[2].Page)
	}
}

func TestCollectLabelInfos_NoSourcePayload(t *testing.T) {
	result := buildTestResult()
	result.Pages[0].Placements[0].Rect.Payload = nil

	labels := CollectLabelInfos(result)
	if labels[0].Source != "" {
		t.Errorf("expected empty source, got %q", labels[0].Source)
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildTestResult()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("labels file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("labels file is empty")
	}
}

func TestExportLabels_ManyPages(t *testing.T) {
	g := model.PageGeometry{Width: 200, Height: 150, Padding: 10}
	page := model.PageResult{Number: 1, Geometry: g}
	for i := 0; i < labelsPerPage+5; i++ {
		page.Placements = append(page.Placements, model.Placement{
			Rect: model.Rectangle{ID: "x", Label: "A very long image label that will not fit on a label", Width: 10, Height: 10},
			X:    10,
			Y:    10,
		})
	}
	result := model.LayoutResult{Geometry: g, Pages: []model.PageResult{page}}

	path := filepath.Join(t.TempDir(), "many.pdf")
	if err := ExportLabels(path, result); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
}

func TestExportLabels_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.pdf")
	if err := ExportLabels(path, model.LayoutResult{}); err == nil {
		t.Fatal("expected error for empty layout")
	}
}

func newLabelPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 9)
	return pdf
}

func TestTruncate_KeepsWholeRunes(t *testing.T) {
	pdf := newLabelPDF()
	identity := func(s string) string { return s }
	name := strings.Repeat("日本語の写真", 10) + ".png"

	out := truncate(pdf, identity, name, 20)

	if !strings.HasSuffix(out, "...") {
		t.Fatalf("expected ellipsis, got %q", out)
	}
	if !utf8.ValidString(out) {
		t.Errorf("truncated name is not valid UTF-8: %q", out)
	}
	if len(out) >= len(name) {
		t.Errorf("expected a shorter name, got %q", out)
	}
}

func TestTruncate_EncodesForCoreFonts(t *testing.T) {
	pdf := newLabelPDF()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if out := truncate(pdf, tr, "é.png", 50); out != "\xe9.png" {
		t.Errorf("expected cp1252 encoding, got %q", out)
	}

	long := strings.Repeat("é", 200)
	out := truncate(pdf, tr, long, 20)
	if !strings.HasSuffix(out, "...") {
		t.Fatalf("expected ellipsis, got %q", out)
	}
	for _, b := range []byte(strings.TrimSuffix(out, "...")) {
		if b != 0xe9 {
			t.Fatalf("expected only cp1252 e-acute bytes, got %q", out)
		}
	}
}

func TestExportLabels_NonASCIILabels(t *testing.T) {
	result := buildTestResult()
	result.Pages[0].Placements[0].Rect.Label = "Straße am Fluß, Überlingen"

	path := filepath.Join(t.TempDir(), "labels.pdf")
	if err := ExportLabels(path, result); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
}
