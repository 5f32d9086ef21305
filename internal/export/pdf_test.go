package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/PagePack/internal/model"
)

// fakeSource stands in for a decoded image payload.
type fakeSource struct {
	path string
	w, h int
}

func (s *fakeSource) SourcePath() string { return s.path }
func (s *fakeSource) Size() (int, int)   { return s.w, s.h }

// solidEncoder encodes a solid PNG at the rectangle's size.
type solidEncoder struct {
	calls int
}

func (e *solidEncoder) Encode(r model.Rectangle) ([]byte, string, error) {
	e.calls++
	img := image.NewNRGBA(image.Rect(0, 0, int(r.Width), int(r.Height)))
	for y := 0; y < int(r.Height); y++ {
		for x := 0; x < int(r.Width); x++ {
			img.Set(x, y, color.NRGBA{B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "PNG", nil
}

type failingEncoder struct{}

func (failingEncoder) Encode(model.Rectangle) ([]byte, string, error) {
	return nil, "", errors.New("decode failed")
}

// buildTestResult creates a realistic two-page layout for testing.
func buildTestResult() model.LayoutResult {
	g := model.PageGeometry{Width: 200, Height: 150, Padding: 10}
	return model.LayoutResult{
		Geometry: g,
		Pages: []model.PageResult{
			{
				Number:   1,
				Geometry: g,
				Placements: []model.Placement{
					{Rect: model.Rectangle{ID: "a1", Label: "Sunset", Width: 100, Height: 60, Payload: &fakeSource{path: "/img/sunset.png", w: 100, h: 60}}, X: 10, Y: 80},
					{Rect: model.Rectangle{ID: "b2", Label: "Harbor", Width: 60, Height: 40, Payload: &fakeSource{path: "/img/harbor.jpg", w: 120, h: 80}}, X: 120, Y: 100},
				},
			},
			{
				Number:   2,
				Geometry: g,
				Placements: []model.Placement{
					{Rect: model.Rectangle{ID: "c3", Label: "Forest", Width: 180, Height: 120, Payload: &fakeSource{path: "/img/forest.png", w: 180, h: 120}}, X: 10, Y: 20},
				},
			},
		},
		Unplaced: []model.Rectangle{},
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_output.pdf")

	enc := &solidEncoder{}
	if err := ExportPDF(path, buildTestResult(), enc, PDFOptions{Title: "Album"}); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
	if enc.calls != 3 {
		t.Errorf("expected 3 encoded images, got %d", enc.calls)
	}
}

func TestExportPDF_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	err := ExportPDF(path, model.LayoutResult{}, &solidEncoder{}, PDFOptions{})
	if err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no file should be written for an empty result")
	}
}

func TestExportPDF_EncoderErrorPropagates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")

	err := ExportPDF(path, buildTestResult(), failingEncoder{}, PDFOptions{})
	if err == nil {
		t.Fatal("expected encoder error")
	}
	if !strings.Contains(err.Error(), "Sunset") {
		t.Errorf("error should name the image, got %v", err)
	}
}

func TestRenderPDF_PageCount(t *testing.T) {
	data, err := RenderPDF(buildTestResult(), &solidEncoder{}, PDFOptions{})
	if err != nil {
		t.Fatalf("RenderPDF returned error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
	if !bytes.Contains(data, []byte("/Count 2")) {
		t.Error("expected 2 pages")
	}
}

func TestRenderPDF_SummaryAndPageNumbers(t *testing.T) {
	result := buildTestResult()
	result.Unplaced = []model.Rectangle{
		{ID: "u1", Label: "Panorama", Width: 180, Height: 900},
	}

	data, err := RenderPDF(result, &solidEncoder{}, PDFOptions{SummaryPage: true, PageNumbers: true})
	if err != nil {
		t.Fatalf("RenderPDF returned error: %v", err)
	}
	if !bytes.Contains(data, []byte("/Count 3")) {
		t.Error("expected 2 layout pages plus a summary page")
	}
}

func TestRenderPDF_SummaryNonASCIILabel(t *testing.T) {
	result := buildTestResult()
	result.Unplaced = []model.Rectangle{
		{ID: "u1", Label: "Café Zürich.png", Width: 180, Height: 900},
	}

	if _, err := RenderPDF(result, &solidEncoder{}, PDFOptions{SummaryPage: true}); err != nil {
		t.Fatalf("RenderPDF returned error: %v", err)
	}
}
