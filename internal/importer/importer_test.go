package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Path,Label\na.png,First\nb.png,Second\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Path;Label\na.png;First\nb.png;Second\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Path\tLabel\na.png\tFirst\nb.png\tSecond\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Path|Label\na.png|First\nb.png|Second\n")
	if got := DetectCSVDelimiter(data); got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Label", "Path"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Path != 1 {
		t.Errorf("expected Path at 1, got %d", mapping.Path)
	}
	if mapping.Label != 0 {
		t.Errorf("expected Label at 0, got %d", mapping.Label)
	}
}

func TestDetectColumns_Aliases(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"  FILE ", "Caption"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Path != 0 || mapping.Label != 1 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"photos/a.png", "Alpha"})
	if isHeader {
		t.Error("expected no header")
	}
	if mapping.Path != 0 || mapping.Label != 1 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeader(t *testing.T) {
	data := "Label,Path\nAlpha,a.png\nBeta,/abs/b.jpg\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', "/base")

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Path != filepath.Join("/base", "a.png") {
		t.Errorf("expected relative path resolved, got %s", result.Entries[0].Path)
	}
	if result.Entries[0].Label != "Alpha" {
		t.Errorf("expected label Alpha, got %s", result.Entries[0].Label)
	}
	if result.Entries[1].Path != "/abs/b.jpg" {
		t.Errorf("expected absolute path kept, got %s", result.Entries[1].Path)
	}
}

func TestImportCSVFromReader_NoHeaderSinglePathColumn(t *testing.T) {
	data := "a.png\nb.png\n\nc.png\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', "")

	if len(result.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result.Entries))
	}
	if result.Entries[2].Path != "c.png" || result.Entries[2].Label != "" {
		t.Errorf("unexpected entry %+v", result.Entries[2])
	}
}

func TestImportCSVFromReader_MissingPathColumn(t *testing.T) {
	data := "Label,Caption\nAlpha,x\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', "")
	if len(result.Errors) == 0 {
		t.Fatal("expected error for missing path column")
	}
}

func TestImportCSVFromReader_MissingPathValue(t *testing.T) {
	data := "Path,Label\n,Alpha\nb.png,Beta\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', "")
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Line 2") {
		t.Errorf("expected error to reference Line 2, got %s", result.Errors[0])
	}
	if len(result.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(result.Entries))
	}
}

func TestImportCSV_FileWithSemicolons(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.csv")
	if err := os.WriteFile(path, []byte("File;Title\nx.png;Ex\ny.png;Why\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[1].Path != filepath.Join(dir, "y.png") {
		t.Errorf("unexpected path %s", result.Entries[1].Path)
	}

	foundDelim := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			foundDelim = true
		}
	}
	if !foundDelim {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_EmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, []byte("   \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if result := ImportCSV(empty); len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
	if result := ImportCSV(filepath.Join(dir, "nope.csv")); len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func TestImportExcel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Image", "Name"},
		{"one.png", "One"},
		{"two.jpg", "Two"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	result := ImportManifest(path)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Path != filepath.Join(dir, "one.png") || result.Entries[0].Label != "One" {
		t.Errorf("unexpected entry %+v", result.Entries[0])
	}
}

func TestImportManifest_LegacyXLS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.xls")
	if err := os.WriteFile(path, []byte{0xD0, 0xCF, 0x11, 0xE0}, 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportManifest(path)
	if len(result.Entries) != 0 {
		t.Errorf("expected no entries, got %d", len(result.Entries))
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "save the file as .xlsx") {
		t.Errorf("expected a clear .xls error, got %v", result.Errors)
	}
}

func TestImportExcel_MissingFile(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing Excel file")
	}
}

// ─── ScanDir Tests ─────────────────────────────────────────

func TestScanDir_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "c.jpeg", "notes.txt", "d.gif"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := ScanDir(dir, []string{".png", "jpg", ".JPEG"})
	if err != nil {
		t.Fatalf("ScanDir failed: %v", err)
	}

	want := []string{"a.jpg", "b.PNG", "c.jpeg"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if filepath.Base(entries[i].Path) != w {
			t.Errorf("entry %d: expected %s, got %s", i, w, entries[i].Path)
		}
	}
}

func TestScanDir_MissingDir(t *testing.T) {
	if _, err := ScanDir(filepath.Join(t.TempDir(), "missing"), []string{".png"}); err == nil {
		t.Error("expected error for missing directory")
	}
}
