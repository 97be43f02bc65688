package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"auxl/internal/research"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile returns the content at path.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// SpreadsheetColumns is the number of columns in a complete extraction row.
const SpreadsheetColumns = 8 + 4*research.FieldCount

// WriteSpreadsheet writes an extraction spreadsheet with a header row and one
// row per record. Only the bibliographic columns and field values are filled.
func WriteSpreadsheet(t testing.TB, path string, records []research.Record) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := make([]string, SpreadsheetColumns)
	for i := range header {
		header[i] = "col"
	}
	rows := [][]string{header}
	for _, r := range records {
		row := make([]string, SpreadsheetColumns)
		row[0], row[1], row[2], row[3] = r.Title, r.Authors, r.DOI, r.DOILink
		row[4], row[5], row[6], row[7] = r.Venue, r.CitationCount, r.Year, r.Filename
		for i, field := range research.Fields() {
			row[8+i] = r.Value(field)
		}
		rows = append(rows, row)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write spreadsheet %s: %v", path, err)
	}
}

// Records returns n distinct records named Paper-1.pdf ... Paper-n.pdf.
func Records(n int) []research.Record {
	out := make([]research.Record, n)
	for i := range out {
		name := string(rune('A' + i%26))
		out[i] = research.Record{
			Title:    "Paper " + name,
			Authors:  "Author " + name,
			Year:     "2024",
			Filename: "Paper-" + strconv.Itoa(i+1) + ".pdf",
		}
		out[i].SetValue(research.Fields()[0], "goal "+name)
	}
	return out
}
