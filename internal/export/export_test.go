package export_test

import (
	"encoding/csv"
	"strings"
	"testing"

	"auxl/internal/export"
	"auxl/internal/research"
	"auxl/internal/review"
)

func TestRenderWritesRatingsWithZeroForUnrated(t *testing.T) {
	s := review.New()
	if err := s.LoadRecords([]research.Record{{Filename: "A.pdf"}, {Title: "T", DOI: "1"}}, ""); err != nil {
		t.Fatal(err)
	}
	if err := s.Rate("A.pdf", research.FieldResearchGoal, 4); err != nil {
		t.Fatal(err)
	}
	if err := s.Rate("A.pdf", research.FieldMeasurementPrecision, 2); err != nil {
		t.Fatal(err)
	}

	out, err := export.Render(s.Snapshot(), export.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "filename" || rows[0][1] != "Research Goal" || rows[0][2] != "Target condition" || len(rows[0]) != 16 {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "A.pdf" || rows[1][1] != "4" || rows[1][2] != "0" || rows[1][15] != "2" {
		t.Fatalf("unexpected row %v", rows[1])
	}
	if rows[2][0] != "T_1" {
		t.Fatalf("expected identity fallback, got %q", rows[2][0])
	}
}

func TestRenderIncludesDisposition(t *testing.T) {
	s := review.New()
	if err := s.LoadRecords([]research.Record{{Filename: "A.pdf"}, {Filename: "B.pdf"}}, ""); err != nil {
		t.Fatal(err)
	}
	if err := s.SetDisposition("A.pdf", review.DispositionCorrect, "clean, extraction"); err != nil {
		t.Fatal(err)
	}

	out, err := export.Render(s.Snapshot(), export.Options{IncludeDisposition: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if got := rows[0][len(rows[0])-2:]; got[0] != "Disposition" || got[1] != "Notes" {
		t.Fatalf("unexpected header tail %v", got)
	}
	if rows[1][16] != "correct" || rows[1][17] != "clean, extraction" {
		t.Fatalf("unexpected row %v", rows[1])
	}
	if rows[2][16] != "pending" {
		t.Fatalf("unexpected row %v", rows[2])
	}
}
