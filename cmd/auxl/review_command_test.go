package main

import (
	"testing"
	"time"

	"auxl/internal/research"
	"auxl/internal/review"
)

func TestApplyRatingsSkipsUnchangedValues(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := review.New(review.WithClock(func() time.Time { return now }))
	if err := s.LoadRecords([]research.Record{{Filename: "A.pdf"}}, "papers.csv"); err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if err := s.Rate("A.pdf", research.FieldResearchGoal, 3); err != nil {
		t.Fatalf("Rate: %v", err)
	}
	s.MarkSaved("/tmp/a.auxl")
	rated, _ := s.Lookup("A.pdf", research.FieldResearchGoal)

	prior := make([]int, research.FieldCount)
	prior[research.FieldResearchGoal] = 3
	values := append([]int(nil), prior...)

	now = now.Add(time.Hour)
	changed, err := applyRatings(s, "A.pdf", prior, values)
	if err != nil {
		t.Fatalf("applyRatings: %v", err)
	}
	if changed != 0 || s.HasUnsavedChanges() {
		t.Fatalf("unchanged form must not touch the session (changed=%d dirty=%t)", changed, s.HasUnsavedChanges())
	}
	again, _ := s.Lookup("A.pdf", research.FieldResearchGoal)
	if !again.ObservedAt.Equal(rated.ObservedAt) {
		t.Fatalf("timestamp rewritten: %v -> %v", rated.ObservedAt, again.ObservedAt)
	}

	values[research.FieldMethod] = 5
	changed, err = applyRatings(s, "A.pdf", prior, values)
	if err != nil {
		t.Fatalf("applyRatings: %v", err)
	}
	if changed != 1 || !s.HasUnsavedChanges() {
		t.Fatalf("expected one new rating and a dirty session (changed=%d dirty=%t)", changed, s.HasUnsavedChanges())
	}
	if v, ok := s.Rating("A.pdf", research.FieldMethod); !ok || v != 5 {
		t.Fatalf("method rating = %d, %t", v, ok)
	}
}
