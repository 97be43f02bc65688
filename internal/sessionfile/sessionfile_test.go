package sessionfile_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auxl/internal/research"
	"auxl/internal/review"
	"auxl/internal/sessionfile"
)

var observed = time.Date(2026, 4, 9, 14, 30, 15, 987654321, time.UTC)

func sampleSession(t *testing.T) *review.Session {
	t.Helper()
	s := review.New(review.WithClock(func() time.Time { return observed }))
	records := []research.Record{
		{Filename: "A.pdf", Title: "Accelerometers in dairy cows", Year: "2021"},
		{Filename: "B.pdf", Title: "Mastitis screening", Category: "Udder health"},
		{Title: "Untitled", DOI: "10.1/x"},
	}
	records[0].SetEvidence(research.FieldMethod, research.EvidenceSet{Quotes: "\"we mounted\"", Reasoning: "explicit"})
	require.NoError(t, s.LoadRecords(records, "papers.csv"))
	require.NoError(t, s.Rate("A.pdf", research.FieldMethod, 4))
	require.NoError(t, s.Rate("A.pdf", research.FieldHasSensorDevice, 5))
	require.NoError(t, s.Rate("B.pdf", research.FieldCategory, 1))
	require.NoError(t, s.SetDisposition("B.pdf", review.DispositionIncorrect, "wrong condition"))
	s.MoveTo(1)
	return s
}

func mutate(t *testing.T, data []byte, fn func(doc map[string]any)) []byte {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	fn(doc)
	out, err := json.Marshal(doc)
	require.NoError(t, err)
	return out
}

func TestRoundTripPreservesSession(t *testing.T) {
	snap := sampleSession(t).Snapshot()

	data, err := sessionfile.Encode(snap)
	require.NoError(t, err)

	doc, err := sessionfile.Decode(data, sessionfile.Options{})
	require.NoError(t, err)
	assert.Equal(t, sessionfile.Version, doc.Version)
	assert.Empty(t, doc.Warnings)
	assert.Equal(t, snap.Records, doc.Snapshot.Records)
	assert.Equal(t, snap.Cursor, doc.Snapshot.Cursor)
	require.Len(t, doc.Snapshot.Entries, len(snap.Entries))
	for id, want := range snap.Entries {
		got := doc.Snapshot.Entries[id]
		assert.Equal(t, want.Disposition, got.Disposition, id)
		assert.Equal(t, want.Notes, got.Notes, id)
		assert.True(t, want.ReviewedAt.Equal(got.ReviewedAt), id)
		for _, f := range research.Fields() {
			assert.Equal(t, want.Ratings[f].Value, got.Ratings[f].Value, "%s %s", id, f)
			assert.True(t, want.Ratings[f].ObservedAt.Equal(got.Ratings[f].ObservedAt), "%s %s", id, f)
		}
	}

	again, err := sessionfile.Encode(doc.Snapshot)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestEncodeWritesEnvelopeKeys(t *testing.T) {
	data, err := sessionfile.Encode(sampleSession(t).Snapshot())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.EqualValues(t, 1, doc["version"])
	assert.EqualValues(t, 3, doc["totalPapers"])
	assert.EqualValues(t, 2, doc["currentPaperNumber"])
	assert.Equal(t, true, doc["canGoToNext"])
	assert.Equal(t, true, doc["canGoToPrevious"])
	assert.Equal(t, "B.pdf", doc["currentPaper"].(map[string]any)["filename"])

	ratings := doc["ratings"].(map[string]any)
	assert.Contains(t, ratings, "Untitled_10_1_x")
	a := ratings["A.pdf"].(map[string]any)
	assert.Len(t, a, research.FieldCount)
	assert.Nil(t, a["researchGoal"])
	method := a["method"].(map[string]any)
	assert.EqualValues(t, 4, method["rating"])
	assert.EqualValues(t, observed.UnixMilli(), method["timestamp"])

	dispositions := doc["dispositions"].(map[string]any)
	assert.Len(t, dispositions, 1)
	assert.Equal(t, "incorrect", dispositions["B.pdf"].(map[string]any)["status"])
}

func TestEncodeOmitsDispositionsWhenAllPending(t *testing.T) {
	s := review.New()
	require.NoError(t, s.LoadRecords([]research.Record{{Filename: "A.pdf"}}, ""))
	data, err := sessionfile.Encode(s.Snapshot())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dispositions")
}

func TestEmptySessionRoundTrip(t *testing.T) {
	data, err := sessionfile.Encode(review.New().Snapshot())
	require.NoError(t, err)

	doc, err := sessionfile.Decode(data, sessionfile.Options{})
	require.NoError(t, err)
	assert.Empty(t, doc.Snapshot.Records)
	assert.Equal(t, 0, doc.Snapshot.Cursor)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	for _, lenient := range []bool{false, true} {
		_, err := sessionfile.Decode([]byte(`{"papers": [`), sessionfile.Options{Lenient: lenient})
		require.ErrorIs(t, err, sessionfile.ErrCorruptSessionFile)
	}
	_, err := sessionfile.Decode([]byte(`[]`), sessionfile.Options{})
	require.ErrorIs(t, err, sessionfile.ErrCorruptSessionFile)
}

func TestStrictDecodeRejectsInconsistencies(t *testing.T) {
	data, err := sessionfile.Encode(sampleSession(t).Snapshot())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(doc map[string]any)
	}{
		{"total mismatch", func(doc map[string]any) { doc["totalPapers"] = 7 }},
		{"rating out of scale", func(doc map[string]any) {
			doc["ratings"].(map[string]any)["A.pdf"].(map[string]any)["method"] = map[string]any{"rating": 9, "timestamp": 1}
		}},
		{"missing ratings entry", func(doc map[string]any) { delete(doc["ratings"].(map[string]any), "A.pdf") }},
		{"stray ratings entry", func(doc map[string]any) { doc["ratings"].(map[string]any)["Z.pdf"] = map[string]any{} }},
		{"missing field key", func(doc map[string]any) {
			delete(doc["ratings"].(map[string]any)["A.pdf"].(map[string]any), "placement")
		}},
		{"unknown field key", func(doc map[string]any) {
			doc["ratings"].(map[string]any)["A.pdf"].(map[string]any)["title"] = nil
		}},
		{"cursor out of range", func(doc map[string]any) { doc["currentPaperNumber"] = 4 }},
		{"flag mismatch", func(doc map[string]any) { doc["canGoToNext"] = false }},
		{"current paper mismatch", func(doc map[string]any) { doc["currentPaper"] = map[string]any{"filename": "A.pdf"} }},
		{"papers wrong type", func(doc map[string]any) { doc["papers"] = "nope" }},
		{"bad disposition", func(doc map[string]any) {
			doc["dispositions"] = map[string]any{"A.pdf": map[string]any{"status": "maybe"}}
		}},
		{"future version", func(doc map[string]any) { doc["version"] = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sessionfile.Decode(mutate(t, data, tt.mutate), sessionfile.Options{})
			require.ErrorIs(t, err, sessionfile.ErrCorruptSessionFile)
			var ce *sessionfile.CorruptError
			require.ErrorAs(t, err, &ce)
			assert.NotEmpty(t, ce.Problems)
		})
	}
}

func TestStrictDecodeRejectsDuplicatePapers(t *testing.T) {
	data, err := sessionfile.Encode(sampleSession(t).Snapshot())
	require.NoError(t, err)
	dup := mutate(t, data, func(doc map[string]any) {
		papers := doc["papers"].([]any)
		doc["papers"] = append(papers, papers[0])
		doc["totalPapers"] = 4
	})
	_, err = sessionfile.Decode(dup, sessionfile.Options{})
	require.ErrorIs(t, err, sessionfile.ErrCorruptSessionFile)

	doc, err := sessionfile.Decode(dup, sessionfile.Options{Lenient: true})
	require.NoError(t, err)
	assert.Len(t, doc.Snapshot.Records, 3)
	assert.NotEmpty(t, doc.Warnings)
}

func TestLenientDecodeSalvages(t *testing.T) {
	data, err := sessionfile.Encode(sampleSession(t).Snapshot())
	require.NoError(t, err)
	damaged := mutate(t, data, func(doc map[string]any) {
		ratings := doc["ratings"].(map[string]any)
		delete(ratings, "B.pdf")
		ratings["ghost.pdf"] = map[string]any{"method": map[string]any{"rating": 3, "timestamp": 1}}
		a := ratings["A.pdf"].(map[string]any)
		a["placement"] = map[string]any{"rating": 12, "timestamp": 1}
		a["bogus"] = nil
		doc["totalPapers"] = "three"
		doc["currentPaperNumber"] = 99
		delete(doc, "canGoToNext")
	})

	_, err = sessionfile.Decode(damaged, sessionfile.Options{})
	require.ErrorIs(t, err, sessionfile.ErrCorruptSessionFile)

	doc, err := sessionfile.Decode(damaged, sessionfile.Options{Lenient: true})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Warnings)
	require.Len(t, doc.Snapshot.Records, 3)
	assert.Len(t, doc.Snapshot.Entries, 3)
	assert.NotContains(t, doc.Snapshot.Entries, "ghost.pdf")

	a := doc.Snapshot.Entries["A.pdf"]
	assert.Equal(t, 4, a.Ratings[research.FieldMethod].Value)
	assert.False(t, a.Ratings[research.FieldPlacement].IsSet())
	assert.Equal(t, 0, doc.Snapshot.Entries["B.pdf"].RatedCount())
	// currentPaper still names B.pdf.
	assert.Equal(t, 1, doc.Snapshot.Cursor)
}

func TestDecodeLegacyFile(t *testing.T) {
	legacy := `{
  "papers": [
    {"title": "One", "filename": "one.pdf"},
    {"title": "Two", "filename": "two.pdf"}
  ],
  "ratings": {
    "one.pdf": {"title": null, "doi": null, "filename": null, "method": {"rating": 2, "timestamp": 1700000000123}, "category": null},
    "two.pdf": {"title": null, "researchGoal": null}
  },
  "currentPaper": null,
  "currentPaperNumber": 0,
  "totalPapers": 2,
  "canGoToNext": true,
  "canGoToPrevious": false
}`
	doc, err := sessionfile.Decode([]byte(legacy), sessionfile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Version)
	assert.Equal(t, 0, doc.Snapshot.Cursor)

	method := doc.Snapshot.Entries["one.pdf"].Ratings[research.FieldMethod]
	assert.Equal(t, 2, method.Value)
	assert.Equal(t, int64(1700000000123), method.ObservedAt.UnixMilli())
	assert.Equal(t, 1, doc.Snapshot.Entries["one.pdf"].RatedCount())
	assert.Equal(t, 0, doc.Snapshot.Entries["two.pdf"].RatedCount())
}

func TestDecodeLegacyRatingsKeyedByBlankFilename(t *testing.T) {
	legacy := `{
  "papers": [{"title": "A", "doi": "10.1/x", "filename": ""}],
  "ratings": {"": {"researchGoal": {"rating": 4, "timestamp": 1700000000000}}},
  "currentPaper": null,
  "currentPaperNumber": 1,
  "totalPapers": 1,
  "canGoToNext": false,
  "canGoToPrevious": false
}`
	for _, lenient := range []bool{false, true} {
		doc, err := sessionfile.Decode([]byte(legacy), sessionfile.Options{Lenient: lenient})
		require.NoError(t, err, "lenient=%t", lenient)
		assert.Empty(t, doc.Warnings)

		entry, ok := doc.Snapshot.Entries["A_10_1_x"]
		require.True(t, ok, "lenient=%t", lenient)
		assert.Equal(t, 4, entry.Ratings[research.FieldResearchGoal].Value)
	}
}

func TestRestoredSnapshotDrivesSession(t *testing.T) {
	data, err := sessionfile.Encode(sampleSession(t).Snapshot())
	require.NoError(t, err)
	doc, err := sessionfile.Decode(data, sessionfile.Options{})
	require.NoError(t, err)

	s := review.New()
	require.NoError(t, s.Restore(doc.Snapshot, "/tmp/r.auxl"))
	assert.Equal(t, review.StateBoundClean, s.State())
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "B.pdf", cur.Identity())
	value, ok := s.Rating("A.pdf", research.FieldHasSensorDevice)
	require.True(t, ok)
	assert.Equal(t, 5, value)
}

func TestSchemaIsValidJSON(t *testing.T) {
	assert.True(t, json.Valid(sessionfile.Schema()))
}
