package sessionfile

import (
	"encoding/json"
	"fmt"
	"slices"

	"auxl/internal/research"
	"auxl/internal/review"
)

// Options tunes decoding.
type Options struct {
	// Lenient salvages what it can from inconsistent documents instead of
	// rejecting them. Malformed JSON and unknown versions still fail.
	Lenient bool
}

// Document is a decoded session.
type Document struct {
	Snapshot review.Snapshot
	// Version is the envelope version found in the file; 0 for legacy files.
	Version int
	// Warnings lists what lenient decoding dropped or repaired.
	Warnings []string
}

// Decode parses a session file. Failures wrap ErrCorruptSessionFile.
func Decode(data []byte, opts Options) (Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, corrupt("malformed JSON: %v", err)
	}
	if raw == nil {
		return Document{}, corrupt("document is not a JSON object")
	}

	d := &decoder{raw: raw, lenient: opts.Lenient}
	if err := d.readVersion(); err != nil {
		return Document{}, err
	}
	if !d.lenient {
		problems, err := validateSchema(data)
		if err != nil {
			return Document{}, err
		}
		if len(problems) > 0 {
			return Document{}, &CorruptError{Problems: problems}
		}
	}

	records := d.readPapers()
	entries := d.readRatings(records)
	d.readDispositions(records, entries)
	cursor := d.readCursor(records)

	if !d.lenient && len(d.problems) > 0 {
		return Document{}, &CorruptError{Problems: d.problems}
	}
	return Document{
		Snapshot: review.Snapshot{Records: records, Entries: entries, Cursor: cursor},
		Version:  d.version,
		Warnings: d.problems,
	}, nil
}

type decoder struct {
	raw      map[string]json.RawMessage
	lenient  bool
	version  int
	problems []string
}

func (d *decoder) problem(format string, args ...any) {
	d.problems = append(d.problems, fmt.Sprintf(format, args...))
}

func (d *decoder) readVersion() error {
	raw, ok := d.raw["version"]
	if !ok || isNull(raw) {
		d.version = 0
		return nil
	}
	if err := json.Unmarshal(raw, &d.version); err != nil {
		if !d.lenient {
			return corrupt("version: %v", err)
		}
		d.problem("version unreadable, reading as legacy: %v", err)
		d.version = 0
		return nil
	}
	if d.version < 0 || d.version > Version {
		return corrupt("unsupported version %d (newest known is %d)", d.version, Version)
	}
	return nil
}

// readPapers returns the catalog records. Duplicate identities are a problem
// in strict mode and are dropped in lenient mode.
func (d *decoder) readPapers() []research.Record {
	var items []json.RawMessage
	if raw, ok := d.raw["papers"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &items); err != nil {
			d.problem("papers: %v", err)
		}
	} else {
		d.problem("papers: missing")
	}

	records := make([]research.Record, 0, len(items))
	seen := make(map[string]int, len(items))
	for i, item := range items {
		var rec research.Record
		if err := json.Unmarshal(item, &rec); err != nil {
			d.problem("papers[%d]: %v", i, err)
			continue
		}
		id := rec.Identity()
		if prev, dup := seen[id]; dup {
			d.problem("papers[%d]: duplicate identity %q (first at papers[%d])", i, id, prev)
			if d.lenient {
				continue
			}
		}
		seen[id] = i
		records = append(records, rec)
	}
	return records
}

func (d *decoder) readRatings(records []research.Record) map[string]review.Entry {
	var ratings map[string]json.RawMessage
	if raw, ok := d.raw["ratings"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &ratings); err != nil {
			d.problem("ratings: %v", err)
			ratings = nil
		}
	} else {
		d.problem("ratings: missing")
	}

	entries := make(map[string]review.Entry, len(records))
	known := make(map[string]bool, len(records))
	for _, rec := range records {
		id := rec.Identity()
		known[id] = true
		entry := review.Entry{Disposition: review.DispositionPending}

		rawFields, ok := ratings[id]
		if !ok && d.version == 0 {
			// Legacy files key ratings by the raw filename, blank included.
			if rawFields, ok = ratings[rec.Filename]; ok {
				known[rec.Filename] = true
			}
		}
		if !ok {
			d.problem("ratings: no entry for paper %q", id)
		}
		var fields map[string]json.RawMessage
		if ok && !isNull(rawFields) {
			if err := json.Unmarshal(rawFields, &fields); err != nil {
				d.problem("ratings[%q]: %v", id, err)
			}
		}
		present := make(map[research.Field]bool, len(fields))
		for _, key := range sortedKeys(fields) {
			f, ok := research.FieldByKey(key)
			if !ok {
				if d.version == 0 && research.IsBibliographicKey(key) {
					continue
				}
				d.problem("ratings[%q]: unknown field %q", id, key)
				continue
			}
			present[f] = true
			if r, ok := d.readRating(id, key, fields[key]); ok {
				entry.Ratings[f] = r
			}
		}
		if d.version >= 1 && ok {
			for _, f := range research.Fields() {
				if !present[f] {
					d.problem("ratings[%q]: missing field %q", id, f.Key())
				}
			}
		}
		entries[id] = entry
	}

	for _, id := range sortedKeys(ratings) {
		if !known[id] {
			d.problem("ratings: entry %q matches no paper", id)
		}
	}
	return entries
}

func (d *decoder) readRating(id, key string, raw json.RawMessage) (review.Rating, bool) {
	if isNull(raw) {
		return review.Rating{}, false
	}
	var w wireRating
	if err := json.Unmarshal(raw, &w); err != nil {
		d.problem("ratings[%q][%q]: %v", id, key, err)
		return review.Rating{}, false
	}
	if w.Rating == nil || w.Timestamp == nil {
		d.problem("ratings[%q][%q]: rating and timestamp are required", id, key)
		return review.Rating{}, false
	}
	if !review.ValidRating(*w.Rating) {
		d.problem("ratings[%q][%q]: rating %d outside [%d,%d]", id, key, *w.Rating, review.MinRating, review.MaxRating)
		return review.Rating{}, false
	}
	return review.Rating{Value: *w.Rating, ObservedAt: fromMillis(*w.Timestamp)}, true
}

func (d *decoder) readDispositions(records []research.Record, entries map[string]review.Entry) {
	raw, ok := d.raw["dispositions"]
	if !ok || isNull(raw) {
		return
	}
	var items map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		d.problem("dispositions: %v", err)
		return
	}
	for _, id := range sortedKeys(items) {
		entry, known := entries[id]
		if !known {
			d.problem("dispositions: entry %q matches no paper", id)
			continue
		}
		var w wireDisposition
		if err := json.Unmarshal(items[id], &w); err != nil {
			d.problem("dispositions[%q]: %v", id, err)
			continue
		}
		status, err := review.ParseDisposition(w.Status)
		if err != nil {
			d.problem("dispositions[%q]: %v", id, err)
			continue
		}
		entry.Disposition = status
		entry.Notes = w.Notes
		entry.ReviewedAt = fromMillis(w.ReviewedAt)
		entries[id] = entry
	}
}

// readCursor returns the 0-based cursor index.
func (d *decoder) readCursor(records []research.Record) int {
	n := len(records)

	var total int
	if d.readInt("totalPapers", &total) && total != n {
		d.problem("totalPapers is %d but %d papers are stored", total, n)
	}

	var number int
	hasNumber := d.readInt("currentPaperNumber", &number)
	currentID, hasCurrent := d.currentIdentity()

	if d.lenient {
		switch {
		case hasNumber && number >= 1 && number <= n:
			return number - 1
		case hasCurrent:
			for i, rec := range records {
				if rec.Identity() == currentID {
					return i
				}
			}
		}
		return 0
	}

	idx := 0
	switch {
	case n == 0:
		if number != 0 {
			d.problem("currentPaperNumber is %d but there are no papers", number)
		}
	case number == 0 && d.version == 0:
		// Legacy files kept 0 until the first navigation.
	case number < 1 || number > n:
		d.problem("currentPaperNumber %d outside [1,%d]", number, n)
	default:
		idx = number - 1
	}
	if d.version == 0 {
		return idx
	}

	var next, prev bool
	d.readBool("canGoToNext", &next)
	d.readBool("canGoToPrevious", &prev)
	if want := n > 0 && idx < n-1; next != want {
		d.problem("canGoToNext is %t, want %t", next, want)
	}
	if want := n > 0 && idx > 0; prev != want {
		d.problem("canGoToPrevious is %t, want %t", prev, want)
	}
	switch {
	case n == 0 && hasCurrent:
		d.problem("currentPaper set but there are no papers")
	case n > 0 && !hasCurrent:
		d.problem("currentPaper missing")
	case n > 0 && currentID != records[idx].Identity():
		d.problem("currentPaper %q does not match paper %d (%q)", currentID, idx+1, records[idx].Identity())
	}
	return idx
}

func (d *decoder) currentIdentity() (string, bool) {
	raw, ok := d.raw["currentPaper"]
	if !ok || isNull(raw) {
		return "", false
	}
	var rec research.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		d.problem("currentPaper: %v", err)
		return "", false
	}
	return rec.Identity(), true
}

func (d *decoder) readInt(key string, out *int) bool {
	raw, ok := d.raw[key]
	if !ok || isNull(raw) {
		d.problem("%s: missing", key)
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		d.problem("%s: %v", key, err)
		return false
	}
	return true
}

func (d *decoder) readBool(key string, out *bool) {
	raw, ok := d.raw[key]
	if !ok || isNull(raw) {
		d.problem("%s: missing", key)
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		d.problem("%s: %v", key, err)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
