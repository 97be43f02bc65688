package sessionfile

import (
	"encoding/json"
	"fmt"

	"auxl/internal/research"
	"auxl/internal/review"
)

// Encode serializes a session snapshot as a version 1 envelope.
func Encode(snap review.Snapshot) ([]byte, error) {
	n := len(snap.Records)
	env := envelope{
		Version:     Version,
		Papers:      make([]research.Record, 0, n),
		Ratings:     make(map[string]map[string]*wireRating, n),
		TotalPapers: n,
	}
	for _, rec := range snap.Records {
		env.Papers = append(env.Papers, rec)
		id := rec.Identity()
		entry := snap.Entries[id]

		fields := make(map[string]*wireRating, research.FieldCount)
		for _, f := range research.Fields() {
			r := entry.Ratings[f]
			if !r.IsSet() {
				fields[f.Key()] = nil
				continue
			}
			value := r.Value
			ts := toMillis(r.ObservedAt)
			fields[f.Key()] = &wireRating{Rating: &value, Timestamp: &ts}
		}
		env.Ratings[id] = fields

		if entry.Annotated() {
			if env.Dispositions == nil {
				env.Dispositions = map[string]wireDisposition{}
			}
			status := entry.Disposition
			if status == "" {
				status = review.DispositionPending
			}
			env.Dispositions[id] = wireDisposition{
				Status:     string(status),
				Notes:      entry.Notes,
				ReviewedAt: toMillis(entry.ReviewedAt),
			}
		}
	}

	if n > 0 {
		idx := snap.Cursor
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("encode session: cursor %d outside %d papers", idx, n)
		}
		current := snap.Records[idx]
		env.CurrentPaper = &current
		env.CurrentPaperNumber = idx + 1
		env.CanGoToNext = idx < n-1
		env.CanGoToPrevious = idx > 0
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}
