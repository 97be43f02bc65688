// Package export renders review ratings as a spreadsheet for analysis
// outside auxl.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"auxl/internal/research"
	"auxl/internal/review"
)

// DefaultFileName is suggested when no better export name is known.
const DefaultFileName = "review-export.csv"

// Options tunes the exported columns.
type Options struct {
	// IncludeDisposition appends the overall verdict and notes columns.
	IncludeDisposition bool
}

// Header returns the column titles of an export.
func Header(opts Options) []string {
	header := make([]string, 0, 1+research.FieldCount+2)
	header = append(header, "filename")
	for _, f := range research.Fields() {
		header = append(header, f.ExportLabel())
	}
	if opts.IncludeDisposition {
		header = append(header, "Disposition", "Notes")
	}
	return header
}

// Write emits one row per record in catalog order. Unrated fields are 0.
func Write(w io.Writer, snap review.Snapshot, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(opts)); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, rec := range snap.Records {
		entry := snap.Entries[rec.Identity()]
		row := make([]string, 0, 1+research.FieldCount+2)
		row = append(row, rec.Identity())
		for _, f := range research.Fields() {
			row = append(row, strconv.Itoa(entry.Ratings[f].Value))
		}
		if opts.IncludeDisposition {
			status := entry.Disposition
			if status == "" {
				status = review.DispositionPending
			}
			row = append(row, string(status), entry.Notes)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write export row %q: %w", rec.Identity(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

// Render returns the export as a string ready for a TextStore.
func Render(snap review.Snapshot, opts Options) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, snap, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}
