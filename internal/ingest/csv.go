package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/text/unicode/norm"

	"auxl/internal/logging"
	"auxl/internal/research"
)

const (
	bibliographicColumns = 8
	valueOffset          = bibliographicColumns
	evidenceOffset       = valueOffset + research.FieldCount
	// ColumnCount is the width of a complete spreadsheet row.
	ColumnCount = evidenceOffset + 3*research.FieldCount

	cancelCheckInterval = 256
)

// Result is the outcome of a successful parse.
type Result struct {
	Records []research.Record
	// Source is the spreadsheet path.
	Source string
	// ShortRows counts rows that had fewer than ColumnCount columns.
	ShortRows int
}

// TotalCount returns the number of parsed records.
func (r Result) TotalCount() int { return len(r.Records) }

// Parser turns a spreadsheet path into records.
type Parser interface {
	Parse(ctx context.Context, path string) (Result, error)
}

// CSVParser reads the column layout described in the package documentation.
type CSVParser struct {
	logger *slog.Logger
}

// NewCSVParser returns a CSV parser. A nil logger discards output.
func NewCSVParser(logger *slog.Logger) *CSVParser {
	return &CSVParser{logger: logging.NewComponentLogger(logger, "ingest")}
}

// Parse opens path and reads every data row.
func (p *CSVParser) Parse(ctx context.Context, path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, &Error{Path: path, Err: fmt.Errorf("open file: %w", err)}
	}
	defer file.Close()

	result, err := ParseReader(ctx, file)
	if err != nil {
		var ie *Error
		if errors.As(err, &ie) {
			ie.Path = path
			return Result{}, ie
		}
		return Result{}, err
	}
	result.Source = path

	attrs := []logging.Attr{
		logging.String(logging.FieldSourcePath, path),
		logging.Int("records", result.TotalCount()),
	}
	if result.ShortRows > 0 {
		logging.WarnWithContext(p.logger, "spreadsheet rows missing columns", "ingest_short_rows",
			append(attrs,
				logging.Int("short_rows", result.ShortRows),
				logging.String(logging.FieldErrorHint, fmt.Sprintf("expected %d columns per row", ColumnCount)),
				logging.String(logging.FieldImpact, "missing cells were read as empty values"),
			)...,
		)
	} else {
		p.logger.Info("spreadsheet parsed", logging.Args(attrs...)...)
	}
	return result, nil
}

// ParseReader reads CSV content. The first row is treated as a header and
// skipped. Context cancellation is honoured between rows.
func ParseReader(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	// Extraction text carries inch marks and stray quotes in unquoted cells.
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	var result Result
	header := true
	for row := 0; ; row++ {
		if row%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, &Error{Err: err}
			}
		}
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return Result{}, &Error{Line: line, Err: fmt.Errorf("read CSV record: %w", err)}
		}
		if header {
			header = false
			continue
		}
		if len(fields) < ColumnCount {
			result.ShortRows++
		}
		result.Records = append(result.Records, RecordFromRow(fields))
	}
	return result, nil
}

// RecordFromRow maps one spreadsheet row onto a record. Missing columns are
// empty strings and extra columns are ignored.
func RecordFromRow(fields []string) research.Record {
	get := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return normalize(fields[i])
	}

	rec := research.Record{
		Title:         get(0),
		Authors:       get(1),
		DOI:           get(2),
		DOILink:       get(3),
		Venue:         get(4),
		CitationCount: get(5),
		Year:          get(6),
		Filename:      get(7),
	}
	for _, f := range research.Fields() {
		rec.SetValue(f, get(valueOffset+int(f)))
		base := evidenceOffset + 3*int(f)
		rec.SetEvidence(f, research.EvidenceSet{
			Quotes:    get(base),
			Tables:    get(base + 1),
			Reasoning: get(base + 2),
		})
	}
	return rec
}

func normalize(value string) string {
	if value == "" {
		return value
	}
	return norm.NFC.String(value)
}
