package ingest

import (
	"errors"
	"fmt"
)

// ErrIngestion marks every failure to turn a spreadsheet into records.
var ErrIngestion = errors.New("spreadsheet ingestion failed")

// Error describes an ingestion failure with enough context to show a user.
type Error struct {
	Path string
	// Line is the 1-based CSV line, or 0 when the failure is not tied to a row.
	Line int
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("read %s line %d: %v", e.Path, e.Line, e.Err)
	case e.Path != "":
		return fmt.Sprintf("read %s: %v", e.Path, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrIngestion.
func (e *Error) Is(target error) bool { return target == ErrIngestion }
