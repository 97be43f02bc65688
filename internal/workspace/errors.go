package workspace

import "errors"

var (
	// ErrLoad reports that a session file or spreadsheet could not be read.
	ErrLoad = errors.New("load failed")
	// ErrSave reports that a session or export could not be written.
	ErrSave = errors.New("save failed")
	// ErrEmptySession reports an export or save of a session without records.
	ErrEmptySession = errors.New("session has no records")
)
