package sessionfile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCorruptSessionFile reports content that cannot be restored as a session.
var ErrCorruptSessionFile = errors.New("corrupt session file")

// CorruptError lists the problems that made a document unusable.
type CorruptError struct {
	Problems []string
}

func (e *CorruptError) Error() string {
	switch len(e.Problems) {
	case 0:
		return ErrCorruptSessionFile.Error()
	case 1:
		return fmt.Sprintf("%s: %s", ErrCorruptSessionFile, e.Problems[0])
	}
	var sb strings.Builder
	sb.WriteString(ErrCorruptSessionFile.Error())
	fmt.Fprintf(&sb, " (%d problems):", len(e.Problems))
	for i, p := range e.Problems {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, p)
	}
	return sb.String()
}

func (e *CorruptError) Unwrap() error {
	return ErrCorruptSessionFile
}

func corrupt(format string, args ...any) error {
	return &CorruptError{Problems: []string{fmt.Sprintf(format, args...)}}
}
