package review

import "errors"

var (
	// ErrOutOfRange reports a catalog index outside [0, count).
	ErrOutOfRange = errors.New("index out of range")
	// ErrInvalidRating reports a rating value outside [MinRating, MaxRating].
	ErrInvalidRating = errors.New("invalid rating")
	// ErrUnknownRecord reports an identity that has no ledger entry.
	ErrUnknownRecord = errors.New("unknown record")
	// ErrDuplicateRecord reports two records sharing one identity in a load.
	ErrDuplicateRecord = errors.New("duplicate record identity")
	// ErrInvalidDisposition reports a disposition outside the known set.
	ErrInvalidDisposition = errors.New("invalid disposition")
)
