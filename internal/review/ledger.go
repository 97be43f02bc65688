package review

import (
	"fmt"
	"strings"
	"time"

	"auxl/internal/research"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating is one reviewer judgement of a field. The zero value means unset.
type Rating struct {
	Value      int
	ObservedAt time.Time
}

// IsSet reports whether the rating carries a value.
func (r Rating) IsSet() bool {
	return r.Value != 0
}

// ValidRating reports whether value is inside the accepted scale.
func ValidRating(value int) bool {
	return value >= MinRating && value <= MaxRating
}

// Disposition is the overall verdict on a record.
type Disposition string

const (
	DispositionPending   Disposition = "pending"
	DispositionCorrect   Disposition = "correct"
	DispositionIncorrect Disposition = "incorrect"
)

// ParseDisposition accepts the disposition names case-insensitively. An empty
// string maps to pending.
func ParseDisposition(value string) (Disposition, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(DispositionPending):
		return DispositionPending, nil
	case string(DispositionCorrect):
		return DispositionCorrect, nil
	case string(DispositionIncorrect):
		return DispositionIncorrect, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDisposition, value)
	}
}

// Valid reports whether d is a known disposition.
func (d Disposition) Valid() bool {
	switch d {
	case DispositionPending, DispositionCorrect, DispositionIncorrect:
		return true
	}
	return false
}

// Entry is the ledger state of one record.
type Entry struct {
	Ratings     [research.FieldCount]Rating
	Disposition Disposition
	Notes       string
	ReviewedAt  time.Time
}

func newEntry() Entry {
	return Entry{Disposition: DispositionPending}
}

// RatedCount returns how many fields carry a rating.
func (e Entry) RatedCount() int {
	n := 0
	for _, r := range e.Ratings {
		if r.IsSet() {
			n++
		}
	}
	return n
}

// Complete reports whether every reviewable field is rated.
func (e Entry) Complete() bool {
	return e.RatedCount() == research.FieldCount
}

// Judged reports whether the entry carries a non-pending disposition.
func (e Entry) Judged() bool {
	return e.Disposition != "" && e.Disposition != DispositionPending
}

// Annotated reports whether the entry differs from a fresh pending entry in
// its disposition or notes.
func (e Entry) Annotated() bool {
	return e.Judged() || e.Notes != "" || !e.ReviewedAt.IsZero()
}

// Clock returns the current time.
type Clock func() time.Time

// Ledger maps record identity to per-field ratings.
type Ledger struct {
	entries map[string]*Entry
	clock   Clock
}

// NewLedger returns an empty ledger. A nil clock uses time.Now.
func NewLedger(clock Clock) *Ledger {
	if clock == nil {
		clock = time.Now
	}
	return &Ledger{entries: map[string]*Entry{}, clock: clock}
}

// Initialize discards every entry and creates one unset entry per record.
func (l *Ledger) Initialize(records []research.Record) {
	entries := make(map[string]*Entry, len(records))
	for _, r := range records {
		e := newEntry()
		entries[r.Identity()] = &e
	}
	l.entries = entries
}

// replace installs prebuilt entries. Callers guarantee one entry per record.
func (l *Ledger) replace(entries map[string]Entry) {
	next := make(map[string]*Entry, len(entries))
	for id, e := range entries {
		if !e.Disposition.Valid() {
			e.Disposition = DispositionPending
		}
		next[id] = &e
	}
	l.entries = next
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

func (l *Ledger) now() time.Time {
	return l.clock().UTC().Truncate(time.Millisecond)
}

// Rate records value for field on the identified record, replacing any prior
// rating. Nothing changes when it returns an error.
func (l *Ledger) Rate(identity string, field research.Field, value int) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %d", research.ErrUnknownField, int(field))
	}
	if !ValidRating(value) {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidRating, value, MinRating, MaxRating)
	}
	e, ok := l.entries[identity]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRecord, identity)
	}
	e.Ratings[field] = Rating{Value: value, ObservedAt: l.now()}
	return nil
}

// Rating returns the rating value of a field, or false when unset or unknown.
func (l *Ledger) Rating(identity string, field research.Field) (int, bool) {
	r, ok := l.Lookup(identity, field)
	if !ok {
		return 0, false
	}
	return r.Value, true
}

// Lookup returns the full rating of a field, or false when unset or unknown.
func (l *Ledger) Lookup(identity string, field research.Field) (Rating, bool) {
	if !field.Valid() {
		return Rating{}, false
	}
	e, ok := l.entries[identity]
	if !ok || !e.Ratings[field].IsSet() {
		return Rating{}, false
	}
	return e.Ratings[field], true
}

// Entry returns a copy of the ledger entry of a record.
func (l *Ledger) Entry(identity string) (Entry, bool) {
	e, ok := l.entries[identity]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Entries returns a copy of every entry keyed by identity.
func (l *Ledger) Entries() map[string]Entry {
	out := make(map[string]Entry, len(l.entries))
	for id, e := range l.entries {
		out[id] = *e
	}
	return out
}

// SetDisposition records the overall verdict and notes for a record.
func (l *Ledger) SetDisposition(identity string, d Disposition, notes string) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDisposition, string(d))
	}
	e, ok := l.entries[identity]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRecord, identity)
	}
	e.Disposition = d
	e.Notes = notes
	e.ReviewedAt = l.now()
	return nil
}

// SetNotes replaces the free-text notes of a record and stamps ReviewedAt.
func (l *Ledger) SetNotes(identity, notes string) error {
	e, ok := l.entries[identity]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRecord, identity)
	}
	e.Notes = notes
	e.ReviewedAt = l.now()
	return nil
}
