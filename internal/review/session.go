package review

import (
	"auxl/internal/research"
)

// State is the persistence state of a session.
type State int

const (
	// StateUnbound means no backing file is known.
	StateUnbound State = iota
	// StateBoundClean means memory matches the backing file.
	StateBoundClean
	// StateBoundDirty means memory has changed since the last save or load.
	StateBoundDirty
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBoundClean:
		return "saved"
	case StateBoundDirty:
		return "modified"
	default:
		return "unknown"
	}
}

// Snapshot is the persisted tuple of a session.
type Snapshot struct {
	Records []research.Record
	Entries map[string]Entry
	// Cursor is the 0-based index of the record under review.
	Cursor int
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the clock used to stamp ratings.
func WithClock(clock Clock) Option {
	return func(s *Session) {
		s.ledger = NewLedger(clock)
		s.clock = clock
	}
}

// WithPolicy selects how Progress counts reviewed records.
func WithPolicy(policy ProgressPolicy) Option {
	return func(s *Session) {
		s.policy = policy
	}
}

// Session owns the catalog, ledger and cursor of one review.
type Session struct {
	catalog *Catalog
	ledger  *Ledger
	cursor  Cursor
	clock   Clock

	path   string
	source string
	dirty  bool
	policy ProgressPolicy
}

// New returns an empty, unbound session.
func New(opts ...Option) *Session {
	s := &Session{
		catalog: &Catalog{},
		ledger:  NewLedger(nil),
		policy:  PolicyFields,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadRecords replaces the catalog with freshly ingested records. The ledger
// is reinitialized, the cursor returns to the first record and the session
// becomes dirty. The backing path is kept. On error nothing changes.
func (s *Session) LoadRecords(records []research.Record, source string) error {
	catalog, err := NewCatalog(records)
	if err != nil {
		return err
	}
	ledger := NewLedger(s.clock)
	ledger.Initialize(records)

	s.catalog = catalog
	s.ledger = ledger
	s.cursor.reset(catalog.Count())
	s.source = source
	s.dirty = true
	return nil
}

// Restore replaces the whole session with a decoded snapshot bound to path.
// Entries missing for a record are created unset and entries for unknown
// identities are dropped. On error nothing changes.
func (s *Session) Restore(snap Snapshot, path string) error {
	catalog, err := NewCatalog(snap.Records)
	if err != nil {
		return err
	}
	entries := make(map[string]Entry, catalog.Count())
	for _, id := range catalog.Identities() {
		e, ok := snap.Entries[id]
		if !ok {
			e = newEntry()
		}
		entries[id] = e
	}
	ledger := NewLedger(s.clock)
	ledger.replace(entries)

	s.catalog = catalog
	s.ledger = ledger
	s.cursor.restore(catalog.Count(), snap.Cursor)
	s.path = path
	s.source = ""
	s.dirty = false
	return nil
}

// Snapshot copies the persisted tuple.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Records: s.catalog.Records(),
		Entries: s.ledger.Entries(),
		Cursor:  s.cursor.Index(),
	}
}

// MarkSaved binds the session to path and clears the dirty flag.
func (s *Session) MarkSaved(path string) {
	s.path = path
	s.dirty = false
}

// Reset empties the session and forgets its binding.
func (s *Session) Reset() {
	s.catalog = &Catalog{}
	s.ledger = NewLedger(s.clock)
	s.cursor.reset(0)
	s.path = ""
	s.source = ""
	s.dirty = false
}

// State returns the persistence state.
func (s *Session) State() State {
	switch {
	case s.path == "":
		return StateUnbound
	case s.dirty:
		return StateBoundDirty
	default:
		return StateBoundClean
	}
}

// HasUnsavedChanges reports whether memory differs from the backing file.
func (s *Session) HasUnsavedChanges() bool { return s.dirty }

// Path returns the backing file, empty while unbound.
func (s *Session) Path() string { return s.path }

// Source returns the spreadsheet the catalog was last ingested from.
func (s *Session) Source() string { return s.source }

// Policy returns the active progress policy.
func (s *Session) Policy() ProgressPolicy { return s.policy }

// Count returns the number of records.
func (s *Session) Count() int { return s.catalog.Count() }

// Records returns a copy of the catalog.
func (s *Session) Records() []research.Record { return s.catalog.Records() }

// Record returns the record at a 0-based index.
func (s *Session) Record(index int) (research.Record, error) { return s.catalog.Get(index) }

// IndexOf returns the position of an identity.
func (s *Session) IndexOf(identity string) (int, bool) { return s.catalog.IndexOf(identity) }

// Rate sets a field rating and marks the session dirty.
func (s *Session) Rate(identity string, field research.Field, value int) error {
	if err := s.ledger.Rate(identity, field, value); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Rating returns the value of a field rating.
func (s *Session) Rating(identity string, field research.Field) (int, bool) {
	return s.ledger.Rating(identity, field)
}

// Lookup returns the full field rating.
func (s *Session) Lookup(identity string, field research.Field) (Rating, bool) {
	return s.ledger.Lookup(identity, field)
}

// Entry returns a copy of a record's ledger entry.
func (s *Session) Entry(identity string) (Entry, bool) { return s.ledger.Entry(identity) }

// SetDisposition records the overall verdict of a record.
func (s *Session) SetDisposition(identity string, d Disposition, notes string) error {
	if err := s.ledger.SetDisposition(identity, d, notes); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// SetNotes replaces a record's notes.
func (s *Session) SetNotes(identity, notes string) error {
	if err := s.ledger.SetNotes(identity, notes); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Cursor returns a copy of the navigation cursor.
func (s *Session) Cursor() Cursor { return s.cursor }

// Current returns the record under the cursor.
func (s *Session) Current() (research.Record, bool) {
	if !s.cursor.Active() {
		return research.Record{}, false
	}
	r, err := s.catalog.Get(s.cursor.Index())
	return r, err == nil
}

func (s *Session) moved(changed bool) bool {
	if changed {
		s.dirty = true
	}
	return changed
}

// MoveTo jumps to a 0-based index; out-of-range indexes are ignored.
func (s *Session) MoveTo(index int) bool { return s.moved(s.cursor.MoveTo(index)) }

// Next advances the cursor.
func (s *Session) Next() bool { return s.moved(s.cursor.Next()) }

// Previous steps the cursor back.
func (s *Session) Previous() bool { return s.moved(s.cursor.Previous()) }

// First jumps to the first record.
func (s *Session) First() bool { return s.moved(s.cursor.First()) }

// Last jumps to the last record.
func (s *Session) Last() bool { return s.moved(s.cursor.Last()) }

// MoveToIdentity jumps to the record with identity. It reports false when the
// identity is unknown or already current.
func (s *Session) MoveToIdentity(identity string) bool {
	i, ok := s.catalog.IndexOf(identity)
	if !ok {
		return false
	}
	return s.MoveTo(i)
}

// Progress aggregates progress under the session policy.
func (s *Session) Progress() Progress {
	return SessionProgress(s.catalog, s.ledger, s.policy)
}

// Completion partitions records by field completeness.
func (s *Session) Completion() Counts { return CompletionCounts(s.catalog, s.ledger) }

// IsRecordComplete reports whether every field of a record is rated.
func (s *Session) IsRecordComplete(identity string) bool {
	return IsRecordComplete(s.ledger, identity)
}

// FieldTally counts rated and unrated fields of a record.
func (s *Session) FieldTally(identity string) Tally { return FieldTally(s.ledger, identity) }

// ReviewedRecords returns complete records in catalog order.
func (s *Session) ReviewedRecords() []research.Record { return ReviewedRecords(s.catalog, s.ledger) }

// UnreviewedRecords returns incomplete records in catalog order.
func (s *Session) UnreviewedRecords() []research.Record {
	return UnreviewedRecords(s.catalog, s.ledger)
}
