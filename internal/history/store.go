package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"auxl/internal/config"
)

// Kind classifies a remembered file.
type Kind string

const (
	KindSession Kind = "session"
	KindSource  Kind = "source"
	KindExport  Kind = "export"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSession, KindSource, KindExport:
		return true
	}
	return false
}

// Entry is one remembered file.
type Entry struct {
	ID        int64
	Path      string
	Kind      Kind
	Total     int
	Reviewed  int
	TouchedAt time.Time
}

// DefaultLimit bounds Recent when callers pass a non-positive limit.
const DefaultLimit = 10

// Store persists recent-file history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the history database under the state directory.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.HistoryPath())
}

// OpenPath opens the history database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Record upserts an entry for path and kind, stamping it with the current time.
func (s *Store) Record(ctx context.Context, kind Kind, path string, total, reviewed int) error {
	if s == nil || s.db == nil {
		return nil
	}
	if !kind.Valid() {
		return fmt.Errorf("unknown history kind %q", kind)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("history path is empty")
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	timestamp := s.now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO recent_files (path, kind, total, reviewed, touched_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(path, kind) DO UPDATE SET
             total = excluded.total,
             reviewed = excluded.reviewed,
             touched_at = excluded.touched_at`,
		path, string(kind), total, reviewed, timestamp,
	)
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. Kinds filters the result
// when non-empty.
func (s *Store) Recent(ctx context.Context, limit int, kinds ...Kind) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `SELECT id, path, kind, total, reviewed, touched_at FROM recent_files`
	args := make([]any, 0, len(kinds)+1)
	if len(kinds) > 0 {
		query += ` WHERE kind IN (` + makePlaceholders(len(kinds)) + `)`
		for _, kind := range kinds {
			args = append(args, string(kind))
		}
	}
	query += ` ORDER BY touched_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry   Entry
			kind    string
			touched string
		)
		if err := rows.Scan(&entry.ID, &entry.Path, &kind, &entry.Total, &entry.Reviewed, &touched); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entry.Kind = Kind(kind)
		if parsed, err := time.Parse(time.RFC3339Nano, touched); err == nil {
			entry.TouchedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// LastDir returns the directory of the newest entry of the given kinds, or an
// empty string when there is none.
func (s *Store) LastDir(ctx context.Context, kinds ...Kind) (string, error) {
	entries, err := s.Recent(ctx, 1, kinds...)
	if err != nil || len(entries) == 0 {
		return "", err
	}
	return filepath.Dir(entries[0].Path), nil
}

// Prune keeps the newest keep entries and deletes the rest.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM recent_files WHERE id NOT IN (
            SELECT id FROM recent_files ORDER BY touched_at DESC, id DESC LIMIT ?
        )`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all entries.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM recent_files`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}
