// Package review implements the review session engine: the record catalog,
// the per-field rating ledger, the navigation cursor, progress aggregation and
// the session's persistence state.
//
// A Session owns one Catalog, one Ledger and one Cursor and is the only
// writer of all three. Catalog and ledger are replaced together on every load
// and never merged; progress is always derived on read. The session tracks a
// backing path and a dirty flag so callers can decide between save-in-place,
// save-as and skipping a redundant write.
//
// Session is not safe for concurrent use. Hosts that run actions from more
// than one goroutine must serialize them (see the workspace package).
package review
