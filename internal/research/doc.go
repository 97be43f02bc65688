// Package research defines the research-paper record consumed by the review
// engine and the closed set of reviewable fields a reviewer rates.
//
// Records arrive from spreadsheet ingestion or from a restored session file
// and are never mutated afterwards. Field is an enumeration rather than a
// string so the rest of the code base cannot name a field that does not
// exist; ParseField is the single entry point for user-supplied names.
package research
