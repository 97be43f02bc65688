package review

import (
	"fmt"
	"strings"

	"auxl/internal/research"
)

// ProgressPolicy selects what counts as a reviewed record.
type ProgressPolicy string

const (
	// PolicyFields counts records with every field rated.
	PolicyFields ProgressPolicy = "fields"
	// PolicyDisposition counts records with a non-pending disposition.
	PolicyDisposition ProgressPolicy = "disposition"
)

// ParseProgressPolicy maps a config value to a policy. Empty selects
// PolicyFields.
func ParseProgressPolicy(value string) (ProgressPolicy, error) {
	switch ProgressPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicyFields:
		return PolicyFields, nil
	case PolicyDisposition:
		return PolicyDisposition, nil
	default:
		return "", fmt.Errorf("unknown progress policy %q (want %q or %q)", value, PolicyFields, PolicyDisposition)
	}
}

// Progress summarises how much of a session has been reviewed.
type Progress struct {
	Reviewed   int
	Total      int
	Percentage float64
}

// Counts partitions records by field completeness.
type Counts struct {
	Complete   int
	Incomplete int
}

// Tally counts rated and unrated fields of one record.
type Tally struct {
	Rated   int
	Unrated int
}

// IsRecordComplete reports whether every field of the record is rated.
// Unknown identities are incomplete.
func IsRecordComplete(l *Ledger, identity string) bool {
	e, ok := l.Entry(identity)
	return ok && e.Complete()
}

// CompletionCounts partitions the catalog into complete and incomplete
// records.
func CompletionCounts(c *Catalog, l *Ledger) Counts {
	var out Counts
	for _, id := range c.Identities() {
		if IsRecordComplete(l, id) {
			out.Complete++
		} else {
			out.Incomplete++
		}
	}
	return out
}

// ReviewedRecords returns the complete records in catalog order.
func ReviewedRecords(c *Catalog, l *Ledger) []research.Record {
	return partition(c, l, true)
}

// UnreviewedRecords returns the incomplete records in catalog order.
func UnreviewedRecords(c *Catalog, l *Ledger) []research.Record {
	return partition(c, l, false)
}

func partition(c *Catalog, l *Ledger, complete bool) []research.Record {
	var out []research.Record
	for _, r := range c.Records() {
		if IsRecordComplete(l, r.Identity()) == complete {
			out = append(out, r)
		}
	}
	return out
}

// FieldTally counts rated and unrated fields of a record. Unknown identities
// report every field unrated.
func FieldTally(l *Ledger, identity string) Tally {
	e, _ := l.Entry(identity)
	rated := e.RatedCount()
	return Tally{Rated: rated, Unrated: research.FieldCount - rated}
}

// SessionProgress aggregates progress under policy.
func SessionProgress(c *Catalog, l *Ledger, policy ProgressPolicy) Progress {
	out := Progress{Total: c.Count()}
	for _, id := range c.Identities() {
		e, ok := l.Entry(id)
		if !ok {
			continue
		}
		switch policy {
		case PolicyDisposition:
			if e.Judged() {
				out.Reviewed++
			}
		default:
			if e.Complete() {
				out.Reviewed++
			}
		}
	}
	if out.Total > 0 {
		out.Percentage = float64(out.Reviewed) / float64(out.Total) * 100
	}
	return out
}
