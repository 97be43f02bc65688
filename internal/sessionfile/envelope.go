package sessionfile

import (
	"encoding/json"
	"time"

	"auxl/internal/research"
)

// Version is the envelope version written by Encode.
const Version = 1

// Extension is the file extension of session files, without the dot.
const Extension = "auxl"

type envelope struct {
	Version            int                               `json:"version"`
	Papers             []research.Record                 `json:"papers"`
	Ratings            map[string]map[string]*wireRating `json:"ratings"`
	CurrentPaper       *research.Record                  `json:"currentPaper"`
	CurrentPaperNumber int                               `json:"currentPaperNumber"`
	TotalPapers        int                               `json:"totalPapers"`
	CanGoToNext        bool                              `json:"canGoToNext"`
	CanGoToPrevious    bool                              `json:"canGoToPrevious"`
	Dispositions       map[string]wireDisposition        `json:"dispositions,omitempty"`
}

type wireRating struct {
	Rating    *int   `json:"rating"`
	Timestamp *int64 `json:"timestamp"`
}

type wireDisposition struct {
	Status     string `json:"status"`
	Notes      string `json:"notes,omitempty"`
	ReviewedAt int64  `json:"reviewedAt,omitempty"`
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// isNull reports whether a raw value is absent or JSON null.
func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
