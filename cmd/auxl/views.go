package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"auxl/internal/research"
	"auxl/internal/review"
)

type statusView struct {
	Path       string  `json:"path"`
	State      string  `json:"state"`
	Policy     string  `json:"policy"`
	Papers     int     `json:"papers"`
	Reviewed   int     `json:"reviewed"`
	Percentage float64 `json:"percentage"`
	Complete   int     `json:"complete"`
	Incomplete int     `json:"incomplete"`
	Position   int     `json:"position"`
	Current    string  `json:"current,omitempty"`
	CanNext    bool    `json:"canGoToNext"`
	CanPrev    bool    `json:"canGoToPrevious"`
}

func buildStatusView(s *review.Session) statusView {
	progress := s.Progress()
	counts := s.Completion()
	cursor := s.Cursor()
	view := statusView{
		Path:       s.Path(),
		State:      s.State().String(),
		Policy:     string(s.Policy()),
		Papers:     progress.Total,
		Reviewed:   progress.Reviewed,
		Percentage: progress.Percentage,
		Complete:   counts.Complete,
		Incomplete: counts.Incomplete,
		Position:   cursor.Position(),
		CanNext:    cursor.CanAdvance(),
		CanPrev:    cursor.CanRetreat(),
	}
	if current, ok := s.Current(); ok {
		view.Current = current.Identity()
	}
	return view
}

func renderStatus(v statusView) string {
	current := v.Current
	if current == "" {
		current = "-"
	}
	return renderKeyValues([][2]string{
		{"Session", v.Path},
		{"State", v.State},
		{"Progress", fmt.Sprintf("%d/%d reviewed (%s)", v.Reviewed, v.Papers, formatPercent(v.Percentage))},
		{"Complete", strconv.Itoa(v.Complete)},
		{"Incomplete", strconv.Itoa(v.Incomplete)},
		{"Policy", v.Policy},
		{"Position", fmt.Sprintf("%d of %d", v.Position, v.Papers)},
		{"Current", current},
		{"Can advance", yesNo(v.CanNext)},
		{"Can retreat", yesNo(v.CanPrev)},
	})
}

type fieldView struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Rating  int    `json:"rating,omitempty"`
	RatedAt string `json:"ratedAt,omitempty"`
}

type recordView struct {
	Position    int         `json:"position"`
	Identity    string      `json:"identity"`
	Title       string      `json:"title"`
	Authors     string      `json:"authors"`
	Year        string      `json:"year"`
	Venue       string      `json:"venue"`
	DOI         string      `json:"doi"`
	Disposition string      `json:"disposition"`
	Notes       string      `json:"notes,omitempty"`
	Rated       int         `json:"rated"`
	Fields      []fieldView `json:"fields"`
}

func buildRecordView(s *review.Session, index int) (recordView, error) {
	record, err := s.Record(index)
	if err != nil {
		return recordView{}, err
	}
	id := record.Identity()
	entry, _ := s.Entry(id)
	view := recordView{
		Position:    index + 1,
		Identity:    id,
		Title:       record.Title,
		Authors:     record.Authors,
		Year:        record.Year,
		Venue:       record.Venue,
		DOI:         record.DOI,
		Disposition: string(entry.Disposition),
		Notes:       entry.Notes,
		Rated:       entry.RatedCount(),
	}
	for _, f := range research.Fields() {
		fv := fieldView{Key: f.Key(), Label: f.Label(), Value: record.Value(f)}
		if rating, ok := s.Lookup(id, f); ok {
			fv.Rating = rating.Value
			fv.RatedAt = rating.ObservedAt.Format(time.RFC3339)
		}
		view.Fields = append(view.Fields, fv)
	}
	return view, nil
}

func renderRecord(v recordView) string {
	var b strings.Builder
	b.WriteString(renderKeyValues([][2]string{
		{"Paper", fmt.Sprintf("#%d %s", v.Position, v.Identity)},
		{"Title", v.Title},
		{"Authors", v.Authors},
		{"Year", v.Year},
		{"Venue", v.Venue},
		{"DOI", v.DOI},
		{"Disposition", v.Disposition},
		{"Notes", v.Notes},
		{"Rated", fmt.Sprintf("%d/%d fields", v.Rated, research.FieldCount)},
	}))
	b.WriteString("\n")

	rows := make([][]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		rows = append(rows, []string{f.Label, truncate(f.Value, 60), ratingText(f.Rating)})
	}
	b.WriteString(renderTable([]string{"Field", "Extracted value", "Rating"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
	return b.String()
}

type listRow struct {
	Position    int    `json:"position"`
	Identity    string `json:"identity"`
	Title       string `json:"title"`
	Rated       int    `json:"rated"`
	Complete    bool   `json:"complete"`
	Disposition string `json:"disposition"`
	Current     bool   `json:"current"`
}

func buildListRows(s *review.Session, filter string) ([]listRow, error) {
	include := map[string]bool{}
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "", "all":
	case "reviewed":
		for _, r := range s.ReviewedRecords() {
			include[r.Identity()] = true
		}
	case "unreviewed":
		for _, r := range s.UnreviewedRecords() {
			include[r.Identity()] = true
		}
	default:
		return nil, fmt.Errorf("unknown filter %q (want all, reviewed or unreviewed)", filter)
	}
	all := filter == "" || strings.EqualFold(strings.TrimSpace(filter), "all")

	current := s.Cursor().Index()
	var rows []listRow
	for i, r := range s.Records() {
		id := r.Identity()
		if !all && !include[id] {
			continue
		}
		entry, _ := s.Entry(id)
		rows = append(rows, listRow{
			Position:    i + 1,
			Identity:    id,
			Title:       r.Title,
			Rated:       entry.RatedCount(),
			Complete:    entry.Complete(),
			Disposition: string(entry.Disposition),
			Current:     s.Count() > 0 && i == current,
		})
	}
	return rows, nil
}

func renderList(rows []listRow) string {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		marker := ""
		if r.Current {
			marker = "▶"
		}
		table = append(table, []string{
			marker,
			strconv.Itoa(r.Position),
			r.Identity,
			truncate(r.Title, 50),
			fmt.Sprintf("%d/%d", r.Rated, research.FieldCount),
			r.Disposition,
		})
	}
	return renderTable(
		[]string{"", "#", "Paper", "Title", "Rated", "Disposition"},
		table,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func ratingText(value int) string {
	if value == 0 {
		return "-"
	}
	return strconv.Itoa(value)
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64) + "%"
}

func truncate(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
