package research

import (
	"sort"
	"strings"

	"auxl/internal/textutil"
)

// Filters narrows a search to records whose attributes match exactly,
// ignoring case and surrounding whitespace. Empty filters match everything.
type Filters struct {
	Category   string
	SensorType string
	Year       string
	Venue      string
	DeviceType string
}

// SearchResult is one ranked match.
type SearchResult struct {
	Record         Record
	Index          int
	MatchedFields  []string
	RelevanceScore float64
}

func (f Filters) match(r Record) bool {
	pairs := [][2]string{
		{f.Category, r.Category},
		{f.SensorType, r.SensorType},
		{f.Year, r.Year},
		{f.Venue, r.Venue},
		{f.DeviceType, r.DeviceType},
	}
	for _, p := range pairs {
		want := strings.TrimSpace(p[0])
		if want != "" && !strings.EqualFold(want, strings.TrimSpace(p[1])) {
			return false
		}
	}
	return true
}

// searchableText returns the named text sections of a record.
func (r Record) searchableText() [][2]string {
	out := [][2]string{
		{"title", r.Title},
		{"authors", r.Authors},
		{"venue", r.Venue},
		{"doi", r.DOI},
		{"filename", r.Filename},
	}
	for _, f := range Fields() {
		out = append(out, [2]string{f.Key(), r.Value(f)})
	}
	return out
}

// Search ranks records against a free-text query after applying filters.
// Scores are cosine similarities of IDF-weighted term vectors, so terms that
// appear in every record contribute nothing. A blank query returns every
// filtered record in catalog order with a zero score.
func Search(records []Record, query string, filters Filters) []SearchResult {
	q := textutil.NewTermVector(query)
	if q == nil {
		var out []SearchResult
		for i, r := range records {
			if filters.match(r) {
				out = append(out, SearchResult{Record: r, Index: i})
			}
		}
		return out
	}

	docs := make([]*textutil.TermVector, len(records))
	corpus := textutil.NewCorpus()
	for i, r := range records {
		var parts []string
		for _, section := range r.searchableText() {
			parts = append(parts, section[1])
		}
		docs[i] = textutil.NewTermVector(strings.Join(parts, " "))
		corpus.Add(docs[i])
	}
	idf := corpus.IDF()
	weightedQuery := q.Weighted(idf)

	var out []SearchResult
	for i, r := range records {
		if !filters.match(r) {
			continue
		}
		var matched []string
		for _, section := range r.searchableText() {
			if len(textutil.Shared(q, textutil.NewTermVector(section[1]))) > 0 {
				matched = append(matched, section[0])
			}
		}
		if len(matched) == 0 {
			continue
		}
		out = append(out, SearchResult{
			Record:         r,
			Index:          i,
			MatchedFields:  matched,
			RelevanceScore: textutil.Cosine(weightedQuery, docs[i].Weighted(idf)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return out
}
