package textutil

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var termSplitPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// minTermLength drops stop-word sized fragments such as "of" and "in".
const minTermLength = 3

// TermVector is a term-frequency vector used for similarity ranking.
type TermVector struct {
	weights map[string]float64
	norm    float64
}

// NewTermVector tokenizes text into a term vector. It returns nil when the
// text yields no usable terms.
func NewTermVector(text string) *TermVector {
	terms := Terms(text)
	if len(terms) == 0 {
		return nil
	}
	weights := make(map[string]float64, len(terms))
	for _, term := range terms {
		weights[term]++
	}
	return newVector(weights)
}

func newVector(weights map[string]float64) *TermVector {
	var sum float64
	for _, w := range weights {
		sum += w * w
	}
	return &TermVector{weights: weights, norm: math.Sqrt(sum)}
}

// Terms lowercases text and splits it on anything that is not a letter or
// digit, keeping terms of at least three runes.
func Terms(text string) []string {
	raw := termSplitPattern.Split(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, term := range raw {
		if len([]rune(term)) < minTermLength {
			continue
		}
		out = append(out, term)
	}
	return out
}

// Len reports the number of distinct terms.
func (v *TermVector) Len() int {
	if v == nil {
		return 0
	}
	return len(v.weights)
}

// Weighted returns a copy scaled by the supplied IDF weights. Terms missing
// from idf keep their raw frequency; terms weighted to zero are dropped.
func (v *TermVector) Weighted(idf map[string]float64) *TermVector {
	if v == nil || len(idf) == 0 {
		return v
	}
	weights := make(map[string]float64, len(v.weights))
	for term, w := range v.weights {
		if factor, ok := idf[term]; ok {
			w *= factor
		}
		if w == 0 {
			continue
		}
		weights[term] = w
	}
	if len(weights) == 0 {
		return nil
	}
	return newVector(weights)
}

// Shared returns the sorted terms present in both vectors.
func Shared(a, b *TermVector) []string {
	if a == nil || b == nil {
		return nil
	}
	var out []string
	for term := range a.weights {
		if _, ok := b.weights[term]; ok {
			out = append(out, term)
		}
	}
	sort.Strings(out)
	return out
}

// Cosine computes the cosine similarity of two vectors, 0 when either is
// nil or empty.
func Cosine(a, b *TermVector) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for term, w := range a.weights {
		if other, ok := b.weights[term]; ok {
			dot += w * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// Corpus accumulates document frequencies for IDF weighting.
type Corpus struct {
	docs    int
	docFreq map[string]int
}

// NewCorpus returns an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{docFreq: make(map[string]int)}
}

// Add counts each distinct term of v once.
func (c *Corpus) Add(v *TermVector) {
	if c == nil || v == nil {
		return
	}
	c.docs++
	for term := range v.weights {
		c.docFreq[term]++
	}
}

// IDF returns log((N+1)/(1+df)) per term, or nil for an empty corpus.
func (c *Corpus) IDF() map[string]float64 {
	if c == nil || c.docs == 0 {
		return nil
	}
	n := float64(c.docs)
	idf := make(map[string]float64, len(c.docFreq))
	for term, df := range c.docFreq {
		idf[term] = math.Log((n + 1) / (1 + float64(df)))
	}
	return idf
}
