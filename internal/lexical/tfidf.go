// Package lexical builds per-call TF-IDF vector spaces over a handful of documents.
//
// Nothing here is cached: every Fit derives its vocabulary from the documents
// it is given, so vectors from different fits are not comparable.
package lexical

import (
	"math"
	"sort"
)

// Config describes a TF-IDF vector space.
type Config struct {
	NgramMin    int
	NgramMax    int
	StopWords   StopSet
	MinDF       int // minimum number of documents a term must occur in
	MaxFeatures int // 0 = unlimited; keeps the most frequent terms corpus-wide
}

// Vectorizer turns a small corpus into L2-normalized TF-IDF rows using
// smoothed idf: ln((1+n)/(1+df)) + 1.
type Vectorizer struct {
	cfg Config
}

// NewVectorizer creates a vectorizer.
func NewVectorizer(cfg Config) *Vectorizer {
	if cfg.NgramMin < 1 {
		cfg.NgramMin = 1
	}
	if cfg.NgramMax < cfg.NgramMin {
		cfg.NgramMax = cfg.NgramMin
	}
	if cfg.MinDF < 1 {
		cfg.MinDF = 1
	}
	return &Vectorizer{cfg: cfg}
}

// Matrix is a dense document-term matrix. Terms are sorted lexically and
// columns follow that order.
type Matrix struct {
	terms []string
	rows  [][]float64
}

// vocabulary returns the terms in column order.
func (m *Matrix) vocabulary() []string { return m.terms }

// Row returns the weights of document i.
func (m *Matrix) Row(i int) []float64 { return m.rows[i] }

// Empty reports whether no term survived filtering.
func (m *Matrix) Empty() bool { return len(m.terms) == 0 }

// Analyze returns the n-gram terms of one document, stopwords removed.
func (v *Vectorizer) Analyze(doc string) []string {
	return NGrams(Tokenize(doc), v.cfg.StopWords, v.cfg.NgramMin, v.cfg.NgramMax)
}

// Fit builds the vocabulary from docs and returns their weighted rows.
// An empty vocabulary yields a matrix with zero columns, never an error.
func (v *Vectorizer) Fit(docs []string) *Matrix {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	total := make(map[string]int)

	for i, doc := range docs {
		c := make(map[string]int)
		for _, g := range v.Analyze(doc) {
			c[g]++
		}
		for term, n := range c {
			df[term]++
			total[term] += n
		}
		counts[i] = c
	}

	terms := make([]string, 0, len(df))
	for term, d := range df {
		if d >= v.cfg.MinDF {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)
	terms = limitFeatures(terms, total, v.cfg.MaxFeatures)

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for j, term := range terms {
		idf[j] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	rows := make([][]float64, len(docs))
	for i, c := range counts {
		row := make([]float64, len(terms))
		for j, term := range terms {
			row[j] = float64(c[term]) * idf[j]
		}
		normalize(row)
		rows[i] = row
	}

	return &Matrix{terms: terms, rows: rows}
}

// limitFeatures keeps the limit most frequent terms; ties keep lexical order.
// The result is re-sorted lexically.
func limitFeatures(terms []string, total map[string]int, limit int) []string {
	if limit <= 0 || len(terms) <= limit {
		return terms
	}
	ranked := make([]string, len(terms))
	copy(ranked, terms)
	sort.SliceStable(ranked, func(i, j int) bool {
		return total[ranked[i]] > total[ranked[j]]
	})
	ranked = ranked[:limit]
	sort.Strings(ranked)
	return ranked
}

func normalize(row []float64) {
	var sum float64
	for _, x := range row {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range row {
		row[i] /= norm
	}
}

// Cosine returns the cosine similarity of two weight rows, 0 when either is
// all zeros or the lengths differ.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// TopTerms returns up to k terms of row i by ascending weight order, keeping
// the k largest. Equal weights keep column order, so the tie-break is lexical.
func (m *Matrix) TopTerms(i, k int) []string {
	if k <= 0 || m.Empty() {
		return nil
	}
	row := m.rows[i]
	idx := make([]int, len(row))
	for j := range idx {
		idx[j] = j
	}
	sort.SliceStable(idx, func(a, b int) bool { return row[idx[a]] < row[idx[b]] })
	if k < len(idx) {
		idx = idx[len(idx)-k:]
	}
	out := make([]string, len(idx))
	for j, col := range idx {
		out[j] = m.terms[col]
	}
	return out
}
