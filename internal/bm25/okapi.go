// Package bm25 implements Okapi BM25 relevance scoring over an in-memory corpus.
package bm25

import "math"

// Default Okapi parameters.
const (
	DefaultK1      = 1.5
	DefaultB       = 0.75
	DefaultEpsilon = 0.25
)

// Params tunes term-frequency saturation (K1), length normalization (B) and
// the floor applied to negative idf values (Epsilon × average idf).
type Params struct {
	K1      float64
	B       float64
	Epsilon float64
}

// DefaultParams returns k1=1.5, b=0.75, epsilon=0.25.
func DefaultParams() Params {
	return Params{K1: DefaultK1, B: DefaultB, Epsilon: DefaultEpsilon}
}

// Okapi is an immutable BM25 index over pre-tokenized documents.
type Okapi struct {
	params  Params
	freqs   []map[string]int
	lengths []int
	avgdl   float64
	idf     map[string]float64
}

// New indexes corpus. Each document is a token slice.
func New(corpus [][]string, params Params) *Okapi {
	o := &Okapi{
		params:  params,
		freqs:   make([]map[string]int, len(corpus)),
		lengths: make([]int, len(corpus)),
		idf:     make(map[string]float64),
	}

	nd := make(map[string]int)
	total := 0
	for i, doc := range corpus {
		f := make(map[string]int, len(doc))
		for _, tok := range doc {
			f[tok]++
		}
		for tok := range f {
			nd[tok]++
		}
		o.freqs[i] = f
		o.lengths[i] = len(doc)
		total += len(doc)
	}
	if len(corpus) > 0 {
		o.avgdl = float64(total) / float64(len(corpus))
	}

	o.calcIDF(nd, len(corpus))
	return o
}

// calcIDF uses log((N-n+0.5)/(n+0.5)). Terms present in more than half of the
// corpus go negative and are replaced by Epsilon times the average idf.
func (o *Okapi) calcIDF(nd map[string]int, n int) {
	if len(nd) == 0 {
		return
	}

	var sum float64
	var negative []string
	for word, freq := range nd {
		idf := math.Log(float64(n)-float64(freq)+0.5) - math.Log(float64(freq)+0.5)
		o.idf[word] = idf
		sum += idf
		if idf < 0 {
			negative = append(negative, word)
		}
	}

	floor := o.params.Epsilon * sum / float64(len(nd))
	for _, word := range negative {
		o.idf[word] = floor
	}
}

// Scores returns one score per document for the query tokens. Repeated query
// tokens contribute once per occurrence.
func (o *Okapi) Scores(query []string) []float64 {
	scores := make([]float64, len(o.freqs))
	if o.avgdl == 0 {
		return scores
	}

	k1, b := o.params.K1, o.params.B
	for _, q := range query {
		idf, ok := o.idf[q]
		if !ok {
			continue
		}
		for i, f := range o.freqs {
			tf := float64(f[q])
			if tf == 0 {
				continue
			}
			norm := k1 * (1 - b + b*float64(o.lengths[i])/o.avgdl)
			scores[i] += idf * (tf * (k1 + 1) / (tf + norm))
		}
	}
	return scores
}

// NormalizedMean divides the mean score by the maximum score. A zero maximum
// (no overlap, empty corpus) yields 0. With a one-document corpus the result
// is 1 whenever any query term matches: the ratio rescales, it does not rank.
func NormalizedMean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	maxScore := scores[0]
	for _, s := range scores {
		sum += s
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore == 0 {
		return 0
	}
	return (sum / float64(len(scores))) / maxScore
}
