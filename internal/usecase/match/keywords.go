package match

import "github.com/kailas-cloud/resumatch/internal/lexical"

// keywordVectorizer counts every term, even ones seen in a single document.
var keywordVectorizer = lexical.NewVectorizer(lexical.Config{
	NgramMin:    1,
	NgramMax:    2,
	StopWords:   lexical.EnglishStopWords,
	MinDF:       1,
	MaxFeatures: 5000,
})

// KeywordOverlap is the share of top-K job keywords found in the resume.
type KeywordOverlap struct {
	Score   float64
	Matched []string
	Missing []string
}

// KeywordOverlapScore fits a vector space on {job, resume}, takes the topK
// heaviest terms of the job row and counts those that equal a whitespace
// token of the resume. Two-word terms therefore never match. Ties between
// equal weights resolve in lexical order. The ratio is hits/topK even when
// the vocabulary holds fewer than topK terms.
func KeywordOverlapScore(resume, job string, topK int) KeywordOverlap {
	if topK <= 0 {
		return KeywordOverlap{}
	}

	m := keywordVectorizer.Fit([]string{job, resume})
	top := m.TopTerms(0, topK)
	tokens := lexical.FieldSet(resume)

	out := KeywordOverlap{}
	for _, term := range top {
		if _, ok := tokens[term]; ok {
			out.Matched = append(out.Matched, term)
		} else {
			out.Missing = append(out.Missing, term)
		}
	}
	out.Score = float64(len(out.Matched)) / float64(topK)
	return out
}
