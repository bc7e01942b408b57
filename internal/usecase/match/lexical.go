package match

import "github.com/kailas-cloud/resumatch/internal/lexical"

// similarityVectorizer only keeps terms present in both documents (min df 2 of 2).
var similarityVectorizer = lexical.NewVectorizer(lexical.Config{
	NgramMin:    1,
	NgramMax:    3,
	StopWords:   lexical.EnglishStopWords,
	MinDF:       2,
	MaxFeatures: 10000,
})

// LexicalSimilarity is the TF-IDF cosine of the pair. No shared term means 0.
func LexicalSimilarity(resume, job string) float64 {
	m := similarityVectorizer.Fit([]string{resume, job})
	if m.Empty() {
		return 0
	}
	return clamp01(lexical.Cosine(m.Row(0), m.Row(1)))
}

// clamp01 absorbs floating error around the [0,1] bounds of non-negative cosines.
func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
