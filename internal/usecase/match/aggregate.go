package match

import "github.com/kailas-cloud/resumatch/internal/domain"

// scorePrecision is the number of decimals kept in returned scores.
const scorePrecision = 4

// Aggregate combines the component scores with w and labels the result.
// Weights are not renormalized.
func Aggregate(lexical, semantic, relevance, keyword float64, w domain.Weights, t domain.Thresholds) domain.Scores {
	final := w.Lexical*lexical +
		w.Semantic*semantic +
		w.Relevance*relevance +
		w.Keyword*keyword

	return domain.Scores{
		Lexical:   lexical,
		Semantic:  semantic,
		Relevance: relevance,
		Keyword:   keyword,
		Final:     final,
		Label:     t.Classify(final),
	}.Round(scorePrecision)
}
