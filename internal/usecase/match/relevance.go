package match

import (
	"github.com/kailas-cloud/resumatch/internal/bm25"
	"github.com/kailas-cloud/resumatch/internal/lexical"
)

// RelevanceScore ranks the resume as the only document of a BM25 corpus
// against the job's whitespace tokens and normalizes by the corpus maximum.
// With one document the maximum is the resume's own score, so the result is
// 1 when any job token occurs in the resume and 0 otherwise.
func RelevanceScore(resume, job string) float64 {
	index := bm25.New([][]string{lexical.Fields(resume)}, bm25.DefaultParams())
	return clamp01(bm25.NormalizedMean(index.Scores(lexical.Fields(job))))
}
