package domain

import (
	"fmt"
	"math"
)

// Label is the categorical verdict for a final score.
type Label string

// Match labels, strongest first.
const (
	LabelStrong   Label = "Strong"
	LabelModerate Label = "Moderate"
	LabelWeak     Label = "Weak"
)

// Weights are the per-signal multipliers of the final score. They are not
// renormalized: a set that does not sum to 1 can push the final score out of [0,1].
type Weights struct {
	Lexical   float64 `json:"lexical" yaml:"lexical"`
	Semantic  float64 `json:"semantic" yaml:"semantic"`
	Relevance float64 `json:"relevance" yaml:"relevance"`
	Keyword   float64 `json:"keyword" yaml:"keyword"`
}

// DefaultWeights returns 0.15/0.50/0.20/0.15.
func DefaultWeights() Weights {
	return Weights{Lexical: 0.15, Semantic: 0.50, Relevance: 0.20, Keyword: 0.15}
}

// Validate rejects negative weights. The sum is intentionally left unchecked.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"lexical": w.Lexical, "semantic": w.Semantic,
		"relevance": w.Relevance, "keyword": w.Keyword,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s must be a non-negative number, got %v: %w", name, v, ErrInvalidRequest)
		}
	}
	return nil
}

// Thresholds are the label cut-offs; Strong must be greater than Moderate.
type Thresholds struct {
	Strong   float64 `json:"strong" yaml:"strong"`
	Moderate float64 `json:"moderate" yaml:"moderate"`
}

// DefaultThresholds returns (0.65, 0.45).
func DefaultThresholds() Thresholds {
	return Thresholds{Strong: 0.65, Moderate: 0.45}
}

// Validate checks the ordering of the cut-offs.
func (t Thresholds) Validate() error {
	if !(t.Strong > t.Moderate) {
		return fmt.Errorf("strong threshold %v must be greater than moderate %v: %w",
			t.Strong, t.Moderate, ErrInvalidRequest)
	}
	return nil
}

// Classify maps a final score to its label. Both cut-offs are inclusive.
func (t Thresholds) Classify(final float64) Label {
	switch {
	case final >= t.Strong:
		return LabelStrong
	case final >= t.Moderate:
		return LabelModerate
	default:
		return LabelWeak
	}
}

// Scores is the outcome of one resume/job comparison.
// Semantic may be negative for unrelated text; the others stay in [0,1].
type Scores struct {
	Lexical   float64 `json:"lexical"`
	Semantic  float64 `json:"semantic"`
	Relevance float64 `json:"relevance"`
	Keyword   float64 `json:"keyword"`
	Final     float64 `json:"final"`
	Label     Label   `json:"label"`
}

// Round returns a copy with every score rounded to the given number of decimals.
func (s Scores) Round(places int) Scores {
	return Scores{
		Lexical:   RoundTo(s.Lexical, places),
		Semantic:  RoundTo(s.Semantic, places),
		Relevance: RoundTo(s.Relevance, places),
		Keyword:   RoundTo(s.Keyword, places),
		Final:     RoundTo(s.Final, places),
		Label:     s.Label,
	}
}

// RoundTo rounds half away from zero.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
