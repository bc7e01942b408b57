package lexical

import (
	"regexp"
	"strings"
)

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lowercases text and returns its word tokens. Single characters
// and punctuation are dropped.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Fields lowercases text and splits it on whitespace only. Punctuation stays
// attached to the token ("kubernetes," is not "kubernetes").
func Fields(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// FieldSet is Fields collected into a set.
func FieldSet(text string) map[string]struct{} {
	fields := Fields(text)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// NGrams drops stopwords from tokens and returns the word n-grams of length
// minN..maxN over what remains, shorter grams first. Grams are space-joined.
func NGrams(tokens []string, stop StopSet, minN, maxN int) []string {
	kept := tokens
	if len(stop) > 0 {
		kept = make([]string, 0, len(tokens))
		for _, t := range tokens {
			if !stop.Contains(t) {
				kept = append(kept, t)
			}
		}
	}

	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}

	var grams []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(kept); i++ {
			if n == 1 {
				grams = append(grams, kept[i])
				continue
			}
			grams = append(grams, strings.Join(kept[i:i+n], " "))
		}
	}
	return grams
}
