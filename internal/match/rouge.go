package match

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/unicode/norm"
)

// RougeL scores a candidate against a reference with the ROUGE-L F-measure.
//
// Both texts are NFKC-normalized, lowercased, split into word tokens, and
// stemmed before the longest common subsequence is computed. Stemming makes
// inflection variants ("slept"/"sleep", "cats"/"cat") count as overlap, which
// is what makes the metric useful for ranking sentences against a short clue.
type RougeL struct{}

// Score implements Scorer.
//
// With lcs = LCS length over stemmed token sequences:
//
//	precision = lcs / len(candidate tokens)
//	recall    = lcs / len(reference tokens)
//	score     = harmonic mean of the two
//
// Either side tokenizing to nothing scores 0.
func (RougeL) Score(candidate, reference string) float64 {
	cand := tokenize(candidate)
	ref := tokenize(reference)
	if len(cand) == 0 || len(ref) == 0 {
		return 0
	}

	lcs := lcsLength(cand, ref)
	if lcs == 0 {
		return 0
	}

	precision := float64(lcs) / float64(len(cand))
	recall := float64(lcs) / float64(len(ref))
	return 2 * precision * recall / (precision + recall)
}

// tokenize produces stemmed, lowercased word tokens.
func tokenize(text string) []string {
	text = norm.NFKC.String(strings.ToLower(text))
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, w := range words {
		words[i] = english.Stem(w, false)
	}
	return words
}

// lcsLength computes the longest-common-subsequence length of two token
// sequences with a two-row dynamic program.
func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
