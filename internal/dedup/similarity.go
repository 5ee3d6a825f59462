package dedup

import (
	"strings"
	"unicode"
)

// titleNoiseWords are seniority and filler tokens stripped before comparing
// titles, so "Senior Backend Engineer (Remote)" and "Backend Engineer" key
// the same.
var titleNoiseWords = map[string]bool{
	"senior": true, "sr": true, "junior": true, "jr": true, "staff": true,
	"principal": true, "lead": true, "mid": true, "level": true,
	"i": true, "ii": true, "iii": true, "iv": true,
	"remote": true, "hybrid": true, "onsite": true,
	"urgent": true, "hiring": true, "new": true,
}

// NormalizeTitle lowercases a job title, strips punctuation and noise words,
// and collapses whitespace into a stable comparison key.
func NormalizeTitle(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}

	var kept []string
	for _, word := range strings.Fields(sb.String()) {
		if !titleNoiseWords[word] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// normalizeKey builds a loose comparison key for company and location values.
func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// tokenize splits a description into a set of lowercase word tokens. Short
// tokens carry no signal and are dropped.
func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			continue
		}
		if sb.Len() >= 3 {
			tokens[sb.String()] = true
		}
		sb.Reset()
	}
	if sb.Len() >= 3 {
		tokens[sb.String()] = true
	}
	return tokens
}

// DescriptionSimilarity computes the token-overlap ratio between two job
// descriptions: |intersection| / |smaller set|, in [0,1]. Using the smaller
// set keeps the ratio meaningful when one board truncates the description.
func DescriptionSimilarity(a, b string) float64 {
	ta := tokenize(a)
	tb := tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	if len(tb) < len(ta) {
		ta, tb = tb, ta
	}
	shared := 0
	for tok := range ta {
		if tb[tok] {
			shared++
		}
	}
	return float64(shared) / float64(len(ta))
}
