package segment

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// dataKeywords is the vocabulary of data-related terms the relationship
// mapper scores keyword overlap against.
var dataKeywords = map[string]bool{
	"figure": true, "chart": true, "graph": true, "table": true,
	"diagram": true, "plot": true, "analysis": true, "results": true,
	"data": true, "statistics": true, "percentage": true, "ratio": true,
	"correlation": true, "trend": true, "comparison": true,
	"distribution": true, "frequency": true, "average": true, "median": true,
}

// stopwords are common terms excluded from keyword extraction
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "this": true,
	"that": true, "with": true, "have": true, "from": true, "they": true,
	"been": true, "were": true, "which": true, "their": true, "will": true,
	"would": true, "there": true, "these": true, "than": true, "into": true,
	"also": true, "such": true, "when": true, "where": true, "while": true,
}

// diacriticStripper removes combining marks after NFD decomposition, so
// accented terms tokenize the same as their plain forms.
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// ExtractKeywords returns the deduplicated data-related keywords found in
// text, lowercased and in order of first appearance.
func ExtractKeywords(text string) []string {
	var keywords []string
	seen := make(map[string]bool)

	for _, token := range tokenize(text) {
		if len(token) < 3 || stopwords[token] || !dataKeywords[token] {
			continue
		}
		if !seen[token] {
			seen[token] = true
			keywords = append(keywords, token)
		}
	}

	return keywords
}

// tokenize lowercases, strips diacritics, and splits on non-alphanumeric runes
func tokenize(text string) []string {
	normalized, _, err := transform.String(diacriticStripper, text)
	if err != nil {
		normalized = text
	}

	return strings.FieldsFunc(strings.ToLower(normalized), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
