// Package analytics computes word-frequency keywords and classifier cost
// estimates for tagged documents.
package analytics

import (
	"sort"
	"strings"
)

type Analytics struct{}

// commonWords is a map of frequently occurring words that should be ignored
// in frequency analysis. This list can be extended as needed.
var commonWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"all": {}, "also": {}, "although": {}, "always": {}, "am": {}, "among": {},
	"an": {}, "and": {}, "another": {}, "any": {}, "are": {}, "as": {}, "at": {},

	"be": {}, "became": {}, "because": {}, "become": {}, "been": {}, "before": {},
	"behind": {}, "being": {}, "below": {}, "between": {}, "beyond": {},
	"both": {}, "but": {}, "by": {},

	"can": {}, "cannot": {}, "could": {},

	"did": {}, "do": {}, "does": {}, "doing": {}, "done": {}, "down": {},
	"during": {},

	"each": {}, "either": {}, "else": {}, "enough": {}, "etc": {}, "even": {},
	"ever": {}, "every": {},

	"few": {}, "for": {}, "from": {}, "further": {},

	"had": {}, "has": {}, "have": {}, "having": {}, "he": {}, "hence": {},
	"her": {}, "here": {}, "hers": {}, "herself": {}, "him": {}, "himself": {},
	"his": {}, "how": {}, "however": {},

	"i": {}, "if": {}, "in": {}, "indeed": {}, "into": {}, "is": {}, "it": {},
	"its": {}, "itself": {},

	"just": {},

	"least": {}, "less": {}, "like": {},

	"made": {}, "make": {}, "many": {}, "may": {}, "me": {}, "might": {},
	"more": {}, "most": {}, "much": {}, "must": {}, "my": {}, "myself": {},

	"neither": {}, "never": {}, "no": {}, "none": {}, "nor": {}, "not": {},
	"nothing": {}, "now": {},

	"of": {}, "off": {}, "often": {}, "on": {}, "once": {}, "one": {},
	"only": {}, "onto": {}, "or": {}, "other": {}, "otherwise": {}, "our": {},
	"ours": {}, "ourselves": {}, "out": {}, "over": {}, "own": {},

	"per": {}, "perhaps": {},

	"rather": {},

	"same": {}, "she": {}, "should": {}, "since": {}, "so": {}, "some": {},
	"such": {},

	"than": {}, "that": {}, "the": {}, "their": {}, "theirs": {}, "them": {},
	"themselves": {}, "then": {}, "there": {}, "therefore": {}, "these": {},
	"they": {}, "this": {}, "those": {}, "through": {}, "thus": {}, "to": {},
	"too": {}, "toward": {}, "towards": {},

	"under": {}, "until": {}, "up": {}, "upon": {}, "us": {}, "use": {},

	"very": {}, "via": {},

	"was": {}, "we": {}, "well": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "whether": {}, "which": {}, "while": {}, "who": {},
	"whose": {}, "why": {}, "will": {}, "with": {}, "within": {},
	"without": {}, "would": {},

	"yet": {}, "you": {}, "your": {}, "yours": {}, "yourself": {},

	// Common PDF boilerplate noise words
	"page": {}, "pages": {}, "continued": {}, "figure": {}, "table": {},
	"chapter": {}, "section": {}, "appendix": {}, "copyright": {},
	"reserved": {}, "rights": {}, "confidential": {}, "draft": {},
}

// IsStopword checks if a word is a common stopword that should be filtered out.
func IsStopword(word string) bool {
	_, exists := commonWords[strings.ToLower(word)]
	return exists
}

// WordFrequency counts cleaned, non-stopword tokens in fragment text.
func (a *Analytics) WordFrequency(text string) map[string]int {
	words := strings.Fields(strings.ToLower(text)) // strings.Fields handles multiple spaces and newlines
	frequencies := make(map[string]int)

	for _, word := range words {
		// Remove punctuation from words
		word = strings.TrimFunc(word, func(r rune) bool {
			// Keep only lowercase letters and numbers
			return ('a' > r || r > 'z') && ('0' > r || r > '9')
		})

		// Skip if it's a common word or empty after cleaning
		if _, exists := commonWords[word]; exists || word == "" {
			continue
		}

		frequencies[word]++
	}

	return frequencies
}

type wordCount struct {
	Word  string
	Count int
}

// TopNWords returns the n most frequent non-stopword tokens in text.
func (a *Analytics) TopNWords(text string, n int) []string {
	frequencies := a.WordFrequency(text)

	counts := make([]wordCount, 0, len(frequencies))
	for k, v := range frequencies {
		counts = append(counts, wordCount{k, v})
	}

	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	limit := n
	if len(counts) < n {
		limit = len(counts)
	}

	topN := make([]string, limit)
	for i := 0; i < limit; i++ {
		topN[i] = counts[i].Word
	}

	return topN
}
