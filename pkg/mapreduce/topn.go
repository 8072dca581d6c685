package mapreduce

import (
	"fmt"
	"sort"
	"strings"
)

// isValidKeyword filters obviously broken tokens that survive extraction:
// unmatched delimiters, trailing separators, unbalanced quotes. Keeps
// technical terms like x_train.
func isValidKeyword(word string) bool {
	if strings.HasSuffix(word, ":") || strings.HasSuffix(word, "=") {
		return false
	}

	if strings.Contains(word, "(") && !strings.Contains(word, ")") {
		return false
	}
	if strings.Contains(word, "[") && !strings.Contains(word, "]") {
		return false
	}
	if strings.Contains(word, "{") && !strings.Contains(word, "}") {
		return false
	}

	if strings.Count(word, "\"")%2 != 0 {
		return false
	}
	if strings.Count(word, "'")%2 != 0 {
		return false
	}

	return true
}

// TopKeywords returns the top N keywords from aggregated word counts as
// "word:count" strings (e.g., "invoice:1153").
func TopKeywords(wordCounts map[string]int, n int) []string {
	type kv struct {
		Key   string
		Value int
	}

	var ss []kv
	for k, v := range wordCounts {
		if isValidKeyword(k) {
			ss = append(ss, kv{k, v})
		}
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value == ss[j].Value {
			return ss[i].Key < ss[j].Key
		}
		return ss[i].Value > ss[j].Value
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}

	keywords := make([]string, limit)
	for i := 0; i < limit; i++ {
		keywords[i] = fmt.Sprintf("%s:%d", ss[i].Key, ss[i].Value)
	}

	return keywords
}

// PrintTopKeywords prints the top N keywords in a numbered list format.
func PrintTopKeywords(wordCounts map[string]int, n int) {
	for i, kw := range TopKeywords(wordCounts, n) {
		sep := strings.LastIndex(kw, ":")
		fmt.Printf("%d. %s: %s\n", i+1, kw[:sep], kw[sep+1:])
	}
}
