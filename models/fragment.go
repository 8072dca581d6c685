// Package models defines data structures shared across the tagging pipeline.
package models

import "strings"

// Fragment is a single unit of content extracted from a PDF: a paragraph,
// a heading candidate, or a flattened table. Fragments are immutable once
// extracted.
type Fragment struct {
	Content      string `json:"content"`
	DetectedType string `json:"detected_type"` // "paragraph", "heading", "table", ...
	Page         int    `json:"page"`          // 1-based

	// Table is set only for table fragments: rows of cell text.
	Table [][]string `json:"table,omitempty"`
}

// WordCount returns the number of whitespace-separated words in the fragment.
func (f Fragment) WordCount() int {
	return len(strings.Fields(f.Content))
}

// Preview returns the first n characters of the content for logging.
func (f Fragment) Preview(n int) string {
	if len(f.Content) <= n {
		return f.Content
	}
	return f.Content[:n] + "..."
}
