package corpus

import (
	"fmt"
	"strings"

	dbpkg "github.com/dtnitsch/llm-pdf-tagger/pkg/db"
)

// SessionStats holds statistics about a session for generating suggestions.
type SessionStats struct {
	TotalDocs    int
	Languages    map[string]int // language -> count
	WithTables   int
	WithHeadings int
}

// SuggestFromSession generates query suggestions based on session contents.
func SuggestFromSession(sessionID int64) (string, error) {
	db, err := openDB()
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	stats, err := getSessionStats(db, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to get session stats: %w", err)
	}

	return formatSuggestions(sessionID, stats), nil
}

// getSessionStats queries database for session statistics.
func getSessionStats(db *dbpkg.DB, sessionID int64) (*SessionStats, error) {
	stats := &SessionStats{
		Languages: make(map[string]int),
	}

	err := db.QueryRow(`
		SELECT COUNT(DISTINCT doc_id)
		FROM session_documents
		WHERE session_id = ?
	`, sessionID).Scan(&stats.TotalDocs)
	if err != nil {
		return nil, fmt.Errorf("failed to get total documents: %w", err)
	}

	rows, err := db.Query(`
		SELECT d.language, COUNT(*)
		FROM documents d
		JOIN session_documents sd ON d.doc_id = sd.doc_id
		WHERE sd.session_id = ? AND d.language IS NOT NULL
		GROUP BY d.language
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get languages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var language string
		var count int
		if err := rows.Scan(&language, &count); err != nil {
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		stats.Languages[language] = count
	}

	err = db.QueryRow(`
		SELECT
			COUNT(CASE WHEN d.table_count > 0 THEN 1 END),
			COUNT(CASE WHEN d.heading_count > 0 THEN 1 END)
		FROM documents d
		JOIN session_documents sd ON d.doc_id = sd.doc_id
		WHERE sd.session_id = ?
	`, sessionID).Scan(
		&stats.WithTables,
		&stats.WithHeadings,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get structure flags: %w", err)
	}

	return stats, nil
}

// formatSuggestions generates human-readable suggestions.
func formatSuggestions(sessionID int64, stats *SessionStats) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\n📊 Session %d Analysis:\n", sessionID))
	sb.WriteString(fmt.Sprintf("  %d PDFs tagged\n", stats.TotalDocs))

	if len(stats.Languages) > 0 {
		for language, count := range stats.Languages {
			pct := float64(count) / float64(stats.TotalDocs) * 100
			sb.WriteString(fmt.Sprintf("  %d in %s (%.0f%%)\n", count, language, pct))
		}
	}

	if stats.WithTables > 0 {
		sb.WriteString(fmt.Sprintf("  %d with tables\n", stats.WithTables))
	}
	if stats.WithHeadings > 0 {
		sb.WriteString(fmt.Sprintf("  %d with headings\n", stats.WithHeadings))
	}

	sb.WriteString("\n💡 Suggested queries:\n")

	suggestions := generateSuggestions(sessionID, stats)
	for _, suggestion := range suggestions {
		sb.WriteString(fmt.Sprintf("  %s\n", suggestion))
	}

	sb.WriteString("\nAdvanced: lpt corpus --help\n")

	return sb.String()
}

// generateSuggestions creates query suggestions based on stats.
func generateSuggestions(sessionID int64, stats *SessionStats) []string {
	var suggestions []string

	if stats.TotalDocs > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("lpt corpus distribution --session=%d", sessionID))

		topKeyword := getTopKeywordForSession(sessionID)
		if topKeyword != "" {
			suggestions = append(suggestions,
				fmt.Sprintf("lpt corpus query --session=%d --filter=\"keyword:%s\"  # Find %s content", sessionID, topKeyword, topKeyword))
		}

		for language := range stats.Languages {
			suggestions = append(suggestions,
				fmt.Sprintf("lpt corpus query --session=%d --filter=\"language=%s\"", sessionID, language))
		}

		if stats.WithTables > 0 {
			suggestions = append(suggestions,
				fmt.Sprintf("lpt corpus query --session=%d --filter=\"has_tables\"", sessionID))
		}

		if topKeyword != "" && stats.WithTables > 0 {
			suggestions = append(suggestions,
				fmt.Sprintf("lpt corpus query --session=%d --filter=\"keyword:%s AND has_tables\"", sessionID, topKeyword))
		}
	}

	// Limit to top 6 suggestions
	if len(suggestions) > 6 {
		suggestions = suggestions[:6]
	}

	return suggestions
}

// getTopKeywordForSession retrieves the most common keyword from the session.
func getTopKeywordForSession(sessionID int64) string {
	db, err := openDB()
	if err != nil {
		return ""
	}
	defer db.Close()

	var topKeywords string
	err = db.QueryRow(`
		SELECT d.top_keywords
		FROM documents d
		JOIN session_documents sd ON d.doc_id = sd.doc_id
		WHERE sd.session_id = ? AND d.top_keywords IS NOT NULL
		LIMIT 1
	`, sessionID).Scan(&topKeywords)

	if err != nil || topKeywords == "" {
		return ""
	}

	// Parse JSON array: ["budget:97","revenue:12",...]
	// Simple parsing: find first "word:count" pattern
	if len(topKeywords) < 5 {
		return ""
	}

	topKeywords = strings.TrimPrefix(topKeywords, "[\"")

	colonIdx := strings.Index(topKeywords, ":")
	if colonIdx == -1 {
		return ""
	}

	return topKeywords[:colonIdx]
}
