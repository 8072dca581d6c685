package corpus

import (
	"database/sql"
	"fmt"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	dbpkg "github.com/dtnitsch/llm-pdf-tagger/pkg/db"
)

// QueryResult represents a single document matching the query.
type QueryResult struct {
	DocID              int64   `json:"doc_id"`
	Path               string  `json:"path"`
	PageCount          int     `json:"page_count"`
	FragmentCount      int     `json:"fragment_count"`
	HeadingCount       int     `json:"heading_count"`
	TableCount         int     `json:"table_count"`
	Language           string  `json:"language,omitempty"`
	LanguageConfidence float64 `json:"language_confidence,omitempty"`
}

// QueryResponse is the data returned by QUERY verb.
type QueryResponse struct {
	Filter      string        `json:"filter"`
	MatchCount  int           `json:"match_count"`
	TotalCount  int           `json:"total_count"`
	Matches     []QueryResult `json:"matches"`
	WhereClause string        `json:"where_clause,omitempty"` // For debugging
}

// ExecuteQuery runs a metadata query against the database.
func ExecuteQuery(db *dbpkg.DB, filter string, session int) (models.Response, error) {
	filterResult, err := ParseFilter(filter)
	if err != nil {
		return models.Response{
			Verb:       VerbQUERY,
			Data:       nil,
			Confidence: 0.0,
			Coverage:   0.0,
			Unknowns:   []string{},
			Error: &models.ErrorInfo{
				Type:             "filter_parse_error",
				Message:          fmt.Sprintf("Failed to parse filter: %v", err),
				SuggestedActions: []string{"Check filter syntax", "Run 'lpt corpus --help' for examples"},
			},
		}, nil
	}

	baseQuery := "SELECT doc_id, path, page_count, fragment_count, heading_count, table_count, language, language_confidence FROM documents"

	var whereClause string
	var args []interface{}

	// Add session filter if specified
	if session > 0 {
		baseQuery = `
			SELECT DISTINCT d.doc_id, d.path, d.page_count, d.fragment_count,
			       d.heading_count, d.table_count, d.language, d.language_confidence
			FROM documents d
			JOIN session_documents sd ON d.doc_id = sd.doc_id
			WHERE sd.session_id = ?`
		args = append(args, session)

		if filterResult.WhereClause != "1=1" {
			whereClause = " AND (" + filterResult.WhereClause + ")"
			args = append(args, filterResult.Args...)
		}
	} else {
		whereClause = " WHERE " + filterResult.WhereClause
		args = filterResult.Args
	}

	query := baseQuery + whereClause

	rows, err := db.Query(query, args...)
	if err != nil {
		return models.Response{}, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	var matches []QueryResult
	for rows.Next() {
		var m QueryResult
		var language sql.NullString
		var languageConfidence sql.NullFloat64

		err := rows.Scan(
			&m.DocID,
			&m.Path,
			&m.PageCount,
			&m.FragmentCount,
			&m.HeadingCount,
			&m.TableCount,
			&language,
			&languageConfidence,
		)
		if err != nil {
			return models.Response{}, fmt.Errorf("row scan failed: %w", err)
		}

		if language.Valid {
			m.Language = language.String
		}
		if languageConfidence.Valid {
			m.LanguageConfidence = languageConfidence.Float64
		}

		matches = append(matches, m)
	}

	// Get total count for coverage calculation
	var totalCount int
	countQuery := "SELECT COUNT(*) FROM documents"
	if session > 0 {
		countQuery = "SELECT COUNT(DISTINCT doc_id) FROM session_documents WHERE session_id = ?"
		err = db.QueryRow(countQuery, session).Scan(&totalCount)
	} else {
		err = db.QueryRow(countQuery).Scan(&totalCount)
	}
	if err != nil {
		totalCount = 0 // Non-fatal
	}

	confidence := calculateConfidence(filterResult.WhereClause)
	coverage := 0.0
	if totalCount > 0 {
		coverage = float64(len(matches)) / float64(totalCount)
	}

	responseData := QueryResponse{
		Filter:      filter,
		MatchCount:  len(matches),
		TotalCount:  totalCount,
		Matches:     matches,
		WhereClause: filterResult.WhereClause, // For debugging
	}

	return models.Response{
		Verb:       VerbQUERY,
		Data:       responseData,
		Confidence: confidence,
		Coverage:   coverage,
		Unknowns:   []string{},
	}, nil
}

// calculateConfidence estimates confidence based on filter complexity.
// Simple filters = high confidence, complex filters = lower confidence.
func calculateConfidence(whereClause string) float64 {
	confidence := 0.95

	if hasAny(whereClause, ">", "<", ">=", "<=") {
		confidence -= 0.05
	}

	andCount := countOccurrences(whereClause, " AND ")
	orCount := countOccurrences(whereClause, " OR ")
	confidence -= float64(andCount) * 0.03
	confidence -= float64(orCount) * 0.05

	if confidence < 0.6 {
		confidence = 0.6
	}

	return confidence
}

func hasAny(s string, substrs ...string) bool {
	for _, substr := range substrs {
		if contains(s, substr) {
			return true
		}
	}
	return false
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || findSubstring(s, substr))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			count++
			i += len(substr) - 1
		}
	}
	return count
}
