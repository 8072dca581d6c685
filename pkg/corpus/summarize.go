package corpus

import (
	"database/sql"
	"fmt"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	dbpkg "github.com/dtnitsch/llm-pdf-tagger/pkg/db"
)

// SummarizeResponse is the data returned by SUMMARIZE verb: corpus-level
// aggregates over the matched documents.
type SummarizeResponse struct {
	Filter         string         `json:"filter,omitempty"`
	DocCount       int            `json:"doc_count"`
	TotalPages     int            `json:"total_pages"`
	TotalFragments int            `json:"total_fragments"`
	TotalHeadings  int            `json:"total_headings"`
	TotalTables    int            `json:"total_tables"`
	Languages      map[string]int `json:"languages,omitempty"`
}

// ExecuteSummarize aggregates structure counts across documents, optionally
// scoped to a session and a filter.
func ExecuteSummarize(db *dbpkg.DB, filter string, session int) (models.Response, error) {
	filterResult, err := ParseFilter(filter)
	if err != nil {
		return models.Response{
			Verb:       VerbSUMMARIZE,
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

	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(page_count), 0),
		       COALESCE(SUM(fragment_count), 0),
		       COALESCE(SUM(heading_count), 0),
		       COALESCE(SUM(table_count), 0)
		FROM documents WHERE ` + filterResult.WhereClause
	args := filterResult.Args

	if session > 0 {
		query = `
			SELECT COUNT(DISTINCT d.doc_id),
			       COALESCE(SUM(d.page_count), 0),
			       COALESCE(SUM(d.fragment_count), 0),
			       COALESCE(SUM(d.heading_count), 0),
			       COALESCE(SUM(d.table_count), 0)
			FROM documents d
			JOIN session_documents sd ON d.doc_id = sd.doc_id
			WHERE sd.session_id = ? AND (` + filterResult.WhereClause + `)`
		args = append([]interface{}{session}, filterResult.Args...)
	}

	data := SummarizeResponse{Filter: filter}
	err = db.QueryRow(query, args...).Scan(
		&data.DocCount,
		&data.TotalPages,
		&data.TotalFragments,
		&data.TotalHeadings,
		&data.TotalTables,
	)
	if err != nil {
		return models.Response{}, fmt.Errorf("summarize query failed: %w", err)
	}

	languages, err := languageBreakdown(db, filterResult, session)
	if err != nil {
		return models.Response{}, err
	}
	data.Languages = languages

	// Get total count for coverage calculation
	var totalCount int
	if session > 0 {
		err = db.QueryRow("SELECT COUNT(DISTINCT doc_id) FROM session_documents WHERE session_id = ?", session).Scan(&totalCount)
	} else {
		err = db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&totalCount)
	}
	if err != nil {
		totalCount = 0 // Non-fatal
	}

	coverage := 0.0
	if totalCount > 0 {
		coverage = float64(data.DocCount) / float64(totalCount)
	}

	return models.Response{
		Verb:       VerbSUMMARIZE,
		Data:       data,
		Confidence: calculateConfidence(filterResult.WhereClause),
		Coverage:   coverage,
		Unknowns:   []string{},
	}, nil
}

func languageBreakdown(db *dbpkg.DB, filterResult *FilterResult, session int) (map[string]int, error) {
	query := `
		SELECT language, COUNT(*)
		FROM documents
		WHERE language IS NOT NULL AND (` + filterResult.WhereClause + `)
		GROUP BY language`
	args := filterResult.Args

	if session > 0 {
		query = `
			SELECT d.language, COUNT(DISTINCT d.doc_id)
			FROM documents d
			JOIN session_documents sd ON d.doc_id = sd.doc_id
			WHERE sd.session_id = ? AND d.language IS NOT NULL AND (` + filterResult.WhereClause + `)
			GROUP BY d.language`
		args = append([]interface{}{session}, filterResult.Args...)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("language breakdown failed: %w", err)
	}
	defer rows.Close()

	languages := make(map[string]int)
	for rows.Next() {
		var lang sql.NullString
		var count int
		if err := rows.Scan(&lang, &count); err != nil {
			return nil, fmt.Errorf("language scan failed: %w", err)
		}
		if lang.Valid && lang.String != "" {
			languages[lang.String] = count
		}
	}
	if len(languages) == 0 {
		return nil, nil
	}
	return languages, nil
}
