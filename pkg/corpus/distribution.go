package corpus

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	dbpkg "github.com/dtnitsch/llm-pdf-tagger/pkg/db"
)

// TagCount is one tag type with its aggregated occurrence count.
type TagCount struct {
	TagType string `json:"tag_type"`
	Count   int    `json:"count"`
}

// DistributionResponse is the data returned by DISTRIBUTION verb: tag type
// counts summed across the matched documents, plus the shared cache's view.
type DistributionResponse struct {
	Filter     string     `json:"filter,omitempty"`
	DocCount   int        `json:"doc_count"`
	TotalTags  int        `json:"total_tags"`
	TagCounts  []TagCount `json:"tag_counts"`
	CacheTypes []TagCount `json:"cache_types,omitempty"` // Distinct fingerprints per tag type
}

// ExecuteDistribution aggregates per-document tag distributions, optionally
// scoped to a session and a filter.
func ExecuteDistribution(db *dbpkg.DB, filter string, session int) (models.Response, error) {
	filterResult, err := ParseFilter(filter)
	if err != nil {
		return models.Response{
			Verb:       VerbDISTRIBUTION,
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

	query := "SELECT tag_distribution FROM documents WHERE " + filterResult.WhereClause
	args := filterResult.Args

	if session > 0 {
		query = `
			SELECT d.tag_distribution
			FROM documents d
			JOIN session_documents sd ON d.doc_id = sd.doc_id
			WHERE sd.session_id = ? AND (` + filterResult.WhereClause + `)`
		args = append([]interface{}{session}, filterResult.Args...)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return models.Response{}, fmt.Errorf("distribution query failed: %w", err)
	}
	defer rows.Close()

	merged := make(map[string]int)
	docCount := 0
	var unknowns []string

	for rows.Next() {
		var raw sql.NullString
		if err := rows.Scan(&raw); err != nil {
			return models.Response{}, fmt.Errorf("distribution scan failed: %w", err)
		}
		docCount++
		if !raw.Valid || raw.String == "" {
			continue
		}

		var dist map[string]int
		if err := json.Unmarshal([]byte(raw.String), &dist); err != nil {
			// One bad row shouldn't sink the aggregate
			unknowns = append(unknowns, "unreadable tag_distribution row")
			continue
		}
		for tagType, count := range dist {
			merged[tagType] += count
		}
	}

	data := DistributionResponse{
		Filter:    filter,
		DocCount:  docCount,
		TagCounts: sortedTagCounts(merged),
	}
	for _, tc := range data.TagCounts {
		data.TotalTags += tc.Count
	}

	// The cache's own per-type counts give the distinct-content view.
	cacheCounts, err := db.TagTypeCounts()
	if err == nil && len(cacheCounts) > 0 {
		converted := make(map[string]int, len(cacheCounts))
		for tagType, count := range cacheCounts {
			converted[tagType] = int(count)
		}
		data.CacheTypes = sortedTagCounts(converted)
	}

	if unknowns == nil {
		unknowns = []string{}
	}

	return models.Response{
		Verb:       VerbDISTRIBUTION,
		Data:       data,
		Confidence: calculateConfidence(filterResult.WhereClause),
		Coverage:   1.0,
		Unknowns:   unknowns,
	}, nil
}

func sortedTagCounts(counts map[string]int) []TagCount {
	out := make([]TagCount, 0, len(counts))
	for tagType, count := range counts {
		out = append(out, TagCount{TagType: tagType, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].TagType < out[j].TagType
	})
	return out
}
